package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"buildnchill-server/internal/dto"
	"buildnchill-server/internal/events"
	"buildnchill-server/internal/helpers"
	"buildnchill-server/internal/model"
	"buildnchill-server/internal/repository"
)

type orderFixture struct {
	db      *gorm.DB
	svc     OrderService
	wallet  WalletService
	discord *fakeDiscord
	orders  repository.OrderRepository
	cmds    repository.CommandRepository
	product *model.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	db := newTestDB(t)
	discord := &fakeDiscord{nextID: "4242"}
	bus := events.NewBus()
	t.Cleanup(bus.Close)

	orders := repository.NewOrderRepository(db)
	products := repository.NewProductRepository(db)
	cmds := repository.NewCommandRepository(db)

	product := &model.Product{
		ID:         uuid.NewString(),
		CategoryID: uuid.NewString(),
		Name:       "Rank VIP",
		Price:      150000,
		Command:    "lp user {username} parent set vip",
		Active:     true,
	}
	require.NoError(t, products.Create(context.Background(), product))

	wallet := NewWalletService(db, repository.NewWalletRepository(db), bus, zap.NewNop())
	svc := NewOrderService(orders, products, cmds, wallet, discord, bus, zap.NewNop(), "")
	return &orderFixture{db: db, svc: svc, wallet: wallet, discord: discord, orders: orders, cmds: cmds, product: product}
}

func (f *orderFixture) createOrder(t *testing.T) *model.Order {
	t.Helper()
	order, err := f.svc.Create(context.Background(), &dto.CreateOrderRequest{
		MCUsername:    "Steve",
		ProductID:     f.product.ID,
		PaymentMethod: model.PaymentMethodQR,
	})
	require.NoError(t, err)
	return order
}

func TestCreateOrderSubstitutesUsername(t *testing.T) {
	f := newOrderFixture(t)

	order := f.createOrder(t)

	assert.Equal(t, "lp user Steve parent set vip", order.Command)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, int64(150000), order.Price)
	assert.Equal(t, "Rank VIP", order.Product)
	assert.Nil(t, order.PaidAt)
}

func TestCreateOrderStoresDiscordMessageID(t *testing.T) {
	f := newOrderFixture(t)

	order := f.createOrder(t)

	require.Len(t, f.discord.created, 1)
	assert.Equal(t, "4242", helpers.ExtractMessageID(order.Notes))

	stored, err := f.orders.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "4242", helpers.ExtractMessageID(stored.Notes))
}

func TestCreateOrderSurvivesDiscordFailure(t *testing.T) {
	f := newOrderFixture(t)
	f.discord.createErr = assert.AnError

	order := f.createOrder(t)

	assert.Empty(t, helpers.ExtractMessageID(order.Notes))
}

func TestCreateOrderRejectsInactiveProduct(t *testing.T) {
	f := newOrderFixture(t)
	require.NoError(t, f.db.Model(&model.Product{}).
		Where("id = ?", f.product.ID).
		Update("active", false).Error)

	_, err := f.svc.Create(context.Background(), &dto.CreateOrderRequest{
		MCUsername: "Steve",
		ProductID:  f.product.ID,
	})
	assert.ErrorIs(t, err, ErrInvalidProduct)
}

func TestCreateOrderRequiresUsername(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.Create(context.Background(), &dto.CreateOrderRequest{
		MCUsername: "   ",
		ProductID:  f.product.ID,
	})
	assert.ErrorIs(t, err, ErrInvalidUsername)
}

func TestMarkPaidQueuesDeliveryCommands(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t)

	paid, err := f.svc.MarkPaid(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)

	pending, err := f.cmds.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "lp user Steve parent set vip", pending[0].Command)
	assert.Contains(t, pending[1].Command, "tellraw Steve ")
	assert.Contains(t, pending[1].Command, "Rank VIP")
	assert.Equal(t, "4242", pending[0].DiscordMessageID)

	// Status change edits the existing Discord message in place.
	assert.Equal(t, []string{"4242"}, f.discord.edited)
}

func TestMarkPaidTwiceIsRejected(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t)

	_, err := f.svc.MarkPaid(context.Background(), order.ID)
	require.NoError(t, err)

	_, err = f.svc.MarkPaid(context.Background(), order.ID)
	assert.ErrorIs(t, err, ErrAlreadyApplied)

	pending, err := f.cmds.ListPending(context.Background())
	require.NoError(t, err)
	assert.Len(t, pending, 2, "re-invoking paid must not duplicate queued commands")
}

func TestMarkPaidConcurrentAdminsEnqueueOnce(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t)

	start := make(chan struct{})
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			<-start
			_, err := f.svc.MarkPaid(context.Background(), order.ID)
			errs <- err
		}()
	}
	close(start)

	var won, lost int
	for i := 0; i < 2; i++ {
		switch err := <-errs; {
		case err == nil:
			won++
		case errors.Is(err, ErrAlreadyApplied):
			lost++
		default:
			t.Fatalf("unexpected MarkPaid error: %v", err)
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)

	pending, err := f.cmds.ListPending(context.Background())
	require.NoError(t, err)
	assert.Len(t, pending, 2, "the losing admin must not enqueue a second delivery")
}

func TestTransitionStatusOnlyFirstCallerWins(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t)

	fields := map[string]interface{}{"status": model.OrderStatusPaid}
	won, err := f.orders.TransitionStatus(context.Background(), order.ID, model.OrderStatusPending, fields)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = f.orders.TransitionStatus(context.Background(), order.ID, model.OrderStatusPending, fields)
	require.NoError(t, err)
	assert.False(t, won)
}

func TestPurchaseWithWalletDebitsAndDelivers(t *testing.T) {
	f := newOrderFixture(t)
	userID := uuid.NewString()
	require.NoError(t, f.wallet.AdminAdjust(context.Background(), userID, 200000, "nạp thử"))

	order, err := f.svc.PurchaseWithWallet(context.Background(), userID, &dto.CreateOrderRequest{
		MCUsername: "Steve",
		ProductID:  f.product.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPaid, order.Status)
	assert.Equal(t, model.PaymentMethodWallet, order.PaymentMethod)
	require.NotNil(t, order.PaidAt)

	balance, err := f.wallet.Balance(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), balance)

	pending, err := f.cmds.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "lp user Steve parent set vip", pending[0].Command)
}

func TestPurchaseWithWalletRejectsInsufficientBalance(t *testing.T) {
	f := newOrderFixture(t)
	userID := uuid.NewString()
	require.NoError(t, f.wallet.AdminAdjust(context.Background(), userID, 100000, "nạp thử"))

	_, err := f.svc.PurchaseWithWallet(context.Background(), userID, &dto.CreateOrderRequest{
		MCUsername: "Steve",
		ProductID:  f.product.ID,
	})
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	balance, err := f.wallet.Balance(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), balance)

	listed, err := f.svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestMarkDeliveredRequiresPaid(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t)

	_, err := f.svc.MarkDelivered(context.Background(), order.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMarkDeliveredSetsDeliveredFlag(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t)

	_, err := f.svc.MarkPaid(context.Background(), order.ID)
	require.NoError(t, err)

	delivered, err := f.svc.MarkDelivered(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, delivered.Status)
	assert.True(t, delivered.Delivered)

	_, err = f.svc.MarkDelivered(context.Background(), order.ID)
	assert.ErrorIs(t, err, ErrAlreadyApplied)
}

func TestMarkPaidCannotRegressDelivered(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t)

	_, err := f.svc.MarkPaid(context.Background(), order.ID)
	require.NoError(t, err)
	_, err = f.svc.MarkDelivered(context.Background(), order.ID)
	require.NoError(t, err)

	_, err = f.svc.MarkPaid(context.Background(), order.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMarkPaidFallsBackToNewMessageWhenEditFails(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t)
	f.discord.editErr = assert.AnError

	_, err := f.svc.MarkPaid(context.Background(), order.ID)
	require.NoError(t, err)

	// One embed from creation plus the fallback for the failed edit.
	assert.Len(t, f.discord.created, 2)
}

func TestSoftDeleteRetractsDiscordMessage(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t)

	require.NoError(t, f.svc.SoftDelete(context.Background(), order.ID))
	assert.Equal(t, []string{"4242"}, f.discord.deleted)

	listed, err := f.svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, listed)

	// Detail lookups still resolve a withdrawn order.
	got, err := f.svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)
}

func TestSoftDeleteIgnoresDiscordFailure(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t)
	f.discord.deleteErr = assert.AnError

	require.NoError(t, f.svc.SoftDelete(context.Background(), order.ID))
}
