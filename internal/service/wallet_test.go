package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"buildnchill-server/internal/events"
	"buildnchill-server/internal/model"
	"buildnchill-server/internal/repository"
)

func newWalletService(t *testing.T) (WalletService, string) {
	t.Helper()

	db := newTestDB(t)
	bus := events.NewBus()
	t.Cleanup(bus.Close)

	svc := NewWalletService(db, repository.NewWalletRepository(db), bus, zap.NewNop())
	return svc, uuid.NewString()
}

func TestBalanceStartsAtZero(t *testing.T) {
	svc, userID := newWalletService(t)

	balance, err := svc.Balance(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestAdminAdjustWritesLedgerRow(t *testing.T) {
	svc, userID := newWalletService(t)

	require.NoError(t, svc.AdminAdjust(context.Background(), userID, 100000, "hoàn tiền đơn lỗi"))

	balance, err := svc.Balance(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), balance)

	txns, err := svc.Transactions(context.Background(), userID, 10)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, model.TxTypeAdminAdjustment, txns[0].Type)
	assert.Equal(t, "hoàn tiền đơn lỗi", txns[0].Note)
}

func TestAdminAdjustMayDriveBalanceNegative(t *testing.T) {
	svc, userID := newWalletService(t)

	require.NoError(t, svc.AdminAdjust(context.Background(), userID, -30000, "thu hồi khuyến mãi"))

	balance, err := svc.Balance(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(-30000), balance)
}

func TestAdminAdjustRequiresAmountAndNote(t *testing.T) {
	svc, userID := newWalletService(t)

	assert.ErrorIs(t, svc.AdminAdjust(context.Background(), userID, 0, "note"), ErrZeroAmount)
	assert.ErrorIs(t, svc.AdminAdjust(context.Background(), userID, 1000, ""), ErrInvalidNote)
}

func TestDebitEnforcesFunds(t *testing.T) {
	svc, userID := newWalletService(t)
	require.NoError(t, svc.AdminAdjust(context.Background(), userID, 50000, "nạp thử"))

	err := svc.Debit(context.Background(), userID, 60000, "Rank VIP")
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// A failed debit leaves the balance and ledger untouched.
	balance, err := svc.Balance(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), balance)

	txns, err := svc.Transactions(context.Background(), userID, 10)
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

func TestDebitConcurrentSpendsCannotOverdraw(t *testing.T) {
	svc, userID := newWalletService(t)
	require.NoError(t, svc.AdminAdjust(context.Background(), userID, 50000, "nạp thử"))

	start := make(chan struct{})
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			<-start
			errs <- svc.Debit(context.Background(), userID, 30000, "Rank VIP")
		}()
	}
	close(start)

	var won, lost int
	for i := 0; i < 2; i++ {
		switch err := <-errs; {
		case err == nil:
			won++
		case errors.Is(err, ErrInsufficientBalance):
			lost++
		default:
			t.Fatalf("unexpected Debit error: %v", err)
		}
	}
	assert.Equal(t, 1, won, "exactly one debit may land on a 50000 balance")
	assert.Equal(t, 1, lost)

	balance, err := svc.Balance(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), balance)

	txns, err := svc.Transactions(context.Background(), userID, 10)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, model.TxTypePurchase, txns[0].Type)
}

func TestDebitChargesExactAmount(t *testing.T) {
	svc, userID := newWalletService(t)
	require.NoError(t, svc.AdminAdjust(context.Background(), userID, 50000, "nạp thử"))

	require.NoError(t, svc.Debit(context.Background(), userID, 50000, "Rank VIP"))

	balance, err := svc.Balance(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	txns, err := svc.Transactions(context.Background(), userID, 10)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, int64(-50000), txns[0].Amount)
	assert.Equal(t, model.TxTypePurchase, txns[0].Type)
}
