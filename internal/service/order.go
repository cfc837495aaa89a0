package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"buildnchill-server/internal/client"
	"buildnchill-server/internal/dto"
	"buildnchill-server/internal/events"
	"buildnchill-server/internal/helpers"
	"buildnchill-server/internal/model"
	"buildnchill-server/internal/repository"
)

var (
	ErrInvalidUsername   = errors.New("mc_username is required")
	ErrInvalidProduct    = errors.New("product not found or not for sale")
	ErrInvalidTransition = errors.New("order status cannot move backwards")
	ErrAlreadyApplied    = errors.New("order is already in the requested status")
)

const (
	colorGold  = 16766720
	colorBlue  = 3447003
	colorGreen = 3066993
)

type OrderService interface {
	Create(ctx context.Context, req *dto.CreateOrderRequest) (*model.Order, error)
	// PurchaseWithWallet charges the buyer's wallet and records the order
	// as paid in one step; delivery commands are queued immediately.
	PurchaseWithWallet(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*model.Order, error)
	List(ctx context.Context, status string) ([]model.Order, error)
	Get(ctx context.Context, id string) (*model.Order, error)
	MarkPaid(ctx context.Context, id string) (*model.Order, error)
	MarkDelivered(ctx context.Context, id string) (*model.Order, error)
	SoftDelete(ctx context.Context, id string) error
	// PendingCommands lists what the in-game plugin has not executed yet.
	PendingCommands(ctx context.Context) ([]model.PendingCommand, error)
}

type orderServiceImpl struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	commandRepo repository.CommandRepository
	wallet      WalletService
	discord     client.DiscordClient
	bus         *events.Bus
	logger      *zap.Logger
	mentionID   string
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	commandRepo repository.CommandRepository,
	wallet WalletService,
	discord client.DiscordClient,
	bus *events.Bus,
	logger *zap.Logger,
	mentionID string,
) OrderService {
	return &orderServiceImpl{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		commandRepo: commandRepo,
		wallet:      wallet,
		discord:     discord,
		bus:         bus,
		logger:      logger,
		mentionID:   mentionID,
	}
}

// Create records a new pending order. The buyer's name is substituted into
// the product's command template at creation time so the stored command is
// self-contained. The Discord notification is best-effort: its failure never
// fails the order.
func (s *orderServiceImpl) Create(ctx context.Context, req *dto.CreateOrderRequest) (*model.Order, error) {
	username := strings.TrimSpace(req.MCUsername)
	if username == "" {
		return nil, ErrInvalidUsername
	}
	if req.PaymentMethod != model.PaymentMethodQR && req.PaymentMethod != model.PaymentMethodBank {
		req.PaymentMethod = model.PaymentMethodQR
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil || !product.Active || product.IsDeleted {
		return nil, ErrInvalidProduct
	}

	command := strings.ReplaceAll(product.Command, "{username}", username)
	command = strings.ReplaceAll(command, "{user_name}", username)

	order := &model.Order{
		ID:            uuid.NewString(),
		MCUsername:    username,
		ProductID:     product.ID,
		CategoryID:    product.CategoryID,
		Product:       product.Name,
		Command:       command,
		Price:         product.Price,
		Status:        model.OrderStatusPending,
		PaymentMethod: req.PaymentMethod,
		Notes:         `Người chơi đã bấm nút "Đã Thanh Toán" trên web`,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("store order: %w", err)
	}

	if messageID := s.notifyNewOrder(ctx, order); messageID != "" {
		order.Notes = helpers.AppendMessageID(order.Notes, messageID)
		if err := s.orderRepo.SetNotes(ctx, order.ID, order.Notes); err != nil {
			s.logger.Warn("save discord message id", zap.String("order_id", order.ID), zap.Error(err))
		}
	}

	s.bus.Publish(events.EntityOrders)
	return order, nil
}

// PurchaseWithWallet debits the balance first; the paid order is only
// recorded once the money is secured. A failed insert refunds the debit so
// the balance is never silently lost.
func (s *orderServiceImpl) PurchaseWithWallet(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*model.Order, error) {
	username := strings.TrimSpace(req.MCUsername)
	if username == "" {
		return nil, ErrInvalidUsername
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil || !product.Active || product.IsDeleted {
		return nil, ErrInvalidProduct
	}

	command := strings.ReplaceAll(product.Command, "{username}", username)
	command = strings.ReplaceAll(command, "{user_name}", username)

	if err := s.wallet.Debit(ctx, userID, product.Price, "Mua "+product.Name); err != nil {
		return nil, err
	}

	now := time.Now()
	order := &model.Order{
		ID:            uuid.NewString(),
		MCUsername:    username,
		ProductID:     product.ID,
		CategoryID:    product.CategoryID,
		Product:       product.Name,
		Command:       command,
		Price:         product.Price,
		Status:        model.OrderStatusPaid,
		PaidAt:        &now,
		PaymentMethod: model.PaymentMethodWallet,
		Notes:         "Thanh toán bằng số dư ví",
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		if rerr := s.wallet.AdminAdjust(ctx, userID, product.Price, "Hoàn tiền đơn lỗi "+helpers.OrderCode(order.ID)); rerr != nil {
			s.logger.Error("refund after failed wallet purchase",
				zap.String("order_id", order.ID), zap.Error(rerr))
		}
		return nil, fmt.Errorf("store order: %w", err)
	}

	if messageID := s.notifyNewOrder(ctx, order); messageID != "" {
		order.Notes = helpers.AppendMessageID(order.Notes, messageID)
		if err := s.orderRepo.SetNotes(ctx, order.ID, order.Notes); err != nil {
			s.logger.Warn("save discord message id", zap.String("order_id", order.ID), zap.Error(err))
		}
	}
	s.enqueueDelivery(ctx, order, helpers.ExtractMessageID(order.Notes))

	s.bus.Publish(events.EntityOrders)
	return order, nil
}

func (s *orderServiceImpl) List(ctx context.Context, status string) ([]model.Order, error) {
	return s.orderRepo.List(ctx, status)
}

func (s *orderServiceImpl) Get(ctx context.Context, id string) (*model.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

func (s *orderServiceImpl) PendingCommands(ctx context.Context) ([]model.PendingCommand, error) {
	return s.commandRepo.ListPending(ctx)
}

// MarkPaid advances pending -> paid. The order is refetched first so the
// transition acts on the latest notes (another admin may have updated the
// Discord reference concurrently). Re-invoking on an already-paid order is
// rejected, which keeps the command queue free of duplicates.
func (s *orderServiceImpl) MarkPaid(ctx context.Context, id string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch order: %w", err)
	}

	switch order.Status {
	case model.OrderStatusPending:
	case model.OrderStatusPaid:
		return nil, ErrAlreadyApplied
	default:
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	fields := map[string]interface{}{
		"status":  model.OrderStatusPaid,
		"paid_at": now,
	}
	// The conditional update decides between two admins marking the same
	// order concurrently; the loser must not enqueue a second delivery.
	won, err := s.orderRepo.TransitionStatus(ctx, order.ID, model.OrderStatusPending, fields)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	if !won {
		return nil, ErrAlreadyApplied
	}
	order.Status = model.OrderStatusPaid
	order.PaidAt = &now

	messageID := helpers.ExtractMessageID(order.Notes)
	s.enqueueDelivery(ctx, order, messageID)
	s.syncDiscordStatus(ctx, order, model.OrderStatusPaid, messageID)

	s.bus.Publish(events.EntityOrders)
	return order, nil
}

// MarkDelivered advances paid -> delivered after the plugin reports the
// in-game delivery. The delivered boolean is derived from status.
func (s *orderServiceImpl) MarkDelivered(ctx context.Context, id string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch order: %w", err)
	}

	switch order.Status {
	case model.OrderStatusPaid:
	case model.OrderStatusDelivered:
		return nil, ErrAlreadyApplied
	default:
		return nil, ErrInvalidTransition
	}

	fields := map[string]interface{}{
		"status":    model.OrderStatusDelivered,
		"delivered": true,
	}
	won, err := s.orderRepo.TransitionStatus(ctx, order.ID, model.OrderStatusPaid, fields)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	if !won {
		return nil, ErrAlreadyApplied
	}
	order.Status = model.OrderStatusDelivered
	order.Delivered = true

	s.syncDiscordStatus(ctx, order, model.OrderStatusDelivered, helpers.ExtractMessageID(order.Notes))

	s.bus.Publish(events.EntityOrders)
	return order, nil
}

// SoftDelete withdraws an order from any state. The Discord message is
// retracted first as a best-effort action; its failure never blocks the
// soft delete itself.
func (s *orderServiceImpl) SoftDelete(ctx context.Context, id string) error {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch order: %w", err)
	}

	if messageID := helpers.ExtractMessageID(order.Notes); messageID != "" {
		if err := s.discord.DeleteMessage(ctx, messageID); err != nil {
			s.logger.Warn("retract discord message", zap.String("order_id", id), zap.Error(err))
		}
	}

	if err := s.orderRepo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("soft delete order: %w", err)
	}

	s.bus.Publish(events.EntityOrders)
	return nil
}

// enqueueDelivery queues the purchased command plus an in-game thank-you
// notice. Queue failures are logged and swallowed: the paid transition is
// the authoritative action.
func (s *orderServiceImpl) enqueueDelivery(ctx context.Context, order *model.Order, messageID string) {
	if order.Command == "" {
		return
	}

	err := s.commandRepo.Enqueue(ctx, &model.PendingCommand{
		Command:          order.Command,
		MCUsername:       order.MCUsername,
		Status:           "pending",
		DiscordMessageID: messageID,
	})
	if err != nil {
		s.logger.Warn("queue order command", zap.String("order_id", order.ID), zap.Error(err))
		return
	}

	// Chat format: &8[&d&l🪸&8]&d&l BnC-Shop&8→ &aGiao thành công ...
	notify := fmt.Sprintf(`{"text":"","extra":[{"text":"[","color":"dark_gray"},{"text":"🪸","color":"light_purple","bold":true},{"text":"]","color":"dark_gray"},{"text":" BnC-Shop","color":"light_purple","bold":true},{"text":" → ","color":"dark_gray"},{"text":"Giao thành công đơn hàng ","color":"green"},{"text":"%s","color":"aqua"},{"text":". Cảm ơn bạn đã ủng hộ!","color":"green"}]}`, order.Product)
	err = s.commandRepo.Enqueue(ctx, &model.PendingCommand{
		Command:          fmt.Sprintf("tellraw %s %s", order.MCUsername, notify),
		MCUsername:       order.MCUsername,
		Status:           "pending",
		DiscordMessageID: messageID,
	})
	if err != nil {
		s.logger.Warn("queue delivery notice", zap.String("order_id", order.ID), zap.Error(err))
	}
}

func (s *orderServiceImpl) notifyNewOrder(ctx context.Context, order *model.Order) string {
	payment := "QR Code"
	switch order.PaymentMethod {
	case model.PaymentMethodBank:
		payment = "Chuyển Khoản"
	case model.PaymentMethodWallet:
		payment = "Ví BuildnChill"
	}
	embed := &client.Embed{
		Title:       "🛒 THANH TOÁN THÀNH CÔNG",
		Description: "🔔 Người chơi đã xác nhận đã thanh toán xong! Admin vui lòng kiểm tra ngân hàng.",
		Color:       colorGold,
		Fields: []client.EmbedField{
			{Name: "👤 Người chơi", Value: order.MCUsername, Inline: true},
			{Name: "📦 Sản phẩm", Value: order.Product, Inline: true},
			{Name: "💰 Giá tiền", Value: formatVND(order.Price), Inline: true},
			{Name: "💳 Thanh toán", Value: payment, Inline: true},
			{Name: "🆔 Mã đơn hàng", Value: "`" + helpers.OrderCode(order.ID) + "`"},
			{Name: "📜 Lệnh thực thi", Value: "`" + order.Command + "`"},
		},
		Footer:    &client.EmbedFooter{Text: "BuildnChill Shop System"},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	content := "🔔 **XÁC NHẬN THANH TOÁN**"
	if s.mentionID != "" {
		content = fmt.Sprintf("🔔 <@%s> **XÁC NHẬN THANH TOÁN**", s.mentionID)
	}

	messageID, err := s.discord.CreateMessage(ctx, content, embed)
	if err != nil {
		s.logger.Warn("send order notification", zap.String("order_id", order.ID), zap.Error(err))
		return ""
	}
	return messageID
}

// syncDiscordStatus edits the existing Discord message for the order. When
// the edit fails (message purged, webhook rotated) it falls back to posting
// a fresh message so the status change is not lost.
func (s *orderServiceImpl) syncDiscordStatus(ctx context.Context, order *model.Order, status, messageID string) {
	label := "ĐÃ THANH TOÁN"
	color := colorBlue
	description := fmt.Sprintf("💰 Đơn hàng của **%s** đã được thanh toán thành công và đang chờ giao!", order.MCUsername)
	if status == model.OrderStatusDelivered {
		label = "ĐÃ GIAO HÀNG"
		color = colorGreen
		description = fmt.Sprintf("✅ Đơn hàng của **%s** đã được giao thành công!", order.MCUsername)
	}

	embed := &client.Embed{
		Title:       "🛒 " + label,
		Description: description,
		Color:       color,
		Fields: []client.EmbedField{
			{Name: "👤 Người chơi", Value: order.MCUsername, Inline: true},
			{Name: "📦 Sản phẩm", Value: order.Product, Inline: true},
			{Name: "💰 Giá tiền", Value: formatVND(order.Price), Inline: true},
			{Name: "🆔 Mã đơn hàng", Value: "`" + helpers.OrderCode(order.ID) + "`"},
			{Name: "✅ Trạng thái hiện tại", Value: "**" + label + "**"},
		},
		Footer:    &client.EmbedFooter{Text: "BuildnChill Shop System - Status Updated"},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if messageID == "" {
		s.logger.Debug("no discord message id in notes, skipping sync", zap.String("order_id", order.ID))
		return
	}
	if err := s.discord.EditMessage(ctx, messageID, "", embed); err != nil {
		s.logger.Warn("edit discord message", zap.String("order_id", order.ID), zap.Error(err))
		if _, err := s.discord.CreateMessage(ctx, "", embed); err != nil {
			s.logger.Warn("fallback discord message", zap.String("order_id", order.ID), zap.Error(err))
		}
	}
}
