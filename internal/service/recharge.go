package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"buildnchill-server/internal/client"
	"buildnchill-server/internal/dto"
	"buildnchill-server/internal/events"
	"buildnchill-server/internal/model"
	"buildnchill-server/internal/repository"
)

var (
	ErrInvalidAmount      = errors.New("recharge amount must be positive")
	ErrAlreadyProcessed   = errors.New("recharge request was already processed")
	ErrRechargeNotPending = errors.New("recharge request is not pending")
)

type RechargeService interface {
	Submit(ctx context.Context, userID string, req *dto.SubmitRechargeRequest) (*model.Recharge, error)
	List(ctx context.Context, status string) ([]model.Recharge, error)
	ListByUser(ctx context.Context, userID string) ([]model.Recharge, error)
	// Approve credits the wallet by exactly the requested amount and writes
	// exactly one recharge ledger row. Double approval is rejected.
	Approve(ctx context.Context, id string) error
	// Reject flips the request to rejected; the balance never changes.
	Reject(ctx context.Context, id string) error
}

type rechargeServiceImpl struct {
	db           *gorm.DB
	rechargeRepo repository.RechargeRepository
	walletRepo   repository.WalletRepository
	profileRepo  repository.ProfileRepository
	discord      client.DiscordClient
	bus          *events.Bus
	logger       *zap.Logger
}

func NewRechargeService(
	db *gorm.DB,
	rechargeRepo repository.RechargeRepository,
	walletRepo repository.WalletRepository,
	profileRepo repository.ProfileRepository,
	discord client.DiscordClient,
	bus *events.Bus,
	logger *zap.Logger,
) RechargeService {
	return &rechargeServiceImpl{
		db:           db,
		rechargeRepo: rechargeRepo,
		walletRepo:   walletRepo,
		profileRepo:  profileRepo,
		discord:      discord,
		bus:          bus,
		logger:       logger,
	}
}

func (s *rechargeServiceImpl) Submit(ctx context.Context, userID string, req *dto.SubmitRechargeRequest) (*model.Recharge, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = model.PaymentMethodBank
	}

	recharge := &model.Recharge{
		ID:            uuid.NewString(),
		UserID:        userID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		ProofImage:    req.ProofImage,
		Status:        model.RechargeStatusPending,
	}
	if err := s.rechargeRepo.Create(ctx, recharge); err != nil {
		return nil, fmt.Errorf("store recharge: %w", err)
	}

	if messageID := s.notifyNewRequest(ctx, recharge); messageID != "" {
		recharge.DiscordMessageID = messageID
		if err := s.rechargeRepo.SetDiscordMessageID(ctx, recharge.ID, messageID); err != nil {
			s.logger.Warn("save discord message id", zap.String("recharge_id", recharge.ID), zap.Error(err))
		}
	}

	s.bus.Publish(events.EntityRecharges)
	return recharge, nil
}

func (s *rechargeServiceImpl) List(ctx context.Context, status string) ([]model.Recharge, error) {
	return s.rechargeRepo.List(ctx, status)
}

func (s *rechargeServiceImpl) ListByUser(ctx context.Context, userID string) ([]model.Recharge, error) {
	return s.rechargeRepo.ListByUser(ctx, userID)
}

func (s *rechargeServiceImpl) Approve(ctx context.Context, id string) error {
	recharge, err := s.rechargeRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch recharge: %w", err)
	}

	wallet, err := s.walletRepo.GetOrCreate(ctx, recharge.UserID)
	if err != nil {
		return fmt.Errorf("load wallet: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The guarded status flip decides the winner between two admins
		// approving concurrently; only the winner credits the wallet.
		won, err := s.rechargeRepo.MarkProcessed(ctx, tx, id, model.RechargeStatusApproved)
		if err != nil {
			return err
		}
		if !won {
			return ErrAlreadyProcessed
		}
		if err := s.walletRepo.AdjustBalance(ctx, tx, wallet.ID, recharge.Amount); err != nil {
			return fmt.Errorf("credit wallet: %w", err)
		}
		return s.walletRepo.AppendTransaction(ctx, tx, &model.WalletTransaction{
			WalletID: wallet.ID,
			Amount:   recharge.Amount,
			Type:     model.TxTypeRecharge,
			Note:     "Nạp tiền " + formatVND(recharge.Amount),
		})
	})
	if err != nil {
		return err
	}

	s.notifyProcessed(ctx, recharge, model.RechargeStatusApproved)
	s.bus.Publish(events.EntityRecharges)
	s.bus.Publish(events.EntityWallets)
	return nil
}

func (s *rechargeServiceImpl) Reject(ctx context.Context, id string) error {
	recharge, err := s.rechargeRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch recharge: %w", err)
	}

	won, err := s.rechargeRepo.MarkProcessed(ctx, s.db, id, model.RechargeStatusRejected)
	if err != nil {
		return err
	}
	if !won {
		return ErrAlreadyProcessed
	}

	s.notifyProcessed(ctx, recharge, model.RechargeStatusRejected)
	s.bus.Publish(events.EntityRecharges)
	return nil
}

func (s *rechargeServiceImpl) username(ctx context.Context, userID string) string {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return "Không rõ"
	}
	return profile.Username
}

func (s *rechargeServiceImpl) notifyNewRequest(ctx context.Context, recharge *model.Recharge) string {
	embed := &client.Embed{
		Title:       "💰 YÊU CẦU NẠP TIỀN MỚI",
		Description: fmt.Sprintf("🔔 **%s** vừa gửi yêu cầu nạp tiền, admin vui lòng kiểm tra.", s.username(ctx, recharge.UserID)),
		Color:       colorGold,
		Fields: []client.EmbedField{
			{Name: "👤 Người chơi", Value: s.username(ctx, recharge.UserID), Inline: true},
			{Name: "💰 Số tiền", Value: formatVND(recharge.Amount), Inline: true},
			{Name: "💳 Phương thức", Value: paymentLabel(recharge.PaymentMethod), Inline: true},
			{Name: "🆔 Mã yêu cầu", Value: "`" + recharge.ID + "`"},
		},
		Footer:    &client.EmbedFooter{Text: "BuildnChill System - Recharge Request"},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if recharge.ProofImage != "" {
		embed.Image = &client.EmbedImage{URL: recharge.ProofImage}
	}

	messageID, err := s.discord.CreateMessage(ctx, "", embed)
	if err != nil {
		s.logger.Warn("send recharge notification", zap.String("recharge_id", recharge.ID), zap.Error(err))
		return ""
	}
	return messageID
}

// notifyProcessed edits the original Discord message to reflect the final
// status, falling back to a fresh message when the edit fails. Best-effort
// either way.
func (s *rechargeServiceImpl) notifyProcessed(ctx context.Context, recharge *model.Recharge, status string) {
	username := s.username(ctx, recharge.UserID)

	label := "NẠP TIỀN THÀNH CÔNG"
	color := colorGreen
	description := fmt.Sprintf("✅ Yêu cầu nạp tiền của **%s** đã được duyệt!", username)
	statusValue := "Đã duyệt"
	if status == model.RechargeStatusRejected {
		label = "YÊU CẦU NẠP BỊ TỪ CHỐI"
		color = 15158332
		description = fmt.Sprintf("❌ Yêu cầu nạp tiền của **%s** đã bị từ chối.", username)
		statusValue = "Đã từ chối"
	}

	embed := &client.Embed{
		Title:       "💰 " + label,
		Description: description,
		Color:       color,
		Fields: []client.EmbedField{
			{Name: "👤 Người chơi", Value: username, Inline: true},
			{Name: "💰 Số tiền", Value: formatVND(recharge.Amount), Inline: true},
			{Name: "💳 Phương thức", Value: paymentLabel(recharge.PaymentMethod), Inline: true},
			{Name: "🆔 Mã yêu cầu", Value: "`" + recharge.ID + "`"},
			{Name: "✅ Trạng thái hiện tại", Value: "**" + statusValue + "**"},
		},
		Footer:    &client.EmbedFooter{Text: "BuildnChill System - Recharge Status Updated"},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if recharge.ProofImage != "" {
		embed.Image = &client.EmbedImage{URL: recharge.ProofImage}
	}

	if recharge.DiscordMessageID != "" {
		err := s.discord.EditMessage(ctx, recharge.DiscordMessageID, "", embed)
		if err == nil {
			return
		}
		s.logger.Warn("edit recharge message", zap.String("recharge_id", recharge.ID), zap.Error(err))
	}
	if _, err := s.discord.CreateMessage(ctx, "", embed); err != nil {
		s.logger.Warn("send recharge status", zap.String("recharge_id", recharge.ID), zap.Error(err))
	}
}

func paymentLabel(method string) string {
	if method == model.PaymentMethodBank {
		return "Chuyển khoản ngân hàng"
	}
	return method
}
