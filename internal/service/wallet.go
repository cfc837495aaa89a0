package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"buildnchill-server/internal/events"
	"buildnchill-server/internal/model"
	"buildnchill-server/internal/repository"
)

var (
	ErrZeroAmount  = errors.New("amount must be non-zero")
	ErrInvalidNote = errors.New("an adjustment note is required")
)

type WalletService interface {
	Balance(ctx context.Context, userID string) (int64, error)
	Transactions(ctx context.Context, userID string, limit int) ([]model.WalletTransaction, error)
	// AdminAdjust applies a signed balance change with a mandatory note.
	// It is the only path allowed to drive a balance negative.
	AdminAdjust(ctx context.Context, userID string, amount int64, note string) error
	// Debit charges a purchase against the wallet; the balance must cover it.
	Debit(ctx context.Context, userID string, amount int64, note string) error
}

type walletServiceImpl struct {
	db         *gorm.DB
	walletRepo repository.WalletRepository
	bus        *events.Bus
	logger     *zap.Logger
}

func NewWalletService(db *gorm.DB, walletRepo repository.WalletRepository, bus *events.Bus, logger *zap.Logger) WalletService {
	return &walletServiceImpl{
		db:         db,
		walletRepo: walletRepo,
		bus:        bus,
		logger:     logger,
	}
}

func (s *walletServiceImpl) Balance(ctx context.Context, userID string) (int64, error) {
	wallet, err := s.walletRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

func (s *walletServiceImpl) Transactions(ctx context.Context, userID string, limit int) ([]model.WalletTransaction, error) {
	wallet, err := s.walletRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.walletRepo.ListTransactions(ctx, wallet.ID, limit)
}

func (s *walletServiceImpl) AdminAdjust(ctx context.Context, userID string, amount int64, note string) error {
	if amount == 0 {
		return ErrZeroAmount
	}
	if note == "" {
		return ErrInvalidNote
	}
	return s.apply(ctx, userID, amount, model.TxTypeAdminAdjustment, note, false)
}

func (s *walletServiceImpl) Debit(ctx context.Context, userID string, amount int64, note string) error {
	if amount <= 0 {
		return ErrZeroAmount
	}
	return s.apply(ctx, userID, -amount, model.TxTypePurchase, note, true)
}

var ErrInsufficientBalance = errors.New("wallet balance is insufficient")

// apply is the single mutation path for balances: one relative UPDATE and
// one appended ledger row inside a transaction. The balance is never read,
// recomputed and written back, so concurrent adjustments cannot lose
// updates.
func (s *walletServiceImpl) apply(ctx context.Context, userID string, amount int64, txType, note string, enforceFunds bool) error {
	wallet, err := s.walletRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return fmt.Errorf("load wallet: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if enforceFunds {
			// Funds check and subtraction in one conditional UPDATE, so
			// two concurrent debits can never both drain the balance.
			won, err := s.walletRepo.DebitBalance(ctx, tx, wallet.ID, -amount)
			if err != nil {
				return fmt.Errorf("debit balance: %w", err)
			}
			if !won {
				return ErrInsufficientBalance
			}
		} else if err := s.walletRepo.AdjustBalance(ctx, tx, wallet.ID, amount); err != nil {
			return fmt.Errorf("adjust balance: %w", err)
		}
		return s.walletRepo.AppendTransaction(ctx, tx, &model.WalletTransaction{
			WalletID: wallet.ID,
			Amount:   amount,
			Type:     txType,
			Note:     note,
		})
	})
	if err != nil {
		return err
	}

	s.bus.Publish(events.EntityWallets)
	return nil
}
