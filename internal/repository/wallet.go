package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"buildnchill-server/internal/model"
)

type WalletRepository interface {
	// GetOrCreate returns the user's wallet, creating an empty one on first
	// use. One wallet per user.
	GetOrCreate(ctx context.Context, userID string) (*model.Wallet, error)
	FindByUserID(ctx context.Context, userID string) (*model.Wallet, error)
	// AdjustBalance applies a relative balance change as a single UPDATE so
	// concurrent adjustments never lose each other's writes.
	AdjustBalance(ctx context.Context, tx *gorm.DB, walletID uint, amount int64) error
	// DebitBalance subtracts amount only while the balance covers it. The
	// returned bool reports whether the debit landed; false means the funds
	// check failed, possibly because a concurrent debit got there first.
	DebitBalance(ctx context.Context, tx *gorm.DB, walletID uint, amount int64) (bool, error)
	AppendTransaction(ctx context.Context, tx *gorm.DB, txn *model.WalletTransaction) error
	ListTransactions(ctx context.Context, walletID uint, limit int) ([]model.WalletTransaction, error)
}

type walletRepoImpl struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepoImpl{db: db}
}

func (r *walletRepoImpl) GetOrCreate(ctx context.Context, userID string) (*model.Wallet, error) {
	wallet, err := r.FindByUserID(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &model.Wallet{UserID: userID}
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		// Lost a race with a concurrent creator; the unique index on
		// user_id guarantees a single wallet, so read theirs.
		if existing, ferr := r.FindByUserID(ctx, userID); ferr == nil {
			return existing, nil
		}
		return nil, err
	}
	return created, nil
}

func (r *walletRepoImpl) FindByUserID(ctx context.Context, userID string) (*model.Wallet, error) {
	var wallet model.Wallet
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *walletRepoImpl) AdjustBalance(ctx context.Context, tx *gorm.DB, walletID uint, amount int64) error {
	result := tx.WithContext(ctx).Model(&model.Wallet{}).
		Where("id = ?", walletID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *walletRepoImpl) DebitBalance(ctx context.Context, tx *gorm.DB, walletID uint, amount int64) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Wallet{}).
		Where("id = ? AND balance >= ?", walletID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	return result.RowsAffected > 0, result.Error
}

func (r *walletRepoImpl) AppendTransaction(ctx context.Context, tx *gorm.DB, txn *model.WalletTransaction) error {
	return tx.WithContext(ctx).Create(txn).Error
}

func (r *walletRepoImpl) ListTransactions(ctx context.Context, walletID uint, limit int) ([]model.WalletTransaction, error) {
	q := r.db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var txns []model.WalletTransaction
	if err := q.Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}
