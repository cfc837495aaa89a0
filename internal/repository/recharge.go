package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"buildnchill-server/internal/model"
)

type RechargeRepository interface {
	Create(ctx context.Context, recharge *model.Recharge) error
	FindByID(ctx context.Context, id string) (*model.Recharge, error)
	List(ctx context.Context, status string) ([]model.Recharge, error)
	ListByUser(ctx context.Context, userID string) ([]model.Recharge, error)
	// MarkProcessed flips pending -> status and reports whether this call
	// won the transition. A false result means another admin got there
	// first, so the caller must not apply side effects again.
	MarkProcessed(ctx context.Context, tx *gorm.DB, id, status string) (bool, error)
	SetDiscordMessageID(ctx context.Context, id, messageID string) error
}

type rechargeRepoImpl struct {
	db *gorm.DB
}

func NewRechargeRepository(db *gorm.DB) RechargeRepository {
	return &rechargeRepoImpl{db: db}
}

func (r *rechargeRepoImpl) Create(ctx context.Context, recharge *model.Recharge) error {
	return r.db.WithContext(ctx).Create(recharge).Error
}

func (r *rechargeRepoImpl) FindByID(ctx context.Context, id string) (*model.Recharge, error) {
	var recharge model.Recharge
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recharge).Error; err != nil {
		return nil, err
	}
	return &recharge, nil
}

func (r *rechargeRepoImpl) List(ctx context.Context, status string) ([]model.Recharge, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var recharges []model.Recharge
	if err := q.Find(&recharges).Error; err != nil {
		return nil, err
	}
	return recharges, nil
}

func (r *rechargeRepoImpl) ListByUser(ctx context.Context, userID string) ([]model.Recharge, error) {
	var recharges []model.Recharge
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&recharges).Error
	return recharges, err
}

func (r *rechargeRepoImpl) MarkProcessed(ctx context.Context, tx *gorm.DB, id, status string) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Recharge{}).
		Where("id = ? AND status = ?", id, model.RechargeStatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *rechargeRepoImpl) SetDiscordMessageID(ctx context.Context, id, messageID string) error {
	return r.db.WithContext(ctx).Model(&model.Recharge{}).
		Where("id = ?", id).
		Update("discord_message_id", messageID).Error
}
