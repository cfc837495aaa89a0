package repository

import (
	"context"

	"gorm.io/gorm"

	"buildnchill-server/internal/model"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	// FindByID looks the row up by identifier regardless of the soft-delete
	// flag; list queries exclude deleted rows.
	FindByID(ctx context.Context, id string) (*model.Order, error)
	List(ctx context.Context, status string) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	// TransitionStatus applies fields only while the row still holds the
	// from status. The returned bool reports whether this caller won; a
	// concurrent transition that got there first makes it false.
	TransitionStatus(ctx context.Context, id, from string, fields map[string]interface{}) (bool, error)
	SetNotes(ctx context.Context, id, notes string) error
	SoftDelete(ctx context.Context, id string) error
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{db: db}
}

func (r *orderRepoImpl) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepoImpl) List(ctx context.Context, status string) ([]model.Order, error) {
	q := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var orders []model.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepoImpl) ListAll(ctx context.Context) ([]model.Order, error) {
	return r.List(ctx, "")
}

func (r *orderRepoImpl) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepoImpl) TransitionStatus(ctx context.Context, id, from string, fields map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	return result.RowsAffected > 0, result.Error
}

func (r *orderRepoImpl) SetNotes(ctx context.Context, id, notes string) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{"notes": notes})
}

func (r *orderRepoImpl) SoftDelete(ctx context.Context, id string) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{"is_deleted": true})
}
