package repository

import (
	"context"

	"gorm.io/gorm"

	"buildnchill-server/internal/model"
)

type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) error
	FindByID(ctx context.Context, id string) (*model.Contact, error)
	List(ctx context.Context, limit int) ([]model.Contact, error)
	MarkRead(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id, status string) error
	SoftDelete(ctx context.Context, id string) error
}

type contactRepoImpl struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepoImpl{db: db}
}

func (r *contactRepoImpl) Create(ctx context.Context, contact *model.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *contactRepoImpl) FindByID(ctx context.Context, id string) (*model.Contact, error) {
	var contact model.Contact
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&contact).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepoImpl) List(ctx context.Context, limit int) ([]model.Contact, error) {
	q := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var contacts []model.Contact
	if err := q.Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *contactRepoImpl) MarkRead(ctx context.Context, id string) error {
	return r.update(ctx, id, map[string]interface{}{"read": true})
}

func (r *contactRepoImpl) SetStatus(ctx context.Context, id, status string) error {
	return r.update(ctx, id, map[string]interface{}{"status": status})
}

func (r *contactRepoImpl) SoftDelete(ctx context.Context, id string) error {
	return r.update(ctx, id, map[string]interface{}{"is_deleted": true})
}

func (r *contactRepoImpl) update(ctx context.Context, id string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.Contact{}).
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
