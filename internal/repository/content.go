package repository

import (
	"context"

	"gorm.io/gorm"

	"buildnchill-server/internal/model"
)

type NewsRepository interface {
	Create(ctx context.Context, news *model.News) error
	FindByID(ctx context.Context, id uint) (*model.News, error)
	FindBySlug(ctx context.Context, slug string) (*model.News, error)
	List(ctx context.Context) ([]model.News, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	SoftDelete(ctx context.Context, id uint) error
}

type newsRepoImpl struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepoImpl{db: db}
}

func (r *newsRepoImpl) Create(ctx context.Context, news *model.News) error {
	return r.db.WithContext(ctx).Create(news).Error
}

func (r *newsRepoImpl) FindByID(ctx context.Context, id uint) (*model.News, error) {
	var news model.News
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&news).Error; err != nil {
		return nil, err
	}
	return &news, nil
}

func (r *newsRepoImpl) FindBySlug(ctx context.Context, slug string) (*model.News, error) {
	var news model.News
	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_deleted = ?", slug, false).
		First(&news).Error
	if err != nil {
		return nil, err
	}
	return &news, nil
}

func (r *newsRepoImpl) List(ctx context.Context) ([]model.News, error) {
	var news []model.News
	err := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("date DESC").
		Find(&news).Error
	return news, err
}

func (r *newsRepoImpl) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.News{}).
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

func (r *newsRepoImpl) SoftDelete(ctx context.Context, id uint) error {
	return r.Update(ctx, id, map[string]interface{}{"is_deleted": true})
}

type CarouselRepository interface {
	Create(ctx context.Context, image *model.CarouselImage) error
	List(ctx context.Context) ([]model.CarouselImage, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	// Delete removes the row outright; carousel images are the one entity
	// the site never soft-deletes.
	Delete(ctx context.Context, id uint) error
}

type carouselRepoImpl struct {
	db *gorm.DB
}

func NewCarouselRepository(db *gorm.DB) CarouselRepository {
	return &carouselRepoImpl{db: db}
}

func (r *carouselRepoImpl) Create(ctx context.Context, image *model.CarouselImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *carouselRepoImpl) List(ctx context.Context) ([]model.CarouselImage, error) {
	var images []model.CarouselImage
	err := r.db.WithContext(ctx).Order("display_order ASC").Find(&images).Error
	return images, err
}

func (r *carouselRepoImpl) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.CarouselImage{}).
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

func (r *carouselRepoImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.CarouselImage{}, id).Error
}
