package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"buildnchill-server/internal/model"
)

// Site settings and server status are both singleton rows with ID 1,
// created on first read.

type SettingsRepository interface {
	GetSettings(ctx context.Context) (*model.SiteSettings, error)
	UpdateSettings(ctx context.Context, fields map[string]interface{}) error
	GetServerStatus(ctx context.Context) (*model.ServerStatus, error)
	UpdateServerStatus(ctx context.Context, fields map[string]interface{}) error
}

type settingsRepoImpl struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepoImpl{db: db}
}

func (r *settingsRepoImpl) GetSettings(ctx context.Context) (*model.SiteSettings, error) {
	var settings model.SiteSettings
	err := r.db.WithContext(ctx).Where("id = ?", 1).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = model.SiteSettings{ID: 1, SiteTitle: "BuildnChill"}
		if err := r.db.WithContext(ctx).Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepoImpl) UpdateSettings(ctx context.Context, fields map[string]interface{}) error {
	if _, err := r.GetSettings(ctx); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&model.SiteSettings{}).
		Where("id = ?", 1).
		Updates(fields).Error
}

func (r *settingsRepoImpl) GetServerStatus(ctx context.Context) (*model.ServerStatus, error) {
	var status model.ServerStatus
	err := r.db.WithContext(ctx).Where("id = ?", 1).First(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		status = model.ServerStatus{ID: 1, Status: "Offline", Players: "0", MaxPlayers: "0"}
		if err := r.db.WithContext(ctx).Create(&status).Error; err != nil {
			return nil, err
		}
		return &status, nil
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *settingsRepoImpl) UpdateServerStatus(ctx context.Context, fields map[string]interface{}) error {
	if _, err := r.GetServerStatus(ctx); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&model.ServerStatus{}).
		Where("id = ?", 1).
		Updates(fields).Error
}
