package services

import (
	"context"
	"time"

	"github.com/elevateacademy/portal-api/model"
	"github.com/elevateacademy/portal-api/utils/errs"
	"gorm.io/gorm"
)

// SettingService manages application-wide settings edited from the admin
// back-office.
type SettingService struct {
	db *gorm.DB
}

// NewSettingService creates a new setting service
func NewSettingService(db *gorm.DB) *SettingService {
	return &SettingService{db: db}
}

// All returns every setting grouped-friendly by category.
func (s *SettingService) All(ctx context.Context) ([]model.AppSetting, error) {
	var settings []model.AppSetting
	if err := s.db.WithContext(ctx).Order("category, key").Find(&settings).Error; err != nil {
		return nil, errs.Normalize(err)
	}
	return settings, nil
}

// Public returns settings safe to expose without authentication.
func (s *SettingService) Public(ctx context.Context) ([]model.AppSetting, error) {
	var settings []model.AppSetting
	err := s.db.WithContext(ctx).
		Where("is_public = ?", true).
		Order("category, key").
		Find(&settings).Error
	if err != nil {
		return nil, errs.Normalize(err)
	}
	return settings, nil
}

// Get returns one setting by key.
func (s *SettingService) Get(ctx context.Context, key string) (*model.AppSetting, error) {
	var setting model.AppSetting
	if err := s.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error; err != nil {
		return nil, errs.Normalize(err)
	}
	return &setting, nil
}

// Set updates an existing setting's value. Settings are seeded, not created
// at runtime, so a missing key is ErrNotFound.
func (s *SettingService) Set(ctx context.Context, key, value string) (*model.AppSetting, error) {
	result := s.db.WithContext(ctx).
		Model(&model.AppSetting{}).
		Where("key = ?", key).
		Updates(map[string]interface{}{
			"value":      value,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, errs.Normalize(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, errs.ErrNotFound
	}
	return s.Get(ctx, key)
}
