// Package repository 提供数据访问层
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/JoelCaquene/temeisheng-platform/internal/models"
)

// PlatformConfigRepository 平台配置仓储
type PlatformConfigRepository struct {
	db *gorm.DB
}

// NewPlatformConfigRepository 创建平台配置仓储
func NewPlatformConfigRepository(db *gorm.DB) *PlatformConfigRepository {
	return &PlatformConfigRepository{db: db}
}

// Get 获取平台配置单例，不存在时创建空配置
func (r *PlatformConfigRepository) Get(ctx context.Context) (*models.PlatformConfig, error) {
	var config models.PlatformConfig
	err := r.db.WithContext(ctx).Order("id ASC").First(&config).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			config = models.PlatformConfig{}
			if err := r.db.WithContext(ctx).Create(&config).Error; err != nil {
				return nil, err
			}
			return &config, nil
		}
		return nil, err
	}
	return &config, nil
}

// Update 更新平台配置
func (r *PlatformConfigRepository) Update(ctx context.Context, config *models.PlatformConfig) error {
	return r.db.WithContext(ctx).Save(config).Error
}

// UpdateFields 更新指定字段
func (r *PlatformConfigRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.PlatformConfig{}).Where("id = ?", id).Updates(fields).Error
}
