// Package repository 提供数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/JoelCaquene/temeisheng-platform/internal/models"
)

// LevelRepository 等级仓储
type LevelRepository struct {
	db *gorm.DB
}

// NewLevelRepository 创建等级仓储
func NewLevelRepository(db *gorm.DB) *LevelRepository {
	return &LevelRepository{db: db}
}

// Create 创建等级
func (r *LevelRepository) Create(ctx context.Context, level *models.Level) error {
	return r.db.WithContext(ctx).Create(level).Error
}

// GetByID 根据 ID 获取等级
func (r *LevelRepository) GetByID(ctx context.Context, id int64) (*models.Level, error) {
	var level models.Level
	err := r.db.WithContext(ctx).First(&level, id).Error
	if err != nil {
		return nil, err
	}
	return &level, nil
}

// GetByName 根据名称获取等级
func (r *LevelRepository) GetByName(ctx context.Context, name string) (*models.Level, error) {
	var level models.Level
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&level).Error
	if err != nil {
		return nil, err
	}
	return &level, nil
}

// ListActive 获取启用的等级列表，按门槛升序
func (r *LevelRepository) ListActive(ctx context.Context) ([]*models.Level, error) {
	var levels []*models.Level
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("min_deposit ASC").
		Find(&levels).Error
	return levels, err
}

// List 获取等级列表
func (r *LevelRepository) List(ctx context.Context, offset, limit int) ([]*models.Level, int64, error) {
	var levels []*models.Level
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Level{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("min_deposit ASC").Offset(offset).Limit(limit).Find(&levels).Error; err != nil {
		return nil, 0, err
	}

	return levels, total, nil
}

// Update 更新等级
func (r *LevelRepository) Update(ctx context.Context, level *models.Level) error {
	return r.db.WithContext(ctx).Save(level).Error
}

// UpdateFields 更新指定字段
func (r *LevelRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Level{}).Where("id = ?", id).Updates(fields).Error
}

// Delete 删除等级
func (r *LevelRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Level{}, id).Error
}

// ExistsByName 检查等级名称是否存在
func (r *LevelRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Level{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

// GetBestForAmount 获取金额可达到的最高启用等级
func (r *LevelRepository) GetBestForAmount(ctx context.Context, amount float64) (*models.Level, error) {
	var level models.Level
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND min_deposit <= ?", true, amount).
		Order("min_deposit DESC").
		First(&level).Error
	if err != nil {
		return nil, err
	}
	return &level, nil
}
