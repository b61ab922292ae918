// Package repository 提供数据访问层
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/JoelCaquene/temeisheng-platform/internal/models"
)

// EarningRepository 每日收益仓储
type EarningRepository struct {
	db *gorm.DB
}

// NewEarningRepository 创建收益仓储
func NewEarningRepository(db *gorm.DB) *EarningRepository {
	return &EarningRepository{db: db}
}

// Create 创建收益记录
func (r *EarningRepository) Create(ctx context.Context, earning *models.DailyEarning) error {
	return r.db.WithContext(ctx).Create(earning).Error
}

// CreateTx 在事务中创建收益记录，(user_id, earn_date) 唯一索引兜底防重
func (r *EarningRepository) CreateTx(ctx context.Context, tx *gorm.DB, earning *models.DailyEarning) error {
	return tx.WithContext(ctx).Create(earning).Error
}

// GetByUserAndDate 获取用户某日的收益记录
func (r *EarningRepository) GetByUserAndDate(ctx context.Context, userID int64, earnDate string) (*models.DailyEarning, error) {
	var earning models.DailyEarning
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND earn_date = ?", userID, earnDate).
		First(&earning).Error
	if err != nil {
		return nil, err
	}
	return &earning, nil
}

// ExistsByUserAndDate 检查用户某日是否已有收益记录
func (r *EarningRepository) ExistsByUserAndDate(ctx context.Context, userID int64, earnDate string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DailyEarning{}).
		Where("user_id = ? AND earn_date = ?", userID, earnDate).
		Count(&count).Error
	return count > 0, err
}

// ListByUser 获取用户收益历史
func (r *EarningRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*models.DailyEarning, int64, error) {
	var earnings []*models.DailyEarning
	var total int64

	query := r.db.WithContext(ctx).Model(&models.DailyEarning{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Level").
		Order("earn_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&earnings).Error; err != nil {
		return nil, 0, err
	}

	return earnings, total, nil
}

// SumByUser 汇总用户收益总额
func (r *EarningRepository) SumByUser(ctx context.Context, userID int64) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&models.DailyEarning{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ?", userID).
		Row().Scan(&sum)
	return sum, err
}

// SumAll 汇总全平台收益支出
func (r *EarningRepository) SumAll(ctx context.Context) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&models.DailyEarning{}).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&sum)
	return sum, err
}

// SumByDate 汇总某日的收益支出
func (r *EarningRepository) SumByDate(ctx context.Context, earnDate string) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&models.DailyEarning{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("earn_date = ?", earnDate).
		Row().Scan(&sum)
	return sum, err
}

// CountCreatedBetween 统计时间段内的收益记录数
func (r *EarningRepository) CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DailyEarning{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	return count, err
}
