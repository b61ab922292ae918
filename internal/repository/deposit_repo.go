// Package repository 提供数据访问层
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/JoelCaquene/temeisheng-platform/internal/models"
)

// DepositRepository 充值仓储
type DepositRepository struct {
	db *gorm.DB
}

// NewDepositRepository 创建充值仓储
func NewDepositRepository(db *gorm.DB) *DepositRepository {
	return &DepositRepository{db: db}
}

// Create 创建充值记录
func (r *DepositRepository) Create(ctx context.Context, deposit *models.Deposit) error {
	return r.db.WithContext(ctx).Create(deposit).Error
}

// GetByID 根据 ID 获取充值记录
func (r *DepositRepository) GetByID(ctx context.Context, id int64) (*models.Deposit, error) {
	var deposit models.Deposit
	err := r.db.WithContext(ctx).First(&deposit, id).Error
	if err != nil {
		return nil, err
	}
	return &deposit, nil
}

// GetByIDWithRelations 根据 ID 获取充值记录（包含关联）
func (r *DepositRepository) GetByIDWithRelations(ctx context.Context, id int64) (*models.Deposit, error) {
	var deposit models.Deposit
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Level").
		Preload("BankAccount").
		Preload("Operator").
		First(&deposit, id).Error
	if err != nil {
		return nil, err
	}
	return &deposit, nil
}

// GetByDepositNo 根据充值单号获取记录
func (r *DepositRepository) GetByDepositNo(ctx context.Context, depositNo string) (*models.Deposit, error) {
	var deposit models.Deposit
	err := r.db.WithContext(ctx).Where("deposit_no = ?", depositNo).First(&deposit).Error
	if err != nil {
		return nil, err
	}
	return &deposit, nil
}

// GetByUserID 根据用户 ID 获取充值记录列表
func (r *DepositRepository) GetByUserID(ctx context.Context, userID int64, offset, limit int) ([]*models.Deposit, int64, error) {
	var deposits []*models.Deposit
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Deposit{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Level").Order("id DESC").Offset(offset).Limit(limit).Find(&deposits).Error; err != nil {
		return nil, 0, err
	}

	return deposits, total, nil
}

// ApproveTx 在事务中有保护地将充值从待审核置为已批准，返回影响行数
func (r *DepositRepository) ApproveTx(ctx context.Context, tx *gorm.DB, id int64, operatorID int64, now time.Time) (int64, error) {
	result := tx.WithContext(ctx).Model(&models.Deposit{}).
		Where("id = ? AND status = ?", id, models.DepositStatusPending).
		Updates(map[string]interface{}{
			"status":      models.DepositStatusApproved,
			"operator_id": operatorID,
			"approved_at": now,
		})
	return result.RowsAffected, result.Error
}

// Reject 有保护地将充值从待审核置为已拒绝，返回影响行数
func (r *DepositRepository) Reject(ctx context.Context, id int64, operatorID int64, reason string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Deposit{}).
		Where("id = ? AND status = ?", id, models.DepositStatusPending).
		Updates(map[string]interface{}{
			"status":        models.DepositStatusRejected,
			"operator_id":   operatorID,
			"reject_reason": reason,
		})
	return result.RowsAffected, result.Error
}

// List 获取充值记录列表
func (r *DepositRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Deposit, int64, error) {
	var deposits []*models.Deposit
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Deposit{})

	// 应用过滤条件
	if userID, ok := filters["user_id"].(int64); ok && userID > 0 {
		query = query.Where("user_id = ?", userID)
	}
	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if startTime, ok := filters["start_time"].(time.Time); ok {
		query = query.Where("created_at >= ?", startTime)
	}
	if endTime, ok := filters["end_time"].(time.Time); ok {
		query = query.Where("created_at <= ?", endTime)
	}

	// 统计总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 查询列表
	if err := query.
		Preload("User").
		Preload("Level").
		Preload("Operator").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&deposits).Error; err != nil {
		return nil, 0, err
	}

	return deposits, total, nil
}

// GetPendingList 获取待审核列表，按提交先后排序
func (r *DepositRepository) GetPendingList(ctx context.Context, offset, limit int) ([]*models.Deposit, int64, error) {
	var deposits []*models.Deposit
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Deposit{}).Where("status = ?", models.DepositStatusPending)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("User").
		Preload("Level").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&deposits).Error; err != nil {
		return nil, 0, err
	}

	return deposits, total, nil
}

// CountByStatus 按状态统计充值数量
func (r *DepositRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Deposit{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// SumByStatus 按状态汇总充值金额
func (r *DepositRepository) SumByStatus(ctx context.Context, status string) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&models.Deposit{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", status).
		Row().Scan(&sum)
	return sum, err
}

// SumApprovedBetween 汇总时间段内批准的充值金额
func (r *DepositRepository) SumApprovedBetween(ctx context.Context, start, end time.Time) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&models.Deposit{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ? AND approved_at >= ? AND approved_at < ?", models.DepositStatusApproved, start, end).
		Row().Scan(&sum)
	return sum, err
}

// CountApprovedBetween 统计时间段内批准的充值笔数
func (r *DepositRepository) CountApprovedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Deposit{}).
		Where("status = ? AND approved_at >= ? AND approved_at < ?", models.DepositStatusApproved, start, end).
		Count(&count).Error
	return count, err
}

// GetSummary 获取充值汇总统计
func (r *DepositRepository) GetSummary(ctx context.Context) (*models.DepositSummary, error) {
	var summary models.DepositSummary
	err := r.db.WithContext(ctx).Model(&models.Deposit{}).
		Select(`
			COUNT(*) as total_count,
			COALESCE(SUM(amount), 0) as total_amount,
			COUNT(CASE WHEN status = 'pending' THEN 1 END) as pending_count,
			COALESCE(SUM(CASE WHEN status = 'pending' THEN amount ELSE 0 END), 0) as pending_amount,
			COUNT(CASE WHEN status = 'approved' THEN 1 END) as approved_count,
			COALESCE(SUM(CASE WHEN status = 'approved' THEN amount ELSE 0 END), 0) as approved_amount,
			COUNT(CASE WHEN status = 'rejected' THEN 1 END) as rejected_count
		`).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// ExistsDepositNo 检查充值单号是否存在
func (r *DepositRepository) ExistsDepositNo(ctx context.Context, depositNo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Deposit{}).Where("deposit_no = ?", depositNo).Count(&count).Error
	return count > 0, err
}
