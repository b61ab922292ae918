// Package repository 提供数据访问层
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/JoelCaquene/temeisheng-platform/internal/models"
)

// WithdrawalRepository 提现仓储
type WithdrawalRepository struct {
	db *gorm.DB
}

// NewWithdrawalRepository 创建提现仓储
func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// Create 创建提现记录
func (r *WithdrawalRepository) Create(ctx context.Context, withdrawal *models.Withdrawal) error {
	return r.db.WithContext(ctx).Create(withdrawal).Error
}

// CreateTx 在事务中创建提现记录
func (r *WithdrawalRepository) CreateTx(ctx context.Context, tx *gorm.DB, withdrawal *models.Withdrawal) error {
	return tx.WithContext(ctx).Create(withdrawal).Error
}

// GetByID 根据 ID 获取提现记录
func (r *WithdrawalRepository) GetByID(ctx context.Context, id int64) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := r.db.WithContext(ctx).First(&withdrawal, id).Error
	if err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

// GetByIDWithRelations 根据 ID 获取提现记录（包含关联）
func (r *WithdrawalRepository) GetByIDWithRelations(ctx context.Context, id int64) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Operator").
		First(&withdrawal, id).Error
	if err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

// GetByWithdrawalNo 根据提现单号获取记录
func (r *WithdrawalRepository) GetByWithdrawalNo(ctx context.Context, withdrawalNo string) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := r.db.WithContext(ctx).Where("withdrawal_no = ?", withdrawalNo).First(&withdrawal).Error
	if err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

// GetByUserID 根据用户 ID 获取提现记录列表
func (r *WithdrawalRepository) GetByUserID(ctx context.Context, userID int64, offset, limit int) ([]*models.Withdrawal, int64, error) {
	var withdrawals []*models.Withdrawal
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Withdrawal{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&withdrawals).Error; err != nil {
		return nil, 0, err
	}

	return withdrawals, total, nil
}

// Approve 有保护地将提现从待处理置为已批准，返回影响行数
func (r *WithdrawalRepository) Approve(ctx context.Context, id int64, operatorID int64) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Withdrawal{}).
		Where("id = ? AND status = ?", id, models.WithdrawalStatusPending).
		Updates(map[string]interface{}{
			"status":       models.WithdrawalStatusApproved,
			"operator_id":  operatorID,
			"processed_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// RejectTx 在事务中有保护地将提现从待处理置为已拒绝，返回影响行数
func (r *WithdrawalRepository) RejectTx(ctx context.Context, tx *gorm.DB, id int64, operatorID int64, reason string) (int64, error) {
	result := tx.WithContext(ctx).Model(&models.Withdrawal{}).
		Where("id = ? AND status = ?", id, models.WithdrawalStatusPending).
		Updates(map[string]interface{}{
			"status":        models.WithdrawalStatusRejected,
			"operator_id":   operatorID,
			"processed_at":  time.Now(),
			"reject_reason": reason,
		})
	return result.RowsAffected, result.Error
}

// CountPendingCreatedBetween 统计用户在时间段内创建的待处理提现数量
func (r *WithdrawalRepository) CountPendingCreatedBetween(ctx context.Context, userID int64, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Withdrawal{}).
		Where("user_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			userID, models.WithdrawalStatusPending, start, end).
		Count(&count).Error
	return count, err
}

// List 获取提现记录列表
func (r *WithdrawalRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Withdrawal, int64, error) {
	var withdrawals []*models.Withdrawal
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Withdrawal{})

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
		Preload("Operator").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&withdrawals).Error; err != nil {
		return nil, 0, err
	}

	return withdrawals, total, nil
}

// GetPendingList 获取待审核列表，按提交先后排序
func (r *WithdrawalRepository) GetPendingList(ctx context.Context, offset, limit int) ([]*models.Withdrawal, int64, error) {
	var withdrawals []*models.Withdrawal
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Withdrawal{}).Where("status = ?", models.WithdrawalStatusPending)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("User").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&withdrawals).Error; err != nil {
		return nil, 0, err
	}

	return withdrawals, total, nil
}

// CountByStatus 按状态统计提现数量
func (r *WithdrawalRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Withdrawal{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// SumByStatus 按状态汇总提现金额
func (r *WithdrawalRepository) SumByStatus(ctx context.Context, status string) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&models.Withdrawal{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", status).
		Row().Scan(&sum)
	return sum, err
}

// SumApprovedBetween 汇总时间段内批准的提现金额
func (r *WithdrawalRepository) SumApprovedBetween(ctx context.Context, start, end time.Time) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&models.Withdrawal{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ? AND processed_at >= ? AND processed_at < ?", models.WithdrawalStatusApproved, start, end).
		Row().Scan(&sum)
	return sum, err
}

// CountApprovedBetween 统计时间段内批准的提现笔数
func (r *WithdrawalRepository) CountApprovedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Withdrawal{}).
		Where("status = ? AND processed_at >= ? AND processed_at < ?", models.WithdrawalStatusApproved, start, end).
		Count(&count).Error
	return count, err
}

// GetSummary 获取提现汇总统计
func (r *WithdrawalRepository) GetSummary(ctx context.Context) (*models.WithdrawalSummary, error) {
	var summary models.WithdrawalSummary
	err := r.db.WithContext(ctx).Model(&models.Withdrawal{}).
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

// ExistsWithdrawalNo 检查提现单号是否存在
func (r *WithdrawalRepository) ExistsWithdrawalNo(ctx context.Context, withdrawalNo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Withdrawal{}).Where("withdrawal_no = ?", withdrawalNo).Count(&count).Error
	return count > 0, err
}
