// Package repository 提供数据访问层
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/JoelCaquene/temeisheng-platform/internal/models"
)

// TransactionRepository 账本流水仓储
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository 创建流水仓储
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create 创建流水记录
func (r *TransactionRepository) Create(ctx context.Context, transaction *models.LedgerTransaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

// CreateTx 在事务中创建流水记录
func (r *TransactionRepository) CreateTx(ctx context.Context, tx *gorm.DB, transaction *models.LedgerTransaction) error {
	return tx.WithContext(ctx).Create(transaction).Error
}

// GetByID 根据 ID 获取流水记录
func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*models.LedgerTransaction, error) {
	var transaction models.LedgerTransaction
	err := r.db.WithContext(ctx).First(&transaction, id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

// TransactionFilter 流水查询过滤条件
type TransactionFilter struct {
	UserID    *int64
	Type      string
	RefNo     string
	StartDate *time.Time
	EndDate   *time.Time
}

// List 获取流水列表
func (r *TransactionRepository) List(ctx context.Context, filter *TransactionFilter, offset, limit int) ([]*models.LedgerTransaction, int64, error) {
	var transactions []*models.LedgerTransaction
	var total int64

	query := r.db.WithContext(ctx).Model(&models.LedgerTransaction{})

	if filter != nil {
		if filter.UserID != nil {
			query = query.Where("user_id = ?", *filter.UserID)
		}
		if filter.Type != "" {
			query = query.Where("type = ?", filter.Type)
		}
		if filter.RefNo != "" {
			query = query.Where("ref_no = ?", filter.RefNo)
		}
		if filter.StartDate != nil {
			query = query.Where("created_at >= ?", *filter.StartDate)
		}
		if filter.EndDate != nil {
			query = query.Where("created_at <= ?", *filter.EndDate)
		}
	}

	// 获取总数
	err := query.Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	// 获取数据
	err = query.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}

// ListByUser 获取用户流水列表
func (r *TransactionRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*models.LedgerTransaction, int64, error) {
	filter := &TransactionFilter{
		UserID: &userID,
	}
	return r.List(ctx, filter, offset, limit)
}

// GetByRefNo 根据关联单号获取流水记录
func (r *TransactionRepository) GetByRefNo(ctx context.Context, refNo string) ([]*models.LedgerTransaction, error) {
	var transactions []*models.LedgerTransaction
	err := r.db.WithContext(ctx).Where("ref_no = ?", refNo).
		Order("created_at DESC").
		Find(&transactions).Error
	return transactions, err
}

// SumByType 按类型汇总流水金额
func (r *TransactionRepository) SumByType(ctx context.Context, txType string, startDate, endDate *time.Time) (float64, error) {
	var sum float64
	query := r.db.WithContext(ctx).Model(&models.LedgerTransaction{}).
		Where("type = ?", txType)
	if startDate != nil {
		query = query.Where("created_at >= ?", *startDate)
	}
	if endDate != nil {
		query = query.Where("created_at <= ?", *endDate)
	}
	err := query.Select("COALESCE(SUM(amount), 0)").Row().Scan(&sum)
	return sum, err
}

// CountByType 按类型统计流水数量
func (r *TransactionRepository) CountByType(ctx context.Context, txType string, startDate, endDate *time.Time) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.LedgerTransaction{}).Where("type = ?", txType)
	if startDate != nil {
		query = query.Where("created_at >= ?", *startDate)
	}
	if endDate != nil {
		query = query.Where("created_at <= ?", *endDate)
	}
	err := query.Count(&count).Error
	return count, err
}

// SumByUserAndType 汇总用户某类型流水金额
func (r *TransactionRepository) SumByUserAndType(ctx context.Context, userID int64, txType string) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&models.LedgerTransaction{}).
		Where("user_id = ? AND type = ?", userID, txType).
		Select("COALESCE(SUM(amount), 0)").Row().Scan(&sum)
	return sum, err
}
