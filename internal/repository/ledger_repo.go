// Package repository 提供数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JoelCaquene/temeisheng-platform/internal/models"
)

// LedgerRepository 账本仓储
type LedgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository 创建账本仓储
func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Create 创建账本
func (r *LedgerRepository) Create(ctx context.Context, account *models.LedgerAccount) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// CreateTx 在事务中创建账本
func (r *LedgerRepository) CreateTx(ctx context.Context, tx *gorm.DB, account *models.LedgerAccount) error {
	return tx.WithContext(ctx).Create(account).Error
}

// GetByUserID 根据用户 ID 获取账本
func (r *LedgerRepository) GetByUserID(ctx context.Context, userID int64) (*models.LedgerAccount, error) {
	var account models.LedgerAccount
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByUserIDWithLevel 根据用户 ID 获取账本（包含等级）
func (r *LedgerRepository) GetByUserIDWithLevel(ctx context.Context, userID int64) (*models.LedgerAccount, error) {
	var account models.LedgerAccount
	err := r.db.WithContext(ctx).Preload("ActiveLevel").Where("user_id = ?", userID).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetForUpdate 获取账本（行锁）。
// SQLite 不支持 FOR UPDATE，单写锁已保证串行，跳过加锁子句。
func (r *LedgerRepository) GetForUpdate(ctx context.Context, tx *gorm.DB, userID int64) (*models.LedgerAccount, error) {
	var account models.LedgerAccount
	q := tx.WithContext(ctx)
	if tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.Where("user_id = ?", userID).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdateFieldsTx 在事务中更新指定字段
func (r *LedgerRepository) UpdateFieldsTx(ctx context.Context, tx *gorm.DB, userID int64, fields map[string]interface{}) error {
	return tx.WithContext(ctx).Model(&models.LedgerAccount{}).
		Where("user_id = ?", userID).Updates(fields).Error
}

// DebitBalanceTx 在事务中有保护地扣减余额，余额不足时影响 0 行
func (r *LedgerRepository) DebitBalanceTx(ctx context.Context, tx *gorm.DB, userID int64, amount float64) (int64, error) {
	result := tx.WithContext(ctx).Model(&models.LedgerAccount{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	return result.RowsAffected, result.Error
}

// UpdateBankInfo 更新收款银行信息，不触碰余额字段
func (r *LedgerRepository) UpdateBankInfo(ctx context.Context, userID int64, bankName, iban, holderName string) error {
	return r.db.WithContext(ctx).Model(&models.LedgerAccount{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"bank_name":   bankName,
			"iban":        iban,
			"holder_name": holderName,
		}).Error
}

// CountByActiveLevel 统计持有指定等级的账本数量
func (r *LedgerRepository) CountByActiveLevel(ctx context.Context, levelID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LedgerAccount{}).
		Where("active_level_id = ?", levelID).Count(&count).Error
	return count, err
}

// CountWithActiveLevel 统计持有等级的账本数量
func (r *LedgerRepository) CountWithActiveLevel(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LedgerAccount{}).
		Where("active_level_id IS NOT NULL").Count(&count).Error
	return count, err
}

// SumColumn 汇总账本指定金额列
func (r *LedgerRepository) SumColumn(ctx context.Context, column string) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&models.LedgerAccount{}).
		Select("COALESCE(SUM(" + column + "), 0)").
		Row().Scan(&sum)
	return sum, err
}
