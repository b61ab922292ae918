// Package repository 提供数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/JoelCaquene/temeisheng-platform/internal/models"
)

// BankAccountRepository 平台收款账户仓储
type BankAccountRepository struct {
	db *gorm.DB
}

// NewBankAccountRepository 创建收款账户仓储
func NewBankAccountRepository(db *gorm.DB) *BankAccountRepository {
	return &BankAccountRepository{db: db}
}

// Create 创建收款账户
func (r *BankAccountRepository) Create(ctx context.Context, account *models.BankAccount) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// GetByID 根据 ID 获取收款账户
func (r *BankAccountRepository) GetByID(ctx context.Context, id int64) (*models.BankAccount, error) {
	var account models.BankAccount
	err := r.db.WithContext(ctx).First(&account, id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ListActive 获取启用的收款账户列表
func (r *BankAccountRepository) ListActive(ctx context.Context) ([]*models.BankAccount, error) {
	var accounts []*models.BankAccount
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort ASC, id ASC").
		Find(&accounts).Error
	return accounts, err
}

// List 获取收款账户列表
func (r *BankAccountRepository) List(ctx context.Context, offset, limit int) ([]*models.BankAccount, int64, error) {
	var accounts []*models.BankAccount
	var total int64

	query := r.db.WithContext(ctx).Model(&models.BankAccount{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("sort ASC, id ASC").Offset(offset).Limit(limit).Find(&accounts).Error; err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}

// Update 更新收款账户
func (r *BankAccountRepository) Update(ctx context.Context, account *models.BankAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}

// UpdateFields 更新指定字段
func (r *BankAccountRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.BankAccount{}).Where("id = ?", id).Updates(fields).Error
}

// Delete 删除收款账户
func (r *BankAccountRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.BankAccount{}, id).Error
}

// ExistsByIBAN 检查 IBAN 是否存在
func (r *BankAccountRepository) ExistsByIBAN(ctx context.Context, iban string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BankAccount{}).Where("iban = ?", iban).Count(&count).Error
	return count > 0, err
}
