// Package repository 账本流水仓储单元测试
package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/JoelCaquene/temeisheng-platform/internal/models"
)

// setupTransactionTestDB 创建流水测试数据库
func setupTransactionTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.LedgerTransaction{})
	require.NoError(t, err)

	return db
}

func TestTransactionRepository_Create(t *testing.T) {
	db := setupTransactionTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	refNo := "D20260830000001"
	tx := &models.LedgerTransaction{
		UserID:        1,
		Type:          models.LedgerTxTypeDeposit,
		Amount:        5000,
		BalanceBefore: 0,
		BalanceAfter:  5000,
		RefNo:         &refNo,
	}
	err := repo.Create(ctx, tx)
	require.NoError(t, err)
	assert.NotZero(t, tx.ID)
}

func TestTransactionRepository_List(t *testing.T) {
	db := setupTransactionTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	db.Create(&models.LedgerTransaction{UserID: 1, Type: models.LedgerTxTypeDeposit, Amount: 5000, BalanceBefore: 0, BalanceAfter: 5000})
	db.Create(&models.LedgerTransaction{UserID: 1, Type: models.LedgerTxTypeWithdraw, Amount: 2000, BalanceBefore: 5000, BalanceAfter: 3000})
	db.Create(&models.LedgerTransaction{UserID: 2, Type: models.LedgerTxTypeSubsidy, Amount: 1000, BalanceBefore: 0, BalanceAfter: 1000})

	t.Run("按用户筛选", func(t *testing.T) {
		userID := int64(1)
		txs, total, err := repo.List(ctx, &TransactionFilter{UserID: &userID}, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, txs, 2)
	})

	t.Run("按类型筛选", func(t *testing.T) {
		txs, total, err := repo.List(ctx, &TransactionFilter{Type: models.LedgerTxTypeSubsidy}, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, txs, 1)
		assert.Equal(t, int64(2), txs[0].UserID)
	})
}

func TestTransactionRepository_SumByType(t *testing.T) {
	db := setupTransactionTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	db.Create(&models.LedgerTransaction{UserID: 1, Type: models.LedgerTxTypeSubsidy, Amount: 1000, BalanceBefore: 0, BalanceAfter: 1000})
	db.Create(&models.LedgerTransaction{UserID: 2, Type: models.LedgerTxTypeSubsidy, Amount: 1000, BalanceBefore: 0, BalanceAfter: 1000})
	db.Create(&models.LedgerTransaction{UserID: 1, Type: models.LedgerTxTypeEarning, Amount: 150, BalanceBefore: 1000, BalanceAfter: 1150})

	sum, err := repo.SumByType(ctx, models.LedgerTxTypeSubsidy, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, float64(2000), sum)
}

func TestTransactionRepository_GetByRefNo(t *testing.T) {
	db := setupTransactionTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	refNo := "W20260830000001"
	db.Create(&models.LedgerTransaction{UserID: 1, Type: models.LedgerTxTypeWithdraw, Amount: 2000, BalanceBefore: 5000, BalanceAfter: 3000, RefNo: &refNo})
	db.Create(&models.LedgerTransaction{UserID: 1, Type: models.LedgerTxTypeWithdrawRefund, Amount: 2000, BalanceBefore: 3000, BalanceAfter: 5000, RefNo: &refNo})

	txs, err := repo.GetByRefNo(ctx, refNo)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}
