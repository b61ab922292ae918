// Package repository 充值仓储单元测试
package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/JoelCaquene/temeisheng-platform/internal/models"
)

// setupDepositTestDB 创建充值测试数据库
func setupDepositTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Level{},
		&models.Deposit{},
		&models.BankAccount{},
		&models.Admin{},
	)
	require.NoError(t, err)

	return db
}

func createTestDeposit(t *testing.T, db *gorm.DB, userID int64, amount float64, status string) *models.Deposit {
	t.Helper()
	deposit := &models.Deposit{
		DepositNo: fmt.Sprintf("D%d%d", userID, time.Now().UnixNano()),
		UserID:    userID,
		Amount:    amount,
		Status:    status,
	}
	require.NoError(t, db.Create(deposit).Error)
	return deposit
}

func TestDepositRepository_Create(t *testing.T) {
	db := setupDepositTestDB(t)
	repo := NewDepositRepository(db)
	ctx := context.Background()

	deposit := &models.Deposit{
		DepositNo: "D20260830000001",
		UserID:    1,
		Amount:    5000,
		Status:    models.DepositStatusPending,
	}

	err := repo.Create(ctx, deposit)
	require.NoError(t, err)
	assert.NotZero(t, deposit.ID)
}

func TestDepositRepository_GetByDepositNo(t *testing.T) {
	db := setupDepositTestDB(t)
	repo := NewDepositRepository(db)
	ctx := context.Background()

	created := createTestDeposit(t, db, 1, 5000, models.DepositStatusPending)

	found, err := repo.GetByDepositNo(ctx, created.DepositNo)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestDepositRepository_ApproveTx(t *testing.T) {
	db := setupDepositTestDB(t)
	repo := NewDepositRepository(db)
	ctx := context.Background()

	deposit := createTestDeposit(t, db, 1, 5000, models.DepositStatusPending)
	now := time.Now()

	t.Run("待审核可以批准", func(t *testing.T) {
		err := db.Transaction(func(tx *gorm.DB) error {
			rows, err := repo.ApproveTx(ctx, tx, deposit.ID, 9, now)
			require.NoError(t, err)
			assert.Equal(t, int64(1), rows)
			return nil
		})
		require.NoError(t, err)

		found, err := repo.GetByID(ctx, deposit.ID)
		require.NoError(t, err)
		assert.Equal(t, models.DepositStatusApproved, found.Status)
		require.NotNil(t, found.OperatorID)
		assert.Equal(t, int64(9), *found.OperatorID)
		assert.NotNil(t, found.ApprovedAt)
	})

	t.Run("重复批准影响零行", func(t *testing.T) {
		err := db.Transaction(func(tx *gorm.DB) error {
			rows, err := repo.ApproveTx(ctx, tx, deposit.ID, 9, now)
			require.NoError(t, err)
			assert.Zero(t, rows)
			return nil
		})
		require.NoError(t, err)
	})
}

func TestDepositRepository_Reject(t *testing.T) {
	db := setupDepositTestDB(t)
	repo := NewDepositRepository(db)
	ctx := context.Background()

	deposit := createTestDeposit(t, db, 1, 5000, models.DepositStatusPending)

	t.Run("待审核可以拒绝", func(t *testing.T) {
		rows, err := repo.Reject(ctx, deposit.ID, 9, "Comprovativo ilegível")
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)

		found, err := repo.GetByID(ctx, deposit.ID)
		require.NoError(t, err)
		assert.Equal(t, models.DepositStatusRejected, found.Status)
		require.NotNil(t, found.RejectReason)
		assert.Equal(t, "Comprovativo ilegível", *found.RejectReason)
	})

	t.Run("已拒绝不能再拒绝", func(t *testing.T) {
		rows, err := repo.Reject(ctx, deposit.ID, 9, "outro motivo")
		require.NoError(t, err)
		assert.Zero(t, rows)
	})

	t.Run("已批准不能拒绝", func(t *testing.T) {
		approved := createTestDeposit(t, db, 2, 8000, models.DepositStatusApproved)
		rows, err := repo.Reject(ctx, approved.ID, 9, "motivo")
		require.NoError(t, err)
		assert.Zero(t, rows)
	})
}

func TestDepositRepository_GetPendingList(t *testing.T) {
	db := setupDepositTestDB(t)
	repo := NewDepositRepository(db)
	ctx := context.Background()

	createTestDeposit(t, db, 1, 5000, models.DepositStatusPending)
	createTestDeposit(t, db, 2, 8000, models.DepositStatusPending)
	createTestDeposit(t, db, 3, 3000, models.DepositStatusApproved)

	deposits, total, err := repo.GetPendingList(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, deposits, 2)
	// 按提交先后排序
	assert.True(t, deposits[0].ID < deposits[1].ID)
}

func TestDepositRepository_List(t *testing.T) {
	db := setupDepositTestDB(t)
	repo := NewDepositRepository(db)
	ctx := context.Background()

	createTestDeposit(t, db, 1, 5000, models.DepositStatusPending)
	createTestDeposit(t, db, 1, 8000, models.DepositStatusApproved)
	createTestDeposit(t, db, 2, 3000, models.DepositStatusApproved)

	t.Run("按用户筛选", func(t *testing.T) {
		deposits, total, err := repo.List(ctx, 0, 10, map[string]interface{}{
			"user_id": int64(1),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, deposits, 2)
	})

	t.Run("按状态筛选", func(t *testing.T) {
		deposits, total, err := repo.List(ctx, 0, 10, map[string]interface{}{
			"status": models.DepositStatusApproved,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, deposits, 2)
	})
}

func TestDepositRepository_GetSummary(t *testing.T) {
	db := setupDepositTestDB(t)
	repo := NewDepositRepository(db)
	ctx := context.Background()

	createTestDeposit(t, db, 1, 5000, models.DepositStatusPending)
	createTestDeposit(t, db, 2, 8000, models.DepositStatusApproved)
	createTestDeposit(t, db, 3, 3000, models.DepositStatusRejected)

	summary, err := repo.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalCount)
	assert.Equal(t, int64(1), summary.PendingCount)
	assert.Equal(t, float64(5000), summary.PendingAmount)
	assert.Equal(t, int64(1), summary.ApprovedCount)
	assert.Equal(t, float64(8000), summary.ApprovedAmount)
	assert.Equal(t, int64(1), summary.RejectedCount)
}

func TestDepositRepository_CountByStatus(t *testing.T) {
	db := setupDepositTestDB(t)
	repo := NewDepositRepository(db)
	ctx := context.Background()

	createTestDeposit(t, db, 1, 5000, models.DepositStatusPending)
	createTestDeposit(t, db, 2, 8000, models.DepositStatusPending)

	count, err := repo.CountByStatus(ctx, models.DepositStatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
