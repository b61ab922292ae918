// Package repository 用户仓储单元测试
package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/JoelCaquene/temeisheng-platform/internal/models"
)

// setupUserTestDB 创建用户测试数据库
func setupUserTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.LedgerAccount{},
		&models.Level{},
	)
	require.NoError(t, err)

	return db
}

func TestUserRepository_Create(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{
		Phone:        "923000001",
		PasswordHash: "hash",
		Name:         "Joaquim",
		ReferralCode: "AB12CD34EF",
		Status:       models.UserStatusActive,
	}

	err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	// 验证用户已创建
	var found models.User
	db.First(&found, user.ID)
	assert.Equal(t, "923000001", found.Phone)
}

func TestUserRepository_GetByID(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{
		Phone:        "923000002",
		PasswordHash: "hash",
		ReferralCode: "CODE000002",
		Status:       models.UserStatusActive,
	}
	db.Create(user)

	t.Run("获取存在的用户", func(t *testing.T) {
		found, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, "923000002", found.Phone)
	})

	t.Run("获取不存在的用户", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 99999)
		assert.Error(t, err)
	})
}

func TestUserRepository_GetByPhone(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{
		Phone:        "923000003",
		PasswordHash: "hash",
		ReferralCode: "CODE000003",
		Status:       models.UserStatusActive,
	}
	db.Create(user)

	t.Run("根据手机号获取用户", func(t *testing.T) {
		found, err := repo.GetByPhone(ctx, "923000003")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("获取不存在的手机号", func(t *testing.T) {
		_, err := repo.GetByPhone(ctx, "999999999")
		assert.Error(t, err)
	})
}

func TestUserRepository_GetByReferralCode(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{
		Phone:        "923000004",
		PasswordHash: "hash",
		ReferralCode: "INVITE0001",
		Status:       models.UserStatusActive,
	}
	db.Create(user)

	t.Run("根据邀请码获取用户", func(t *testing.T) {
		found, err := repo.GetByReferralCode(ctx, "INVITE0001")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("获取不存在的邀请码", func(t *testing.T) {
		_, err := repo.GetByReferralCode(ctx, "INVALID000")
		assert.Error(t, err)
	})
}

func TestUserRepository_GetByIDWithLedger(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{
		Phone:        "923000005",
		PasswordHash: "hash",
		ReferralCode: "CODE000005",
		Status:       models.UserStatusActive,
	}
	db.Create(user)
	db.Create(&models.LedgerAccount{UserID: user.ID, Balance: 2500})

	found, err := repo.GetByIDWithLedger(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Ledger)
	assert.Equal(t, float64(2500), found.Ledger.Balance)
}

func TestUserRepository_UpdateFields(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{
		Phone:        "923000006",
		PasswordHash: "hash",
		Name:         "Antigo",
		ReferralCode: "CODE000006",
		Status:       models.UserStatusActive,
	}
	db.Create(user)

	err := repo.UpdateFields(ctx, user.ID, map[string]interface{}{
		"name": "Novo",
	})
	require.NoError(t, err)

	var found models.User
	db.First(&found, user.ID)
	assert.Equal(t, "Novo", found.Name)
}

func TestUserRepository_ExistsByPhone(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{
		Phone:        "923000007",
		PasswordHash: "hash",
		ReferralCode: "CODE000007",
		Status:       models.UserStatusActive,
	}
	db.Create(user)

	t.Run("手机号存在", func(t *testing.T) {
		exists, err := repo.ExistsByPhone(ctx, "923000007")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("手机号不存在", func(t *testing.T) {
		exists, err := repo.ExistsByPhone(ctx, "999999999")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestUserRepository_List(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		user := &models.User{
			Phone:        fmt.Sprintf("92300010%d", i),
			PasswordHash: "hash",
			ReferralCode: fmt.Sprintf("CODE10000%d", i),
			Status:       models.UserStatusActive,
		}
		db.Create(user)
	}

	t.Run("获取用户列表", func(t *testing.T) {
		users, total, err := repo.List(ctx, 0, 10, map[string]interface{}{})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Len(t, users, 5)
	})

	t.Run("分页获取", func(t *testing.T) {
		users, total, err := repo.List(ctx, 0, 2, map[string]interface{}{})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Len(t, users, 2)
	})

	t.Run("按手机号筛选", func(t *testing.T) {
		users, total, err := repo.List(ctx, 0, 10, map[string]interface{}{
			"phone": "923000101",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, users, 1)
	})
}

func TestUserRepository_CountAll(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		db.Create(&models.User{
			Phone:        fmt.Sprintf("92300020%d", i),
			PasswordHash: "hash",
			ReferralCode: fmt.Sprintf("CODE20000%d", i),
			Status:       models.UserStatusActive,
		})
	}

	count, err := repo.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
