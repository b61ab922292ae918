// Package repository 管理员仓储单元测试
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

// setupAdminTestDB 创建管理员测试数据库
func setupAdminTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Admin{}, &models.OperationLog{})
	require.NoError(t, err)

	return db
}

func TestAdminRepository_Create(t *testing.T) {
	db := setupAdminTestDB(t)
	repo := NewAdminRepository(db)
	ctx := context.Background()

	admin := &models.Admin{
		Username:     "financeiro",
		PasswordHash: "hash",
		Name:         "Equipa Financeira",
		Role:         models.AdminRoleFinance,
		Status:       models.AdminStatusActive,
	}
	err := repo.Create(ctx, admin)
	require.NoError(t, err)
	assert.NotZero(t, admin.ID)
}

func TestAdminRepository_GetByUsername(t *testing.T) {
	db := setupAdminTestDB(t)
	repo := NewAdminRepository(db)
	ctx := context.Background()

	db.Create(&models.Admin{Username: "admin", PasswordHash: "hash", Name: "Admin", Role: models.AdminRoleSuper, Status: models.AdminStatusActive})

	t.Run("获取存在的管理员", func(t *testing.T) {
		admin, err := repo.GetByUsername(ctx, "admin")
		require.NoError(t, err)
		assert.Equal(t, models.AdminRoleSuper, admin.Role)
	})

	t.Run("获取不存在的管理员", func(t *testing.T) {
		_, err := repo.GetByUsername(ctx, "ghost")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestAdminRepository_RecordLogin(t *testing.T) {
	db := setupAdminTestDB(t)
	repo := NewAdminRepository(db)
	ctx := context.Background()

	admin := &models.Admin{Username: "operador", PasswordHash: "hash", Name: "Operador", Status: models.AdminStatusActive}
	db.Create(admin)

	err := repo.RecordLogin(ctx, admin.ID, "10.0.0.1")
	require.NoError(t, err)

	found, err := repo.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.NotNil(t, found.LastLoginAt)
	require.NotNil(t, found.LastLoginIP)
	assert.Equal(t, "10.0.0.1", *found.LastLoginIP)
}

func TestOperationLogRepository_CreateAndList(t *testing.T) {
	db := setupAdminTestDB(t)
	repo := NewOperationLogRepository(db)
	ctx := context.Background()

	admin := &models.Admin{Username: "auditoria", PasswordHash: "hash", Name: "Auditoria", Status: models.AdminStatusActive}
	db.Create(admin)

	targetType := "deposit"
	targetID := int64(42)
	err := repo.Create(ctx, &models.OperationLog{
		AdminID:    admin.ID,
		Module:     "deposit",
		Action:     "approve",
		TargetType: &targetType,
		TargetID:   &targetID,
		IP:         "10.0.0.1",
	})
	require.NoError(t, err)

	t.Run("按模块筛选", func(t *testing.T) {
		logs, total, err := repo.List(ctx, &OperationLogFilter{Module: "deposit"}, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, logs, 1)
		assert.Equal(t, "approve", logs[0].Action)
	})

	t.Run("按管理员筛选", func(t *testing.T) {
		other := int64(99999)
		logs, total, err := repo.List(ctx, &OperationLogFilter{AdminID: &other}, 0, 10)
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, logs)
	})
}
