// Package repository 每日收益仓储单元测试
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

// setupEarningTestDB 创建收益测试数据库
func setupEarningTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Level{},
		&models.DailyEarning{},
	)
	require.NoError(t, err)

	return db
}

func TestEarningRepository_Create(t *testing.T) {
	db := setupEarningTestDB(t)
	repo := NewEarningRepository(db)
	ctx := context.Background()

	earning := &models.DailyEarning{
		UserID:   1,
		LevelID:  1,
		Amount:   150,
		EarnDate: "2026-08-30",
	}
	err := repo.Create(ctx, earning)
	require.NoError(t, err)
	assert.NotZero(t, earning.ID)
}

func TestEarningRepository_UniqueUserDate(t *testing.T) {
	db := setupEarningTestDB(t)
	repo := NewEarningRepository(db)
	ctx := context.Background()

	first := &models.DailyEarning{UserID: 1, LevelID: 1, Amount: 150, EarnDate: "2026-08-30"}
	require.NoError(t, repo.Create(ctx, first))

	t.Run("同日重复创建被唯一索引拒绝", func(t *testing.T) {
		dup := &models.DailyEarning{UserID: 1, LevelID: 1, Amount: 150, EarnDate: "2026-08-30"}
		err := repo.Create(ctx, dup)
		assert.Error(t, err)
	})

	t.Run("不同日期可以创建", func(t *testing.T) {
		next := &models.DailyEarning{UserID: 1, LevelID: 1, Amount: 150, EarnDate: "2026-08-31"}
		err := repo.Create(ctx, next)
		assert.NoError(t, err)
	})

	t.Run("不同用户同日可以创建", func(t *testing.T) {
		other := &models.DailyEarning{UserID: 2, LevelID: 1, Amount: 150, EarnDate: "2026-08-30"}
		err := repo.Create(ctx, other)
		assert.NoError(t, err)
	})
}

func TestEarningRepository_ExistsByUserAndDate(t *testing.T) {
	db := setupEarningTestDB(t)
	repo := NewEarningRepository(db)
	ctx := context.Background()

	db.Create(&models.DailyEarning{UserID: 1, LevelID: 1, Amount: 150, EarnDate: "2026-08-30"})

	t.Run("已存在", func(t *testing.T) {
		exists, err := repo.ExistsByUserAndDate(ctx, 1, "2026-08-30")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("不存在", func(t *testing.T) {
		exists, err := repo.ExistsByUserAndDate(ctx, 1, "2026-08-31")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestEarningRepository_ListByUser(t *testing.T) {
	db := setupEarningTestDB(t)
	repo := NewEarningRepository(db)
	ctx := context.Background()

	db.Create(&models.DailyEarning{UserID: 1, LevelID: 1, Amount: 150, EarnDate: "2026-08-28"})
	db.Create(&models.DailyEarning{UserID: 1, LevelID: 1, Amount: 150, EarnDate: "2026-08-29"})
	db.Create(&models.DailyEarning{UserID: 2, LevelID: 1, Amount: 300, EarnDate: "2026-08-29"})

	earnings, total, err := repo.ListByUser(ctx, 1, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, earnings, 2)
	// 按日期倒序
	assert.Equal(t, "2026-08-29", earnings[0].EarnDate)
}

func TestEarningRepository_SumByUser(t *testing.T) {
	db := setupEarningTestDB(t)
	repo := NewEarningRepository(db)
	ctx := context.Background()

	db.Create(&models.DailyEarning{UserID: 1, LevelID: 1, Amount: 150, EarnDate: "2026-08-28"})
	db.Create(&models.DailyEarning{UserID: 1, LevelID: 1, Amount: 150, EarnDate: "2026-08-29"})

	sum, err := repo.SumByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, float64(300), sum)
}

func TestEarningRepository_SumByDate(t *testing.T) {
	db := setupEarningTestDB(t)
	repo := NewEarningRepository(db)
	ctx := context.Background()

	db.Create(&models.DailyEarning{UserID: 1, LevelID: 1, Amount: 150, EarnDate: "2026-08-30"})
	db.Create(&models.DailyEarning{UserID: 2, LevelID: 1, Amount: 300, EarnDate: "2026-08-30"})
	db.Create(&models.DailyEarning{UserID: 3, LevelID: 1, Amount: 500, EarnDate: "2026-08-29"})

	sum, err := repo.SumByDate(ctx, "2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, float64(450), sum)
}
