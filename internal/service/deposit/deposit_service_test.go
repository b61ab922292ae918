package deposit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/JoelCaquene/temeisheng-platform/internal/common/config"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/errors"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/utils"
	"github.com/JoelCaquene/temeisheng-platform/internal/models"
	"github.com/JoelCaquene/temeisheng-platform/internal/service/notify"
)

// setupTestService 创建充值服务测试环境
func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.Level{},
		&models.LedgerAccount{},
		&models.LedgerTransaction{},
		&models.Deposit{},
		&models.BankAccount{},
		&models.ReferralEdge{},
	)
	require.NoError(t, err)

	cfg := &config.Config{
		Business: config.BusinessConfig{
			Subsidy: config.SubsidyConfig{Amount: 1000},
		},
	}

	return NewService(db, cfg, notify.NewNotifier(nil)), db
}

func createUser(t *testing.T, db *gorm.DB, phone string) *models.User {
	t.Helper()
	user := &models.User{
		Phone:        phone,
		PasswordHash: "hash",
		ReferralCode: "CODE" + phone[3:],
		Status:       models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.LedgerAccount{UserID: user.ID}).Error)
	return user
}

func createLevel(t *testing.T, db *gorm.DB, name string, minDeposit, dailyPayout float64) *models.Level {
	t.Helper()
	level := &models.Level{
		Name:        name,
		MinDeposit:  minDeposit,
		DailyPayout: dailyPayout,
		PeriodDays:  365,
		IsActive:    true,
	}
	require.NoError(t, db.Create(level).Error)
	return level
}

func TestService_Submit(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	user := createUser(t, db, "923000001")
	level := createLevel(t, db, "Nível 1", 5000, 150)

	t.Run("提交成功", func(t *testing.T) {
		deposit, err := svc.Submit(ctx, user.ID, &SubmitRequest{
			Amount:  5000,
			LevelID: &level.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, models.DepositStatusPending, deposit.Status)
		assert.NotEmpty(t, deposit.DepositNo)
	})

	t.Run("金额低于等级门槛", func(t *testing.T) {
		_, err := svc.Submit(ctx, user.ID, &SubmitRequest{
			Amount:  4999,
			LevelID: &level.ID,
		})
		assert.ErrorIs(t, err, errors.ErrDepositAmountLow)
	})

	t.Run("等级不存在", func(t *testing.T) {
		missing := int64(9999)
		_, err := svc.Submit(ctx, user.ID, &SubmitRequest{Amount: 5000, LevelID: &missing})
		assert.ErrorIs(t, err, errors.ErrLevelNotFound)
	})

	t.Run("停用等级拒绝提交", func(t *testing.T) {
		disabled := &models.Level{Name: "Parado", MinDeposit: 1000, DailyPayout: 50, PeriodDays: 365, IsActive: false}
		require.NoError(t, db.Create(disabled).Error)

		_, err := svc.Submit(ctx, user.ID, &SubmitRequest{Amount: 5000, LevelID: &disabled.ID})
		assert.ErrorIs(t, err, errors.ErrLevelDisabled)
	})

	t.Run("停用收款账户拒绝提交", func(t *testing.T) {
		bank := &models.BankAccount{BankName: "BAI", HolderName: "Temeisheng Lda", IBAN: "AO06000000000000000000009", IsActive: false}
		require.NoError(t, db.Create(bank).Error)

		_, err := svc.Submit(ctx, user.ID, &SubmitRequest{Amount: 5000, BankAccountID: &bank.ID})
		assert.ErrorIs(t, err, errors.ErrBankAccountClosed)
	})
}

func TestService_Approve(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	user := createUser(t, db, "923000002")
	level := createLevel(t, db, "Nível 1", 5000, 150)

	deposit, err := svc.Submit(ctx, user.ID, &SubmitRequest{Amount: 5000, LevelID: &level.ID})
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, deposit.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.DepositStatusApproved, approved.Status)
	assert.NotNil(t, approved.ApprovedAt)

	var account models.LedgerAccount
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&account).Error)
	assert.Equal(t, float64(5000), account.Balance)
	assert.Equal(t, float64(5000), account.TotalDeposited)
	assert.NotNil(t, account.LastDepositApprovedAt)
	require.NotNil(t, account.ActiveLevelID)
	assert.Equal(t, level.ID, *account.ActiveLevelID)
	assert.NotNil(t, account.LevelActivatedAt)

	var record models.LedgerTransaction
	require.NoError(t, db.Where("user_id = ? AND type = ?", user.ID, models.LedgerTxTypeDeposit).First(&record).Error)
	assert.Equal(t, float64(5000), record.Amount)
	require.NotNil(t, record.RefNo)
	assert.Equal(t, deposit.DepositNo, *record.RefNo)
}

func TestService_Approve_Idempotent(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	user := createUser(t, db, "923000003")
	deposit, err := svc.Submit(ctx, user.ID, &SubmitRequest{Amount: 3000})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, deposit.ID, 1)
	require.NoError(t, err)

	// 重复批准只报已处理，不会二次入账
	_, err = svc.Approve(ctx, deposit.ID, 1)
	assert.ErrorIs(t, err, errors.ErrDepositNotPending)

	var account models.LedgerAccount
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&account).Error)
	assert.Equal(t, float64(3000), account.Balance)

	var count int64
	db.Model(&models.LedgerTransaction{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestService_Approve_NotFound(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	_, err := svc.Approve(ctx, 9999, 1)
	assert.ErrorIs(t, err, errors.ErrDepositNotFound)
}

func TestService_Approve_KeepsLevelTimerOnSameLevel(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	user := createUser(t, db, "923000004")
	level := createLevel(t, db, "Nível 1", 1000, 50)

	first, err := svc.Submit(ctx, user.ID, &SubmitRequest{Amount: 1000, LevelID: &level.ID})
	require.NoError(t, err)
	_, err = svc.Approve(ctx, first.ID, 1)
	require.NoError(t, err)

	var before models.LedgerAccount
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&before).Error)
	require.NotNil(t, before.LevelActivatedAt)
	activatedAt := *before.LevelActivatedAt

	// 同等级复充不重置激活时间
	second, err := svc.Submit(ctx, user.ID, &SubmitRequest{Amount: 1000, LevelID: &level.ID})
	require.NoError(t, err)
	_, err = svc.Approve(ctx, second.ID, 1)
	require.NoError(t, err)

	var after models.LedgerAccount
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&after).Error)
	require.NotNil(t, after.LevelActivatedAt)
	assert.Equal(t, activatedAt.Unix(), after.LevelActivatedAt.Unix())
	assert.Equal(t, float64(2000), after.Balance)
}

func TestService_Approve_GrantsSubsidyOnce(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	inviter := createUser(t, db, "923000010")
	invitee := createUser(t, db, "923000011")
	require.NoError(t, db.Create(&models.ReferralEdge{
		InviterID: inviter.ID,
		InviteeID: invitee.ID,
	}).Error)
	basic := createLevel(t, db, "Nível 1", 5000, 150)
	premium := createLevel(t, db, "Nível 2", 10000, 350)

	first, err := svc.Submit(ctx, invitee.ID, &SubmitRequest{Amount: 5000, LevelID: &basic.ID})
	require.NoError(t, err)
	_, err = svc.Approve(ctx, first.ID, 1)
	require.NoError(t, err)

	var inviterAccount models.LedgerAccount
	require.NoError(t, db.Where("user_id = ?", inviter.ID).First(&inviterAccount).Error)
	assert.Equal(t, float64(1000), inviterAccount.Balance)
	assert.Equal(t, float64(1000), inviterAccount.SubsidyBalance)

	var edge models.ReferralEdge
	require.NoError(t, db.Where("invitee_id = ?", invitee.ID).First(&edge).Error)
	assert.True(t, edge.SubsidyGranted)
	assert.Equal(t, float64(1000), edge.SubsidyAmount)
	assert.NotNil(t, edge.SubsidyGrantedAt)

	// 升级激活新等级也不会再次发放补贴
	second, err := svc.Submit(ctx, invitee.ID, &SubmitRequest{Amount: 10000, LevelID: &premium.ID})
	require.NoError(t, err)
	_, err = svc.Approve(ctx, second.ID, 1)
	require.NoError(t, err)

	require.NoError(t, db.Where("user_id = ?", inviter.ID).First(&inviterAccount).Error)
	assert.Equal(t, float64(1000), inviterAccount.Balance)

	var subsidyCount int64
	db.Model(&models.LedgerTransaction{}).
		Where("user_id = ? AND type = ?", inviter.ID, models.LedgerTxTypeSubsidy).
		Count(&subsidyCount)
	assert.Equal(t, int64(1), subsidyCount)
}

func TestService_Approve_NoLevelActivationNoSubsidy(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	inviter := createUser(t, db, "923000012")
	invitee := createUser(t, db, "923000013")
	require.NoError(t, db.Create(&models.ReferralEdge{
		InviterID: inviter.ID,
		InviteeID: invitee.ID,
	}).Error)

	// 不绑定等级的充值批准后不激活任何等级，也不触发补贴
	deposit, err := svc.Submit(ctx, invitee.ID, &SubmitRequest{Amount: 5000})
	require.NoError(t, err)
	_, err = svc.Approve(ctx, deposit.ID, 1)
	require.NoError(t, err)

	var inviterAccount models.LedgerAccount
	require.NoError(t, db.Where("user_id = ?", inviter.ID).First(&inviterAccount).Error)
	assert.Zero(t, inviterAccount.Balance)
	assert.Zero(t, inviterAccount.SubsidyBalance)

	var edge models.ReferralEdge
	require.NoError(t, db.Where("invitee_id = ?", invitee.ID).First(&edge).Error)
	assert.False(t, edge.SubsidyGranted)

	// 随后激活等级的那笔批准才发放补贴
	level := createLevel(t, db, "Nível 1", 5000, 150)
	activating, err := svc.Submit(ctx, invitee.ID, &SubmitRequest{Amount: 5000, LevelID: &level.ID})
	require.NoError(t, err)
	_, err = svc.Approve(ctx, activating.ID, 1)
	require.NoError(t, err)

	require.NoError(t, db.Where("user_id = ?", inviter.ID).First(&inviterAccount).Error)
	assert.Equal(t, float64(1000), inviterAccount.Balance)
}

func TestService_Approve_NoEdgeNoSubsidy(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	user := createUser(t, db, "923000020")
	deposit, err := svc.Submit(ctx, user.ID, &SubmitRequest{Amount: 5000})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, deposit.ID, 1)
	require.NoError(t, err)

	var count int64
	db.Model(&models.LedgerTransaction{}).Where("type = ?", models.LedgerTxTypeSubsidy).Count(&count)
	assert.Zero(t, count)
}

func TestService_Reject(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	user := createUser(t, db, "923000030")
	deposit, err := svc.Submit(ctx, user.ID, &SubmitRequest{Amount: 5000})
	require.NoError(t, err)

	t.Run("拒绝成功且无账本变动", func(t *testing.T) {
		err := svc.Reject(ctx, deposit.ID, 1, "Comprovativo ilegível")
		require.NoError(t, err)

		var found models.Deposit
		require.NoError(t, db.First(&found, deposit.ID).Error)
		assert.Equal(t, models.DepositStatusRejected, found.Status)
		require.NotNil(t, found.RejectReason)
		assert.Equal(t, "Comprovativo ilegível", *found.RejectReason)

		var account models.LedgerAccount
		require.NoError(t, db.Where("user_id = ?", user.ID).First(&account).Error)
		assert.Zero(t, account.Balance)

		var count int64
		db.Model(&models.LedgerTransaction{}).Where("user_id = ?", user.ID).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("重复拒绝报已处理", func(t *testing.T) {
		err := svc.Reject(ctx, deposit.ID, 1, "Comprovativo ilegível")
		assert.ErrorIs(t, err, errors.ErrDepositNotPending)
	})

	t.Run("已拒绝的充值不能批准", func(t *testing.T) {
		_, err := svc.Approve(ctx, deposit.ID, 1)
		assert.ErrorIs(t, err, errors.ErrDepositNotPending)
	})

	t.Run("缺少拒绝原因", func(t *testing.T) {
		err := svc.Reject(ctx, deposit.ID, 1, "")
		require.Error(t, err)
		assert.Equal(t, errors.ErrInvalidParams.Code, errors.GetAppError(err).Code)
	})
}

func TestService_ListByUser(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	user := createUser(t, db, "923000040")
	other := createUser(t, db, "923000041")

	_, err := svc.Submit(ctx, user.ID, &SubmitRequest{Amount: 1000})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, user.ID, &SubmitRequest{Amount: 2000})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, other.ID, &SubmitRequest{Amount: 3000})
	require.NoError(t, err)

	page := &utils.Pagination{Page: 1, PageSize: 10}
	deposits, err := svc.ListByUser(ctx, user.ID, page)
	require.NoError(t, err)
	assert.Len(t, deposits, 2)
	assert.Equal(t, int64(2), page.Total)
}
