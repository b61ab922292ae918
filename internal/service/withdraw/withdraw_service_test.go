package withdraw

import (
	"context"
	"testing"
	"time"

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

// setupTestService 创建提现服务测试环境
func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.LedgerAccount{},
		&models.LedgerTransaction{},
		&models.Withdrawal{},
	)
	require.NoError(t, err)

	cfg := &config.Config{
		Business: config.BusinessConfig{
			Withdraw: config.WithdrawConfig{
				MinAmount:       1500,
				WindowOpenHour:  9,
				WindowCloseHour: 18,
				UTCOffsetHours:  1,
				AllowSunday:     false,
			},
		},
	}

	svc := NewService(db, cfg, notify.NewNotifier(nil))
	// 固定在周一营业时间内，时区为平台时区
	svc.now = func() time.Time {
		return time.Date(2026, 8, 31, 10, 0, 0, 0, cfg.Business.Withdraw.Timezone())
	}
	return svc, db
}

func createUserWithBalance(t *testing.T, db *gorm.DB, phone string, balance float64, withBank bool) *models.User {
	t.Helper()
	user := &models.User{
		Phone:        phone,
		PasswordHash: "hash",
		ReferralCode: "CODE" + phone[3:],
		Status:       models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)

	account := &models.LedgerAccount{UserID: user.ID, Balance: balance}
	if withBank {
		account.BankName = utils.StringPtr("BAI")
		account.IBAN = utils.StringPtr("AO06000000000000000000001")
		account.HolderName = utils.StringPtr("João Manuel")
	}
	require.NoError(t, db.Create(account).Error)
	return user
}

func TestService_Request(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	user := createUserWithBalance(t, db, "923000001", 5000, true)

	withdrawal, err := svc.Request(ctx, user.ID, 2000)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusPending, withdrawal.Status)
	assert.Equal(t, "AO06000000000000000000001", withdrawal.IBAN)
	assert.Equal(t, "João Manuel", withdrawal.HolderName)

	var account models.LedgerAccount
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&account).Error)
	assert.Equal(t, float64(3000), account.Balance)
	assert.Equal(t, float64(2000), account.TotalWithdrawn)
	assert.NotNil(t, account.LastWithdrawalAt)

	var record models.LedgerTransaction
	require.NoError(t, db.Where("user_id = ? AND type = ?", user.ID, models.LedgerTxTypeWithdraw).First(&record).Error)
	assert.Equal(t, float64(2000), record.Amount)
	assert.Equal(t, float64(5000), record.BalanceBefore)
	assert.Equal(t, float64(3000), record.BalanceAfter)
}

func TestService_Request_BelowMinimum(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	user := createUserWithBalance(t, db, "923000002", 5000, true)

	_, err := svc.Request(ctx, user.ID, 1499)
	assert.ErrorIs(t, err, errors.ErrBelowMinimumAmount)

	_, err = svc.Request(ctx, user.ID, 0)
	assert.ErrorIs(t, err, errors.ErrBelowMinimumAmount)
}

func TestService_Request_BankInfoMissing(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	user := createUserWithBalance(t, db, "923000003", 5000, false)

	_, err := svc.Request(ctx, user.ID, 2000)
	assert.ErrorIs(t, err, errors.ErrBankInfoMissing)
}

func TestService_Request_OutsideWindow(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	user := createUserWithBalance(t, db, "923000004", 5000, true)
	loc := svc.cfg.Business.Withdraw.Timezone()

	t.Run("周日拒绝", func(t *testing.T) {
		svc.now = func() time.Time { return time.Date(2026, 8, 30, 10, 0, 0, 0, loc) }
		_, err := svc.Request(ctx, user.ID, 2000)
		assert.ErrorIs(t, err, errors.ErrOutsideAllowedWindow)
	})

	t.Run("开window前拒绝", func(t *testing.T) {
		svc.now = func() time.Time { return time.Date(2026, 8, 31, 8, 59, 0, 0, loc) }
		_, err := svc.Request(ctx, user.ID, 2000)
		assert.ErrorIs(t, err, errors.ErrOutsideAllowedWindow)
	})

	t.Run("关window后拒绝", func(t *testing.T) {
		svc.now = func() time.Time { return time.Date(2026, 8, 31, 18, 0, 0, 0, loc) }
		_, err := svc.Request(ctx, user.ID, 2000)
		assert.ErrorIs(t, err, errors.ErrOutsideAllowedWindow)
	})

	t.Run("周六营业时间允许", func(t *testing.T) {
		svc.now = func() time.Time { return time.Date(2026, 9, 5, 10, 0, 0, 0, loc) }
		_, err := svc.Request(ctx, user.ID, 2000)
		assert.NoError(t, err)
	})
}

func TestService_Request_DuplicatePendingSameDay(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	user := createUserWithBalance(t, db, "923000005", 10000, true)

	_, err := svc.Request(ctx, user.ID, 2000)
	require.NoError(t, err)

	_, err = svc.Request(ctx, user.ID, 2000)
	assert.ErrorIs(t, err, errors.ErrDuplicatePendingRequest)
}

func TestService_Request_InsufficientBalance(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	user := createUserWithBalance(t, db, "923000006", 1000, true)

	_, err := svc.Request(ctx, user.ID, 1500)
	assert.ErrorIs(t, err, errors.ErrInsufficientBalance)

	// 拒绝后不应留下任何申请记录
	var count int64
	db.Model(&models.Withdrawal{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Zero(t, count)

	var account models.LedgerAccount
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&account).Error)
	assert.Equal(t, float64(1000), account.Balance)
	assert.Zero(t, account.TotalWithdrawn)
}

func TestService_Request_BalanceCheckedBeforeMinimum(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	// 余额 1000，申请 1200：低于最低限额，但先报余额不足
	user := createUserWithBalance(t, db, "923000011", 1000, true)

	_, err := svc.Request(ctx, user.ID, 1200)
	assert.ErrorIs(t, err, errors.ErrInsufficientBalance)

	var account models.LedgerAccount
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&account).Error)
	assert.Equal(t, float64(1000), account.Balance)
}

func TestService_Request_DuplicateCheckedBeforeMinimum(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	user := createUserWithBalance(t, db, "923000012", 2000, true)

	withdrawal, err := svc.Request(ctx, user.ID, 1500)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusPending, withdrawal.Status)

	var account models.LedgerAccount
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&account).Error)
	assert.Equal(t, float64(500), account.Balance)

	// 当日第二笔即使低于最低限额也先报重复申请
	_, err = svc.Request(ctx, user.ID, 600)
	assert.ErrorIs(t, err, errors.ErrDuplicatePendingRequest)
}

func TestService_Approve(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	user := createUserWithBalance(t, db, "923000007", 5000, true)
	withdrawal, err := svc.Request(ctx, user.ID, 2000)
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, withdrawal.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusApproved, approved.Status)

	// 批准只翻转状态，余额不再变动
	var account models.LedgerAccount
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&account).Error)
	assert.Equal(t, float64(3000), account.Balance)

	t.Run("重复批准报已处理", func(t *testing.T) {
		_, err := svc.Approve(ctx, withdrawal.ID, 1)
		assert.ErrorIs(t, err, errors.ErrWithdrawalNotPending)
	})

	t.Run("不存在的提现", func(t *testing.T) {
		_, err := svc.Approve(ctx, 9999, 1)
		assert.ErrorIs(t, err, errors.ErrWithdrawalNotFound)
	})
}

func TestService_Reject_Refunds(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	user := createUserWithBalance(t, db, "923000008", 5000, true)
	withdrawal, err := svc.Request(ctx, user.ID, 2000)
	require.NoError(t, err)

	err = svc.Reject(ctx, withdrawal.ID, 1, "Dados bancários incorrectos")
	require.NoError(t, err)

	var account models.LedgerAccount
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&account).Error)
	assert.Equal(t, float64(5000), account.Balance)
	assert.Zero(t, account.TotalWithdrawn)

	var record models.LedgerTransaction
	require.NoError(t, db.Where("user_id = ? AND type = ?", user.ID, models.LedgerTxTypeWithdrawRefund).First(&record).Error)
	assert.Equal(t, float64(2000), record.Amount)
	assert.Equal(t, float64(3000), record.BalanceBefore)
	assert.Equal(t, float64(5000), record.BalanceAfter)

	var found models.Withdrawal
	require.NoError(t, db.First(&found, withdrawal.ID).Error)
	assert.Equal(t, models.WithdrawalStatusRejected, found.Status)
	require.NotNil(t, found.RejectReason)
	assert.Equal(t, "Dados bancários incorrectos", *found.RejectReason)

	t.Run("重复拒绝不会二次退款", func(t *testing.T) {
		err := svc.Reject(ctx, withdrawal.ID, 1, "Dados bancários incorrectos")
		assert.ErrorIs(t, err, errors.ErrWithdrawalNotPending)

		var account models.LedgerAccount
		require.NoError(t, db.Where("user_id = ?", user.ID).First(&account).Error)
		assert.Equal(t, float64(5000), account.Balance)
	})
}

func TestService_Reject_AfterApprove(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	user := createUserWithBalance(t, db, "923000009", 5000, true)
	withdrawal, err := svc.Request(ctx, user.ID, 2000)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, withdrawal.ID, 1)
	require.NoError(t, err)

	err = svc.Reject(ctx, withdrawal.ID, 1, "Tentativa tardia")
	assert.ErrorIs(t, err, errors.ErrWithdrawalNotPending)
}

func TestService_ListByUser(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	user := createUserWithBalance(t, db, "923000010", 20000, true)
	loc := svc.cfg.Business.Withdraw.Timezone()

	// 两笔分布在不同的日子
	svc.now = func() time.Time { return time.Date(2026, 8, 31, 10, 0, 0, 0, loc) }
	_, err := svc.Request(ctx, user.ID, 2000)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2026, 9, 1, 10, 0, 0, 0, loc) }
	_, err = svc.Request(ctx, user.ID, 3000)
	require.NoError(t, err)

	page := &utils.Pagination{Page: 1, PageSize: 10}
	withdrawals, err := svc.ListByUser(ctx, user.ID, page)
	require.NoError(t, err)
	assert.Len(t, withdrawals, 2)
	assert.Equal(t, int64(2), page.Total)
}
