// Package withdraw 提现申请与人工处理服务
package withdraw

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"

	"github.com/JoelCaquene/temeisheng-platform/internal/common/config"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/errors"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/logger"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/metrics"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/utils"
	"github.com/JoelCaquene/temeisheng-platform/internal/models"
	"github.com/JoelCaquene/temeisheng-platform/internal/repository"
	"github.com/JoelCaquene/temeisheng-platform/internal/service/ledger"
	"github.com/JoelCaquene/temeisheng-platform/internal/service/notify"
)

// Service 提现服务
type Service struct {
	db             *gorm.DB
	cfg            *config.Config
	withdrawalRepo *repository.WithdrawalRepository
	ledgerRepo     *repository.LedgerRepository
	userRepo       *repository.UserRepository
	ledgerSvc      *ledger.Service
	notifier       *notify.Notifier

	// now 可在测试中替换以固定提现窗口判断的时间
	now func() time.Time
}

// NewService 创建提现服务
func NewService(db *gorm.DB, cfg *config.Config, notifier *notify.Notifier) *Service {
	return &Service{
		db:             db,
		cfg:            cfg,
		withdrawalRepo: repository.NewWithdrawalRepository(db),
		ledgerRepo:     repository.NewLedgerRepository(db),
		userRepo:       repository.NewUserRepository(db),
		ledgerSvc:      ledger.NewService(db),
		notifier:       notifier,
		now:            time.Now,
	}
}

// Request 提交提现申请。
// 扣款在创建申请的同一事务内完成，带余额条件的扣减保证不会透支。
func (s *Service) Request(ctx context.Context, userID int64, amount float64) (*models.Withdrawal, error) {
	wcfg := &s.cfg.Business.Withdraw

	if amount <= 0 {
		return nil, errors.ErrBelowMinimumAmount
	}

	account, err := s.ledgerRepo.GetByUserID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrLedgerNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if account.BankName == nil || *account.BankName == "" ||
		account.IBAN == nil || *account.IBAN == "" {
		return nil, errors.ErrBankInfoMissing
	}

	loc := wcfg.Timezone()
	nowLocal := s.now().In(loc)

	// 校验顺序：当日重复申请 → 余额 → 最低限额 → 提现窗口
	dayStart := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.Add(24 * time.Hour)
	pending, err := s.withdrawalRepo.CountPendingCreatedBetween(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if pending > 0 {
		return nil, errors.ErrDuplicatePendingRequest
	}

	if account.Balance < amount {
		return nil, errors.ErrInsufficientBalance
	}

	if amount < wcfg.MinAmount {
		return nil, errors.ErrBelowMinimumAmount
	}

	if !s.inWindow(nowLocal) {
		return nil, errors.ErrOutsideAllowedWindow
	}

	withdrawal := &models.Withdrawal{
		WithdrawalNo: utils.GenerateOrderNo("W"),
		UserID:       userID,
		Amount:       amount,
		BankName:     *account.BankName,
		IBAN:         *account.IBAN,
		HolderName:   utils.SafeString(account.HolderName),
		Status:       models.WithdrawalStatusPending,
		// 统一存 UTC，当日去重按同一瞬间换算平台时区比较
		CreatedAt: s.now().UTC(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.withdrawalRepo.CreateTx(ctx, tx, withdrawal); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		_, err := s.ledgerSvc.DebitTx(ctx, tx, userID, amount,
			models.LedgerTxTypeWithdraw, &withdrawal.WithdrawalNo, "Saque solicitado",
			map[string]interface{}{
				"total_withdrawn":    gorm.Expr("total_withdrawn + ?", amount),
				"last_withdrawal_at": s.now().UTC(),
			})
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.GetMetrics().RecordWithdrawal(models.WithdrawalStatusPending)
	logger.Info("提现申请已提交",
		logger.UserID(userID),
		logger.WithdrawalNo(withdrawal.WithdrawalNo),
		logger.Amount(amount),
	)
	return withdrawal, nil
}

// inWindow 判断平台时区下是否处于提现窗口
func (s *Service) inWindow(nowLocal time.Time) bool {
	wcfg := &s.cfg.Business.Withdraw

	if nowLocal.Weekday() == time.Sunday && !wcfg.AllowSunday {
		return false
	}
	hour := nowLocal.Hour()
	return hour >= wcfg.WindowOpenHour && hour < wcfg.WindowCloseHour
}

// Approve 批准提现。余额在申请时已扣，这里只翻转状态。
func (s *Service) Approve(ctx context.Context, withdrawalID, operatorID int64) (*models.Withdrawal, error) {
	withdrawal, err := s.withdrawalRepo.GetByID(ctx, withdrawalID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrWithdrawalNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	rows, err := s.withdrawalRepo.Approve(ctx, withdrawalID, operatorID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if rows == 0 {
		return nil, errors.ErrWithdrawalNotPending
	}

	withdrawal.Status = models.WithdrawalStatusApproved
	metrics.GetMetrics().RecordWithdrawal(models.WithdrawalStatusApproved)
	logger.Info("提现已批准",
		logger.WithdrawalNo(withdrawal.WithdrawalNo),
		logger.AdminID(operatorID),
		logger.Amount(withdrawal.Amount),
	)

	if user, err := s.userRepo.GetByID(ctx, withdrawal.UserID); err == nil {
		s.notifier.WithdrawalApproved(user.Phone, withdrawal.WithdrawalNo, withdrawal.Amount)
	}
	return withdrawal, nil
}

// Reject 拒绝提现并退回扣款。
// 状态翻转与退款在同一事务内完成，累计提现额同步回滚。
func (s *Service) Reject(ctx context.Context, withdrawalID, operatorID int64, reason string) error {
	if reason == "" {
		return errors.ErrInvalidParams.WithMessage("O motivo da rejeição é obrigatório")
	}

	withdrawal, err := s.withdrawalRepo.GetByID(ctx, withdrawalID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrWithdrawalNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.withdrawalRepo.RejectTx(ctx, tx, withdrawalID, operatorID, reason)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if rows == 0 {
			return errors.ErrWithdrawalNotPending
		}

		_, err = s.ledgerSvc.CreditTx(ctx, tx, withdrawal.UserID, withdrawal.Amount,
			models.LedgerTxTypeWithdrawRefund, &withdrawal.WithdrawalNo, "Saque rejeitado, valor devolvido",
			map[string]interface{}{
				"total_withdrawn": gorm.Expr("total_withdrawn - ?", withdrawal.Amount),
			})
		return err
	})
	if err != nil {
		return err
	}

	metrics.GetMetrics().RecordWithdrawal(models.WithdrawalStatusRejected)
	logger.Info("提现已拒绝并退款",
		logger.WithdrawalNo(withdrawal.WithdrawalNo),
		logger.AdminID(operatorID),
		logger.Amount(withdrawal.Amount),
		logger.String("reason", reason),
	)

	if user, err := s.userRepo.GetByID(ctx, withdrawal.UserID); err == nil {
		s.notifier.WithdrawalRejected(user.Phone, withdrawal.WithdrawalNo, withdrawal.Amount)
	}
	return nil
}

// GetByID 获取提现详情（含关联）
func (s *Service) GetByID(ctx context.Context, withdrawalID int64) (*models.Withdrawal, error) {
	withdrawal, err := s.withdrawalRepo.GetByIDWithRelations(ctx, withdrawalID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrWithdrawalNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return withdrawal, nil
}

// ListByUser 获取用户提现历史
func (s *Service) ListByUser(ctx context.Context, userID int64, page *utils.Pagination) ([]*models.Withdrawal, error) {
	page.Normalize()
	withdrawals, total, err := s.withdrawalRepo.GetByUserID(ctx, userID, page.GetOffset(), page.GetLimit())
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	page.Total = total
	return withdrawals, nil
}

// ListPending 获取待处理队列，按提交先后排序
func (s *Service) ListPending(ctx context.Context, page *utils.Pagination) ([]*models.Withdrawal, error) {
	page.Normalize()
	withdrawals, total, err := s.withdrawalRepo.GetPendingList(ctx, page.GetOffset(), page.GetLimit())
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	page.Total = total
	return withdrawals, nil
}

// List 按条件获取提现列表（管理端）
func (s *Service) List(ctx context.Context, filters map[string]interface{}, page *utils.Pagination) ([]*models.Withdrawal, error) {
	page.Normalize()
	withdrawals, total, err := s.withdrawalRepo.List(ctx, page.GetOffset(), page.GetLimit(), filters)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	page.Total = total
	return withdrawals, nil
}
