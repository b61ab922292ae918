// Package deposit 充值提交与人工审批服务
package deposit

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

// Service 充值服务
type Service struct {
	db           *gorm.DB
	cfg          *config.Config
	depositRepo  *repository.DepositRepository
	ledgerRepo   *repository.LedgerRepository
	txRepo       *repository.TransactionRepository
	levelRepo    *repository.LevelRepository
	bankRepo     *repository.BankAccountRepository
	referralRepo *repository.ReferralRepository
	userRepo     *repository.UserRepository
	ledgerSvc    *ledger.Service
	notifier     *notify.Notifier
}

// NewService 创建充值服务
func NewService(db *gorm.DB, cfg *config.Config, notifier *notify.Notifier) *Service {
	return &Service{
		db:           db,
		cfg:          cfg,
		depositRepo:  repository.NewDepositRepository(db),
		ledgerRepo:   repository.NewLedgerRepository(db),
		txRepo:       repository.NewTransactionRepository(db),
		levelRepo:    repository.NewLevelRepository(db),
		bankRepo:     repository.NewBankAccountRepository(db),
		referralRepo: repository.NewReferralRepository(db),
		userRepo:     repository.NewUserRepository(db),
		ledgerSvc:    ledger.NewService(db),
		notifier:     notifier,
	}
}

// SubmitRequest 充值提交请求
type SubmitRequest struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	LevelID       *int64  `json:"level_id"`
	BankAccountID *int64  `json:"bank_account_id"`
	ProofURL      string  `json:"proof_url"`
}

// Submit 提交充值申请，进入待审核队列
func (s *Service) Submit(ctx context.Context, userID int64, req *SubmitRequest) (*models.Deposit, error) {
	if req.Amount <= 0 {
		return nil, errors.ErrInvalidParams.WithMessage("O valor do depósito deve ser positivo")
	}

	if req.LevelID != nil {
		level, err := s.levelRepo.GetByID(ctx, *req.LevelID)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.ErrLevelNotFound
			}
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		if !level.IsActive {
			return nil, errors.ErrLevelDisabled
		}
		if req.Amount < level.MinDeposit {
			return nil, errors.ErrDepositAmountLow
		}
	}

	if req.BankAccountID != nil {
		account, err := s.bankRepo.GetByID(ctx, *req.BankAccountID)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.ErrBankAccountClosed
			}
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		if !account.IsActive {
			return nil, errors.ErrBankAccountClosed
		}
	}

	deposit := &models.Deposit{
		DepositNo:     utils.GenerateOrderNo("D"),
		UserID:        userID,
		Amount:        req.Amount,
		LevelID:       req.LevelID,
		BankAccountID: req.BankAccountID,
		Status:        models.DepositStatusPending,
	}
	if req.ProofURL != "" {
		deposit.ProofURL = utils.StringPtr(req.ProofURL)
	}
	if err := s.depositRepo.Create(ctx, deposit); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	metrics.GetMetrics().RecordDeposit(models.DepositStatusPending)
	logger.Info("充值申请已提交",
		logger.UserID(userID),
		logger.DepositNo(deposit.DepositNo),
		logger.Amount(deposit.Amount),
	)
	return deposit, nil
}

// Approve 批准充值。
// 状态翻转、入账、等级激活与一次性邀请补贴在同一事务内完成，
// 状态守卫保证同一笔充值只会入账一次。
func (s *Service) Approve(ctx context.Context, depositID, operatorID int64) (*models.Deposit, error) {
	deposit, err := s.depositRepo.GetByID(ctx, depositID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrDepositNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if deposit.Status != models.DepositStatusPending {
		return nil, errors.ErrDepositNotPending
	}

	now := time.Now()
	subsidyAmount := s.cfg.Business.Subsidy.Amount
	var subsidyGrantedTo *models.User

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.depositRepo.ApproveTx(ctx, tx, depositID, operatorID, now)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if rows == 0 {
			return errors.ErrDepositNotPending
		}

		account, err := s.ledgerRepo.GetForUpdate(ctx, tx, deposit.UserID)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.ErrLedgerNotFound
			}
			return errors.ErrDatabaseError.WithError(err)
		}

		balanceBefore := account.Balance
		balanceAfter := balanceBefore + deposit.Amount

		fields := map[string]interface{}{
			"balance":                  balanceAfter,
			"total_deposited":          gorm.Expr("total_deposited + ?", deposit.Amount),
			"last_deposit_approved_at": now,
		}
		// 充值绑定了等级且与当前等级不同时，激活新等级并重置计时
		activatesLevel := deposit.LevelID != nil &&
			(account.ActiveLevelID == nil || *account.ActiveLevelID != *deposit.LevelID)
		if activatesLevel {
			fields["active_level_id"] = *deposit.LevelID
			fields["level_activated_at"] = now
		}

		if err := s.ledgerRepo.UpdateFieldsTx(ctx, tx, deposit.UserID, fields); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		record := &models.LedgerTransaction{
			UserID:        deposit.UserID,
			Type:          models.LedgerTxTypeDeposit,
			Amount:        deposit.Amount,
			BalanceBefore: balanceBefore,
			BalanceAfter:  balanceAfter,
			RefNo:         &deposit.DepositNo,
			Remark:        utils.StringPtr("Depósito aprovado"),
		}
		if err := s.txRepo.CreateTx(ctx, tx, record); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		// 补贴只跟随激活等级的那次批准发放
		if activatesLevel {
			inviter, err := s.grantSubsidyTx(ctx, tx, deposit, subsidyAmount, now)
			if err != nil {
				return err
			}
			subsidyGrantedTo = inviter
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	deposit.Status = models.DepositStatusApproved
	deposit.ApprovedAt = &now
	deposit.OperatorID = &operatorID

	m := metrics.GetMetrics()
	m.RecordDeposit(models.DepositStatusApproved)
	logger.Info("充值已批准",
		logger.DepositNo(deposit.DepositNo),
		logger.UserID(deposit.UserID),
		logger.AdminID(operatorID),
		logger.Amount(deposit.Amount),
	)

	if user, err := s.userRepo.GetByID(ctx, deposit.UserID); err == nil {
		s.notifier.DepositApproved(user.Phone, deposit.DepositNo, deposit.Amount)
	}
	if subsidyGrantedTo != nil {
		m.RecordSubsidy()
		s.notifier.SubsidyGranted(subsidyGrantedTo.Phone, subsidyAmount)
	}

	return deposit, nil
}

// grantSubsidyTx 在批准事务内尝试发放一次性邀请补贴。
// 返回获得补贴的邀请人，未发放时返回 nil。
// 没有邀请关系或邀请人账本缺失都不阻断审批。
func (s *Service) grantSubsidyTx(ctx context.Context, tx *gorm.DB, deposit *models.Deposit, amount float64, now time.Time) (*models.User, error) {
	if amount <= 0 {
		return nil, nil
	}

	edge, err := s.referralRepo.GetByInviteeIDTx(ctx, tx, deposit.UserID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	rows, err := s.referralRepo.GrantSubsidyTx(ctx, tx, deposit.UserID, amount, now)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if rows == 0 {
		// 补贴已在之前的充值发放过
		return nil, nil
	}

	_, err = s.ledgerSvc.CreditTx(ctx, tx, edge.InviterID, amount,
		models.LedgerTxTypeSubsidy, &deposit.DepositNo, "Subsídio de convite",
		map[string]interface{}{
			"subsidy_balance": gorm.Expr("subsidy_balance + ?", amount),
		})
	if err != nil {
		if stderrors.Is(err, errors.ErrLedgerNotFound) {
			logger.Warn("邀请人账本缺失，补贴未入账",
				logger.Int64("inviter_id", edge.InviterID),
				logger.DepositNo(deposit.DepositNo),
			)
			return nil, nil
		}
		return nil, err
	}

	inviter, err := s.userRepo.GetByID(ctx, edge.InviterID)
	if err != nil {
		return nil, nil
	}
	return inviter, nil
}

// Reject 拒绝充值，不产生任何账本变动
func (s *Service) Reject(ctx context.Context, depositID, operatorID int64, reason string) error {
	if reason == "" {
		return errors.ErrInvalidParams.WithMessage("O motivo da rejeição é obrigatório")
	}

	deposit, err := s.depositRepo.GetByID(ctx, depositID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrDepositNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	rows, err := s.depositRepo.Reject(ctx, depositID, operatorID, reason)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if rows == 0 {
		return errors.ErrDepositNotPending
	}

	metrics.GetMetrics().RecordDeposit(models.DepositStatusRejected)
	logger.Info("充值已拒绝",
		logger.DepositNo(deposit.DepositNo),
		logger.AdminID(operatorID),
		logger.String("reason", reason),
	)

	if user, err := s.userRepo.GetByID(ctx, deposit.UserID); err == nil {
		s.notifier.DepositRejected(user.Phone, deposit.DepositNo, reason)
	}
	return nil
}

// GetByID 获取充值详情（含关联）
func (s *Service) GetByID(ctx context.Context, depositID int64) (*models.Deposit, error) {
	deposit, err := s.depositRepo.GetByIDWithRelations(ctx, depositID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrDepositNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return deposit, nil
}

// ListByUser 获取用户充值历史
func (s *Service) ListByUser(ctx context.Context, userID int64, page *utils.Pagination) ([]*models.Deposit, error) {
	page.Normalize()
	deposits, total, err := s.depositRepo.GetByUserID(ctx, userID, page.GetOffset(), page.GetLimit())
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	page.Total = total
	return deposits, nil
}

// ListPending 获取待审核队列，按提交先后排序
func (s *Service) ListPending(ctx context.Context, page *utils.Pagination) ([]*models.Deposit, error) {
	page.Normalize()
	deposits, total, err := s.depositRepo.GetPendingList(ctx, page.GetOffset(), page.GetLimit())
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	page.Total = total
	return deposits, nil
}

// List 按条件获取充值列表（管理端）
func (s *Service) List(ctx context.Context, filters map[string]interface{}, page *utils.Pagination) ([]*models.Deposit, error) {
	page.Normalize()
	deposits, total, err := s.depositRepo.List(ctx, page.GetOffset(), page.GetLimit(), filters)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	page.Total = total
	return deposits, nil
}
