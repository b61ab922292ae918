// Package task 每日收益领取服务
package task

import (
	"context"
	stderrors "errors"
	"strings"
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

// Service 收益服务
type Service struct {
	db          *gorm.DB
	cfg         *config.Config
	earningRepo *repository.EarningRepository
	ledgerRepo  *repository.LedgerRepository
	userRepo    *repository.UserRepository
	ledgerSvc   *ledger.Service
	notifier    *notify.Notifier

	// now 可在测试中替换以固定结算日
	now func() time.Time
}

// NewService 创建收益服务
func NewService(db *gorm.DB, cfg *config.Config, notifier *notify.Notifier) *Service {
	return &Service{
		db:          db,
		cfg:         cfg,
		earningRepo: repository.NewEarningRepository(db),
		ledgerRepo:  repository.NewLedgerRepository(db),
		userRepo:    repository.NewUserRepository(db),
		ledgerSvc:   ledger.NewService(db),
		notifier:    notifier,
		now:         time.Now,
	}
}

// TodayStatus 当日领取状态
type TodayStatus struct {
	EarnDate       string     `json:"earn_date"`
	HasActiveLevel bool       `json:"has_active_level"`
	AlreadyClaimed bool       `json:"already_claimed"`
	CanClaim       bool       `json:"can_claim"`
	DailyPayout    float64    `json:"daily_payout"`
	LevelExpiresAt *time.Time `json:"level_expires_at,omitempty"`
}

// Claim 领取当日收益。
// 结算日按平台时区划分，(用户, 日期) 唯一索引兜底并发重复领取。
func (s *Service) Claim(ctx context.Context, userID int64) (*models.DailyEarning, error) {
	now := s.now()

	account, err := s.ledgerRepo.GetByUserIDWithLevel(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrLedgerNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	level := account.ActiveLevel
	if account.ActiveLevelID == nil || level == nil {
		return nil, errors.ErrNoActiveLevel
	}
	periodDays := level.PeriodDays
	if periodDays <= 0 {
		periodDays = models.DefaultLevelPeriodDays
	}
	if !account.HasActiveLevel(now, periodDays) {
		return nil, errors.ErrNoActiveLevel
	}

	earnDate := now.In(s.cfg.Business.Earning.Timezone()).Format(models.EarnDateLayout)

	claimed, err := s.earningRepo.ExistsByUserAndDate(ctx, userID, earnDate)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if claimed {
		return nil, errors.ErrAlreadyClaimed
	}

	earning := &models.DailyEarning{
		UserID:   userID,
		LevelID:  level.ID,
		Amount:   level.DailyPayout,
		EarnDate: earnDate,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.earningRepo.CreateTx(ctx, tx, earning); err != nil {
			if isDuplicateErr(err) {
				return errors.ErrAlreadyClaimed
			}
			return errors.ErrDatabaseError.WithError(err)
		}

		_, err := s.ledgerSvc.CreditTx(ctx, tx, userID, level.DailyPayout,
			models.LedgerTxTypeEarning, nil, "Ganho diário "+earnDate,
			map[string]interface{}{
				"total_earnings": gorm.Expr("total_earnings + ?", level.DailyPayout),
			})
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.GetMetrics().RecordEarningClaim()
	logger.Info("每日收益已领取",
		logger.UserID(userID),
		logger.Amount(level.DailyPayout),
		logger.String("earn_date", earnDate),
	)

	if user, err := s.userRepo.GetByID(ctx, userID); err == nil {
		s.notifier.EarningClaimed(user.Phone, level.DailyPayout)
	}
	return earning, nil
}

// Today 查询当日领取状态
func (s *Service) Today(ctx context.Context, userID int64) (*TodayStatus, error) {
	now := s.now()
	earnDate := now.In(s.cfg.Business.Earning.Timezone()).Format(models.EarnDateLayout)

	status := &TodayStatus{EarnDate: earnDate}

	account, err := s.ledgerRepo.GetByUserIDWithLevel(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrLedgerNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if account.ActiveLevelID != nil && account.ActiveLevel != nil {
		periodDays := account.ActiveLevel.PeriodDays
		if periodDays <= 0 {
			periodDays = models.DefaultLevelPeriodDays
		}
		status.HasActiveLevel = account.HasActiveLevel(now, periodDays)
		status.DailyPayout = account.ActiveLevel.DailyPayout
		status.LevelExpiresAt = account.LevelExpiresAt(periodDays)
	}

	claimed, err := s.earningRepo.ExistsByUserAndDate(ctx, userID, earnDate)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	status.AlreadyClaimed = claimed
	status.CanClaim = status.HasActiveLevel && !claimed

	return status, nil
}

// History 收益历史
func (s *Service) History(ctx context.Context, userID int64, page *utils.Pagination) ([]*models.DailyEarning, error) {
	page.Normalize()
	earnings, total, err := s.earningRepo.ListByUser(ctx, userID, page.GetOffset(), page.GetLimit())
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	page.Total = total
	return earnings, nil
}

// TotalEarned 用户累计领取总额
func (s *Service) TotalEarned(ctx context.Context, userID int64) (float64, error) {
	sum, err := s.earningRepo.SumByUser(ctx, userID)
	if err != nil {
		return 0, errors.ErrDatabaseError.WithError(err)
	}
	return sum, nil
}

// isDuplicateErr 判断是否唯一索引冲突
func isDuplicateErr(err error) bool {
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
