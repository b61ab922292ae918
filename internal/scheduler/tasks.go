// Package scheduler 提供定时任务
package scheduler

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/JoelCaquene/temeisheng-platform/internal/common/logger"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/metrics"
	"github.com/JoelCaquene/temeisheng-platform/internal/models"
	"github.com/JoelCaquene/temeisheng-platform/internal/repository"
	adminService "github.com/JoelCaquene/temeisheng-platform/internal/service/admin"
)

// TaskHandler 任务处理器
type TaskHandler struct {
	db             *gorm.DB
	depositRepo    *repository.DepositRepository
	withdrawalRepo *repository.WithdrawalRepository
	ledgerRepo     *repository.LedgerRepository
	adminService   *adminService.Service
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(db *gorm.DB, adminSvc *adminService.Service) *TaskHandler {
	return &TaskHandler{
		db:             db,
		depositRepo:    repository.NewDepositRepository(db),
		withdrawalRepo: repository.NewWithdrawalRepository(db),
		ledgerRepo:     repository.NewLedgerRepository(db),
		adminService:   adminSvc,
	}
}

// RefreshQueueGauges 刷新审核队列与活跃用户指标
func (h *TaskHandler) RefreshQueueGauges(ctx context.Context) error {
	m := metrics.GetMetrics()

	pendingDeposits, err := h.depositRepo.CountByStatus(ctx, models.DepositStatusPending)
	if err != nil {
		return err
	}
	m.SetPendingDeposits(float64(pendingDeposits))

	pendingWithdrawals, err := h.withdrawalRepo.CountByStatus(ctx, models.WithdrawalStatusPending)
	if err != nil {
		return err
	}
	m.SetPendingWithdrawals(float64(pendingWithdrawals))

	activeUsers, err := h.ledgerRepo.CountWithActiveLevel(ctx)
	if err != nil {
		return err
	}
	m.SetActiveUsers(float64(activeUsers))

	return nil
}

// LogDailyFinanceReport 输出前一日财务报表日志
func (h *TaskHandler) LogDailyFinanceReport(ctx context.Context) error {
	report, err := h.adminService.GetDailyReport(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		return err
	}

	logger.Info("每日财务报表",
		logger.String("date", report.Date),
		logger.Float64("deposit_amount", report.DepositAmount),
		logger.Int64("deposit_count", report.DepositCount),
		logger.Float64("withdrawal_amount", report.WithdrawalAmount),
		logger.Int64("withdrawal_count", report.WithdrawalCount),
		logger.Float64("earnings_amount", report.EarningsAmount),
		logger.Float64("subsidy_amount", report.SubsidyAmount),
		logger.Int64("new_users", report.NewUsers),
	)
	return nil
}

// SetupTasks 设置所有任务
func SetupTasks(scheduler *Scheduler, handler *TaskHandler) {
	// 每分钟刷新审核队列指标
	scheduler.AddTask("RefreshQueueGauges", 1*time.Minute, handler.RefreshQueueGauges)

	// 每小时输出前一日财务报表
	scheduler.AddTask("LogDailyFinanceReport", 1*time.Hour, handler.LogDailyFinanceReport)
}
