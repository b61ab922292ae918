// Package admin 管理后台服务
package admin

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"

	"github.com/JoelCaquene/temeisheng-platform/internal/common/config"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/crypto"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/errors"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/jwt"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/logger"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/utils"
	"github.com/JoelCaquene/temeisheng-platform/internal/models"
	"github.com/JoelCaquene/temeisheng-platform/internal/repository"
)

// Service 管理后台服务
type Service struct {
	db             *gorm.DB
	cfg            *config.Config
	adminRepo      *repository.AdminRepository
	userRepo       *repository.UserRepository
	ledgerRepo     *repository.LedgerRepository
	depositRepo    *repository.DepositRepository
	withdrawalRepo *repository.WithdrawalRepository
	referralRepo   *repository.ReferralRepository
	earningRepo    *repository.EarningRepository
	bankRepo       *repository.BankAccountRepository
	platformRepo   *repository.PlatformConfigRepository
	opLogRepo      *repository.OperationLogRepository
	jwtManager     *jwt.Manager

	now func() time.Time
}

// NewService 创建管理后台服务
func NewService(db *gorm.DB, cfg *config.Config, jwtManager *jwt.Manager) *Service {
	return &Service{
		db:             db,
		cfg:            cfg,
		adminRepo:      repository.NewAdminRepository(db),
		userRepo:       repository.NewUserRepository(db),
		ledgerRepo:     repository.NewLedgerRepository(db),
		depositRepo:    repository.NewDepositRepository(db),
		withdrawalRepo: repository.NewWithdrawalRepository(db),
		referralRepo:   repository.NewReferralRepository(db),
		earningRepo:    repository.NewEarningRepository(db),
		bankRepo:       repository.NewBankAccountRepository(db),
		platformRepo:   repository.NewPlatformConfigRepository(db),
		opLogRepo:      repository.NewOperationLogRepository(db),
		jwtManager:     jwtManager,
		now:            time.Now,
	}
}

// LoginResult 管理员登录结果
type LoginResult struct {
	Admin  *models.Admin  `json:"admin"`
	Tokens *jwt.TokenPair `json:"tokens"`
}

// Login 管理员登录
func (s *Service) Login(ctx context.Context, username, password, ip string) (*LoginResult, error) {
	admin, err := s.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrPasswordError
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if !crypto.VerifyPassword(password, admin.PasswordHash) {
		return nil, errors.ErrPasswordError
	}

	if admin.Status != models.AdminStatusActive {
		return nil, errors.ErrAccountDisabled
	}

	tokens, err := s.jwtManager.GenerateTokenPair(admin.ID, jwt.UserTypeAdmin, admin.Role)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	if err := s.adminRepo.RecordLogin(ctx, admin.ID, ip); err != nil {
		logger.Warn("记录管理员登录信息失败", logger.AdminID(admin.ID), logger.Err(err))
	}

	logger.Info("管理员登录成功", logger.AdminID(admin.ID), logger.String("username", admin.Username))
	return &LoginResult{Admin: admin, Tokens: tokens}, nil
}

// CreateAdminRequest 创建管理员请求
type CreateAdminRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role"`
}

// CreateAdmin 创建管理员账号
func (s *Service) CreateAdmin(ctx context.Context, req *CreateAdminRequest) (*models.Admin, error) {
	exists, err := s.adminRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, errors.ErrAlreadyExists.WithMessage("Nome de utilizador já existe")
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	admin := &models.Admin{
		Username:     req.Username,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         req.Role,
		Status:       models.AdminStatusActive,
	}
	if admin.Role == "" {
		admin.Role = models.AdminRoleOperator
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return admin, nil
}

// ListUsers 获取用户列表
func (s *Service) ListUsers(ctx context.Context, page *utils.Pagination, filters map[string]interface{}) ([]*models.User, error) {
	page.Normalize()
	users, total, err := s.userRepo.List(ctx, page.GetOffset(), page.GetLimit(), filters)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	page.Total = total
	return users, nil
}

// GetUserDetail 获取用户详情（含账本）
func (s *Service) GetUserDetail(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByIDWithLedger(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return user, nil
}

// SetUserStatus 启用或禁用用户
func (s *Service) SetUserStatus(ctx context.Context, userID int64, status int8) error {
	if status != models.UserStatusActive && status != models.UserStatusDisabled {
		return errors.ErrInvalidParams.WithMessage("Estado de utilizador inválido")
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrUserNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	if err := s.userRepo.UpdateStatus(ctx, userID, status); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("用户状态已变更", logger.UserID(userID), logger.Int64("status", int64(status)))
	return nil
}

// BankAccountRequest 收款账户请求
type BankAccountRequest struct {
	BankName   string `json:"bank_name" binding:"required"`
	HolderName string `json:"holder_name" binding:"required"`
	IBAN       string `json:"iban" binding:"required"`
	IsActive   *bool  `json:"is_active"`
	Sort       int    `json:"sort"`
}

// CreateBankAccount 创建平台收款账户
func (s *Service) CreateBankAccount(ctx context.Context, req *BankAccountRequest) (*models.BankAccount, error) {
	iban := utils.NormalizeIBAN(req.IBAN)
	if !utils.ValidateIBAN(iban) {
		return nil, errors.ErrInvalidParams.WithMessage("IBAN inválido, use o formato AO06 seguido de 21 dígitos")
	}

	exists, err := s.bankRepo.ExistsByIBAN(ctx, iban)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, errors.ErrAlreadyExists.WithMessage("Já existe uma conta com este IBAN")
	}

	account := &models.BankAccount{
		BankName:   req.BankName,
		HolderName: req.HolderName,
		IBAN:       iban,
		IsActive:   true,
		Sort:       req.Sort,
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}

	if err := s.bankRepo.Create(ctx, account); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return account, nil
}

// UpdateBankAccount 更新平台收款账户
func (s *Service) UpdateBankAccount(ctx context.Context, id int64, req *BankAccountRequest) (*models.BankAccount, error) {
	account, err := s.bankRepo.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotFound.WithMessage("Conta bancária não encontrada")
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	iban := utils.NormalizeIBAN(req.IBAN)
	if !utils.ValidateIBAN(iban) {
		return nil, errors.ErrInvalidParams.WithMessage("IBAN inválido, use o formato AO06 seguido de 21 dígitos")
	}
	if iban != account.IBAN {
		exists, err := s.bankRepo.ExistsByIBAN(ctx, iban)
		if err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		if exists {
			return nil, errors.ErrAlreadyExists.WithMessage("Já existe uma conta com este IBAN")
		}
	}

	account.BankName = req.BankName
	account.HolderName = req.HolderName
	account.IBAN = iban
	account.Sort = req.Sort
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}

	if err := s.bankRepo.Update(ctx, account); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return account, nil
}

// DeleteBankAccount 删除平台收款账户
func (s *Service) DeleteBankAccount(ctx context.Context, id int64) error {
	if _, err := s.bankRepo.GetByID(ctx, id); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrNotFound.WithMessage("Conta bancária não encontrada")
		}
		return errors.ErrDatabaseError.WithError(err)
	}
	if err := s.bankRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// ListBankAccounts 获取收款账户列表（管理端）
func (s *Service) ListBankAccounts(ctx context.Context, page *utils.Pagination) ([]*models.BankAccount, error) {
	page.Normalize()
	accounts, total, err := s.bankRepo.List(ctx, page.GetOffset(), page.GetLimit())
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	page.Total = total
	return accounts, nil
}

// GetPlatformConfig 获取平台配置
func (s *Service) GetPlatformConfig(ctx context.Context) (*models.PlatformConfig, error) {
	cfg, err := s.platformRepo.Get(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return cfg, nil
}

// PlatformConfigRequest 平台配置更新请求
type PlatformConfigRequest struct {
	WhatsApp     *string `json:"whatsapp"`
	Telegram     *string `json:"telegram"`
	SupportPhone *string `json:"support_phone"`
	Announcement *string `json:"announcement"`
}

// UpdatePlatformConfig 更新平台配置，只改动请求里出现的字段
func (s *Service) UpdatePlatformConfig(ctx context.Context, req *PlatformConfigRequest) (*models.PlatformConfig, error) {
	cfg, err := s.platformRepo.Get(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	fields := make(map[string]interface{})
	if req.WhatsApp != nil {
		fields["whats_app"] = *req.WhatsApp
	}
	if req.Telegram != nil {
		fields["telegram"] = *req.Telegram
	}
	if req.SupportPhone != nil {
		fields["support_phone"] = *req.SupportPhone
	}
	if req.Announcement != nil {
		fields["announcement"] = *req.Announcement
	}

	if len(fields) > 0 {
		if err := s.platformRepo.UpdateFields(ctx, cfg.ID, fields); err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
	}
	return s.platformRepo.Get(ctx)
}

// GetFinanceOverview 获取财务概览
func (s *Service) GetFinanceOverview(ctx context.Context) (*models.FinanceOverview, error) {
	overview := &models.FinanceOverview{}

	depositSummary, err := s.depositRepo.GetSummary(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	overview.TotalDeposited = depositSummary.ApprovedAmount
	overview.PendingDeposits = depositSummary.PendingCount

	withdrawalSummary, err := s.withdrawalRepo.GetSummary(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	overview.TotalWithdrawn = withdrawalSummary.ApprovedAmount
	overview.PendingWithdrawals = withdrawalSummary.PendingCount

	if overview.TotalSubsidies, err = s.referralRepo.SumAllSubsidies(ctx); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if overview.TotalEarnings, err = s.earningRepo.SumAll(ctx); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	start, end := s.dayBounds(s.now())
	if overview.TodayDeposits, err = s.depositRepo.SumApprovedBetween(ctx, start, end); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if overview.TodayWithdrawals, err = s.withdrawalRepo.SumApprovedBetween(ctx, start, end); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if overview.TotalUsers, err = s.userRepo.CountAll(ctx); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if overview.ActiveUsers, err = s.ledgerRepo.CountWithActiveLevel(ctx); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	return overview, nil
}

// GetDailyReport 获取指定日期的财务报表，date 为平台时区的自然日
func (s *Service) GetDailyReport(ctx context.Context, date time.Time) (*models.DailyFinanceReport, error) {
	start, end := s.dayBounds(date)
	report := &models.DailyFinanceReport{
		Date: start.Format(models.EarnDateLayout),
	}

	var err error
	if report.DepositAmount, err = s.depositRepo.SumApprovedBetween(ctx, start, end); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if report.DepositCount, err = s.depositRepo.CountApprovedBetween(ctx, start, end); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if report.WithdrawalAmount, err = s.withdrawalRepo.SumApprovedBetween(ctx, start, end); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if report.WithdrawalCount, err = s.withdrawalRepo.CountApprovedBetween(ctx, start, end); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if report.EarningsAmount, err = s.earningRepo.SumByDate(ctx, report.Date); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if report.SubsidyAmount, err = s.referralRepo.SumSubsidiesGrantedBetween(ctx, start, end); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if report.NewUsers, err = s.userRepo.CountCreatedBetween(ctx, start, end); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	return report, nil
}

// ListOperationLogs 获取操作日志列表
func (s *Service) ListOperationLogs(ctx context.Context, filter *repository.OperationLogFilter, page *utils.Pagination) ([]*models.OperationLog, error) {
	page.Normalize()
	logs, total, err := s.opLogRepo.List(ctx, filter, page.GetOffset(), page.GetLimit())
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	page.Total = total
	return logs, nil
}

// dayBounds 返回平台时区下某天的起止时间
func (s *Service) dayBounds(t time.Time) (time.Time, time.Time) {
	loc := s.cfg.Business.Earning.Timezone()
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.Add(24 * time.Hour)
}
