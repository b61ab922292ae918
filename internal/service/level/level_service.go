// Package level 等级目录服务
package level

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/JoelCaquene/temeisheng-platform/internal/common/errors"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/logger"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/utils"
	"github.com/JoelCaquene/temeisheng-platform/internal/models"
	"github.com/JoelCaquene/temeisheng-platform/internal/repository"
)

// Service 等级服务
type Service struct {
	db         *gorm.DB
	levelRepo  *repository.LevelRepository
	ledgerRepo *repository.LedgerRepository
}

// NewService 创建等级服务
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:         db,
		levelRepo:  repository.NewLevelRepository(db),
		ledgerRepo: repository.NewLedgerRepository(db),
	}
}

// CreateRequest 创建等级请求
type CreateRequest struct {
	Name        string  `json:"name" binding:"required"`
	MinDeposit  float64 `json:"min_deposit" binding:"required,gt=0"`
	DailyPayout float64 `json:"daily_payout" binding:"required,gt=0"`
	PeriodDays  int     `json:"period_days"`
	IsActive    *bool   `json:"is_active"`
	Sort        int     `json:"sort"`
}

// UpdateRequest 更新等级请求
type UpdateRequest struct {
	Name        *string  `json:"name"`
	MinDeposit  *float64 `json:"min_deposit"`
	DailyPayout *float64 `json:"daily_payout"`
	PeriodDays  *int     `json:"period_days"`
	IsActive    *bool    `json:"is_active"`
	Sort        *int     `json:"sort"`
}

// ListActive 获取启用的等级目录，按充值门槛升序
func (s *Service) ListActive(ctx context.Context) ([]*models.Level, error) {
	levels, err := s.levelRepo.ListActive(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return levels, nil
}

// List 获取全部等级（管理端）
func (s *Service) List(ctx context.Context, page *utils.Pagination) ([]*models.Level, error) {
	page.Normalize()
	levels, total, err := s.levelRepo.List(ctx, page.GetOffset(), page.GetLimit())
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	page.Total = total
	return levels, nil
}

// GetByID 获取等级详情
func (s *Service) GetByID(ctx context.Context, id int64) (*models.Level, error) {
	level, err := s.levelRepo.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrLevelNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return level, nil
}

// Create 创建等级
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*models.Level, error) {
	if req.MinDeposit <= 0 || req.DailyPayout <= 0 {
		return nil, errors.ErrInvalidParams.WithMessage("Valores do nível devem ser positivos")
	}

	exists, err := s.levelRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, errors.ErrAlreadyExists.WithMessage("Já existe um nível com este nome")
	}

	level := &models.Level{
		Name:        req.Name,
		MinDeposit:  req.MinDeposit,
		DailyPayout: req.DailyPayout,
		PeriodDays:  req.PeriodDays,
		Sort:        req.Sort,
		IsActive:    true,
	}
	if level.PeriodDays <= 0 {
		level.PeriodDays = models.DefaultLevelPeriodDays
	}
	if req.IsActive != nil {
		level.IsActive = *req.IsActive
	}

	if err := s.levelRepo.Create(ctx, level); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("等级已创建",
		logger.String("name", level.Name),
		logger.Float64("min_deposit", level.MinDeposit),
		logger.Float64("daily_payout", level.DailyPayout),
	)
	return level, nil
}

// Update 更新等级，只改动请求里出现的字段
func (s *Service) Update(ctx context.Context, id int64, req *UpdateRequest) (*models.Level, error) {
	level, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if req.Name != nil && *req.Name != level.Name {
		exists, err := s.levelRepo.ExistsByName(ctx, *req.Name)
		if err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		if exists {
			return nil, errors.ErrAlreadyExists.WithMessage("Já existe um nível com este nome")
		}
		fields["name"] = *req.Name
	}
	if req.MinDeposit != nil {
		if *req.MinDeposit <= 0 {
			return nil, errors.ErrInvalidParams.WithMessage("O depósito mínimo deve ser positivo")
		}
		fields["min_deposit"] = *req.MinDeposit
	}
	if req.DailyPayout != nil {
		if *req.DailyPayout <= 0 {
			return nil, errors.ErrInvalidParams.WithMessage("O ganho diário deve ser positivo")
		}
		fields["daily_payout"] = *req.DailyPayout
	}
	if req.PeriodDays != nil && *req.PeriodDays > 0 {
		fields["period_days"] = *req.PeriodDays
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if req.Sort != nil {
		fields["sort"] = *req.Sort
	}

	if len(fields) == 0 {
		return level, nil
	}

	if err := s.levelRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return s.GetByID(ctx, id)
}

// Delete 删除等级。仍被账本持有的等级只能停用，不能删除。
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	inUse, err := s.ledgerRepo.CountByActiveLevel(ctx, id)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if inUse > 0 {
		return errors.ErrLevelInUse
	}

	if err := s.levelRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}
