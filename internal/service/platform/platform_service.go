// Package platform 平台公开信息服务
package platform

import (
	"context"

	"gorm.io/gorm"

	"github.com/JoelCaquene/temeisheng-platform/internal/common/errors"
	"github.com/JoelCaquene/temeisheng-platform/internal/models"
	"github.com/JoelCaquene/temeisheng-platform/internal/repository"
)

// Service 平台公开信息服务
type Service struct {
	db           *gorm.DB
	bankRepo     *repository.BankAccountRepository
	platformRepo *repository.PlatformConfigRepository
}

// NewService 创建平台公开信息服务
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:           db,
		bankRepo:     repository.NewBankAccountRepository(db),
		platformRepo: repository.NewPlatformConfigRepository(db),
	}
}

// ListActiveBanks 获取启用的收款账户，充值时展示给用户
func (s *Service) ListActiveBanks(ctx context.Context) ([]*models.BankAccount, error) {
	accounts, err := s.bankRepo.ListActive(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return accounts, nil
}

// GetConfig 获取平台公开配置（客服联系方式与公告）
func (s *Service) GetConfig(ctx context.Context) (*models.PlatformConfig, error) {
	cfg, err := s.platformRepo.Get(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return cfg, nil
}
