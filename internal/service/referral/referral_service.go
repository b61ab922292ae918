// Package referral 邀请关系与团队视图服务
package referral

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/JoelCaquene/temeisheng-platform/internal/common/config"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/errors"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/qrcode"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/utils"
	"github.com/JoelCaquene/temeisheng-platform/internal/models"
	"github.com/JoelCaquene/temeisheng-platform/internal/repository"
)

// Service 邀请服务
type Service struct {
	db           *gorm.DB
	cfg          *config.Config
	userRepo     *repository.UserRepository
	referralRepo *repository.ReferralRepository
	qrGenerator  *qrcode.Generator
}

// NewService 创建邀请服务
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:           db,
		cfg:          cfg,
		userRepo:     repository.NewUserRepository(db),
		referralRepo: repository.NewReferralRepository(db),
		qrGenerator:  qrcode.NewGenerator(),
	}
}

// InviteInfo 邀请信息
type InviteInfo struct {
	ReferralCode string `json:"referral_code"`
	InviteLink   string `json:"invite_link"`
	QRCode       string `json:"qr_code"` // Data URL 格式的二维码
}

// GetInviteInfo 获取用户的邀请码、邀请链接与二维码
func (s *Service) GetInviteInfo(ctx context.Context, userID int64) (*InviteInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	link := s.buildInviteLink(user.ReferralCode)
	qr, err := s.qrGenerator.GenerateDataURL(link)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	return &InviteInfo{
		ReferralCode: user.ReferralCode,
		InviteLink:   link,
		QRCode:       qr,
	}, nil
}

// buildInviteLink 拼接注册邀请链接
func (s *Service) buildInviteLink(code string) string {
	base := strings.TrimSuffix(s.cfg.Business.Referral.BaseURL, "/")
	return fmt.Sprintf("%s?invite=%s", base, code)
}

// GetTeam 获取团队成员视图
func (s *Service) GetTeam(ctx context.Context, userID int64, page *utils.Pagination) ([]*models.TeamMember, error) {
	page.Normalize()
	members, total, err := s.referralRepo.ListTeamMembers(ctx, userID, page.GetOffset(), page.GetLimit())
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	page.Total = total
	return members, nil
}

// GetTeamSummary 获取团队汇总
func (s *Service) GetTeamSummary(ctx context.Context, userID int64) (*models.TeamSummary, error) {
	total, err := s.referralRepo.CountByInviterID(ctx, userID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	subsidies, err := s.referralRepo.SumSubsidiesByInviterID(ctx, userID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	// 活跃成员通过团队视图统计，量级是单人直推，不分页拉全量
	active := int64(0)
	if total > 0 {
		members, _, err := s.referralRepo.ListTeamMembers(ctx, userID, 0, int(total))
		if err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		for _, m := range members {
			if m.HasActiveLevel {
				active++
			}
		}
	}

	return &models.TeamSummary{
		TotalInvitees:  total,
		ActiveInvitees: active,
		TotalSubsidies: subsidies,
	}, nil
}

// GetInviter 获取用户的邀请人，无邀请人时返回 nil
func (s *Service) GetInviter(ctx context.Context, userID int64) (*models.User, error) {
	edge, err := s.referralRepo.GetByInviteeID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	inviter, err := s.userRepo.GetByID(ctx, edge.InviterID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return inviter, nil
}
