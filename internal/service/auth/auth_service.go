// Package auth 用户注册与登录服务
package auth

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"

	"github.com/JoelCaquene/temeisheng-platform/internal/common/crypto"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/errors"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/jwt"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/logger"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/utils"
	"github.com/JoelCaquene/temeisheng-platform/internal/models"
	"github.com/JoelCaquene/temeisheng-platform/internal/repository"
)

// referralCodeRetries 邀请码生成冲突时的重试次数
const referralCodeRetries = 5

// Service 认证服务
type Service struct {
	db           *gorm.DB
	userRepo     *repository.UserRepository
	ledgerRepo   *repository.LedgerRepository
	referralRepo *repository.ReferralRepository
	jwtManager   *jwt.Manager
}

// NewService 创建认证服务
func NewService(db *gorm.DB, jwtManager *jwt.Manager) *Service {
	return &Service{
		db:           db,
		userRepo:     repository.NewUserRepository(db),
		ledgerRepo:   repository.NewLedgerRepository(db),
		referralRepo: repository.NewReferralRepository(db),
		jwtManager:   jwtManager,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Phone      string `json:"phone" binding:"required"`
	Password   string `json:"password" binding:"required,min=6,max=64"`
	Name       string `json:"name"`
	InviteCode string `json:"invite_code"`
}

// LoginResult 登录结果
type LoginResult struct {
	User   *models.User   `json:"user"`
	Tokens *jwt.TokenPair `json:"tokens"`
}

// Register 注册新用户。
// 账本随用户同事务创建；邀请码有效时记录单层邀请关系，
// 无效的邀请码不阻断注册，只是不建立关系。
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*LoginResult, error) {
	if !utils.ValidatePhone(req.Phone) {
		return nil, errors.ErrPhoneInvalid
	}
	if len(req.Password) < 6 {
		return nil, errors.ErrInvalidParams.WithMessage("A senha deve ter pelo menos 6 caracteres")
	}

	exists, err := s.userRepo.ExistsByPhone(ctx, req.Phone)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, errors.ErrPhoneExists
	}

	var inviter *models.User
	if req.InviteCode != "" {
		inviter, err = s.userRepo.GetByReferralCode(ctx, req.InviteCode)
		if err != nil {
			if !stderrors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.ErrDatabaseError.WithError(err)
			}
			// 未知邀请码不阻断注册
			logger.Warn("邀请码无效，跳过建立邀请关系",
				logger.Phone(req.Phone),
				logger.String("invite_code", req.InviteCode),
			)
			inviter = nil
		}
	}

	passwordHash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	referralCode, err := s.generateReferralCode(ctx)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Phone:        req.Phone,
		PasswordHash: passwordHash,
		Name:         req.Name,
		ReferralCode: referralCode,
		Status:       models.UserStatusActive,
	}
	if inviter != nil {
		user.ReferredByID = &inviter.ID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.CreateTx(ctx, tx, user); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if err := s.ledgerRepo.CreateTx(ctx, tx, &models.LedgerAccount{UserID: user.ID}); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if inviter != nil {
			edge := &models.ReferralEdge{
				InviterID: inviter.ID,
				InviteeID: user.ID,
			}
			if err := s.referralRepo.CreateTx(ctx, tx, edge); err != nil {
				return errors.ErrDatabaseError.WithError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("用户注册成功",
		logger.UserID(user.ID),
		logger.Phone(crypto.MaskPhone(user.Phone)),
		logger.Bool("has_inviter", inviter != nil),
	)

	tokens, err := s.jwtManager.GenerateTokenPair(user.ID, jwt.UserTypeUser, "")
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	return &LoginResult{User: user, Tokens: tokens}, nil
}

// Login 手机号加密码登录
func (s *Service) Login(ctx context.Context, phone, password, ip string) (*LoginResult, error) {
	user, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrPasswordError
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if !crypto.VerifyPassword(password, user.PasswordHash) {
		return nil, errors.ErrPasswordError
	}
	if user.Status == models.UserStatusDisabled {
		return nil, errors.ErrAccountDisabled
	}

	now := time.Now()
	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{
		"last_login_at": now,
		"last_login_ip": ip,
	}); err != nil {
		// 登录时间更新失败不阻断登录
		logger.Warn("更新登录信息失败", logger.UserID(user.ID), logger.Err(err))
	}
	user.LastLoginAt = &now
	user.LastLoginIP = &ip

	tokens, err := s.jwtManager.GenerateTokenPair(user.ID, jwt.UserTypeUser, "")
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	return &LoginResult{User: user, Tokens: tokens}, nil
}

// RefreshToken 刷新令牌对
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	tokens, err := s.jwtManager.RefreshToken(refreshToken)
	if err != nil {
		return nil, errors.ErrTokenRefreshFail.WithError(err)
	}
	return tokens, nil
}

// ChangePassword 修改登录密码
func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return errors.ErrInvalidParams.WithMessage("A nova senha deve ter pelo menos 6 caracteres")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrUserNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	if !crypto.VerifyPassword(oldPassword, user.PasswordHash) {
		return errors.ErrPasswordError.WithMessage("Senha atual incorreta")
	}

	newHash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return errors.ErrInternalError.WithError(err)
	}

	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{
		"password_hash": newHash,
	}); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// GetProfile 获取用户资料（含账本）
func (s *Service) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByIDWithLedger(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return user, nil
}

// UpdateProfile 更新用户昵称
func (s *Service) UpdateProfile(ctx context.Context, userID int64, name string) error {
	if name == "" {
		return errors.ErrInvalidParams.WithMessage("O nome não pode estar vazio")
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrUserNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}
	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{
		"name": name,
	}); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// generateReferralCode 生成全局唯一邀请码
func (s *Service) generateReferralCode(ctx context.Context) (string, error) {
	for i := 0; i < referralCodeRetries; i++ {
		code := utils.GenerateReferralCode()
		exists, err := s.userRepo.ExistsByReferralCode(ctx, code)
		if err != nil {
			return "", errors.ErrDatabaseError.WithError(err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.ErrInternalError.WithMessage("Falha ao gerar código de convite")
}
