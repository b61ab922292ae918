// Package repository 提供数据访问层
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/JoelCaquene/temeisheng-platform/internal/models"
)

// ReferralRepository 邀请关系仓储
type ReferralRepository struct {
	db *gorm.DB
}

// NewReferralRepository 创建邀请关系仓储
func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// Create 创建邀请关系
func (r *ReferralRepository) Create(ctx context.Context, edge *models.ReferralEdge) error {
	return r.db.WithContext(ctx).Create(edge).Error
}

// CreateTx 在事务中创建邀请关系
func (r *ReferralRepository) CreateTx(ctx context.Context, tx *gorm.DB, edge *models.ReferralEdge) error {
	return tx.WithContext(ctx).Create(edge).Error
}

// GetByInviteeID 根据被邀请人获取邀请关系
func (r *ReferralRepository) GetByInviteeID(ctx context.Context, inviteeID int64) (*models.ReferralEdge, error) {
	var edge models.ReferralEdge
	err := r.db.WithContext(ctx).Where("invitee_id = ?", inviteeID).First(&edge).Error
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

// GetByInviteeIDTx 在事务中根据被邀请人获取邀请关系
func (r *ReferralRepository) GetByInviteeIDTx(ctx context.Context, tx *gorm.DB, inviteeID int64) (*models.ReferralEdge, error) {
	var edge models.ReferralEdge
	err := tx.WithContext(ctx).Where("invitee_id = ?", inviteeID).First(&edge).Error
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

// ListByInviterID 获取某邀请人的直接邀请列表
func (r *ReferralRepository) ListByInviterID(ctx context.Context, inviterID int64, offset, limit int) ([]*models.ReferralEdge, int64, error) {
	var edges []*models.ReferralEdge
	var total int64

	query := r.db.WithContext(ctx).Model(&models.ReferralEdge{}).Where("inviter_id = ?", inviterID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Invitee").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&edges).Error; err != nil {
		return nil, 0, err
	}

	return edges, total, nil
}

// CountByInviterID 统计某邀请人的直接邀请数量
func (r *ReferralRepository) CountByInviterID(ctx context.Context, inviterID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ReferralEdge{}).
		Where("inviter_id = ?", inviterID).Count(&count).Error
	return count, err
}

// GrantSubsidyTx 在事务中有保护地标记补贴已发放，返回影响行数。
// 只有首次（subsidy_granted=false）能成功，保证补贴不重复发放。
func (r *ReferralRepository) GrantSubsidyTx(ctx context.Context, tx *gorm.DB, inviteeID int64, amount float64, now time.Time) (int64, error) {
	result := tx.WithContext(ctx).Model(&models.ReferralEdge{}).
		Where("invitee_id = ? AND subsidy_granted = ?", inviteeID, false).
		Updates(map[string]interface{}{
			"subsidy_granted":    true,
			"subsidy_amount":     amount,
			"subsidy_granted_at": now,
		})
	return result.RowsAffected, result.Error
}

// SumSubsidiesByInviterID 汇总某邀请人已获得的补贴总额
func (r *ReferralRepository) SumSubsidiesByInviterID(ctx context.Context, inviterID int64) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&models.ReferralEdge{}).
		Select("COALESCE(SUM(subsidy_amount), 0)").
		Where("inviter_id = ? AND subsidy_granted = ?", inviterID, true).
		Row().Scan(&sum)
	return sum, err
}

// SumAllSubsidies 汇总全平台补贴支出
func (r *ReferralRepository) SumAllSubsidies(ctx context.Context) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&models.ReferralEdge{}).
		Select("COALESCE(SUM(subsidy_amount), 0)").
		Where("subsidy_granted = ?", true).
		Row().Scan(&sum)
	return sum, err
}

// SumSubsidiesGrantedBetween 汇总时间段内发放的补贴金额
func (r *ReferralRepository) SumSubsidiesGrantedBetween(ctx context.Context, start, end time.Time) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&models.ReferralEdge{}).
		Select("COALESCE(SUM(subsidy_amount), 0)").
		Where("subsidy_granted = ? AND subsidy_granted_at >= ? AND subsidy_granted_at < ?", true, start, end).
		Row().Scan(&sum)
	return sum, err
}

// ListTeamMembers 获取团队成员视图，关联用户、账本与等级
func (r *ReferralRepository) ListTeamMembers(ctx context.Context, inviterID int64, offset, limit int) ([]*models.TeamMember, int64, error) {
	var members []*models.TeamMember
	var total int64

	base := r.db.WithContext(ctx).Model(&models.ReferralEdge{}).
		Where("referral_edges.inviter_id = ?", inviterID)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).Model(&models.ReferralEdge{}).
		Select(`
			users.id as user_id,
			users.phone as phone,
			users.name as name,
			levels.name as level_name,
			ledger_accounts.active_level_id IS NOT NULL as has_active_level,
			referral_edges.subsidy_granted as subsidy_granted,
			referral_edges.subsidy_amount as subsidy_amount,
			referral_edges.created_at as joined_at,
			ledger_accounts.level_activated_at as activated_at
		`).
		Joins("JOIN users ON users.id = referral_edges.invitee_id").
		Joins("LEFT JOIN ledger_accounts ON ledger_accounts.user_id = users.id").
		Joins("LEFT JOIN levels ON levels.id = ledger_accounts.active_level_id").
		Where("referral_edges.inviter_id = ?", inviterID).
		Order("referral_edges.id DESC").
		Offset(offset).
		Limit(limit).
		Scan(&members).Error
	if err != nil {
		return nil, 0, err
	}

	return members, total, nil
}
