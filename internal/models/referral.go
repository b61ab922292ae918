package models

import (
	"time"
)

// ReferralEdge 邀请关系，单层，注册时创建
type ReferralEdge struct {
	ID               int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	InviterID        int64      `gorm:"index;not null" json:"inviter_id"`
	InviteeID        int64      `gorm:"uniqueIndex;not null" json:"invitee_id"`
	SubsidyGranted   bool       `gorm:"not null;default:false" json:"subsidy_granted"`
	SubsidyAmount    float64    `gorm:"type:decimal(12,2);not null;default:0" json:"subsidy_amount"`
	SubsidyGrantedAt *time.Time `json:"subsidy_granted_at,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// 关联
	Inviter *User `gorm:"foreignKey:InviterID" json:"inviter,omitempty"`
	Invitee *User `gorm:"foreignKey:InviteeID" json:"invitee,omitempty"`
}

// TableName 表名
func (ReferralEdge) TableName() string {
	return "referral_edges"
}

// TeamMember 团队成员视图
type TeamMember struct {
	UserID         int64      `json:"user_id"`
	Phone          string     `json:"phone"`
	Name           string     `json:"name"`
	LevelName      *string    `json:"level_name,omitempty"`
	HasActiveLevel bool       `json:"has_active_level"`
	SubsidyGranted bool       `json:"subsidy_granted"`
	SubsidyAmount  float64    `json:"subsidy_amount"`
	JoinedAt       time.Time  `json:"joined_at"`
	ActivatedAt    *time.Time `json:"activated_at,omitempty"`
}

// TeamSummary 团队汇总
type TeamSummary struct {
	TotalInvitees  int64   `json:"total_invitees"`
	ActiveInvitees int64   `json:"active_invitees"`
	TotalSubsidies float64 `json:"total_subsidies"`
}
