package models

import (
	"time"
)

// Level 投资等级模型
type Level struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	MinDeposit  float64   `gorm:"type:decimal(12,2);not null" json:"min_deposit"`
	DailyPayout float64   `gorm:"type:decimal(12,2);not null" json:"daily_payout"`
	PeriodDays  int       `gorm:"not null;default:365" json:"period_days"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	Sort        int       `gorm:"not null;default:0" json:"sort"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (Level) TableName() string {
	return "levels"
}

// DefaultLevelPeriodDays 默认等级有效期（天）
const DefaultLevelPeriodDays = 365
