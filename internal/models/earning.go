package models

import (
	"time"
)

// DailyEarning 每日收益记录，(UserID, EarnDate) 唯一
type DailyEarning struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"uniqueIndex:idx_earnings_user_date;not null" json:"user_id"`
	LevelID   int64     `gorm:"not null" json:"level_id"`
	Amount    float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	EarnDate  string    `gorm:"type:varchar(10);uniqueIndex:idx_earnings_user_date;not null" json:"earn_date"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// 关联
	Level *Level `gorm:"foreignKey:LevelID" json:"level,omitempty"`
}

// TableName 表名
func (DailyEarning) TableName() string {
	return "daily_earnings"
}

// EarnDateLayout 收益日期格式
const EarnDateLayout = "2006-01-02"
