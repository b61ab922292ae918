package models

import (
	"time"
)

// BankAccount 平台收款银行账户
type BankAccount struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BankName   string    `gorm:"type:varchar(100);not null" json:"bank_name"`
	HolderName string    `gorm:"type:varchar(100);not null" json:"holder_name"`
	IBAN       string    `gorm:"column:iban;type:varchar(34);uniqueIndex;not null" json:"iban"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	Sort       int       `gorm:"not null;default:0" json:"sort"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (BankAccount) TableName() string {
	return "bank_accounts"
}

// PlatformConfig 平台配置单例
type PlatformConfig struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	WhatsApp     *string   `gorm:"type:varchar(100)" json:"whatsapp,omitempty"`
	Telegram     *string   `gorm:"type:varchar(100)" json:"telegram,omitempty"`
	SupportPhone *string   `gorm:"type:varchar(20)" json:"support_phone,omitempty"`
	Announcement *string   `gorm:"type:text" json:"announcement,omitempty"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (PlatformConfig) TableName() string {
	return "platform_configs"
}
