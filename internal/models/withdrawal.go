package models

import (
	"time"
)

// Withdrawal 提现记录模型
type Withdrawal struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	WithdrawalNo string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"withdrawal_no"`
	UserID       int64      `gorm:"index;not null" json:"user_id"`
	Amount       float64    `gorm:"type:decimal(12,2);not null" json:"amount"`
	BankName     string     `gorm:"type:varchar(100);not null" json:"bank_name"`
	IBAN         string     `gorm:"column:iban;type:varchar(34);not null" json:"iban"`
	HolderName   string     `gorm:"type:varchar(100);not null;default:''" json:"holder_name"`
	Status       string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`
	OperatorID   *int64     `json:"operator_id,omitempty"`
	RejectReason *string    `gorm:"type:varchar(255)" json:"reject_reason,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	User     *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Operator *Admin `gorm:"foreignKey:OperatorID" json:"operator,omitempty"`
}

// TableName 表名
func (Withdrawal) TableName() string {
	return "withdrawals"
}

// WithdrawalStatus 提现状态
const (
	WithdrawalStatusPending  = "pending"  // 待处理
	WithdrawalStatusApproved = "approved" // 已批准
	WithdrawalStatusRejected = "rejected" // 已拒绝（已退款）
)
