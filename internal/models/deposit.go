package models

import (
	"time"
)

// Deposit 充值记录模型
type Deposit struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	DepositNo     string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"deposit_no"`
	UserID        int64      `gorm:"index;not null" json:"user_id"`
	Amount        float64    `gorm:"type:decimal(12,2);not null" json:"amount"`
	LevelID       *int64     `gorm:"index" json:"level_id,omitempty"`
	BankAccountID *int64     `json:"bank_account_id,omitempty"`
	ProofURL      *string    `gorm:"type:varchar(255)" json:"proof_url,omitempty"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	OperatorID    *int64     `json:"operator_id,omitempty"`
	RejectReason  *string    `gorm:"type:varchar(255)" json:"reject_reason,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	User        *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Level       *Level       `gorm:"foreignKey:LevelID" json:"level,omitempty"`
	BankAccount *BankAccount `gorm:"foreignKey:BankAccountID" json:"bank_account,omitempty"`
	Operator    *Admin       `gorm:"foreignKey:OperatorID" json:"operator,omitempty"`
}

// TableName 表名
func (Deposit) TableName() string {
	return "deposits"
}

// DepositStatus 充值状态
const (
	DepositStatusPending  = "pending"  // 待审核
	DepositStatusApproved = "approved" // 已批准
	DepositStatusRejected = "rejected" // 已拒绝
)
