package models

import (
	"time"
)

// LedgerAccount 用户账本，与用户一对一，注册时创建且永不删除
type LedgerAccount struct {
	ID                    int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID                int64      `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance               float64    `gorm:"type:decimal(12,2);not null;default:0" json:"balance"`
	SubsidyBalance        float64    `gorm:"type:decimal(12,2);not null;default:0" json:"subsidy_balance"`
	TotalDeposited        float64    `gorm:"type:decimal(12,2);not null;default:0" json:"total_deposited"`
	TotalWithdrawn        float64    `gorm:"type:decimal(12,2);not null;default:0" json:"total_withdrawn"`
	TotalEarnings         float64    `gorm:"type:decimal(12,2);not null;default:0" json:"total_earnings"`
	ActiveLevelID         *int64     `gorm:"index" json:"active_level_id,omitempty"`
	LevelActivatedAt      *time.Time `json:"level_activated_at,omitempty"`
	LastDepositApprovedAt *time.Time `json:"last_deposit_approved_at,omitempty"`
	LastWithdrawalAt      *time.Time `json:"last_withdrawal_at,omitempty"`
	BankName              *string    `gorm:"type:varchar(100)" json:"bank_name,omitempty"`
	IBAN                  *string    `gorm:"column:iban;type:varchar(34)" json:"iban,omitempty"`
	HolderName            *string    `gorm:"type:varchar(100)" json:"holder_name,omitempty"`
	CreatedAt             time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	ActiveLevel *Level `gorm:"foreignKey:ActiveLevelID" json:"active_level,omitempty"`
}

// TableName 表名
func (LedgerAccount) TableName() string {
	return "ledger_accounts"
}

// LevelExpiresAt 计算等级到期时间，无激活等级时返回 nil
func (a *LedgerAccount) LevelExpiresAt(periodDays int) *time.Time {
	if a.ActiveLevelID == nil || a.LevelActivatedAt == nil {
		return nil
	}
	expires := a.LevelActivatedAt.AddDate(0, 0, periodDays)
	return &expires
}

// HasActiveLevel 判断在给定时间是否持有未到期的等级
func (a *LedgerAccount) HasActiveLevel(now time.Time, periodDays int) bool {
	expires := a.LevelExpiresAt(periodDays)
	if expires == nil {
		return false
	}
	return now.Before(*expires)
}

// LedgerTransaction 账本流水，每次余额变动追加一条
type LedgerTransaction struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        int64     `gorm:"index;not null" json:"user_id"`
	Type          string    `gorm:"type:varchar(20);not null" json:"type"`
	Amount        float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	BalanceBefore float64   `gorm:"type:decimal(12,2);not null" json:"balance_before"`
	BalanceAfter  float64   `gorm:"type:decimal(12,2);not null" json:"balance_after"`
	RefNo         *string   `gorm:"type:varchar(64);index" json:"ref_no,omitempty"`
	Remark        *string   `gorm:"type:varchar(255)" json:"remark,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 表名
func (LedgerTransaction) TableName() string {
	return "ledger_transactions"
}

// LedgerTxType 账本流水类型
const (
	LedgerTxTypeDeposit        = "deposit"         // 充值入账
	LedgerTxTypeWithdraw       = "withdraw"        // 提现扣款
	LedgerTxTypeWithdrawRefund = "withdraw_refund" // 提现拒绝退回
	LedgerTxTypeEarning        = "earning"         // 每日收益
	LedgerTxTypeSubsidy        = "subsidy"         // 邀请补贴
)
