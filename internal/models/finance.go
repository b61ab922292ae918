package models

// FinanceOverview 财务概览
type FinanceOverview struct {
	TotalDeposited     float64 `json:"total_deposited"`      // 总充值
	TotalWithdrawn     float64 `json:"total_withdrawn"`      // 总提现
	TotalSubsidies     float64 `json:"total_subsidies"`      // 总补贴支出
	TotalEarnings      float64 `json:"total_earnings"`       // 总收益支出
	TodayDeposits      float64 `json:"today_deposits"`       // 今日充值
	TodayWithdrawals   float64 `json:"today_withdrawals"`    // 今日提现
	PendingDeposits    int64   `json:"pending_deposits"`     // 待审核充值数
	PendingWithdrawals int64   `json:"pending_withdrawals"`  // 待审核提现数
	TotalUsers         int64   `json:"total_users"`          // 总用户数
	ActiveUsers        int64   `json:"active_users"`         // 持有等级用户数
}

// DepositSummary 充值汇总
type DepositSummary struct {
	TotalCount     int64   `json:"total_count"`
	TotalAmount    float64 `json:"total_amount"`
	PendingCount   int64   `json:"pending_count"`
	PendingAmount  float64 `json:"pending_amount"`
	ApprovedCount  int64   `json:"approved_count"`
	ApprovedAmount float64 `json:"approved_amount"`
	RejectedCount  int64   `json:"rejected_count"`
}

// WithdrawalSummary 提现汇总
type WithdrawalSummary struct {
	TotalCount     int64   `json:"total_count"`
	TotalAmount    float64 `json:"total_amount"`
	PendingCount   int64   `json:"pending_count"`
	PendingAmount  float64 `json:"pending_amount"`
	ApprovedCount  int64   `json:"approved_count"`
	ApprovedAmount float64 `json:"approved_amount"`
	RejectedCount  int64   `json:"rejected_count"`
}

// DailyFinanceReport 每日财务报表
type DailyFinanceReport struct {
	Date             string  `json:"date"`
	DepositAmount    float64 `json:"deposit_amount"`
	DepositCount     int64   `json:"deposit_count"`
	WithdrawalAmount float64 `json:"withdrawal_amount"`
	WithdrawalCount  int64   `json:"withdrawal_count"`
	EarningsAmount   float64 `json:"earnings_amount"`
	SubsidyAmount    float64 `json:"subsidy_amount"`
	NewUsers         int64   `json:"new_users"`
}
