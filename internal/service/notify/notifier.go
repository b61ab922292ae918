// Package notify 用户短信通知，发送失败只记日志，不影响业务结果
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/JoelCaquene/temeisheng-platform/internal/common/logger"
	"github.com/JoelCaquene/temeisheng-platform/pkg/sms"
)

// sendTimeout 单条通知的发送超时
const sendTimeout = 10 * time.Second

// Notifier 短信通知器
type Notifier struct {
	sender sms.Sender
}

// NewNotifier 创建通知器，sender 为 nil 时所有通知为空操作
func NewNotifier(sender sms.Sender) *Notifier {
	return &Notifier{sender: sender}
}

// DepositApproved 充值批准通知
func (n *Notifier) DepositApproved(phone, depositNo string, amount float64) {
	n.dispatch(phone, sms.TemplateDepositApproved, map[string]string{
		"order_no": depositNo,
		"amount":   formatAmount(amount),
	})
}

// DepositRejected 充值拒绝通知
func (n *Notifier) DepositRejected(phone, depositNo, reason string) {
	n.dispatch(phone, sms.TemplateDepositRejected, map[string]string{
		"order_no": depositNo,
		"reason":   reason,
	})
}

// WithdrawalApproved 提现批准通知
func (n *Notifier) WithdrawalApproved(phone, withdrawalNo string, amount float64) {
	n.dispatch(phone, sms.TemplateWithdrawalApproved, map[string]string{
		"order_no": withdrawalNo,
		"amount":   formatAmount(amount),
	})
}

// WithdrawalRejected 提现拒绝退回通知
func (n *Notifier) WithdrawalRejected(phone, withdrawalNo string, amount float64) {
	n.dispatch(phone, sms.TemplateWithdrawalRejected, map[string]string{
		"order_no": withdrawalNo,
		"amount":   formatAmount(amount),
	})
}

// SubsidyGranted 邀请补贴到账通知
func (n *Notifier) SubsidyGranted(phone string, amount float64) {
	n.dispatch(phone, sms.TemplateSubsidyGranted, map[string]string{
		"amount": formatAmount(amount),
	})
}

// EarningClaimed 每日收益到账通知
func (n *Notifier) EarningClaimed(phone string, amount float64) {
	n.dispatch(phone, sms.TemplateEarningClaimed, map[string]string{
		"amount": formatAmount(amount),
	})
}

// dispatch 异步发送，失败只记日志
func (n *Notifier) dispatch(phone, template string, params map[string]string) {
	if n == nil || n.sender == nil || phone == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if err := n.sender.Send(ctx, phone, template, params); err != nil {
			logger.Warn("短信通知发送失败",
				logger.Phone(phone),
				logger.String("template", template),
				logger.Err(err),
			)
		}
	}()
}

// formatAmount 金额格式化为两位小数
func formatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
