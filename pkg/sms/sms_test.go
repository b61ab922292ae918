package sms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockSender_Send(t *testing.T) {
	sender := NewMockSender()
	ctx := context.Background()

	err := sender.Send(ctx, "923000001", TemplateDepositApproved, map[string]string{
		"amount": "5000.00",
	})
	require.NoError(t, err)

	msg := sender.GetLastMessage()
	require.NotNil(t, msg)
	assert.Equal(t, "923000001", msg.Phone)
	assert.Equal(t, TemplateDepositApproved, msg.TemplateCode)
	assert.Equal(t, "5000.00", msg.Params["amount"])
}

func TestMockSender_Clear(t *testing.T) {
	sender := NewMockSender()
	ctx := context.Background()

	_ = sender.Send(ctx, "923000001", TemplateSubsidyGranted, nil)
	_ = sender.Send(ctx, "923000002", TemplateEarningClaimed, nil)
	assert.Equal(t, 2, sender.Count())

	sender.Clear()
	assert.Equal(t, 0, sender.Count())
	assert.Nil(t, sender.GetLastMessage())
}

func TestDefaultTemplates(t *testing.T) {
	// 每个通知模板键都要有默认编码
	keys := []string{
		TemplateDepositApproved,
		TemplateDepositRejected,
		TemplateWithdrawalApproved,
		TemplateWithdrawalRejected,
		TemplateSubsidyGranted,
		TemplateEarningClaimed,
	}
	for _, key := range keys {
		assert.NotEmpty(t, DefaultTemplates[key], key)
	}
}
