// Package sms 短信服务
package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	openapi "github.com/alibabacloud-go/darabonba-openapi/v2/client"
	dysmsapi "github.com/alibabacloud-go/dysmsapi-20170525/v3/client"
	"github.com/alibabacloud-go/tea/tea"
)

// Sender 短信发送器接口
type Sender interface {
	Send(ctx context.Context, phone, templateCode string, params map[string]string) error
}

// 模板键
const (
	TemplateDepositApproved     = "deposit_approved"     // 充值批准通知
	TemplateDepositRejected     = "deposit_rejected"     // 充值拒绝通知
	TemplateWithdrawalApproved  = "withdrawal_approved"  // 提现批准通知
	TemplateWithdrawalRejected  = "withdrawal_rejected"  // 提现拒绝退回通知
	TemplateSubsidyGranted      = "subsidy_granted"      // 邀请补贴到账通知
	TemplateEarningClaimed      = "earning_claimed"      // 每日收益到账通知
)

// DefaultTemplates 默认模板编码，上线前按控制台实际编码覆盖
var DefaultTemplates = map[string]string{
	TemplateDepositApproved:    "SMS_DEPOSIT_OK",
	TemplateDepositRejected:    "SMS_DEPOSIT_NO",
	TemplateWithdrawalApproved: "SMS_WITHDRAW_OK",
	TemplateWithdrawalRejected: "SMS_WITHDRAW_NO",
	TemplateSubsidyGranted:     "SMS_SUBSIDY",
	TemplateEarningClaimed:     "SMS_EARNING",
}

// AliyunConfig 阿里云短信配置
type AliyunConfig struct {
	AccessKeyID     string
	AccessKeySecret string
	SignName        string
	Endpoint        string
}

// AliyunSender 阿里云短信发送器
type AliyunSender struct {
	client    *dysmsapi.Client
	signName  string
	templates map[string]string
}

// NewAliyunSender 创建阿里云短信发送器
func NewAliyunSender(config *AliyunConfig) (*AliyunSender, error) {
	cfg := &openapi.Config{
		AccessKeyId:     tea.String(config.AccessKeyID),
		AccessKeySecret: tea.String(config.AccessKeySecret),
	}

	if config.Endpoint != "" {
		cfg.Endpoint = tea.String(config.Endpoint)
	} else {
		cfg.Endpoint = tea.String("dysmsapi.aliyuncs.com")
	}

	client, err := dysmsapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("创建短信客户端失败: %w", err)
	}

	return &AliyunSender{
		client:    client,
		signName:  config.SignName,
		templates: DefaultTemplates,
	}, nil
}

// SetTemplates 覆盖模板编码
func (s *AliyunSender) SetTemplates(templates map[string]string) {
	for k, v := range templates {
		s.templates[k] = v
	}
}

// TemplateCode 根据模板键返回实际模板编码
func (s *AliyunSender) TemplateCode(key string) string {
	if code, ok := s.templates[key]; ok {
		return code
	}
	return key
}

// Send 发送短信
func (s *AliyunSender) Send(ctx context.Context, phone, templateCode string, params map[string]string) error {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("序列化模板参数失败: %w", err)
	}

	req := &dysmsapi.SendSmsRequest{
		PhoneNumbers:  tea.String(phone),
		SignName:      tea.String(s.signName),
		TemplateCode:  tea.String(s.TemplateCode(templateCode)),
		TemplateParam: tea.String(string(paramsJSON)),
	}

	resp, err := s.client.SendSms(req)
	if err != nil {
		return fmt.Errorf("发送短信失败: %w", err)
	}

	if resp.Body == nil || resp.Body.Code == nil || *resp.Body.Code != "OK" {
		msg := "erro desconhecido"
		if resp.Body != nil && resp.Body.Message != nil {
			msg = *resp.Body.Message
		}
		return fmt.Errorf("发送短信失败: %s", msg)
	}

	return nil
}

// MockSender 模拟短信发送器（用于开发/测试）
type MockSender struct {
	mu           sync.Mutex
	SentMessages []MockMessage
}

// MockMessage 模拟消息
type MockMessage struct {
	Phone        string
	TemplateCode string
	Params       map[string]string
	SentAt       time.Time
}

// NewMockSender 创建模拟发送器
func NewMockSender() *MockSender {
	return &MockSender{
		SentMessages: make([]MockMessage, 0),
	}
}

// Send 模拟发送
func (s *MockSender) Send(ctx context.Context, phone, templateCode string, params map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SentMessages = append(s.SentMessages, MockMessage{
		Phone:        phone,
		TemplateCode: templateCode,
		Params:       params,
		SentAt:       time.Now(),
	})
	return nil
}

// GetLastMessage 获取最后发送的消息
func (s *MockSender) GetLastMessage() *MockMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.SentMessages) == 0 {
		return nil
	}
	return &s.SentMessages[len(s.SentMessages)-1]
}

// Count 已发送消息数量
func (s *MockSender) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.SentMessages)
}

// Clear 清空消息记录
func (s *MockSender) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SentMessages = make([]MockMessage, 0)
}
