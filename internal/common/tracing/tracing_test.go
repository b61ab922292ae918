// Package tracing 分布式追踪单元测试
package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestInit_Disabled(t *testing.T) {
	tracer, err := Init(&Config{
		ServiceName: "temeisheng-platform",
		Enabled:     false,
	})
	require.NoError(t, err)
	require.NotNil(t, tracer)

	// 未启用时返回 noop span
	ctx, span := tracer.Start(context.Background(), "test-span")
	require.NotNil(t, ctx)
	require.NotNil(t, span)
	assert.False(t, span.IsRecording())
	span.End()
}

func TestInit_StdoutExporter(t *testing.T) {
	tracer, err := Init(&Config{
		ServiceName: "temeisheng-platform",
		Environment: "test",
		SampleRate:  1.0,
		Enabled:     true,
	})
	require.NoError(t, err)
	require.NotNil(t, tracer)

	ctx, span := tracer.StartSpan(context.Background(), "deposit.approve",
		WithUserID(42),
		WithDepositNo("D20260830000001"),
	)
	require.NotNil(t, ctx)
	span.End()

	require.NoError(t, tracer.Shutdown(context.Background()))
}

func TestSpanHelpers(t *testing.T) {
	// 对无 span 的上下文调用不应该 panic
	ctx := context.Background()
	AddEvent(ctx, "ledger.credited", AttrAmount.Float64(5000))
	SetError(ctx, errors.New("boom"))
	SetAttributes(ctx, WithOperation("approve"))

	span := SpanFromContext(ctx)
	assert.NotNil(t, span)
}

func TestAttributeHelpers(t *testing.T) {
	tests := []struct {
		name string
		kv   attribute.KeyValue
		key  string
	}{
		{"UserID", WithUserID(1), "user.id"},
		{"LevelID", WithLevelID(2), "level.id"},
		{"DepositNo", WithDepositNo("D1"), "deposit.no"},
		{"WithdrawalNo", WithWithdrawalNo("W1"), "withdrawal.no"},
		{"Operation", WithOperation("claim"), "operation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.key, string(tt.kv.Key))
		})
	}
}
