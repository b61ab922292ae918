// Package metrics 指标收集单元测试
package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// GetMetrics 在整个测试进程内共享同一个注册表
func TestGetMetrics(t *testing.T) {
	m := GetMetrics()
	require.NotNil(t, m)

	// 重复获取返回同一实例
	assert.Same(t, m, GetMetrics())
}

func TestRecorders_DoNotPanic(t *testing.T) {
	m := GetMetrics()

	m.RecordDeposit("approved")
	m.RecordDeposit("rejected")
	m.RecordWithdrawal("pending")
	m.RecordWithdrawal("approved")
	m.RecordSubsidy()
	m.RecordEarningClaim()
	m.RecordDBQuery("select", "deposits", 5*time.Millisecond)
	m.SetPendingDeposits(3)
	m.SetPendingWithdrawals(1)
	m.SetActiveUsers(42)
}

func TestMiddleware(t *testing.T) {
	m := GetMetrics()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler(t *testing.T) {
	r := gin.New()
	r.GET("/metrics", Handler())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Body.String())
}
