// Package middleware 提供 HTTP 中间件
package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JoelCaquene/temeisheng-platform/internal/common/cache"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/response"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Limit    int                            // 窗口内允许的请求数
	Window   time.Duration                  // 时间窗口
	KeyFunc  func(c *gin.Context) string    // 限流键生成函数
	OnExceed func(c *gin.Context, key string) // 超限回调
}

// RateLimit 基于 Redis 计数器的限流中间件
func RateLimit(config *RateLimitConfig) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string {
			return c.ClientIP()
		}
	}
	if config.OnExceed == nil {
		config.OnExceed = func(c *gin.Context, key string) {
			response.TooManyRequests(c, "Demasiados pedidos, tente novamente mais tarde")
		}
	}

	return func(c *gin.Context) {
		key := cache.BuildKey(cache.KeyPrefixRateLimit, config.KeyFunc(c))

		count, err := cache.Incr(c.Request.Context(), key)
		if err != nil {
			// Redis 不可用时放行
			c.Next()
			return
		}

		// 第一次请求时设置过期时间
		if count == 1 {
			_ = cache.Expire(c.Request.Context(), key, config.Window)
		}

		remaining := config.Limit - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if int(count) > config.Limit {
			config.OnExceed(c, key)
			c.Abort()
			return
		}

		c.Next()
	}
}

// IPRateLimit 按 IP 限流
func IPRateLimit(limit int, window time.Duration) gin.HandlerFunc {
	return RateLimit(&RateLimitConfig{
		Limit:  limit,
		Window: window,
		KeyFunc: func(c *gin.Context) string {
			return fmt.Sprintf("ip:%s", c.ClientIP())
		},
	})
}

// UserRateLimit 按用户限流
func UserRateLimit(limit int, window time.Duration) gin.HandlerFunc {
	return RateLimit(&RateLimitConfig{
		Limit:  limit,
		Window: window,
		KeyFunc: func(c *gin.Context) string {
			userID := GetUserID(c)
			if userID > 0 {
				return fmt.Sprintf("user:%d", userID)
			}
			return fmt.Sprintf("ip:%s", c.ClientIP())
		},
	})
}

// APIRateLimit 按接口和 IP 限流
func APIRateLimit(limit int, window time.Duration) gin.HandlerFunc {
	return RateLimit(&RateLimitConfig{
		Limit:  limit,
		Window: window,
		KeyFunc: func(c *gin.Context) string {
			return fmt.Sprintf("api:%s:%s", c.FullPath(), c.ClientIP())
		},
	})
}

// SMSRateLimit 按手机号限制短信发送频率
func SMSRateLimit(limit int, window time.Duration) gin.HandlerFunc {
	return RateLimit(&RateLimitConfig{
		Limit:  limit,
		Window: window,
		KeyFunc: func(c *gin.Context) string {
			phone := c.Query("phone")
			if phone == "" {
				phone = c.PostForm("phone")
			}
			if phone != "" {
				return fmt.Sprintf("sms:%s", phone)
			}
			return fmt.Sprintf("sms:ip:%s", c.ClientIP())
		},
		OnExceed: func(c *gin.Context, key string) {
			response.TooManyRequests(c, "Demasiados SMS enviados, aguarde um momento")
		},
	})
}
