// Package middleware 提供 HTTP 中间件
package middleware

import (
	"bytes"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JoelCaquene/temeisheng-platform/internal/common/logger"
)

// LoggingConfig 日志中间件配置
type LoggingConfig struct {
	Logger        *zap.Logger
	SkipPaths     []string // 不记录日志的路径
	LogBody       bool     // 是否记录响应体
	MaxBodyLength int      // 响应体最大记录长度
}

// responseWriter 包装 gin.ResponseWriter 以捕获响应体
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Logging 访问日志中间件
func Logging(config *LoggingConfig) gin.HandlerFunc {
	if config == nil {
		config = &LoggingConfig{
			Logger:        logger.GetLogger(),
			MaxBodyLength: 1024,
		}
	}
	if config.MaxBodyLength <= 0 {
		config.MaxBodyLength = 1024
	}

	skipPaths := make(map[string]struct{}, len(config.SkipPaths))
	for _, path := range config.SkipPaths {
		skipPaths[path] = struct{}{}
	}

	return func(c *gin.Context) {
		// 跳过指定路径
		if _, ok := skipPaths[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		var writer *responseWriter
		if config.LogBody {
			writer = &responseWriter{
				ResponseWriter: c.Writer,
				body:           bytes.NewBuffer(nil),
			}
			c.Writer = writer
		}

		c.Next()

		latency := time.Since(start)

		fields := []zap.Field{
			logger.RequestID(GetRequestID(c)),
			logger.Method(c.Request.Method),
			logger.Path(path),
			logger.IP(c.ClientIP()),
			logger.StatusCode(c.Writer.Status()),
			logger.Latency(latency),
			zap.Int("size", c.Writer.Size()),
		}

		if query != "" {
			fields = append(fields, zap.String("query", query))
		}

		if userID := GetUserID(c); userID > 0 {
			fields = append(fields, logger.UserID(userID))
		}

		if config.LogBody && writer != nil {
			body := writer.body.String()
			if len(body) > config.MaxBodyLength {
				body = body[:config.MaxBodyLength]
			}
			fields = append(fields, zap.String("response", body))
		}

		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			config.Logger.Error("HTTP request", fields...)
		case c.Writer.Status() >= 400:
			config.Logger.Warn("HTTP request", fields...)
		default:
			config.Logger.Info("HTTP request", fields...)
		}
	}
}

// AccessLog 简化版访问日志中间件
func AccessLog(log *zap.Logger) gin.HandlerFunc {
	return Logging(&LoggingConfig{
		Logger:    log,
		SkipPaths: []string{"/health", "/metrics"},
	})
}
