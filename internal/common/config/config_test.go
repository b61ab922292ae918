// Package config 配置管理单元测试
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithDefaultValues(t *testing.T) {
	// 不指定配置文件路径，使用默认搜索路径
	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// 验证默认值
	assert.Equal(t, "temeisheng-platform", cfg.Server.Name)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "Africa/Luanda", cfg.Database.Timezone)
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
}

func TestLoad_WithConfigFile(t *testing.T) {
	// 创建临时配置文件
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.yaml")

	configContent := `
server:
  name: "test-server"
  mode: "release"
  port: 9000
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	// sync.Once 可能返回之前加载的配置，但不应该返回 error
	cfg, err := Load(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)
}

func TestGet_ReturnsSameInstance(t *testing.T) {
	cfg1 := Get()
	cfg2 := Get()

	// 应该返回同一个实例
	assert.Equal(t, cfg1, cfg2)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name   string
		config DatabaseConfig
		want   string
	}{
		{
			name: "Standard config",
			config: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "postgres",
				Password: "secret",
				Name:     "temeisheng",
				SSLMode:  "disable",
				Timezone: "Africa/Luanda",
			},
			want: "host=localhost port=5432 user=postgres password=secret dbname=temeisheng sslmode=disable TimeZone=Africa/Luanda",
		},
		{
			name: "Remote database",
			config: DatabaseConfig{
				Host:     "db.example.com",
				Port:     5433,
				User:     "admin",
				Password: "p@ssw0rd",
				Name:     "production",
				SSLMode:  "require",
				Timezone: "UTC",
			},
			want: "host=db.example.com port=5433 user=admin password=p@ssw0rd dbname=production sslmode=require TimeZone=UTC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := tt.config.DSN()
			assert.Equal(t, tt.want, dsn)
		})
	}
}

func TestRedisConfig_Addr(t *testing.T) {
	tests := []struct {
		name   string
		config RedisConfig
		want   string
	}{
		{
			name:   "Localhost",
			config: RedisConfig{Host: "localhost", Port: 6379},
			want:   "localhost:6379",
		},
		{
			name:   "IP address",
			config: RedisConfig{Host: "192.168.1.100", Port: 6380},
			want:   "192.168.1.100:6380",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := tt.config.Addr()
			assert.Equal(t, tt.want, addr)
		})
	}
}

func TestJWTConfig_AccessTokenDuration(t *testing.T) {
	tests := []struct {
		name   string
		expire int
		want   time.Duration
	}{
		{"1 hour", 1, 1 * time.Hour},
		{"24 hours", 24, 24 * time.Hour},
		{"168 hours (7 days)", 168, 168 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := JWTConfig{AccessTokenExpire: tt.expire}
			assert.Equal(t, tt.want, config.AccessTokenDuration())
		})
	}
}

func TestConfig_IsDebug(t *testing.T) {
	tests := []struct {
		name string
		mode string
		want bool
	}{
		{"Debug mode", "debug", true},
		{"Release mode", "release", false},
		{"Empty mode", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{
				Server: ServerConfig{Mode: tt.mode},
			}
			assert.Equal(t, tt.want, config.IsDebug())
		})
	}
}

func TestBusinessConfig_Defaults(t *testing.T) {
	cfg := Get()

	// 验证提现配置默认值
	assert.Equal(t, 1500.00, cfg.Business.Withdraw.MinAmount)
	assert.Equal(t, 9, cfg.Business.Withdraw.WindowOpenHour)
	assert.Equal(t, 18, cfg.Business.Withdraw.WindowCloseHour)
	assert.Equal(t, 1, cfg.Business.Withdraw.UTCOffsetHours)
	assert.False(t, cfg.Business.Withdraw.AllowSunday)

	// 验证补贴配置默认值
	assert.Equal(t, 1000.00, cfg.Business.Subsidy.Amount)

	// 验证收益时区默认值
	assert.Equal(t, 1, cfg.Business.Earning.UTCOffsetHours)
}

func TestWithdrawConfig_Timezone(t *testing.T) {
	w := WithdrawConfig{UTCOffsetHours: 1}
	loc := w.Timezone()
	require.NotNil(t, loc)

	// 12:00 UTC 等于平台时区的 13:00
	utcNoon := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 13, utcNoon.In(loc).Hour())
}

func TestConfig_AllFieldsPopulated(t *testing.T) {
	cfg := Get()
	require.NotNil(t, cfg)

	assert.NotEmpty(t, cfg.Server.Name)
	assert.NotZero(t, cfg.Server.Port)
	assert.NotEmpty(t, cfg.Database.Driver)
	assert.NotEmpty(t, cfg.Database.Host)
	assert.NotEmpty(t, cfg.Redis.Host)
	assert.NotEmpty(t, cfg.JWT.Secret)
	assert.NotZero(t, cfg.JWT.AccessTokenExpire)
	assert.NotEmpty(t, cfg.Logger.Level)
	assert.NotEmpty(t, cfg.Logger.Format)
}

func TestCORSConfig_Defaults(t *testing.T) {
	cfg := Get()

	assert.Contains(t, cfg.CORS.AllowedOrigins, "*")
	assert.Contains(t, cfg.CORS.AllowedMethods, "GET")
	assert.Contains(t, cfg.CORS.AllowedHeaders, "Authorization")
	assert.True(t, cfg.CORS.AllowCredentials)
	assert.Equal(t, 86400, cfg.CORS.MaxAge)
}

func TestMetricsConfig_Defaults(t *testing.T) {
	cfg := Get()

	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9100, cfg.Metrics.Port)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestRateLimitConfig_Defaults(t *testing.T) {
	cfg := Get()

	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
}
