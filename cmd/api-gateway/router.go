// Package main 是应用程序入口
package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/JoelCaquene/temeisheng-platform/internal/common/config"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/jwt"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/metrics"
	commonMiddleware "github.com/JoelCaquene/temeisheng-platform/internal/common/middleware"
	adminHandler "github.com/JoelCaquene/temeisheng-platform/internal/handler/admin"
	authHandler "github.com/JoelCaquene/temeisheng-platform/internal/handler/auth"
	depositHandler "github.com/JoelCaquene/temeisheng-platform/internal/handler/deposit"
	ledgerHandler "github.com/JoelCaquene/temeisheng-platform/internal/handler/ledger"
	platformHandler "github.com/JoelCaquene/temeisheng-platform/internal/handler/platform"
	referralHandler "github.com/JoelCaquene/temeisheng-platform/internal/handler/referral"
	taskHandler "github.com/JoelCaquene/temeisheng-platform/internal/handler/task"
	withdrawHandler "github.com/JoelCaquene/temeisheng-platform/internal/handler/withdraw"
	"github.com/JoelCaquene/temeisheng-platform/internal/middleware"
	"github.com/JoelCaquene/temeisheng-platform/internal/repository"
	adminService "github.com/JoelCaquene/temeisheng-platform/internal/service/admin"
	authService "github.com/JoelCaquene/temeisheng-platform/internal/service/auth"
	depositService "github.com/JoelCaquene/temeisheng-platform/internal/service/deposit"
	ledgerService "github.com/JoelCaquene/temeisheng-platform/internal/service/ledger"
	levelService "github.com/JoelCaquene/temeisheng-platform/internal/service/level"
	"github.com/JoelCaquene/temeisheng-platform/internal/service/notify"
	platformService "github.com/JoelCaquene/temeisheng-platform/internal/service/platform"
	referralService "github.com/JoelCaquene/temeisheng-platform/internal/service/referral"
	taskService "github.com/JoelCaquene/temeisheng-platform/internal/service/task"
	withdrawService "github.com/JoelCaquene/temeisheng-platform/internal/service/withdraw"
	"github.com/JoelCaquene/temeisheng-platform/pkg/oss"
	"github.com/JoelCaquene/temeisheng-platform/pkg/sms"
)

// setupRouter 设置路由，返回管理服务供定时任务复用
func setupRouter(
	r *gin.Engine,
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
) *adminService.Service {
	// 创建 JWT 管理器
	jwtManager := jwt.NewManager(&jwt.Config{
		Secret:            cfg.JWT.Secret,
		AccessExpireTime:  cfg.JWT.AccessTokenDuration(),
		RefreshExpireTime: cfg.JWT.RefreshTokenDuration(),
		Issuer:            cfg.JWT.Issuer,
	})

	// 初始化外部服务客户端
	smsSender := newSMSSender(cfg, logger)
	uploader := newUploader(cfg, logger)
	notifier := notify.NewNotifier(smsSender)

	// 初始化服务
	authSvc := authService.NewService(db, jwtManager)
	ledgerSvc := ledgerService.NewService(db)
	depositSvc := depositService.NewService(db, cfg, notifier)
	withdrawSvc := withdrawService.NewService(db, cfg, notifier)
	taskSvc := taskService.NewService(db, cfg, notifier)
	referralSvc := referralService.NewService(db, cfg)
	levelSvc := levelService.NewService(db)
	platformSvc := platformService.NewService(db)
	adminSvc := adminService.NewService(db, cfg, jwtManager)

	// 初始化处理器
	authH := authHandler.NewHandler(authSvc)
	ledgerH := ledgerHandler.NewHandler(ledgerSvc)
	depositH := depositHandler.NewHandler(depositSvc, uploader)
	withdrawH := withdrawHandler.NewHandler(withdrawSvc)
	taskH := taskHandler.NewHandler(taskSvc)
	referralH := referralHandler.NewHandler(referralSvc)
	platformH := platformHandler.NewHandler(levelSvc, platformSvc)

	adminAuthH := adminHandler.NewAuthHandler(adminSvc)
	reviewH := adminHandler.NewReviewHandler(depositSvc, withdrawSvc)
	adminUserH := adminHandler.NewUserHandler(adminSvc)
	catalogH := adminHandler.NewCatalogHandler(levelSvc, adminSvc)
	financeH := adminHandler.NewFinanceHandler(adminSvc)

	// 全局中间件
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	r.Use(middleware.SecureHeaders())
	r.Use(middleware.CORS(corsConfig(cfg)))
	r.Use(middleware.AccessLog(logger))
	if cfg.Tracing.Enabled {
		r.Use(commonMiddleware.Tracing(&commonMiddleware.TracingConfig{
			ServiceName: cfg.Tracing.ServiceName,
			SkipPaths:   []string{"/health", "/ping", "/ready", "/metrics"},
		}))
	}
	if cfg.Metrics.Enabled {
		r.Use(metrics.GetMetrics().Middleware())
	}
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(&middleware.RateLimitConfig{
			Limit:  cfg.RateLimit.RequestsPerSecond,
			Window: time.Second,
		}))
	}

	// 健康检查（不需要认证）
	r.GET("/health", healthHandler)
	r.GET("/ping", pingHandler)
	r.GET("/ready", readyHandler(db, redisClient))

	// Prometheus 指标
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, metrics.Handler())
	}

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 路由组
	v1 := r.Group("/api/v1")
	{
		// 公开接口（无需认证）
		public := v1.Group("")
		{
			authH.RegisterRoutes(public)
			platformH.RegisterRoutes(public)
		}

		// 用户端接口（需要用户认证）
		user := v1.Group("")
		user.Use(middleware.UserAuth(jwtManager))
		{
			authH.RegisterProtectedRoutes(user)
			ledgerH.RegisterRoutes(user)
			depositH.RegisterRoutes(user)
			withdrawH.RegisterRoutes(user)
			taskH.RegisterRoutes(user)
			referralH.RegisterRoutes(user)
		}
	}

	// 管理后台 API
	opLogger := commonMiddleware.NewOperationLogger(repository.NewOperationLogRepository(db))
	admin := r.Group("/api/admin")
	{
		// 管理员登录（公开）
		adminAuthH.RegisterPublicRoutes(admin)

		// 需要管理员认证
		adminAuth := admin.Group("")
		adminAuth.Use(middleware.AdminAuth(jwtManager))
		adminAuth.Use(opLogger.Log())
		{
			adminAuthH.RegisterRoutes(adminAuth)
			reviewH.RegisterRoutes(adminAuth)
			adminUserH.RegisterRoutes(adminAuth)
			catalogH.RegisterRoutes(adminAuth)
			financeH.RegisterRoutes(adminAuth)
		}
	}

	// 404 处理
	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"code":    404,
			"message": "Rota não encontrada",
		})
	})

	return adminSvc
}

// newSMSSender 根据配置选择短信发送器
func newSMSSender(cfg *config.Config, logger *zap.Logger) sms.Sender {
	if cfg.SMS.Provider == "aliyun" {
		sender, err := sms.NewAliyunSender(&sms.AliyunConfig{
			AccessKeyID:     cfg.SMS.AccessKeyID,
			AccessKeySecret: cfg.SMS.AccessKeySecret,
			SignName:        cfg.SMS.SignName,
		})
		if err != nil {
			logger.Warn("Failed to init Aliyun SMS sender, falling back to mock", zap.Error(err))
			return sms.NewMockSender()
		}
		return sender
	}
	return sms.NewMockSender()
}

// newUploader 根据配置选择对象存储上传器
func newUploader(cfg *config.Config, logger *zap.Logger) oss.Uploader {
	if cfg.OSS.Provider == "aliyun" {
		uploader, err := oss.NewAliyunUploader(&oss.AliyunConfig{
			Endpoint:        cfg.OSS.Endpoint,
			AccessKeyID:     cfg.OSS.AccessKeyID,
			AccessKeySecret: cfg.OSS.AccessKeySecret,
			BucketName:      cfg.OSS.Bucket,
			Domain:          cfg.OSS.CustomDomain,
			BasePath:        cfg.OSS.UploadDir,
		})
		if err != nil {
			logger.Warn("Failed to init Aliyun OSS uploader, falling back to mock", zap.Error(err))
			return oss.NewMockUploader()
		}
		return uploader
	}
	return oss.NewMockUploader()
}

// corsConfig 将配置文件中的 CORS 设置转换为中间件配置
func corsConfig(cfg *config.Config) *middleware.CORSConfig {
	if len(cfg.CORS.AllowedOrigins) == 0 {
		return middleware.DefaultCORSConfig()
	}
	c := middleware.DefaultCORSConfig()
	c.AllowOrigins = cfg.CORS.AllowedOrigins
	if len(cfg.CORS.AllowedMethods) > 0 {
		c.AllowMethods = cfg.CORS.AllowedMethods
	}
	if len(cfg.CORS.AllowedHeaders) > 0 {
		c.AllowHeaders = cfg.CORS.AllowedHeaders
	}
	if len(cfg.CORS.ExposedHeaders) > 0 {
		c.ExposeHeaders = cfg.CORS.ExposedHeaders
	}
	c.AllowCredentials = cfg.CORS.AllowCredentials
	if cfg.CORS.MaxAge > 0 {
		c.MaxAge = cfg.CORS.MaxAge
	}
	return c
}
