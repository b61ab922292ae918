// Package platform 提供平台公开信息的 HTTP Handler
package platform

import (
	"github.com/gin-gonic/gin"

	"github.com/JoelCaquene/temeisheng-platform/internal/common/errors"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/response"
	levelService "github.com/JoelCaquene/temeisheng-platform/internal/service/level"
	platformService "github.com/JoelCaquene/temeisheng-platform/internal/service/platform"
)

// Handler 平台公开信息处理器
type Handler struct {
	levelService    *levelService.Service
	platformService *platformService.Service
}

// NewHandler 创建平台公开信息处理器
func NewHandler(levelSvc *levelService.Service, platformSvc *platformService.Service) *Handler {
	return &Handler{
		levelService:    levelSvc,
		platformService: platformSvc,
	}
}

// RegisterRoutes 注册公开路由
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/levels", h.ListLevels)
	rg.GET("/banks", h.ListBanks)
	rg.GET("/config", h.GetConfig)
}

// ListLevels 获取等级目录
// @Summary 获取等级目录
// @Tags 平台
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Level}
// @Router /api/v1/levels [get]
func (h *Handler) ListLevels(c *gin.Context) {
	levels, err := h.levelService.ListActive(c.Request.Context())
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, levels)
}

// ListBanks 获取平台收款账户
// @Summary 获取平台收款账户
// @Tags 平台
// @Produce json
// @Success 200 {object} response.Response{data=[]models.BankAccount}
// @Router /api/v1/banks [get]
func (h *Handler) ListBanks(c *gin.Context) {
	banks, err := h.platformService.ListActiveBanks(c.Request.Context())
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, banks)
}

// GetConfig 获取平台公开配置
// @Summary 获取平台公开配置
// @Tags 平台
// @Produce json
// @Success 200 {object} response.Response{data=models.PlatformConfig}
// @Router /api/v1/config [get]
func (h *Handler) GetConfig(c *gin.Context) {
	cfg, err := h.platformService.GetConfig(c.Request.Context())
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, cfg)
}
