// Package task 提供每日收益相关的 HTTP Handler
package task

import (
	"github.com/gin-gonic/gin"

	"github.com/JoelCaquene/temeisheng-platform/internal/common/errors"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/response"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/utils"
	"github.com/JoelCaquene/temeisheng-platform/internal/middleware"
	taskService "github.com/JoelCaquene/temeisheng-platform/internal/service/task"
)

// Handler 每日收益处理器
type Handler struct {
	taskService *taskService.Service
}

// NewHandler 创建每日收益处理器
func NewHandler(taskSvc *taskService.Service) *Handler {
	return &Handler{
		taskService: taskSvc,
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	earnings := rg.Group("/earnings")
	{
		earnings.POST("/claim", h.Claim)
		earnings.GET("/today", h.Today)
		earnings.GET("", h.History)
		earnings.GET("/total", h.Total)
	}
}

// Claim 领取今日收益
// @Summary 领取今日收益
// @Tags 收益
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=models.DailyEarning}
// @Router /api/v1/earnings/claim [post]
func (h *Handler) Claim(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		response.Unauthorized(c, "Inicie sessão primeiro")
		return
	}

	earning, err := h.taskService.Claim(c.Request.Context(), userID)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "Ganho diário recebido", earning)
}

// Today 获取今日收益状态
// @Summary 获取今日收益状态
// @Tags 收益
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=taskService.TodayStatus}
// @Router /api/v1/earnings/today [get]
func (h *Handler) Today(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		response.Unauthorized(c, "Inicie sessão primeiro")
		return
	}

	status, err := h.taskService.Today(c.Request.Context(), userID)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, status)
}

// History 获取收益历史
// @Summary 获取收益历史
// @Tags 收益
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/earnings [get]
func (h *Handler) History(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		response.Unauthorized(c, "Inicie sessão primeiro")
		return
	}

	var page utils.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, "Parâmetros inválidos")
		return
	}

	earnings, err := h.taskService.History(c.Request.Context(), userID, &page)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.SuccessPage(c, earnings, page.Total, page.Page, page.PageSize)
}

// Total 获取累计收益
// @Summary 获取累计收益
// @Tags 收益
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response
// @Router /api/v1/earnings/total [get]
func (h *Handler) Total(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		response.Unauthorized(c, "Inicie sessão primeiro")
		return
	}

	total, err := h.taskService.TotalEarned(c.Request.Context(), userID)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"total": total})
}
