// Package withdraw 提供提现相关的 HTTP Handler
package withdraw

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/JoelCaquene/temeisheng-platform/internal/common/errors"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/response"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/utils"
	"github.com/JoelCaquene/temeisheng-platform/internal/middleware"
	withdrawService "github.com/JoelCaquene/temeisheng-platform/internal/service/withdraw"
)

// Handler 提现处理器
type Handler struct {
	withdrawService *withdrawService.Service
}

// NewHandler 创建提现处理器
func NewHandler(withdrawSvc *withdrawService.Service) *Handler {
	return &Handler{
		withdrawService: withdrawSvc,
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	withdrawals := rg.Group("/withdrawals")
	{
		withdrawals.POST("", h.Request)
		withdrawals.GET("", h.List)
		withdrawals.GET("/:id", h.GetByID)
	}
}

// RequestBody 提现申请请求
type RequestBody struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// Request 提交提现申请
// @Summary 提交提现申请
// @Tags 提现
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body RequestBody true "请求参数"
// @Success 200 {object} response.Response{data=models.Withdrawal}
// @Router /api/v1/withdrawals [post]
func (h *Handler) Request(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		response.Unauthorized(c, "Inicie sessão primeiro")
		return
	}

	var req RequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Parâmetros inválidos")
		return
	}

	withdrawal, err := h.withdrawService.Request(c.Request.Context(), userID, req.Amount)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, withdrawal)
}

// List 获取我的提现记录
// @Summary 获取提现记录
// @Tags 提现
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/withdrawals [get]
func (h *Handler) List(c *gin.Context) {
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

	withdrawals, err := h.withdrawService.ListByUser(c.Request.Context(), userID, &page)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.SuccessPage(c, withdrawals, page.Total, page.Page, page.PageSize)
}

// GetByID 获取提现详情
// @Summary 获取提现详情
// @Tags 提现
// @Produce json
// @Security Bearer
// @Param id path int true "提现ID"
// @Success 200 {object} response.Response{data=models.Withdrawal}
// @Router /api/v1/withdrawals/{id} [get]
func (h *Handler) GetByID(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		response.Unauthorized(c, "Inicie sessão primeiro")
		return
	}

	withdrawalID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "ID de saque inválido")
		return
	}

	withdrawal, err := h.withdrawService.GetByID(c.Request.Context(), withdrawalID)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	if withdrawal.UserID != userID {
		response.Forbidden(c, "")
		return
	}

	response.Success(c, withdrawal)
}
