package admin

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/JoelCaquene/temeisheng-platform/internal/common/errors"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/response"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/utils"
	"github.com/JoelCaquene/temeisheng-platform/internal/middleware"
	depositService "github.com/JoelCaquene/temeisheng-platform/internal/service/deposit"
	withdrawService "github.com/JoelCaquene/temeisheng-platform/internal/service/withdraw"
)

// ReviewHandler 充值提现审核处理器
type ReviewHandler struct {
	depositService  *depositService.Service
	withdrawService *withdrawService.Service
}

// NewReviewHandler 创建审核处理器
func NewReviewHandler(depositSvc *depositService.Service, withdrawSvc *withdrawService.Service) *ReviewHandler {
	return &ReviewHandler{
		depositService:  depositSvc,
		withdrawService: withdrawSvc,
	}
}

// RegisterRoutes 注册路由
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	deposits := rg.Group("/deposits")
	{
		deposits.GET("", h.ListDeposits)
		deposits.GET("/pending", h.ListPendingDeposits)
		deposits.GET("/:id", h.GetDeposit)
		deposits.POST("/:id/approve", h.ApproveDeposit)
		deposits.POST("/:id/reject", h.RejectDeposit)
	}

	withdrawals := rg.Group("/withdrawals")
	{
		withdrawals.GET("", h.ListWithdrawals)
		withdrawals.GET("/pending", h.ListPendingWithdrawals)
		withdrawals.GET("/:id", h.GetWithdrawal)
		withdrawals.POST("/:id/approve", h.ApproveWithdrawal)
		withdrawals.POST("/:id/reject", h.RejectWithdrawal)
	}
}

// RejectRequest 拒绝请求
type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListDeposits 获取充值列表
// @Summary 获取充值列表
// @Tags 管理后台
// @Produce json
// @Security Bearer
// @Param status query string false "状态过滤"
// @Param user_id query int false "用户ID过滤"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/admin/deposits [get]
func (h *ReviewHandler) ListDeposits(c *gin.Context) {
	var page utils.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, "Parâmetros inválidos")
		return
	}

	filters := make(map[string]interface{})
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if userIDStr := c.Query("user_id"); userIDStr != "" {
		if userID, err := strconv.ParseInt(userIDStr, 10, 64); err == nil {
			filters["user_id"] = userID
		}
	}

	deposits, err := h.depositService.List(c.Request.Context(), filters, &page)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.SuccessPage(c, deposits, page.Total, page.Page, page.PageSize)
}

// ListPendingDeposits 获取待审核充值队列
// @Summary 获取待审核充值队列
// @Tags 管理后台
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/admin/deposits/pending [get]
func (h *ReviewHandler) ListPendingDeposits(c *gin.Context) {
	var page utils.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, "Parâmetros inválidos")
		return
	}

	deposits, err := h.depositService.ListPending(c.Request.Context(), &page)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.SuccessPage(c, deposits, page.Total, page.Page, page.PageSize)
}

// GetDeposit 获取充值详情
// @Summary 获取充值详情
// @Tags 管理后台
// @Produce json
// @Security Bearer
// @Param id path int true "充值ID"
// @Success 200 {object} response.Response{data=models.Deposit}
// @Router /api/admin/deposits/{id} [get]
func (h *ReviewHandler) GetDeposit(c *gin.Context) {
	depositID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "ID de depósito inválido")
		return
	}

	deposit, err := h.depositService.GetByID(c.Request.Context(), depositID)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, deposit)
}

// ApproveDeposit 批准充值
// @Summary 批准充值
// @Tags 管理后台
// @Produce json
// @Security Bearer
// @Param id path int true "充值ID"
// @Success 200 {object} response.Response{data=models.Deposit}
// @Router /api/admin/deposits/{id}/approve [post]
func (h *ReviewHandler) ApproveDeposit(c *gin.Context) {
	operatorID := middleware.GetUserID(c)
	if operatorID == 0 {
		response.Unauthorized(c, "Inicie sessão primeiro")
		return
	}

	depositID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "ID de depósito inválido")
		return
	}

	deposit, err := h.depositService.Approve(c.Request.Context(), depositID, operatorID)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "Depósito aprovado", deposit)
}

// RejectDeposit 拒绝充值
// @Summary 拒绝充值
// @Tags 管理后台
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "充值ID"
// @Param request body RejectRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/admin/deposits/{id}/reject [post]
func (h *ReviewHandler) RejectDeposit(c *gin.Context) {
	operatorID := middleware.GetUserID(c)
	if operatorID == 0 {
		response.Unauthorized(c, "Inicie sessão primeiro")
		return
	}

	depositID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "ID de depósito inválido")
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "O motivo da rejeição é obrigatório")
		return
	}

	if err := h.depositService.Reject(c.Request.Context(), depositID, operatorID, req.Reason); err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "Depósito rejeitado", nil)
}

// ListWithdrawals 获取提现列表
// @Summary 获取提现列表
// @Tags 管理后台
// @Produce json
// @Security Bearer
// @Param status query string false "状态过滤"
// @Param user_id query int false "用户ID过滤"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/admin/withdrawals [get]
func (h *ReviewHandler) ListWithdrawals(c *gin.Context) {
	var page utils.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, "Parâmetros inválidos")
		return
	}

	filters := make(map[string]interface{})
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if userIDStr := c.Query("user_id"); userIDStr != "" {
		if userID, err := strconv.ParseInt(userIDStr, 10, 64); err == nil {
			filters["user_id"] = userID
		}
	}

	withdrawals, err := h.withdrawService.List(c.Request.Context(), filters, &page)
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

// ListPendingWithdrawals 获取待处理提现队列
// @Summary 获取待处理提现队列
// @Tags 管理后台
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/admin/withdrawals/pending [get]
func (h *ReviewHandler) ListPendingWithdrawals(c *gin.Context) {
	var page utils.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, "Parâmetros inválidos")
		return
	}

	withdrawals, err := h.withdrawService.ListPending(c.Request.Context(), &page)
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

// GetWithdrawal 获取提现详情
// @Summary 获取提现详情
// @Tags 管理后台
// @Produce json
// @Security Bearer
// @Param id path int true "提现ID"
// @Success 200 {object} response.Response{data=models.Withdrawal}
// @Router /api/admin/withdrawals/{id} [get]
func (h *ReviewHandler) GetWithdrawal(c *gin.Context) {
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

	response.Success(c, withdrawal)
}

// ApproveWithdrawal 批准提现
// @Summary 批准提现
// @Tags 管理后台
// @Produce json
// @Security Bearer
// @Param id path int true "提现ID"
// @Success 200 {object} response.Response{data=models.Withdrawal}
// @Router /api/admin/withdrawals/{id}/approve [post]
func (h *ReviewHandler) ApproveWithdrawal(c *gin.Context) {
	operatorID := middleware.GetUserID(c)
	if operatorID == 0 {
		response.Unauthorized(c, "Inicie sessão primeiro")
		return
	}

	withdrawalID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "ID de saque inválido")
		return
	}

	withdrawal, err := h.withdrawService.Approve(c.Request.Context(), withdrawalID, operatorID)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "Saque aprovado", withdrawal)
}

// RejectWithdrawal 拒绝提现并退款
// @Summary 拒绝提现
// @Tags 管理后台
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "提现ID"
// @Param request body RejectRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/admin/withdrawals/{id}/reject [post]
func (h *ReviewHandler) RejectWithdrawal(c *gin.Context) {
	operatorID := middleware.GetUserID(c)
	if operatorID == 0 {
		response.Unauthorized(c, "Inicie sessão primeiro")
		return
	}

	withdrawalID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "ID de saque inválido")
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "O motivo da rejeição é obrigatório")
		return
	}

	if err := h.withdrawService.Reject(c.Request.Context(), withdrawalID, operatorID, req.Reason); err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "Saque rejeitado e valor devolvido", nil)
}
