// Package ledger 提供账本相关的 HTTP Handler
package ledger

import (
	"github.com/gin-gonic/gin"

	"github.com/JoelCaquene/temeisheng-platform/internal/common/errors"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/response"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/utils"
	"github.com/JoelCaquene/temeisheng-platform/internal/middleware"
	ledgerService "github.com/JoelCaquene/temeisheng-platform/internal/service/ledger"
)

// Handler 账本处理器
type Handler struct {
	ledgerService *ledgerService.Service
}

// NewHandler 创建账本处理器
func NewHandler(ledgerSvc *ledgerService.Service) *Handler {
	return &Handler{
		ledgerService: ledgerSvc,
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	ledger := rg.Group("/ledger")
	{
		ledger.GET("", h.GetAccount)
		ledger.GET("/transactions", h.GetTransactions)
		ledger.PUT("/bank", h.UpdateBankInfo)
	}
}

// GetAccount 获取账本余额与等级
// @Summary 获取账本
// @Tags 账本
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=models.LedgerAccount}
// @Router /api/v1/ledger [get]
func (h *Handler) GetAccount(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		response.Unauthorized(c, "Inicie sessão primeiro")
		return
	}

	account, err := h.ledgerService.GetAccount(c.Request.Context(), userID)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, account)
}

// GetTransactions 获取流水列表
// @Summary 获取账本流水
// @Tags 账本
// @Produce json
// @Security Bearer
// @Param type query string false "流水类型"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/ledger/transactions [get]
func (h *Handler) GetTransactions(c *gin.Context) {
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

	txType := c.Query("type")
	transactions, err := h.ledgerService.GetTransactions(c.Request.Context(), userID, txType, &page)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.SuccessPage(c, transactions, page.Total, page.Page, page.PageSize)
}

// BankInfoRequest 收款银行信息请求
type BankInfoRequest struct {
	BankName   string `json:"bank_name" binding:"required"`
	IBAN       string `json:"iban" binding:"required"`
	HolderName string `json:"holder_name" binding:"required"`
}

// UpdateBankInfo 更新收款银行信息
// @Summary 更新收款银行信息
// @Tags 账本
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body BankInfoRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/v1/ledger/bank [put]
func (h *Handler) UpdateBankInfo(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		response.Unauthorized(c, "Inicie sessão primeiro")
		return
	}

	var req BankInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Parâmetros inválidos")
		return
	}

	err := h.ledgerService.UpdateBankInfo(c.Request.Context(), userID, req.BankName, req.IBAN, req.HolderName)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "Dados bancários atualizados", nil)
}
