package admin

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JoelCaquene/temeisheng-platform/internal/common/errors"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/response"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/utils"
	"github.com/JoelCaquene/temeisheng-platform/internal/models"
	"github.com/JoelCaquene/temeisheng-platform/internal/repository"
	adminService "github.com/JoelCaquene/temeisheng-platform/internal/service/admin"
)

// FinanceHandler 财务概览与操作日志处理器
type FinanceHandler struct {
	adminService *adminService.Service
}

// NewFinanceHandler 创建财务处理器
func NewFinanceHandler(adminSvc *adminService.Service) *FinanceHandler {
	return &FinanceHandler{
		adminService: adminSvc,
	}
}

// RegisterRoutes 注册路由
func (h *FinanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	finance := rg.Group("/finance")
	{
		finance.GET("/overview", h.GetOverview)
		finance.GET("/daily", h.GetDailyReport)
	}
	rg.GET("/logs/operation", h.ListOperationLogs)
}

// GetOverview 获取财务概览
// @Summary 获取财务概览
// @Tags 管理后台
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=models.FinanceOverview}
// @Router /api/admin/finance/overview [get]
func (h *FinanceHandler) GetOverview(c *gin.Context) {
	overview, err := h.adminService.GetFinanceOverview(c.Request.Context())
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, overview)
}

// GetDailyReport 获取每日财务报表
// @Summary 获取每日财务报表
// @Tags 管理后台
// @Produce json
// @Security Bearer
// @Param date query string false "日期，格式 2006-01-02，默认今天"
// @Success 200 {object} response.Response{data=models.DailyFinanceReport}
// @Router /api/admin/finance/daily [get]
func (h *FinanceHandler) GetDailyReport(c *gin.Context) {
	date := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse(models.EarnDateLayout, dateStr)
		if err != nil {
			response.BadRequest(c, "Data inválida, use o formato 2006-01-02")
			return
		}
		// 解析结果是 UTC 零点，加半天避免落到前一天的平台时区自然日
		date = parsed.Add(12 * time.Hour)
	}

	report, err := h.adminService.GetDailyReport(c.Request.Context(), date)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, report)
}

// ListOperationLogs 获取操作日志
// @Summary 获取操作日志
// @Tags 管理后台
// @Produce json
// @Security Bearer
// @Param module query string false "模块过滤"
// @Param action query string false "操作过滤"
// @Param admin_id query int false "管理员ID过滤"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/admin/logs/operation [get]
func (h *FinanceHandler) ListOperationLogs(c *gin.Context) {
	var page utils.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, "Parâmetros inválidos")
		return
	}

	filter := &repository.OperationLogFilter{
		Module: c.Query("module"),
		Action: c.Query("action"),
	}
	if adminIDStr := c.Query("admin_id"); adminIDStr != "" {
		if adminID, err := strconv.ParseInt(adminIDStr, 10, 64); err == nil {
			filter.AdminID = &adminID
		}
	}

	logs, err := h.adminService.ListOperationLogs(c.Request.Context(), filter, &page)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.SuccessPage(c, logs, page.Total, page.Page, page.PageSize)
}
