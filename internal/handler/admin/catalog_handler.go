package admin

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/JoelCaquene/temeisheng-platform/internal/common/errors"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/response"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/utils"
	adminService "github.com/JoelCaquene/temeisheng-platform/internal/service/admin"
	levelService "github.com/JoelCaquene/temeisheng-platform/internal/service/level"
)

// CatalogHandler 等级目录、收款账户与平台配置处理器
type CatalogHandler struct {
	levelService *levelService.Service
	adminService *adminService.Service
}

// NewCatalogHandler 创建目录管理处理器
func NewCatalogHandler(levelSvc *levelService.Service, adminSvc *adminService.Service) *CatalogHandler {
	return &CatalogHandler{
		levelService: levelSvc,
		adminService: adminSvc,
	}
}

// RegisterRoutes 注册路由
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	levels := rg.Group("/levels")
	{
		levels.GET("", h.ListLevels)
		levels.POST("", h.CreateLevel)
		levels.PUT("/:id", h.UpdateLevel)
		levels.DELETE("/:id", h.DeleteLevel)
	}

	banks := rg.Group("/banks")
	{
		banks.GET("", h.ListBanks)
		banks.POST("", h.CreateBank)
		banks.PUT("/:id", h.UpdateBank)
		banks.DELETE("/:id", h.DeleteBank)
	}

	rg.GET("/config", h.GetConfig)
	rg.PUT("/config", h.UpdateConfig)
}

// ListLevels 获取全部等级
// @Summary 获取全部等级
// @Tags 管理后台
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/admin/levels [get]
func (h *CatalogHandler) ListLevels(c *gin.Context) {
	var page utils.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, "Parâmetros inválidos")
		return
	}

	levels, err := h.levelService.List(c.Request.Context(), &page)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.SuccessPage(c, levels, page.Total, page.Page, page.PageSize)
}

// CreateLevel 创建等级
// @Summary 创建等级
// @Tags 管理后台
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body levelService.CreateRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Level}
// @Router /api/admin/levels [post]
func (h *CatalogHandler) CreateLevel(c *gin.Context) {
	var req levelService.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Parâmetros inválidos")
		return
	}

	level, err := h.levelService.Create(c.Request.Context(), &req)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, level)
}

// UpdateLevel 更新等级
// @Summary 更新等级
// @Tags 管理后台
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "等级ID"
// @Param request body levelService.UpdateRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Level}
// @Router /api/admin/levels/{id} [put]
func (h *CatalogHandler) UpdateLevel(c *gin.Context) {
	levelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "ID de nível inválido")
		return
	}

	var req levelService.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Parâmetros inválidos")
		return
	}

	level, err := h.levelService.Update(c.Request.Context(), levelID, &req)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, level)
}

// DeleteLevel 删除等级
// @Summary 删除等级
// @Tags 管理后台
// @Produce json
// @Security Bearer
// @Param id path int true "等级ID"
// @Success 200 {object} response.Response
// @Router /api/admin/levels/{id} [delete]
func (h *CatalogHandler) DeleteLevel(c *gin.Context) {
	levelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "ID de nível inválido")
		return
	}

	if err := h.levelService.Delete(c.Request.Context(), levelID); err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, nil)
}

// ListBanks 获取收款账户列表
// @Summary 获取收款账户列表
// @Tags 管理后台
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/admin/banks [get]
func (h *CatalogHandler) ListBanks(c *gin.Context) {
	var page utils.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, "Parâmetros inválidos")
		return
	}

	banks, err := h.adminService.ListBankAccounts(c.Request.Context(), &page)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.SuccessPage(c, banks, page.Total, page.Page, page.PageSize)
}

// CreateBank 创建收款账户
// @Summary 创建收款账户
// @Tags 管理后台
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body adminService.BankAccountRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.BankAccount}
// @Router /api/admin/banks [post]
func (h *CatalogHandler) CreateBank(c *gin.Context) {
	var req adminService.BankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Parâmetros inválidos")
		return
	}

	account, err := h.adminService.CreateBankAccount(c.Request.Context(), &req)
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

// UpdateBank 更新收款账户
// @Summary 更新收款账户
// @Tags 管理后台
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "账户ID"
// @Param request body adminService.BankAccountRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.BankAccount}
// @Router /api/admin/banks/{id} [put]
func (h *CatalogHandler) UpdateBank(c *gin.Context) {
	bankID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "ID de conta inválido")
		return
	}

	var req adminService.BankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Parâmetros inválidos")
		return
	}

	account, err := h.adminService.UpdateBankAccount(c.Request.Context(), bankID, &req)
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

// DeleteBank 删除收款账户
// @Summary 删除收款账户
// @Tags 管理后台
// @Produce json
// @Security Bearer
// @Param id path int true "账户ID"
// @Success 200 {object} response.Response
// @Router /api/admin/banks/{id} [delete]
func (h *CatalogHandler) DeleteBank(c *gin.Context) {
	bankID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "ID de conta inválido")
		return
	}

	if err := h.adminService.DeleteBankAccount(c.Request.Context(), bankID); err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, nil)
}

// GetConfig 获取平台配置
// @Summary 获取平台配置
// @Tags 管理后台
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=models.PlatformConfig}
// @Router /api/admin/config [get]
func (h *CatalogHandler) GetConfig(c *gin.Context) {
	cfg, err := h.adminService.GetPlatformConfig(c.Request.Context())
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

// UpdateConfig 更新平台配置
// @Summary 更新平台配置
// @Tags 管理后台
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body adminService.PlatformConfigRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.PlatformConfig}
// @Router /api/admin/config [put]
func (h *CatalogHandler) UpdateConfig(c *gin.Context) {
	var req adminService.PlatformConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Parâmetros inválidos")
		return
	}

	cfg, err := h.adminService.UpdatePlatformConfig(c.Request.Context(), &req)
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
