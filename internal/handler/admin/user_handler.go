package admin

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/JoelCaquene/temeisheng-platform/internal/common/errors"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/response"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/utils"
	adminService "github.com/JoelCaquene/temeisheng-platform/internal/service/admin"
)

// UserHandler 用户管理处理器
type UserHandler struct {
	adminService *adminService.Service
}

// NewUserHandler 创建用户管理处理器
func NewUserHandler(adminSvc *adminService.Service) *UserHandler {
	return &UserHandler{
		adminService: adminSvc,
	}
}

// RegisterRoutes 注册路由
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.GET("", h.List)
		users.GET("/:id", h.GetDetail)
		users.PUT("/:id/status", h.SetStatus)
	}
}

// List 获取用户列表
// @Summary 获取用户列表
// @Tags 管理后台
// @Produce json
// @Security Bearer
// @Param phone query string false "手机号模糊搜索"
// @Param status query int false "状态过滤"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	var page utils.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, "Parâmetros inválidos")
		return
	}

	filters := make(map[string]interface{})
	if phone := c.Query("phone"); phone != "" {
		filters["phone"] = phone
	}
	if statusStr := c.Query("status"); statusStr != "" {
		if status, err := strconv.ParseInt(statusStr, 10, 8); err == nil {
			filters["status"] = int8(status)
		}
	}

	users, err := h.adminService.ListUsers(c.Request.Context(), &page, filters)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.SuccessPage(c, users, page.Total, page.Page, page.PageSize)
}

// GetDetail 获取用户详情
// @Summary 获取用户详情
// @Tags 管理后台
// @Produce json
// @Security Bearer
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=models.User}
// @Router /api/admin/users/{id} [get]
func (h *UserHandler) GetDetail(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "ID de utilizador inválido")
		return
	}

	user, err := h.adminService.GetUserDetail(c.Request.Context(), userID)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, user)
}

// StatusRequest 用户状态请求
type StatusRequest struct {
	Status *int8 `json:"status" binding:"required"`
}

// SetStatus 启用或禁用用户
// @Summary 启用或禁用用户
// @Tags 管理后台
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "用户ID"
// @Param request body StatusRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/admin/users/{id}/status [put]
func (h *UserHandler) SetStatus(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "ID de utilizador inválido")
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == nil {
		response.BadRequest(c, "Parâmetros inválidos")
		return
	}

	if err := h.adminService.SetUserStatus(c.Request.Context(), userID, *req.Status); err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, nil)
}
