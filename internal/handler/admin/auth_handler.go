// Package admin 提供管理后台的 HTTP Handler
package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/JoelCaquene/temeisheng-platform/internal/common/errors"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/response"
	"github.com/JoelCaquene/temeisheng-platform/internal/middleware"
	"github.com/JoelCaquene/temeisheng-platform/internal/models"
	adminService "github.com/JoelCaquene/temeisheng-platform/internal/service/admin"
)

// AuthHandler 管理员认证处理器
type AuthHandler struct {
	adminService *adminService.Service
}

// NewAuthHandler 创建管理员认证处理器
func NewAuthHandler(adminSvc *adminService.Service) *AuthHandler {
	return &AuthHandler{
		adminService: adminSvc,
	}
}

// RegisterPublicRoutes 注册公开路由
func (h *AuthHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
}

// RegisterRoutes 注册需要认证的路由
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/admins", h.CreateAdmin)
}

// LoginRequest 管理员登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 管理员登录
// @Summary 管理员登录
// @Tags 管理后台
// @Accept json
// @Produce json
// @Param request body LoginRequest true "请求参数"
// @Success 200 {object} response.Response{data=adminService.LoginResult}
// @Router /api/admin/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Parâmetros inválidos")
		return
	}

	result, err := h.adminService.Login(c.Request.Context(), req.Username, req.Password, c.ClientIP())
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, result)
}

// CreateAdmin 创建管理员账号
// @Summary 创建管理员账号
// @Tags 管理后台
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body adminService.CreateAdminRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Admin}
// @Router /api/admin/admins [post]
func (h *AuthHandler) CreateAdmin(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil || claims.Role != models.AdminRoleSuper {
		response.Forbidden(c, "Apenas o super administrador pode criar contas")
		return
	}

	var req adminService.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Parâmetros inválidos")
		return
	}

	admin, err := h.adminService.CreateAdmin(c.Request.Context(), &req)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, admin)
}
