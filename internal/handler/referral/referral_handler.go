// Package referral 提供邀请相关的 HTTP Handler
package referral

import (
	"github.com/gin-gonic/gin"

	"github.com/JoelCaquene/temeisheng-platform/internal/common/errors"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/response"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/utils"
	"github.com/JoelCaquene/temeisheng-platform/internal/middleware"
	referralService "github.com/JoelCaquene/temeisheng-platform/internal/service/referral"
)

// Handler 邀请处理器
type Handler struct {
	referralService *referralService.Service
}

// NewHandler 创建邀请处理器
func NewHandler(referralSvc *referralService.Service) *Handler {
	return &Handler{
		referralService: referralSvc,
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	referral := rg.Group("/referral")
	{
		referral.GET("/info", h.GetInviteInfo)
		referral.GET("/team", h.GetTeam)
		referral.GET("/summary", h.GetTeamSummary)
	}
}

// GetInviteInfo 获取邀请码、邀请链接与二维码
// @Summary 获取邀请信息
// @Tags 邀请
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=referralService.InviteInfo}
// @Router /api/v1/referral/info [get]
func (h *Handler) GetInviteInfo(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		response.Unauthorized(c, "Inicie sessão primeiro")
		return
	}

	info, err := h.referralService.GetInviteInfo(c.Request.Context(), userID)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, info)
}

// GetTeam 获取团队成员列表
// @Summary 获取团队成员
// @Tags 邀请
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/referral/team [get]
func (h *Handler) GetTeam(c *gin.Context) {
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

	members, err := h.referralService.GetTeam(c.Request.Context(), userID, &page)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.SuccessPage(c, members, page.Total, page.Page, page.PageSize)
}

// GetTeamSummary 获取团队汇总
// @Summary 获取团队汇总
// @Tags 邀请
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=models.TeamSummary}
// @Router /api/v1/referral/summary [get]
func (h *Handler) GetTeamSummary(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		response.Unauthorized(c, "Inicie sessão primeiro")
		return
	}

	summary, err := h.referralService.GetTeamSummary(c.Request.Context(), userID)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, summary)
}
