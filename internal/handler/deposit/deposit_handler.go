// Package deposit 提供充值相关的 HTTP Handler
package deposit

import (
	"bytes"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/JoelCaquene/temeisheng-platform/internal/common/errors"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/response"
	"github.com/JoelCaquene/temeisheng-platform/internal/common/utils"
	"github.com/JoelCaquene/temeisheng-platform/internal/middleware"
	depositService "github.com/JoelCaquene/temeisheng-platform/internal/service/deposit"
	"github.com/JoelCaquene/temeisheng-platform/pkg/oss"
)

// maxProofSize 充值凭证大小上限
const maxProofSize = 5 << 20

// Handler 充值处理器
type Handler struct {
	depositService *depositService.Service
	uploader       oss.Uploader
}

// NewHandler 创建充值处理器
func NewHandler(depositSvc *depositService.Service, uploader oss.Uploader) *Handler {
	return &Handler{
		depositService: depositSvc,
		uploader:       uploader,
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	deposits := rg.Group("/deposits")
	{
		deposits.POST("", h.Submit)
		deposits.GET("", h.List)
		deposits.GET("/:id", h.GetByID)
		deposits.POST("/proof", h.UploadProof)
	}
}

// Submit 提交充值申请
// @Summary 提交充值申请
// @Tags 充值
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body depositService.SubmitRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Deposit}
// @Router /api/v1/deposits [post]
func (h *Handler) Submit(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		response.Unauthorized(c, "Inicie sessão primeiro")
		return
	}

	var req depositService.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Parâmetros inválidos")
		return
	}

	deposit, err := h.depositService.Submit(c.Request.Context(), userID, &req)
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

// List 获取我的充值记录
// @Summary 获取充值记录
// @Tags 充值
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/deposits [get]
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

	deposits, err := h.depositService.ListByUser(c.Request.Context(), userID, &page)
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

// GetByID 获取充值详情
// @Summary 获取充值详情
// @Tags 充值
// @Produce json
// @Security Bearer
// @Param id path int true "充值ID"
// @Success 200 {object} response.Response{data=models.Deposit}
// @Router /api/v1/deposits/{id} [get]
func (h *Handler) GetByID(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		response.Unauthorized(c, "Inicie sessão primeiro")
		return
	}

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

	// 只能查看自己的充值记录
	if deposit.UserID != userID {
		response.Forbidden(c, "")
		return
	}

	response.Success(c, deposit)
}

// UploadProof 上传充值凭证
// @Summary 上传充值凭证
// @Tags 充值
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param file formData file true "凭证文件"
// @Success 200 {object} response.Response
// @Router /api/v1/deposits/proof [post]
func (h *Handler) UploadProof(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		response.Unauthorized(c, "Inicie sessão primeiro")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Ficheiro em falta")
		return
	}
	if fileHeader.Size > maxProofSize {
		response.BadRequest(c, "O ficheiro excede o tamanho máximo de 5MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c, "Falha ao abrir o ficheiro")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxProofSize))
	if err != nil {
		response.InternalError(c, "Falha ao ler o ficheiro")
		return
	}

	if err := oss.ValidateImageFile(fileHeader.Filename, bytes.NewReader(data)); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	objectKey := oss.GenerateObjectKey("deposit-proofs", fileHeader.Filename)
	url, err := h.uploader.Upload(objectKey, bytes.NewReader(data))
	if err != nil {
		response.InternalError(c, "Falha ao enviar o ficheiro")
		return
	}

	response.Success(c, gin.H{"url": url})
}
