package handler

import (
	"github.com/gin-gonic/gin"

	"kabaddi-od/backend/internal/dto"
	"kabaddi-od/backend/internal/service"
	"kabaddi-od/backend/pkg/response"
)

// SubmissionHandler 用户端报名 HTTP 处理器（无需登录）
type SubmissionHandler struct {
	submissionSvc service.SubmissionService
}

// NewSubmissionHandler 创建 SubmissionHandler
func NewSubmissionHandler(submissionSvc service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionSvc: submissionSvc}
}

// Create 提交报名
// POST /api/v1/submissions
func (h *SubmissionHandler) Create(c *gin.Context) {
	var req dto.CreateSubmissionRequest
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.submissionSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, result)
}

// Get 编辑页数据
// GET /api/v1/submissions/:id
func (h *SubmissionHandler) Get(c *gin.Context) {
	result, err := h.submissionSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// Edit 用户自助修改
// PUT /api/v1/submissions/:id
func (h *SubmissionHandler) Edit(c *gin.Context) {
	var req dto.UserEditRequest
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.submissionSvc.UserEdit(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}
