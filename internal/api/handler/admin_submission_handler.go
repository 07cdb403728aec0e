package handler

import (
	"github.com/gin-gonic/gin"

	"kabaddi-od/backend/internal/dto"
	"kabaddi-od/backend/internal/service"
	"kabaddi-od/backend/pkg/response"
)

// AdminSubmissionHandler 管理端提交管理 HTTP 处理器
type AdminSubmissionHandler struct {
	submissionSvc service.SubmissionService
}

// NewAdminSubmissionHandler 创建 AdminSubmissionHandler
func NewAdminSubmissionHandler(submissionSvc service.SubmissionService) *AdminSubmissionHandler {
	return &AdminSubmissionHandler{submissionSvc: submissionSvc}
}

// List 提交列表
// GET /api/v1/admin/submissions?view=active|trash&date=YYYY-MM-DD&search=
func (h *AdminSubmissionHandler) List(c *gin.Context) {
	var req dto.SubmissionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.submissionSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// Get 提交详情（含回收站）
// GET /api/v1/admin/submissions/:id
func (h *AdminSubmissionHandler) Get(c *gin.Context) {
	result, err := h.submissionSvc.AdminGet(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// Edit 管理员修改，不受修改次数限制
// PUT /api/v1/admin/submissions/:id
func (h *AdminSubmissionHandler) Edit(c *gin.Context) {
	var req dto.AdminEditRequest
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.submissionSvc.AdminEdit(c.Request.Context(), c.Param("id"), &req, actorFrom(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// SoftDelete 移入回收站
// POST /api/v1/admin/submissions/:id/delete
func (h *AdminSubmissionHandler) SoftDelete(c *gin.Context) {
	if err := h.submissionSvc.SoftDelete(c.Request.Context(), c.Param("id"), actorFrom(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}

// Restore 从回收站恢复
// POST /api/v1/admin/submissions/:id/restore
func (h *AdminSubmissionHandler) Restore(c *gin.Context) {
	if err := h.submissionSvc.Restore(c.Request.Context(), c.Param("id"), actorFrom(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}

// HardDelete 永久删除
// DELETE /api/v1/admin/submissions/:id
func (h *AdminSubmissionHandler) HardDelete(c *gin.Context) {
	if err := h.submissionSvc.HardDelete(c.Request.Context(), c.Param("id"), actorFrom(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}

// EmptyTrash 清空回收站
// DELETE /api/v1/admin/trash
func (h *AdminSubmissionHandler) EmptyTrash(c *gin.Context) {
	result, err := h.submissionSvc.EmptyTrash(c.Request.Context(), actorFrom(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}
