package handler

import (
	"github.com/gin-gonic/gin"

	"kabaddi-od/backend/internal/dto"
	"kabaddi-od/backend/internal/service"
	"kabaddi-od/backend/pkg/response"
)

// SlotHandler 时间段 HTTP 处理器
type SlotHandler struct {
	slotSvc service.SlotService
}

// NewSlotHandler 创建 SlotHandler
func NewSlotHandler(slotSvc service.SlotService) *SlotHandler {
	return &SlotHandler{slotSvc: slotSvc}
}

// ListActive 用户可选时间段
// GET /api/v1/slots
func (h *SlotHandler) ListActive(c *gin.Context) {
	slots, err := h.slotSvc.ListActive(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, slots)
}

// List 全部时间段（含停用）
// GET /api/v1/admin/slots
func (h *SlotHandler) List(c *gin.Context) {
	slots, err := h.slotSvc.ListAll(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, slots)
}

// Add 新增时间段
// POST /api/v1/admin/slots
func (h *SlotHandler) Add(c *gin.Context) {
	var req dto.CreateSlotRequest
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, err)
		return
	}

	slot, err := h.slotSvc.Add(c.Request.Context(), &req, actorFrom(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, slot)
}

// Toggle 启用/停用时间段
// POST /api/v1/admin/slots/:id/toggle
func (h *SlotHandler) Toggle(c *gin.Context) {
	slot, err := h.slotSvc.Toggle(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, slot)
}

// Delete 删除时间段，已有提交中的文本不受影响
// DELETE /api/v1/admin/slots/:id
func (h *SlotHandler) Delete(c *gin.Context) {
	if err := h.slotSvc.Delete(c.Request.Context(), c.Param("id"), actorFrom(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}
