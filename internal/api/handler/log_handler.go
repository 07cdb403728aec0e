package handler

import (
	"github.com/gin-gonic/gin"

	"kabaddi-od/backend/internal/dto"
	"kabaddi-od/backend/internal/service"
	"kabaddi-od/backend/pkg/response"
)

// LogHandler 操作日志 HTTP 处理器
type LogHandler struct {
	logSvc service.ActivityLogService
}

// NewLogHandler 创建 LogHandler
func NewLogHandler(logSvc service.ActivityLogService) *LogHandler {
	return &LogHandler{logSvc: logSvc}
}

// List 分页查询操作日志
// GET /api/v1/admin/logs?filter=auth|data|system|errors&level=&page=&page_size=
func (h *LogHandler) List(c *gin.Context) {
	var req dto.AdminLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	page, err := h.logSvc.Query(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OKPage(c, page.List, page.Total, page.Page, page.PageSize)
}
