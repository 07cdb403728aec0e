package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"kabaddi-od/backend/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	reportSvc service.ReportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(reportSvc service.ReportService) *ExportHandler {
	return &ExportHandler{reportSvc: reportSvc}
}

// Export 导出某天的提交表格
// GET /api/v1/admin/export?date=YYYY-MM-DD
func (h *ExportHandler) Export(c *gin.Context) {
	buf, filename, err := h.reportSvc.Export(c.Request.Context(), c.Query("date"), actorFrom(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
