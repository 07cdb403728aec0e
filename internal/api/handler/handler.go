package handler

import (
	"kabaddi-od/backend/config"
	"kabaddi-od/backend/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Slot       *SlotHandler
	Submission *SubmissionHandler
	Admin      *AdminSubmissionHandler
	Export     *ExportHandler
	Log        *LogHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth, &cfg.Auth),
		Slot:       NewSlotHandler(svc.Slot),
		Submission: NewSubmissionHandler(svc.Submission),
		Admin:      NewAdminSubmissionHandler(svc.Submission),
		Export:     NewExportHandler(svc.Report),
		Log:        NewLogHandler(svc.ActivityLog),
	}
}
