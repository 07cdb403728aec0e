package service

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kabaddi-od/backend/config"
	"kabaddi-od/backend/internal/notify"
	"kabaddi-od/backend/internal/repository"
	"kabaddi-od/backend/pkg/civilday"
	"kabaddi-od/backend/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth        AuthService
	Slot        SlotService
	Submission  SubmissionService
	ActivityLog ActivityLogService
	Report      ReportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	notifier notify.Notifier,
	clock *civilday.Clock,
	logger *zap.Logger,
) *Service {
	logs := NewActivityLogService(repo, clock, logger)
	return &Service{
		Auth:        NewAuthService(cfg, repo, jwtMgr, blacklist, logs, clock, logger),
		Slot:        NewSlotService(repo, logs, clock, logger),
		Submission:  NewSubmissionService(cfg, repo, logs, notifier, clock, logger),
		ActivityLog: logs,
		Report:      NewReportService(cfg, repo, logs, clock, logger),
	}
}

// formatTime 以固定偏移展示时间
func formatTime(clock *civilday.Clock, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(clock.Location()).Format(time.RFC3339)
}

// validID 非法 UUID 直接按不存在处理，避免数据库报类型错误
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
