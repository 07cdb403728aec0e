package service

import (
	"context"

	"go.uber.org/zap"

	"kabaddi-od/backend/internal/dto"
	"kabaddi-od/backend/internal/model"
	"kabaddi-od/backend/internal/repository"
	"kabaddi-od/backend/pkg/civilday"
	"kabaddi-od/backend/pkg/response"
	"kabaddi-od/backend/pkg/useragent"
)

// DefaultLogPageSize 日志分页默认条数
const DefaultLogPageSize = 20

// 分类筛选 → 操作集合（errors 按 log_type 过滤，不在此表）
var logFilterActions = map[string][]string{
	dto.LogFilterAuth:   {model.ActionLogin, model.ActionLoginFailed, model.ActionLogout},
	dto.LogFilterData:   {model.ActionEdit, model.ActionDelete, model.ActionDownload},
	dto.LogFilterSystem: {model.ActionSettings},
}

// ActivityLogService 管理操作日志接口
type ActivityLogService interface {
	// Append 追加一条日志。写入失败只记录 zap 日志，不影响触发方
	Append(ctx context.Context, req *dto.AppendLogRequest)
	Query(ctx context.Context, req *dto.AdminLogListRequest) (*dto.AdminLogPage, error)
}

type activityLogService struct {
	repo   *repository.Repository
	clock  *civilday.Clock
	logger *zap.Logger
}

// NewActivityLogService 创建 ActivityLogService 实例
func NewActivityLogService(repo *repository.Repository, clock *civilday.Clock, logger *zap.Logger) ActivityLogService {
	return &activityLogService{repo: repo, clock: clock, logger: logger}
}

// DeriveLevel 未显式指定级别时按操作推导
func DeriveLevel(action string) string {
	switch action {
	case model.ActionLoginFailed:
		return model.LogLevelWarning
	case model.ActionError:
		return model.LogLevelError
	default:
		return model.LogLevelInfo
	}
}

func (s *activityLogService) Append(ctx context.Context, req *dto.AppendLogRequest) {
	level := req.Level
	if level == "" {
		level = DeriveLevel(req.Action)
	}
	logType := model.LogTypeAdmin
	if req.Action == model.ActionError {
		logType = model.LogTypeError
	}

	entry := &model.AdminLog{
		LogType:       logType,
		Level:         level,
		Action:        req.Action,
		Details:       req.Details,
		AdminUsername: req.Actor.Username,
		IPAddress:     req.Actor.IP,
		UserAgent:     req.Actor.UserAgent,
		CreatedAt:     s.clock.Now(),
	}

	// 请求结束后 ctx 可能已取消，日志仍需落库
	if err := s.repo.AdminLog.Create(context.WithoutCancel(ctx), entry); err != nil {
		s.logger.Error("写入操作日志失败",
			zap.String("action", req.Action),
			zap.String("admin", req.Actor.Username),
			zap.Error(err),
		)
	}
}

func (s *activityLogService) Query(ctx context.Context, req *dto.AdminLogListRequest) (*dto.AdminLogPage, error) {
	page, pageSize := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultLogPageSize
	}

	filter := repository.AdminLogFilter{Level: req.Level}
	if req.Filter == dto.LogFilterErrors {
		filter.LogType = model.LogTypeError
	} else if actions, ok := logFilterActions[req.Filter]; ok {
		filter.Actions = actions
	}

	entries, total, err := s.repo.AdminLog.List(ctx, filter, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("查询操作日志失败", zap.Error(err))
		return nil, err
	}

	list := make([]dto.AdminLogResponse, 0, len(entries))
	for i := range entries {
		list = append(list, s.toResponse(&entries[i]))
	}

	return &dto.AdminLogPage{
		List:       list,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: response.TotalPages(total, pageSize),
	}, nil
}

func (s *activityLogService) toResponse(e *model.AdminLog) dto.AdminLogResponse {
	resp := dto.AdminLogResponse{
		ID:            e.LogID,
		LogType:       e.LogType,
		Level:         e.Level,
		Action:        e.Action,
		Details:       e.Details,
		AdminUsername: e.AdminUsername,
		IPAddress:     e.IPAddress,
		UserAgent:     e.UserAgent,
		CreatedAt:     formatTime(s.clock, e.CreatedAt),
	}
	if info, ok := useragent.Parse(e.UserAgent); ok {
		resp.Client = &dto.ClientInfo{
			Browser: info.Browser,
			OS:      info.OS,
			Device:  info.Device,
			IsBot:   info.IsBot,
		}
	}
	return resp
}
