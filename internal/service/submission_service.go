package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kabaddi-od/backend/config"
	"kabaddi-od/backend/internal/dto"
	"kabaddi-od/backend/internal/model"
	"kabaddi-od/backend/internal/notify"
	"kabaddi-od/backend/internal/repository"
	"kabaddi-od/backend/pkg/civilday"
	pkgerrors "kabaddi-od/backend/pkg/errors"
	"kabaddi-od/backend/pkg/metrics"
)

// SubmissionService 报名提交业务接口
//
// 用户侧：Create / Get / UserEdit
// 管理侧：AdminGet / AdminEdit / SoftDelete / Restore / HardDelete / EmptyTrash / List
type SubmissionService interface {
	Create(ctx context.Context, req *dto.CreateSubmissionRequest) (*dto.CreateSubmissionResponse, error)
	// Get 用户编辑页数据，回收站中的记录视为不存在
	Get(ctx context.Context, id string) (*dto.SubmissionResponse, error)
	UserEdit(ctx context.Context, id string, req *dto.UserEditRequest) (*dto.UserEditResponse, error)

	// AdminGet 包含回收站中的记录
	AdminGet(ctx context.Context, id string) (*dto.SubmissionResponse, error)
	AdminEdit(ctx context.Context, id string, req *dto.AdminEditRequest, actor dto.Actor) (*dto.SubmissionResponse, error)
	SoftDelete(ctx context.Context, id string, actor dto.Actor) error
	Restore(ctx context.Context, id string, actor dto.Actor) error
	HardDelete(ctx context.Context, id string, actor dto.Actor) error
	EmptyTrash(ctx context.Context, actor dto.Actor) (*dto.EmptyTrashResponse, error)
	List(ctx context.Context, req *dto.SubmissionListRequest) (*dto.SubmissionListResponse, error)
}

type submissionService struct {
	cfg      *config.Config
	repo     *repository.Repository
	logs     ActivityLogService
	notifier notify.Notifier
	clock    *civilday.Clock
	logger   *zap.Logger
}

// NewSubmissionService 创建 SubmissionService 实例
func NewSubmissionService(
	cfg *config.Config,
	repo *repository.Repository,
	logs ActivityLogService,
	notifier notify.Notifier,
	clock *civilday.Clock,
	logger *zap.Logger,
) SubmissionService {
	return &submissionService{
		cfg:      cfg,
		repo:     repo,
		logs:     logs,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

// ═══════════════════════════════════════════════════════════
// 用户侧
// ═══════════════════════════════════════════════════════════

func (s *submissionService) Create(ctx context.Context, req *dto.CreateSubmissionRequest) (*dto.CreateSubmissionResponse, error) {
	// 1. 学号
	regNo, err := checkRegNo(req.RegNo)
	if err != nil {
		s.reject(err)
		return nil, err
	}

	// 2. 时间段
	slots := normalizeSlots(req.Slots)
	if err := s.checkSlots(ctx, slots); err != nil {
		s.reject(err)
		return nil, err
	}

	// 3. 邮箱
	email := NormalizeEmail(req.Email)
	if err := checkInstitutionEmail(email, regNo, s.cfg.App.EmailDomain); err != nil {
		s.reject(err)
		return nil, err
	}

	// 4. 同一天重复提交预检查（唯一索引兜底）
	now := s.clock.Now()
	day := s.clock.Key(now)
	if _, err := s.repo.Submission.FindActiveByRegNoAndDate(ctx, regNo, day); err == nil {
		s.reject(ErrDuplicateSubmission)
		return nil, ErrDuplicateSubmission
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询重复提交失败", zap.String("reg_no", regNo), zap.Error(err))
		return nil, err
	}

	// 5. 写入
	sub := &model.Submission{
		RegNo:   regNo,
		Email:   email,
		Slots:   pq.StringArray(slots),
		DateStr: day,
		BaseModel: model.BaseModel{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := s.repo.Submission.Create(ctx, sub); err != nil {
		if errors.Is(err, pkgerrors.ErrPersistenceConflict) {
			s.reject(ErrDuplicateSubmission)
			return nil, ErrDuplicateSubmission
		}
		s.logger.Error("创建提交失败", zap.String("reg_no", regNo), zap.Error(err))
		return nil, err
	}

	metrics.SubmissionsCreated.Inc()
	s.logger.Info("新提交", zap.String("id", sub.SubmissionID), zap.String("reg_no", regNo), zap.String("date", day))

	// 6. 异步发送确认邮件
	ack := notify.Acknowledgement{
		Email: sub.Email,
		RegNo: sub.RegNo,
		Slots: []string(sub.Slots),
		Link:  s.editLink(sub.SubmissionID),
	}
	s.dispatch(notify.KindAcknowledgement, sub.SubmissionID, func(ctx context.Context) error {
		return s.notifier.Acknowledge(ctx, ack)
	})

	return &dto.CreateSubmissionResponse{ID: sub.SubmissionID}, nil
}

func (s *submissionService) Get(ctx context.Context, id string) (*dto.SubmissionResponse, error) {
	sub, err := s.getActive(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(sub)
	return &resp, nil
}

func (s *submissionService) UserEdit(ctx context.Context, id string, req *dto.UserEditRequest) (*dto.UserEditResponse, error) {
	// 1. 记录存在
	sub, err := s.getActive(ctx, id)
	if err != nil {
		return nil, err
	}

	// 2. 邮箱按已保存的学号校验
	email := NormalizeEmail(req.Email)
	if err := checkInstitutionEmail(email, sub.RegNo, s.cfg.App.EmailDomain); err != nil {
		return nil, err
	}

	// 3. 时间段
	slots := normalizeSlots(req.Slots)
	if err := s.checkSlots(ctx, slots); err != nil {
		return nil, err
	}

	// 4. 修改次数
	if sub.EditCount >= model.MaxUserEdits {
		return nil, ErrEditLimitReached
	}

	// 5. 无变化不消耗次数
	if email == sub.Email && sameSlotSet(slots, sub.Slots) {
		return &dto.UserEditResponse{
			Changed:        false,
			EditsRemaining: sub.EditsRemaining(),
			Submission:     s.toResponse(sub),
		}, nil
	}

	// 6. 更新
	expected := sub.EditCount
	sub.Email = email
	sub.Slots = pq.StringArray(slots)
	sub.EditCount++
	if err := s.repo.Submission.Update(ctx, sub, expected); err != nil {
		return nil, s.updateFailed(ctx, id, err)
	}

	metrics.SubmissionEdits.WithLabelValues("user").Inc()

	upd := notify.Update{
		Email:          sub.Email,
		RegNo:          sub.RegNo,
		Slots:          []string(sub.Slots),
		EditsRemaining: sub.EditsRemaining(),
		Link:           s.editLink(sub.SubmissionID),
	}
	s.dispatch(notify.KindUpdate, sub.SubmissionID, func(ctx context.Context) error {
		return s.notifier.Update(ctx, upd)
	})

	return &dto.UserEditResponse{
		Changed:        true,
		EditsRemaining: sub.EditsRemaining(),
		Submission:     s.toResponse(sub),
	}, nil
}

// ═══════════════════════════════════════════════════════════
// 管理侧
// ═══════════════════════════════════════════════════════════

func (s *submissionService) AdminGet(ctx context.Context, id string) (*dto.SubmissionResponse, error) {
	if !validID(id) {
		return nil, ErrSubmissionNotFound
	}
	sub, err := s.repo.Submission.GetByIDUnscoped(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("查询提交失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := s.toResponse(sub)
	return &resp, nil
}

// AdminEdit 管理员覆盖修改：只校验学号格式与邮箱语法，不计入修改次数
func (s *submissionService) AdminEdit(ctx context.Context, id string, req *dto.AdminEditRequest, actor dto.Actor) (*dto.SubmissionResponse, error) {
	regNo, err := checkRegNo(req.RegNo)
	if err != nil {
		return nil, err
	}
	slots := normalizeSlots(req.Slots)
	if len(slots) == 0 {
		return nil, validationErrorf("Select at least one slot")
	}
	email := NormalizeEmail(req.Email)
	if err := checkEmailSyntax(email); err != nil {
		return nil, err
	}

	sub, err := s.getActive(ctx, id)
	if err != nil {
		return nil, err
	}

	before := fmt.Sprintf("%s / %s / [%s]", sub.RegNo, sub.Email, strings.Join(sub.Slots, ", "))
	sub.RegNo = regNo
	sub.Email = email
	sub.Slots = pq.StringArray(slots)
	if err := s.repo.Submission.Update(ctx, sub, sub.EditCount); err != nil {
		return nil, s.updateFailed(ctx, id, err)
	}

	metrics.SubmissionEdits.WithLabelValues("admin").Inc()
	s.logs.Append(ctx, &dto.AppendLogRequest{
		Action: model.ActionEdit,
		Details: fmt.Sprintf("Edited submission %s: %s -> %s / %s / [%s]",
			id, before, regNo, email, strings.Join(slots, ", ")),
		Actor: actor,
	})

	resp := s.toResponse(sub)
	return &resp, nil
}

func (s *submissionService) SoftDelete(ctx context.Context, id string, actor dto.Actor) error {
	sub, err := s.lookupAny(ctx, id)
	if err != nil || sub == nil {
		return err
	}

	n, err := s.repo.Submission.SoftDelete(ctx, id)
	if err != nil {
		s.logger.Error("移入回收站失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if n == 0 {
		return nil
	}

	s.logs.Append(ctx, &dto.AppendLogRequest{
		Action:  model.ActionDelete,
		Details: fmt.Sprintf("Moved submission %s (%s, %s) to trash", id, sub.RegNo, sub.DateStr),
		Actor:   actor,
	})
	return nil
}

func (s *submissionService) Restore(ctx context.Context, id string, actor dto.Actor) error {
	sub, err := s.lookupAny(ctx, id)
	if err != nil || sub == nil {
		return err
	}

	n, err := s.repo.Submission.Restore(ctx, id)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrPersistenceConflict) {
			return ErrDuplicateSubmission
		}
		s.logger.Error("恢复提交失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if n == 0 {
		return nil
	}

	s.logs.Append(ctx, &dto.AppendLogRequest{
		Action:  model.ActionRestore,
		Details: fmt.Sprintf("Restored submission %s (%s, %s)", id, sub.RegNo, sub.DateStr),
		Actor:   actor,
	})
	return nil
}

func (s *submissionService) HardDelete(ctx context.Context, id string, actor dto.Actor) error {
	sub, err := s.lookupAny(ctx, id)
	if err != nil || sub == nil {
		return err
	}

	n, err := s.repo.Submission.HardDelete(ctx, id)
	if err != nil {
		s.logger.Error("永久删除提交失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if n == 0 {
		return nil
	}

	s.logs.Append(ctx, &dto.AppendLogRequest{
		Action:  model.ActionHardDelete,
		Details: fmt.Sprintf("Permanently deleted submission %s (%s, %s)", id, sub.RegNo, sub.DateStr),
		Actor:   actor,
	})
	return nil
}

func (s *submissionService) EmptyTrash(ctx context.Context, actor dto.Actor) (*dto.EmptyTrashResponse, error) {
	n, err := s.repo.Submission.DeleteTrashed(ctx)
	if err != nil {
		s.logger.Error("清空回收站失败", zap.Error(err))
		return nil, err
	}

	s.logs.Append(ctx, &dto.AppendLogRequest{
		Action:  model.ActionEmptyTrash,
		Details: fmt.Sprintf("Emptied trash: %d submission(s) permanently deleted", n),
		Actor:   actor,
	})
	return &dto.EmptyTrashResponse{Deleted: n}, nil
}

func (s *submissionService) List(ctx context.Context, req *dto.SubmissionListRequest) (*dto.SubmissionListResponse, error) {
	view := req.View
	if view == "" {
		view = dto.ViewActive
	}
	if view != dto.ViewActive && view != dto.ViewTrash {
		return nil, validationErrorf("Unknown view %q", view)
	}

	filter := repository.SubmissionFilter{Trash: view == dto.ViewTrash}
	out := &dto.SubmissionListResponse{View: view}

	if search := strings.TrimSpace(req.Search); search != "" {
		filter.EmailPrefix = search
		out.Search = search
	} else {
		day, err := s.clock.Parse(strings.TrimSpace(req.Date))
		if err != nil {
			return nil, validationErrorf("%s", err.Error())
		}
		filter.From, filter.To = s.clock.Bounds(day)
		out.Date = s.clock.Key(day)
	}

	subs, err := s.repo.Submission.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询提交列表失败", zap.Error(err))
		return nil, err
	}

	out.List = make([]dto.SubmissionResponse, 0, len(subs))
	for i := range subs {
		out.List = append(out.List, s.toResponse(&subs[i]))
	}
	out.Total = len(out.List)
	return out, nil
}

// ═══════════════════════════════════════════════════════════
// 内部方法
// ═══════════════════════════════════════════════════════════

func (s *submissionService) checkSlots(ctx context.Context, slots []string) error {
	if len(slots) == 0 {
		return validationErrorf("Select at least one slot")
	}
	active, err := activeLabels(ctx, s.repo.Slot)
	if err != nil {
		s.logger.Error("查询启用时间段失败", zap.Error(err))
		return err
	}
	return checkActiveSlots(slots, active)
}

// getActive 查询未删除的提交
func (s *submissionService) getActive(ctx context.Context, id string) (*model.Submission, error) {
	if !validID(id) {
		return nil, ErrSubmissionNotFound
	}
	sub, err := s.repo.Submission.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("查询提交失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return sub, nil
}

// lookupAny 查询含回收站的记录；不存在时返回 (nil, nil)，调用方按无操作处理
func (s *submissionService) lookupAny(ctx context.Context, id string) (*model.Submission, error) {
	if !validID(id) {
		return nil, nil
	}
	sub, err := s.repo.Submission.GetByIDUnscoped(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("查询提交失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return sub, nil
}

// updateFailed 转换 Update 错误。乐观锁未命中时重新查询以区分“已删除”和“被并发修改”
func (s *submissionService) updateFailed(ctx context.Context, id string, err error) error {
	switch {
	case errors.Is(err, pkgerrors.ErrPersistenceConflict):
		return ErrDuplicateSubmission
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		if _, getErr := s.getActive(ctx, id); getErr != nil {
			return getErr
		}
		return ErrConcurrentUpdate
	default:
		s.logger.Error("更新提交失败", zap.String("id", id), zap.Error(err))
		return err
	}
}

func (s *submissionService) reject(err error) {
	reason := "validation"
	switch {
	case errors.Is(err, ErrDuplicateSubmission):
		reason = "duplicate"
	case errors.Is(err, ErrInvalidSlotSelection):
		reason = "invalid_slot"
	case errors.Is(err, ErrEmailMismatch):
		reason = "email_mismatch"
	}
	metrics.SubmissionsRejected.WithLabelValues(reason).Inc()
}

func (s *submissionService) editLink(id string) string {
	return strings.TrimRight(s.cfg.Server.BaseURL, "/") + "/edit/" + id
}

// dispatch 在后台发送通知，失败只记录日志，不影响请求结果
func (s *submissionService) dispatch(kind, id string, send func(context.Context) error) {
	timeout := s.cfg.App.NotifyTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := send(ctx); err != nil {
			metrics.NotificationFailures.WithLabelValues(kind).Inc()
			s.logger.Warn("发送通知失败",
				zap.String("kind", kind),
				zap.String("submission_id", id),
				zap.Error(err),
			)
		}
	}()
}

func (s *submissionService) toResponse(sub *model.Submission) dto.SubmissionResponse {
	resp := dto.SubmissionResponse{
		ID:             sub.SubmissionID,
		RegNo:          sub.RegNo,
		Email:          sub.Email,
		Slots:          append([]string{}, sub.Slots...),
		EditCount:      sub.EditCount,
		EditsRemaining: sub.EditsRemaining(),
		DateStr:        sub.DateStr,
		CreatedAt:      formatTime(s.clock, sub.CreatedAt),
	}
	if sub.DeletedAt.Valid {
		deleted := formatTime(s.clock, sub.DeletedAt.Time)
		resp.DeletedAt = &deleted
	}
	return resp
}
