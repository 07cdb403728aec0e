package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"kabaddi-od/backend/internal/dto"
	"kabaddi-od/backend/internal/model"
	"kabaddi-od/backend/internal/repository"
	"kabaddi-od/backend/pkg/civilday"
	pkgerrors "kabaddi-od/backend/pkg/errors"
)

// SlotService 时间段业务接口
type SlotService interface {
	// ListActive 用户可选的时间段，按创建时间排序
	ListActive(ctx context.Context) ([]dto.PublicSlot, error)
	ListAll(ctx context.Context) ([]dto.SlotResponse, error)
	Add(ctx context.Context, req *dto.CreateSlotRequest, actor dto.Actor) (*dto.SlotResponse, error)
	Toggle(ctx context.Context, id string, actor dto.Actor) (*dto.SlotResponse, error)
	Delete(ctx context.Context, id string, actor dto.Actor) error
}

type slotService struct {
	repo   *repository.Repository
	logs   ActivityLogService
	clock  *civilday.Clock
	logger *zap.Logger
}

// NewSlotService 创建 SlotService 实例
func NewSlotService(repo *repository.Repository, logs ActivityLogService, clock *civilday.Clock, logger *zap.Logger) SlotService {
	return &slotService{repo: repo, logs: logs, clock: clock, logger: logger}
}

func (s *slotService) ListActive(ctx context.Context) ([]dto.PublicSlot, error) {
	slots, err := s.repo.Slot.List(ctx, true)
	if err != nil {
		s.logger.Error("查询启用时间段失败", zap.Error(err))
		return nil, err
	}
	list := make([]dto.PublicSlot, 0, len(slots))
	for _, sl := range slots {
		list = append(list, dto.PublicSlot{ID: sl.SlotID, Time: sl.Time})
	}
	return list, nil
}

func (s *slotService) ListAll(ctx context.Context) ([]dto.SlotResponse, error) {
	slots, err := s.repo.Slot.List(ctx, false)
	if err != nil {
		s.logger.Error("查询时间段失败", zap.Error(err))
		return nil, err
	}
	list := make([]dto.SlotResponse, 0, len(slots))
	for i := range slots {
		list = append(list, s.toResponse(&slots[i]))
	}
	return list, nil
}

func (s *slotService) Add(ctx context.Context, req *dto.CreateSlotRequest, actor dto.Actor) (*dto.SlotResponse, error) {
	label := strings.TrimSpace(req.Time)
	if label == "" {
		return nil, validationErrorf("Slot time is required")
	}

	if _, err := s.repo.Slot.GetByTime(ctx, label); err == nil {
		return nil, ErrSlotAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询时间段失败", zap.Error(err))
		return nil, err
	}

	slot := &model.Slot{Time: label, IsActive: true}
	if err := s.repo.Slot.Create(ctx, slot); err != nil {
		if errors.Is(err, pkgerrors.ErrPersistenceConflict) {
			return nil, ErrSlotAlreadyExists
		}
		s.logger.Error("创建时间段失败", zap.Error(err))
		return nil, err
	}

	s.logs.Append(ctx, &dto.AppendLogRequest{
		Action:  model.ActionSettings,
		Details: fmt.Sprintf("Added slot %q", label),
		Actor:   actor,
	})

	resp := s.toResponse(slot)
	return &resp, nil
}

func (s *slotService) Toggle(ctx context.Context, id string, actor dto.Actor) (*dto.SlotResponse, error) {
	if !validID(id) {
		return nil, ErrSlotNotFound
	}
	slot, err := s.repo.Slot.Toggle(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("切换时间段状态失败", zap.String("slot_id", id), zap.Error(err))
		return nil, err
	}

	state := "Deactivated"
	if slot.IsActive {
		state = "Activated"
	}
	s.logs.Append(ctx, &dto.AppendLogRequest{
		Action:  model.ActionSettings,
		Details: fmt.Sprintf("%s slot %q", state, slot.Time),
		Actor:   actor,
	})

	resp := s.toResponse(slot)
	return &resp, nil
}

// Delete 删除时间段。已有提交中保存的是标签文本，不受影响
func (s *slotService) Delete(ctx context.Context, id string, actor dto.Actor) error {
	slot, err := s.getSlot(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Slot.Delete(ctx, slot.SlotID); err != nil {
		s.logger.Error("删除时间段失败", zap.String("slot_id", id), zap.Error(err))
		return err
	}

	s.logs.Append(ctx, &dto.AppendLogRequest{
		Action:  model.ActionSettings,
		Details: fmt.Sprintf("Deleted slot %q", slot.Time),
		Actor:   actor,
	})
	return nil
}

func (s *slotService) getSlot(ctx context.Context, id string) (*model.Slot, error) {
	if !validID(id) {
		return nil, ErrSlotNotFound
	}
	slot, err := s.repo.Slot.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("查询时间段失败", zap.String("slot_id", id), zap.Error(err))
		return nil, err
	}
	return slot, nil
}

func (s *slotService) toResponse(slot *model.Slot) dto.SlotResponse {
	return dto.SlotResponse{
		ID:        slot.SlotID,
		Time:      slot.Time,
		IsActive:  slot.IsActive,
		CreatedAt: formatTime(s.clock, slot.CreatedAt),
	}
}

// activeLabels 当前启用的时间段标签，按创建时间排序
func activeLabels(ctx context.Context, repo repository.SlotRepository) ([]string, error) {
	slots, err := repo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	labels := make([]string, 0, len(slots))
	for _, sl := range slots {
		labels = append(labels, sl.Time)
	}
	return labels, nil
}
