package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kabaddi-od/backend/internal/model"
)

// SlotRepository 时间段数据访问接口
type SlotRepository interface {
	Create(ctx context.Context, slot *model.Slot) error
	GetByID(ctx context.Context, id string) (*model.Slot, error)
	GetByTime(ctx context.Context, label string) (*model.Slot, error)
	List(ctx context.Context, activeOnly bool) ([]model.Slot, error)
	// Toggle 单条语句翻转 is_active 并返回新行，并发切换不会互相覆盖
	Toggle(ctx context.Context, id string) (*model.Slot, error)
	Delete(ctx context.Context, id string) error
}

type slotRepo struct {
	db *gorm.DB
}

// NewSlotRepo 创建 SlotRepository 实例
func NewSlotRepo(db *gorm.DB) SlotRepository {
	return &slotRepo{db: db}
}

func (r *slotRepo) Create(ctx context.Context, slot *model.Slot) error {
	return wrapConflict(r.db.WithContext(ctx).Create(slot).Error)
}

func (r *slotRepo) GetByID(ctx context.Context, id string) (*model.Slot, error) {
	var slot model.Slot
	err := r.db.WithContext(ctx).
		Where("slot_id = ?", id).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepo) GetByTime(ctx context.Context, label string) (*model.Slot, error) {
	var slot model.Slot
	err := r.db.WithContext(ctx).
		Where(`"time" = ?`, label).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepo) List(ctx context.Context, activeOnly bool) ([]model.Slot, error) {
	var slots []model.Slot
	db := r.db.WithContext(ctx)
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("created_at ASC").Find(&slots).Error
	return slots, err
}

func (r *slotRepo) Toggle(ctx context.Context, id string) (*model.Slot, error) {
	var slot model.Slot
	res := r.db.WithContext(ctx).
		Model(&slot).
		Clauses(clause.Returning{}).
		Where("slot_id = ?", id).
		Update("is_active", gorm.Expr("NOT is_active"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &slot, nil
}

func (r *slotRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("slot_id = ?", id).
		Delete(&model.Slot{}).Error
}
