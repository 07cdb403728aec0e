package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	pkgerrors "kabaddi-od/backend/pkg/errors"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Slot       SlotRepository
	Submission SubmissionRepository
	Admin      AdminRepository
	AdminLog   AdminLogRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Slot:       NewSlotRepo(db),
		Submission: NewSubmissionRepo(db),
		Admin:      NewAdminRepo(db),
		AdminLog:   NewAdminLogRepo(db),
	}
}

// wrapConflict 将唯一约束冲突包装为 ErrPersistenceConflict，其余错误原样返回
func wrapConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %w", pkgerrors.ErrPersistenceConflict, err)
	}
	return err
}
