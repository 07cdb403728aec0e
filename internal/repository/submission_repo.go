package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"kabaddi-od/backend/internal/model"
	pkgerrors "kabaddi-od/backend/pkg/errors"
)

// SubmissionFilter 提交列表查询条件
//
//   - Trash 为 true 时只查回收站（deleted_at 非空），否则只查未删除记录
//   - EmailPrefix 非空时按邮箱前缀（不区分大小写）匹配，忽略时间区间
//   - From/To 为 [From, To) 的 created_at 区间
type SubmissionFilter struct {
	Trash       bool
	EmailPrefix string
	From        time.Time
	To          time.Time
	OldestFirst bool
}

// SubmissionRepository 报名提交数据访问接口
type SubmissionRepository interface {
	Create(ctx context.Context, sub *model.Submission) error
	// GetByID 只返回未删除记录
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	// GetByIDUnscoped 包含回收站中的记录
	GetByIDUnscoped(ctx context.Context, id string) (*model.Submission, error)
	FindActiveByRegNoAndDate(ctx context.Context, regNo, dateStr string) (*model.Submission, error)
	// Update 以 expectedEditCount 作为乐观锁条件，未命中返回 ErrOptimisticLock
	Update(ctx context.Context, sub *model.Submission, expectedEditCount int) error
	SoftDelete(ctx context.Context, id string) (int64, error)
	Restore(ctx context.Context, id string) (int64, error)
	HardDelete(ctx context.Context, id string) (int64, error)
	DeleteTrashed(ctx context.Context) (int64, error)
	List(ctx context.Context, filter SubmissionFilter) ([]model.Submission, error)
}

type submissionRepo struct {
	db *gorm.DB
}

// NewSubmissionRepo 创建 SubmissionRepository 实例
func NewSubmissionRepo(db *gorm.DB) SubmissionRepository {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) Create(ctx context.Context, sub *model.Submission) error {
	return wrapConflict(r.db.WithContext(ctx).Create(sub).Error)
}

func (r *submissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	var sub model.Submission
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", id).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepo) GetByIDUnscoped(ctx context.Context, id string) (*model.Submission, error) {
	var sub model.Submission
	err := r.db.WithContext(ctx).
		Unscoped().
		Where("submission_id = ?", id).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepo) FindActiveByRegNoAndDate(ctx context.Context, regNo, dateStr string) (*model.Submission, error) {
	var sub model.Submission
	err := r.db.WithContext(ctx).
		Where("reg_no = ? AND date_str = ?", regNo, dateStr).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepo) Update(ctx context.Context, sub *model.Submission, expectedEditCount int) error {
	res := r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Where("submission_id = ? AND edit_count = ?", sub.SubmissionID, expectedEditCount).
		Updates(map[string]interface{}{
			"reg_no":     sub.RegNo,
			"email":      sub.Email,
			"slots":      sub.Slots,
			"edit_count": sub.EditCount,
			"updated_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return wrapConflict(res.Error)
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *submissionRepo) SoftDelete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("submission_id = ?", id).
		Delete(&model.Submission{})
	return res.RowsAffected, res.Error
}

func (r *submissionRepo) Restore(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).
		Unscoped().
		Model(&model.Submission{}).
		Where("submission_id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	return res.RowsAffected, wrapConflict(res.Error)
}

func (r *submissionRepo) HardDelete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).
		Unscoped().
		Where("submission_id = ?", id).
		Delete(&model.Submission{})
	return res.RowsAffected, res.Error
}

func (r *submissionRepo) DeleteTrashed(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Unscoped().
		Where("deleted_at IS NOT NULL").
		Delete(&model.Submission{})
	return res.RowsAffected, res.Error
}

func (r *submissionRepo) List(ctx context.Context, filter SubmissionFilter) ([]model.Submission, error) {
	var subs []model.Submission
	db := r.db.WithContext(ctx).Model(&model.Submission{})

	if filter.Trash {
		db = db.Unscoped().Where("deleted_at IS NOT NULL")
	}

	if filter.EmailPrefix != "" {
		db = db.Where("LOWER(email) LIKE ? ESCAPE '\\'", escapeLike(strings.ToLower(filter.EmailPrefix))+"%")
	} else {
		if !filter.From.IsZero() {
			db = db.Where("created_at >= ?", filter.From)
		}
		if !filter.To.IsZero() {
			db = db.Where("created_at < ?", filter.To)
		}
	}

	order := "created_at DESC"
	if filter.OldestFirst {
		order = "created_at ASC"
	}

	err := db.Order(order).Find(&subs).Error
	return subs, err
}

// escapeLike 转义 LIKE 通配符
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
