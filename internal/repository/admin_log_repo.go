package repository

import (
	"context"

	"gorm.io/gorm"

	"kabaddi-od/backend/internal/model"
)

// AdminLogFilter 日志查询条件，零值字段不参与过滤
type AdminLogFilter struct {
	Actions []string
	LogType string
	Level   string
}

// AdminLogRepository 管理操作日志数据访问接口（只追加）
type AdminLogRepository interface {
	Create(ctx context.Context, entry *model.AdminLog) error
	List(ctx context.Context, filter AdminLogFilter, offset, limit int) ([]model.AdminLog, int64, error)
}

type adminLogRepo struct {
	db *gorm.DB
}

// NewAdminLogRepo 创建 AdminLogRepository 实例
func NewAdminLogRepo(db *gorm.DB) AdminLogRepository {
	return &adminLogRepo{db: db}
}

func (r *adminLogRepo) Create(ctx context.Context, entry *model.AdminLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *adminLogRepo) List(ctx context.Context, filter AdminLogFilter, offset, limit int) ([]model.AdminLog, int64, error) {
	var entries []model.AdminLog
	var total int64

	db := r.db.WithContext(ctx).Model(&model.AdminLog{})
	if len(filter.Actions) > 0 {
		db = db.Where("action IN ?", filter.Actions)
	}
	if filter.LogType != "" {
		db = db.Where("log_type = ?", filter.LogType)
	}
	if filter.Level != "" {
		db = db.Where("level = ?", filter.Level)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
