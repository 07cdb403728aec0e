package repository

import (
	"context"

	"gorm.io/gorm"

	"kabaddi-od/backend/internal/model"
)

// AdminRepository 管理员数据访问接口
type AdminRepository interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, admin *model.Admin) error
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
	Update(ctx context.Context, admin *model.Admin) error
}

type adminRepo struct {
	db *gorm.DB
}

// NewAdminRepo 创建 AdminRepository 实例
func NewAdminRepo(db *gorm.DB) AdminRepository {
	return &adminRepo{db: db}
}

func (r *adminRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Admin{}).Count(&n).Error
	return n, err
}

func (r *adminRepo) Create(ctx context.Context, admin *model.Admin) error {
	return wrapConflict(r.db.WithContext(ctx).Create(admin).Error)
}

func (r *adminRepo) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepo) Update(ctx context.Context, admin *model.Admin) error {
	res := r.db.WithContext(ctx).
		Model(&model.Admin{}).
		Where("admin_id = ?", admin.AdminID).
		Updates(map[string]interface{}{
			"username":      admin.Username,
			"password_hash": admin.PasswordHash,
			"updated_at":    gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return wrapConflict(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
