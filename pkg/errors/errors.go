package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("record was modified by another request, please reload and retry")

// ErrPersistenceConflict 存储层唯一约束冲突（Repository 层包装 gorm.ErrDuplicatedKey）
var ErrPersistenceConflict = errors.New("unique constraint violation")
