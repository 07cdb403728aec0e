package model

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// MaxUserEdits 用户自助修改次数上限
const MaxUserEdits = 3

// Submission 报名提交表 — 对应 submissions
// (reg_no, date_str) 在未删除记录中唯一，由部分唯一索引保证
type Submission struct {
	SubmissionID string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RegNo        string         `gorm:"type:varchar(10);not null"                      json:"reg_no"`
	Email        string         `gorm:"type:varchar(255);not null"                     json:"email"`
	Slots        pq.StringArray `gorm:"type:text[];not null"                           json:"slots"`
	EditCount    int            `gorm:"not null;default:0"                             json:"edit_count"`
	DateStr      string         `gorm:"type:char(10);not null"                         json:"date_str"`
	DeletedAt    gorm.DeletedAt `gorm:"index"                                          json:"deleted_at,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Submission) TableName() string { return "submissions" }

// EditsRemaining 剩余自助修改次数
func (s *Submission) EditsRemaining() int {
	if s.EditCount >= MaxUserEdits {
		return 0
	}
	return MaxUserEdits - s.EditCount
}

// IsTrashed 是否处于回收站
func (s *Submission) IsTrashed() bool {
	return s.DeletedAt.Valid
}
