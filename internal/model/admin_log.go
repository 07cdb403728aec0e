package model

import "time"

// 日志类型
const (
	LogTypeAdmin = "admin"
	LogTypeError = "error"
)

// 日志级别
const (
	LogLevelInfo    = "INFO"
	LogLevelWarning = "WARNING"
	LogLevelError   = "ERROR"
)

// 管理操作
const (
	ActionLogin       = "login"
	ActionLoginFailed = "login_failed"
	ActionLogout      = "logout"
	ActionEdit        = "edit"
	ActionDelete      = "delete"
	ActionRestore     = "restore"
	ActionHardDelete  = "hard_delete"
	ActionDownload    = "download"
	ActionSettings    = "settings"
	ActionEmptyTrash  = "empty_trash"
	ActionError       = "error"
)

// AdminLog 管理操作日志表 — 对应 admin_logs（只追加，不更新不删除）
type AdminLog struct {
	LogID         string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	LogType       string    `gorm:"type:varchar(10);not null"                      json:"log_type"`
	Level         string    `gorm:"type:varchar(10);not null"                      json:"level"`
	Action        string    `gorm:"type:varchar(50);not null;index"                json:"action"`
	Details       string    `gorm:"type:text;not null;default:''"                  json:"details"`
	AdminUsername string    `gorm:"type:varchar(50);not null;default:''"           json:"admin_username"`
	IPAddress     string    `gorm:"type:varchar(64);not null;default:''"           json:"ip_address"`
	UserAgent     string    `gorm:"type:text;not null;default:''"                  json:"user_agent"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index"       json:"created_at"`
}

// TableName 指定表名
func (AdminLog) TableName() string { return "admin_logs" }
