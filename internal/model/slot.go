package model

// Slot 可报名时间段 — 对应 slots
type Slot struct {
	SlotID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Time     string `gorm:"column:time;type:varchar(100);not null;uniqueIndex" json:"time"` // 展示用标签，如 "9-10 AM"
	IsActive bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Slot) TableName() string { return "slots" }
