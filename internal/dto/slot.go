package dto

// ── 时间段模块 DTO ──

// CreateSlotRequest 新增时间段请求
type CreateSlotRequest struct {
	Time string `json:"time" form:"time" binding:"required,max=100"` // "9-10 AM"
}

// SlotResponse 时间段信息响应（管理端）
type SlotResponse struct {
	ID        string `json:"id"`
	Time      string `json:"time"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// PublicSlot 公开接口返回的时间段
type PublicSlot struct {
	ID   string `json:"id"`
	Time string `json:"time"`
}
