package dto

// ── 操作日志模块 DTO ──

// 日志分类筛选
const (
	LogFilterAuth   = "auth"
	LogFilterData   = "data"
	LogFilterSystem = "system"
	LogFilterErrors = "errors"
)

// AdminLogListRequest 日志分页查询参数
type AdminLogListRequest struct {
	Filter   string `form:"filter"    binding:"omitempty,oneof=auth data system errors"`
	Level    string `form:"level"     binding:"omitempty,oneof=INFO WARNING ERROR"`
	Page     int    `form:"page"      binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// AppendLogRequest 追加日志
// Level 为空时按 Action 推导
type AppendLogRequest struct {
	Action  string
	Details string
	Actor   Actor
	Level   string
}

// ClientInfo 由 User-Agent 解析出的客户端摘要
type ClientInfo struct {
	Browser string `json:"browser"`
	OS      string `json:"os"`
	Device  string `json:"device"`
	IsBot   bool   `json:"is_bot"`
}

// AdminLogResponse 日志条目响应
type AdminLogResponse struct {
	ID            string      `json:"id"`
	LogType       string      `json:"log_type"`
	Level         string      `json:"level"`
	Action        string      `json:"action"`
	Details       string      `json:"details"`
	AdminUsername string      `json:"admin_username"`
	IPAddress     string      `json:"ip_address"`
	UserAgent     string      `json:"user_agent"`
	Client        *ClientInfo `json:"client,omitempty"`
	CreatedAt     string      `json:"created_at"`
}

// AdminLogPage 日志分页结果
type AdminLogPage struct {
	List       []AdminLogResponse
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}
