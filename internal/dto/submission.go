package dto

// ── 报名提交模块 DTO ──

// 列表视图
const (
	ViewActive = "active"
	ViewTrash  = "trash"
)

// CreateSubmissionRequest 用户提交请求
// 校验由 Service 负责，以便返回具体的错误提示
type CreateSubmissionRequest struct {
	RegNo string   `json:"reg_no"         form:"reg_no"`
	Email string   `json:"email"          form:"email"`
	Slots []string `json:"selected_slots" form:"selected_slots"`
}

// CreateSubmissionResponse 提交成功响应
type CreateSubmissionResponse struct {
	ID string `json:"id"`
}

// UserEditRequest 用户自助修改请求
type UserEditRequest struct {
	Email string   `json:"email"          form:"email"`
	Slots []string `json:"selected_slots" form:"selected_slots"`
}

// UserEditResponse 用户自助修改结果
// Changed 为 false 表示提交内容与现有记录一致，未消耗修改次数
type UserEditResponse struct {
	Changed        bool               `json:"changed"`
	EditsRemaining int                `json:"edits_remaining"`
	Submission     SubmissionResponse `json:"submission"`
}

// AdminEditRequest 管理员修改请求
type AdminEditRequest struct {
	RegNo string   `json:"reg_no"         form:"reg_no" binding:"omitempty,regno"`
	Email string   `json:"email"          form:"email"`
	Slots []string `json:"selected_slots" form:"selected_slots"`
}

// SubmissionListRequest 管理端列表查询参数
type SubmissionListRequest struct {
	View   string `form:"view"   binding:"omitempty,oneof=active trash"`
	Date   string `form:"date"`
	Search string `form:"search" binding:"max=255"`
}

// SubmissionResponse 提交信息响应
type SubmissionResponse struct {
	ID             string   `json:"id"`
	RegNo          string   `json:"reg_no"`
	Email          string   `json:"email"`
	Slots          []string `json:"slots"`
	EditCount      int      `json:"edit_count"`
	EditsRemaining int      `json:"edits_remaining"`
	DateStr        string   `json:"date_str"`
	CreatedAt      string   `json:"created_at"`
	DeletedAt      *string  `json:"deleted_at,omitempty"`
}

// SubmissionListResponse 管理端列表响应
type SubmissionListResponse struct {
	List   []SubmissionResponse `json:"list"`
	View   string               `json:"view"`
	Date   string               `json:"date,omitempty"`
	Search string               `json:"search,omitempty"`
	Total  int                  `json:"total"`
}

// EmptyTrashResponse 清空回收站结果
type EmptyTrashResponse struct {
	Deleted int64 `json:"deleted"`
}
