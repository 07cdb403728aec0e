package dto

// ── 管理员认证模块 DTO ──

// LoginRequest 管理员登录请求
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required,max=50"`
	Password string `json:"password" form:"password" binding:"required,max=128"`
}

// LoginResponse 登录成功响应（Token 同时写入 HttpOnly Cookie）
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	Username  string `json:"username"`
}

// UpdateSettingsRequest 修改管理员账号请求
type UpdateSettingsRequest struct {
	Username string `json:"username" form:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" form:"password" binding:"required,min=6,max=128"`
}

// AdminProfileResponse 当前管理员信息
type AdminProfileResponse struct {
	Username string `json:"username"`
}
