package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kabaddi-od/backend/config"
	"kabaddi-od/backend/internal/dto"
	"kabaddi-od/backend/internal/service"
	"kabaddi-od/backend/pkg/response"
)

// AuthHandler 管理员认证 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
	auth    *config.AuthConfig
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService, auth *config.AuthConfig) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, auth: auth}
}

// Login 管理员登录，Token 写入 HttpOnly Cookie 并在响应体中返回
// POST /api/v1/admin/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req, actorFrom(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token)
	response.OK(c, result)
}

// Logout 注销当前会话
// POST /api/v1/admin/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims, actorFrom(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	h.clearSessionCookie(c)
	response.OK(c, nil)
}

// Me 当前登录的管理员
// GET /api/v1/admin/me
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}
	response.OK(c, dto.AdminProfileResponse{Username: claims.Username})
}

// UpdateSettings 修改管理员用户名与密码，成功后作废当前会话并换发新会话
// PUT /api/v1/admin/settings
func (h *AuthHandler) UpdateSettings(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	var req dto.UpdateSettingsRequest
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.authSvc.UpdateSettings(c.Request.Context(), claims, &req, actorFrom(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token)
	response.OK(c, result)
}

// ── Cookie ──

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(sameSiteMode(h.auth.Cookie.SameSite))
	c.SetCookie(h.auth.Cookie.Name, token, int(h.auth.SessionTTL.Seconds()), "/", h.auth.Cookie.Domain, h.auth.Cookie.Secure, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(sameSiteMode(h.auth.Cookie.SameSite))
	c.SetCookie(h.auth.Cookie.Name, "", -1, "/", h.auth.Cookie.Domain, h.auth.Cookie.Secure, true)
}

func sameSiteMode(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}
