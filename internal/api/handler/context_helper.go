package handler

import (
	"github.com/gin-gonic/gin"

	"kabaddi-od/backend/internal/api/middleware"
	"kabaddi-od/backend/internal/dto"
	"kabaddi-od/backend/pkg/jwt"
	"kabaddi-od/backend/pkg/response"
)

// MustGetClaims 从 Gin 上下文中安全提取管理员会话声明。
// 如果 AdminAuth 中间件未正确注入，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(middleware.ContextClaims)
	if !exists {
		response.Unauthorized(c, 10002, "Not authenticated")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil || claims.Username == "" {
		response.Unauthorized(c, 10002, "Not authenticated")
		return nil, false
	}
	return claims, true
}

// actorFrom 组装操作日志所需的请求方信息，公开接口的 Username 为空
func actorFrom(c *gin.Context) dto.Actor {
	return dto.Actor{
		Username:  c.GetString(middleware.ContextAdminUsername),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
