package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kabaddi-od/backend/pkg/jwt"
	"kabaddi-od/backend/pkg/response"
)

// 上下文键
const (
	ContextAdminUsername = "admin_username"
	ContextClaims        = "claims"
)

// TokenChecker 查询 Token 黑名单（pkg/redis.Client 实现）
type TokenChecker interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// AdminAuth 管理员会话认证中间件
// 优先读取 HttpOnly Cookie，其次 Authorization: Bearer <token>
// checker 为 nil 时跳过黑名单检查（Redis 不可用）
func AdminAuth(jwtMgr *jwt.Manager, cookieName string, checker TokenChecker, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c, cookieName)
		if token == "" {
			response.Unauthorized(c, 10002, "Not authenticated")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(token)
		if err != nil {
			response.Unauthorized(c, 10002, "Session expired or invalid")
			c.Abort()
			return
		}

		if checker != nil {
			revoked, err := checker.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				// Redis 出错时降级放行
				logger.Warn("检查 Token 黑名单失败", zap.Error(err))
			} else if revoked {
				response.Unauthorized(c, 10002, "Session has been logged out")
				c.Abort()
				return
			}
		}

		c.Set(ContextAdminUsername, claims.Username)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

func sessionToken(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
