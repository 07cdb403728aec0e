package middleware

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"kabaddi-od/backend/internal/dto"
	"kabaddi-od/backend/internal/model"
)

// ErrorRecorder 写入操作日志（service.ActivityLogService 实现）
type ErrorRecorder interface {
	Append(ctx context.Context, req *dto.AppendLogRequest)
}

// ErrorLog 管理端 5xx 响应写入 error 类型的操作日志
// panic 记录后继续抛出，交给外层 gin.Recovery 返回 500
func ErrorLog(recorder ErrorRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				record(c, recorder, fmt.Sprintf("%s %s -> panic: %v", c.Request.Method, c.Request.URL.Path, r))
				panic(r)
			}
		}()

		c.Next()

		status := c.Writer.Status()
		if status < 500 {
			return
		}
		details := fmt.Sprintf("%s %s -> %d", c.Request.Method, c.Request.URL.Path, status)
		if msg := c.Errors.ByType(gin.ErrorTypePrivate).String(); msg != "" {
			details += ": " + msg
		}
		record(c, recorder, details)
	}
}

func record(c *gin.Context, recorder ErrorRecorder, details string) {
	recorder.Append(c.Request.Context(), &dto.AppendLogRequest{
		Action:  model.ActionError,
		Details: details,
		Actor: dto.Actor{
			Username:  c.GetString(ContextAdminUsername),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		},
	})
}
