package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"kabaddi-od/backend/config"
	"kabaddi-od/backend/internal/api/handler"
	"kabaddi-od/backend/internal/api/middleware"
	"kabaddi-od/backend/pkg/jwt"
	"kabaddi-od/backend/pkg/redis"
)

// 请求体上限，报名与设置请求都很小
const maxBodyBytes = 1 << 20

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时限流与 Token 黑名单降级放行
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	errLog middleware.ErrorRecorder,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	if err := handler.RegisterValidators(); err != nil {
		logger.Error("注册自定义校验规则失败", zap.Error(err))
	}

	// 避免把 nil *redis.Client 装进非 nil 接口
	var (
		checker middleware.TokenChecker
		limiter middleware.RateLimiter
	)
	if rdb != nil {
		checker = rdb
		limiter = rdb
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 / 指标 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 公开接口
		v1.GET("/slots", h.Slot.ListActive)

		submissions := v1.Group("/submissions")
		{
			submissions.POST("", middleware.RateLimit(limiter, cfg.App.SubmitRateLimit, time.Minute), h.Submission.Create)
			submissions.GET("/:id", h.Submission.Get)
			submissions.PUT("/:id", middleware.RateLimit(limiter, cfg.App.SubmitRateLimit, time.Minute), h.Submission.Edit)
		}

		v1.POST("/admin/login", middleware.RateLimit(limiter, 10, time.Minute), h.Auth.Login)

		// 管理端（需要会话）
		admin := v1.Group("/admin")
		admin.Use(middleware.AdminAuth(jwtMgr, cfg.Auth.Cookie.Name, checker, logger))
		admin.Use(middleware.ErrorLog(errLog))
		{
			admin.POST("/logout", h.Auth.Logout)
			admin.GET("/me", h.Auth.Me)
			admin.PUT("/settings", h.Auth.UpdateSettings)

			adminSubs := admin.Group("/submissions")
			{
				adminSubs.GET("", h.Admin.List)
				adminSubs.GET("/:id", h.Admin.Get)
				adminSubs.PUT("/:id", h.Admin.Edit)
				adminSubs.POST("/:id/delete", h.Admin.SoftDelete)
				adminSubs.POST("/:id/restore", h.Admin.Restore)
				adminSubs.DELETE("/:id", h.Admin.HardDelete)
			}
			admin.DELETE("/trash", h.Admin.EmptyTrash)

			admin.GET("/export", h.Export.Export)

			slots := admin.Group("/slots")
			{
				slots.GET("", h.Slot.List)
				slots.POST("", h.Slot.Add)
				slots.POST("/:id/toggle", h.Slot.Toggle)
				slots.DELETE("/:id", h.Slot.Delete)
			}

			admin.GET("/logs", h.Log.List)
		}
	}

	return r
}
