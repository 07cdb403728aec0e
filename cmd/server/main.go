package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"kabaddi-od/backend/config"
	"kabaddi-od/backend/internal/api/handler"
	"kabaddi-od/backend/internal/api/router"
	"kabaddi-od/backend/internal/notify"
	"kabaddi-od/backend/internal/repository"
	"kabaddi-od/backend/internal/service"
	"kabaddi-od/backend/pkg/civilday"
	"kabaddi-od/backend/pkg/database"
	"kabaddi-od/backend/pkg/jwt"
	applogger "kabaddi-od/backend/pkg/logger"
	"kabaddi-od/backend/pkg/mailer"
	"kabaddi-od/backend/pkg/rabbit"
	"kabaddi-od/backend/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("ODSLOT_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.Int("utc_offset_minutes", cfg.App.UTCOffsetMinutes),
	)

	// 3. 连接数据库并执行迁移
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，限流与 Token 黑名单将不可用", zap.Error(err))
		rdb = nil
	}
	var blacklist service.TokenBlacklist
	if rdb != nil {
		blacklist = rdb
	}

	// 5. 通知通道
	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()
	notifier, queue := setupNotifier(rootCtx, cfg, logger)

	// 6. 依赖注入: Repository → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	clock := civilday.New(cfg.App.UTCOffsetMinutes)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, blacklist, notifier, clock, logger)

	bootCtx, cancelBoot := context.WithTimeout(rootCtx, 10*time.Second)
	if err := svc.Auth.Bootstrap(bootCtx); err != nil {
		cancelBoot()
		logger.Fatal("初始化管理员失败", zap.Error(err))
	}
	cancelBoot()

	h := handler.NewHandler(cfg, svc)

	// 7. 初始化路由
	engine := router.Setup(cfg, h, svc.ActivityLog, jwtMgr, rdb, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 停止队列消费
	stop()
	if queue != nil {
		queue.Close()
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("关闭数据库连接失败", zap.Error(err))
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}

// setupNotifier 按配置选择通知通道：
//   - queue.enabled: 发布到 RabbitMQ，同进程内的 Worker 消费后发送邮件
//   - 仅配置 SMTP: 请求后台直接发送邮件
//   - 都未配置: 只记录日志
//
// 队列连接失败时退回直接发送邮件
func setupNotifier(ctx context.Context, cfg *config.Config, logger *zap.Logger) (notify.Notifier, *rabbit.Client) {
	if !cfg.Mail.Enabled() {
		logger.Warn("未配置 SMTP，邮件通知已禁用")
		return notify.NewNopNotifier(logger), nil
	}
	mail := notify.NewMailNotifier(mailer.NewSMTPSender(&cfg.Mail), cfg.App.Name)

	if !cfg.Queue.Enabled {
		return mail, nil
	}

	client, err := rabbit.NewClient(&cfg.Queue, logger)
	if err != nil {
		logger.Warn("RabbitMQ 连接失败，改为直接发送邮件", zap.Error(err))
		return mail, nil
	}

	// Consume 在后台消费，立即返回
	if err := notify.NewWorker(mail, cfg.App.NotifyTimeout, logger).Run(ctx, client); err != nil {
		logger.Warn("启动通知队列消费失败，改为直接发送邮件", zap.Error(err))
		client.Close()
		return mail, nil
	}
	logger.Info("通知队列已启用", zap.String("queue", cfg.Queue.Queue))
	return notify.NewQueueNotifier(client), client
}
