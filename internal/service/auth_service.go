package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"kabaddi-od/backend/config"
	"kabaddi-od/backend/internal/dto"
	"kabaddi-od/backend/internal/model"
	"kabaddi-od/backend/internal/repository"
	"kabaddi-od/backend/pkg/civilday"
	pkgerrors "kabaddi-od/backend/pkg/errors"
	"kabaddi-od/backend/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrUsernameTaken      = errors.New("Username already taken")
)

// TokenBlacklist 注销后的 Token 黑名单（pkg/redis.Client 实现）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService 管理员认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest, actor dto.Actor) (*dto.LoginResponse, error)
	Logout(ctx context.Context, claims *jwt.Claims, actor dto.Actor) error
	// UpdateSettings 修改当前管理员的用户名与密码，作废当前会话并返回新的会话
	UpdateSettings(ctx context.Context, claims *jwt.Claims, req *dto.UpdateSettingsRequest, actor dto.Actor) (*dto.LoginResponse, error)
	// Bootstrap 管理员表为空时按配置创建默认管理员
	Bootstrap(ctx context.Context) error
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist // 可为 nil（Redis 不可用）
	logs      ActivityLogService
	clock     *civilday.Clock
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logs ActivityLogService,
	clock *civilday.Clock,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logs:      logs,
		clock:     clock,
		logger:    logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, actor dto.Actor) (*dto.LoginResponse, error) {
	actor.Username = req.Username

	// 1. 查询管理员
	admin, err := s.repo.Admin.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.loginFailed(ctx, actor, "unknown username")
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询管理员失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		s.loginFailed(ctx, actor, "wrong password")
		return nil, ErrInvalidCredentials
	}

	// 3. 签发会话
	resp, err := s.issue(admin.Username)
	if err != nil {
		return nil, err
	}

	s.logs.Append(ctx, &dto.AppendLogRequest{
		Action:  model.ActionLogin,
		Details: "Admin logged in",
		Actor:   actor,
	})
	return resp, nil
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims, actor dto.Actor) error {
	s.revoke(ctx, claims)

	s.logs.Append(ctx, &dto.AppendLogRequest{
		Action:  model.ActionLogout,
		Details: "Admin logged out",
		Actor:   actor,
	})
	return nil
}

func (s *authService) UpdateSettings(ctx context.Context, claims *jwt.Claims, req *dto.UpdateSettingsRequest, actor dto.Actor) (*dto.LoginResponse, error) {
	if claims == nil {
		return nil, ErrInvalidCredentials
	}
	admin, err := s.repo.Admin.GetByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询管理员失败", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	oldName := admin.Username
	admin.Username = req.Username
	admin.PasswordHash = string(hash)
	if err := s.repo.Admin.Update(ctx, admin); err != nil {
		if errors.Is(err, pkgerrors.ErrPersistenceConflict) {
			return nil, ErrUsernameTaken
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("更新管理员失败", zap.Error(err))
		return nil, err
	}

	details := "Changed admin password"
	if oldName != admin.Username {
		details = fmt.Sprintf("Changed admin credentials (username %s -> %s)", oldName, admin.Username)
	}
	s.logs.Append(ctx, &dto.AppendLogRequest{
		Action:  model.ActionSettings,
		Details: details,
		Actor:   actor,
	})

	// 旧会话携带旧用户名，换发后立即作废
	s.revoke(ctx, claims)
	return s.issue(admin.Username)
}

// revoke 将 Token 的 jti 加入黑名单直至其原定过期时间
// 写入失败只记录日志，Token 仍会按 TTL 过期
func (s *authService) revoke(ctx context.Context, claims *jwt.Claims) {
	if s.blacklist == nil || claims == nil || claims.ExpiresAt == nil {
		return
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return
	}
	if err := s.blacklist.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Warn("Token 加入黑名单失败", zap.String("jti", claims.ID), zap.Error(err))
	}
}

func (s *authService) Bootstrap(ctx context.Context) error {
	n, err := s.repo.Admin.Count(ctx)
	if err != nil {
		return fmt.Errorf("统计管理员失败: %w", err)
	}
	if n > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("默认管理员密码哈希失败: %w", err)
	}
	admin := &model.Admin{Username: s.cfg.Admin.Username, PasswordHash: string(hash)}
	if err := s.repo.Admin.Create(ctx, admin); err != nil {
		// 多实例同时启动时另一实例可能已创建
		if errors.Is(err, pkgerrors.ErrPersistenceConflict) {
			return nil
		}
		return fmt.Errorf("创建默认管理员失败: %w", err)
	}

	s.logger.Warn("已创建默认管理员，请尽快修改密码", zap.String("username", admin.Username))
	return nil
}

func (s *authService) issue(username string) (*dto.LoginResponse, error) {
	token, expiresAt, err := s.jwtMgr.GenerateSessionToken(username)
	if err != nil {
		s.logger.Error("生成会话 Token 失败", zap.Error(err))
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: formatTime(s.clock, expiresAt),
		Username:  username,
	}, nil
}

func (s *authService) loginFailed(ctx context.Context, actor dto.Actor, reason string) {
	s.logs.Append(ctx, &dto.AppendLogRequest{
		Action:  model.ActionLoginFailed,
		Details: "Failed login attempt: " + reason,
		Actor:   actor,
	})
}
