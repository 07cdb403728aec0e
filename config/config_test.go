package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8000},
		Auth: AuthConfig{
			JWTSecret:  "test-secret-key-for-unit-testing",
			SessionTTL: 30 * time.Minute,
		},
		App: AppConfig{
			Name:             "Kabaddi",
			EmailDomain:      "vitbhopal.ac.in",
			UTCOffsetMinutes: 330,
		},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("期望校验通过，实际: %v", err)
	}
}

func TestValidate_ShortSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = "short"
	if err := cfg.Validate(); err == nil {
		t.Error("过短的 jwt_secret 应校验失败")
	}
}

func TestValidate_BadOffset(t *testing.T) {
	cfg := validConfig()
	cfg.App.UTCOffsetMinutes = 15 * 60
	if err := cfg.Validate(); err == nil {
		t.Error("超出范围的 utc_offset_minutes 应校验失败")
	}
}

func TestValidate_QueueRequiresMail(t *testing.T) {
	cfg := validConfig()
	cfg.Queue.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Error("启用 queue 但未配置 mail 应校验失败")
	}

	cfg.Mail = MailConfig{SMTPHost: "smtp.example.com", From: "no-reply@example.com"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("配置 mail 后应校验通过，实际: %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("ODSLOT_AUTH_JWT_SECRET", "env-secret-key-0123456789")
	t.Setenv("ODSLOT_SERVER_PORT", "9090")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("期望 Port=9090，实际=%d", cfg.Server.Port)
	}
	if cfg.App.UTCOffsetMinutes != 330 {
		t.Errorf("期望默认 utc_offset_minutes=330，实际=%d", cfg.App.UTCOffsetMinutes)
	}
	if cfg.Auth.SessionTTL != 30*time.Minute {
		t.Errorf("期望默认 session_ttl=30m，实际=%v", cfg.Auth.SessionTTL)
	}
	if cfg.Auth.Cookie.Name != "admin_session" {
		t.Errorf("期望默认 cookie 名 admin_session，实际=%s", cfg.Auth.Cookie.Name)
	}
}
