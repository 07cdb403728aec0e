package logger

import (
	"os"
	"path/filepath"
	"testing"

	"kabaddi-od/backend/config"
)

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(&config.LogConfig{Level: "verbose", Format: "json"})
	if err == nil {
		t.Error("无效日志级别应返回错误")
	}
}

func TestNewLogger_Console(t *testing.T) {
	l, err := NewLogger(&config.LogConfig{Level: "debug", Format: "console"})
	if err != nil {
		t.Fatalf("NewLogger 失败: %v", err)
	}
	l.Debug("console logger ok")
}

func TestNewLogger_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	l, err := NewLogger(&config.LogConfig{Level: "info", Format: "json", File: path})
	if err != nil {
		t.Fatalf("NewLogger 失败: %v", err)
	}
	l.Info("hello file sink")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}
	if len(data) == 0 {
		t.Error("日志文件不应为空")
	}
}
