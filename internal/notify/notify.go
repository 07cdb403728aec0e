// Package notify 报名确认与修改通知。
package notify

import (
	"context"

	"go.uber.org/zap"
)

// Acknowledgement 新提交确认
type Acknowledgement struct {
	Email string   `json:"email"`
	RegNo string   `json:"reg_no"`
	Slots []string `json:"slots"`
	Link  string   `json:"link"`
}

// Update 用户修改通知
type Update struct {
	Email          string   `json:"email"`
	RegNo          string   `json:"reg_no"`
	Slots          []string `json:"slots"`
	EditsRemaining int      `json:"edits_remaining"`
	Link           string   `json:"link"`
}

// Notifier 通知发送接口
type Notifier interface {
	Acknowledge(ctx context.Context, n Acknowledgement) error
	Update(ctx context.Context, n Update) error
}

// NopNotifier 未配置邮件时使用，仅记录日志
type NopNotifier struct {
	logger *zap.Logger
}

// NewNopNotifier 创建空实现
func NewNopNotifier(logger *zap.Logger) *NopNotifier {
	return &NopNotifier{logger: logger}
}

func (n *NopNotifier) Acknowledge(_ context.Context, a Acknowledgement) error {
	n.logger.Warn("邮件未配置，跳过提交确认通知", zap.String("reg_no", a.RegNo))
	return nil
}

func (n *NopNotifier) Update(_ context.Context, u Update) error {
	n.logger.Warn("邮件未配置，跳过修改通知", zap.String("reg_no", u.RegNo))
	return nil
}
