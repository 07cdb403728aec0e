// Package mailer 通过 SMTP 发送 HTML 邮件。
package mailer

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strconv"
	"strings"

	"kabaddi-od/backend/config"
)

// Message 一封待发送的邮件
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender 邮件发送接口
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender 基于 net/smtp 的发送实现
type SMTPSender struct {
	addr string
	host string
	from string
	auth smtp.Auth

	// sendMail 便于测试替换
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender 创建 SMTP 发送器；未配置用户名时不做认证
func NewSMTPSender(cfg *config.MailConfig) *SMTPSender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.SMTPHost)
	}
	return &SMTPSender{
		addr:     cfg.SMTPHost + ":" + strconv.Itoa(cfg.SMTPPort),
		host:     cfg.SMTPHost,
		from:     cfg.From,
		auth:     auth,
		sendMail: smtp.SendMail,
	}
}

// Send 发送邮件。net/smtp 不支持 context，超时由调用方的 ctx 控制等待
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("mailer: 收件人为空")
	}

	raw := s.build(msg)
	done := make(chan error, 1)
	go func() {
		done <- s.sendMail(s.addr, s.auth, s.from, []string{msg.To}, raw)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("mailer: 发送到 %s 失败: %w", msg.To, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("mailer: 发送到 %s 超时: %w", msg.To, ctx.Err())
	}
}

func (s *SMTPSender) build(msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + s.from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}
