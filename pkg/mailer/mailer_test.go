package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"kabaddi-od/backend/config"
)

func newTestSender(fn func(string, smtp.Auth, string, []string, []byte) error) *SMTPSender {
	s := NewSMTPSender(&config.MailConfig{
		SMTPHost: "smtp.example.com",
		SMTPPort: 587,
		From:     "no-reply@example.com",
	})
	s.sendMail = fn
	return s
}

func TestSend_BuildsHTMLMessage(t *testing.T) {
	var gotAddr string
	var gotTo []string
	var gotBody string
	s := newTestSender(func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		gotAddr, gotTo, gotBody = addr, to, string(msg)
		return nil
	})

	err := s.Send(context.Background(), Message{
		To:      "john.23bai10056@vitbhopal.ac.in",
		Subject: "Registration received",
		HTML:    "<p>ok</p>",
	})
	if err != nil {
		t.Fatalf("期望发送成功，实际: %v", err)
	}
	if gotAddr != "smtp.example.com:587" {
		t.Errorf("期望地址 smtp.example.com:587，实际 %s", gotAddr)
	}
	if len(gotTo) != 1 || gotTo[0] != "john.23bai10056@vitbhopal.ac.in" {
		t.Errorf("收件人错误: %v", gotTo)
	}
	if !strings.Contains(gotBody, "Content-Type: text/html") {
		t.Error("邮件应为 HTML 格式")
	}
	if !strings.HasSuffix(gotBody, "<p>ok</p>") {
		t.Error("邮件正文缺失")
	}
}

func TestSend_EmptyRecipient(t *testing.T) {
	s := newTestSender(func(string, smtp.Auth, string, []string, []byte) error { return nil })
	if err := s.Send(context.Background(), Message{}); err == nil {
		t.Error("空收件人应返回错误")
	}
}

func TestSend_PropagatesError(t *testing.T) {
	boom := errors.New("connection refused")
	s := newTestSender(func(string, smtp.Auth, string, []string, []byte) error { return boom })

	err := s.Send(context.Background(), Message{To: "a@b.c"})
	if !errors.Is(err, boom) {
		t.Errorf("期望包装原始错误，实际: %v", err)
	}
}

func TestSend_ContextTimeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	s := newTestSender(func(string, smtp.Auth, string, []string, []byte) error {
		<-block
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := s.Send(ctx, Message{To: "a@b.c"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("期望超时错误，实际: %v", err)
	}
}
