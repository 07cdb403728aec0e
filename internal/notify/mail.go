package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"kabaddi-od/backend/pkg/mailer"
)

var ackTemplate = template.Must(template.New("ack").Parse(
	`<h1>{{.App}} On-Duty Slot Submission Received</h1>
<p>Registration Number: <strong>{{.RegNo}}</strong></p>
<p>Selected Slots: {{.Slots}}</p>
<p>You can edit your submission here: <a href="{{.Link}}">Edit Submission</a></p>
`))

var updateTemplate = template.Must(template.New("update").Parse(
	`<h1>{{.App}} Submission Updated</h1>
<p>Your submission for <strong>{{.RegNo}}</strong> has been updated.</p>
<p><strong>New Selected Slots:</strong> {{.Slots}}</p>
<p style="margin-top: 16px; padding: 12px; background: #f0f4f8; border-radius: 8px;">
{{- if gt .EditsRemaining 0}}You have <strong>{{.EditsRemaining}}</strong> edit(s) remaining.
{{- else}}<strong>You have used all your edits.</strong> Contact admin for further changes.{{end -}}
</p>
<p style="margin-top: 16px;">Need to make changes? <a href="{{.Link}}" style="color: #2563eb; font-weight: 600;">Edit your submission</a></p>
`))

type mailData struct {
	App            string
	RegNo          string
	Slots          string
	EditsRemaining int
	Link           string
}

// MailNotifier 渲染 HTML 邮件并通过 SMTP 发送
type MailNotifier struct {
	sender  mailer.Sender
	appName string
}

// NewMailNotifier 创建邮件通知
func NewMailNotifier(sender mailer.Sender, appName string) *MailNotifier {
	return &MailNotifier{sender: sender, appName: appName}
}

func (m *MailNotifier) Acknowledge(ctx context.Context, a Acknowledgement) error {
	body, err := render(ackTemplate, mailData{
		App:   m.appName,
		RegNo: a.RegNo,
		Slots: strings.Join(a.Slots, ", "),
		Link:  a.Link,
	})
	if err != nil {
		return err
	}
	return m.sender.Send(ctx, mailer.Message{
		To:      a.Email,
		Subject: "On-Duty Slot Submission Received",
		HTML:    body,
	})
}

func (m *MailNotifier) Update(ctx context.Context, u Update) error {
	body, err := render(updateTemplate, mailData{
		App:            m.appName,
		RegNo:          u.RegNo,
		Slots:          strings.Join(u.Slots, ", "),
		EditsRemaining: u.EditsRemaining,
		Link:           u.Link,
	})
	if err != nil {
		return err
	}
	return m.sender.Send(ctx, mailer.Message{
		To:      u.Email,
		Subject: "Submission Updated Successfully",
		HTML:    body,
	})
}

func render(t *template.Template, data mailData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("渲染邮件模板 %s 失败: %w", t.Name(), err)
	}
	return buf.String(), nil
}
