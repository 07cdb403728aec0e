package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// 队列消息类型
const (
	KindAcknowledgement = "acknowledgement"
	KindUpdate          = "update"
)

// Message 队列中的通知消息
type Message struct {
	Kind            string           `json:"kind"`
	Acknowledgement *Acknowledgement `json:"acknowledgement,omitempty"`
	Update          *Update          `json:"update,omitempty"`
}

// Publisher 消息发布接口（pkg/rabbit.Client 实现）
type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}

// Consumer 消息消费接口（pkg/rabbit.Client 实现）
type Consumer interface {
	Consume(ctx context.Context, handler func(context.Context, []byte) error) error
}

// QueueNotifier 将通知发布到 RabbitMQ，由 Worker 异步投递
type QueueNotifier struct {
	pub Publisher
}

// NewQueueNotifier 创建队列通知
func NewQueueNotifier(pub Publisher) *QueueNotifier {
	return &QueueNotifier{pub: pub}
}

func (q *QueueNotifier) Acknowledge(ctx context.Context, a Acknowledgement) error {
	return q.publish(ctx, Message{Kind: KindAcknowledgement, Acknowledgement: &a})
}

func (q *QueueNotifier) Update(ctx context.Context, u Update) error {
	return q.publish(ctx, Message{Kind: KindUpdate, Update: &u})
}

func (q *QueueNotifier) publish(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("序列化通知消息失败: %w", err)
	}
	return q.pub.Publish(ctx, body)
}

// Worker 消费通知队列并交给实际的 Notifier 投递
type Worker struct {
	delivery Notifier
	timeout  time.Duration
	logger   *zap.Logger
}

// NewWorker 创建通知消费者。timeout 限制单条消息的投递时长，<=0 表示不限
func NewWorker(delivery Notifier, timeout time.Duration, logger *zap.Logger) *Worker {
	return &Worker{delivery: delivery, timeout: timeout, logger: logger}
}

// Run 开始消费，ctx 取消后停止
func (w *Worker) Run(ctx context.Context, c Consumer) error {
	return c.Consume(ctx, w.handleWithTimeout)
}

// handleWithTimeout 每条消息独立计时，SMTP 卡住不会拖住整个消费循环
func (w *Worker) handleWithTimeout(ctx context.Context, body []byte) error {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	return w.Handle(ctx, body)
}

// Handle 处理单条消息。格式错误的消息直接丢弃（返回 nil），投递失败返回错误以便重试
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		w.logger.Error("丢弃无法解析的通知消息", zap.Error(err))
		return nil
	}

	switch {
	case msg.Kind == KindAcknowledgement && msg.Acknowledgement != nil:
		return w.delivery.Acknowledge(ctx, *msg.Acknowledgement)
	case msg.Kind == KindUpdate && msg.Update != nil:
		return w.delivery.Update(ctx, *msg.Update)
	default:
		w.logger.Error("丢弃未知类型的通知消息", zap.String("kind", msg.Kind))
		return nil
	}
}
