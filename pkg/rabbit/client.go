// Package rabbit RabbitMQ 客户端：声明 direct exchange 与持久化队列，提供发布与消费。
package rabbit

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"kabaddi-od/backend/config"
)

// Client RabbitMQ 连接
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
	logger   *zap.Logger
}

// NewClient 建立连接并声明拓扑
func NewClient(cfg *config.QueueConfig, logger *zap.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("连接 RabbitMQ 失败: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("打开 RabbitMQ channel 失败: %w", err)
	}

	c := &Client{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
		queue:    cfg.Queue,
		logger:   logger,
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("声明 exchange 失败: %w", err)
	}
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("声明 queue 失败: %w", err)
	}
	if err := ch.QueueBind(cfg.Queue, "", cfg.Exchange, false, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("绑定 queue 失败: %w", err)
	}

	logger.Info("RabbitMQ 已初始化",
		zap.String("exchange", cfg.Exchange),
		zap.String("queue", cfg.Queue),
	)
	return c, nil
}

// Publish 发布一条持久化 JSON 消息
func (c *Client) Publish(ctx context.Context, body []byte) error {
	err := c.channel.PublishWithContext(ctx, c.exchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("发布消息失败: %w", err)
	}
	return nil
}

// Consume 在后台消费队列；handler 返回错误时消息重新入队。ctx 取消后停止。
func (c *Client) Consume(ctx context.Context, handler func(context.Context, []byte) error) error {
	msgs, err := c.channel.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("开始消费失败: %w", err)
	}

	go func() {
		for d := range msgs {
			if err := handler(ctx, d.Body); err != nil {
				c.logger.Warn("处理消息失败，重新入队", zap.Error(err))
				_ = d.Nack(false, !d.Redelivered)
				continue
			}
			_ = d.Ack(false)
		}
		c.logger.Info("RabbitMQ 消费结束", zap.String("queue", c.queue))
	}()

	c.logger.Info("开始消费 RabbitMQ 队列", zap.String("queue", c.queue))
	return nil
}

// Close 关闭 channel 与连接
func (c *Client) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}
