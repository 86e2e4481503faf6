// Package mq 封装RabbitMQ的发布与消费
//
// 教学要点：
// 1. Topic Exchange按路由键分发：purchase.completed、inventory.reconciliation_required
// 2. 消息持久化(DeliveryMode=Persistent) + 队列持久化，Broker重启不丢消息
// 3. 消费端手动确认：处理成功Ack，临时失败Nack重新入队，永久失败直接丢弃
package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher 消息发布者
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewPublisher 连接RabbitMQ并声明Exchange
func NewPublisher(url, exchange, exchangeType string) (*Publisher, error) {
	conn, channel, err := dial(url, exchange, exchangeType)
	if err != nil {
		return nil, err
	}

	slog.Info("消息发布者已创建", slog.String("exchange", exchange), slog.String("type", exchangeType))
	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
	}, nil
}

// Exchange Exchange名称
func (p *Publisher) Exchange() string {
	return p.exchange
}

// Publish 以JSON格式发布消息
// messageID用于消费端去重，通常是事件ID
func (p *Publisher) Publish(ctx context.Context, routingKey, messageID string, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("消息序列化失败: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    messageID,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("发布消息失败: %w", err)
	}
	return nil
}

// Close 关闭连接
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return closeAll(p.channel, p.conn)
}

// =========================================
// 消费者
// =========================================

// Message 收到的消息
type Message struct {
	ID         string
	RoutingKey string
	Body       []byte
}

// ErrDiscard 处理函数返回包装了ErrDiscard的错误时，消息不再重新入队
// 用于无法解析的消息，避免无限重投
var ErrDiscard = errors.New("discard message")

// Consumer 消息消费者
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// NewConsumer 声明Exchange、Queue并按路由键绑定
func NewConsumer(url, exchange, exchangeType, queue string, routingKeys []string) (*Consumer, error) {
	conn, channel, err := dial(url, exchange, exchangeType)
	if err != nil {
		return nil, err
	}

	q, err := channel.QueueDeclare(
		queue,
		true,  // Durable
		false, // AutoDelete
		false, // Exclusive
		false, // NoWait
		nil,
	)
	if err != nil {
		_ = closeAll(channel, conn)
		return nil, fmt.Errorf("声明Queue失败: %w", err)
	}

	for _, routingKey := range routingKeys {
		if err := channel.QueueBind(q.Name, routingKey, exchange, false, nil); err != nil {
			_ = closeAll(channel, conn)
			return nil, fmt.Errorf("绑定Queue失败: %w", err)
		}
	}

	slog.Info("消息消费者已创建", slog.String("queue", q.Name), slog.Any("routing_keys", routingKeys))
	return &Consumer{
		conn:    conn,
		channel: channel,
		queue:   q.Name,
	}, nil
}

// Queue 队列名称
func (c *Consumer) Queue() string {
	return c.queue
}

// Consume 阻塞消费，直到ctx取消或连接关闭
func (c *Consumer) Consume(ctx context.Context, handler func(ctx context.Context, msg Message) error) error {
	// 每次只预取一条，处理完再取下一条
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("设置Qos失败: %w", err)
	}

	deliveries, err := c.channel.Consume(
		c.queue,
		"",    // Consumer标签（自动生成）
		false, // AutoAck
		false, // Exclusive
		false, // NoLocal
		false, // NoWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("开始消费失败: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case d, ok := <-deliveries:
			if !ok {
				return errors.New("消息Channel已关闭")
			}

			msg := Message{ID: d.MessageId, RoutingKey: d.RoutingKey, Body: d.Body}
			if err := handler(ctx, msg); err != nil {
				requeue := !errors.Is(err, ErrDiscard)
				slog.Warn("消息处理失败",
					slog.String("queue", c.queue),
					slog.String("message_id", msg.ID),
					slog.Bool("requeue", requeue),
					slog.Any("error", err),
				)
				_ = d.Nack(false, requeue)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Close 关闭连接
func (c *Consumer) Close() error {
	return closeAll(c.channel, c.conn)
}

// dial 建立连接、创建Channel并声明持久化Exchange
func dial(url, exchange, exchangeType string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange,
		exchangeType,
		true,  // Durable
		false, // AutoDelete
		false, // Internal
		false, // NoWait
		nil,
	)
	if err != nil {
		_ = closeAll(channel, conn)
		return nil, nil, fmt.Errorf("声明Exchange失败: %w", err)
	}
	return conn, channel, nil
}

func closeAll(channel *amqp.Channel, conn *amqp.Connection) error {
	var errs []error
	if channel != nil {
		if err := channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
