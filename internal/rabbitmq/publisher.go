// Package rabbitmq publishes domain events to RabbitMQ queues. The topic of
// a Publish call is used as the queue name on the default exchange.
package rabbitmq

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

var ErrPublisherClosed = errors.New("rabbitmq: publisher closed")

type dialFunc func(url string) (*amqp.Connection, error)

// Publisher owns one connection and one channel. Either may be closed by
// the broker at any time; the next Publish reopens what it needs.
type Publisher struct {
	mu       sync.Mutex
	url      string
	dial     dialFunc
	conn     *amqp.Connection
	ch       *amqp.Channel
	declared map[string]bool
	closed   bool
	logger   *slog.Logger
}

func NewPublisher(url string, logger *slog.Logger) (*Publisher, error) {
	return newPublisher(url, logger, amqp.Dial)
}

func newPublisher(url string, logger *slog.Logger, dial dialFunc) (*Publisher, error) {
	p := &Publisher{url: url, dial: dial, declared: make(map[string]bool), logger: logger}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ensureChannel(); err != nil {
		return nil, err
	}
	return p, nil
}

// ensureChannel must be called with p.mu held.
func (p *Publisher) ensureChannel() error {
	if p.closed {
		return ErrPublisherClosed
	}
	if p.ch != nil && !p.ch.IsClosed() {
		return nil
	}

	if p.conn == nil || p.conn.IsClosed() {
		conn, err := p.dial(p.url)
		if err != nil {
			return fmt.Errorf("rabbitmq: dial: %w", err)
		}
		if p.conn != nil {
			p.logger.Info("rabbitmq connection reopened")
		}
		p.conn = conn
	}

	ch, err := p.conn.Channel()
	if err != nil {
		_ = p.conn.Close()
		p.conn = nil
		return fmt.Errorf("rabbitmq: open channel: %w", err)
	}
	p.ch = ch
	// queue declarations belong to the old channel's lifetime only
	p.declared = make(map[string]bool)
	return nil
}

// Publish sends payload as a persistent JSON message. The amqp channel is
// not safe for concurrent use, so publishing is serialized.
func (p *Publisher) Publish(ctx context.Context, topic, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal payload: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureChannel(); err != nil {
		return err
	}

	if !p.declared[topic] {
		if _, err := p.ch.QueueDeclare(topic, true, false, false, false, nil); err != nil {
			return fmt.Errorf("rabbitmq: declare queue %s: %w", topic, err)
		}
		p.declared[topic] = true
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    key,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, "", topic, false, false, msg); err != nil {
		return fmt.Errorf("rabbitmq: publish to %s: %w", topic, err)
	}

	p.logger.Debug("published to rabbitmq", slog.String("queue", topic), slog.String("key", key))
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		err := p.conn.Close()
		p.conn = nil
		return err
	}
	return nil
}
