package rabbitmq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends messages to one durable queue over a cached channel.
type Publisher struct {
	cm     *ConnectionManager
	queue  string
	config *QueueConfig

	mu sync.Mutex
	ch *amqp.Channel
}

func NewPublisher(cm *ConnectionManager, queue string, config *QueueConfig) *Publisher {
	if config == nil {
		config = DefaultQueueConfig()
	}
	return &Publisher{cm: cm, queue: queue, config: config}
}

func (p *Publisher) Queue() string {
	return p.queue
}

func (p *Publisher) Publish(ctx context.Context, msg *Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg.GeneratePayload()); err != nil {
		// drop the channel so the next publish reopens it
		_ = ch.Close()
		p.ch = nil
		return fmt.Errorf("publish to %s: %w", p.queue, err)
	}
	return nil
}

// channel returns the cached channel, reopening and redeclaring the queue
// after the broker closed it. Callers hold p.mu.
func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}

	ch, err := p.cm.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		p.queue,
		p.config.Durable,
		p.config.AutoDelete,
		p.config.Exclusive,
		p.config.NoWait,
		p.config.Args,
	); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	p.ch = ch
	return ch, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		return nil
	}
	err := p.ch.Close()
	p.ch = nil
	return err
}
