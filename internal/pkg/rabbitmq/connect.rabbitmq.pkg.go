package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"refund-relay/internal/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var ErrNotConnected = errors.New("rabbitmq is not connected")

type Config struct {
	Username string
	Password string
	Host     string
	Port     int
	URI      string
}

// URL prefers an explicit URI over the host parts.
func (c *Config) URL() string {
	if c.URI != "" {
		return c.URI
	}
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", c.Username, c.Password, c.Host, c.Port)
}

type QueueConfig struct {
	Durable    bool
	AutoDelete bool
	Exclusive  bool
	NoWait     bool
	Args       amqp.Table
}

func DefaultQueueConfig() *QueueConfig {
	return &QueueConfig{Durable: true}
}

// ConnectionManager keeps one AMQP connection alive and redials in the
// background when the broker drops it.
type ConnectionManager struct {
	conn          *amqp.Connection
	mu            sync.Mutex
	url           string
	isConnected   bool
	retryInterval time.Duration
	ctx           context.Context
	cancel        context.CancelFunc
}

func NewConnectionManager(ctx context.Context, config *Config) (*ConnectionManager, error) {
	ctx, cancel := context.WithCancel(ctx)

	cm := &ConnectionManager{
		url:           config.URL(),
		retryInterval: 2 * time.Second,
		ctx:           ctx,
		cancel:        cancel,
	}

	if err := cm.connect(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}

	return cm, nil
}

func (cm *ConnectionManager) connect() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.isConnected {
		return nil
	}
	if err := cm.ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}

	conn, err := amqp.Dial(cm.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	cm.conn = conn
	cm.isConnected = true

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	go cm.monitor(closed)

	return nil
}

// monitor waits for the connection to drop and redials until it succeeds or
// the manager is closed. A successful connect starts a fresh monitor.
func (cm *ConnectionManager) monitor(closed <-chan *amqp.Error) {
	select {
	case <-cm.ctx.Done():
		return
	case err, ok := <-closed:
		if !ok || err == nil {
			// graceful close
			cm.markDisconnected()
			return
		}
		cm.markDisconnected()
		logger.L().Warn("rabbitmq connection lost", zap.Error(err))
	}

	ticker := time.NewTicker(cm.retryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-cm.ctx.Done():
			return
		case <-ticker.C:
		}

		if err := cm.connect(); err != nil {
			logger.L().Warn("rabbitmq reconnect failed", zap.Error(err), zap.Duration("retry_in", cm.retryInterval))
			continue
		}
		logger.Info.Println("rabbitmq reconnected")
		return
	}
}

func (cm *ConnectionManager) markDisconnected() {
	cm.mu.Lock()
	cm.isConnected = false
	cm.mu.Unlock()
}

// Channel opens a new channel on the live connection.
func (cm *ConnectionManager) Channel() (*amqp.Channel, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.ctx.Err() != nil || !cm.isConnected || cm.conn == nil {
		return nil, ErrNotConnected
	}
	return cm.conn.Channel()
}

func (cm *ConnectionManager) Close() error {
	cm.cancel()

	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.isConnected = false
	if cm.conn != nil {
		if err := cm.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			return fmt.Errorf("failed to close connection: %w", err)
		}
		cm.conn = nil
	}
	return nil
}

func (cm *ConnectionManager) IsClosed() bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.ctx.Err() != nil || !cm.isConnected
}
