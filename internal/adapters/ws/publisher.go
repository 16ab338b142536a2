// Package ws publishes decoded text to a websocket endpoint.
package ws

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bft-labs/arscan/internal/ports"
)

// Publisher defaults.
const (
	DefaultQueueSize    = 64
	DefaultWriteTimeout = 5 * time.Second
)

// Config configures a Publisher.
type Config struct {
	URL            string
	QueueSize      int
	WriteTimeout   time.Duration
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

func (c *Config) setDefaults() {
	if c.QueueSize <= 0 {
		c.QueueSize = DefaultQueueSize
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.BackoffInitial <= 0 {
		c.BackoffInitial = DefaultBackoffInitial
	}
	if c.BackoffMax <= 0 {
		c.BackoffMax = DefaultBackoffMax
	}
}

// Publisher forwards decoded text to a websocket server.
//
// Publish never blocks: messages go to a bounded queue and are dropped when
// it is full. A single writer goroutine drains the queue, dialing and
// redialing the server with exponential backoff.
type Publisher struct {
	config Config
	dialer *websocket.Dialer
	logger ports.Logger
	queue  chan Message

	sent    atomic.Uint64
	dropped atomic.Uint64

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// NewPublisher creates a publisher. Call Start to begin writing.
func NewPublisher(config Config, logger ports.Logger) *Publisher {
	config.setDefaults()
	return &Publisher{
		config: config,
		dialer: websocket.DefaultDialer,
		logger: logger.With(ports.String("component", "ws"), ports.String("url", config.URL)),
		queue:  make(chan Message, config.QueueSize),
	}
}

// Publish queues text for delivery. It returns false if the queue is full.
func (p *Publisher) Publish(text string) bool {
	msg := Message{Type: TypeDecoded, Text: text, At: time.Now().UTC()}
	select {
	case p.queue <- msg:
		return true
	default:
		n := p.dropped.Add(1)
		p.logger.Warn("publish queue full, dropping message", ports.Uint64("dropped", n))
		return false
	}
}

// Start launches the writer goroutine.
func (p *Publisher) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return fmt.Errorf("ws publisher already started")
	}
	p.started = true

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.writeLoop(ctx)
	}()
	return nil
}

// Close stops the writer and waits for it to exit. Queued messages that were
// not yet written are discarded.
func (p *Publisher) Close() error {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
	return nil
}

// Sent returns the number of messages written.
func (p *Publisher) Sent() uint64 { return p.sent.Load() }

// Dropped returns the number of messages dropped on a full queue.
func (p *Publisher) Dropped() uint64 { return p.dropped.Load() }

func (p *Publisher) writeLoop(ctx context.Context) {
	bo := newBackoff(p.config.BackoffInitial, p.config.BackoffMax)

	var conn *websocket.Conn
	defer func() {
		if conn != nil {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			conn.Close()
		}
	}()

	var pending *Message
	for {
		if conn == nil {
			c, _, err := p.dialer.DialContext(ctx, p.config.URL, nil)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				p.logger.Warn("dial failed", ports.Err(err))
				if bo.wait(ctx) != nil {
					return
				}
				continue
			}
			conn = c
			bo.reset()
			go drain(c)
			p.logger.Info("connected")
		}

		if pending == nil {
			select {
			case <-ctx.Done():
				return
			case msg := <-p.queue:
				pending = &msg
			}
		}

		_ = conn.SetWriteDeadline(time.Now().Add(p.config.WriteTimeout))
		if err := conn.WriteJSON(pending); err != nil {
			p.logger.Warn("write failed, reconnecting", ports.Err(err))
			conn.Close()
			conn = nil
			continue
		}
		pending = nil
		p.sent.Add(1)
	}
}

// drain reads and discards server frames so control messages are handled.
// It returns once the connection fails or is closed.
func drain(conn *websocket.Conn) {
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}
