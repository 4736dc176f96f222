package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/thenoetrevino/tablero/internal/types"
)

const (
	defaultDebounce   = 100 * time.Millisecond
	defaultMaxRetries = 5
	defaultBaseDelay  = time.Second
	writeTimeout      = 5 * time.Second
	readTimeout       = 60 * time.Second
)

// Client is a connection to the tablero daemon. Outgoing events are batched
// within the debounce window; incoming events are delivered through Listen,
// which reconnects with exponential backoff when the socket drops.
type Client struct {
	socketPath string
	log        *slog.Logger

	mu      sync.Mutex
	conn    net.Conn
	encoder *json.Encoder
	decoder *json.Decoder
	closed  bool
	project types.ProjectID

	queue    chan Event
	debounce time.Duration

	maxRetries int
	baseDelay  time.Duration

	lastSequence int64

	ctx         context.Context
	cancel      context.CancelFunc
	batcherDone chan struct{}
}

// Option configures a Client.
type Option func(*Client)

// WithDebounce sets the batching window for outgoing events.
func WithDebounce(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithReconnect sets how many times Listen redials and the first backoff delay.
func WithReconnect(maxRetries int, baseDelay time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.baseDelay = baseDelay
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient creates a client for the daemon listening on socketPath. It does
// not connect. TABLERO_EVENT_DEBOUNCE_MS overrides the default debounce.
func NewClient(socketPath string, opts ...Option) *Client {
	debounce := defaultDebounce
	if v := os.Getenv("TABLERO_EVENT_DEBOUNCE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			debounce = time.Duration(ms) * time.Millisecond
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		socketPath:  socketPath,
		log:         slog.Default(),
		queue:       make(chan Event, 100),
		debounce:    debounce,
		maxRetries:  defaultMaxRetries,
		baseDelay:   defaultBaseDelay,
		ctx:         ctx,
		cancel:      cancel,
		batcherDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.startBatcher()
	return c
}

// Connect dials the daemon and subscribes to the current project.
// Dial failures are returned as *DaemonError.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return ClassifyDaemonError(err)
	}

	c.conn = conn
	c.encoder = json.NewEncoder(conn)
	c.decoder = json.NewDecoder(conn)
	c.lastSequence = 0

	msg := Message{
		Version:   ProtocolVersion,
		Type:      MsgSubscribe,
		Subscribe: &SubscribeMessage{ProjectID: c.project},
	}
	if err := c.writeLocked(msg); err != nil {
		_ = conn.Close()
		c.conn = nil
		return fmt.Errorf("send subscription: %w", err)
	}

	c.log.Debug("connected to daemon", "socket", c.socketPath, "project_id", c.project)
	return nil
}

// SendEvent queues an event for the next batch. It never blocks.
func (c *Client) SendEvent(event Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	select {
	case c.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// startBatcher collapses every event queued within one debounce window into a
// single tasks_changed event. Events for different projects collapse into an
// event for all projects.
func (c *Client) startBatcher() {
	defer close(c.batcherDone)

	ticker := time.NewTicker(c.debounce)
	defer ticker.Stop()

	var (
		pending bool
		batch   Event
	)

	add := func(e Event) {
		if !pending {
			pending = true
			batch = Event{Type: EventTasksChanged, ProjectID: e.ProjectID, TaskID: e.TaskID}
			return
		}
		if batch.ProjectID != e.ProjectID {
			batch.ProjectID = ""
		}
		if batch.TaskID != e.TaskID {
			batch.TaskID = ""
		}
	}

	flush := func() {
		if !pending {
			return
		}
		pending = false
		batch.Timestamp = time.Now()
		if err := c.write(Message{Version: ProtocolVersion, Type: MsgEvent, Event: &batch}); err != nil {
			if !isConnectionError(err) {
				c.log.Warn("failed to send batched event", "error", err)
			}
		}
	}

	for {
		select {
		case <-c.ctx.Done():
			flush()
			return

		case e, ok := <-c.queue:
			if !ok {
				flush()
				return
			}
			add(e)

		case <-ticker.C:
			flush()
		}
	}
}

func (c *Client) write(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeLocked(msg)
}

func (c *Client) writeLocked(msg Message) error {
	if c.conn == nil {
		return ErrNotConnected
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("connection error: %w", err)
	}
	return c.encoder.Encode(msg)
}

// Listen delivers events from the daemon until ctx is done or reconnection
// gives up, then closes the returned channel.
func (c *Client) Listen(ctx context.Context) (<-chan Event, error) {
	c.mu.Lock()
	connected := c.conn != nil
	c.mu.Unlock()
	if !connected {
		return nil, ErrNotConnected
	}

	ch := make(chan Event, 10)
	go c.listenLoop(ctx, ch)
	return ch, nil
}

func (c *Client) listenLoop(ctx context.Context, ch chan Event) {
	defer close(ch)

	for {
		err := c.readEvents(ctx, ch)
		if ctx.Err() != nil || c.isClosed() {
			return
		}

		c.log.Info("daemon connection lost, reconnecting", "error", err)
		if !c.reconnect(ctx) {
			c.log.Warn("giving up on daemon", "attempts", c.maxRetries)
			return
		}
	}
}

func (c *Client) readEvents(ctx context.Context, ch chan Event) error {
	for {
		c.mu.Lock()
		if c.conn == nil {
			c.mu.Unlock()
			return ErrNotConnected
		}
		if err := c.conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			c.mu.Unlock()
			return fmt.Errorf("set read deadline: %w", err)
		}
		decoder := c.decoder
		c.mu.Unlock()

		var msg Message
		if err := decoder.Decode(&msg); err != nil {
			return fmt.Errorf("decode message: %w", err)
		}

		switch msg.Type {
		case MsgEvent:
			if msg.Event == nil {
				continue
			}
			c.mu.Lock()
			fresh := msg.Event.SequenceID == 0 || msg.Event.SequenceID > c.lastSequence
			if fresh && msg.Event.SequenceID > 0 {
				c.lastSequence = msg.Event.SequenceID
			}
			c.mu.Unlock()
			if !fresh {
				continue
			}
			select {
			case ch <- *msg.Event:
			case <-ctx.Done():
				return ctx.Err()
			}

		case MsgPing:
			if err := c.write(Message{Version: ProtocolVersion, Type: MsgPong}); err != nil && !isConnectionError(err) {
				c.log.Warn("failed to send pong", "error", err)
			}
		}
	}
}

// reconnect redials with exponential backoff: baseDelay, 2x, 4x, ...
func (c *Client) reconnect(ctx context.Context) bool {
	delay := c.baseDelay

	for i := 0; i < c.maxRetries; i++ {
		select {
		case <-ctx.Done():
			return false
		case <-c.ctx.Done():
			return false
		case <-time.After(delay):
		}

		c.mu.Lock()
		if c.conn != nil {
			_ = c.conn.Close()
			c.conn = nil
		}
		c.mu.Unlock()

		if err := c.Connect(ctx); err == nil {
			c.log.Info("reconnected to daemon", "attempt", i+1)
			return true
		} else if errors.Is(err, ErrClosed) {
			return false
		}

		c.log.Debug("reconnect attempt failed", "attempt", i+1, "max", c.maxRetries, "next_delay", delay*2)
		delay *= 2
	}
	return false
}

// Subscribe narrows delivery to one project; an empty id means all projects.
// The subscription is remembered and replayed on reconnect.
func (c *Client) Subscribe(projectID types.ProjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.project = projectID
	return c.writeLocked(Message{
		Version:   ProtocolVersion,
		Type:      MsgSubscribe,
		Subscribe: &SubscribeMessage{ProjectID: projectID},
	})
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close flushes pending events, stops the batcher and closes the connection.
// It is safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.queue)
	c.mu.Unlock()

	// the batcher flushes on queue close before we cancel
	<-c.batcherDone
	c.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

func isConnectionError(err error) bool {
	return errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, ErrNotConnected)
}
