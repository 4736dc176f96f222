package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thenoetrevino/tablero/internal/events"
)

var (
	ErrShutdown      = errors.New("daemon shut down")
	ErrBroadcastFull = errors.New("broadcast channel full")
)

const (
	pingInterval   = 30 * time.Second
	healthInterval = 60 * time.Second
	staleAfter     = 90 * time.Second
)

// client represents a connected client to the daemon
type client struct {
	conn      net.Conn
	send      chan events.Message
	mu        sync.Mutex // protects subscription and lastPong
	sub       events.SubscribeMessage
	lastPong  time.Time
	closeOnce sync.Once
}

func (c *client) subscribed(e events.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return e.Matches(c.sub.ProjectID)
}

// Server fans tasks_changed events out to every board client subscribed to
// the project that changed.
type Server struct {
	socketPath       string
	listener         net.Listener
	log              *slog.Logger
	clients          map[*client]bool
	mu               sync.RWMutex
	ctx              context.Context
	cancel           context.CancelFunc
	broadcast        chan events.Event
	metrics          *Metrics
	sequence         atomic.Int64
	clientBufferSize int
	shutdownOnce     sync.Once
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultVal
}

// NewServer listens on socketPath, replacing a stale socket file.
// TABLERO_DAEMON_BROADCAST_BUFFER and TABLERO_DAEMON_CLIENT_BUFFER size the queues.
func NewServer(socketPath string, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if dir := filepath.Dir(socketPath); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create socket directory: %w", err)
		}
	}

	if _, err := os.Stat(socketPath); err == nil {
		if err := os.Remove(socketPath); err != nil {
			return nil, fmt.Errorf("remove stale socket: %w", err)
		}
	}

	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("create socket listener: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		socketPath:       socketPath,
		listener:         listener,
		log:              logger.With("component", "daemon"),
		clients:          make(map[*client]bool),
		ctx:              ctx,
		cancel:           cancel,
		broadcast:        make(chan events.Event, getEnvInt("TABLERO_DAEMON_BROADCAST_BUFFER", 100)),
		metrics:          NewMetrics(),
		clientBufferSize: getEnvInt("TABLERO_DAEMON_CLIENT_BUFFER", 10),
	}, nil
}

// Metrics exposes the live counters.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Start runs the accept, broadcast and health loops until ctx is cancelled
// or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("daemon starting", "socket", s.socketPath)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.ctx.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()

	acceptErr := make(chan error, 1)
	go func() { acceptErr <- s.acceptLoop(runCtx) }()
	go s.broadcastLoop(runCtx)
	go s.monitorHealth(runCtx)

	var err error
	select {
	case <-runCtx.Done():
		s.log.Info("daemon context cancelled, shutting down")
	case err = <-acceptErr:
		if err != nil {
			s.log.Error("accept loop failed", "error", err)
		}
	}

	if shutdownErr := s.Shutdown(); shutdownErr != nil && err == nil {
		err = shutdownErr
	}
	return err
}

func (s *Server) acceptLoop(ctx context.Context) error {
	ul, _ := s.listener.(*net.UnixListener)
	for {
		if ctx.Err() != nil {
			return nil
		}

		if ul != nil {
			if err := ul.SetDeadline(time.Now().Add(time.Second)); err != nil {
				s.log.Warn("set listener deadline", "error", err)
			}
		}

		conn, err := s.listener.Accept()
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		c := &client{
			conn:     conn,
			send:     make(chan events.Message, s.clientBufferSize),
			lastPong: time.Now(),
		}

		s.mu.Lock()
		s.clients[c] = true
		s.mu.Unlock()
		count := s.updateClientCount()
		s.log.Debug("client connected", "clients", count)

		go s.handleClient(c)
		go s.clientWriter(c)
	}
}

func (s *Server) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event := <-s.broadcast:
			event.SequenceID = s.sequence.Add(1)
			s.metrics.Broadcasts.Add(1)

			msg := events.Message{Version: events.ProtocolVersion, Type: events.MsgEvent, Event: &event}

			s.mu.RLock()
			for c := range s.clients {
				if !c.subscribed(event) {
					continue
				}
				if !s.sendToClient(c, msg) {
					s.metrics.EventsDropped.Add(1)
					s.log.Warn("client send queue full, event dropped", "project_id", event.ProjectID)
				}
			}
			s.mu.RUnlock()
		}
	}
}

func (s *Server) handleClient(c *client) {
	defer func() {
		s.removeClient(c)
		s.log.Debug("client disconnected", "clients", s.clientCount())
	}()

	decoder := json.NewDecoder(c.conn)
	for {
		var msg events.Message
		if err := decoder.Decode(&msg); err != nil {
			return
		}

		if msg.Version != 0 && msg.Version != events.ProtocolVersion {
			s.log.Warn("protocol version mismatch", "got", msg.Version, "want", events.ProtocolVersion)
		}

		switch msg.Type {
		case events.MsgEvent:
			if msg.Event == nil {
				continue
			}
			s.metrics.EventsReceived.Add(1)
			if err := s.Broadcast(*msg.Event); err != nil {
				s.log.Warn("broadcast failed", "error", err)
			}

		case events.MsgSubscribe:
			if msg.Subscribe != nil {
				c.mu.Lock()
				c.sub = *msg.Subscribe
				c.mu.Unlock()
				s.log.Debug("client subscribed", "project_id", msg.Subscribe.ProjectID)
			}

		case events.MsgPong:
			c.mu.Lock()
			c.lastPong = time.Now()
			c.mu.Unlock()
		}
	}
}

func (s *Server) clientWriter(c *client) {
	encoder := json.NewEncoder(c.conn)
	for msg := range c.send {
		if err := encoder.Encode(msg); err != nil {
			return
		}
	}
}

// monitorHealth pings every client and drops the ones that stopped answering.
func (s *Server) monitorHealth(ctx context.Context) {
	pingTicker := time.NewTicker(pingInterval)
	defer pingTicker.Stop()
	healthTicker := time.NewTicker(healthInterval)
	defer healthTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-pingTicker.C:
			ping := events.Message{Version: events.ProtocolVersion, Type: events.MsgPing}
			s.mu.RLock()
			for c := range s.clients {
				if !s.sendToClient(c, ping) {
					s.log.Debug("ping dropped, client queue full")
				}
			}
			s.mu.RUnlock()

		case <-healthTicker.C:
			s.removeStale(time.Now())
		}
	}
}

func (s *Server) removeStale(now time.Time) int {
	var stale []*client
	for _, c := range s.snapshotClients() {
		c.mu.Lock()
		since := now.Sub(c.lastPong)
		c.mu.Unlock()
		if since > staleAfter {
			stale = append(stale, c)
		}
	}
	for _, c := range stale {
		s.log.Info("removing stale client")
		s.removeClient(c)
	}
	return len(stale)
}

// Broadcast queues an event for fan-out without blocking.
func (s *Server) Broadcast(event events.Event) error {
	if s.ctx.Err() != nil {
		return ErrShutdown
	}
	select {
	case s.broadcast <- event:
		return nil
	default:
		s.metrics.EventsDropped.Add(1)
		return ErrBroadcastFull
	}
}

// Shutdown closes the listener and every client and removes the socket file.
func (s *Server) Shutdown() error {
	var err error
	s.shutdownOnce.Do(func() {
		s.log.Info("shutting down daemon", "metrics", s.metrics.Snapshot())
		s.cancel()

		if closeErr := s.listener.Close(); closeErr != nil && !errors.Is(closeErr, net.ErrClosed) {
			err = closeErr
		}

		s.mu.Lock()
		for c := range s.clients {
			_ = c.conn.Close()
			c.closeOnce.Do(func() { close(c.send) })
		}
		s.clients = make(map[*client]bool)
		s.mu.Unlock()
		s.metrics.ConnectedClients.Store(0)

		if removeErr := os.Remove(s.socketPath); removeErr != nil && !os.IsNotExist(removeErr) {
			s.log.Warn("failed to remove socket file", "error", removeErr)
		}
	})
	return err
}

func (s *Server) snapshotClients() []*client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		out = append(out, c)
	}
	return out
}

func (s *Server) clientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) updateClientCount() int {
	n := s.clientCount()
	s.metrics.ConnectedClients.Store(int32(n))
	return n
}

func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()

	_ = c.conn.Close()
	c.closeOnce.Do(func() { close(c.send) })
	s.updateClientCount()
}

// sendToClient reports false when the client's queue is full. Callers hold
// s.mu so c.send cannot be closed underneath them.
func (s *Server) sendToClient(c *client, msg events.Message) bool {
	select {
	case c.send <- msg:
		s.metrics.EventsSent.Add(1)
		return true
	default:
		return false
	}
}
