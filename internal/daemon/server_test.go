package daemon

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tablero/internal/events"
	"github.com/thenoetrevino/tablero/internal/types"
)

// ============================================================================
// Test Helpers
// ============================================================================

func setupTestDaemon(t *testing.T) (*Server, string) {
	t.Helper()
	socketPath := filepath.Join(t.TempDir(), "tablero.sock")

	server, err := NewServer(socketPath, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.Shutdown() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = server.Start(ctx) }()

	return server, socketPath
}

type rawClient struct {
	conn net.Conn
	enc  *json.Encoder
	dec  *json.Decoder
}

func connectRawClient(t *testing.T, s *Server, socketPath string, project types.ProjectID) *rawClient {
	t.Helper()

	before := s.clientCount()
	conn, err := (&net.Dialer{}).DialContext(context.Background(), "unix", socketPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	rc := &rawClient{conn: conn, enc: json.NewEncoder(conn), dec: json.NewDecoder(conn)}
	require.NoError(t, rc.enc.Encode(events.Message{
		Version:   events.ProtocolVersion,
		Type:      events.MsgSubscribe,
		Subscribe: &events.SubscribeMessage{ProjectID: project},
	}))

	require.Eventually(t, func() bool { return s.clientCount() > before }, 2*time.Second, 10*time.Millisecond)
	// let handleClient apply the subscription
	time.Sleep(20 * time.Millisecond)
	return rc
}

func (rc *rawClient) readEvent(t *testing.T, timeout time.Duration) (events.Event, bool) {
	t.Helper()
	require.NoError(t, rc.conn.SetReadDeadline(time.Now().Add(timeout)))
	for {
		var msg events.Message
		if err := rc.dec.Decode(&msg); err != nil {
			return events.Event{}, false
		}
		if msg.Type == events.MsgEvent && msg.Event != nil {
			return *msg.Event, true
		}
	}
}

// ============================================================================
// Tests
// ============================================================================

func TestNewServer_RemovesStaleSocket(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "stale.sock")
	require.NoError(t, os.WriteFile(socketPath, []byte("stale"), 0o600))

	s, err := NewServer(socketPath, nil)
	require.NoError(t, err)
	require.NoError(t, s.Shutdown())

	_, err = os.Stat(socketPath)
	assert.True(t, os.IsNotExist(err), "socket removed on shutdown")
}

func TestBroadcast_FiltersByProject(t *testing.T) {
	s, sock := setupTestDaemon(t)

	p1 := connectRawClient(t, s, sock, "p1")
	p2 := connectRawClient(t, s, sock, "p2")
	all := connectRawClient(t, s, sock, "")

	require.NoError(t, s.Broadcast(events.TasksChanged("p1", "t1")))

	e, ok := p1.readEvent(t, 2*time.Second)
	require.True(t, ok)
	assert.Equal(t, types.ProjectID("p1"), e.ProjectID)
	assert.Equal(t, int64(1), e.SequenceID)

	e, ok = all.readEvent(t, 2*time.Second)
	require.True(t, ok)
	assert.Equal(t, types.TaskID("t1"), e.TaskID)

	_, ok = p2.readEvent(t, 150*time.Millisecond)
	assert.False(t, ok, "p2 must not see p1 events")
}

func TestClientEvent_IsRebroadcast(t *testing.T) {
	s, sock := setupTestDaemon(t)

	listener := connectRawClient(t, s, sock, "p1")
	publisher := connectRawClient(t, s, sock, "p9")

	ev := events.TasksChanged("p1", "t7")
	require.NoError(t, publisher.enc.Encode(events.Message{Version: events.ProtocolVersion, Type: events.MsgEvent, Event: &ev}))

	got, ok := listener.readEvent(t, 2*time.Second)
	require.True(t, ok)
	assert.Equal(t, types.TaskID("t7"), got.TaskID)

	snap := s.Metrics().Snapshot()
	assert.Equal(t, int64(1), snap.EventsReceived)
	assert.Equal(t, int64(1), snap.Broadcasts)
	assert.Equal(t, int32(2), snap.ConnectedClients)
}

func TestRemoveStale(t *testing.T) {
	s, sock := setupTestDaemon(t)
	connectRawClient(t, s, sock, "p1")

	assert.Equal(t, 0, s.removeStale(time.Now()))
	assert.Equal(t, 1, s.removeStale(time.Now().Add(2*staleAfter)))
	assert.Equal(t, 0, s.clientCount())
	assert.Equal(t, int32(0), s.Metrics().ConnectedClients.Load())
}

func TestBroadcast_AfterShutdown(t *testing.T) {
	s, _ := setupTestDaemon(t)
	require.NoError(t, s.Shutdown())
	assert.ErrorIs(t, s.Broadcast(events.TasksChanged("p", "")), ErrShutdown)
	assert.NoError(t, s.Shutdown(), "idempotent")
}

func TestEventClient_EndToEnd(t *testing.T) {
	s, sock := setupTestDaemon(t)

	sub := events.NewClient(sock, events.WithDebounce(10*time.Millisecond))
	t.Cleanup(func() { _ = sub.Close() })
	_ = sub.Subscribe("p1")
	require.NoError(t, sub.Connect(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := sub.Listen(ctx)
	require.NoError(t, err)

	pub := events.NewClient(sock, events.WithDebounce(10*time.Millisecond))
	t.Cleanup(func() { _ = pub.Close() })
	require.NoError(t, pub.Connect(context.Background()))

	require.Eventually(t, func() bool { return s.clientCount() == 2 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, pub.SendEvent(events.TasksChanged("p2", "x")))
	require.NoError(t, pub.SendEvent(events.TasksChanged("p2", "y")))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, pub.SendEvent(events.TasksChanged("p1", "z")))

	select {
	case e := <-ch:
		assert.Equal(t, types.ProjectID("p1"), e.ProjectID)
		assert.Equal(t, types.TaskID("z"), e.TaskID)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber never saw the p1 event")
	}
}
