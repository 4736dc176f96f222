package events

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tablero/internal/types"
)

// ============================================================================
// Test Helpers
// ============================================================================

type mockDaemon struct {
	socketPath string
	received   chan Message
	conns      chan *json.Encoder
}

// setupMockDaemon starts a unix socket that records every message it receives
// and hands the test an encoder for each accepted connection.
func setupMockDaemon(t *testing.T) *mockDaemon {
	t.Helper()

	socketPath := filepath.Join(t.TempDir(), "test.sock")
	listener, err := (&net.ListenConfig{}).Listen(context.Background(), "unix", socketPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	})

	d := &mockDaemon{
		socketPath: socketPath,
		received:   make(chan Message, 32),
		conns:      make(chan *json.Encoder, 4),
	}

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			d.conns <- json.NewEncoder(conn)
			go func(c net.Conn) {
				defer func() { _ = c.Close() }()
				dec := json.NewDecoder(c)
				for {
					var msg Message
					if err := dec.Decode(&msg); err != nil {
						return
					}
					d.received <- msg
				}
			}(conn)
		}
	}()

	return d
}

func (d *mockDaemon) next(t *testing.T, msgType string) Message {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case msg := <-d.received:
			if msg.Type == msgType {
				return msg
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %q message", msgType)
			return Message{}
		}
	}
}

func (d *mockDaemon) encoder(t *testing.T) *json.Encoder {
	t.Helper()
	select {
	case enc := <-d.conns:
		return enc
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for connection")
		return nil
	}
}

func connectedClient(t *testing.T, d *mockDaemon, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithDebounce(20 * time.Millisecond)}, opts...)
	c := NewClient(d.socketPath, opts...)
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.Connect(context.Background()))
	return c
}

// ============================================================================
// Connection
// ============================================================================

func TestConnect_SendsSubscription(t *testing.T) {
	d := setupMockDaemon(t)
	c := NewClient(d.socketPath)
	t.Cleanup(func() { _ = c.Close() })

	require.Error(t, c.Subscribe("proj-1"), "not connected yet")
	require.NoError(t, c.Connect(context.Background()))

	msg := d.next(t, MsgSubscribe)
	require.NotNil(t, msg.Subscribe)
	assert.Equal(t, "proj-1", msg.Subscribe.ProjectID.String())
	assert.Equal(t, ProtocolVersion, msg.Version)
}

func TestConnect_MissingSocket(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "missing.sock"))
	t.Cleanup(func() { _ = c.Close() })

	err := c.Connect(context.Background())
	require.Error(t, err)

	var de *DaemonError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, ErrSocketNotFound, de.Code)
	assert.Contains(t, de.Error(), "tablero daemon")
}

func TestListen_RequiresConnection(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "x.sock"))
	t.Cleanup(func() { _ = c.Close() })

	_, err := c.Listen(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)
}

// ============================================================================
// Batching
// ============================================================================

func TestSendEvent_BatchesWithinDebounce(t *testing.T) {
	d := setupMockDaemon(t)
	c := connectedClient(t, d)
	d.next(t, MsgSubscribe)

	for i := 0; i < 5; i++ {
		require.NoError(t, c.SendEvent(TasksChanged("p1", "t1")))
	}

	msg := d.next(t, MsgEvent)
	require.NotNil(t, msg.Event)
	assert.Equal(t, EventTasksChanged, msg.Event.Type)
	assert.Equal(t, "p1", msg.Event.ProjectID.String())
	assert.Equal(t, "t1", msg.Event.TaskID.String())

	select {
	case extra := <-d.received:
		t.Fatalf("expected a single batched event, got extra %+v", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSendEvent_MixedProjectsCollapse(t *testing.T) {
	d := setupMockDaemon(t)
	c := connectedClient(t, d, WithDebounce(50*time.Millisecond))
	d.next(t, MsgSubscribe)

	require.NoError(t, c.SendEvent(TasksChanged("p1", "t1")))
	require.NoError(t, c.SendEvent(TasksChanged("p2", "t2")))

	msg := d.next(t, MsgEvent)
	assert.Empty(t, msg.Event.ProjectID)
	assert.Empty(t, msg.Event.TaskID)
}

func TestClose_FlushesAndRejects(t *testing.T) {
	d := setupMockDaemon(t)
	c := NewClient(d.socketPath, WithDebounce(time.Hour))
	require.NoError(t, c.Connect(context.Background()))
	d.next(t, MsgSubscribe)

	require.NoError(t, c.SendEvent(TasksChanged("p1", "")))
	require.NoError(t, c.Close())

	msg := d.next(t, MsgEvent)
	assert.Equal(t, "p1", msg.Event.ProjectID.String())

	assert.ErrorIs(t, c.SendEvent(TasksChanged("p1", "")), ErrClosed)
	assert.ErrorIs(t, c.Connect(context.Background()), ErrClosed)
	assert.NoError(t, c.Close(), "second close is a no-op")
}

// ============================================================================
// Listening
// ============================================================================

func TestListen_DeliversAndDropsStaleSequences(t *testing.T) {
	d := setupMockDaemon(t)
	c := connectedClient(t, d)
	enc := d.encoder(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := c.Listen(ctx)
	require.NoError(t, err)

	send := func(seq int64, project string) {
		e := TasksChanged(types.ProjectID(project), "")
		e.SequenceID = seq
		require.NoError(t, enc.Encode(Message{Version: ProtocolVersion, Type: MsgEvent, Event: &e}))
	}
	send(1, "a")
	send(1, "dup")
	send(2, "b")

	got := make([]string, 0, 2)
	for len(got) < 2 {
		select {
		case e := <-ch:
			got = append(got, e.ProjectID.String())
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out, got %v", got)
		}
	}
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestListen_AnswersPing(t *testing.T) {
	d := setupMockDaemon(t)
	c := connectedClient(t, d)
	enc := d.encoder(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, err := c.Listen(ctx)
	require.NoError(t, err)

	require.NoError(t, enc.Encode(Message{Version: ProtocolVersion, Type: MsgPing}))
	d.next(t, MsgPong)
}

func TestListen_ClosesChannelWhenGivingUp(t *testing.T) {
	d := setupMockDaemon(t)
	c := connectedClient(t, d, WithReconnect(0, time.Millisecond))
	d.encoder(t)

	ch, err := c.Listen(context.Background())
	require.NoError(t, err)

	c.mu.Lock()
	_ = c.conn.Close()
	c.mu.Unlock()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("listen channel was not closed")
	}
}
