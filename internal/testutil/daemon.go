package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tablero/internal/daemon"
	"github.com/thenoetrevino/tablero/internal/events"
)

// GetTestSocketPath generates a unique temporary socket path for testing.
// Unix socket paths are length limited, so it lives in a short temp dir.
func GetTestSocketPath(t *testing.T) string {
	t.Helper()

	dir, err := os.MkdirTemp("", "tb")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	return filepath.Join(dir, "d.sock")
}

// SetupTestDaemon creates a test daemon server on a temporary socket and
// waits until it accepts connections. Cleanup is automatic.
func SetupTestDaemon(t *testing.T) (*daemon.Server, string) {
	t.Helper()

	socketPath := GetTestSocketPath(t)
	server, err := daemon.NewServer(socketPath, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		_ = server.Shutdown()
	})

	go func() {
		if err := server.Start(ctx); err != nil {
			t.Logf("daemon stopped: %v", err)
		}
	}()

	require.Eventually(t, func() bool {
		_, err := os.Stat(socketPath)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond, "daemon socket never appeared")

	return server, socketPath
}

// SetupTestClient creates an event client connected to socketPath.
func SetupTestClient(t *testing.T, socketPath string, opts ...events.Option) *events.Client {
	t.Helper()

	client := events.NewClient(socketPath, opts...)
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, client.Connect(ctx))

	return client
}

// WaitForEvent waits for an event on a channel with timeout.
func WaitForEvent(t *testing.T, ch <-chan events.Event, timeout time.Duration) events.Event {
	t.Helper()

	select {
	case event, ok := <-ch:
		if !ok {
			t.Fatal("event channel closed unexpectedly")
		}
		return event
	case <-time.After(timeout):
		t.Fatalf("timeout waiting for event after %v", timeout)
		return events.Event{}
	}
}
