package testutil

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tablero/internal/database"
	"github.com/thenoetrevino/tablero/internal/events"
	"github.com/thenoetrevino/tablero/internal/server"
	"github.com/thenoetrevino/tablero/internal/services/task"
)

// TestAPI is a development task API backed by in-memory SQLite.
type TestAPI struct {
	URL     string
	Service task.Service
	Server  *httptest.Server
}

// SetupTestAPI starts the task API on an httptest server. A nil publisher
// disables change events; an empty secret disables auth.
func SetupTestAPI(t *testing.T, publisher events.Publisher, secret string) *TestAPI {
	t.Helper()

	db, err := database.InitDB(context.Background(), ":memory:")
	require.NoError(t, err)
	repo := database.NewRepository(db)
	t.Cleanup(func() { _ = repo.Close() })

	svc := task.NewService(repo, publisher, nil)
	srv := httptest.NewServer(server.New(svc, server.NewAuth(secret), nil))
	t.Cleanup(srv.Close)

	return &TestAPI{URL: srv.URL, Service: svc, Server: srv}
}

// SeedTask creates a task directly through the service.
func (a *TestAPI) SeedTask(t *testing.T, req task.CreateTaskRequest) {
	t.Helper()
	_, err := a.Service.CreateTask(context.Background(), req)
	require.NoError(t, err)
}
