// Package taskapi is the HTTP client for the remote task API. It owns the
// wire format: status vocabulary, legacy field aliases and the error
// taxonomy the sync controller reacts to.
package taskapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

const (
	// DefaultTimeout bounds every request
	DefaultTimeout = 15 * time.Second

	maxResponseSize = 8 << 20
)

// Client talks to the task API
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the API rooted at baseURL
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	if tokens == nil {
		tokens = StaticToken("")
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		tokens:  tokens,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ============================================================================
// reads
// ============================================================================

// ListTasks fetches every task of a project
func (c *Client) ListTasks(ctx context.Context, projectID types.ProjectID) ([]models.Task, error) {
	env, status, err := c.do(ctx, http.MethodGet, projectPath(projectID, "tasks"), nil, nil)
	if err != nil {
		return nil, loadErr("list tasks", status, err)
	}
	tasks := make([]models.Task, 0, len(env.Tasks))
	for _, w := range env.Tasks {
		tasks = append(tasks, normalizeTask(w, projectID))
	}
	return tasks, nil
}

// ListSections fetches a project's sections. A server without section
// support (404) yields no sections.
func (c *Client) ListSections(ctx context.Context, projectID types.ProjectID) ([]models.Section, error) {
	env, status, err := c.do(ctx, http.MethodGet, projectPath(projectID, "sections"), nil, nil)
	if status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, loadErr("list sections", status, err)
	}
	sections := make([]models.Section, 0, len(env.Sections))
	for _, w := range env.Sections {
		sections = append(sections, normalizeSection(w))
	}
	return sections, nil
}

// ============================================================================
// writes
// ============================================================================

// CreateTask submits a new task and returns it as the server stored it
func (c *Client) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	env, status, err := c.do(ctx, http.MethodPost, projectPath(task.ProjectID, "tasks"), nil, encodeTask(task))
	if err != nil {
		return models.Task{}, syncErr("create task", status, err)
	}

	var w *wireTask
	switch {
	case env.Task != nil:
		w = env.Task
	case len(env.Tasks) > 0:
		w = &env.Tasks[0]
	default:
		return models.Task{}, syncErr("create task", status, errors.New("response carried no task"))
	}
	created := normalizeTask(*w, task.ProjectID)
	if created.ID.IsDraft() {
		return models.Task{}, syncErr("create task", status, errors.New("response carried no task id"))
	}
	return created, nil
}

// UpdateTask sends a single-task update with only the changed fields
func (c *Client) UpdateTask(ctx context.Context, projectID types.ProjectID, taskID types.TaskID, patch TaskPatch) error {
	_, status, err := c.do(ctx, http.MethodPatch, projectPath(projectID, "tasks"), nil, patch.body(taskID))
	if err != nil {
		return syncErr("update task", status, err)
	}
	return nil
}

// SaveOrder sends a batched order save for every changed (task, order, lane)
func (c *Client) SaveOrder(ctx context.Context, changes []board.OrderChange) error {
	if len(changes) == 0 {
		return nil
	}
	_, status, err := c.do(ctx, http.MethodPatch, "/tasks", nil, encodeOrder(changes))
	if err != nil {
		return syncErr("save order", status, err)
	}
	return nil
}

// DeleteTask removes a task
func (c *Client) DeleteTask(ctx context.Context, projectID types.ProjectID, taskID types.TaskID) error {
	q := url.Values{"taskId": []string{string(taskID)}}
	_, status, err := c.do(ctx, http.MethodDelete, projectPath(projectID, "tasks"), q, nil)
	if err != nil {
		return syncErr("delete task", status, err)
	}
	return nil
}

// ============================================================================
// transport
// ============================================================================

// do performs one request. The returned error is an *AuthError for 401/403,
// otherwise a plain error the caller wraps into its taxonomy. status is 0
// when the request never got a response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (envelope, int, error) {
	var env envelope

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return env, 0, err
	}

	var reader io.Reader
	if body != nil {
		data, err := sonic.ConfigStd.Marshal(body)
		if err != nil {
			return env, 0, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return env, 0, fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("task api request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return env, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return env, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("task api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	decodeErr := decodeEnvelope(raw, &env)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return env, resp.StatusCode, &AuthError{Status: resp.StatusCode, Message: failureText(env, raw)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return env, resp.StatusCode, fmt.Errorf("unexpected status: %s", failureText(env, raw))
	case decodeErr != nil:
		return env, resp.StatusCode, fmt.Errorf("%w: %v", ErrDecode, decodeErr)
	case env.Success != nil && !*env.Success:
		msg := env.failureMessage()
		if msg == "" {
			return env, resp.StatusCode, ErrUnsuccessful
		}
		return env, resp.StatusCode, fmt.Errorf("%w: %s", ErrUnsuccessful, msg)
	}
	return env, resp.StatusCode, nil
}

func decodeEnvelope(raw []byte, env *envelope) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return sonic.ConfigStd.NewDecoder(bytes.NewReader(raw)).Decode(env)
}

func failureText(env envelope, raw []byte) string {
	if msg := env.failureMessage(); msg != "" {
		return msg
	}
	text := strings.TrimSpace(string(raw))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}

func projectPath(projectID types.ProjectID, resource string) string {
	return "/projects/" + url.PathEscape(string(projectID)) + "/" + resource
}

func loadErr(op string, status int, err error) error {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae
	}
	return &LoadError{Op: op, Status: status, Err: err}
}

func syncErr(op string, status int, err error) error {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae
	}
	return &SyncError{Op: op, Status: status, Err: err}
}
