package taskapi

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// TokenSource supplies the bearer token for API calls. An empty token sends
// no Authorization header.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed token, typically from the environment
type StaticToken string

func (s StaticToken) Token(context.Context) (string, error) {
	return strings.TrimSpace(string(s)), nil
}

// FileTokenSource reads the token from a file on every call so a token
// refreshed by another process is picked up without a restart.
type FileTokenSource struct {
	Path string
}

func (f FileTokenSource) Token(context.Context) (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
