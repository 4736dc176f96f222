package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Logger is the global slog instance for the application
var Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Init initializes the logging system, writing logs to ~/.tablero/logs/tablero.log.
// The returned closer releases the file.
func Init() (io.Closer, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return InitAt(filepath.Join(homeDir, ".tablero", "logs", "tablero.log"))
}

// InitAt is Init with an explicit log file path.
func InitAt(logPath string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	handler := slog.NewTextHandler(file, &slog.HandlerOptions{
		Level: levelFromEnv(),
	})

	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	// Anything still using the standard log package must not reach the terminal
	// while the board owns the screen.
	log.SetOutput(file)
	log.SetFlags(log.LstdFlags)

	return file, nil
}

// Console returns a logger for foreground commands that write to the terminal.
// Verbose lowers the level from warn to the TABLERO_LOG_LEVEL level.
func Console(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = min(levelFromEnv(), slog.LevelInfo)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// levelFromEnv reads TABLERO_LOG_LEVEL (debug, info, warn, error). Debug by default.
func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("TABLERO_LOG_LEVEL")) {
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
