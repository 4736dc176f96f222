package events

import (
	"log/slog"
	"time"
)

// PublishWithRetry attempts to publish an event with retry logic.
// It makes up to maxRetries attempts with exponential backoff starting at 50ms.
// A nil publisher is a no-op so callers running without a daemon need no branch.
func PublishWithRetry(p Publisher, event Event, maxRetries int) error {
	if p == nil {
		return nil
	}
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	baseDelay := 50 * time.Millisecond

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := p.SendEvent(event)
		if err == nil {
			if attempt > 0 {
				slog.Debug("event published after retry",
					"attempt", attempt+1,
					"event_type", event.Type,
					"project_id", event.ProjectID)
			}
			return nil
		}
		lastErr = err

		if attempt < maxRetries-1 {
			delay := baseDelay * (1 << attempt)
			slog.Debug("event publish failed, retrying",
				"attempt", attempt+1,
				"max_retries", maxRetries,
				"retry_delay", delay,
				"error", err)
			time.Sleep(delay)
		}
	}

	slog.Warn("event publish failed after all retries",
		"attempts", maxRetries,
		"event_type", event.Type,
		"project_id", event.ProjectID,
		"error", lastErr)

	return lastErr
}
