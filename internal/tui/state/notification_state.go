package state

import "time"

// NotificationLevel represents the severity/type of a notification.
type NotificationLevel int

const (
	LevelInfo NotificationLevel = iota
	LevelWarning
	LevelError
)

// DefaultNotificationTTL is how long a notification stays on screen
const DefaultNotificationTTL = 5 * time.Second

const maxNotifications = 3

// Notification represents a single notification message with a severity level.
type Notification struct {
	Level   NotificationLevel
	Message string
	Expires time.Time
}

// NotificationState manages notification display state. Only the newest few
// notifications are kept and each one expires after the TTL.
type NotificationState struct {
	notifications []Notification
	ttl           time.Duration
}

// NewNotificationState creates a new NotificationState with no notifications.
// A non-positive ttl uses DefaultNotificationTTL.
func NewNotificationState(ttl time.Duration) *NotificationState {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &NotificationState{ttl: ttl}
}

// Add adds a new notification that expires ttl after now
func (s *NotificationState) Add(level NotificationLevel, message string, now time.Time) {
	s.notifications = append(s.notifications, Notification{
		Level:   level,
		Message: message,
		Expires: now.Add(s.ttl),
	})
	if n := len(s.notifications); n > maxNotifications {
		s.notifications = s.notifications[n-maxNotifications:]
	}
}

// Expire drops notifications whose time is up. It reports whether any were dropped.
func (s *NotificationState) Expire(now time.Time) bool {
	kept := s.notifications[:0]
	for _, n := range s.notifications {
		if now.Before(n.Expires) {
			kept = append(kept, n)
		}
	}
	changed := len(kept) != len(s.notifications)
	s.notifications = kept
	return changed
}

// Clear removes all notifications.
func (s *NotificationState) Clear() {
	s.notifications = nil
}

// All returns all current notifications, oldest first.
func (s *NotificationState) All() []Notification {
	return s.notifications
}

// HasAny returns true if there are any notifications.
func (s *NotificationState) HasAny() bool {
	return len(s.notifications) > 0
}
