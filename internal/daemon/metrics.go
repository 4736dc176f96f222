package daemon

import (
	"sync/atomic"
	"time"
)

// Metrics tracks daemon statistics using atomic operations for thread-safety
type Metrics struct {
	EventsSent       atomic.Int64
	EventsReceived   atomic.Int64
	EventsDropped    atomic.Int64
	Broadcasts       atomic.Int64
	ConnectedClients atomic.Int32
	StartTime        time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{StartTime: time.Now()}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	EventsSent       int64     `json:"events_sent"`
	EventsReceived   int64     `json:"events_received"`
	EventsDropped    int64     `json:"events_dropped"`
	Broadcasts       int64     `json:"broadcasts"`
	ConnectedClients int32     `json:"connected_clients"`
	StartTime        time.Time `json:"start_time"`
	Uptime           string    `json:"uptime"`
}

// Snapshot returns a consistent-enough view for logging; fields are read one at a time.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		EventsSent:       m.EventsSent.Load(),
		EventsReceived:   m.EventsReceived.Load(),
		EventsDropped:    m.EventsDropped.Load(),
		Broadcasts:       m.Broadcasts.Load(),
		ConnectedClients: m.ConnectedClients.Load(),
		StartTime:        m.StartTime,
		Uptime:           time.Since(m.StartTime).Round(time.Second).String(),
	}
}
