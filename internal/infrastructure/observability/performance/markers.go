// Package performance provides lightweight operation timing for request handlers.
package performance

import (
	"sync"
	"time"
)

// Marker represents a single timed operation
type Marker struct {
	Operation string         `json:"operation"` // e.g. "danger_delete_request"
	ActorID   string         `json:"actorId"`
	StartTime time.Time      `json:"startTime"`
	EndTime   time.Time      `json:"endTime"`
	Duration  time.Duration  `json:"duration"`
	Success   bool           `json:"success"`
	Error     string         `json:"error,omitempty"`
	Metadata  map[string]any `json:"metadata"`
	Completed bool           `json:"completed"`

	mu      sync.Mutex
	tracker *Tracker
}

// Complete marks the operation as finished and hands it back to the tracker
func (m *Marker) Complete() {
	m.mu.Lock()
	if m.Completed {
		m.mu.Unlock()
		return
	}
	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Completed = true
	m.mu.Unlock()

	if m.tracker != nil {
		m.tracker.record(m)
	}
}

// SetSuccess marks the operation as successful or failed
func (m *Marker) SetSuccess(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Success = success
}

// SetError sets an error message and marks the operation as failed
func (m *Marker) SetError(err error) {
	if err == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Error = err.Error()
	m.Success = false
}

// AddMetadata adds key-value metadata to the marker
func (m *Marker) AddMetadata(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Metadata == nil {
		m.Metadata = make(map[string]any)
	}
	m.Metadata[key] = value
}

// Snapshot is a copy of a completed marker safe to hand out.
type Snapshot struct {
	Operation string         `json:"operation"`
	ActorID   string         `json:"actorId"`
	StartTime time.Time      `json:"startTime"`
	Duration  time.Duration  `json:"duration"`
	Success   bool           `json:"success"`
	Error     string         `json:"error,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func (m *Marker) snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	meta := make(map[string]any, len(m.Metadata))
	for k, v := range m.Metadata {
		meta[k] = v
	}
	return Snapshot{
		Operation: m.Operation,
		ActorID:   m.ActorID,
		StartTime: m.StartTime,
		Duration:  m.Duration,
		Success:   m.Success,
		Error:     m.Error,
		Metadata:  meta,
	}
}
