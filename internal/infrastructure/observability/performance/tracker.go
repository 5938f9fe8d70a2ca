package performance

import (
	"log/slog"
	"sync"
	"time"
)

// Tracker keeps a bounded history of completed markers
type Tracker struct {
	config  *TrackerConfig
	history []Snapshot
	next    int
	full    bool
	mu      sync.RWMutex
	started time.Time
}

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	MaxMarkers            int           `json:"maxMarkers"`
	SlowResponseThreshold time.Duration `json:"slowResponseThreshold"`
	Logger                *slog.Logger  `json:"-"`
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		MaxMarkers:            1000,
		SlowResponseThreshold: 2 * time.Second,
	}
}

// NewTracker creates a new performance tracker with the given configuration
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}
	if config.MaxMarkers <= 0 {
		config.MaxMarkers = 1
	}
	return &Tracker{
		config:  config,
		history: make([]Snapshot, config.MaxMarkers),
		started: time.Now(),
	}
}

// StartOperation creates a new performance marker for an operation
func (t *Tracker) StartOperation(operation, actorID string) *Marker {
	return &Marker{
		Operation: operation,
		ActorID:   actorID,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
		Success:   true,
		tracker:   t,
	}
}

func (t *Tracker) record(m *Marker) {
	snap := m.snapshot()

	t.mu.Lock()
	t.history[t.next] = snap
	t.next = (t.next + 1) % len(t.history)
	if t.next == 0 {
		t.full = true
	}
	t.mu.Unlock()

	if t.config.Logger != nil && snap.Duration > t.config.SlowResponseThreshold {
		t.config.Logger.Warn("Operation exceeded slow response threshold",
			"operation", snap.Operation,
			"duration", snap.Duration,
			"threshold", t.config.SlowResponseThreshold,
		)
	}
}

// Recent returns completed markers newest first, at most limit of them.
func (t *Tracker) Recent(limit int) []Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	size := t.next
	if t.full {
		size = len(t.history)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]Snapshot, 0, limit)
	idx := t.next
	for len(out) < limit {
		idx = (idx - 1 + len(t.history)) % len(t.history)
		out = append(out, t.history[idx])
	}
	return out
}

// Uptime reports how long the tracker has been running.
func (t *Tracker) Uptime() time.Duration {
	return time.Since(t.started)
}
