package performance

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
)

// Tracker aggregates completed markers per operation and logs slow or
// failed ones on the performance channel.
type Tracker struct {
	stats     map[string]*OperationStats
	active    int64
	threshold time.Duration
	logger    *logging.ChanneledLogger
	mu        sync.Mutex
	started   time.Time
}

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	SlowThreshold time.Duration
	Logger        *logging.ChanneledLogger
}

// NewTracker creates a new performance tracker with the given configuration
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = &TrackerConfig{}
	}
	threshold := config.SlowThreshold
	if threshold <= 0 {
		threshold = 500 * time.Millisecond
	}
	return &Tracker{
		stats:     make(map[string]*OperationStats),
		threshold: threshold,
		logger:    config.Logger,
		started:   time.Now(),
	}
}

// StartOperation creates a new performance marker for an operation
func (t *Tracker) StartOperation(operation string) *Marker {
	t.mu.Lock()
	t.active++
	t.mu.Unlock()

	return &Marker{
		Operation: operation,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
		Success:   true, // Assume success until proven otherwise
		tracker:   t,
	}
}

// StartOperationWithContext tags the marker with the request id from ctx so
// slow-operation logs can be traced back to a request. A context that has
// already ended marks the operation failed.
func (t *Tracker) StartOperationWithContext(ctx context.Context, operation string) *Marker {
	marker := t.StartOperation(operation)
	if requestID := logging.RequestIDFromContext(ctx); requestID != "" {
		marker.AddMetadata("requestId", requestID)
	}
	if err := ctx.Err(); err != nil {
		marker.SetError(err)
	}
	return marker
}

func (t *Tracker) record(m *Marker) {
	t.mu.Lock()
	t.active--
	s, ok := t.stats[m.Operation]
	if !ok {
		s = &OperationStats{Operation: m.Operation}
		t.stats[m.Operation] = s
	}
	s.Count++
	s.Total += m.Duration
	if m.Duration > s.Max {
		s.Max = m.Duration
	}
	if !m.Success {
		s.Failures++
	}
	slow := m.Duration > t.threshold
	if slow {
		s.Slow++
	}
	t.mu.Unlock()

	if t.logger == nil {
		return
	}
	switch {
	case slow:
		t.logger.Perf().Warn("Slow operation",
			slog.String("operation", m.Operation),
			slog.Duration("duration", m.Duration),
			slog.Bool("success", m.Success),
			slog.Any("metadata", m.Metadata),
		)
	case !m.Success:
		t.logger.Perf().Debug("Operation failed",
			slog.String("operation", m.Operation),
			slog.Duration("duration", m.Duration),
			slog.String("error", m.Error),
		)
	}
}

// Stats returns per-operation aggregates sorted by operation name.
func (t *Tracker) Stats() []OperationStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]OperationStats, 0, len(t.stats))
	for _, s := range t.stats {
		stats := *s
		stats.Avg = stats.Average()
		out = append(out, stats)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Operation < out[j].Operation })
	return out
}

// GetOverallStats summarises the tracker for the health endpoint.
func (t *Tracker) GetOverallStats() map[string]any {
	t.mu.Lock()
	defer t.mu.Unlock()

	var completed, failed, slow int64
	for _, s := range t.stats {
		completed += s.Count
		failed += s.Failures
		slow += s.Slow
	}
	return map[string]any{
		"uptime":              time.Since(t.started).Round(time.Second).String(),
		"activeOperations":    t.active,
		"completedOperations": completed,
		"failedOperations":    failed,
		"slowOperations":      slow,
	}
}
