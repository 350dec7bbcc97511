// Package monitor keeps in-memory telemetry for model calls and derives the
// recent success rate used to decide on backup routing.
package monitor

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
)

const (
	// BackupWindow is the window ShouldUseBackup looks at.
	BackupWindow = 5 * time.Minute
	// BackupThreshold is the success rate under which backup routing kicks in.
	BackupThreshold = 0.5
	// DefaultRetention is how long metrics survive ClearOldMetrics by default.
	DefaultRetention = 24 * time.Hour
)

// CallMetric records one model invocation.
type CallMetric struct {
	Model     string        `json:"model"`
	StartTime time.Time     `json:"startTime"`
	EndTime   time.Time     `json:"endTime,omitempty"`
	Duration  time.Duration `json:"-"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
	Tokens    int           `json:"tokens,omitempty"`
}

// DurationMs is the call duration in milliseconds.
func (c CallMetric) DurationMs() int64 {
	return c.Duration.Milliseconds()
}

// MarshalJSON adds durationMs to the encoded metric.
func (c CallMetric) MarshalJSON() ([]byte, error) {
	type plain CallMetric
	return json.Marshal(struct {
		plain
		DurationMs int64 `json:"durationMs"`
	}{plain(c), c.DurationMs()})
}

// Call is the handle returned by StartCall and finalized by EndCall.
type Call struct {
	metric *CallMetric
}

// Monitor is safe for concurrent use. Metrics are only removed by ClearOldMetrics.
type Monitor struct {
	mu      sync.RWMutex
	metrics []*CallMetric
	now     func() time.Time
}

// New creates an empty monitor.
func New() *Monitor {
	return &Monitor{now: time.Now}
}

// StartCall records the start of a call to model.
func (m *Monitor) StartCall(model string) *Call {
	metric := &CallMetric{Model: model, StartTime: m.now()}

	m.mu.Lock()
	m.metrics = append(m.metrics, metric)
	m.mu.Unlock()

	return &Call{metric: metric}
}

// EndCall stamps the outcome on the metric behind call.
func (m *Monitor) EndCall(call *Call, success bool, callErr error, tokens int) {
	if call == nil || call.metric == nil {
		return
	}
	end := m.now()

	m.mu.Lock()
	metric := call.metric
	metric.EndTime = end
	metric.Duration = end.Sub(metric.StartTime)
	metric.Success = success
	metric.Tokens = tokens
	metric.Error = ""
	if callErr != nil {
		metric.Error = callErr.Error()
	}
	snapshot := *metric
	m.mu.Unlock()

	if success {
		log.Printf("[monitor] model call succeeded: %s (%dms)", snapshot.Model, snapshot.DurationMs())
	} else {
		log.Printf("[monitor] model call failed: %s (%dms): %s", snapshot.Model, snapshot.DurationMs(), snapshot.Error)
	}
}

// RecentMetrics returns copies of the calls started within window.
func (m *Monitor) RecentMetrics(window time.Duration) []CallMetric {
	cutoff := m.now().Add(-window)

	m.mu.RLock()
	defer m.mu.RUnlock()

	recent := make([]CallMetric, 0, len(m.metrics))
	for _, metric := range m.metrics {
		if metric.StartTime.After(cutoff) {
			recent = append(recent, *metric)
		}
	}
	return recent
}

// SuccessRate returns the share of successful calls in window, or 1 when the
// window holds no calls.
func (m *Monitor) SuccessRate(window time.Duration) float64 {
	recent := m.RecentMetrics(window)
	if len(recent) == 0 {
		return 1
	}
	ok := 0
	for _, metric := range recent {
		if metric.Success {
			ok++
		}
	}
	return float64(ok) / float64(len(recent))
}

// ShouldUseBackup reports whether the 5 minute success rate is below 0.5.
func (m *Monitor) ShouldUseBackup() bool {
	return m.SuccessRate(BackupWindow) < BackupThreshold
}

// ClearOldMetrics drops calls that started more than horizon ago and
// returns how many were removed.
func (m *Monitor) ClearOldMetrics(horizon time.Duration) int {
	cutoff := m.now().Add(-horizon)

	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.metrics[:0]
	for _, metric := range m.metrics {
		if metric.StartTime.After(cutoff) {
			kept = append(kept, metric)
		}
	}
	removed := len(m.metrics) - len(kept)
	// release pointers held past the new length
	for i := len(kept); i < len(m.metrics); i++ {
		m.metrics[i] = nil
	}
	m.metrics = kept
	return removed
}

// Len returns the number of retained metrics.
func (m *Monitor) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.metrics)
}

// RunPruner calls ClearOldMetrics(retention) every interval until ctx is done.
func (m *Monitor) RunPruner(ctx context.Context, interval, retention time.Duration) error {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if removed := m.ClearOldMetrics(retention); removed > 0 {
				log.Printf("[monitor] pruned %d metrics older than %s", removed, retention)
			}
		}
	}
}
