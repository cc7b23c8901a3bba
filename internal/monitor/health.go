package monitor

import (
	"sync"
	"time"
)

// HealthStatus classifies the snapshot source's recent behavior.
type HealthStatus string

const (
	StatusHealthy  HealthStatus = "healthy"
	StatusDegraded HealthStatus = "degraded"
	StatusFailed   HealthStatus = "failed"
)

// HealthReport is a point-in-time view of source health and loop activity,
// surfaced through the status API and websocket health events.
type HealthReport struct {
	Source              string       `json:"source"`
	Status              HealthStatus `json:"status"`
	ConsecutiveFailures int          `json:"consecutiveFailures"`
	LastError           string       `json:"lastError,omitempty"`
	LastSuccess         time.Time    `json:"lastSuccess"`
	Ticks               int          `json:"ticks"`
	SkippedTicks        int          `json:"skippedTicks"`
	EventsEmitted       int          `json:"eventsEmitted"`
	Timestamp           time.Time    `json:"timestamp"`
}

// sourceHealth tracks consecutive acquisition failures and loop counters.
// Fields are protected by mu because poll() writes them from the monitor
// goroutine while the status API reads them from HTTP handlers.
type sourceHealth struct {
	mu                  sync.Mutex
	consecutiveFailures int
	lastErr             string
	lastSuccess         time.Time
	ticks               int
	skipped             int
	emitted             int
	lastEmittedStatus   HealthStatus
}

func newSourceHealth() *sourceHealth {
	return &sourceHealth{lastEmittedStatus: StatusHealthy}
}

func (h *sourceHealth) recordSuccess(at time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ticks++
	h.consecutiveFailures = 0
	h.lastErr = ""
	h.lastSuccess = at
}

func (h *sourceHealth) recordFailure(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ticks++
	h.skipped++
	h.consecutiveFailures++
	h.lastErr = err.Error()
}

func (h *sourceHealth) recordEmit() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.emitted++
}

// statusLocked computes the status. Caller must hold h.mu.
func (h *sourceHealth) statusLocked(threshold int) HealthStatus {
	switch {
	case h.consecutiveFailures >= threshold:
		return StatusFailed
	case h.consecutiveFailures > 0:
		return StatusDegraded
	default:
		return StatusHealthy
	}
}

// snapshot returns a consistent report under the lock.
func (h *sourceHealth) snapshot(source string, threshold int) HealthReport {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.reportLocked(source, threshold)
}

// snapshotAndEmit returns the report plus whether the status changed since
// the last emission, updating the emitted status in the same lock
// acquisition so transitions are reported exactly once.
func (h *sourceHealth) snapshotAndEmit(source string, threshold int) (HealthReport, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	rep := h.reportLocked(source, threshold)
	changed := rep.Status != h.lastEmittedStatus
	if changed {
		h.lastEmittedStatus = rep.Status
	}
	return rep, changed
}

func (h *sourceHealth) reportLocked(source string, threshold int) HealthReport {
	return HealthReport{
		Source:              source,
		Status:              h.statusLocked(threshold),
		ConsecutiveFailures: h.consecutiveFailures,
		LastError:           h.lastErr,
		LastSuccess:         h.lastSuccess,
		Ticks:               h.ticks,
		SkippedTicks:        h.skipped,
		EventsEmitted:       h.emitted,
		Timestamp:           time.Now(),
	}
}
