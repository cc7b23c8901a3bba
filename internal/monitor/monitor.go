package monitor

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/routewatch/backend/internal/config"
	"github.com/routewatch/backend/internal/route"
	"github.com/routewatch/backend/internal/sink"
)

// Monitor is the change tracker: it polls the snapshot source at a fixed
// interval, diffs each snapshot against the previously retained one, and
// forwards non-empty change events to its sinks.
//
// The loop is single-threaded. A new poll never starts before the previous
// tick (acquire + parse + diff + emit) completes, so the retained current
// snapshot needs no locking; the TableStore mirror exists for concurrent
// HTTP and websocket readers.
type Monitor struct {
	cfg     *config.Config
	source  Source
	store   *route.TableStore
	sinks   []sink.Sink
	health  *sourceHealth
	current route.Snapshot

	// onHealthChange, when set, is invoked from the poll loop whenever
	// the source health status transitions (e.g. healthy -> failed).
	onHealthChange func(HealthReport)
}

func New(cfg *config.Config, source Source, store *route.TableStore) *Monitor {
	return &Monitor{
		cfg:     cfg,
		source:  source,
		store:   store,
		health:  newSourceHealth(),
		current: route.EmptySnapshot(),
	}
}

// AddSink registers a sink. Sinks receive every emitted event exactly
// once, in registration order. Must be called before Run.
func (m *Monitor) AddSink(s sink.Sink) {
	m.sinks = append(m.sinks, s)
}

// SetHealthNotify registers a callback for source health transitions.
// Must be called before Run.
func (m *Monitor) SetHealthNotify(fn func(HealthReport)) {
	m.onHealthChange = fn
}

// Health returns the current health report. Safe to call concurrently
// with the running loop.
func (m *Monitor) Health() HealthReport {
	return m.health.snapshot(m.source.Name(), m.cfg.Monitor.HealthFailureThreshold)
}

// Run executes the poll loop until ctx is cancelled. The first poll runs
// immediately, so the initial table is reported as one bulk "added" event.
//
// Cancellation is observed only between ticks: a cancel during the
// inter-tick wait stops the loop before the next poll, while a cancel
// during an in-flight poll lets that tick finish (its acquisition is
// bounded by the configured timeout) so no partial event is ever emitted.
func (m *Monitor) Run(ctx context.Context) {
	interval := m.cfg.Monitor.PollInterval
	log.Printf("[monitor] started: source=%s interval=%s timeout=%s",
		m.source.Name(), interval, m.cfg.Monitor.AcquireTimeout)

	m.poll()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[monitor] stopped")
			return
		case <-ticker.C:
			m.poll()
		}
	}
}

// poll runs one tick: acquire, parse, diff, replace the retained snapshot,
// emit. An acquisition failure skips the tick: the previous snapshot is
// kept and the loop retries on the next interval.
func (m *Monitor) poll() {
	now := time.Now()

	// The acquisition context is deliberately not derived from the loop
	// context: cancelling the loop must let an in-flight poll complete,
	// bounded only by the acquisition timeout.
	acqCtx, cancel := context.WithTimeout(context.Background(), m.cfg.Monitor.AcquireTimeout)
	raw, err := m.source.Acquire(acqCtx)
	cancel()
	if err != nil {
		log.Printf("[monitor] acquisition failed, skipping tick: %v", err)
		m.health.recordFailure(err)
		m.maybeNotifyHealth()
		return
	}
	m.health.recordSuccess(now)

	snap := ParseSnapshot(raw, now)
	ev := Diff(m.current, snap)
	m.current = snap
	m.store.SetSnapshot(snap)
	m.maybeNotifyHealth()

	if ev.Empty() {
		return
	}

	ev.ID = uuid.NewString()
	m.store.RecordChange(ev)
	m.health.recordEmit()

	for _, s := range m.sinks {
		if err := s.OnChange(ev.Clone()); err != nil {
			log.Printf("[monitor] sink %s failed for event %s: %v", s.Name(), ev.ID, err)
		}
	}
}

// maybeNotifyHealth invokes the health callback when the source status
// crossed a threshold since the last notification.
func (m *Monitor) maybeNotifyHealth() {
	rep, changed := m.health.snapshotAndEmit(m.source.Name(), m.cfg.Monitor.HealthFailureThreshold)
	if !changed {
		return
	}
	log.Printf("[monitor] source %s health: %s (consecutive failures=%d)",
		rep.Source, rep.Status, rep.ConsecutiveFailures)
	if m.onHealthChange != nil {
		m.onHealthChange(rep)
	}
}
