package route

import (
	"sync"
)

// TableStore holds the most recent snapshot and a bounded history of change
// events for HTTP and websocket readers. Only the monitor loop writes to
// it; readers get copies.
type TableStore struct {
	mu      sync.RWMutex
	current Snapshot
	history []ChangeEvent
	maxHist int
}

// NewTableStore creates a store retaining up to maxHistory change events.
// A non-positive maxHistory disables history retention.
func NewTableStore(maxHistory int) *TableStore {
	return &TableStore{
		current: EmptySnapshot(),
		maxHist: maxHistory,
	}
}

// SetSnapshot replaces the current snapshot. Called by the monitor after
// every successful poll, whether or not the diff was empty.
func (ts *TableStore) SetSnapshot(s Snapshot) {
	ts.mu.Lock()
	ts.current = s
	ts.mu.Unlock()
}

// Current returns the retained snapshot. The snapshot's accessors copy
// records, so the return value is safe to read concurrently.
func (ts *TableStore) Current() Snapshot {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.current
}

// RecordChange appends a change event to the history ring.
func (ts *TableStore) RecordChange(ev ChangeEvent) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.maxHist <= 0 {
		return
	}
	ts.history = append(ts.history, ev.Clone())
	if len(ts.history) > ts.maxHist {
		ts.history = append([]ChangeEvent(nil), ts.history[len(ts.history)-ts.maxHist:]...)
	}
}

// RecentChanges returns the retained change events, oldest first.
func (ts *TableStore) RecentChanges() []ChangeEvent {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	out := make([]ChangeEvent, len(ts.history))
	for i := range ts.history {
		out[i] = ts.history[i].Clone()
	}
	return out
}

// Summary returns counts over the current snapshot.
func (ts *TableStore) Summary() Summary {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.current.Summary()
}
