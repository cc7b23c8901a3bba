package route

import (
	"time"
)

// ChangeEvent is the delta between two consecutive snapshots: routes that
// appeared and routes that disappeared, by identity. Added and Removed are
// disjoint. An event with both sets empty is never emitted to sinks.
//
// ID is assigned by the monitor when the event is emitted so that sinks
// (CSV rows, log lines, websocket frames) can correlate one change across
// outputs. Events produced directly by the differ have an empty ID.
type ChangeEvent struct {
	ID        string    `json:"id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Added     []Record  `json:"added,omitempty"`
	Removed   []Record  `json:"removed,omitempty"`
}

// Empty reports whether the event carries no changes.
func (e ChangeEvent) Empty() bool {
	return len(e.Added) == 0 && len(e.Removed) == 0
}

// Clone returns a deep copy of the event safe to hand to sinks.
func (e ChangeEvent) Clone() ChangeEvent {
	c := e
	if len(e.Added) > 0 {
		c.Added = make([]Record, len(e.Added))
		for i := range e.Added {
			c.Added[i] = e.Added[i].Clone()
		}
	}
	if len(e.Removed) > 0 {
		c.Removed = make([]Record, len(e.Removed))
		for i := range e.Removed {
			c.Removed[i] = e.Removed[i].Clone()
		}
	}
	return c
}
