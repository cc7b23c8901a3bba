// Package sink contains the consumers of change events emitted by the
// monitor loop: console logging, CSV persistence, and topology rendering.
// Sinks receive every non-empty change event exactly once, synchronously,
// in registration order. A sink error is logged by the monitor and never
// aborts the loop or prevents later sinks from seeing the event.
package sink

import (
	"github.com/routewatch/backend/internal/route"
)

// Sink accepts change events from the monitor. Implementations receive a
// deep copy of each event and may retain it; they must not assume calls
// from more than one goroutine.
type Sink interface {
	// Name returns a short identifier used in error logs.
	Name() string

	// OnChange handles one change event. Errors are surfaced to the
	// caller for logging but do not stop event delivery.
	OnChange(ev route.ChangeEvent) error
}
