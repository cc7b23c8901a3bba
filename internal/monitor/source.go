package monitor

import "context"

// Source defines the interface for a routing-table snapshot provider. Each
// implementation knows how to produce one raw text block per poll tick in
// iproute2 notation, which the monitor feeds through ParseSnapshot.
//
// Implementations are called from a single goroutine (the monitor poll
// loop). They do not need to be safe for concurrent use.
type Source interface {
	// Name returns a short lowercase identifier for this source,
	// e.g. "command", "netlink", "mock". Surfaced in logs and health
	// reports.
	Name() string

	// Acquire captures the routing table once and returns it as raw
	// text, one route per line. The context carries the acquisition
	// timeout; implementations must respect it so a hung platform
	// command cannot stall the loop indefinitely.
	//
	// An error means the tick is skipped: the monitor logs it, keeps
	// the previously retained snapshot, and retries on the next tick.
	Acquire(ctx context.Context) (string, error)
}
