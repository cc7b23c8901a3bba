package monitor

import (
	"github.com/routewatch/backend/internal/route"
)

// Diff computes the change event between two consecutive snapshots:
// added = cur - prev and removed = prev - cur, both by route identity
// (destination, gateway, interface). A record whose only difference is
// metric or flags appears in neither set.
//
// Diff is a pure function. The event's timestamp is the capture time of
// the newer snapshot; its ID is left empty for the monitor to assign at
// emit time. No ordering is imposed within Added/Removed.
func Diff(prev, cur route.Snapshot) route.ChangeEvent {
	ev := route.ChangeEvent{Timestamp: cur.At()}
	for _, r := range cur.Records() {
		if !prev.Contains(r.Key()) {
			ev.Added = append(ev.Added, r)
		}
	}
	for _, r := range prev.Records() {
		if !cur.Contains(r.Key()) {
			ev.Removed = append(ev.Removed, r)
		}
	}
	return ev
}
