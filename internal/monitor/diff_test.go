package monitor

import (
	"testing"
	"time"

	"github.com/routewatch/backend/internal/route"
)

// snapOf builds a snapshot from records, failing the test if any record
// is dropped during construction.
func snapOf(t *testing.T, records ...route.Record) route.Snapshot {
	t.Helper()
	snap := route.NewSnapshot(time.Now(), records)
	if snap.Len() != len(records) {
		t.Fatalf("snapshot dropped records: %d in, %d kept", len(records), snap.Len())
	}
	return snap
}

// keysOf extracts the identity keys from a record slice.
func keysOf(records []route.Record) map[route.Key]bool {
	keys := make(map[route.Key]bool, len(records))
	for i := range records {
		keys[records[i].Key()] = true
	}
	return keys
}

func TestDiffIdenticalSnapshotsIsEmpty(t *testing.T) {
	snap := snapOf(t,
		route.Record{Destination: "default", Gateway: "192.168.1.1", Interface: "eth0"},
		route.Record{Destination: "10.0.0.0/24", Interface: "eth0"},
	)

	ev := Diff(snap, snap)
	if !ev.Empty() {
		t.Errorf("diff of snapshot against itself: added=%v removed=%v", ev.Added, ev.Removed)
	}
}

func TestDiffFirstTickReportsFullTable(t *testing.T) {
	cur := snapOf(t,
		route.Record{Destination: "default", Gateway: "192.168.1.1", Interface: "eth0"},
		route.Record{Destination: "192.168.1.0/24", Interface: "eth0"},
	)

	ev := Diff(route.EmptySnapshot(), cur)
	if len(ev.Added) != 2 {
		t.Errorf("added = %d routes, want 2", len(ev.Added))
	}
	if len(ev.Removed) != 0 {
		t.Errorf("removed = %d routes, want 0", len(ev.Removed))
	}
}

func TestDiffEmptyCurrentReportsAllRemoved(t *testing.T) {
	prev := snapOf(t,
		route.Record{Destination: "default", Gateway: "192.168.1.1", Interface: "eth0"},
	)

	ev := Diff(prev, route.EmptySnapshot())
	if len(ev.Added) != 0 || len(ev.Removed) != 1 {
		t.Errorf("added=%d removed=%d, want 0/1", len(ev.Added), len(ev.Removed))
	}
}

func TestDiffSymmetry(t *testing.T) {
	a := snapOf(t,
		route.Record{Destination: "10.0.0.0/24", Interface: "eth0"},
		route.Record{Destination: "default", Gateway: "192.168.1.1", Interface: "eth0"},
	)
	b := snapOf(t,
		route.Record{Destination: "10.0.0.0/24", Interface: "eth0"},
		route.Record{Destination: "10.0.1.0/24", Gateway: "192.168.1.1", Interface: "eth0"},
	)

	ab := Diff(a, b)
	ba := Diff(b, a)

	if got, want := keysOf(ab.Added), keysOf(ba.Removed); !sameKeys(got, want) {
		t.Errorf("diff(a,b).added = %v, diff(b,a).removed = %v", got, want)
	}
	if got, want := keysOf(ab.Removed), keysOf(ba.Added); !sameKeys(got, want) {
		t.Errorf("diff(a,b).removed = %v, diff(b,a).added = %v", got, want)
	}
}

func sameKeys(a, b map[route.Key]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func TestDiffIgnoresMetricAndFlagChanges(t *testing.T) {
	m100, m600 := 100, 600
	prev := snapOf(t,
		route.Record{Destination: "10.0.0.0/24", Interface: "eth0", Metric: &m100, Flags: []string{"proto", "kernel"}},
	)
	cur := snapOf(t,
		route.Record{Destination: "10.0.0.0/24", Interface: "eth0", Metric: &m600, Flags: []string{"proto", "static"}},
	)

	ev := Diff(prev, cur)
	if !ev.Empty() {
		t.Errorf("metric/flags-only change reported: added=%v removed=%v", ev.Added, ev.Removed)
	}
}

func TestDiffGatewayChangeIsRemoveAndAdd(t *testing.T) {
	prev := snapOf(t,
		route.Record{Destination: "10.0.0.0/24", Interface: "eth0"},
		route.Record{Destination: "default", Gateway: "192.168.1.1", Interface: "eth0"},
	)
	cur := snapOf(t,
		route.Record{Destination: "10.0.0.0/24", Interface: "eth0"},
		route.Record{Destination: "10.0.1.0/24", Gateway: "192.168.1.1", Interface: "eth0"},
	)

	ev := Diff(prev, cur)
	if len(ev.Added) != 1 || ev.Added[0].Key() != (route.Key{Destination: "10.0.1.0/24", Gateway: "192.168.1.1", Interface: "eth0"}) {
		t.Errorf("added = %v, want the 10.0.1.0/24 gateway route", ev.Added)
	}
	if len(ev.Removed) != 1 || ev.Removed[0].Key() != (route.Key{Destination: "default", Gateway: "192.168.1.1", Interface: "eth0"}) {
		t.Errorf("removed = %v, want the default route", ev.Removed)
	}
}

func TestDiffTimestampFromNewerSnapshot(t *testing.T) {
	at := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	cur := route.NewSnapshot(at, []route.Record{
		{Destination: "default", Gateway: "192.168.1.1", Interface: "eth0"},
	})

	ev := Diff(route.EmptySnapshot(), cur)
	if !ev.Timestamp.Equal(at) {
		t.Errorf("timestamp = %v, want %v", ev.Timestamp, at)
	}
}
