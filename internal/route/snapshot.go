package route

import (
	"time"
)

// Snapshot is the full set of routes observed at one poll. Records are
// unique by Key; duplicates from the source are collapsed with the first
// occurrence winning (the kernel lists the preferred route first).
//
// A Snapshot is immutable after construction. Accessors return copies so
// callers cannot mutate engine-owned state.
type Snapshot struct {
	at      time.Time
	records map[Key]Record
}

// NewSnapshot builds a snapshot from records captured at the given time.
// Records with an empty destination or interface are rejected here as a
// safety net; the parser normally filters them before construction.
func NewSnapshot(at time.Time, records []Record) Snapshot {
	m := make(map[Key]Record, len(records))
	for _, r := range records {
		if r.Destination == "" || r.Interface == "" {
			continue
		}
		k := r.Key()
		if _, ok := m[k]; ok {
			continue
		}
		m[k] = r.Clone()
	}
	return Snapshot{at: at, records: m}
}

// EmptySnapshot returns a snapshot with no records, used as the "previous"
// side of the very first diff so the initial table is reported as added.
func EmptySnapshot() Snapshot {
	return Snapshot{records: map[Key]Record{}}
}

// At returns the capture time of the snapshot.
func (s Snapshot) At() time.Time { return s.at }

// Len returns the number of unique routes in the snapshot.
func (s Snapshot) Len() int { return len(s.records) }

// Contains reports whether a route with the given identity is present.
func (s Snapshot) Contains(k Key) bool {
	_, ok := s.records[k]
	return ok
}

// Get returns the record with the given identity, if present.
func (s Snapshot) Get(k Key) (Record, bool) {
	r, ok := s.records[k]
	if !ok {
		return Record{}, false
	}
	return r.Clone(), true
}

// Records returns copies of all records. Order is unspecified.
func (s Snapshot) Records() []Record {
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Clone())
	}
	return out
}

// Summary describes the shape of a routing table: how many routes are
// directly connected versus reached through a gateway, and the default
// gateway if one is present.
type Summary struct {
	Total          int    `json:"total"`
	Direct         int    `json:"direct"`
	ViaGateway     int    `json:"viaGateway"`
	DefaultGateway string `json:"defaultGateway,omitempty"`
}

// Summary computes counts over the snapshot.
func (s Snapshot) Summary() Summary {
	var sum Summary
	sum.Total = len(s.records)
	for k, r := range s.records {
		if r.HasGateway() {
			sum.ViaGateway++
		} else {
			sum.Direct++
		}
		if k.Destination == "default" && r.Gateway != "" {
			sum.DefaultGateway = r.Gateway
		}
	}
	return sum
}
