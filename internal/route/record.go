package route

import (
	"strings"
)

// Record is one entry of the kernel routing table as observed at a point
// in time. Destination is a CIDR, a host address, or the literal "default";
// an empty Gateway means the destination is directly connected.
//
// Metric and Flags are informational only. Two records that differ solely
// in Metric or Flags describe the same route; the differ never reports
// such a pair as a change. This is a deliberate policy: the monitor reports
// route existence, not attribute churn.
type Record struct {
	Destination string   `json:"destination"`
	Gateway     string   `json:"gateway,omitempty"`
	Interface   string   `json:"interface"`
	Metric      *int     `json:"metric,omitempty"`
	Flags       []string `json:"flags,omitempty"`
}

// Key identifies a route. Records with equal keys are the same route
// regardless of metric or flag differences.
type Key struct {
	Destination string `json:"destination"`
	Gateway     string `json:"gateway,omitempty"`
	Interface   string `json:"interface"`
}

// Key returns the identity key for this record.
func (r *Record) Key() Key {
	return Key{
		Destination: r.Destination,
		Gateway:     r.Gateway,
		Interface:   r.Interface,
	}
}

// HasGateway reports whether the route has a next hop. Routes without one
// are directly connected.
func (r *Record) HasGateway() bool {
	return r.Gateway != ""
}

// Clone returns a deep copy of the record, duplicating pointer and slice
// fields so the copy can be retained independently of the original.
func (r *Record) Clone() Record {
	c := *r
	if r.Metric != nil {
		m := *r.Metric
		c.Metric = &m
	}
	if len(r.Flags) > 0 {
		c.Flags = append([]string(nil), r.Flags...)
	}
	return c
}

// String renders the record in iproute2-style notation, e.g.
// "default via 192.168.1.1 dev eth0" or "10.0.0.0/24 dev eth0".
func (r *Record) String() string {
	var b strings.Builder
	b.WriteString(r.Destination)
	if r.Gateway != "" {
		b.WriteString(" via ")
		b.WriteString(r.Gateway)
	}
	if r.Interface != "" {
		b.WriteString(" dev ")
		b.WriteString(r.Interface)
	}
	return b.String()
}

// String renders the key in the same notation as Record.String.
func (k Key) String() string {
	r := Record{Destination: k.Destination, Gateway: k.Gateway, Interface: k.Interface}
	return r.String()
}
