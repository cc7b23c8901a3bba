package monitor

import (
	"strconv"
	"strings"
	"time"

	"github.com/routewatch/backend/internal/route"
)

// ParseSnapshot converts one poll's worth of raw routing-table text into a
// snapshot. Each non-empty line is parsed independently; a line that does
// not yield at least a destination and an interface is skipped, never
// fatal. Partial or garbled command output must not abort monitoring.
//
// Tokenization is whitespace-delimited with the iproute2 keywords the
// monitor cares about: "via" introduces the gateway, "dev" the interface,
// "metric" the numeric priority. Anything else ("proto kernel",
// "scope link", "src 10.0.0.5", ...) is folded into the record's flags.
// An entirely empty or unparseable block yields an empty snapshot, which
// the differ correctly reports as all prior routes removed.
func ParseSnapshot(raw string, at time.Time) route.Snapshot {
	var records []route.Record
	for _, line := range strings.Split(raw, "\n") {
		rec, ok := parseLine(line)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return route.NewSnapshot(at, records)
}

// parseLine parses a single iproute2-style line. The first token is the
// destination ("default" is kept as a regular destination string).
func parseLine(line string) (route.Record, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return route.Record{}, false
	}

	rec := route.Record{Destination: fields[0]}
	for i := 1; i < len(fields); i++ {
		switch fields[i] {
		case "via":
			if i+1 < len(fields) {
				i++
				rec.Gateway = fields[i]
			}
		case "dev":
			if i+1 < len(fields) {
				i++
				rec.Interface = fields[i]
			}
		case "metric":
			if i+1 < len(fields) {
				i++
				// A malformed metric is tolerated as absent,
				// not a parse failure.
				if n, err := strconv.Atoi(fields[i]); err == nil {
					rec.Metric = &n
				}
			}
		default:
			rec.Flags = append(rec.Flags, fields[i])
		}
	}

	if rec.Interface == "" {
		return route.Record{}, false
	}
	return rec, true
}
