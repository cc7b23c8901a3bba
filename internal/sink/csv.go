package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/routewatch/backend/internal/route"
)

var csvHeader = []string{
	"change_type", "destination", "gateway", "interface",
	"metric", "flags", "event_id", "timestamp",
}

// CSVSink appends change events to a CSV file, one row per added or
// removed route. The file is created lazily on the first event, named
// <prefix>routing_changes_<timestamp>.csv inside the configured directory,
// with the header written once.
type CSVSink struct {
	path        string
	wroteHeader bool
}

// NewCSVSink creates the sink and its output directory. The file itself
// is not created until the first change event arrives.
func NewCSVSink(dir, prefix string, now time.Time) (*CSVSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating csv output dir: %w", err)
	}
	if prefix != "" {
		prefix += "_"
	}
	name := fmt.Sprintf("%srouting_changes_%s.csv", prefix, now.Format("20060102_150405"))
	return &CSVSink{path: filepath.Join(dir, name)}, nil
}

// Path returns the file the sink writes to.
func (s *CSVSink) Path() string { return s.path }

func (s *CSVSink) Name() string { return "csv" }

func (s *CSVSink) OnChange(ev route.ChangeEvent) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if !s.wroteHeader {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("writing csv header: %w", err)
		}
		s.wroteHeader = true
	}

	ts := ev.Timestamp.Format("2006-01-02 15:04:05")
	for i := range ev.Added {
		if err := w.Write(csvRow("added", &ev.Added[i], ev.ID, ts)); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	for i := range ev.Removed {
		if err := w.Write(csvRow("removed", &ev.Removed[i], ev.ID, ts)); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

func csvRow(changeType string, r *route.Record, eventID, ts string) []string {
	metric := ""
	if r.Metric != nil {
		metric = strconv.Itoa(*r.Metric)
	}
	return []string{
		changeType,
		r.Destination,
		r.Gateway,
		r.Interface,
		metric,
		strings.Join(r.Flags, " "),
		eventID,
		ts,
	}
}
