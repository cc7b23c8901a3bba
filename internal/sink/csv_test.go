package sink

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/routewatch/backend/internal/route"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening csv: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	return rows
}

func TestCSVSinkWritesRows(t *testing.T) {
	dir := t.TempDir()
	metric := 600

	s, err := NewCSVSink(dir, "", time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewCSVSink: %v", err)
	}

	ev := route.ChangeEvent{
		ID:        "ev-1",
		Timestamp: time.Date(2026, 8, 29, 12, 0, 10, 0, time.UTC),
		Added: []route.Record{
			{Destination: "10.0.1.0/24", Gateway: "192.168.1.1", Interface: "eth0", Metric: &metric},
		},
		Removed: []route.Record{
			{Destination: "default", Gateway: "192.168.1.1", Interface: "eth0", Flags: []string{"proto", "static"}},
		},
	}
	if err := s.OnChange(ev); err != nil {
		t.Fatalf("OnChange: %v", err)
	}

	rows := readCSV(t, s.Path())
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d rows", len(rows))
	}

	if rows[0][0] != "change_type" {
		t.Errorf("header = %v", rows[0])
	}
	added := rows[1]
	if added[0] != "added" || added[1] != "10.0.1.0/24" || added[2] != "192.168.1.1" || added[3] != "eth0" || added[4] != "600" {
		t.Errorf("added row = %v", added)
	}
	removed := rows[2]
	if removed[0] != "removed" || removed[1] != "default" || removed[5] != "proto static" {
		t.Errorf("removed row = %v", removed)
	}
	if added[6] != "ev-1" || added[7] != "2026-08-29 12:00:10" {
		t.Errorf("event id/timestamp = %v", added[6:])
	}
}

func TestCSVSinkHeaderWrittenOnce(t *testing.T) {
	dir := t.TempDir()
	s, err := NewCSVSink(dir, "test", time.Now())
	if err != nil {
		t.Fatalf("NewCSVSink: %v", err)
	}

	ev := route.ChangeEvent{
		ID:        "ev-1",
		Timestamp: time.Now(),
		Added:     []route.Record{{Destination: "10.0.0.0/24", Interface: "eth0"}},
	}
	if err := s.OnChange(ev); err != nil {
		t.Fatalf("first OnChange: %v", err)
	}
	ev.ID = "ev-2"
	if err := s.OnChange(ev); err != nil {
		t.Fatalf("second OnChange: %v", err)
	}

	rows := readCSV(t, s.Path())
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	for i, row := range rows[1:] {
		if row[0] == "change_type" {
			t.Errorf("row %d repeats the header", i+1)
		}
	}
}

func TestCSVSinkFileNaming(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 8, 29, 9, 30, 0, 0, time.UTC)

	s, err := NewCSVSink(dir, "lab", now)
	if err != nil {
		t.Fatalf("NewCSVSink: %v", err)
	}

	name := filepath.Base(s.Path())
	if name != "lab_routing_changes_20260829_093000.csv" {
		t.Errorf("file name = %q", name)
	}
	if !strings.HasPrefix(s.Path(), dir) {
		t.Errorf("file %q not inside %q", s.Path(), dir)
	}
}

func TestCSVSinkNoFileUntilFirstEvent(t *testing.T) {
	dir := t.TempDir()
	s, err := NewCSVSink(dir, "", time.Now())
	if err != nil {
		t.Fatalf("NewCSVSink: %v", err)
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Errorf("csv file exists before any event (err=%v)", err)
	}
}
