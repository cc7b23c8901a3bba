package sink

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/routewatch/backend/internal/route"
)

// DOTSink rewrites a Graphviz DOT rendering of the current topology after
// every change event: the host at the center, the default gateway if one
// exists, directly connected destinations hanging off the host, and
// gateway routes reached through their next hop.
type DOTSink struct {
	store *route.TableStore
	path  string
}

func NewDOTSink(store *route.TableStore, path string) *DOTSink {
	return &DOTSink{store: store, path: path}
}

func (s *DOTSink) Name() string { return "dot" }

func (s *DOTSink) OnChange(route.ChangeEvent) error {
	dot := RenderDOT(s.store.Current())

	// Write-then-rename so readers never see a half-written graph.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(dot), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("renaming %s: %w", tmp, err)
	}
	return nil
}

// RenderDOT builds the DOT text for a snapshot. Records are sorted so the
// output is deterministic for a given table.
func RenderDOT(snap route.Snapshot) string {
	records := snap.Records()
	sort.Slice(records, func(i, j int) bool {
		return records[i].String() < records[j].String()
	})

	defaultGW := snap.Summary().DefaultGateway

	var b strings.Builder
	b.WriteString("digraph topology {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  \"this-host\" [style=filled, fillcolor=lightblue];\n")
	if defaultGW != "" {
		fmt.Fprintf(&b, "  %s [style=filled, fillcolor=yellow];\n", dotID(defaultGW))
		fmt.Fprintf(&b, "  \"this-host\" -> %s;\n", dotID(defaultGW))
	}

	for i := range records {
		r := &records[i]
		if r.Destination == "default" {
			continue
		}
		fmt.Fprintf(&b, "  %s [style=filled, fillcolor=green];\n", dotID(r.Destination))
		switch {
		case !r.HasGateway():
			fmt.Fprintf(&b, "  \"this-host\" -> %s [label=%s];\n", dotID(r.Destination), dotID(r.Interface))
		case r.Gateway == defaultGW:
			fmt.Fprintf(&b, "  %s -> %s;\n", dotID(defaultGW), dotID(r.Destination))
		default:
			// Route via a non-default next hop: show the hop itself.
			fmt.Fprintf(&b, "  %s [style=filled, fillcolor=orange];\n", dotID(r.Gateway))
			fmt.Fprintf(&b, "  \"this-host\" -> %s;\n", dotID(r.Gateway))
			fmt.Fprintf(&b, "  %s -> %s;\n", dotID(r.Gateway), dotID(r.Destination))
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// dotID quotes a node name for DOT output.
func dotID(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `\"`) + `"`
}
