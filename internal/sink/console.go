package sink

import (
	"log"

	"github.com/routewatch/backend/internal/route"
)

// ConsoleSink writes each change event to the process log, one line per
// added or removed route, followed by a summary of the table shape.
type ConsoleSink struct {
	store *route.TableStore
}

func NewConsoleSink(store *route.TableStore) *ConsoleSink {
	return &ConsoleSink{store: store}
}

func (s *ConsoleSink) Name() string { return "console" }

func (s *ConsoleSink) OnChange(ev route.ChangeEvent) error {
	log.Printf("[console] routing change detected (+%d -%d, event %s)", len(ev.Added), len(ev.Removed), ev.ID)
	for i := range ev.Added {
		log.Printf("[console]   added:   %s", ev.Added[i].String())
	}
	for i := range ev.Removed {
		log.Printf("[console]   removed: %s", ev.Removed[i].String())
	}

	sum := s.store.Summary()
	if sum.DefaultGateway != "" {
		log.Printf("[console] table now: %d routes (%d direct, %d via gateway), default via %s",
			sum.Total, sum.Direct, sum.ViaGateway, sum.DefaultGateway)
	} else {
		log.Printf("[console] table now: %d routes (%d direct, %d via gateway)",
			sum.Total, sum.Direct, sum.ViaGateway)
	}
	return nil
}
