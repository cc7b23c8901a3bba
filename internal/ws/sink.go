package ws

import (
	"github.com/routewatch/backend/internal/route"
)

// BroadcastSink adapts the broadcaster to the monitor's sink interface so
// websocket clients are just another registered change-event consumer.
type BroadcastSink struct {
	b *Broadcaster
}

func NewBroadcastSink(b *Broadcaster) *BroadcastSink {
	return &BroadcastSink{b: b}
}

func (s *BroadcastSink) Name() string { return "websocket" }

func (s *BroadcastSink) OnChange(ev route.ChangeEvent) error {
	s.b.QueueChange(ev)
	return nil
}
