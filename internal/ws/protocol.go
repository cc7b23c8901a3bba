package ws

import (
	"time"

	"github.com/routewatch/backend/internal/monitor"
	"github.com/routewatch/backend/internal/route"
)

type MessageType string

const (
	MsgSnapshot     MessageType = "snapshot"
	MsgChange       MessageType = "change"
	MsgSourceHealth MessageType = "source_health"
)

type WSMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// SnapshotPayload carries the full current routing table. Sent to each
// client on connect and rebroadcast periodically so late or reconnecting
// clients converge without replaying change history.
type SnapshotPayload struct {
	CapturedAt time.Time      `json:"capturedAt"`
	Routes     []route.Record `json:"routes"`
	Summary    route.Summary  `json:"summary"`
}

// ChangePayload carries one emitted change event.
type ChangePayload struct {
	Event route.ChangeEvent `json:"event"`
}

// SourceHealthPayload carries a source health transition.
type SourceHealthPayload struct {
	Health monitor.HealthReport `json:"health"`
}
