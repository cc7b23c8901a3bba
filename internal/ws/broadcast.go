package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/routewatch/backend/internal/monitor"
	"github.com/routewatch/backend/internal/route"
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *client {
	c := &client{
		conn: conn,
		send: make(chan []byte, 64),
	}
	go c.writePump()
	return c
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (c *client) close() {
	close(c.send)
}

// Broadcaster fans routing-table messages out to connected websocket
// clients. Change events are queued and flushed after a short throttle so
// bursts of ticks coalesce into one frame; full snapshots go out on
// connect and on a periodic rebroadcast interval.
type Broadcaster struct {
	mu             sync.RWMutex
	clients        map[*client]bool
	store          *route.TableStore
	throttle       time.Duration
	snapshotTicker *time.Ticker
	pendingEvents  []route.ChangeEvent
	flushTimer     *time.Timer
	flushMu        sync.Mutex
}

func NewBroadcaster(store *route.TableStore, throttle, snapshotInterval time.Duration) *Broadcaster {
	b := &Broadcaster{
		clients:  make(map[*client]bool),
		store:    store,
		throttle: throttle,
	}

	b.snapshotTicker = time.NewTicker(snapshotInterval)
	go b.snapshotLoop()

	return b
}

func (b *Broadcaster) AddClient(conn *websocket.Conn) *client {
	c := newClient(conn)

	b.mu.Lock()
	b.clients[c] = true
	b.mu.Unlock()

	data, _ := json.Marshal(b.snapshotMessage())

	select {
	case c.send <- data:
	default:
		// Client too slow, drop the snapshot
	}

	return c
}

func (b *Broadcaster) RemoveClient(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		c.close()
	}
	b.mu.Unlock()
}

// QueueChange schedules a change event broadcast. Events queued within
// the throttle window are flushed together, one frame per event.
func (b *Broadcaster) QueueChange(ev route.ChangeEvent) {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	b.pendingEvents = append(b.pendingEvents, ev)

	if b.flushTimer == nil {
		b.flushTimer = time.AfterFunc(b.throttle, b.flush)
	}
}

// BroadcastHealth sends a source health transition to all clients
// immediately, bypassing the throttle.
func (b *Broadcaster) BroadcastHealth(rep monitor.HealthReport) {
	b.broadcast(WSMessage{
		Type:    MsgSourceHealth,
		Payload: SourceHealthPayload{Health: rep},
	})
}

func (b *Broadcaster) flush() {
	b.flushMu.Lock()
	events := b.pendingEvents
	b.pendingEvents = nil
	b.flushTimer = nil
	b.flushMu.Unlock()

	for _, ev := range events {
		b.broadcast(WSMessage{
			Type:    MsgChange,
			Payload: ChangePayload{Event: ev},
		})
	}
}

func (b *Broadcaster) snapshotLoop() {
	for range b.snapshotTicker.C {
		b.broadcast(b.snapshotMessage())
	}
}

func (b *Broadcaster) snapshotMessage() WSMessage {
	snap := b.store.Current()
	return WSMessage{
		Type: MsgSnapshot,
		Payload: SnapshotPayload{
			CapturedAt: snap.At(),
			Routes:     snap.Records(),
			Summary:    snap.Summary(),
		},
	}
}

func (b *Broadcaster) broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[ws] broadcast marshal error: %v", err)
		return
	}

	b.mu.RLock()
	clients := make([]*client, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- data:
		default:
			// Client can't keep up, disconnect it
			log.Printf("[ws] client too slow, disconnecting")
			b.RemoveClient(c)
		}
	}
}

func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}
