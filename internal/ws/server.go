package ws

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/shirou/gopsutil/v3/host"
	psnet "github.com/shirou/gopsutil/v3/net"

	"github.com/routewatch/backend/internal/monitor"
	"github.com/routewatch/backend/internal/route"
)

// Server exposes the monitor's state over HTTP: the current table, recent
// change history, a status endpoint, and the websocket stream.
type Server struct {
	store       *route.TableStore
	mon         *monitor.Monitor
	broadcaster *Broadcaster
}

func NewServer(store *route.TableStore, mon *monitor.Monitor, broadcaster *Broadcaster) *Server {
	return &Server{
		store:       store,
		mon:         mon,
		broadcaster: broadcaster,
	}
}

func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/api/routes", s.handleRoutes)
	mux.HandleFunc("/api/changes", s.handleChanges)
	mux.HandleFunc("/api/status", s.handleStatus)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: checkOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade error: %v", err)
		return
	}

	log.Printf("[ws] client connected: %s", r.RemoteAddr)
	c := s.broadcaster.AddClient(conn)

	go func() {
		defer func() {
			s.broadcaster.RemoveClient(c)
			log.Printf("[ws] client disconnected: %s", r.RemoteAddr)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Current()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SnapshotPayload{
		CapturedAt: snap.At(),
		Routes:     snap.Records(),
		Summary:    snap.Summary(),
	})
}

func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.store.RecentChanges())
}

type hostStatus struct {
	Hostname      string `json:"hostname"`
	OS            string `json:"os"`
	Platform      string `json:"platform"`
	UptimeSeconds uint64 `json:"uptimeSeconds"`
}

type interfaceStatus struct {
	Name        string `json:"name"`
	BytesSent   uint64 `json:"bytesSent"`
	BytesRecv   uint64 `json:"bytesRecv"`
	PacketsSent uint64 `json:"packetsSent"`
	PacketsRecv uint64 `json:"packetsRecv"`
}

type statusResponse struct {
	Monitor    monitor.HealthReport `json:"monitor"`
	Summary    route.Summary        `json:"summary"`
	Clients    int                  `json:"clients"`
	Host       *hostStatus          `json:"host,omitempty"`
	Interfaces []interfaceStatus    `json:"interfaces,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Monitor: s.mon.Health(),
		Summary: s.store.Summary(),
		Clients: s.broadcaster.ClientCount(),
	}

	// Host and NIC details are best-effort decoration; the status
	// endpoint still answers if gopsutil can't read them.
	if info, err := host.Info(); err == nil {
		resp.Host = &hostStatus{
			Hostname:      info.Hostname,
			OS:            info.OS,
			Platform:      info.Platform,
			UptimeSeconds: info.Uptime,
		}
	}
	if counters, err := psnet.IOCounters(true); err == nil {
		for _, c := range counters {
			resp.Interfaces = append(resp.Interfaces, interfaceStatus{
				Name:        c.Name,
				BytesSent:   c.BytesSent,
				BytesRecv:   c.BytesRecv,
				PacketsSent: c.PacketsSent,
				PacketsRecv: c.PacketsRecv,
			})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// checkOrigin accepts same-host and localhost origins. The daemon serves
// a local operator dashboard, not a public site.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}

	h := parsed.Host
	if h == "" {
		return false
	}
	if h == r.Host {
		return true
	}
	if strings.HasPrefix(h, "localhost:") || h == "localhost" {
		return true
	}
	if strings.HasPrefix(h, "127.0.0.1:") || h == "127.0.0.1" {
		return true
	}
	if strings.HasPrefix(h, "[::1]:") || h == "::1" {
		return true
	}

	return false
}

func ListenAndServe(hostAddr string, port int, mux *http.ServeMux) error {
	addr := fmt.Sprintf("%s:%d", hostAddr, port)
	log.Printf("[ws] server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
