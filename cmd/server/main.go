package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/routewatch/backend/internal/config"
	"github.com/routewatch/backend/internal/monitor"
	"github.com/routewatch/backend/internal/route"
	"github.com/routewatch/backend/internal/sink"
	"github.com/routewatch/backend/internal/ws"
)

func main() {
	mockMode := flag.Bool("mock", false, "Use scripted mock route tables")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	port := flag.Int("port", 0, "Override server port")
	interval := flag.Duration("interval", 0, "Override poll interval")
	sourceName := flag.String("source", "", "Override snapshot source (command, netlink, mock)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *interval > 0 {
		cfg.Monitor.PollInterval = *interval
	}
	if *sourceName != "" {
		cfg.Monitor.Source = *sourceName
	}
	if *mockMode {
		cfg.Monitor.Source = "mock"
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	src, err := buildSource(cfg)
	if err != nil {
		log.Fatalf("Failed to set up snapshot source: %v", err)
	}

	store := route.NewTableStore(cfg.Monitor.HistorySize)
	broadcaster := ws.NewBroadcaster(store, cfg.Monitor.BroadcastThrottle, cfg.Monitor.SnapshotInterval)

	mon := monitor.New(cfg, src, store)
	mon.SetHealthNotify(broadcaster.BroadcastHealth)
	mon.AddSink(ws.NewBroadcastSink(broadcaster))

	if cfg.Sinks.Console {
		mon.AddSink(sink.NewConsoleSink(store))
	}
	if cfg.Sinks.CSVDir != "" {
		csvSink, err := sink.NewCSVSink(cfg.Sinks.CSVDir, cfg.Sinks.FilePrefix, time.Now())
		if err != nil {
			log.Fatalf("Failed to set up CSV sink: %v", err)
		}
		log.Printf("Recording changes to %s", csvSink.Path())
		mon.AddSink(csvSink)
	}
	if cfg.Sinks.DOTPath != "" {
		log.Printf("Rendering topology to %s", cfg.Sinks.DOTPath)
		mon.AddSink(sink.NewDOTSink(store, cfg.Sinks.DOTPath))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go mon.Run(ctx)

	server := ws.NewServer(store, mon, broadcaster)
	mux := http.NewServeMux()
	server.SetupRoutes(mux)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		cancel()
		os.Exit(0)
	}()

	if err := ws.ListenAndServe(cfg.Server.Host, cfg.Server.Port, mux); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// buildSource constructs the snapshot source selected by configuration.
func buildSource(cfg *config.Config) (monitor.Source, error) {
	switch cfg.Monitor.Source {
	case "netlink":
		return monitor.NewNetlinkSource(cfg.Monitor.IPv6)
	case "mock":
		src := monitor.NewMockSource(monitor.DemoScript())
		src.HoldLast = true
		return src, nil
	default:
		return monitor.NewCommandSource(cfg.Monitor.IPv6), nil
	}
}
