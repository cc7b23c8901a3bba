package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Monitor MonitorConfig `yaml:"monitor"`
	Sinks   SinksConfig   `yaml:"sinks"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type MonitorConfig struct {
	// PollInterval is the fixed delay between routing-table polls.
	PollInterval time.Duration `yaml:"poll_interval"`
	// AcquireTimeout bounds a single snapshot acquisition. A poll that
	// exceeds it is treated as a skipped tick.
	AcquireTimeout time.Duration `yaml:"acquire_timeout"`
	// Source selects the snapshot source: "command" (ip route),
	// "netlink" (rtnetlink, Linux only), or "mock".
	Source string `yaml:"source"`
	// IPv6 makes the command source capture the IPv6 table as well.
	IPv6 bool `yaml:"ipv6"`
	// HistorySize is the number of change events retained for the
	// HTTP/websocket API. Zero disables history.
	HistorySize int `yaml:"history_size"`
	// HealthFailureThreshold is the number of consecutive acquisition
	// failures after which the source is reported as failed.
	HealthFailureThreshold int `yaml:"health_failure_threshold"`
	// BroadcastThrottle is the websocket coalescing window for change
	// events.
	BroadcastThrottle time.Duration `yaml:"broadcast_throttle"`
	// SnapshotInterval is how often the full table is rebroadcast to
	// websocket clients.
	SnapshotInterval time.Duration `yaml:"snapshot_interval"`
}

type SinksConfig struct {
	// Console enables logging each change event to the process log.
	Console bool `yaml:"console"`
	// CSVDir, when set, enables the CSV sink writing into this directory.
	CSVDir string `yaml:"csv_dir"`
	// DOTPath, when set, enables the Graphviz topology sink writing to
	// this file after every change.
	DOTPath string `yaml:"dot_path"`
	// FilePrefix is an optional prefix for generated file names.
	FilePrefix string `yaml:"file_prefix"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
			Host: "0.0.0.0",
		},
		Monitor: MonitorConfig{
			PollInterval:           10 * time.Second,
			AcquireTimeout:         5 * time.Second,
			Source:                 "command",
			HistorySize:            100,
			HealthFailureThreshold: 3,
			BroadcastThrottle:      100 * time.Millisecond,
			SnapshotInterval:       5 * time.Second,
		},
		Sinks: SinksConfig{
			Console: true,
		},
	}
}

// Load reads a yaml config file over the defaults. A missing file is not
// an error; the defaults are returned so the daemon can run unconfigured.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the invariants that must hold before the monitor loop is
// allowed to start. These are the only fatal errors in the system; every
// failure after startup degrades to a skipped tick or an isolated sink
// error instead.
func (c *Config) Validate() error {
	if c.Monitor.PollInterval <= 0 {
		return fmt.Errorf("monitor.poll_interval must be positive, got %s", c.Monitor.PollInterval)
	}
	if c.Monitor.AcquireTimeout <= 0 {
		return fmt.Errorf("monitor.acquire_timeout must be positive, got %s", c.Monitor.AcquireTimeout)
	}
	switch c.Monitor.Source {
	case "command", "netlink", "mock":
	default:
		return fmt.Errorf("monitor.source must be one of command, netlink, mock; got %q", c.Monitor.Source)
	}
	if c.Monitor.BroadcastThrottle <= 0 {
		return fmt.Errorf("monitor.broadcast_throttle must be positive, got %s", c.Monitor.BroadcastThrottle)
	}
	if c.Monitor.SnapshotInterval <= 0 {
		return fmt.Errorf("monitor.snapshot_interval must be positive, got %s", c.Monitor.SnapshotInterval)
	}
	if c.Monitor.HistorySize < 0 {
		return fmt.Errorf("monitor.history_size must not be negative, got %d", c.Monitor.HistorySize)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port)
	}
	return nil
}
