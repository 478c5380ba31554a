// Package config loads the service configuration from a YAML or JSON
// file with optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"logistics/core/events"
	"logistics/core/waybill"
	"logistics/infra/mqtt"
)

type Config struct {
	HTTP     HTTPConfig     `json:"http"`
	Database DatabaseConfig `json:"database"`
	Kafka    KafkaConfig    `json:"kafka"`
	MQTT     mqtt.Config    `json:"mqtt"`
	Waybill  WaybillConfig  `json:"waybill"`
	Metrics  MetricsConfig  `json:"metrics"`
}

// HTTPConfig configures the REST gateway listener.
type HTTPConfig struct {
	Addr string `json:"addr"`
}

func (c *HTTPConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// DatabaseConfig selects the persistence backend.
type DatabaseConfig struct {
	// Backend selects the store type: "sqlite", "postgres" or "memory".
	Backend string `json:"backend"`
	// Path is the sqlite file location.
	Path string `json:"path"`
	// URL is the postgres connection string.
	URL string `json:"url"`
	// Seed loads the demo fleet when the vehicle table is empty.
	Seed bool `json:"seed"`
}

func (c *DatabaseConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "sqlite"
	}
	if c.Path == "" {
		c.Path = "logistics.db"
	}
}

func (c DatabaseConfig) Validate() error {
	switch c.Backend {
	case "sqlite", "memory":
		return nil
	case "postgres":
		if c.URL == "" {
			return fmt.Errorf("database url is required for the postgres backend")
		}
		return nil
	default:
		return fmt.Errorf("unknown database backend %s", c.Backend)
	}
}

// KafkaConfig configures the broker connection and destinations. An
// empty broker list disables the event flows.
type KafkaConfig struct {
	Brokers       []string `json:"brokers"`
	RoutesTopic   string   `json:"routes_topic"`
	DispatchQueue string   `json:"dispatch_queue"`
}

func (c *KafkaConfig) SetDefaults() {
	if c.RoutesTopic == "" {
		c.RoutesTopic = events.TopicRoutes
	}
	if c.DispatchQueue == "" {
		c.DispatchQueue = events.QueueDispatch
	}
}

// Enabled reports whether a broker is configured.
func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 }

// WaybillConfig configures waybill document storage.
type WaybillConfig struct {
	StorageDir string `json:"storage_dir"`
}

func (c *WaybillConfig) SetDefaults() {
	if c.StorageDir == "" {
		c.StorageDir = waybill.DefaultStorageDir
	}
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
}

func (c *MetricsConfig) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = "9090"
	}
}

// Load reads the configuration file, applies K_-prefixed environment
// overrides, defaults and validation.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.HTTP.SetDefaults()
	cfg.Database.SetDefaults()
	cfg.Kafka.SetDefaults()
	cfg.MQTT.SetDefaults()
	cfg.Waybill.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.Database.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.MQTT.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
