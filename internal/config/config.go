package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Exclude       Exclude       `toml:"exclude"`
	Watch         Watch         `toml:"watch"`
	Output        Output        `toml:"output"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// MaxRebuildsPerSecond caps how often file churn can trigger a full
	// re-inspection. Zero means one rebuild per second.
	MaxRebuildsPerSecond float64 `toml:"max_rebuilds_per_second"`
}

type Output struct {
	JSON string `toml:"json"`
	Text string `toml:"text"`
}

type History struct {
	// Path of the sqlite snapshot store. Empty disables history.
	Path string `toml:"path"`
}

type Observability struct {
	// MetricsAddr serves /metrics and /health during watch mode when set.
	MetricsAddr string `toml:"metrics_addr"`
	// OTLPEndpoint enables trace export when set.
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.MaxRebuildsPerSecond == 0 {
		cfg.Watch.MaxRebuildsPerSecond = 1
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{".git", "vendor", "node_modules", "testdata"}
	}
}
