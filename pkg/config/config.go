package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fairtick/fairtick/pkg/types"
)

// Config mirrors the optional YAML configuration file.
type Config struct {
	SocketPath string `yaml:"socket_path"` // event producer endpoint
	CPUs       int    `yaml:"cpus"`        // logical CPU count, 1..128
	Quantum    int    `yaml:"quantum"`     // ms of runtime per tick
	Metadata   bool   `yaml:"metadata"`    // include meta in decisions

	HistoryDir    string `yaml:"history_dir"`    // empty disables the decision log
	ListenMetrics string `yaml:"listen_metrics"` // empty disables the HTTP listener

	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SocketPath: "event.socket",
		CPUs:       4,
		Quantum:    1,
		LogLevel:   "info",
	}
}

// Load reads YAML from path and overlays it on the defaults. An empty path
// returns the defaults; a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields the engine cannot clamp its way around.
func (c Config) Validate() error {
	if c.CPUs < 1 || c.CPUs > types.MaxCPUs {
		return fmt.Errorf("invalid cpu count %d (must be 1-%d)", c.CPUs, types.MaxCPUs)
	}
	if c.Quantum < 1 {
		return fmt.Errorf("invalid quantum %d (must be > 0)", c.Quantum)
	}
	if c.SocketPath == "" {
		return fmt.Errorf("socket path must not be empty")
	}
	return nil
}
