// Package config loads the phasetrack configuration file: how to reach the
// dispatch backend and where to deliver notifications.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/campushub/phasetrack/internal/infrastructure/messaging"
)

const DefaultFile = "phasetrack.yaml"

// BackendConfig describes the dispatch backend process and call behaviour.
type BackendConfig struct {
	Command        string   `yaml:"command"`
	Args           []string `yaml:"args,omitempty"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
	MaxAttempts    int      `yaml:"max_attempts"`
	InitialDelayMS int      `yaml:"initial_delay_ms"`
}

// Timeout returns the per-operation timeout.
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// InitialDelay returns the first retry delay.
func (b BackendConfig) InitialDelay() time.Duration {
	return time.Duration(b.InitialDelayMS) * time.Millisecond
}

// Config is the full phasetrack configuration.
type Config struct {
	Backend        BackendConfig             `yaml:"backend"`
	Messaging      []messaging.AdapterConfig `yaml:"messaging,omitempty"`
	DeadLetterFile string                    `yaml:"dead_letter_file,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			Command:        "phasetrack-backend",
			TimeoutSeconds: 30,
			MaxAttempts:    3,
			InitialDelayMS: 500,
		},
	}
}

// Load reads the configuration file, falling back to defaults when the file
// is absent. Missing backend fields are filled from the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	def := Default().Backend
	if cfg.Backend.Command == "" {
		cfg.Backend.Command = def.Command
	}
	if cfg.Backend.TimeoutSeconds <= 0 {
		cfg.Backend.TimeoutSeconds = def.TimeoutSeconds
	}
	if cfg.Backend.MaxAttempts <= 0 {
		cfg.Backend.MaxAttempts = def.MaxAttempts
	}
	if cfg.Backend.InitialDelayMS <= 0 {
		cfg.Backend.InitialDelayMS = def.InitialDelayMS
	}
	return cfg, nil
}

// Save writes the configuration file.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if path == "" {
		path = DefaultFile
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
