package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	StorageNone     = "none"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// EngineConfig is engine.yaml with SENTIENT_* environment overrides.
type EngineConfig struct {
	Version int `yaml:"version"`
	Engine  struct {
		TickHz  int    `yaml:"tick_hz" env:"SENTIENT_TICK_HZ"`
		SkipKey string `yaml:"skip_key" env:"SENTIENT_SKIP_KEY"`
		Reveal  struct {
			DefaultMs int            `yaml:"default_ms" env:"SENTIENT_REVEAL_DEFAULT_MS"`
			Pauses    map[string]int `yaml:"pauses"`
		} `yaml:"reveal"`
	} `yaml:"engine"`
	Cutscene struct {
		Path string `yaml:"path" env:"SENTIENT_CUTSCENE"`
		// Library is a directory of documents reachable by cross-cutscene jumps.
		Library string `yaml:"library" env:"SENTIENT_CUTSCENE_LIBRARY"`
	} `yaml:"cutscene"`
	Network struct {
		APIPort int `yaml:"api_port" env:"SENTIENT_API_PORT"`
	} `yaml:"network"`
	MQTT struct {
		URL         string `yaml:"url" env:"MQTT_URL"`
		ClientID    string `yaml:"client_id" env:"SENTIENT_MQTT_CLIENT_ID"`
		TopicPrefix string `yaml:"topic_prefix" env:"SENTIENT_MQTT_TOPIC_PREFIX"`
	} `yaml:"mqtt"`
	Storage struct {
		Driver string `yaml:"driver" env:"SENTIENT_STORAGE_DRIVER"`
		Path   string `yaml:"path" env:"SENTIENT_STORAGE_PATH"`
	} `yaml:"storage"`
	Session struct {
		RoomID string `yaml:"room_id" env:"SENTIENT_ROOM_ID"`
	} `yaml:"session"`
}

// Default returns the configuration used when no engine.yaml is given.
func Default() *EngineConfig {
	var cfg EngineConfig
	cfg.Version = 1
	cfg.applyDefaults()
	return &cfg
}

func (c *EngineConfig) applyDefaults() {
	if c.Engine.TickHz <= 0 {
		c.Engine.TickHz = 60
	}
	if c.Engine.SkipKey == "" {
		c.Engine.SkipKey = "space"
	}
	if c.Engine.Reveal.DefaultMs <= 0 {
		c.Engine.Reveal.DefaultMs = 32
	}
	if c.Network.APIPort == 0 {
		c.Network.APIPort = 8080
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = "sentient-cutscene"
	}
	if c.MQTT.TopicPrefix == "" {
		c.MQTT.TopicPrefix = "sentient/cutscene"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageNone
	}
	if c.Storage.Driver == StorageSQLite && c.Storage.Path == "" {
		c.Storage.Path = "cutscene-events.db"
	}
	if c.Session.RoomID == "" {
		c.Session.RoomID = "default"
	}
}

// Validate checks values that defaults cannot repair.
func (c *EngineConfig) Validate() error {
	switch c.Storage.Driver {
	case StorageNone, StoragePostgres, StorageSQLite:
	default:
		return fmt.Errorf("unknown storage driver: %s", c.Storage.Driver)
	}
	for k := range c.Engine.Reveal.Pauses {
		if len([]rune(k)) != 1 {
			return fmt.Errorf("reveal pause key must be a single character: %q", k)
		}
	}
	if c.Engine.TickHz > 1000 {
		return fmt.Errorf("tick_hz above 1000 would tick faster than 1ms: %d", c.Engine.TickHz)
	}
	return nil
}

// TickInterval is how often the player updates the orchestrator, in
// milliseconds.
func (c *EngineConfig) TickInterval() int {
	return 1000 / c.Engine.TickHz
}

// RevealPauses returns the configured punctuation pauses keyed by rune.
func (c *EngineConfig) RevealPauses() map[rune]int {
	out := make(map[rune]int, len(c.Engine.Reveal.Pauses))
	for k, v := range c.Engine.Reveal.Pauses {
		if r := []rune(k); len(r) == 1 {
			out[r[0]] = v
		}
	}
	return out
}

// LoadEngineConfig reads engine.yaml, applies SENTIENT_* overrides and fills
// defaults. An empty path skips the file.
func LoadEngineConfig(path string) (*EngineConfig, error) {
	var cfg EngineConfig
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, err
		}
		if cfg.Version != 1 {
			return nil, fmt.Errorf("unsupported engine.yaml version: %d", cfg.Version)
		}
	} else {
		cfg.Version = 1
	}

	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseEnv loads environment overrides into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
