// Package config loads and validates the scenario file driving a run.
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

	"github.com/voltride/fleetsim/infra/metrics"
	"github.com/voltride/fleetsim/infra/mqtt"
)

// Config is the full scenario: simulation parameters, fleet and
// infrastructure layout, the request feed and the reporting sinks.
type Config struct {
	Sim      SimConfig       `json:"sim"`
	Fleet    FleetConfig     `json:"fleet"`
	Stations []StationConfig `json:"stations"`
	Bases    []BaseConfig    `json:"bases"`
	Requests RequestsConfig  `json:"requests"`
	Metrics  metrics.Config  `json:"metrics"`
	MQTT     mqtt.Config     `json:"mqtt"`
	Logging  LoggingConfig   `json:"logging"`
}

// Load reads the scenario at path, applies FS_-prefixed environment
// overrides and validates the result.
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
	if err := k.Load(env.Provider("FS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "fs_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Sim.SetDefaults()
	cfg.Fleet.SetDefaults()
	cfg.Requests.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.MQTT.SetDefaults()
	cfg.Logging.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Sim.Validate(); err != nil {
		return err
	}
	if err := c.Fleet.Validate(); err != nil {
		return err
	}
	for _, s := range c.Stations {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	for _, b := range c.Bases {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	if err := c.Requests.Validate(); err != nil {
		return err
	}
	if err := c.MQTT.Validate(); err != nil {
		return err
	}
	return c.Logging.Validate()
}
