/*
Package config loads the server configuration.

PURPOSE:
  One explicit config schema with defaults resolved at load time. The
  file is optional: a missing path yields the defaults, so the binary
  runs with no setup.

FILE FORMAT (YAML):
  port: 8080
  database: tenure.db
  guild: "Sindicato Sanidad"
  scheduler:
    enabled: true
    check_interval: 1h
*/
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config models the on-disk config schema.
type Config struct {
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`

	// Guild is the union affiliation eligible for tenure benefits.
	Guild string `yaml:"guild"`

	Scheduler Scheduler `yaml:"scheduler"`
}

type Scheduler struct {
	Enabled       bool     `yaml:"enabled"`
	CheckInterval Duration `yaml:"check_interval"`
}

// Duration decodes Go duration strings ("1h", "30m") from YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("bad duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Port:     8080,
		Database: "tenure.db",
		Guild:    "Sindicato Sanidad",
		Scheduler: Scheduler{
			Enabled:       true,
			CheckInterval: Duration(1 * time.Hour),
		},
	}
}

// Load reads a YAML config file, filling unset fields with defaults.
// An empty path or a missing file returns the defaults.
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

	if cfg.Port == 0 {
		cfg.Port = Default().Port
	}
	if cfg.Database == "" {
		cfg.Database = Default().Database
	}
	if cfg.Scheduler.CheckInterval == 0 {
		cfg.Scheduler.CheckInterval = Default().Scheduler.CheckInterval
	}
	return cfg, nil
}
