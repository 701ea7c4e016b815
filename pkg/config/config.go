// Package config loads halftime settings from the environment and an
// optional YAML presets file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is read from HALFTIME_* environment variables.
type Config struct {
	DBPath      string `env:"HALFTIME_DB"`
	PresetsPath string `env:"HALFTIME_CONFIG"`
	LogLevel    string `env:"HALFTIME_LOG_LEVEL" envDefault:"warn"`
	HTTPAddr    string `env:"HALFTIME_HTTP_ADDR" envDefault:"127.0.0.1:8090"`
	BaseURL     string `env:"HALFTIME_BASE_URL"`
}

// ParseEnv loads Config from the process environment.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Presets are the draw defaults a user can pin in a YAML file.
type Presets struct {
	Duration            time.Duration `yaml:"duration"`
	SlotsPerParticipant int           `yaml:"slots_per_participant"`
	PerRound            bool          `yaml:"per_round"`
	Surprise            bool          `yaml:"surprise"`
	Units               string        `yaml:"units"`
}

// DefaultPresets is a 90 minute game, one slot each, flat shuffle.
func DefaultPresets() Presets {
	return Presets{
		Duration:            90 * time.Minute,
		SlotsPerParticipant: 1,
		Units:               "hms",
	}
}

// LoadPresets reads a presets file over the defaults. Keys missing from the
// file keep their default value. An empty path or a missing file yields the
// defaults.
func LoadPresets(path string) (Presets, error) {
	p := DefaultPresets()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("read presets: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse presets %s: %w", path, err)
	}
	if err := p.validate(); err != nil {
		return p, fmt.Errorf("presets %s: %w", path, err)
	}
	return p, nil
}

func (p Presets) validate() error {
	if p.Duration < time.Second {
		return fmt.Errorf("duration %v is shorter than one second", p.Duration)
	}
	if p.Duration%time.Second != 0 {
		return fmt.Errorf("duration %v is not a whole number of seconds", p.Duration)
	}
	if p.SlotsPerParticipant < 1 {
		return fmt.Errorf("slots_per_participant must be at least 1, got %d", p.SlotsPerParticipant)
	}
	switch p.Units {
	case "hms", "ms":
	default:
		return fmt.Errorf("units must be hms or ms, got %q", p.Units)
	}
	return nil
}
