// Package config loads the typed application configuration from an
// optional YAML file. Every field falls back to its default
// individually when missing or invalid; a bad file never aborts
// startup.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/elodiecarel/reverie/internal/logger"
)

// Config holds the runtime tunables.
type Config struct {
	RevealIntervalMS int     `yaml:"reveal_interval_ms"` // delay between revealed characters
	RetryAttempts    int     `yaml:"retry_attempts"`     // repeat-avoidance resample budget
	RecentWindow     int     `yaml:"recent_window"`      // repeat-avoidance window capacity
	HistoryCapacity  int     `yaml:"history_capacity"`
	TickVolume       float64 `yaml:"tick_volume"` // [0, 1]
	NoticeDismissMS  int     `yaml:"notice_dismiss_ms"`
	DataDir          string  `yaml:"data_dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		RevealIntervalMS: 45,
		RetryAttempts:    5,
		RecentWindow:     10,
		HistoryCapacity:  1000,
		TickVolume:       0.8,
		NoticeDismissMS:  3500,
		DataDir:          ".reverie",
	}
}

// Load reads the config file at path. A missing file yields defaults
// silently; a corrupt file or invalid field is logged and replaced by
// its default, field by field.
func Load(path string, log *logger.Logger) Config {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("reading config %s: %v (using defaults)", path, err)
		}
		return cfg
	}

	// Unmarshal on top of the defaults so omitted fields keep them.
	loaded := Default()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		log.Warn("parsing config %s: %v (using defaults)", path, err)
		return cfg
	}

	return sanitize(loaded, log)
}

// sanitize validates each field against its bounds, reverting invalid
// values to their defaults individually.
func sanitize(c Config, log *logger.Logger) Config {
	def := Default()
	revert := func(field string, def any) {
		log.Warn("config: invalid %s, using default %v", field, def)
	}

	if c.RevealIntervalMS < 1 || c.RevealIntervalMS > 2000 {
		revert("reveal_interval_ms", def.RevealIntervalMS)
		c.RevealIntervalMS = def.RevealIntervalMS
	}
	if c.RetryAttempts < 0 || c.RetryAttempts > 100 {
		revert("retry_attempts", def.RetryAttempts)
		c.RetryAttempts = def.RetryAttempts
	}
	if c.RecentWindow < 1 || c.RecentWindow > 1000 {
		revert("recent_window", def.RecentWindow)
		c.RecentWindow = def.RecentWindow
	}
	if c.HistoryCapacity < 1 {
		revert("history_capacity", def.HistoryCapacity)
		c.HistoryCapacity = def.HistoryCapacity
	}
	if c.TickVolume < 0 || c.TickVolume > 1 {
		revert("tick_volume", def.TickVolume)
		c.TickVolume = def.TickVolume
	}
	if c.NoticeDismissMS < 500 {
		revert("notice_dismiss_ms", def.NoticeDismissMS)
		c.NoticeDismissMS = def.NoticeDismissMS
	}
	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
	return c
}

// RevealInterval returns the reveal delay as a duration.
func (c Config) RevealInterval() time.Duration {
	return time.Duration(c.RevealIntervalMS) * time.Millisecond
}

// NoticeDismiss returns the auto-dismiss delay as a duration.
func (c Config) NoticeDismiss() time.Duration {
	return time.Duration(c.NoticeDismissMS) * time.Millisecond
}

// String renders the effective configuration for startup logging.
func (c Config) String() string {
	return fmt.Sprintf("reveal=%dms retries=%d window=%d cap=%d volume=%.2f dismiss=%dms dir=%s",
		c.RevealIntervalMS, c.RetryAttempts, c.RecentWindow, c.HistoryCapacity,
		c.TickVolume, c.NoticeDismissMS, c.DataDir)
}
