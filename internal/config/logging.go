package config

import (
	"path/filepath"

	"github.com/Pratyush-06/Barista-Agent/internal/logging"
)

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`      // debug, info, warn, error
	Format     string          `yaml:"format"`     // json, console
	DebugMode  bool            `yaml:"debug_mode"` // also write a dated file under Dir
	Dir        string          `yaml:"dir"`        // relative paths resolve under DataDir
	Categories map[string]bool `yaml:"categories"` // Per-category toggles
}

// LoggingOptions converts the logging section for logging.Initialize.
func (c *Config) LoggingOptions() logging.Options {
	dir := c.Logging.Dir
	if dir != "" && !filepath.IsAbs(dir) {
		dir = c.DataPath(dir)
	}
	return logging.Options{
		Level:      c.Logging.Level,
		Format:     c.Logging.Format,
		DebugMode:  c.Logging.DebugMode,
		Dir:        dir,
		Categories: c.Logging.Categories,
	}
}
