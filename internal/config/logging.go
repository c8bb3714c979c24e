package config

import "trajdraw/internal/logging"

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level" json:"level,omitempty"`           // debug, info, warn, error
	Format     string          `yaml:"format" json:"format,omitempty"`         // json, text
	File       string          `yaml:"file" json:"file,omitempty"`             // empty = stderr (non-interactive commands)
	DebugMode  bool            `yaml:"debug_mode" json:"debug_mode,omitempty"` // enables category filters and stack traces
	Categories map[string]bool `yaml:"categories" json:"categories,omitempty"` // Per-category toggles
}

// Options converts the config for logging.Initialize. file overrides File
// when non-empty.
func (c *LoggingConfig) Options(file string) logging.Options {
	if file == "" {
		file = c.File
	}
	return logging.Options{
		Level:      c.Level,
		Format:     c.Format,
		File:       file,
		DebugMode:  c.DebugMode,
		Categories: c.Categories,
	}
}
