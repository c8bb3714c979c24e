// Package logging provides config-driven categorized logging for trajdraw.
// All categories share one zap core; each category is a named child logger.
// Until Initialize is called every logger is a no-op, so library code can
// log unconditionally.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot     Category = "boot"     // Startup, config resolution
	CategoryRecorder Category = "recorder" // Record list mutations, undo, clear
	CategoryExport   Category = "export"   // Text listing and code emission
	CategoryDrive    Category = "drive"    // Interactive input loop
	CategoryConfig   Category = "config"   // Config load, save, hot reload
	CategoryScript   Category = "script"   // Headless script driver
	CategoryPreview  Category = "preview"  // PNG preview rendering
)

// Options mirrors config.LoggingConfig to avoid an import cycle.
type Options struct {
	Level      string          // debug, info, warn, error
	Format     string          // json, text
	File       string          // empty = stderr
	DebugMode  bool            // false = only the root level applies, categories ignored
	Categories map[string]bool // per-category toggles, honoured in debug mode
}

var (
	mu         sync.RWMutex
	base       = zap.NewNop()
	opts       Options
	loggers    = make(map[Category]*zap.SugaredLogger)
	nopSugared = zap.NewNop().Sugar()
)

// Initialize builds the shared zap logger from o and replaces any previous one.
func Initialize(o Options) error {
	level, err := zap.ParseAtomicLevel(levelOrDefault(o.Level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", o.Level, err)
	}

	cfg := zap.NewProductionConfig()
	if o.Format != "json" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	}
	cfg.Level = level
	cfg.DisableStacktrace = !o.DebugMode

	if o.File != "" {
		if err := os.MkdirAll(filepath.Dir(o.File), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		cfg.OutputPaths = []string{o.File}
		cfg.ErrorOutputPaths = []string{o.File}
	} else {
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	install(l, o)

	Get(CategoryBoot).Debugw("logging initialized",
		"level", level.String(), "format", o.Format, "file", o.File, "debug_mode", o.DebugMode)
	return nil
}

// SetLogger installs an already built logger. Used by the CLI when the
// caller owns the zap config, and by tests with an observer core.
func SetLogger(l *zap.Logger, o Options) {
	if l == nil {
		l = zap.NewNop()
	}
	install(l, o)
}

func install(l *zap.Logger, o Options) {
	mu.Lock()
	defer mu.Unlock()
	_ = base.Sync()
	base = l
	opts = o
	loggers = make(map[Category]*zap.SugaredLogger)
}

// Reset restores the silent default.
func Reset() {
	install(zap.NewNop(), Options{})
}

// IsCategoryEnabled returns whether a specific category is enabled.
// Outside debug mode every category is enabled and only the level filters.
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return categoryEnabled(category)
}

func categoryEnabled(category Category) bool {
	if !opts.DebugMode || opts.Categories == nil {
		return true
	}
	enabled, exists := opts.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) the logger for a category.
func Get(category Category) *zap.SugaredLogger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	l := nopSugared
	if categoryEnabled(category) {
		l = base.Named(string(category)).Sugar()
	}
	loggers[category] = l
	return l
}

// Sync flushes buffered entries.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	return base.Sync()
}

// Timer logs the duration of an operation on completion:
//
//	defer logging.StartTimer(logging.CategoryExport, "emit").Stop()
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer starts timing op.
func StartTimer(category Category, op string) *Timer {
	return &Timer{category: category, op: op, start: time.Now()}
}

// Stop logs the elapsed time at debug level and returns it.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debugw(t.op+" completed", "elapsed", elapsed)
	return elapsed
}

func levelOrDefault(level string) string {
	switch level {
	case "":
		return "info"
	case "warning":
		return "warn"
	default:
		return level
	}
}
