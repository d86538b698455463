// Package logging provides config-driven categorized logging for framekit.
// Each category is a named child of the process zap logger. Debug mode
// forces the debug level; categories can be switched off individually.
package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/subsystem
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup, config loading
	CategoryCollect Category = "collect" // Directory scanning and assembly
	CategoryVerify  Category = "verify"  // Expected frame reconciliation
	CategoryDeliver Category = "deliver" // Sequence copies
	CategoryWatch   Category = "watch"   // Drop-folder watcher
	CategoryCatalog Category = "catalog" // Scan catalog persistence
)

// Options mirrors config.LoggingConfig to avoid an import cycle.
type Options struct {
	Level      string
	JSON       bool
	DebugMode  bool
	Categories map[string]bool
}

var (
	mu      sync.RWMutex
	base    = zap.NewNop()
	options Options
	loggers = make(map[Category]*zap.SugaredLogger)
)

// NewLogger builds the process logger for opts.
func NewLogger(opts Options) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if !opts.JSON {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.DebugMode {
		level = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	return cfg.Build()
}

// ParseLevel maps a config level name to a zap level. Empty means info.
func ParseLevel(name string) (zapcore.Level, error) {
	switch strings.ToLower(name) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", name)
	}
}

// Initialize installs logger as the parent of every category logger.
func Initialize(logger *zap.Logger, opts Options) {
	mu.Lock()
	defer mu.Unlock()

	if logger == nil {
		logger = zap.NewNop()
	}
	base = logger
	options = opts
	loggers = make(map[Category]*zap.SugaredLogger)

	boot := base.Named(string(CategoryBoot)).Sugar()
	boot.Debugw("logging initialized", "level", opts.Level, "json", opts.JSON, "debug_mode", opts.DebugMode)
}

// categoryEnabled reports whether category is switched on. Categories
// absent from the map are enabled.
func categoryEnabled(category Category) bool {
	if options.Categories == nil {
		return true
	}
	enabled, exists := options.Categories[string(category)]
	return !exists || enabled
}

// Get returns (or creates) the logger for a category.
// Disabled categories get a no-op logger.
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

	var l *zap.SugaredLogger
	if categoryEnabled(category) {
		l = base.Named(string(category)).Sugar()
	} else {
		l = zap.NewNop().Sugar()
	}
	loggers[category] = l
	return l
}

// Sync flushes the process logger. Errors from syncing a terminal are ignored.
func Sync() {
	mu.RLock()
	l := base
	mu.RUnlock()
	if err := l.Sync(); err != nil && !isTerminalSyncError(err) {
		fmt.Fprintf(os.Stderr, "[logging] sync failed: %v\n", err)
	}
}

func isTerminalSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "invalid argument") || strings.Contains(msg, "inappropriate ioctl")
}

// Convenience helpers, one per category, at debug level.

func Collect(format string, args ...interface{}) { Get(CategoryCollect).Debugf(format, args...) }
func Verify(format string, args ...interface{})  { Get(CategoryVerify).Debugf(format, args...) }
func Deliver(format string, args ...interface{}) { Get(CategoryDeliver).Debugf(format, args...) }
func Watch(format string, args ...interface{})   { Get(CategoryWatch).Debugf(format, args...) }
func Catalog(format string, args ...interface{}) { Get(CategoryCatalog).Debugf(format, args...) }
