// Package logging provides categorized zap loggers for the agent runtime.
// Each subsystem logs under its own category name so a single session can be
// followed across tools, stores and the model client. Categories can be
// switched off individually from the config file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup, config, capability loading
	CategorySession Category = "session" // Console session lifecycle
	CategoryTools   Category = "tools"   // Tool registration and execution
	CategoryLLM     Category = "llm"     // Model requests and tool-call rounds
	CategoryStore   Category = "store"   // JSON files, sqlite, redis
	CategoryVoice   Category = "voice"   // TTS/STT/VAD capability state
	CategoryPersona Category = "persona" // Persona state transitions
	CategoryMetrics Category = "metrics" // Prometheus exporter
)

// Options mirrors config.LoggingConfig to avoid an import cycle.
type Options struct {
	Level      string
	Format     string // json or console
	DebugMode  bool   // also write a dated log file under Dir
	Dir        string
	Categories map[string]bool
}

var (
	mu      sync.RWMutex
	base    = zap.NewNop()
	opts    Options
	loggers = make(map[Category]*zap.SugaredLogger)
)

// Initialize builds the process logger from options.
// Should be called once at startup; before that every logger is a no-op.
func Initialize(o Options) error {
	cfg := zap.NewProductionConfig()
	if o.Format == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(o.Level))
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	if o.DebugMode && o.Dir != "" {
		if err := os.MkdirAll(o.Dir, 0755); err != nil {
			return fmt.Errorf("failed to create logs directory: %w", err)
		}
		date := time.Now().Format("2006-01-02")
		cfg.OutputPaths = append(cfg.OutputPaths, filepath.Join(o.Dir, date+"_agent.log"))
	}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	Use(l, o)

	Boot("logging initialized (level=%s, format=%s, debug=%v)", levelName(o.Level), o.Format, o.DebugMode)
	return nil
}

// Use installs an already built zap logger. Tests pass an observer core here.
func Use(l *zap.Logger, o Options) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	base = l
	opts = o
	loggers = make(map[Category]*zap.SugaredLogger)
}

// L returns the root logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Sync flushes buffered entries.
func Sync() error {
	return L().Sync()
}

// IsCategoryEnabled returns whether a specific category is enabled.
// Categories not named in the config are enabled.
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	if opts.Categories == nil {
		return true
	}
	enabled, exists := opts.Categories[string(category)]
	return !exists || enabled
}

// Get returns (or creates) a sugared logger for the given category.
// Disabled categories get a no-op logger.
func Get(category Category) *zap.SugaredLogger {
	if !IsCategoryEnabled(category) {
		return zap.NewNop().Sugar()
	}

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
	l := base.Named(string(category)).Sugar()
	loggers[category] = l
	return l
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func levelName(level string) string {
	return parseLevel(level).String()
}

// =============================================================================
// CONVENIENCE FUNCTIONS - Quick logging without getting a logger first
// =============================================================================

func Boot(format string, args ...interface{})      { Get(CategoryBoot).Infof(format, args...) }
func BootDebug(format string, args ...interface{}) { Get(CategoryBoot).Debugf(format, args...) }
func BootWarn(format string, args ...interface{})  { Get(CategoryBoot).Warnf(format, args...) }
func BootError(format string, args ...interface{}) { Get(CategoryBoot).Errorf(format, args...) }

func Session(format string, args ...interface{})      { Get(CategorySession).Infof(format, args...) }
func SessionDebug(format string, args ...interface{}) { Get(CategorySession).Debugf(format, args...) }
func SessionWarn(format string, args ...interface{})  { Get(CategorySession).Warnf(format, args...) }
func SessionError(format string, args ...interface{}) { Get(CategorySession).Errorf(format, args...) }

func Tools(format string, args ...interface{})      { Get(CategoryTools).Infof(format, args...) }
func ToolsDebug(format string, args ...interface{}) { Get(CategoryTools).Debugf(format, args...) }
func ToolsWarn(format string, args ...interface{})  { Get(CategoryTools).Warnf(format, args...) }
func ToolsError(format string, args ...interface{}) { Get(CategoryTools).Errorf(format, args...) }

func LLM(format string, args ...interface{})      { Get(CategoryLLM).Infof(format, args...) }
func LLMDebug(format string, args ...interface{}) { Get(CategoryLLM).Debugf(format, args...) }
func LLMWarn(format string, args ...interface{})  { Get(CategoryLLM).Warnf(format, args...) }
func LLMError(format string, args ...interface{}) { Get(CategoryLLM).Errorf(format, args...) }

func Store(format string, args ...interface{})      { Get(CategoryStore).Infof(format, args...) }
func StoreDebug(format string, args ...interface{}) { Get(CategoryStore).Debugf(format, args...) }
func StoreWarn(format string, args ...interface{})  { Get(CategoryStore).Warnf(format, args...) }
func StoreError(format string, args ...interface{}) { Get(CategoryStore).Errorf(format, args...) }

func Voice(format string, args ...interface{})      { Get(CategoryVoice).Infof(format, args...) }
func VoiceDebug(format string, args ...interface{}) { Get(CategoryVoice).Debugf(format, args...) }
func VoiceWarn(format string, args ...interface{})  { Get(CategoryVoice).Warnf(format, args...) }

func Persona(format string, args ...interface{})      { Get(CategoryPersona).Infof(format, args...) }
func PersonaDebug(format string, args ...interface{}) { Get(CategoryPersona).Debugf(format, args...) }

// =============================================================================
// TIMING HELPERS
// =============================================================================

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration at debug level
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debugf("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs a warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warnf("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debugf("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
