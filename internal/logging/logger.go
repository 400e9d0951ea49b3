// Package logging provides structured logging for Tabula
package logging

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/paveg/tabula/internal/config"
)

var (
	globalLogger *zap.Logger
	mu           sync.RWMutex
)

// Config represents logger configuration
type Config struct {
	Level       string
	Development bool
	Encoding    string // json or console
	OutputPaths []string
}

// FromConfig derives logger settings from the table engine configuration.
// VerboseLogging forces the debug level.
func FromConfig(cfg config.Config) Config {
	level := cfg.LogLevel
	if cfg.VerboseLogging {
		level = "debug"
	}
	return Config{
		Level:    level,
		Encoding: cfg.LogEncoding,
	}
}

// Init builds a logger from cfg and installs it as the global logger
func Init(cfg Config) error {
	logger, err := New(cfg)
	if err != nil {
		return err
	}
	SetLogger(logger)
	return nil
}

// New creates a new zap logger. Output defaults to stderr so that command
// output on stdout stays machine readable.
func New(cfg Config) (*zap.Logger, error) {
	levelName := strings.ToLower(cfg.Level)
	if levelName == "" {
		levelName = config.DefaultLogLevel
	}
	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	encoding := cfg.Encoding
	if encoding == "" {
		encoding = config.DefaultLogEncoding
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if cfg.Development {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	outputPaths := cfg.OutputPaths
	if len(outputPaths) == 0 {
		outputPaths = []string{"stderr"}
	}

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      cfg.Development,
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      outputPaths,
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger, nil
}

// SetLogger replaces the global logger and returns a function restoring the
// previous one.
func SetLogger(logger *zap.Logger) func() {
	mu.Lock()
	defer mu.Unlock()
	prev := globalLogger
	globalLogger = logger
	return func() {
		mu.Lock()
		defer mu.Unlock()
		globalLogger = prev
	}
}

// L returns the global logger, building one from the global configuration on
// first use.
func L() *zap.Logger {
	mu.RLock()
	logger := globalLogger
	mu.RUnlock()
	if logger != nil {
		return logger
	}

	mu.Lock()
	defer mu.Unlock()
	if globalLogger == nil {
		built, err := New(FromConfig(config.GetGlobalConfig()))
		if err != nil {
			built = zap.NewNop()
		}
		globalLogger = built
	}
	return globalLogger
}

// Component returns a named child of the global logger.
func Component(name string) *zap.Logger {
	return L().With(zap.String("component", name))
}

// Sync flushes buffered log entries of the global logger
func Sync() error {
	return L().Sync()
}
