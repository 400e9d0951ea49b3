// Package config provides configuration management for Tabula table operations
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Config represents the global configuration for Tabula table operations
type Config struct {
	// Parallel Processing Configuration
	ParallelThreshold int `json:"parallel_threshold" yaml:"parallel_threshold"` // Minimum elements to trigger parallel processing
	WorkerPoolSize    int `json:"worker_pool_size" yaml:"worker_pool_size"`     // Number of worker goroutines (0 = auto-detect)
	ChunkSize         int `json:"chunk_size" yaml:"chunk_size"`                 // Size of data chunks for parallel processing (0 = auto-calculate)
	MaxParallelism    int `json:"max_parallelism" yaml:"max_parallelism"`       // Maximum number of columns reduced concurrently

	// Logging Configuration
	LogLevel       string `json:"log_level" yaml:"log_level"`             // debug, info, warn, error
	LogEncoding    string `json:"log_encoding" yaml:"log_encoding"`       // json or console
	VerboseLogging bool   `json:"verbose_logging" yaml:"verbose_logging"` // Forces debug level

	// Statistics Configuration
	MetricsCollection bool    `json:"metrics_collection" yaml:"metrics_collection"` // Enable metrics collection
	SketchAccuracy    float64 `json:"sketch_accuracy" yaml:"sketch_accuracy"`       // Relative accuracy of approximate quantiles
}

// SystemInfo contains system information for configuration validation
type SystemInfo struct {
	CPUCount     int
	Architecture string
	OSType       string
}

// ConfigValidator validates and provides recommendations for configuration
type ConfigValidator struct {
	systemInfo SystemInfo
}

// Global configuration instance
var (
	globalConfig Config
	configMutex  sync.RWMutex
)

// Default configuration values
const (
	DefaultParallelThreshold = 1000
	DefaultMaxParallelism    = 16
	DefaultLogLevel          = "info"
	DefaultLogEncoding       = "json"
	DefaultSketchAccuracy    = 0.01

	envPrefix = "TABULA_"
)

// Initialize global configuration with defaults
func init() {
	globalConfig = NewConfig()
}

// NewConfig creates a new configuration with default values
func NewConfig() Config {
	return Config{
		// Parallel Processing defaults
		ParallelThreshold: DefaultParallelThreshold,
		WorkerPoolSize:    0, // Auto-detect
		ChunkSize:         0, // Auto-calculate
		MaxParallelism:    DefaultMaxParallelism,

		LogLevel:       DefaultLogLevel,
		LogEncoding:    DefaultLogEncoding,
		VerboseLogging: false,

		MetricsCollection: false,
		SketchAccuracy:    DefaultSketchAccuracy,
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if c.ParallelThreshold <= 0 {
		return fmt.Errorf("ParallelThreshold must be positive, got %d", c.ParallelThreshold)
	}

	if c.WorkerPoolSize < 0 {
		return fmt.Errorf("WorkerPoolSize must be non-negative, got %d", c.WorkerPoolSize)
	}

	if c.ChunkSize < 0 {
		return fmt.Errorf("ChunkSize must be non-negative, got %d", c.ChunkSize)
	}

	if c.MaxParallelism <= 0 {
		return fmt.Errorf("MaxParallelism must be positive, got %d", c.MaxParallelism)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LogLevel must be one of debug, info, warn, error, got %q", c.LogLevel)
	}

	if c.LogEncoding != "json" && c.LogEncoding != "console" {
		return fmt.Errorf("LogEncoding must be json or console, got %q", c.LogEncoding)
	}

	if c.SketchAccuracy <= 0.0 || c.SketchAccuracy >= 1.0 {
		return fmt.Errorf("SketchAccuracy must be between 0 and 1 (exclusive), got %f", c.SketchAccuracy)
	}

	return nil
}

// WithDefaults returns a new configuration with default values filled in for zero values
func (c Config) WithDefaults() Config {
	defaults := NewConfig()

	if c.ParallelThreshold == 0 {
		c.ParallelThreshold = defaults.ParallelThreshold
	}
	if c.MaxParallelism == 0 {
		c.MaxParallelism = defaults.MaxParallelism
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.LogEncoding == "" {
		c.LogEncoding = defaults.LogEncoding
	}
	if c.SketchAccuracy == 0.0 {
		c.SketchAccuracy = defaults.SketchAccuracy
	}

	// Boolean fields keep their zero value so an explicit false survives.
	return c
}

// Workers resolves WorkerPoolSize, substituting the CPU count for auto-detect.
func (c Config) Workers() int {
	if c.WorkerPoolSize > 0 {
		return c.WorkerPoolSize
	}
	return runtime.NumCPU()
}

// ShouldParallelize reports whether a workload of n elements crosses the threshold.
func (c Config) ShouldParallelize(n int) bool {
	return n >= c.ParallelThreshold
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = config
}

// GetGlobalConfig returns the current global configuration
func GetGlobalConfig() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// LoadFromJSON loads configuration from JSON data
func LoadFromJSON(data []byte) (Config, error) {
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing JSON configuration: %w", err)
	}
	return config.WithDefaults(), nil
}

// LoadFromFile loads configuration from a JSON or YAML file
func LoadFromFile(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", filename, err)
	}

	var config Config
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".json":
		err = json.Unmarshal(data, &config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		return Config{}, fmt.Errorf("unsupported config file format: %s", ext)
	}

	if err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", filename, err)
	}

	return config.WithDefaults(), nil
}

// LoadFromEnv loads configuration from TABULA_* environment variables.
// Unparsable values are ignored and the default is kept.
func LoadFromEnv() Config {
	config := NewConfig()

	envInt("PARALLEL_THRESHOLD", &config.ParallelThreshold)
	envInt("WORKER_POOL_SIZE", &config.WorkerPoolSize)
	envInt("CHUNK_SIZE", &config.ChunkSize)
	envInt("MAX_PARALLELISM", &config.MaxParallelism)

	if val := os.Getenv(envPrefix + "LOG_LEVEL"); val != "" {
		config.LogLevel = strings.ToLower(val)
	}
	if val := os.Getenv(envPrefix + "LOG_ENCODING"); val != "" {
		config.LogEncoding = strings.ToLower(val)
	}

	envBool("VERBOSE_LOGGING", &config.VerboseLogging)
	envBool("METRICS_COLLECTION", &config.MetricsCollection)

	if val := os.Getenv(envPrefix + "SKETCH_ACCURACY"); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			config.SketchAccuracy = parsed
		}
	}

	return config
}

func envInt(key string, dst *int) {
	if val := os.Getenv(envPrefix + key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			*dst = parsed
		}
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(envPrefix + key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			*dst = parsed
		}
	}
}

// GetSystemInfo returns system information for configuration validation
func GetSystemInfo() SystemInfo {
	return SystemInfo{
		CPUCount:     runtime.NumCPU(),
		Architecture: runtime.GOARCH,
		OSType:       runtime.GOOS,
	}
}

// NewConfigValidator creates a new configuration validator
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{
		systemInfo: GetSystemInfo(),
	}
}

// Validate validates a configuration and provides recommendations
func (cv *ConfigValidator) Validate(config Config) (Config, []string, error) {
	var warnings []string
	validated := config

	if err := config.Validate(); err != nil {
		return Config{}, warnings, err
	}

	if config.WorkerPoolSize > cv.systemInfo.CPUCount*2 {
		warnings = append(warnings,
			fmt.Sprintf("Worker pool size (%d) exceeds 2x CPU count (%d), may cause contention",
				config.WorkerPoolSize, cv.systemInfo.CPUCount))
	}

	if config.MaxParallelism > cv.systemInfo.CPUCount*4 {
		warnings = append(warnings,
			fmt.Sprintf("Max parallelism (%d) exceeds 4x CPU count (%d)",
				config.MaxParallelism, cv.systemInfo.CPUCount))
	}

	// Auto-adjust unset values
	if config.WorkerPoolSize == 0 {
		validated.WorkerPoolSize = cv.systemInfo.CPUCount
		warnings = append(warnings,
			fmt.Sprintf("Auto-setting worker pool size to %d (CPU count)",
				validated.WorkerPoolSize))
	}

	return validated, warnings, nil
}
