// pkg/config/env_config.go

// Package config loads simulation configuration from LINESIM_* environment
// variables, falling back to safe defaults for anything unset.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// EnvironmentConfig contains all runtime configuration for the simulation.
type EnvironmentConfig struct {
	// Simulation
	WorldSize float64
	TimeStep  float64
	TickRate  int
	Workers   int

	// Spatial index
	UseQuadtree     bool
	MaxDepth        int
	MaxLinesPerNode int
	MinCellSize     float64
	CollectStats    bool

	// Circuit breaker guarding the quadtree detection path
	CircuitBreakerMaxRequests         int
	CircuitBreakerInterval            time.Duration
	CircuitBreakerTimeout             time.Duration
	CircuitBreakerMaxConsecutiveFails int

	// Resource management
	MaxMemoryMB           int64
	MaxGoroutines         int
	ShutdownTimeout       time.Duration
	ResourceCheckInterval time.Duration
}

// DefaultEnvironmentConfig returns the configuration used when no
// environment variables are set.
func DefaultEnvironmentConfig() *EnvironmentConfig {
	return &EnvironmentConfig{
		WorldSize:                         2.0,
		TimeStep:                          0.5,
		TickRate:                          60,
		Workers:                           4,
		UseQuadtree:                       true,
		MaxDepth:                          12,
		MaxLinesPerNode:                   32,
		MinCellSize:                       1e-3,
		CircuitBreakerMaxRequests:         3,
		CircuitBreakerInterval:            60 * time.Second,
		CircuitBreakerTimeout:             30 * time.Second,
		CircuitBreakerMaxConsecutiveFails: 5,
		MaxMemoryMB:                       500,
		MaxGoroutines:                     100,
		ShutdownTimeout:                   30 * time.Second,
		ResourceCheckInterval:             10 * time.Second,
	}
}

// LoadConfigFromEnv loads configuration from environment variables with
// sensible defaults for local use.
func LoadConfigFromEnv() (*EnvironmentConfig, error) {
	config := &EnvironmentConfig{
		WorldSize:                         getEnvFloatOrDefault("LINESIM_WORLD_SIZE", 2.0),
		TimeStep:                          getEnvFloatOrDefault("LINESIM_TIME_STEP", 0.5),
		TickRate:                          getEnvIntOrDefault("LINESIM_TICK_RATE", 60),
		Workers:                           getEnvIntOrDefault("LINESIM_WORKERS", 4),
		UseQuadtree:                       getEnvBoolOrDefault("LINESIM_USE_QUADTREE", true),
		MaxDepth:                          getEnvIntOrDefault("LINESIM_MAX_DEPTH", 12),
		MaxLinesPerNode:                   getEnvIntOrDefault("LINESIM_MAX_LINES_PER_NODE", 32),
		MinCellSize:                       getEnvFloatOrDefault("LINESIM_MIN_CELL_SIZE", 1e-3),
		CollectStats:                      getEnvBoolOrDefault("LINESIM_COLLECT_STATS", false),
		CircuitBreakerMaxRequests:         getEnvIntOrDefault("LINESIM_CB_MAX_REQUESTS", 3),
		CircuitBreakerInterval:            getEnvDurationOrDefault("LINESIM_CB_INTERVAL", 60*time.Second),
		CircuitBreakerTimeout:             getEnvDurationOrDefault("LINESIM_CB_TIMEOUT", 30*time.Second),
		CircuitBreakerMaxConsecutiveFails: getEnvIntOrDefault("LINESIM_CB_MAX_CONSECUTIVE_FAILS", 5),
		MaxMemoryMB:                       int64(getEnvIntOrDefault("LINESIM_MAX_MEMORY_MB", 500)),
		MaxGoroutines:                     getEnvIntOrDefault("LINESIM_MAX_GOROUTINES", 100),
		ShutdownTimeout:                   getEnvDurationOrDefault("LINESIM_SHUTDOWN_TIMEOUT", 30*time.Second),
		ResourceCheckInterval:             getEnvDurationOrDefault("LINESIM_RESOURCE_CHECK_INTERVAL", 10*time.Second),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// Validate checks configuration values for consistency.
func (c *EnvironmentConfig) Validate() error {
	if c.WorldSize <= 0 {
		return fmt.Errorf("world size must be positive, got %g", c.WorldSize)
	}
	if c.TimeStep <= 0 {
		return fmt.Errorf("time step must be positive, got %g", c.TimeStep)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("tick rate must be positive, got %d", c.TickRate)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("max depth must be positive, got %d", c.MaxDepth)
	}
	if c.MaxLinesPerNode <= 0 {
		return fmt.Errorf("max lines per node must be positive, got %d", c.MaxLinesPerNode)
	}
	if c.MinCellSize <= 0 {
		return fmt.Errorf("min cell size must be positive, got %g", c.MinCellSize)
	}
	return nil
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault parses an integer environment variable with fallback.
func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvFloatOrDefault parses a float environment variable with fallback.
func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvBoolOrDefault parses a boolean environment variable with fallback.
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvDurationOrDefault parses a duration environment variable with fallback.
func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
