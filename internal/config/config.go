// Package config loads and validates the application configuration
// from environment variables (POV_ prefix) layered over an optional
// YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Data    DataConfig    `yaml:"data" envconfig:"DATA"`
	Cache   CacheConfig   `yaml:"cache" envconfig:"CACHE"`
	ML      MLConfig      `yaml:"ml" envconfig:"ML"`
	Export  ExportConfig  `yaml:"export" envconfig:"EXPORT"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"50"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"25"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/povdash.log"`
}

// DataConfig bounds the served data panel.
type DataConfig struct {
	StartYear int   `yaml:"start_year" envconfig:"START_YEAR" default:"2000"`
	EndYear   int   `yaml:"end_year" envconfig:"END_YEAR" default:"2024"`
	Seed      int64 `yaml:"seed" envconfig:"SEED" default:"42"`
}

// CacheConfig controls the analysis result cache.
type CacheConfig struct {
	TTL        time.Duration `yaml:"ttl" envconfig:"TTL" default:"1h"`
	MaxEntries int           `yaml:"max_entries" envconfig:"MAX_ENTRIES" default:"256"`
}

// MLConfig fixes the model-training policy constants.
type MLConfig struct {
	TestFraction float64 `yaml:"test_fraction" envconfig:"TEST_FRACTION" default:"0.2"`
	Seed         int64   `yaml:"seed" envconfig:"SEED" default:"42"`
	Estimators   int     `yaml:"estimators" envconfig:"ESTIMATORS" default:"100"`
	LearningRate float64 `yaml:"learning_rate" envconfig:"LEARNING_RATE" default:"0.1"`
	MaxDepth     int     `yaml:"max_depth" envconfig:"MAX_DEPTH" default:"3"`
}

// ExportConfig locates generated report files.
type ExportConfig struct {
	Dir string `yaml:"dir" envconfig:"DIR" default:"exports"`
}

// Load reads configuration from the optional YAML file, then lets
// environment variables override it.
func Load() (*Config, error) {
	cfg := Default()

	if path := configFilePath(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process("POV", cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Data.StartYear > c.Data.EndYear {
		return fmt.Errorf("data start year %d after end year %d", c.Data.StartYear, c.Data.EndYear)
	}
	if c.ML.TestFraction <= 0 || c.ML.TestFraction >= 1 {
		return fmt.Errorf("ml test fraction must be in (0, 1), got %v", c.ML.TestFraction)
	}
	if c.ML.Estimators < 1 {
		return fmt.Errorf("ml estimators must be positive, got %d", c.ML.Estimators)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %v", c.Cache.TTL)
	}
	return nil
}

func configFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimitRPS:    50,
			RateLimitBurst:  25,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "stdout",
			FilePath: "logs/povdash.log",
		},
		Data: DataConfig{
			StartYear: 2000,
			EndYear:   2024,
			Seed:      42,
		},
		Cache: CacheConfig{
			TTL:        time.Hour,
			MaxEntries: 256,
		},
		ML: MLConfig{
			TestFraction: 0.2,
			Seed:         42,
			Estimators:   100,
			LearningRate: 0.1,
			MaxDepth:     3,
		},
		Export: ExportConfig{
			Dir: "exports",
		},
	}
}
