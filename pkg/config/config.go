package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the main configuration structure
type Config struct {
	Bench BenchConfig `yaml:"bench"`
	Watch WatchConfig `yaml:"watch"`
	Log   LogConfig   `yaml:"log"`
}

// BenchConfig holds the workload shape: how many processes and threads
// run, how much each worker writes, and where the files go.
type BenchConfig struct {
	Workers         int    `yaml:"workers"`
	Threads         int    `yaml:"threads"`
	BlockSize       int    `yaml:"block_size"`
	WritesPerWorker int    `yaml:"writes_per_worker"`
	FilePrefix      string `yaml:"file_prefix"`
	SettleDelayMs   int    `yaml:"settle_delay_ms"`
}

type WatchConfig struct {
	Enabled    bool `yaml:"enabled"`
	DebounceMs int  `yaml:"debounce_ms"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Bench: BenchConfig{
			Workers:         5,
			Threads:         3,
			BlockSize:       1024,
			WritesPerWorker: 50,
			FilePrefix:      "/tmp/pgo_benchmark_",
			SettleDelayMs:   1000,
		},
		Watch: WatchConfig{
			Enabled:    true,
			DebounceMs: 100,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from the specified YAML file. Keys
// absent from the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified YAML file
func SaveConfig(config *Config, configPath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// Validate rejects values the benchmark cannot run with.
func (c *Config) Validate() error {
	if c.Bench.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Bench.Workers)
	}
	if c.Bench.Threads <= 0 {
		return fmt.Errorf("threads must be positive, got %d", c.Bench.Threads)
	}
	if c.Bench.BlockSize <= 0 {
		return fmt.Errorf("block_size must be positive, got %d", c.Bench.BlockSize)
	}
	if c.Bench.WritesPerWorker <= 0 {
		return fmt.Errorf("writes_per_worker must be positive, got %d", c.Bench.WritesPerWorker)
	}
	if c.Bench.FilePrefix == "" {
		return fmt.Errorf("file_prefix must not be empty")
	}
	if c.Bench.SettleDelayMs < 0 {
		return fmt.Errorf("settle_delay_ms must not be negative, got %d", c.Bench.SettleDelayMs)
	}
	return nil
}

// WorkerFile returns the data file path for the given worker ordinal.
func (b BenchConfig) WorkerFile(id int) string {
	return fmt.Sprintf("%s%d.dat", b.FilePrefix, id)
}

// WorkerFiles returns the data file paths for all workers in ordinal order.
func (b BenchConfig) WorkerFiles() []string {
	files := make([]string, b.Workers)
	for i := range files {
		files[i] = b.WorkerFile(i)
	}
	return files
}

// SummaryFile returns the path of the aggregated summary report.
func (b BenchConfig) SummaryFile() string {
	return b.FilePrefix + "summary.txt"
}

// OutputDir returns the directory the file prefix points into.
func (b BenchConfig) OutputDir() string {
	return filepath.Dir(b.FilePrefix)
}

// SettleDelay returns the aggregator settle delay as a duration.
func (b BenchConfig) SettleDelay() time.Duration {
	return time.Duration(b.SettleDelayMs) * time.Millisecond
}
