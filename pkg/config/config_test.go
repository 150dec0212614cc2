package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5, cfg.Bench.Workers)
	assert.Equal(t, 3, cfg.Bench.Threads)
	assert.Equal(t, 1024, cfg.Bench.BlockSize)
	assert.Equal(t, 50, cfg.Bench.WritesPerWorker)
	assert.Equal(t, "/tmp/pgo_benchmark_", cfg.Bench.FilePrefix)
	assert.Equal(t, time.Second, cfg.Bench.SettleDelay())
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pgobench.yaml")

	cfg := DefaultConfig()
	cfg.Bench.Workers = 2
	cfg.Bench.FilePrefix = "/tmp/other_prefix_"
	cfg.Log.Level = "debug"
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfigKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pgobench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bench:\n  workers: 2\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Bench.Workers)
	assert.Equal(t, 1024, cfg.Bench.BlockSize)
	assert.Equal(t, "/tmp/pgo_benchmark_", cfg.Bench.FilePrefix)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bench: [not a mapping"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero workers", func(c *Config) { c.Bench.Workers = 0 }},
		{"negative threads", func(c *Config) { c.Bench.Threads = -1 }},
		{"zero block size", func(c *Config) { c.Bench.BlockSize = 0 }},
		{"zero writes", func(c *Config) { c.Bench.WritesPerWorker = 0 }},
		{"empty prefix", func(c *Config) { c.Bench.FilePrefix = "" }},
		{"negative settle delay", func(c *Config) { c.Bench.SettleDelayMs = -5 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestPathHelpers(t *testing.T) {
	b := DefaultConfig().Bench

	assert.Equal(t, "/tmp/pgo_benchmark_3.dat", b.WorkerFile(3))
	assert.Equal(t, "/tmp/pgo_benchmark_summary.txt", b.SummaryFile())
	assert.Equal(t, "/tmp", b.OutputDir())

	files := b.WorkerFiles()
	require.Len(t, files, 5)
	assert.Equal(t, "/tmp/pgo_benchmark_0.dat", files[0])
	assert.Equal(t, "/tmp/pgo_benchmark_4.dat", files[4])
}
