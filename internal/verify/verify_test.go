package verify

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pgobench/internal/aggregator"
	"pgobench/internal/worker"
	"pgobench/pkg/config"
)

func testConfig(t *testing.T) config.BenchConfig {
	b := config.DefaultConfig().Bench
	b.FilePrefix = filepath.Join(t.TempDir(), "bench_")
	b.SettleDelayMs = 0
	b.Workers = 3
	b.WritesPerWorker = 4
	return b
}

func testEntry() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func produceRun(t *testing.T, cfg config.BenchConfig) {
	t.Helper()
	for i := 0; i < cfg.Workers; i++ {
		_, err := worker.NewWorker(i, false, cfg, testEntry()).Run()
		require.NoError(t, err)
	}
	require.NoError(t, aggregator.NewAggregator(cfg, testEntry()).Run())
}

func TestRunPassesOnIntactFiles(t *testing.T) {
	cfg := testConfig(t)
	produceRun(t, cfg)

	assert.NoError(t, Run(cfg, testEntry()))
}

func TestRunDetectsCorruption(t *testing.T) {
	cfg := testConfig(t)
	produceRun(t, cfg)

	f, err := os.OpenFile(cfg.WorkerFile(1), os.O_WRONLY|os.O_APPEND, 0644)
	require.NoError(t, err)
	_, err = f.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	err = Run(cfg, testEntry())
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed verification")
}

func TestRunFailsOnMissingDataFile(t *testing.T) {
	cfg := testConfig(t)
	produceRun(t, cfg)
	require.NoError(t, os.Remove(cfg.WorkerFile(0)))

	assert.Error(t, Run(cfg, testEntry()))
}

func TestRunFailsWithoutSummary(t *testing.T) {
	cfg := testConfig(t)

	assert.Error(t, Run(cfg, testEntry()))
}
