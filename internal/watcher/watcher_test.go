package watcher

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	w := &Watcher{prefix: "/tmp/pgo_benchmark_"}

	assert.True(t, w.Matches("/tmp/pgo_benchmark_0.dat"))
	assert.True(t, w.Matches("/tmp/pgo_benchmark_summary.txt"))
	assert.False(t, w.Matches("/tmp/other.dat"))
	assert.False(t, w.Matches("/var/pgo_benchmark_0.dat"))
}

func TestWatcherReportsPrefixedFiles(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "bench_")

	w, err := NewWatcher(prefix, 10)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Watch(dir))

	require.NoError(t, os.WriteFile(prefix+"0.dat", []byte("x"), 0644))

	select {
	case event := <-w.Events():
		assert.Equal(t, prefix+"0.dat", event.Path)
	case <-time.After(3 * time.Second):
		t.Fatal("no event within 3s")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	w, err := NewWatcher("/tmp/bench_", 10)
	require.NoError(t, err)
	defer w.Close()

	assert.Error(t, w.Watch(filepath.Join(t.TempDir(), "missing")))
}

// Closing the watcher while a debounced flush is waiting on the
// unconsumed events channel must let the event goroutine exit instead
// of stranding it on the send.
func TestCloseReleasesPendingFlush(t *testing.T) {
	// settle goroutines from earlier tests before taking the baseline
	time.Sleep(50 * time.Millisecond)
	before := runtime.NumGoroutine()

	dir := t.TempDir()
	prefix := filepath.Join(dir, "bench_")

	w, err := NewWatcher(prefix, 1)
	require.NoError(t, err)
	require.NoError(t, w.Watch(dir))

	// trigger an event and give the debounce timer time to fire; with
	// no consumer the flush now blocks on the events channel
	require.NoError(t, os.WriteFile(prefix+"0.dat", []byte("x"), 0644))
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, w.Close())

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if runtime.NumGoroutine() <= before {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("flush still blocked after close, %d goroutines (baseline %d)",
		runtime.NumGoroutine(), before)
}
