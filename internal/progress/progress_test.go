package progress

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerAccumulates(t *testing.T) {
	tracker := NewTracker()
	tracker.Update(1024)
	tracker.Update(512)
	assert.Equal(t, int64(1536), tracker.Bytes())
}

func TestTrackerConcurrentUpdates(t *testing.T) {
	tracker := NewTracker()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				tracker.Update(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(8000), tracker.Bytes())
}

func TestTrackerString(t *testing.T) {
	tracker := NewTracker()
	tracker.Update(2048)
	assert.Contains(t, tracker.String(), "2048 bytes")
}
