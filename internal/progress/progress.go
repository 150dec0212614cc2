package progress

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Tracker accumulates byte counts across goroutines for throughput
// reporting
type Tracker struct {
	current   int64
	startTime time.Time
}

// NewTracker creates a new progress tracker
func NewTracker() *Tracker {
	return &Tracker{
		startTime: time.Now(),
	}
}

// Update adds n bytes to the running total
func (t *Tracker) Update(n int64) {
	atomic.AddInt64(&t.current, n)
}

// Bytes returns the number of bytes recorded so far
func (t *Tracker) Bytes() int64 {
	return atomic.LoadInt64(&t.current)
}

// Speed returns the average throughput in bytes per second
func (t *Tracker) Speed() float64 {
	current := atomic.LoadInt64(&t.current)
	duration := time.Since(t.startTime).Seconds()
	if duration > 0 {
		return float64(current) / duration
	}
	return 0
}

// String returns a formatted throughput string
func (t *Tracker) String() string {
	return fmt.Sprintf("%d bytes (%.2f MB/s)", t.Bytes(), t.Speed()/1024/1024)
}
