// Package leak models a deliberate memory leak under a garbage
// collector: buffers handed to Pin stay reachable from a process-wide
// registry until the process exits, so they count as live memory for
// any external analyzer attached to the process.
package leak

import "sync"

var (
	mu     sync.Mutex
	pinned [][]byte
)

// Pin retains buf until the process exits. There is no way to release
// a pinned buffer.
func Pin(buf []byte) {
	mu.Lock()
	defer mu.Unlock()
	pinned = append(pinned, buf)
}

// Count returns the number of pinned buffers.
func Count() int {
	mu.Lock()
	defer mu.Unlock()
	return len(pinned)
}

// Bytes returns the total size of all pinned buffers.
func Bytes() int {
	mu.Lock()
	defer mu.Unlock()
	total := 0
	for _, b := range pinned {
		total += len(b)
	}
	return total
}
