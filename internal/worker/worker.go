package worker

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"pgobench/internal/leak"
	"pgobench/internal/progress"
	"pgobench/internal/randblock"
	"pgobench/pkg/checksum"
	"pgobench/pkg/config"
)

const leakNote = "This is a deliberate memory leak."

// ShouldLeak reports whether the worker with the given ordinal leaks
// memory: odd ordinals leak, even ordinals release everything.
func ShouldLeak(id int) bool {
	return id%2 != 0
}

// LeakSize returns the size in bytes of the block a leaking worker pins.
func LeakSize(id int) int {
	return 128*id + 64
}

// Worker generates one data file of random blocks and reports the
// rolling checksum of everything it wrote.
type Worker struct {
	id      int
	leakMem bool
	cfg     config.BenchConfig
	log     *logrus.Entry
}

// NewWorker creates a worker for the given ordinal.
func NewWorker(id int, leakMem bool, cfg config.BenchConfig, log *logrus.Entry) *Worker {
	return &Worker{
		id:      id,
		leakMem: leakMem,
		cfg:     cfg,
		log:     log.WithField("worker", id),
	}
}

// Run writes the worker's data file and returns the checksum of the
// bytes written. Only a failure to open the output file is an error; a
// failed write ends the loop early and the worker still finishes
// normally, its checksum covering the blocks that made it to disk.
func (w *Worker) Run() (uint32, error) {
	path := w.cfg.WorkerFile(w.id)
	w.log.Infof("starting, writing %d blocks of %d bytes to %s",
		w.cfg.WritesPerWorker, w.cfg.BlockSize, path)

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, fmt.Errorf("error opening output file: %w", err)
	}

	gen := randblock.New()
	tracker := progress.NewTracker()
	buffer := make([]byte, w.cfg.BlockSize)

	var sum uint32
	written := 0
	for i := 0; i < w.cfg.WritesPerWorker; i++ {
		gen.Fill(buffer)
		if _, err := file.Write(buffer); err != nil {
			w.log.Errorf("write failed on block %d: %v", i, err)
			break
		}
		sum = checksum.Fold(sum, buffer)
		tracker.Update(int64(len(buffer)))
		written++
	}

	if err := file.Close(); err != nil {
		w.log.Warnf("error closing %s: %v", path, err)
	}

	w.log.Infof("wrote %d blocks, %s, total checksum: %d", written, tracker, sum)

	if w.leakMem {
		block := make([]byte, LeakSize(w.id))
		copy(block, leakNote)
		leak.Pin(block)
		w.log.Infof("intentionally leaking %d bytes", len(block))
	}

	return sum, nil
}
