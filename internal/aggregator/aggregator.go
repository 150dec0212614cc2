package aggregator

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"pgobench/internal/progress"
	"pgobench/internal/report"
	"pgobench/pkg/checksum"
	"pgobench/pkg/config"
)

// Aggregator checksums the worker data files with a fixed pool of
// threads and writes the combined summary report.
type Aggregator struct {
	cfg  config.BenchConfig
	calc *checksum.Calculator
	log  *logrus.Entry
}

// NewAggregator creates an aggregator for the configured worker files.
func NewAggregator(cfg config.BenchConfig, log *logrus.Entry) *Aggregator {
	return &Aggregator{
		cfg:  cfg,
		calc: checksum.NewCalculator(cfg.BlockSize),
		log:  log,
	}
}

// Run sleeps out the settle delay, fans the expected files out over the
// thread pool round-robin, and writes the summary report once every
// thread has finished. Unreadable data files are skipped; only a
// failure to write the report is an error.
func (a *Aggregator) Run() error {
	settle := a.cfg.SettleDelay()
	a.log.Infof("waiting %v for worker files to settle", settle)
	time.Sleep(settle)

	files := a.cfg.WorkerFiles()
	assignments := partition(files, a.cfg.Threads)

	summary := make(report.Summary)
	tracker := progress.NewTracker()

	var mu sync.Mutex
	var wg sync.WaitGroup

	a.log.Infof("launching %d threads to process %d files", a.cfg.Threads, len(files))
	for t := range assignments {
		wg.Add(1)
		go func(tid int, files []string) {
			defer wg.Done()
			a.processFiles(tid, files, summary, &mu, tracker)
		}(t, assignments[t])
	}
	wg.Wait()

	a.log.Infof("all threads finished, read %s, writing summary", tracker)

	if err := report.WriteFile(a.cfg.SummaryFile(), summary); err != nil {
		return err
	}

	a.log.Infof("summary report written to %s (%d entries)", a.cfg.SummaryFile(), len(summary))
	return nil
}

// processFiles checksums one thread's file assignment, inserting the
// results into the shared summary. The mutex guards the insert and its
// log line; file reads happen outside the lock.
func (a *Aggregator) processFiles(tid int, files []string, summary report.Summary, mu *sync.Mutex, tracker *progress.Tracker) {
	log := a.log.WithField("thread", tid)
	for _, path := range files {
		sum, n, err := a.calc.FileChecksum(path)
		if err != nil {
			log.Warnf("skipping %s: %v", path, err)
			continue
		}
		tracker.Update(n)

		mu.Lock()
		summary[path] = sum
		log.Infof("processed %s, checksum: %d", path, sum)
		mu.Unlock()
	}
}

// partition distributes files round-robin: file i goes to thread i%threads.
func partition(files []string, threads int) [][]string {
	chunks := make([][]string, threads)
	for i, f := range files {
		chunks[i%threads] = append(chunks[i%threads], f)
	}
	return chunks
}
