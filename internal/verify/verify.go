package verify

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"pgobench/internal/report"
	"pgobench/pkg/checksum"
	"pgobench/pkg/config"
)

// Run recomputes the checksum of every file listed in the summary
// report and compares it against the recorded value. An unreadable
// file or any mismatch fails verification.
func Run(cfg config.BenchConfig, log *logrus.Entry) error {
	summary, err := report.ParseFile(cfg.SummaryFile())
	if err != nil {
		return fmt.Errorf("error reading summary: %w", err)
	}
	if len(summary) == 0 {
		return fmt.Errorf("summary %s lists no files", cfg.SummaryFile())
	}

	calc := checksum.NewCalculator(cfg.BlockSize)

	var mu sync.Mutex
	mismatched := 0

	var g errgroup.Group
	g.SetLimit(cfg.Threads)
	for path, want := range summary {
		path, want := path, want
		g.Go(func() error {
			got, _, err := calc.FileChecksum(path)
			if err != nil {
				return fmt.Errorf("error reading %s: %w", path, err)
			}
			if got != want {
				log.Warnf("checksum mismatch for %s: summary has %d, recomputed %d", path, want, got)
				mu.Lock()
				mismatched++
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if mismatched > 0 {
		return fmt.Errorf("%d of %d files failed verification", mismatched, len(summary))
	}

	log.Infof("verified %d files against %s", len(summary), cfg.SummaryFile())
	return nil
}
