package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New creates the leveled logger for one process of a run. Every entry
// carries the process id and the run correlation id, which the
// orchestrator shares with its children so their output can be grouped.
func New(level, runID string) *logrus.Entry {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	switch level {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	return log.WithFields(logrus.Fields{
		"pid": os.Getpid(),
		"run": runID,
	})
}
