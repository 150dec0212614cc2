package orchestrator

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"

	"pgobench/internal/watcher"
	"pgobench/internal/worker"
	"pgobench/pkg/config"
)

// ChildExitRecord records how one spawned child terminated.
type ChildExitRecord struct {
	Name     string
	PID      int
	Code     int
	Abnormal bool
}

type child struct {
	name string
	cmd  *exec.Cmd
}

// Orchestrator spawns the worker and aggregator processes, waits for
// all of them, and removes the generated files.
type Orchestrator struct {
	cfg        *config.Config
	log        *logrus.Entry
	exe        string
	runID      string
	configPath string
}

// NewOrchestrator creates an orchestrator that re-executes the current
// binary for its child processes.
func NewOrchestrator(cfg *config.Config, log *logrus.Entry, runID, configPath string) (*Orchestrator, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("error resolving own executable: %w", err)
	}

	return &Orchestrator{
		cfg:        cfg,
		log:        log,
		exe:        exe,
		runID:      runID,
		configPath: configPath,
	}, nil
}

// Run executes the full benchmark sequence. Child failures are
// recorded and logged but never fail the run; only a spawn failure is
// an error, and it aborts immediately without waiting for
// already-started children.
func (o *Orchestrator) Run() ([]ChildExitRecord, error) {
	o.log.Infof("starting benchmark run: %d workers, %d aggregator threads",
		o.cfg.Bench.Workers, o.cfg.Bench.Threads)

	stopNotice := o.notifyOnSignals()
	defer stopNotice()

	stopWatch := o.startWatcher()
	defer stopWatch()

	children, err := o.spawnAll()
	if err != nil {
		return nil, err
	}

	records := o.waitAll(children)

	o.Cleanup()
	o.log.Info("benchmark finished")
	return records, nil
}

// notifyOnSignals logs a shutdown notice when an interrupt or terminate
// signal arrives. The notice is informational; the wait loop keeps
// running and the children are left to exit on their own.
func (o *Orchestrator) notifyOnSignals() func() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		for sig := range sigCh {
			o.log.Infof("caught signal %v, shutting down", sig)
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(sigCh)
	}
}

// startWatcher begins the informational file observer when enabled.
// Observer failures degrade to a warning and the run proceeds without
// it.
func (o *Orchestrator) startWatcher() func() {
	if !o.cfg.Watch.Enabled {
		return func() {}
	}

	w, err := watcher.NewWatcher(o.cfg.Bench.FilePrefix, o.cfg.Watch.DebounceMs)
	if err != nil {
		o.log.Warnf("file observer unavailable: %v", err)
		return func() {}
	}
	if err := w.Watch(o.cfg.Bench.OutputDir()); err != nil {
		o.log.Warnf("file observer unavailable: %v", err)
		w.Close()
		return func() {}
	}

	stop := make(chan struct{})
	go func() {
		for {
			select {
			case event := <-w.Events():
				o.log.Infof("observed %s %s", event.Operation, event.Path)
			case err := <-w.Errors():
				o.log.Warnf("file observer error: %v", err)
			case <-stop:
				return
			}
		}
	}()

	return func() {
		w.Close()
		close(stop)
	}
}

// spawnAll starts one process per worker and then the aggregator,
// consulting the leak policy for each worker's ordinal.
func (o *Orchestrator) spawnAll() ([]child, error) {
	children := make([]child, 0, o.cfg.Bench.Workers+1)

	for i := 0; i < o.cfg.Bench.Workers; i++ {
		name := fmt.Sprintf("worker-%d", i)
		cmd := o.command("worker",
			"-id", strconv.Itoa(i),
			"-leak="+strconv.FormatBool(worker.ShouldLeak(i)),
		)
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("error spawning %s: %w", name, err)
		}
		o.log.Infof("spawned %s (pid %d)", name, cmd.Process.Pid)
		children = append(children, child{name: name, cmd: cmd})
	}

	cmd := o.command("aggregate")
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("error spawning aggregator: %w", err)
	}
	o.log.Infof("spawned aggregator (pid %d)", cmd.Process.Pid)
	children = append(children, child{name: "aggregator", cmd: cmd})

	return children, nil
}

// command builds the exec.Cmd for one child subcommand, forwarding the
// run id and config path and inheriting this process's stdio.
func (o *Orchestrator) command(sub string, args ...string) *exec.Cmd {
	argv := []string{sub, "-run", o.runID}
	if o.configPath != "" {
		argv = append(argv, "-config", o.configPath)
	}
	argv = append(argv, args...)

	cmd := exec.Command(o.exe, argv...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

// waitAll waits for every child in spawn order and records how each
// terminated.
func (o *Orchestrator) waitAll(children []child) []ChildExitRecord {
	o.log.Infof("waiting for %d child processes", len(children))

	records := make([]ChildExitRecord, 0, len(children))
	for _, c := range children {
		rec := ChildExitRecord{Name: c.name, PID: c.cmd.Process.Pid}

		err := c.cmd.Wait()
		state := c.cmd.ProcessState
		switch {
		case state == nil:
			rec.Abnormal = true
			o.log.Errorf("error waiting for %s: %v", c.name, err)
		case state.Exited():
			rec.Code = state.ExitCode()
			o.log.Infof("%s (pid %d) exited with status %d", c.name, rec.PID, rec.Code)
		default:
			rec.Abnormal = true
			o.log.Warnf("%s (pid %d) terminated abnormally: %v", c.name, rec.PID, state)
		}

		records = append(records, rec)
	}

	return records
}

// Cleanup removes the generated data files and the summary report.
// Missing files are fine; cleanup may run against a partial run.
func (o *Orchestrator) Cleanup() {
	o.log.Info("cleaning up generated files")

	paths := append(o.cfg.Bench.WorkerFiles(), o.cfg.Bench.SummaryFile())
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			o.log.Warnf("error removing %s: %v", path, err)
		}
	}
}
