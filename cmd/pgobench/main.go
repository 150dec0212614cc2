package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"pgobench/internal/aggregator"
	"pgobench/internal/logger"
	"pgobench/internal/orchestrator"
	"pgobench/internal/platform"
	"pgobench/internal/verify"
	"pgobench/internal/worker"
	"pgobench/pkg/config"
)

func printUsage() {
	fmt.Printf(`pgobench - process fan-out benchmark workload for memory tooling

Usage:
  pgobench [command] [options]

Commands:
  run        Run the full benchmark: spawn one process per worker plus
             the aggregator, wait for all of them, then delete the
             generated files.
             pgobench run [options]

             Options:
               -config   Path to a YAML config file

  worker     Run a single worker: write random blocks to its data file.
             pgobench worker -id <n> [options]

             Options:
               -id       Worker ordinal (required)
               -leak     Leak memory before exiting
               -run      Run correlation id
               -config   Path to a YAML config file

  aggregate  Run the aggregator: checksum the worker files and write
             the summary report.
             pgobench aggregate [options]

  verify     Recompute checksums for the files listed in an existing
             summary report and compare them against the recorded
             values.
             pgobench verify [options]

  init       Write the default configuration file.
             pgobench init [-config path]

Examples:
  pgobench run
  pgobench run -config bench.yaml
  pgobench worker -id 3 -leak
  pgobench aggregate
  pgobench verify
`)
}

func main() {
	// Define subcommands
	runCmd := flag.NewFlagSet("run", flag.ExitOnError)
	workerCmd := flag.NewFlagSet("worker", flag.ExitOnError)
	aggregateCmd := flag.NewFlagSet("aggregate", flag.ExitOnError)
	verifyCmd := flag.NewFlagSet("verify", flag.ExitOnError)
	initCmd := flag.NewFlagSet("init", flag.ExitOnError)

	// Run command flags
	runConfig := runCmd.String("config", "", "Path to a YAML config file")

	// Worker command flags
	workerID := workerCmd.Int("id", -1, "Worker ordinal")
	workerLeak := workerCmd.Bool("leak", false, "Leak memory before exiting")
	workerRun := workerCmd.String("run", "", "Run correlation id")
	workerConfig := workerCmd.String("config", "", "Path to a YAML config file")

	// Aggregate command flags
	aggregateRun := aggregateCmd.String("run", "", "Run correlation id")
	aggregateConfig := aggregateCmd.String("config", "", "Path to a YAML config file")

	// Verify command flags
	verifyConfig := verifyCmd.String("config", "", "Path to a YAML config file")

	// Init command flags
	initConfig := initCmd.String("config", "pgobench.yaml", "Destination for the default config")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Check for help flags
	if os.Args[1] == "-h" || os.Args[1] == "--help" || os.Args[1] == "help" {
		printUsage()
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		runCmd.Parse(os.Args[2:])
		cfg, path := mustConfig(*runConfig)
		handleRun(cfg, path)

	case "worker":
		workerCmd.Parse(os.Args[2:])
		if *workerID < 0 {
			fmt.Println("Error: worker requires a non-negative -id")
			fmt.Println("\nUsage: pgobench worker -id <n> [options]")
			workerCmd.PrintDefaults()
			os.Exit(1)
		}
		cfg, _ := mustConfig(*workerConfig)
		handleWorker(cfg, *workerID, *workerLeak, *workerRun)

	case "aggregate":
		aggregateCmd.Parse(os.Args[2:])
		cfg, _ := mustConfig(*aggregateConfig)
		handleAggregate(cfg, *aggregateRun)

	case "verify":
		verifyCmd.Parse(os.Args[2:])
		cfg, _ := mustConfig(*verifyConfig)
		handleVerify(cfg)

	case "init":
		initCmd.Parse(os.Args[2:])
		handleInit(*initConfig)

	default:
		fmt.Printf("%q is not valid command.\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// mustConfig resolves and validates the effective configuration. The
// returned path names the file it came from, empty when running on
// built-in defaults.
func mustConfig(configPath string) (*config.Config, string) {
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return cfg, resolved
}

func loadConfig(configPath string) (*config.Config, string, error) {
	// If no config path specified, try different locations
	if configPath == "" {
		// Try current directory first
		if _, err := os.Stat("pgobench.yaml"); err == nil {
			cfg, err := config.LoadConfig("pgobench.yaml")
			return cfg, "pgobench.yaml", err
		}

		// Then the default system config location
		defaultPath := platform.GetDefaultConfigPath()
		if _, err := os.Stat(defaultPath); err == nil {
			cfg, err := config.LoadConfig(defaultPath)
			return cfg, defaultPath, err
		}

		// Fall back to the built-in defaults
		return config.DefaultConfig(), "", nil
	}

	cfg, err := config.LoadConfig(configPath)
	return cfg, configPath, err
}

func handleRun(cfg *config.Config, configPath string) {
	runID := uuid.NewString()
	log := logger.New(cfg.Log.Level, runID)

	orch, err := orchestrator.NewOrchestrator(cfg, log, runID, configPath)
	if err != nil {
		log.Fatalf("Error initializing orchestrator: %v", err)
	}
	if _, err := orch.Run(); err != nil {
		log.Fatalf("Error during benchmark run: %v", err)
	}
}

func handleWorker(cfg *config.Config, id int, leakMem bool, runID string) {
	log := logger.New(cfg.Log.Level, ensureRunID(runID))

	w := worker.NewWorker(id, leakMem, cfg.Bench, log)
	if _, err := w.Run(); err != nil {
		log.Fatalf("Error running worker %d: %v", id, err)
	}
}

func handleAggregate(cfg *config.Config, runID string) {
	log := logger.New(cfg.Log.Level, ensureRunID(runID))

	agg := aggregator.NewAggregator(cfg.Bench, log)
	if err := agg.Run(); err != nil {
		log.Fatalf("Error running aggregator: %v", err)
	}
}

func handleVerify(cfg *config.Config) {
	log := logger.New(cfg.Log.Level, uuid.NewString())

	if err := verify.Run(cfg.Bench, log); err != nil {
		log.Fatalf("Verification failed: %v", err)
	}
}

func handleInit(path string) {
	if _, err := os.Stat(path); err == nil {
		log.Fatalf("Refusing to overwrite existing config at %s", path)
	}
	if err := config.SaveConfig(config.DefaultConfig(), path); err != nil {
		log.Fatalf("Error writing default config: %v", err)
	}
	fmt.Printf("Wrote default configuration to %s\n", path)
}

// ensureRunID returns the id the orchestrator passed down, or a fresh
// one for a directly invoked subcommand.
func ensureRunID(runID string) string {
	if runID == "" {
		return uuid.NewString()
	}
	return runID
}
