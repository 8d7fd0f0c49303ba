package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/fettle/internal/synthetic"
)

// Default configuration constants.
const (
	defaultAthletes   = 50
	defaultDays       = 90
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		athletes   = flag.Int("athletes", defaultAthletes, "Number of athletes to simulate")
		days       = flag.Int("days", defaultDays, "Days of history per athlete")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent submitters")
		seed       = flag.Int64("seed", 0, "RNG seed for reproducible runs (0 = derive from clock)")
		outputFile = flag.String("output", "", "Output file for generated records (default: generated_wellness_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for run output (default: synthetic_run_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		synthetic.ShowHelp()
		return
	}

	if err := synthetic.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &synthetic.Config{
		Athletes:   *athletes,
		Days:       *days,
		Workers:    *workers,
		Seed:       *seed,
		OutputFile: *outputFile,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	if err := synthetic.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Run failed: " + err.Error() + "\n")
		return
	}
}
