package synthetic

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/fettle/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "synthetic_run_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the synthetic data tool.
func ShowHelp() {
	os.Stdout.WriteString(`Fettle Synthetic Data Tool
==========================

Generates synthetic athlete wellness histories, ingests them through an
in-process readiness service, and scores every athlete.

Usage:
  go run cmd/fettle-gen/main.go [options]

Options:
  -athletes int
        Number of athletes to simulate (default 50)
  -days int
        Days of history per athlete (default 90)
  -workers int
        Number of concurrent submitters (default CPU cores * 2)
  -seed int
        RNG seed for reproducible runs (default: derived from clock)
  -output string
        Output file for generated records (default: generated_wellness_TIMESTAMP.json)
  -log string
        Log file for run output (default: synthetic_run_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Run with default settings
  go run cmd/fettle-gen/main.go

  # A large reproducible run
  go run cmd/fettle-gen/main.go -athletes 500 -days 120 -seed 42

  # Keep the generated data for the scoring CLI
  go run cmd/fettle-gen/main.go -athletes 1 -output history.json
`)
}
