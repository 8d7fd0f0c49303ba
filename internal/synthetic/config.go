package synthetic

import "time"

// Config holds configuration for a synthetic data run.
type Config struct {
	Athletes   int    // Number of athletes to simulate
	Days       int    // Days of history per athlete
	Workers    int    // Number of concurrent submitters
	Seed       int64  // RNG seed; 0 derives one from the clock
	OutputFile string // Output file for generated records
	LogFile    string // Log file for run output
	Verbose    bool   // Enable verbose logging
}

// Stats holds run statistics.
type Stats struct {
	RecordsGenerated int
	RecordsSubmitted int
	RecordsDropped   int
	AthletesScored   int
	DegradedResults  int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
