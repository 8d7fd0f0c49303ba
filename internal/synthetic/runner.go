package synthetic

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	app "github.com/okian/fettle/internal/app"
	"github.com/okian/fettle/internal/domain/model"
	"github.com/okian/fettle/pkg/logger"
)

// Runner configuration constants.
const (
	directoryPermission  = 0750
	drainPollInterval    = 50 * time.Millisecond
	drainTimeout         = 2 * time.Minute
	percentageMultiplier = 100
)

// Run generates synthetic athlete histories, feeds them through an
// in-process readiness service, and scores every athlete's latest day.
func Run(ctx context.Context, cfg *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting synthetic readiness run",
		logger.Int("athletes", cfg.Athletes),
		logger.Int("days", cfg.Days),
		logger.Int("workers", cfg.Workers),
		logger.String("logFile", cfg.LogFile),
		logger.Any("verbose", cfg.Verbose))

	// Step 1: Generate histories
	athletes := generateAthletes(ctx, cfg, stats)

	// Step 2: Start an in-process service
	svc := app.New(
		app.WithWorkerCount(cfg.Workers),
		app.WithLookbackDays(cfg.Days),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("service start failed: %w", err)
	}
	defer svc.Stop()

	// Step 3: Submit records concurrently
	submitRecords(ctx, cfg, svc, athletes, stats)

	// Step 4: Wait for the ingestion pipeline to drain
	if err := waitForDrain(ctx, svc, stats.RecordsSubmitted); err != nil {
		return fmt.Errorf("ingestion did not drain: %w", err)
	}

	// Step 5: Score every athlete's latest day with trend analysis
	if err := scoreAthletes(ctx, svc, athletes, stats); err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}

	// Step 6: Save generated records to file
	if err := saveRecordsToFile(ctx, cfg, athletes); err != nil {
		logger.Get().Warn(ctx, "failed to save records to file", logger.Error(err))
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "synthetic run completed successfully")
	return nil
}

// submitRecords pushes every record through SubmitWellness using a
// bounded pool of submitter goroutines.
func submitRecords(ctx context.Context, cfg *Config, svc *app.Service, athletes []AthleteHistory, stats *Stats) {
	type job struct {
		athleteID string
		record    model.WellnessRecord
	}

	jobs := make(chan job, cfg.Workers*2)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				ok := svc.SubmitWellness(ctx, model.Update{
					AthleteID: j.athleteID,
					Record:    j.record,
				})
				mu.Lock()
				if ok {
					stats.RecordsSubmitted++
				} else {
					stats.RecordsDropped++
				}
				mu.Unlock()
			}
		}()
	}

	for _, a := range athletes {
		for _, rec := range a.Records {
			select {
			case <-ctx.Done():
				close(jobs)
				wg.Wait()
				return
			case jobs <- job{athleteID: a.AthleteID, record: rec}:
			}
		}
	}
	close(jobs)
	wg.Wait()

	logger.Get().Info(ctx, "submitted records",
		logger.Int("submitted", stats.RecordsSubmitted),
		logger.Int("dropped", stats.RecordsDropped))
}

// waitForDrain polls the service until every submitted record is stored.
func waitForDrain(ctx context.Context, svc *app.Service, want int) error {
	deadline := time.Now().Add(drainTimeout)
	for {
		st := svc.GetStats()
		records, _ := st["records"].(int)
		if records >= want {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("stored %d of %d records before timeout", records, want)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(drainPollInterval):
		}
	}
}

// scoreAthletes scores each athlete's most recent day and logs the
// result with its trend classification.
func scoreAthletes(ctx context.Context, svc *app.Service, athletes []AthleteHistory, stats *Stats) error {
	for _, a := range athletes {
		if len(a.Records) == 0 {
			continue
		}
		day := a.Records[len(a.Records)-1].Day()

		res, tr, err := svc.ScoreWithTrend(ctx, a.AthleteID, day, nil)
		if err != nil {
			logger.Get().Warn(ctx, "athlete could not be scored",
				logger.String("athleteID", a.AthleteID),
				logger.Error(err))
			continue
		}

		stats.AthletesScored++
		if tr.Degraded {
			stats.DegradedResults++
		}

		logger.Get().Info(ctx, "athlete scored",
			logger.String("athleteID", a.AthleteID),
			logger.Int("archetype", a.Archetype),
			logger.Int("score", res.Score),
			logger.String("zone", string(res.Zone)),
			logger.String("confidence", string(res.Confidence)),
			logger.String("state", tr.State.String()),
			logger.Float64("momentum", tr.Momentum))
	}
	return nil
}

// saveRecordsToFile writes the generated histories as a JSON array.
func saveRecordsToFile(ctx context.Context, cfg *Config, athletes []AthleteHistory) error {
	if len(athletes) == 0 {
		return fmt.Errorf("no athletes to save")
	}

	filename := cfg.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_wellness_" + timestamp + ".json"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(athletes); err != nil {
		return fmt.Errorf("failed to encode athletes: %w", err)
	}

	logger.Get().Info(ctx, "records saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var successRate, recordsPerSecond float64

	if stats.RecordsGenerated > 0 {
		successRate = float64(stats.RecordsSubmitted) / float64(stats.RecordsGenerated) * percentageMultiplier
	}
	if stats.Duration > 0 {
		recordsPerSecond = float64(stats.RecordsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("recordsGenerated", stats.RecordsGenerated),
		logger.Int("recordsSubmitted", stats.RecordsSubmitted),
		logger.Int("recordsDropped", stats.RecordsDropped),
		logger.Int("athletesScored", stats.AthletesScored),
		logger.Int("degradedResults", stats.DegradedResults),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("recordsPerSecond", recordsPerSecond))
}
