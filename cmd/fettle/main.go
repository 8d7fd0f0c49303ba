package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	app "github.com/okian/fettle/internal/app"
	"github.com/okian/fettle/internal/config"
	"github.com/okian/fettle/internal/domain/correlation"
	"github.com/okian/fettle/internal/domain/model"
	"github.com/okian/fettle/internal/domain/readiness"
	"github.com/okian/fettle/internal/domain/types"
	"github.com/okian/fettle/pkg/logger"
)

const dateLayout = "2006-01-02"

// output is the JSON document printed to stdout.
type output struct {
	Result       types.Result                    `json:"result"`
	Trend        *types.TrendResult              `json:"trend,omitempty"`
	Correlations []correlation.MetricCorrelation `json:"correlations,omitempty"`
}

func main() {
	var (
		inputFile   = flag.String("input", "", "JSON file with an array of wellness records")
		dateStr     = flag.String("date", "", "Day to score, YYYY-MM-DD (default: latest record)")
		withTrend   = flag.Bool("trend", false, "Include trajectory analysis")
		withCorr    = flag.Bool("correlations", false, "Include lagged correlation analysis")
		diagnostics = flag.Bool("diagnostics", false, "Include baseline diagnostics in the result")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			logger.Error(err)
		}
	}()

	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if *inputFile == "" {
		os.Stderr.WriteString("usage: fettle -input records.json [-date YYYY-MM-DD] [-trend] [-correlations]\n")
		return
	}

	records, err := loadRecords(*inputFile)
	if err != nil {
		log.Error(ctx, "failed to load records", logger.String("input", *inputFile), logger.Error(err))
		return
	}
	if len(records) == 0 {
		log.Error(ctx, "input contains no records", logger.String("input", *inputFile))
		return
	}

	day, current, historical, err := splitRecords(records, *dateStr)
	if err != nil {
		log.Error(ctx, "failed to select scoring day", logger.Error(err))
		return
	}

	opts := []app.Option{
		app.WithLogger(log),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.UpdateQueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithEngineConfig(cfg.Engine),
		app.WithTrendConfig(cfg.Trend),
		app.WithCorrelationConfig(cfg.Correlation),
	}
	if *diagnostics {
		opts = append(opts, app.WithDiagnostics())
	}
	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	res, err := svc.ScoreInput(ctx, readiness.Input{Current: current, Historical: historical}, nil)
	if err != nil {
		log.Error(ctx, "scoring failed", logger.Error(err))
		return
	}

	out := output{Result: res}
	if *withTrend {
		all := append(historical, current)
		tr := svc.TrendForInput(ctx, all, day)
		out.Trend = &tr
	}
	if *withCorr {
		all := append(historical, current)
		out.Correlations = svc.CorrelationsForInput(ctx, all, day)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Error(ctx, "failed to encode output", logger.Error(err))
	}
}

// loadRecords reads and decodes the input file.
func loadRecords(path string) ([]model.WellnessRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []model.WellnessRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// splitRecords picks the day to score and partitions the input into the
// current record and its chronological history.
func splitRecords(records []model.WellnessRecord, dateStr string) (time.Time, model.WellnessRecord, []model.WellnessRecord, error) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	var day time.Time
	if dateStr == "" {
		day = records[len(records)-1].Day()
	} else {
		parsed, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return time.Time{}, model.WellnessRecord{}, nil, err
		}
		day = parsed.UTC().Truncate(24 * time.Hour)
	}

	var current model.WellnessRecord
	found := false
	historical := make([]model.WellnessRecord, 0, len(records))
	for _, rec := range records {
		switch {
		case rec.Day().Equal(day):
			current = rec
			found = true
		case rec.Day().Before(day):
			historical = append(historical, rec)
		}
	}
	if !found {
		return time.Time{}, model.WellnessRecord{}, nil, fmt.Errorf("no record for %s in input", day.Format(dateLayout))
	}
	return day, current, historical, nil
}
