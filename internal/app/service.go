// Package service provides the readiness service facade: it owns the
// wellness history store, the asynchronous update ingestion pipeline,
// and per-athlete-day result memoization, and exposes the scoring and
// trend operations of the core engine.
package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"runtime"
	"sync"
	"time"

	updatequeue "github.com/okian/fettle/internal/adapters/mq/queue"
	workerpool "github.com/okian/fettle/internal/adapters/mq/worker"
	repository "github.com/okian/fettle/internal/adapters/repository"
	"github.com/okian/fettle/internal/domain/correlation"
	"github.com/okian/fettle/internal/domain/dedupe"
	"github.com/okian/fettle/internal/domain/model"
	"github.com/okian/fettle/internal/domain/readiness"
	"github.com/okian/fettle/internal/domain/trend"
	"github.com/okian/fettle/internal/domain/types"
	"github.com/okian/fettle/pkg/logger"
	"github.com/okian/fettle/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize    = 100000
	defaultDedupeSize   = 50000
	defaultLookbackDays = 90
)

// Service wires the scoring core to its collaborators.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   *repository.TreapStore
	deduper dedupe.Deduper
	queue   updatequeue.Queue
	pool    *workerpool.Pool

	calc         *readiness.Calculator
	trends       *trend.Analyzer
	correlations *correlation.Analyzer

	// Result memoization per (athlete, day), invalidated by updates.
	cache map[string]map[time.Time]types.Result

	// Per-day lenient score points reused by the trend fast path,
	// invalidated together with the result cache.
	series map[string]map[time.Time]model.ScorePoint

	// Configuration
	engineCfg    readiness.Config
	trendCfg     trend.Config
	corrCfg      correlation.Config
	workerCount  int
	queueSize    int
	dedupeSize   int
	lookbackDays int
	diagnostics  bool

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		engineCfg:    readiness.DefaultConfig(),
		trendCfg:     trend.Default(),
		corrCfg:      correlation.Default(),
		workerCount:  runtime.NumCPU() * 2,
		queueSize:    defaultQueueSize,
		dedupeSize:   defaultDedupeSize,
		lookbackDays: defaultLookbackDays,
		cache:        make(map[string]map[time.Time]types.Result),
		series:       make(map[string]map[time.Time]model.ScorePoint),
		stopCh:       make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting readiness service...")

	var calcOpts []readiness.Option
	if s.diagnostics {
		calcOpts = append(calcOpts, readiness.WithDiagnostics())
	}
	calc, err := readiness.New(s.engineCfg, calcOpts...)
	if err != nil {
		return fmt.Errorf("build calculator: %w", err)
	}
	s.calc = calc
	s.trends = trend.NewAnalyzer(s.trendCfg, calc)
	s.correlations = correlation.NewAnalyzer(s.corrCfg)

	s.store = repository.NewTreapStore(ctx)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = updatequeue.NewInMemoryQueue(
		updatequeue.WithCapacity(s.queueSize),
		updatequeue.WithBufferSize(s.queueSize),
	)

	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.store, s)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "readiness service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping readiness service...")

	if s.pool != nil {
		s.pool.Stop()
	}
	if s.store != nil {
		_ = s.store.Close()
	}
	if q, ok := s.queue.(*updatequeue.InMemoryQueue); ok {
		_ = q.Close()
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "readiness service stopped")
}

// SubmitWellness submits a wellness update for asynchronous ingestion.
// Updates without an ID get a deterministic content-derived one, so a
// replay of the same payload is suppressed as a duplicate. Returns true
// when the update was accepted or recognized as a duplicate.
func (s *Service) SubmitWellness(ctx context.Context, u model.Update) bool {
	if u.AthleteID == "" || u.Record.Date.IsZero() {
		s.logger.Warn(ctx, "rejecting malformed wellness update",
			logger.String("athleteID", u.AthleteID),
		)
		return false
	}
	if u.UpdateID == "" {
		u.UpdateID = contentID(u)
	}

	if s.deduper.SeenAndRecord(ctx, u.UpdateID) {
		metrics.RecordUpdateDuplicate()
		s.logger.Debug(ctx, "duplicate wellness update, skipping",
			logger.String("updateID", string(u.UpdateID)),
			logger.String("athleteID", u.AthleteID),
		)
		return true
	}

	if !s.queue.Enqueue(ctx, u) {
		// Allow a retry after backpressure.
		s.deduper.Unrecord(ctx, u.UpdateID)
		return false
	}
	return true
}

// Invalidate drops the memoized results staled by an update to day: the
// day itself and every later day whose rolling baselines include it.
func (s *Service) Invalidate(ctx context.Context, athleteID string, day time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	if byDay, ok := s.cache[athleteID]; ok {
		for d := range byDay {
			if !d.Before(day) {
				delete(byDay, d)
				dropped++
			}
		}
	}
	if byDay, ok := s.series[athleteID]; ok {
		for d := range byDay {
			if !d.Before(day) {
				delete(byDay, d)
				dropped++
			}
		}
	}
	metrics.RecordCacheInvalidation(dropped)
}

// Score computes the readiness result for one stored athlete-day.
// Results for the default configuration are memoized per (athlete, day)
// until a wellness update stales them; override calls bypass the cache.
func (s *Service) Score(ctx context.Context, athleteID string, day time.Time, override *readiness.Override) (types.Result, error) {
	day = day.UTC().Truncate(24 * time.Hour)

	if override == nil {
		if res, ok := s.cached(athleteID, day); ok {
			metrics.RecordCacheHit()
			return res, nil
		}
		metrics.RecordCacheMiss()
	}

	current, err := s.store.Get(ctx, athleteID, day)
	if err != nil {
		return types.Result{}, fmt.Errorf("record for %s on %s: %w", athleteID, day.Format("2006-01-02"), err)
	}
	historical, err := s.history(ctx, athleteID, day)
	if err != nil {
		return types.Result{}, err
	}

	res, err := s.scoreInput(readiness.Input{Current: current, Historical: historical}, override)
	if err != nil {
		return types.Result{}, err
	}

	if override == nil {
		s.remember(athleteID, day, res)
	}
	return res, nil
}

// ScoreWithTrend computes the result plus the trajectory classification.
// The series behind the trajectory is assembled from memoized per-day
// points, so only days staled by updates are re-scored.
func (s *Service) ScoreWithTrend(ctx context.Context, athleteID string, day time.Time, override *readiness.Override) (types.Result, types.TrendResult, error) {
	res, err := s.Score(ctx, athleteID, day, override)
	if err != nil {
		return types.Result{}, types.TrendResult{}, err
	}

	day = day.UTC().Truncate(24 * time.Hour)
	historical, err := s.history(ctx, athleteID, day)
	if err != nil {
		return types.Result{}, types.TrendResult{}, err
	}
	current, getErr := s.store.Get(ctx, athleteID, day)
	if getErr == nil {
		historical = append(historical, current)
	}

	tr := s.trends.AnalyzeSeries(s.trendSeries(athleteID, historical), day)
	metrics.RecordTrendComputed()
	if tr.Degraded {
		metrics.RecordDegradedResult()
	}
	return res, tr, nil
}

// trendSeries assembles the per-day score series for chronologically
// ordered records, reusing memoized points and computing only the
// missing ones.
func (s *Service) trendSeries(athleteID string, records []model.WellnessRecord) []model.ScorePoint {
	series := make([]model.ScorePoint, 0, len(records))
	for i, r := range records {
		d := r.Day()
		if pt, ok := s.cachedPoint(athleteID, d); ok {
			series = append(series, pt)
			continue
		}
		pt, ok := s.trends.ScoreDay(r, records[:i])
		if !ok {
			continue
		}
		s.rememberPoint(athleteID, d, pt)
		series = append(series, pt)
	}
	return series
}

// ScoreInput runs the pure scoring path on caller-supplied records,
// bypassing store and cache. The CLI and tests use this entry point.
func (s *Service) ScoreInput(ctx context.Context, in readiness.Input, override *readiness.Override) (types.Result, error) {
	return s.scoreInput(in, override)
}

// TrendForInput runs the trend analyzer over caller-supplied records.
func (s *Service) TrendForInput(ctx context.Context, records []model.WellnessRecord, day time.Time) types.TrendResult {
	tr := s.trends.Analyze(records, day)
	metrics.RecordTrendComputed()
	if tr.Degraded {
		metrics.RecordDegradedResult()
	}
	return tr
}

// CorrelationsForInput sweeps the lagged correlations over
// caller-supplied records, bypassing the store.
func (s *Service) CorrelationsForInput(ctx context.Context, records []model.WellnessRecord, day time.Time) []correlation.MetricCorrelation {
	series := s.trends.BuildSeries(records, day)
	return s.correlations.Analyze(records, series)
}

// Correlations sweeps the lagged correlations between the objective
// sub-score and the subjective metrics of the stored history.
func (s *Service) Correlations(ctx context.Context, athleteID string, day time.Time) ([]correlation.MetricCorrelation, error) {
	day = day.UTC().Truncate(24 * time.Hour)
	historical, err := s.history(ctx, athleteID, day)
	if err != nil {
		return nil, err
	}
	current, getErr := s.store.Get(ctx, athleteID, day)
	if getErr == nil {
		historical = append(historical, current)
	}

	return s.correlations.Analyze(historical, s.trendSeries(athleteID, historical)), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	points := 0
	for _, byDay := range s.series {
		points += len(byDay)
	}
	stats["seriesPoints"] = points

	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["records"] = s.store.Count(ctx)
		stats["athletes"] = s.store.Athletes(ctx)

		metrics.UpdateStoreAthletes(s.store.Athletes(ctx))
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

func (s *Service) scoreInput(in readiness.Input, override *readiness.Override) (types.Result, error) {
	start := time.Now()
	defer func() {
		metrics.RecordScoreLatency(float64(time.Since(start).Milliseconds()))
	}()

	calc := s.calc
	if override != nil {
		merged, err := readiness.New(s.engineCfg.Merge(override))
		if err != nil {
			return types.Result{}, err
		}
		calc = merged
	}

	res, err := calc.Score(in)
	if err != nil {
		metrics.RecordValidationFailure()
		return types.Result{}, err
	}
	metrics.RecordScoreComputed()
	if res.Confidence == types.ConfidenceLow {
		metrics.RecordDegradedResult()
	}
	return res, nil
}

// history returns the stored records strictly before day within the
// configured lookback window, in chronological order.
func (s *Service) history(ctx context.Context, athleteID string, day time.Time) ([]model.WellnessRecord, error) {
	from := day.AddDate(0, 0, -s.lookbackDays)
	to := day.AddDate(0, 0, -1)
	records, err := s.store.Range(ctx, athleteID, from, to)
	if err != nil {
		return nil, fmt.Errorf("history for %s: %w", athleteID, err)
	}
	return records, nil
}

func (s *Service) cached(athleteID string, day time.Time) (types.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.cache[athleteID][day]
	return res, ok
}

func (s *Service) remember(athleteID string, day time.Time, res types.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byDay, ok := s.cache[athleteID]
	if !ok {
		byDay = make(map[time.Time]types.Result)
		s.cache[athleteID] = byDay
	}
	byDay[day] = res
}

func (s *Service) cachedPoint(athleteID string, day time.Time) (model.ScorePoint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pt, ok := s.series[athleteID][day]
	return pt, ok
}

func (s *Service) rememberPoint(athleteID string, day time.Time, pt model.ScorePoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byDay, ok := s.series[athleteID]
	if !ok {
		byDay = make(map[time.Time]model.ScorePoint)
		s.series[athleteID] = byDay
	}
	byDay[day] = pt
}

// contentID derives a deterministic update ID from the payload so
// replays dedupe without the producer having to assign IDs.
func contentID(u model.Update) model.UpdateID {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%s|%s|%+v", u.AthleteID, u.Record.Day().Format("2006-01-02"), u.Record)
	return model.UpdateID(fmt.Sprintf("%s-%016x", u.AthleteID, h.Sum64()))
}
