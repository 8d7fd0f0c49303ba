// Package readiness orchestrates the scoring pipeline: input validation,
// baselines, the four weighted components, the modifier engine, training
// zone classification and data-quality confidence.
//
// The calculator is pure: identical input yields identical output, there
// is no I/O and no shared mutable state. Missing-history situations are
// degraded results (default baselines, low confidence), never errors;
// only missing required fields fail.
package readiness

import (
	"fmt"
	"math"
	"time"

	"github.com/okian/fettle/internal/domain/baseline"
	"github.com/okian/fettle/internal/domain/model"
	"github.com/okian/fettle/internal/domain/modifiers"
	"github.com/okian/fettle/internal/domain/scoring"
	"github.com/okian/fettle/internal/domain/types"
)

// Zone and confidence thresholds.
const (
	zonePrimeMin    = 85
	zoneModerateMin = 65

	confidenceMediumDays = 30
	confidenceHighDays   = 60

	maxFinalScore = 100
)

// Input is a scoring request: the current athlete-day plus the
// chronologically ordered history behind it.
type Input struct {
	Current    model.WellnessRecord
	Historical []model.WellnessRecord
}

// Calculator computes readiness results for one engine configuration.
type Calculator struct {
	cfg         Config
	diagnostics bool
}

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithDiagnostics attaches raw baseline and z-score intermediates to
// every Result.
func WithDiagnostics() Option {
	return func(c *Calculator) {
		c.diagnostics = true
	}
}

// New constructs a Calculator, rejecting invalid configurations.
func New(cfg Config, opts ...Option) (*Calculator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("readiness config: %w", err)
	}
	c := &Calculator{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the calculator's engine configuration.
func (c *Calculator) Config() Config {
	return c.cfg
}

// Score validates the input and computes the readiness result.
// Violated required fields are reported together in one ValidationError.
func (c *Calculator) Score(in Input) (types.Result, error) {
	var violations []string
	if in.Current.Date.IsZero() {
		violations = append(violations, "date: required")
	}
	if in.Current.HRV <= 0 {
		violations = append(violations, "hrv: must be positive")
	}
	if in.Current.RHR <= 0 {
		violations = append(violations, "rhr: must be positive")
	}
	if len(violations) > 0 {
		return types.Result{}, &ValidationError{Violations: violations}
	}
	return c.score(in.Current, in.Historical), nil
}

// ScoreLenient computes a result without the required-field validation,
// substituting neutral component scores for missing HRV/RHR. The trend
// analyzer uses this path to re-derive per-day scores for days that
// carry only a subset of the signals.
func (c *Calculator) ScoreLenient(current model.WellnessRecord, historical []model.WellnessRecord) types.Result {
	return c.score(current, historical)
}

func (c *Calculator) score(current model.WellnessRecord, historical []model.WellnessRecord) types.Result {
	day := current.Day()
	b := baseline.Compute(c.cfg.Baseline, historical, current, day)

	hrv := scoring.ScoreHRV(c.cfg.HRV, c.cfg.Weights.HRV, b, current.HRV, current.RHR)
	rhr := scoring.ScoreRHR(c.cfg.RHR, c.cfg.Weights.RHR, b, current.RHR)
	sleep := scoring.ScoreSleep(c.cfg.Sleep, c.cfg.Weights.Sleep, current.SleepScore, current.SleepHours)
	subj := scoring.ScoreSubjective(c.cfg.Subjective, c.cfg.Weights.Subjective, current)

	components := types.Components{
		HRV:        hrv.Score,
		RHR:        rhr.Score,
		Sleep:      sleep,
		Subjective: subj.Score,
	}
	base := components.Sum()

	dec := modifiers.Apply(c.cfg.Modifiers, current, c.recentSleepHours(current, historical, day))

	final := math.Round(base * dec.Multiplier)
	final = math.Min(final, dec.Cap)
	final = math.Max(0, math.Min(maxFinalScore, final))

	res := types.Result{
		Date:       day,
		Score:      int(final),
		BaseScore:  base,
		Components: components,
		Modifiers:  dec.Modifiers,
		Multiplier: dec.Multiplier,
		Zone:       classifyZone(final),
	}
	res.Confidence, res.ConfidenceMessage = classifyConfidence(b)

	if c.diagnostics {
		res.Diagnostics = &types.Diagnostics{
			HRVLogMean:    b.HRVLogMean,
			HRVLogStddev:  b.HRVLogStddev,
			HRVRecentMean: b.HRVRecentMean,
			HRVZ:          hrv.Z,
			HRVSamples:    b.HRVSamples,
			RHRMean:       b.RHRMean,
			RHRStddev:     b.RHRStddev,
			RHRZ:          rhr.Z,
			RHRSamples:    b.RHRSamples,
			Saturation:    hrv.Saturated,
		}
	}
	return res
}

// recentSleepHours collects reported sleep durations over the trailing
// debt window, current night included.
func (c *Calculator) recentSleepHours(current model.WellnessRecord, historical []model.WellnessRecord, day time.Time) []float64 {
	from := day.AddDate(0, 0, -(c.cfg.Modifiers.SleepDebtDays - 1))
	var hours []float64
	for _, r := range historical {
		d := r.Day()
		if d.Before(from) || !d.Before(day) {
			continue
		}
		if r.SleepHours > 0 {
			hours = append(hours, r.SleepHours)
		}
	}
	if current.SleepHours > 0 {
		hours = append(hours, current.SleepHours)
	}
	return hours
}

func classifyZone(score float64) types.Zone {
	switch {
	case score >= zonePrimeMin:
		return types.ZonePrime
	case score >= zoneModerateMin:
		return types.ZoneModerate
	default:
		return types.ZoneLow
	}
}

// classifyConfidence grades data quality by the HRV baseline sample
// count. HRV carries the largest weight and the longest window, so its
// count is the binding constraint; the RHR window saturates at 30 days.
func classifyConfidence(b baseline.Baseline) (types.Confidence, string) {
	days := b.HRVSamples
	switch {
	case days < confidenceMediumDays:
		return types.ConfidenceLow, fmt.Sprintf("only %d baseline days; scores stabilize after %d", days, confidenceHighDays)
	case days < confidenceHighDays:
		return types.ConfidenceMedium, fmt.Sprintf("%d baseline days; scores stabilize after %d", days, confidenceHighDays)
	default:
		return types.ConfidenceHigh, ""
	}
}
