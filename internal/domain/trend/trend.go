// Package trend classifies the short-term readiness trajectory: momentum
// over a lookback window, ATR-style volatility with self-calibrating
// Bollinger thresholds, and a nine-state trajectory matrix expanded to
// twenty-seven interpretation cells by the volatility tier.
//
// Series building re-runs the full calculator once per qualifying
// historical day, so cost is O(days) full recalculations. Callers that
// already hold a per-day score series can use AnalyzeSeries directly as
// the fast path.
package trend

import (
	"math"
	"sort"
	"time"

	"github.com/okian/fettle/internal/domain/model"
	"github.com/okian/fettle/internal/domain/readiness"
	"github.com/okian/fettle/internal/domain/stats"
	"github.com/okian/fettle/internal/domain/types"
)

// Config sets the trend analyzer thresholds.
type Config struct {
	// MinDays is the minimum qualifying series length. Below it a
	// neutral, clearly degraded result is returned, never an error.
	MinDays int `koanf:"min_days"`

	// LookbackDays is the momentum comparison distance.
	LookbackDays int `koanf:"lookback_days"`

	// StableBand and StrongBand are the momentum percent thresholds
	// separating stable/improving/declining and their strong variants.
	StableBand float64 `koanf:"stable_band"`
	StrongBand float64 `koanf:"strong_band"`

	// VolatilityEMAPeriod smooths the day-over-day absolute deltas.
	VolatilityEMAPeriod int `koanf:"volatility_ema_period"`

	// BollingerWindow and BollingerK shape the envelope computed over
	// the volatility series itself for tier classification.
	BollingerWindow int     `koanf:"bollinger_window"`
	BollingerK      float64 `koanf:"bollinger_k"`
}

// Default returns the reference trend configuration.
func Default() Config {
	return Config{
		MinDays:             15,
		LookbackDays:        7,
		StableBand:          3,
		StrongBand:          10,
		VolatilityEMAPeriod: 14,
		BollingerWindow:     20,
		BollingerK:          1.5,
	}
}

// Analyzer derives trend results from wellness history.
type Analyzer struct {
	cfg  Config
	calc *readiness.Calculator
}

// NewAnalyzer constructs an Analyzer over the given calculator.
func NewAnalyzer(cfg Config, calc *readiness.Calculator) *Analyzer {
	return &Analyzer{cfg: cfg, calc: calc}
}

// BuildSeries re-derives the per-day score series from historical
// records up to and including target. A day qualifies when it carries at
// least one of the HRV/RHR/sleep signals. The result is chronological.
func (a *Analyzer) BuildSeries(historical []model.WellnessRecord, target time.Time) []model.ScorePoint {
	day := target.UTC().Truncate(24 * time.Hour)

	records := make([]model.WellnessRecord, 0, len(historical))
	for _, r := range historical {
		if !r.Day().After(day) {
			records = append(records, r)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Day().Before(records[j].Day())
	})

	series := make([]model.ScorePoint, 0, len(records))
	for i, r := range records {
		if pt, ok := a.ScoreDay(r, records[:i]); ok {
			series = append(series, pt)
		}
	}
	return series
}

// ScoreDay re-derives the score point for a single record given its
// chronological prior history. ok is false when the day carries no
// objective signal and so does not qualify for the series. Callers that
// memoize points per day assemble the series from this and hand it to
// AnalyzeSeries.
func (a *Analyzer) ScoreDay(rec model.WellnessRecord, history []model.WellnessRecord) (model.ScorePoint, bool) {
	if !rec.HasObjective() {
		return model.ScorePoint{}, false
	}
	res := a.calc.ScoreLenient(rec, history)
	return model.ScorePoint{
		Date:      rec.Day(),
		Score:     float64(res.Score),
		Objective: res.Components.HRV + res.Components.RHR + res.Components.Sleep,
	}, true
}

// Analyze builds the score series and classifies the trajectory.
func (a *Analyzer) Analyze(historical []model.WellnessRecord, target time.Time) types.TrendResult {
	return a.AnalyzeSeries(a.BuildSeries(historical, target), target)
}

// AnalyzeSeries classifies the trajectory of a pre-computed score
// series. This is the fast path for callers that memoize per-day scores.
func (a *Analyzer) AnalyzeSeries(series []model.ScorePoint, target time.Time) types.TrendResult {
	day := target.UTC().Truncate(24 * time.Hour)

	if len(series) < a.cfg.MinDays {
		return types.TrendResult{
			Date:           day,
			Category:       types.MomentumStable,
			VolatilityTier: types.VolatilityModerate,
			State:          types.StateBalanced,
			StateLabel:     types.StateBalanced.String(),
			Interpretation: insufficientText(len(series), a.cfg.MinDays),
			DataPoints:     len(series),
			Degraded:       true,
		}
	}

	momentum := a.momentum(series)
	category := a.categorize(momentum)
	volatility, tier := a.volatility(series)

	state := classifyState(series[len(series)-1].Score, category.Direction())

	return types.TrendResult{
		Date:           day,
		Momentum:       momentum,
		Category:       category,
		Volatility:     volatility,
		VolatilityTier: tier,
		State:          state,
		StateLabel:     state.String(),
		Interpretation: interpret(state, tier, series[len(series)-1].Score, momentum, volatility),
		DataPoints:     len(series),
	}
}

// momentum is the percent change of the latest score against the score
// closest to LookbackDays earlier.
func (a *Analyzer) momentum(series []model.ScorePoint) float64 {
	last := series[len(series)-1]
	cutoff := last.Date.AddDate(0, 0, -a.cfg.LookbackDays)

	ref := series[0]
	for _, p := range series {
		if p.Date.After(cutoff) {
			break
		}
		ref = p
	}
	if ref.Score == 0 {
		return 0
	}
	return (last.Score - ref.Score) / ref.Score * 100
}

func (a *Analyzer) categorize(momentum float64) types.MomentumCategory {
	switch {
	case momentum >= a.cfg.StrongBand:
		return types.MomentumStrongImprove
	case momentum >= a.cfg.StableBand:
		return types.MomentumImproving
	case momentum <= -a.cfg.StrongBand:
		return types.MomentumStrongDecline
	case momentum <= -a.cfg.StableBand:
		return types.MomentumDeclining
	default:
		return types.MomentumStable
	}
}

// volatility smooths the day-over-day absolute score deltas with an EMA
// and grades the current value against a Bollinger envelope over the
// volatility series itself, so the thresholds track each athlete's own
// historical variability instead of a fixed cutoff.
func (a *Analyzer) volatility(series []model.ScorePoint) (float64, types.VolatilityTier) {
	if len(series) < 2 {
		return 0, types.VolatilityModerate
	}
	ranges := make([]float64, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		ranges = append(ranges, math.Abs(series[i].Score-series[i-1].Score))
	}
	ema := stats.EMA(ranges, a.cfg.VolatilityEMAPeriod)
	current := ema[len(ema)-1]

	bands := stats.Bollinger(ema, a.cfg.BollingerWindow, a.cfg.BollingerK)
	switch {
	case current < bands.Lower:
		return current, types.VolatilityLow
	case current > bands.Upper:
		return current, types.VolatilityHigh
	default:
		return current, types.VolatilityModerate
	}
}

// classifyState maps the 3-tier score level crossed with the momentum
// direction onto the nine fixed trajectory states.
func classifyState(score float64, direction types.MomentumCategory) types.TrendState {
	level := types.LevelLow
	switch {
	case score >= 85:
		level = types.LevelPrime
	case score >= 65:
		level = types.LevelModerate
	}

	switch level {
	case types.LevelPrime:
		switch direction {
		case types.MomentumImproving:
			return types.StatePeaking
		case types.MomentumDeclining:
			return types.StateEarlyFatigue
		default:
			return types.StateWellAdapted
		}
	case types.LevelModerate:
		switch direction {
		case types.MomentumImproving:
			return types.StateProductive
		case types.MomentumDeclining:
			return types.StateAccumulating
		default:
			return types.StateBalanced
		}
	default:
		switch direction {
		case types.MomentumImproving:
			return types.StateRebounding
		case types.MomentumDeclining:
			return types.StateMaladaptation
		default:
			return types.StateUnderRecovered
		}
	}
}
