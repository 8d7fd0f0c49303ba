// Package correlation relates the objective readiness sub-score
// (HRV+RHR+sleep components) to the individual subjective metrics using
// time-lagged Pearson correlation. A positive lag means the subjective
// rating leads the objective state by that many days.
package correlation

import (
	"math"
	"time"

	"github.com/okian/fettle/internal/domain/model"
	"github.com/okian/fettle/internal/domain/scoring"
)

// Config sets the lag sweep and the minimum overlap.
type Config struct {
	// MaxLag is the largest lead, in days, tested for each metric.
	MaxLag int `koanf:"max_lag"`

	// MinOverlap is the minimum number of paired days required for a
	// coefficient to be reported.
	MinOverlap int `koanf:"min_overlap"`
}

// Default returns the reference correlation configuration.
func Default() Config {
	return Config{MaxLag: 3, MinOverlap: 10}
}

// LagCorrelation is the coefficient for one metric at one lag.
type LagCorrelation struct {
	Lag         int     `json:"lag"`
	Coefficient float64 `json:"coefficient"`
	Samples     int     `json:"samples"`
}

// MetricCorrelation is the lag sweep for one subjective metric, with the
// strongest absolute coefficient surfaced as Best.
type MetricCorrelation struct {
	Metric string           `json:"metric"`
	Lags   []LagCorrelation `json:"lags"`
	Best   LagCorrelation   `json:"best"`
}

// Analyzer computes lagged correlations between a score series and the
// subjective metrics of the underlying records.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer constructs an Analyzer.
func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze sweeps lags 0..MaxLag for each subjective metric. Metrics
// without enough overlapping days are omitted rather than reported with
// an unstable coefficient.
func (a *Analyzer) Analyze(records []model.WellnessRecord, series []model.ScorePoint) []MetricCorrelation {
	metrics := []struct {
		name    string
		extract func(model.WellnessRecord) (float64, bool)
	}{
		{"fatigue", func(r model.WellnessRecord) (float64, bool) { return scoring.ConvertPrimary(r.Fatigue) }},
		{"stress", func(r model.WellnessRecord) (float64, bool) { return scoring.ConvertPrimary(r.Stress) }},
		{"motivation", func(r model.WellnessRecord) (float64, bool) { return scoring.ConvertPrimary(r.Motivation) }},
		{"mood", func(r model.WellnessRecord) (float64, bool) { return scoring.ConvertPrimary(r.Mood) }},
		{"soreness", func(r model.WellnessRecord) (float64, bool) { return scoring.ConvertSeverity(r.Soreness) }},
	}

	var out []MetricCorrelation
	for _, metric := range metrics {
		values := make(map[time.Time]float64, len(records))
		for _, r := range records {
			if v, ok := metric.extract(r); ok {
				values[r.Day()] = v
			}
		}

		mc := MetricCorrelation{Metric: metric.name}
		for lag := 0; lag <= a.cfg.MaxLag; lag++ {
			var xs, ys []float64
			for _, p := range series {
				if v, ok := values[p.Date.AddDate(0, 0, -lag)]; ok {
					xs = append(xs, v)
					ys = append(ys, p.Objective)
				}
			}
			if len(xs) < a.cfg.MinOverlap {
				continue
			}
			lc := LagCorrelation{Lag: lag, Coefficient: Pearson(xs, ys), Samples: len(xs)}
			mc.Lags = append(mc.Lags, lc)
			if math.Abs(lc.Coefficient) > math.Abs(mc.Best.Coefficient) || mc.Best.Samples == 0 {
				mc.Best = lc
			}
		}
		if len(mc.Lags) > 0 {
			out = append(out, mc)
		}
	}
	return out
}

// Pearson returns the correlation coefficient of the paired samples, or
// 0 when either side has no variance.
func Pearson(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}

	var ma, mb float64
	for i := 0; i < n; i++ {
		ma += a[i]
		mb += b[i]
	}
	ma /= float64(n)
	mb /= float64(n)

	var num, da, db float64
	for i := 0; i < n; i++ {
		x := a[i] - ma
		y := b[i] - mb
		num += x * y
		da += x * x
		db += y * y
	}
	den := math.Sqrt(da * db)
	if den == 0 {
		return 0
	}
	return num / den
}
