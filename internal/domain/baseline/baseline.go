// Package baseline computes the rolling per-athlete baselines that the
// component scorers normalize against: a 60-day log-HRV mean/stddev, a
// 7-day log-HRV recent mean, and a 30-day RHR mean/stddev.
//
// A metric baseline is only valid with a minimum number of qualifying
// samples; below that the documented defaults are substituted so the
// scorers never divide by zero or operate on empty data. Insufficient
// history is a degraded result here, never an error.
package baseline

import (
	"math"
	"time"

	"github.com/okian/fettle/internal/domain/model"
	"github.com/okian/fettle/internal/domain/stats"
)

// Config sets the rolling windows and fallback constants.
type Config struct {
	// HRVWindowDays is the trailing window for the long log-HRV
	// baseline, excluding the current day.
	HRVWindowDays int `koanf:"hrv_window_days"`

	// HRVRecentDays is the short window for the recent log-HRV mean,
	// including the current day.
	HRVRecentDays int `koanf:"hrv_recent_days"`

	// RHRWindowDays is the trailing window for the RHR baseline,
	// excluding the current day.
	RHRWindowDays int `koanf:"rhr_window_days"`

	// MinSamples is the minimum qualifying sample count for a metric
	// baseline to be considered valid.
	MinSamples int `koanf:"min_samples"`

	// Defaults substituted when a baseline is invalid.
	DefaultHRVLogMean   float64 `koanf:"default_hrv_log_mean"`
	DefaultHRVLogStddev float64 `koanf:"default_hrv_log_stddev"`
	DefaultRHRMean      float64 `koanf:"default_rhr_mean"`
	DefaultRHRStddev    float64 `koanf:"default_rhr_stddev"`
}

// Default returns the reference baseline configuration.
func Default() Config {
	return Config{
		HRVWindowDays:       60,
		HRVRecentDays:       7,
		RHRWindowDays:       30,
		MinSamples:          7,
		DefaultHRVLogMean:   math.Log(50), // ln ms, population-typical rMSSD
		DefaultHRVLogStddev: 0.15,
		DefaultRHRMean:      60,
		DefaultRHRStddev:    5,
	}
}

// Baseline is the ephemeral per-call normalization state. HRV values are
// on the natural-log scale, RHR on the raw scale.
type Baseline struct {
	HRVLogMean    float64
	HRVLogStddev  float64
	HRVRecentMean float64
	HRVSamples    int
	HRVValid      bool

	RHRMean    float64
	RHRStddev  float64
	RHRSamples int
	RHRValid   bool
}

// Compute derives the baselines for target from historical records.
// Historical records dated on or after target are ignored for the long
// windows; current contributes only to the recent HRV mean.
func Compute(cfg Config, historical []model.WellnessRecord, current model.WellnessRecord, target time.Time) Baseline {
	day := target.UTC().Truncate(24 * time.Hour)
	hrvFrom := day.AddDate(0, 0, -cfg.HRVWindowDays)
	recentFrom := day.AddDate(0, 0, -(cfg.HRVRecentDays - 1))
	rhrFrom := day.AddDate(0, 0, -cfg.RHRWindowDays)

	var hrvLogs, recentLogs, rhrs []float64
	for _, r := range historical {
		d := r.Day()
		if !d.Before(day) {
			continue
		}
		if r.HRV > 0 {
			if !d.Before(hrvFrom) {
				hrvLogs = append(hrvLogs, math.Log(r.HRV))
			}
			if !d.Before(recentFrom) {
				recentLogs = append(recentLogs, math.Log(r.HRV))
			}
		}
		if r.RHR > 0 && !d.Before(rhrFrom) {
			rhrs = append(rhrs, r.RHR)
		}
	}
	if current.HRV > 0 {
		recentLogs = append(recentLogs, math.Log(current.HRV))
	}

	b := Baseline{
		HRVSamples: len(hrvLogs),
		RHRSamples: len(rhrs),
	}

	b.HRVValid = len(hrvLogs) >= cfg.MinSamples
	if b.HRVValid {
		b.HRVLogMean = stats.Mean(hrvLogs)
		b.HRVLogStddev = stats.Stddev(hrvLogs)
	} else {
		b.HRVLogMean = cfg.DefaultHRVLogMean
		b.HRVLogStddev = cfg.DefaultHRVLogStddev
	}
	if len(recentLogs) > 0 {
		b.HRVRecentMean = stats.Mean(recentLogs)
	} else {
		b.HRVRecentMean = b.HRVLogMean
	}

	b.RHRValid = len(rhrs) >= cfg.MinSamples
	if b.RHRValid {
		b.RHRMean = stats.Mean(rhrs)
		b.RHRStddev = stats.Stddev(rhrs)
	} else {
		b.RHRMean = cfg.DefaultRHRMean
		b.RHRStddev = cfg.DefaultRHRStddev
	}

	return b
}
