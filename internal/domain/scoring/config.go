// Package scoring implements the four readiness component scorers: HRV
// (logistic), RHR (linear), sleep (linear with duration attenuation) and
// subjective wellness (weighted average of converted ratings).
//
// Scorers are pure functions taking an explicit configuration; they hold
// no state and are safe for concurrent use.
package scoring

import (
	"fmt"
	"math"
)

// weightSumTolerance absorbs float drift when validating weights.
const weightSumTolerance = 1e-9

// Weights allocates the 100-point base score across the components.
type Weights struct {
	HRV        float64 `koanf:"hrv"`
	RHR        float64 `koanf:"rhr"`
	Sleep      float64 `koanf:"sleep"`
	Subjective float64 `koanf:"subjective"`
}

// DefaultWeights returns the reference allocation.
func DefaultWeights() Weights {
	return Weights{HRV: 40, RHR: 25, Sleep: 15, Subjective: 20}
}

// Validate rejects weight sets that do not sum to 100.
func (w Weights) Validate() error {
	sum := w.HRV + w.RHR + w.Sleep + w.Subjective
	if math.Abs(sum-100) > weightSumTolerance {
		return fmt.Errorf("%w: component weights sum to %.4f, want 100", ErrInvalidWeights, sum)
	}
	if w.HRV < 0 || w.RHR < 0 || w.Sleep < 0 || w.Subjective < 0 {
		return fmt.Errorf("%w: negative component weight", ErrInvalidWeights)
	}
	return nil
}

// HRVConfig parameterizes the logistic HRV scorer.
type HRVConfig struct {
	// SigmoidK is the logistic steepness.
	SigmoidK float64 `koanf:"sigmoid_k"`

	// SigmoidShift is the horizontal shift c: at z = c the component
	// scores exactly half its weight. A negative shift widens the
	// buffer zone below baseline.
	SigmoidShift float64 `koanf:"sigmoid_shift"`

	// SaturationSensitivity is the stddev multiple below the long mean
	// at which a low instantaneous HRV may be reclassified as
	// parasympathetic saturation.
	SaturationSensitivity float64 `koanf:"saturation_sensitivity"`

	// SaturationZ is the z-score forced when saturation is detected.
	SaturationZ float64 `koanf:"saturation_z"`
}

// DefaultHRV returns the reference HRV scorer configuration.
func DefaultHRV() HRVConfig {
	return HRVConfig{
		SigmoidK:              1.0,
		SigmoidShift:          -0.5,
		SaturationSensitivity: 1.5,
		SaturationZ:           2.0,
	}
}

// RHRConfig parameterizes the linear RHR scorer.
type RHRConfig struct {
	// Baseline is the component score at z = 0, in points.
	Baseline float64 `koanf:"baseline"`

	// Slope is the points gained per unit of (inverted) z.
	Slope float64 `koanf:"slope"`
}

// DefaultRHR returns the reference RHR scorer configuration.
func DefaultRHR() RHRConfig {
	return RHRConfig{Baseline: 17.5, Slope: 2.5}
}

// SleepConfig parameterizes the sleep scorer.
type SleepConfig struct {
	// NeutralFraction of the sleep weight awarded when no sleep data
	// is present at all.
	NeutralFraction float64 `koanf:"neutral_fraction"`

	// MinHours is the duration below which the quality score is
	// attenuated by hours/MinHours.
	MinHours float64 `koanf:"min_hours"`
}

// DefaultSleep returns the reference sleep scorer configuration.
func DefaultSleep() SleepConfig {
	return SleepConfig{NeutralFraction: 0.5, MinHours: 7}
}

// SubjectiveConfig parameterizes the subjective wellness scorer.
// The canonical formula is the four-field weighted average with a flat
// penalty per missing primary field.
type SubjectiveConfig struct {
	FatigueWeight    float64 `koanf:"fatigue_weight"`
	StressWeight     float64 `koanf:"stress_weight"`
	MotivationWeight float64 `koanf:"motivation_weight"`
	MoodWeight       float64 `koanf:"mood_weight"`

	// DefaultInternal is substituted for a missing rating, on the
	// internal 1-5 higher-is-better scale.
	DefaultInternal float64 `koanf:"default_internal"`

	// MissingPenalty is the fraction removed from the component score
	// per missing primary field.
	MissingPenalty float64 `koanf:"missing_penalty"`
}

// DefaultSubjective returns the reference subjective configuration.
func DefaultSubjective() SubjectiveConfig {
	return SubjectiveConfig{
		FatigueWeight:    0.30,
		StressWeight:     0.25,
		MotivationWeight: 0.25,
		MoodWeight:       0.20,
		DefaultInternal:  3.5,
		MissingPenalty:   0.05,
	}
}
