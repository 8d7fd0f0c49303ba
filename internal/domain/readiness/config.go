package readiness

import (
	"github.com/okian/fettle/internal/domain/baseline"
	"github.com/okian/fettle/internal/domain/modifiers"
	"github.com/okian/fettle/internal/domain/scoring"
)

// Config is the complete, immutable engine configuration threaded
// through every calculation. There is no mutable package-level default;
// callers obtain a value from DefaultConfig and merge overrides onto it.
type Config struct {
	Weights    scoring.Weights          `koanf:"weights"`
	Baseline   baseline.Config          `koanf:"baseline"`
	HRV        scoring.HRVConfig        `koanf:"hrv"`
	RHR        scoring.RHRConfig        `koanf:"rhr"`
	Sleep      scoring.SleepConfig      `koanf:"sleep"`
	Subjective scoring.SubjectiveConfig `koanf:"subjective"`
	Modifiers  modifiers.Config         `koanf:"modifiers"`
}

// DefaultConfig returns the reference engine configuration.
func DefaultConfig() Config {
	return Config{
		Weights:    scoring.DefaultWeights(),
		Baseline:   baseline.Default(),
		HRV:        scoring.DefaultHRV(),
		RHR:        scoring.DefaultRHR(),
		Sleep:      scoring.DefaultSleep(),
		Subjective: scoring.DefaultSubjective(),
		Modifiers:  modifiers.Default(),
	}
}

// Validate rejects unusable configurations.
func (c Config) Validate() error {
	return c.Weights.Validate()
}

// Override carries per-call configuration overrides. Sections are merged
// at section granularity: a nil section keeps the base value, a non-nil
// section replaces it whole, so sibling sections are never dropped the
// way a shallow key merge would.
type Override struct {
	Weights    *scoring.Weights          `koanf:"weights" json:"weights,omitempty"`
	Baseline   *baseline.Config          `koanf:"baseline" json:"baseline,omitempty"`
	HRV        *scoring.HRVConfig        `koanf:"hrv" json:"hrv,omitempty"`
	RHR        *scoring.RHRConfig        `koanf:"rhr" json:"rhr,omitempty"`
	Sleep      *scoring.SleepConfig      `koanf:"sleep" json:"sleep,omitempty"`
	Subjective *scoring.SubjectiveConfig `koanf:"subjective" json:"subjective,omitempty"`
	Modifiers  *modifiers.Config         `koanf:"modifiers" json:"modifiers,omitempty"`
}

// Merge returns a copy of c with the override sections applied.
func (c Config) Merge(o *Override) Config {
	if o == nil {
		return c
	}
	if o.Weights != nil {
		c.Weights = *o.Weights
	}
	if o.Baseline != nil {
		c.Baseline = *o.Baseline
	}
	if o.HRV != nil {
		c.HRV = *o.HRV
	}
	if o.RHR != nil {
		c.RHR = *o.RHR
	}
	if o.Sleep != nil {
		c.Sleep = *o.Sleep
	}
	if o.Subjective != nil {
		c.Subjective = *o.Subjective
	}
	if o.Modifiers != nil {
		c.Modifiers = *o.Modifiers
	}
	return c
}
