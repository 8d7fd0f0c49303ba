// Package types contains common result types used across the application.
package types

import "time"

// Zone is the coarse training recommendation tier derived from the score.
type Zone string

// Training zones.
const (
	ZonePrime    Zone = "prime"    // train as planned or harder
	ZoneModerate Zone = "moderate" // productive training, self-regulate intensity
	ZoneLow      Zone = "low"      // prioritize recovery, avoid high intensity
)

// Confidence labels the data quality behind a score.
type Confidence string

// Confidence tiers from baseline sample counts.
const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Components are the four weighted sub-scores that sum to the base score.
type Components struct {
	HRV        float64 `json:"hrv"`
	RHR        float64 `json:"rhr"`
	Sleep      float64 `json:"sleep"`
	Subjective float64 `json:"subjective"`
}

// Sum returns the base score before modifiers.
func (c Components) Sum() float64 {
	return c.HRV + c.RHR + c.Sleep + c.Subjective
}

// Modifier is one named penalty decision. Multiplicative modifiers
// compose by product; the injury modifier is a ceiling instead and
// carries the cap in Cap with Multiplier left at 1.
type Modifier struct {
	Name       string  `json:"name"`
	Applied    bool    `json:"applied"`
	Multiplier float64 `json:"multiplier"`
	Cap        float64 `json:"cap,omitempty"`
	Reason     string  `json:"reason,omitempty"`
}

// Diagnostics exposes the intermediate baseline values behind a score.
type Diagnostics struct {
	HRVLogMean    float64 `json:"hrv_log_mean"`
	HRVLogStddev  float64 `json:"hrv_log_stddev"`
	HRVRecentMean float64 `json:"hrv_recent_mean"`
	HRVZ          float64 `json:"hrv_z"`
	HRVSamples    int     `json:"hrv_samples"`
	RHRMean       float64 `json:"rhr_mean"`
	RHRStddev     float64 `json:"rhr_stddev"`
	RHRZ          float64 `json:"rhr_z"`
	RHRSamples    int     `json:"rhr_samples"`
	Saturation    bool    `json:"parasympathetic_saturation"`
}

// Result is the final readiness assessment for one athlete-day.
type Result struct {
	Date              time.Time    `json:"date"`
	Score             int          `json:"score"` // 0-100 after modifiers
	BaseScore         float64      `json:"base_score"`
	Components        Components   `json:"components"`
	Modifiers         []Modifier   `json:"modifiers"`
	Multiplier        float64      `json:"multiplier"` // product of applied multiplicative modifiers
	Zone              Zone         `json:"zone"`
	Confidence        Confidence   `json:"confidence"`
	ConfidenceMessage string       `json:"confidence_message,omitempty"`
	Diagnostics       *Diagnostics `json:"diagnostics,omitempty"`
}

// MomentumCategory buckets the rate of score change.
type MomentumCategory string

// Momentum categories. Strong variants are used for state naming only;
// the 9-state matrix folds them into their base direction.
const (
	MomentumStrongDecline MomentumCategory = "strong_decline"
	MomentumDeclining     MomentumCategory = "declining"
	MomentumStable        MomentumCategory = "stable"
	MomentumImproving     MomentumCategory = "improving"
	MomentumStrongImprove MomentumCategory = "strong_improve"
)

// Direction folds the five momentum buckets into the three used by the
// trend state matrix.
func (m MomentumCategory) Direction() MomentumCategory {
	switch m {
	case MomentumStrongDecline:
		return MomentumDeclining
	case MomentumStrongImprove:
		return MomentumImproving
	default:
		return m
	}
}

// VolatilityTier classifies current volatility against the athlete's own
// trailing distribution (Bollinger envelope over the volatility series).
type VolatilityTier string

// Volatility tiers.
const (
	VolatilityLow      VolatilityTier = "low"
	VolatilityModerate VolatilityTier = "moderate"
	VolatilityHigh     VolatilityTier = "high"
)

// ScoreLevel is the 3-tier score band used by the trend state matrix.
type ScoreLevel string

// Score levels.
const (
	LevelLow      ScoreLevel = "low"      // < 65
	LevelModerate ScoreLevel = "moderate" // 65-84
	LevelPrime    ScoreLevel = "prime"    // >= 85
)

// TrendState is one of the nine fixed trajectory states, coded 1-9.
type TrendState int

// Trend states: score level crossed with momentum direction.
const (
	StatePeaking        TrendState = iota + 1 // prime, improving: super-compensation
	StateWellAdapted                          // prime, stable
	StateEarlyFatigue                         // prime, declining
	StateProductive                           // moderate, improving
	StateBalanced                             // moderate, stable
	StateAccumulating                         // moderate, declining: functional overreaching
	StateRebounding                           // low, improving
	StateUnderRecovered                       // low, stable
	StateMaladaptation                        // low, declining: acute, high risk
)

// Code returns the numeric 1-9 state code.
func (s TrendState) Code() int { return int(s) }

// String returns the canned human-readable label for the state.
func (s TrendState) String() string {
	switch s {
	case StatePeaking:
		return "super-compensation / peaking"
	case StateWellAdapted:
		return "well adapted at high readiness"
	case StateEarlyFatigue:
		return "early fatigue onset"
	case StateProductive:
		return "productive adaptation"
	case StateBalanced:
		return "balanced / neutral"
	case StateAccumulating:
		return "functional overreaching"
	case StateRebounding:
		return "rebounding recovery"
	case StateUnderRecovered:
		return "persistent under-recovery"
	case StateMaladaptation:
		return "acute maladaptation / high risk"
	default:
		return "unknown"
	}
}

// TrendResult is the short-term trajectory classification for an athlete.
type TrendResult struct {
	Date           time.Time        `json:"date"`
	Momentum       float64          `json:"momentum"` // percent change over the lookback
	Category       MomentumCategory `json:"momentum_category"`
	Volatility     float64          `json:"volatility"` // EMA of day-over-day absolute deltas
	VolatilityTier VolatilityTier   `json:"volatility_tier"`
	State          TrendState       `json:"state"`
	StateLabel     string           `json:"state_label"`
	Interpretation string           `json:"interpretation"`
	DataPoints     int              `json:"data_points"`
	Degraded       bool             `json:"degraded,omitempty"` // true when below the minimum series length
}
