// Package modifiers applies the multiplicative readiness penalties
// (alcohol, soreness, low motivation, sleep debt) and the injury hard
// cap. The multiplicative modifiers compose by product and are
// order-independent; the injury modifier is a post-hoc ceiling on the
// final score, never a factor.
package modifiers

import (
	"fmt"
	"math"

	"github.com/okian/fettle/internal/domain/model"
	"github.com/okian/fettle/internal/domain/scoring"
	"github.com/okian/fettle/internal/domain/types"
)

// Config sets the penalty multipliers and the injury ceilings.
type Config struct {
	AlcoholSome  float64 `koanf:"alcohol_some"`
	AlcoholHeavy float64 `koanf:"alcohol_heavy"`

	SorenessMild     float64 `koanf:"soreness_mild"`
	SorenessModerate float64 `koanf:"soreness_moderate"`
	SorenessSevere   float64 `koanf:"soreness_severe"`

	// LowMotivationMax is the internal-scale value at or below which
	// the motivation penalty applies.
	LowMotivationMax        float64 `koanf:"low_motivation_max"`
	LowMotivationMultiplier float64 `koanf:"low_motivation_multiplier"`

	// Sleep debt over the trailing window: debt hours are summed as
	// max(0, target-actual) per night, then discounted at Rate per
	// hour down to Floor.
	SleepDebtTargetHours float64 `koanf:"sleep_debt_target_hours"`
	SleepDebtDays        int     `koanf:"sleep_debt_days"`
	SleepDebtRate        float64 `koanf:"sleep_debt_rate"`
	SleepDebtFloor       float64 `koanf:"sleep_debt_floor"`

	InjuryCapMild     float64 `koanf:"injury_cap_mild"`
	InjuryCapModerate float64 `koanf:"injury_cap_moderate"`
	InjuryCapSevere   float64 `koanf:"injury_cap_severe"`
}

// Default returns the reference modifier configuration.
func Default() Config {
	return Config{
		AlcoholSome:             0.85,
		AlcoholHeavy:            0.60,
		SorenessMild:            0.90,
		SorenessModerate:        0.75,
		SorenessSevere:          0.50,
		LowMotivationMax:        2,
		LowMotivationMultiplier: 0.90,
		SleepDebtTargetHours:    8,
		SleepDebtDays:           7,
		SleepDebtRate:           0.05,
		SleepDebtFloor:          0.70,
		InjuryCapMild:           70,
		InjuryCapModerate:       50,
		InjuryCapSevere:         30,
	}
}

// Decision is the combined modifier outcome for one day.
type Decision struct {
	Modifiers  []types.Modifier
	Multiplier float64 // product of applied multiplicative modifiers
	Cap        float64 // injury ceiling, +Inf when uncapped
}

// Apply evaluates all modifiers for the current record.
// recentSleepHours holds the reported sleep durations over the trailing
// debt window, current night included; nights without data contribute no
// debt.
func Apply(cfg Config, rec model.WellnessRecord, recentSleepHours []float64) Decision {
	d := Decision{Multiplier: 1, Cap: math.Inf(1)}

	d.add(alcohol(cfg, rec.Alcohol))
	d.add(soreness(cfg, rec.Soreness))
	d.add(motivation(cfg, rec.Motivation))
	d.add(sleepDebt(cfg, recentSleepHours))

	inj := injury(cfg, rec.Injury)
	if inj.Applied {
		d.Cap = inj.Cap
	}
	d.Modifiers = append(d.Modifiers, inj)

	return d
}

func (d *Decision) add(m types.Modifier) {
	if m.Applied {
		d.Multiplier *= m.Multiplier
	}
	d.Modifiers = append(d.Modifiers, m)
}

func alcohol(cfg Config, level model.AlcoholLevel) types.Modifier {
	m := types.Modifier{Name: "alcohol", Multiplier: 1}
	switch level {
	case model.AlcoholSome:
		m.Applied = true
		m.Multiplier = cfg.AlcoholSome
		m.Reason = "alcohol reported"
	case model.AlcoholHeavy:
		m.Applied = true
		m.Multiplier = cfg.AlcoholHeavy
		m.Reason = "heavy alcohol reported"
	default:
	}
	return m
}

func soreness(cfg Config, r model.Rating) types.Modifier {
	m := types.Modifier{Name: "soreness", Multiplier: 1}
	switch scoring.SeverityLevel(r) {
	case scoring.SeverityMild:
		m.Applied = true
		m.Multiplier = cfg.SorenessMild
		m.Reason = "mild muscle soreness"
	case scoring.SeverityModerate:
		m.Applied = true
		m.Multiplier = cfg.SorenessModerate
		m.Reason = "moderate muscle soreness"
	case scoring.SeveritySevere:
		m.Applied = true
		m.Multiplier = cfg.SorenessSevere
		m.Reason = "severe muscle soreness"
	default:
	}
	return m
}

func motivation(cfg Config, r model.Rating) types.Modifier {
	m := types.Modifier{Name: "low_motivation", Multiplier: 1}
	if v, ok := scoring.ConvertPrimary(r); ok && v <= cfg.LowMotivationMax {
		m.Applied = true
		m.Multiplier = cfg.LowMotivationMultiplier
		m.Reason = "low motivation"
	}
	return m
}

func sleepDebt(cfg Config, recentHours []float64) types.Modifier {
	m := types.Modifier{Name: "sleep_debt", Multiplier: 1}
	var debt float64
	for _, h := range recentHours {
		if h > 0 && h < cfg.SleepDebtTargetHours {
			debt += cfg.SleepDebtTargetHours - h
		}
	}
	if debt <= 0 {
		return m
	}
	m.Applied = true
	m.Multiplier = math.Max(cfg.SleepDebtFloor, 1-cfg.SleepDebtRate*debt)
	m.Reason = fmt.Sprintf("%.1f hours of sleep debt over %d days", debt, cfg.SleepDebtDays)
	return m
}

func injury(cfg Config, r model.Rating) types.Modifier {
	m := types.Modifier{Name: "injury", Multiplier: 1}
	switch scoring.SeverityLevel(r) {
	case scoring.SeverityMild:
		m.Applied = true
		m.Cap = cfg.InjuryCapMild
		m.Reason = "mild injury reported"
	case scoring.SeverityModerate:
		m.Applied = true
		m.Cap = cfg.InjuryCapModerate
		m.Reason = "moderate injury reported"
	case scoring.SeveritySevere:
		m.Applied = true
		m.Cap = cfg.InjuryCapSevere
		m.Reason = "severe injury reported"
	default:
	}
	return m
}
