package synthetic

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/okian/fettle/internal/domain/model"
	"github.com/okian/fettle/pkg/logger"
)

// Athlete archetypes. Each athlete is assigned one and its whole history
// follows the corresponding trajectory.
const (
	archetypeSteady = iota
	archetypeAdapting
	archetypeFatiguing
	archetypeErratic
	archetypeSparse
	archetypeCount
)

// Physiological ranges for generated records.
const (
	hrvBaseMin   = 35.0 // ms
	hrvBaseRange = 50.0
	rhrBaseMin   = 42.0 // bpm
	rhrBaseRange = 20.0
	sleepBase    = 78.0
	sleepSpread  = 12.0
	hoursBase    = 7.4
	hoursSpread  = 1.1

	driftPerDay   = 0.004 // relative HRV drift for adapting/fatiguing
	erraticFactor = 3.0   // noise multiplier for erratic athletes
	sparseDropout = 0.45  // chance a sparse athlete skips objective data

	alcoholSomeChance  = 0.06
	alcoholHeavyChance = 0.015
	sorenessChance     = 0.12
	injuryChance       = 0.01
)

// AthleteHistory is one simulated athlete with its full record series.
type AthleteHistory struct {
	AthleteID string                `json:"athlete_id"`
	Archetype int                   `json:"archetype"`
	Records   []model.WellnessRecord `json:"records"`
}

// generateAthletes simulates cfg.Athletes athletes with cfg.Days of
// history each, ending yesterday. The seed makes runs reproducible.
func generateAthletes(ctx context.Context, cfg *Config, stats *Stats) []AthleteHistory {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	logger.Get().Info(ctx, "generating synthetic wellness histories",
		logger.Int("athletes", cfg.Athletes),
		logger.Int("days", cfg.Days),
		logger.Any("seed", seed))

	end := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -1)

	athletes := make([]AthleteHistory, cfg.Athletes)
	for i := range athletes {
		athletes[i] = generateHistory(rng, cfg.Days, end)
		stats.RecordsGenerated += len(athletes[i].Records)
	}

	logger.Get().Info(ctx, "generated records",
		logger.Int("athletes", len(athletes)),
		logger.Int("records", stats.RecordsGenerated))
	return athletes
}

// generateHistory builds one athlete's series around a personal baseline,
// applying the archetype's drift and noise day by day.
func generateHistory(rng *rand.Rand, days int, end time.Time) AthleteHistory {
	archetype := rng.Intn(archetypeCount)

	baseHRV := hrvBaseMin + rng.Float64()*hrvBaseRange
	baseRHR := rhrBaseMin + rng.Float64()*rhrBaseRange

	noise := 1.0
	drift := 0.0
	switch archetype {
	case archetypeAdapting:
		drift = driftPerDay
	case archetypeFatiguing:
		drift = -driftPerDay
	case archetypeErratic:
		noise = erraticFactor
	}

	h := AthleteHistory{
		AthleteID: uuid.New().String(),
		Archetype: archetype,
		Records:   make([]model.WellnessRecord, 0, days),
	}

	for d := 0; d < days; d++ {
		date := end.AddDate(0, 0, d-days+1)
		progress := float64(d)

		rec := model.WellnessRecord{Date: date}

		if archetype != archetypeSparse || rng.Float64() > sparseDropout {
			// HRV is lognormally distributed around the drifting baseline.
			logHRV := math.Log(baseHRV) + drift*progress + rng.NormFloat64()*0.08*noise
			rec.HRV = round1(math.Exp(logHRV))
			// RHR drifts opposite to HRV.
			rec.RHR = round1(baseRHR - drift*progress*baseRHR + rng.NormFloat64()*1.5*noise)
			rec.SleepScore = clampRange(sleepBase+rng.NormFloat64()*sleepSpread, 0, 100)
			rec.SleepHours = round1(clampRange(hoursBase+rng.NormFloat64()*hoursSpread*0.5, 3, 11))
		}

		rec.Fatigue = subjectiveRating(rng, drift, progress)
		rec.Stress = subjectiveRating(rng, drift, progress)
		rec.Motivation = subjectiveRating(rng, drift, progress)
		rec.Mood = subjectiveRating(rng, drift, progress)

		if rng.Float64() < sorenessChance {
			rec.Soreness = model.Rating(2 + rng.Intn(3))
		}
		if rng.Float64() < injuryChance {
			rec.Injury = model.Rating(2 + rng.Intn(3))
		}
		switch r := rng.Float64(); {
		case r < alcoholHeavyChance:
			rec.Alcohol = model.AlcoholHeavy
		case r < alcoholHeavyChance+alcoholSomeChance:
			rec.Alcohol = model.AlcoholSome
		}

		h.Records = append(h.Records, rec)
	}
	return h
}

// subjectiveRating biases the 1-4 rating toward "worse" for fatiguing
// athletes and "better" for adapting ones.
func subjectiveRating(rng *rand.Rand, drift, progress float64) model.Rating {
	bias := -drift * progress * 10
	v := 2.0 + rng.NormFloat64()*0.8 + bias
	switch {
	case v < 1.5:
		return model.RatingBest
	case v < 2.5:
		return model.RatingGood
	case v < 3.5:
		return model.RatingPoor
	default:
		return model.RatingWorst
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clampRange(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
