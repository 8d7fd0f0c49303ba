package scoring

import (
	"math"

	"github.com/okian/fettle/internal/domain/baseline"
	"github.com/okian/fettle/internal/domain/model"
	"github.com/okian/fettle/internal/domain/stats"
)

// maxSleepQuality is the top of the raw sleep quality scale.
const maxSleepQuality = 100.0

// HRVScore is the HRV component outcome.
type HRVScore struct {
	Score     float64
	Z         float64
	Saturated bool
}

// ScoreHRV computes the logistic HRV component against the log-scale
// baseline. maxScore is the component's weight ceiling.
//
// The z-score compares the 7-day recent mean to the long baseline. When
// the instantaneous log-HRV falls more than the configured sensitivity
// below the long mean while RHR sits below its own baseline mean, the
// reading is reclassified as parasympathetic saturation (deep rest, not
// stress) and z is forced to the configured high constant.
func ScoreHRV(cfg HRVConfig, maxScore float64, b baseline.Baseline, currentHRV, currentRHR float64) HRVScore {
	z := stats.ZScore(b.HRVRecentMean, b.HRVLogMean, b.HRVLogStddev)

	saturated := false
	if currentHRV > 0 && currentRHR > 0 {
		floor := b.HRVLogMean - cfg.SaturationSensitivity*stats.SafeStddev(b.HRVLogStddev)
		if math.Log(currentHRV) < floor && currentRHR < b.RHRMean {
			z = cfg.SaturationZ
			saturated = true
		}
	}

	score := maxScore / (1 + math.Exp(-cfg.SigmoidK*(z-cfg.SigmoidShift)))
	return HRVScore{Score: clamp(score, 0, maxScore), Z: z, Saturated: saturated}
}

// RHRScore is the RHR component outcome.
type RHRScore struct {
	Score float64
	Z     float64
}

// ScoreRHR computes the linear RHR component. Lower resting heart rate
// is better, so the z-score sign is inverted. A missing current value
// scores at the configured baseline constant (z = 0).
func ScoreRHR(cfg RHRConfig, maxScore float64, b baseline.Baseline, currentRHR float64) RHRScore {
	var z float64
	if currentRHR > 0 {
		z = -stats.ZScore(currentRHR, b.RHRMean, b.RHRStddev)
	}
	score := cfg.Baseline + cfg.Slope*z
	return RHRScore{Score: clamp(score, 0, maxScore), Z: z}
}

// ScoreSleep computes the sleep component. With no sleep data at all the
// neutral fraction of the weight is returned. A reported quality score
// is clipped to [0,100] and scaled linearly; zero means unreported, but
// a negative reading is present-and-invalid and clips to 0. When the
// slept duration is below the configured minimum the result is
// attenuated by hours/MinHours, so high quality cannot fully offset
// short sleep.
func ScoreSleep(cfg SleepConfig, maxScore float64, sleepScore, sleepHours float64) float64 {
	if sleepScore == 0 && sleepHours <= 0 {
		return cfg.NeutralFraction * maxScore
	}

	quality := sleepScore
	if quality == 0 {
		// Duration reported without a quality score: start neutral.
		quality = cfg.NeutralFraction * maxSleepQuality
	}
	quality = clamp(quality, 0, maxSleepQuality)
	score := quality / maxSleepQuality * maxScore

	if sleepHours > 0 && cfg.MinHours > 0 && sleepHours < cfg.MinHours {
		score *= clamp(sleepHours/cfg.MinHours, 0, 1)
	}
	return clamp(score, 0, maxScore)
}

// SubjectiveScore is the subjective component outcome.
type SubjectiveScore struct {
	Score   float64
	Missing int // unreported primary fields
}

// ScoreSubjective computes the weighted average of the four converted
// primary ratings, normalized to [0,1] and scaled to the weight ceiling.
// Each missing primary field substitutes the configured default internal
// value and applies the flat missing-data penalty.
func ScoreSubjective(cfg SubjectiveConfig, maxScore float64, rec model.WellnessRecord) SubjectiveScore {
	fields := []struct {
		rating model.Rating
		weight float64
	}{
		{rec.Fatigue, cfg.FatigueWeight},
		{rec.Stress, cfg.StressWeight},
		{rec.Motivation, cfg.MotivationWeight},
		{rec.Mood, cfg.MoodWeight},
	}

	var weighted, totalWeight float64
	missing := 0
	for _, f := range fields {
		v, ok := ConvertPrimary(f.rating)
		if !ok {
			v = cfg.DefaultInternal
			missing++
		}
		weighted += v * f.weight
		totalWeight += f.weight
	}
	if totalWeight <= 0 {
		return SubjectiveScore{Score: 0, Missing: missing}
	}

	avg := weighted / totalWeight
	norm := (avg - 1) / (InternalScaleMax - 1)
	score := maxScore * clamp(norm, 0, 1)
	score *= 1 - cfg.MissingPenalty*float64(missing)

	return SubjectiveScore{Score: clamp(score, 0, maxScore), Missing: missing}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
