package trend

import (
	"fmt"

	"github.com/okian/fettle/internal/domain/types"
)

// cell is one entry of the (state x volatility tier) interpretation
// matrix: a short assessment, a detail sentence and a recommended action.
type cell struct {
	assessment string
	detail     string
	action     string
}

// matrix covers all 27 combinations. A missing cell never fails the
// lookup; interpret falls back to a generic template built from the raw
// numbers. An exhaustiveness test asserts the matrix stays total.
var matrix = map[types.TrendState]map[types.VolatilityTier]cell{
	types.StatePeaking: {
		types.VolatilityLow: {
			assessment: "Peaking with very consistent day-to-day readiness",
			detail:     "Readiness is high and still climbing on a stable base, the classic super-compensation window.",
			action:     "Schedule key sessions or competition now; this window rarely lasts more than a week.",
		},
		types.VolatilityModerate: {
			assessment: "Peaking, with normal day-to-day variation",
			detail:     "Readiness is high and climbing; daily variation is within your usual range.",
			action:     "Use the window for priority sessions while keeping an eye on daily scores.",
		},
		types.VolatilityHigh: {
			assessment: "High readiness but unstable day to day",
			detail:     "Scores are strong and rising, but swinging more than your history suggests they should.",
			action:     "Capitalize carefully; keep recovery dialed in so the swings settle before a key event.",
		},
	},
	types.StateWellAdapted: {
		types.VolatilityLow: {
			assessment: "Well adapted and very stable at high readiness",
			detail:     "You are holding a high plateau with minimal fluctuation, a sign of a well absorbed training load.",
			action:     "Current load is sustainable; a modest overload block could drive further adaptation.",
		},
		types.VolatilityModerate: {
			assessment: "Well adapted at high readiness",
			detail:     "Readiness is holding at a high level with ordinary day-to-day movement.",
			action:     "Train as planned; no change needed.",
		},
		types.VolatilityHigh: {
			assessment: "High readiness masking unstable recovery",
			detail:     "The average is high but individual days swing widely, which can precede a downturn.",
			action:     "Hold load steady and tighten sleep consistency until the swings narrow.",
		},
	},
	types.StateEarlyFatigue: {
		types.VolatilityLow: {
			assessment: "Controlled dip from a high base",
			detail:     "Readiness is easing off a high level in a steady, predictable way, often simply planned overload.",
			action:     "If this dip is planned, continue; otherwise insert an easy day before it deepens.",
		},
		types.VolatilityModerate: {
			assessment: "Early fatigue onset",
			detail:     "Readiness is declining from a high base at a normal variability level.",
			action:     "Reduce intensity slightly for 2-3 days and reassess the trend.",
		},
		types.VolatilityHigh: {
			assessment: "Erratic decline from high readiness",
			detail:     "Falling scores with large swings suggest recovery is no longer keeping up with stress.",
			action:     "Cut intensity now; prioritize sleep and monitor for a continued slide.",
		},
	},
	types.StateProductive: {
		types.VolatilityLow: {
			assessment: "Smooth, productive adaptation",
			detail:     "Readiness is improving steadily through the moderate range with very consistent days.",
			action:     "Keep the current progression; it is working.",
		},
		types.VolatilityModerate: {
			assessment: "Productive adaptation",
			detail:     "Readiness is improving through the moderate range at normal variability.",
			action:     "Maintain the plan; expect to reach the prime zone if the trend holds.",
		},
		types.VolatilityHigh: {
			assessment: "Improving but choppy",
			detail:     "The direction is right, but big day-to-day swings mean the gains are fragile.",
			action:     "Progress load conservatively and smooth out recovery habits.",
		},
	},
	types.StateBalanced: {
		types.VolatilityLow: {
			assessment: "Stable and balanced",
			detail:     "Readiness is flat in the moderate range with little fluctuation; load and recovery are in equilibrium.",
			action:     "Sustainable indefinitely; add stimulus if you want to push adaptation.",
		},
		types.VolatilityModerate: {
			assessment: "Balanced, neutral trend",
			detail:     "Readiness is holding in the moderate range with ordinary day-to-day movement.",
			action:     "Train as planned and self-regulate intensity by feel.",
		},
		types.VolatilityHigh: {
			assessment: "Flat on average, volatile underneath",
			detail:     "The weekly average hides large daily swings, usually inconsistent sleep or irregular stressors.",
			action:     "Look for the source of the swings before adding training load.",
		},
	},
	types.StateAccumulating: {
		types.VolatilityLow: {
			assessment: "Steady functional overreaching",
			detail:     "Readiness is grinding down in a controlled fashion, consistent with a deliberate overload block.",
			action:     "Acceptable short term; plan the recovery week that converts this into adaptation.",
		},
		types.VolatilityModerate: {
			assessment: "Functional overreaching",
			detail:     "Fatigue is accumulating and readiness is trending down through the moderate range.",
			action:     "Limit the decline to about two weeks, then recover; watch for sharpening drops.",
		},
		types.VolatilityHigh: {
			assessment: "Disorderly fatigue accumulation",
			detail:     "Declining scores with high variability suggest the overload is no longer controlled.",
			action:     "Start the recovery phase early; the pattern is drifting toward non-functional overreaching.",
		},
	},
	types.StateRebounding: {
		types.VolatilityLow: {
			assessment: "Clean rebound from low readiness",
			detail:     "Readiness is climbing out of the low range on consistent days; recovery is taking hold.",
			action:     "Reintroduce moderate sessions; delay high intensity until the moderate zone is reached.",
		},
		types.VolatilityModerate: {
			assessment: "Rebounding recovery",
			detail:     "Readiness is improving from a low base at normal variability.",
			action:     "Keep load light-to-moderate and let the rebound complete.",
		},
		types.VolatilityHigh: {
			assessment: "Fragile rebound",
			detail:     "Scores are rising from a low base but swinging hard; the recovery is not yet stable.",
			action:     "Protect sleep and keep training easy; avoid testing the rebound early.",
		},
	},
	types.StateUnderRecovered: {
		types.VolatilityLow: {
			assessment: "Stuck at low readiness",
			detail:     "Readiness is flat in the low range with little movement, a persistent under-recovery pattern.",
			action:     "Something chronic is suppressing recovery: review training load, sleep, life stress and health.",
		},
		types.VolatilityModerate: {
			assessment: "Persistent under-recovery",
			detail:     "Readiness is holding in the low range without a clear rebound.",
			action:     "Take a genuine recovery block; if scores stay low beyond two weeks, investigate further.",
		},
		types.VolatilityHigh: {
			assessment: "Low and unstable readiness",
			detail:     "Low scores with big swings point to an unresolved stressor, possibly illness or severe sleep debt.",
			action:     "Back off training and address the underlying stressor before resuming.",
		},
	},
	types.StateMaladaptation: {
		types.VolatilityLow: {
			assessment: "Steady decline into low readiness",
			detail:     "Readiness is sliding below the low threshold in a sustained way; the body is losing the load battle.",
			action:     "Stop intensity entirely; take several full recovery days and reassess.",
		},
		types.VolatilityModerate: {
			assessment: "Acute maladaptation, high risk",
			detail:     "Readiness is low and still falling, the highest-risk cell of the matrix.",
			action:     "Rest now. Resume only easy activity after scores turn upward, and consider a health check.",
		},
		types.VolatilityHigh: {
			assessment: "Acute maladaptation with erratic collapse",
			detail:     "Low, falling, and highly unstable scores frequently precede illness or injury.",
			action:     "Full rest, and rule out illness; do not train through this pattern.",
		},
	},
}

// interpret renders the matrix cell for (state, tier), interpolating the
// current numbers and appending the recommended action. Unknown
// combinations fall back to a generic numeric template.
func interpret(state types.TrendState, tier types.VolatilityTier, score, momentum, volatility float64) string {
	byTier, ok := matrix[state]
	if !ok {
		return genericText(score, momentum, volatility)
	}
	c, ok := byTier[tier]
	if !ok {
		return genericText(score, momentum, volatility)
	}
	return fmt.Sprintf("%s. %s (score %.0f, momentum %+.1f%%, volatility %.1f). Recommended: %s",
		c.assessment, c.detail, score, momentum, volatility, c.action)
}

func genericText(score, momentum, volatility float64) string {
	return fmt.Sprintf("Readiness is %.0f with %+.1f%% momentum over the lookback window and volatility of %.1f. No specific guidance is available for this combination; interpret against your recent history.",
		score, momentum, volatility)
}

func insufficientText(points, minimum int) string {
	return fmt.Sprintf("Only %d scored days are available; at least %d are needed for a reliable trend. Trend is reported as neutral with low confidence until more history accumulates.",
		points, minimum)
}
