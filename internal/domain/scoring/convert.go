package scoring

import "github.com/okian/fettle/internal/domain/model"

// InternalScaleMax is the top of the internal 1-5 higher-is-better scale.
const InternalScaleMax = 5.0

// Severity is the 4-level internal severity used by the soreness and
// injury modifiers.
type Severity int

// Severity levels, none to severe.
const (
	SeverityNone Severity = iota
	SeverityMild
	SeverityModerate
	SeveritySevere
)

// primaryTable converts fatigue/stress/motivation/mood ratings from the
// external 1-4 lower-is-better scale to the internal 1-5 higher-is-better
// scale. The mapping is deliberately non-linear: the 2->3 step is the
// steepest because a "3" already signals a problem.
var primaryTable = map[model.Rating]float64{
	model.RatingBest:  5,
	model.RatingGood:  4,
	model.RatingPoor:  2,
	model.RatingWorst: 1,
}

// severityTable converts soreness/injury ratings to the internal scale.
// Its shape differs from primaryTable: any report above "best" already
// drops to the midpoint, since localized symptoms escalate fast.
var severityTable = map[model.Rating]float64{
	model.RatingBest:  5,
	model.RatingGood:  3,
	model.RatingPoor:  2,
	model.RatingWorst: 1,
}

// ConvertPrimary maps a primary rating to the internal scale. The second
// return is false when the rating was not reported.
func ConvertPrimary(r model.Rating) (float64, bool) {
	v, ok := primaryTable[r]
	return v, ok
}

// ConvertSeverity maps a soreness/injury rating to the internal scale.
func ConvertSeverity(r model.Rating) (float64, bool) {
	v, ok := severityTable[r]
	return v, ok
}

// SeverityLevel maps a soreness/injury rating to its modifier level.
// Unreported ratings count as none.
func SeverityLevel(r model.Rating) Severity {
	switch r {
	case model.RatingGood:
		return SeverityMild
	case model.RatingPoor:
		return SeverityModerate
	case model.RatingWorst:
		return SeveritySevere
	default:
		return SeverityNone
	}
}
