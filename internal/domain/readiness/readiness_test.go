package readiness_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/okian/fettle/internal/domain/model"
	"github.com/okian/fettle/internal/domain/readiness"
	"github.com/okian/fettle/internal/domain/scoring"
	"github.com/okian/fettle/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func day(offset int) time.Time {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

// steadyHistory builds n identical days ending the day before offset 0.
func steadyHistory(n int) []model.WellnessRecord {
	records := make([]model.WellnessRecord, 0, n)
	for i := n; i >= 1; i-- {
		records = append(records, model.WellnessRecord{
			Date:       day(-i),
			HRV:        45,
			RHR:        50,
			SleepScore: 80,
			SleepHours: 8,
			Fatigue:    model.RatingGood,
			Stress:     model.RatingGood,
			Motivation: model.RatingGood,
			Mood:       model.RatingGood,
		})
	}
	return records
}

func steadyCurrent() model.WellnessRecord {
	return model.WellnessRecord{
		Date:       day(0),
		HRV:        45,
		RHR:        50,
		SleepScore: 80,
		SleepHours: 8,
		Fatigue:    model.RatingGood,
		Stress:     model.RatingGood,
		Motivation: model.RatingGood,
		Mood:       model.RatingGood,
	}
}

func TestNew(t *testing.T) {
	Convey("Given the calculator constructor", t, func() {
		Convey("When the configuration is valid", func() {
			calc, err := readiness.New(readiness.DefaultConfig())
			So(err, ShouldBeNil)
			So(calc, ShouldNotBeNil)
		})

		Convey("When the weights do not sum to 100", func() {
			cfg := readiness.DefaultConfig()
			cfg.Weights = scoring.Weights{HRV: 50, RHR: 25, Sleep: 15, Subjective: 20}

			calc, err := readiness.New(cfg)

			Convey("Then construction fails", func() {
				So(calc, ShouldBeNil)
				So(err, ShouldWrap, scoring.ErrInvalidWeights)
			})
		})
	})
}

func TestScoreValidation(t *testing.T) {
	Convey("Given a calculator", t, func() {
		calc, err := readiness.New(readiness.DefaultConfig())
		So(err, ShouldBeNil)

		Convey("When several required fields are missing", func() {
			_, err := calc.Score(readiness.Input{Current: model.WellnessRecord{}})

			Convey("Then all violations are reported together", func() {
				var verr *readiness.ValidationError
				So(errors.As(err, &verr), ShouldBeTrue)
				So(len(verr.Violations), ShouldEqual, 3)
				So(errors.Is(err, readiness.ErrInvalidInput), ShouldBeTrue)
			})
		})

		Convey("When only HRV is missing", func() {
			_, err := calc.Score(readiness.Input{Current: model.WellnessRecord{Date: day(0), RHR: 50}})

			var verr *readiness.ValidationError
			So(errors.As(err, &verr), ShouldBeTrue)
			So(len(verr.Violations), ShouldEqual, 1)
		})
	})
}

func TestScorePipeline(t *testing.T) {
	Convey("Given a calculator with full history", t, func() {
		calc, err := readiness.New(readiness.DefaultConfig())
		So(err, ShouldBeNil)

		historical := steadyHistory(60)

		Convey("When scoring a steady day", func() {
			res, err := calc.Score(readiness.Input{Current: steadyCurrent(), Historical: historical})
			So(err, ShouldBeNil)

			Convey("Then the result lands in the moderate zone", func() {
				So(res.Score, ShouldBeBetween, 60, 80)
				So(res.Zone, ShouldEqual, types.ZoneModerate)
			})

			Convey("And the components sum to the base score", func() {
				So(res.Components.Sum(), ShouldAlmostEqual, res.BaseScore, 1e-9)
			})

			Convey("And no modifiers applied", func() {
				So(res.Multiplier, ShouldEqual, 1)
			})

			Convey("And confidence is high after 60 days", func() {
				So(res.Confidence, ShouldEqual, types.ConfidenceHigh)
				So(res.ConfidenceMessage, ShouldBeEmpty)
			})

			Convey("And diagnostics are off by default", func() {
				So(res.Diagnostics, ShouldBeNil)
			})
		})

		Convey("When the calculator carries diagnostics", func() {
			dcalc, err := readiness.New(readiness.DefaultConfig(), readiness.WithDiagnostics())
			So(err, ShouldBeNil)

			res, err := dcalc.Score(readiness.Input{Current: steadyCurrent(), Historical: historical})
			So(err, ShouldBeNil)

			Convey("Then the baseline intermediates are attached", func() {
				So(res.Diagnostics, ShouldNotBeNil)
				So(res.Diagnostics.HRVSamples, ShouldEqual, 60)
				So(res.Diagnostics.RHRSamples, ShouldEqual, 30)
			})
		})

		Convey("When identical input is scored twice", func() {
			in := readiness.Input{Current: steadyCurrent(), Historical: historical}
			a, errA := calc.Score(in)
			b, errB := calc.Score(in)

			Convey("Then the results are identical", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a, ShouldResemble, b)
			})
		})

		Convey("When heavy alcohol is reported", func() {
			current := steadyCurrent()
			current.Alcohol = model.AlcoholHeavy

			clean, _ := calc.Score(readiness.Input{Current: steadyCurrent(), Historical: historical})
			res, err := calc.Score(readiness.Input{Current: current, Historical: historical})
			So(err, ShouldBeNil)

			Convey("Then the score takes the 40 percent haircut", func() {
				So(res.Multiplier, ShouldAlmostEqual, 0.60, 1e-9)
				So(res.Score, ShouldEqual, int(math.Round(clean.BaseScore*0.6)))
			})
		})

		Convey("When a severe injury is reported on a good day", func() {
			current := steadyCurrent()
			current.Injury = model.RatingWorst

			res, err := calc.Score(readiness.Input{Current: current, Historical: historical})
			So(err, ShouldBeNil)

			Convey("Then the cap wins over everything else", func() {
				So(res.Score, ShouldBeLessThanOrEqualTo, 30)
				So(res.Zone, ShouldEqual, types.ZoneLow)
			})
		})

		Convey("When the athlete trends clearly better", func() {
			current := steadyCurrent()
			current.HRV = 60
			current.RHR = 45
			current.SleepScore = 95
			current.Fatigue = model.RatingBest
			current.Stress = model.RatingBest
			current.Motivation = model.RatingBest
			current.Mood = model.RatingBest

			// Recent week already elevated so the 7-day mean moves.
			records := steadyHistory(60)
			for i := len(records) - 6; i < len(records); i++ {
				records[i].HRV = 60
				records[i].RHR = 45
			}

			res, err := calc.Score(readiness.Input{Current: current, Historical: records})
			So(err, ShouldBeNil)

			baselineRes, _ := calc.Score(readiness.Input{Current: steadyCurrent(), Historical: steadyHistory(60)})

			Convey("Then the score improves over the steady day", func() {
				So(res.Score, ShouldBeGreaterThan, baselineRes.Score)
			})
		})
	})
}

func TestConfidence(t *testing.T) {
	Convey("Given a calculator", t, func() {
		calc, err := readiness.New(readiness.DefaultConfig())
		So(err, ShouldBeNil)

		score := func(days int) types.Result {
			res, err := calc.Score(readiness.Input{Current: steadyCurrent(), Historical: steadyHistory(days)})
			So(err, ShouldBeNil)
			return res
		}

		Convey("When history is short", func() {
			res := score(10)
			So(res.Confidence, ShouldEqual, types.ConfidenceLow)
			So(res.ConfidenceMessage, ShouldNotBeEmpty)
		})

		Convey("When history is partial", func() {
			res := score(45)
			So(res.Confidence, ShouldEqual, types.ConfidenceMedium)
		})

		Convey("When history covers the full baseline window", func() {
			res := score(60)
			So(res.Confidence, ShouldEqual, types.ConfidenceHigh)
		})

		Convey("When there is no history at all", func() {
			res := score(0)

			Convey("Then the result degrades instead of failing", func() {
				So(res.Confidence, ShouldEqual, types.ConfidenceLow)
				So(res.Score, ShouldBeBetween, 0, 100)
			})
		})
	})
}

func TestScoreLenient(t *testing.T) {
	Convey("Given the lenient scoring path", t, func() {
		calc, err := readiness.New(readiness.DefaultConfig())
		So(err, ShouldBeNil)

		Convey("When the day carries only sleep data", func() {
			rec := model.WellnessRecord{Date: day(0), SleepScore: 80, SleepHours: 8}
			res := calc.ScoreLenient(rec, steadyHistory(60))

			Convey("Then missing HRV and RHR score neutral instead of failing", func() {
				So(res.Score, ShouldBeGreaterThan, 0)
				// RHR missing scores the baseline constant.
				So(res.Components.RHR, ShouldAlmostEqual, 17.5, 1e-9)
			})
		})
	})
}

func TestOverrideMerge(t *testing.T) {
	Convey("Given the engine configuration", t, func() {
		base := readiness.DefaultConfig()

		Convey("When merging a nil override", func() {
			So(base.Merge(nil), ShouldResemble, base)
		})

		Convey("When overriding one section", func() {
			w := scoring.Weights{HRV: 50, RHR: 20, Sleep: 15, Subjective: 15}
			merged := base.Merge(&readiness.Override{Weights: &w})

			Convey("Then only that section changes", func() {
				So(merged.Weights, ShouldResemble, w)
				So(merged.HRV, ShouldResemble, base.HRV)
				So(merged.Modifiers, ShouldResemble, base.Modifiers)
			})

			Convey("And the base is left untouched", func() {
				So(base.Weights, ShouldResemble, scoring.DefaultWeights())
			})
		})
	})
}
