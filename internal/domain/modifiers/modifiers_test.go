package modifiers_test

import (
	"math"
	"testing"

	"github.com/okian/fettle/internal/domain/model"
	"github.com/okian/fettle/internal/domain/modifiers"
	"github.com/okian/fettle/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func applied(d modifiers.Decision, name string) (types.Modifier, bool) {
	for _, m := range d.Modifiers {
		if m.Name == name {
			return m, m.Applied
		}
	}
	return types.Modifier{}, false
}

func TestApply(t *testing.T) {
	Convey("Given the modifier engine", t, func() {
		cfg := modifiers.Default()

		Convey("When the record is clean", func() {
			d := modifiers.Apply(cfg, model.WellnessRecord{}, nil)

			Convey("Then nothing applies and the multiplier is identity", func() {
				So(d.Multiplier, ShouldEqual, 1)
				So(math.IsInf(d.Cap, 1), ShouldBeTrue)
				for _, m := range d.Modifiers {
					So(m.Applied, ShouldBeFalse)
				}
			})

			Convey("And every modifier is reported even when idle", func() {
				So(len(d.Modifiers), ShouldEqual, 5)
			})
		})

		Convey("When alcohol is reported", func() {
			Convey("And intake was moderate", func() {
				d := modifiers.Apply(cfg, model.WellnessRecord{Alcohol: model.AlcoholSome}, nil)
				So(d.Multiplier, ShouldAlmostEqual, cfg.AlcoholSome, 1e-9)
			})

			Convey("And intake was heavy", func() {
				d := modifiers.Apply(cfg, model.WellnessRecord{Alcohol: model.AlcoholHeavy}, nil)
				So(d.Multiplier, ShouldAlmostEqual, cfg.AlcoholHeavy, 1e-9)
			})
		})

		Convey("When soreness is reported", func() {
			d := modifiers.Apply(cfg, model.WellnessRecord{Soreness: model.RatingPoor}, nil)

			m, ok := applied(d, "soreness")
			So(ok, ShouldBeTrue)
			So(m.Multiplier, ShouldAlmostEqual, cfg.SorenessModerate, 1e-9)
			So(d.Multiplier, ShouldAlmostEqual, cfg.SorenessModerate, 1e-9)
		})

		Convey("When motivation is low", func() {
			d := modifiers.Apply(cfg, model.WellnessRecord{Motivation: model.RatingPoor}, nil)

			_, ok := applied(d, "low_motivation")
			So(ok, ShouldBeTrue)
			So(d.Multiplier, ShouldAlmostEqual, cfg.LowMotivationMultiplier, 1e-9)

			Convey("And a good motivation rating never triggers it", func() {
				d2 := modifiers.Apply(cfg, model.WellnessRecord{Motivation: model.RatingGood}, nil)
				_, ok := applied(d2, "low_motivation")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When sleep debt accumulates", func() {
			Convey("And the debt is small", func() {
				// Two nights one hour short: 2h of debt.
				d := modifiers.Apply(cfg, model.WellnessRecord{}, []float64{7, 7, 8, 8})

				m, ok := applied(d, "sleep_debt")
				So(ok, ShouldBeTrue)
				So(m.Multiplier, ShouldAlmostEqual, 1-cfg.SleepDebtRate*2, 1e-9)
			})

			Convey("And the debt is extreme", func() {
				d := modifiers.Apply(cfg, model.WellnessRecord{}, []float64{3, 3, 3, 3, 3, 3, 3})

				Convey("Then the multiplier bottoms out at the floor", func() {
					m, _ := applied(d, "sleep_debt")
					So(m.Multiplier, ShouldAlmostEqual, cfg.SleepDebtFloor, 1e-9)
				})
			})

			Convey("And nights without data are in the window", func() {
				d := modifiers.Apply(cfg, model.WellnessRecord{}, []float64{8, 0, 8})

				Convey("Then they contribute no debt", func() {
					_, ok := applied(d, "sleep_debt")
					So(ok, ShouldBeFalse)
				})
			})
		})

		Convey("When an injury is reported", func() {
			d := modifiers.Apply(cfg, model.WellnessRecord{Injury: model.RatingWorst}, nil)

			Convey("Then it caps the score instead of scaling it", func() {
				So(d.Cap, ShouldEqual, cfg.InjuryCapSevere)
				So(d.Multiplier, ShouldEqual, 1)
			})

			Convey("And milder grades cap higher", func() {
				mild := modifiers.Apply(cfg, model.WellnessRecord{Injury: model.RatingGood}, nil)
				moderate := modifiers.Apply(cfg, model.WellnessRecord{Injury: model.RatingPoor}, nil)
				So(mild.Cap, ShouldEqual, cfg.InjuryCapMild)
				So(moderate.Cap, ShouldEqual, cfg.InjuryCapModerate)
			})
		})

		Convey("When several penalties stack", func() {
			rec := model.WellnessRecord{
				Alcohol:  model.AlcoholSome,
				Soreness: model.RatingGood,
			}
			d := modifiers.Apply(cfg, rec, nil)

			Convey("Then they compose by product, order-independent", func() {
				So(d.Multiplier, ShouldAlmostEqual, cfg.AlcoholSome*cfg.SorenessMild, 1e-9)
			})
		})
	})
}
