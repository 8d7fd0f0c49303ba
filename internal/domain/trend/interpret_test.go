package trend

import (
	"testing"

	"github.com/okian/fettle/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMatrixIsTotal(t *testing.T) {
	Convey("Given the interpretation matrix", t, func() {
		states := []types.TrendState{
			types.StatePeaking, types.StateWellAdapted, types.StateEarlyFatigue,
			types.StateProductive, types.StateBalanced, types.StateAccumulating,
			types.StateRebounding, types.StateUnderRecovered, types.StateMaladaptation,
		}
		tiers := []types.VolatilityTier{
			types.VolatilityLow, types.VolatilityModerate, types.VolatilityHigh,
		}

		Convey("Then every state and tier combination has a full cell", func() {
			for _, state := range states {
				row, ok := matrix[state]
				So(ok, ShouldBeTrue)
				for _, tier := range tiers {
					c, ok := row[tier]
					So(ok, ShouldBeTrue)
					So(c.assessment, ShouldNotBeEmpty)
					So(c.detail, ShouldNotBeEmpty)
					So(c.action, ShouldNotBeEmpty)
				}
			}
		})

		Convey("And the interpretation embeds the numbers and the action", func() {
			text := interpret(types.StateBalanced, types.VolatilityModerate, 72, 1.5, 2.0)
			So(text, ShouldContainSubstring, "score 72")
			So(text, ShouldContainSubstring, "+1.5%")
			So(text, ShouldContainSubstring, "Recommended:")
		})

		Convey("And an unknown state still yields the generic template", func() {
			text := interpret(types.TrendState(42), types.VolatilityModerate, 72, 0, 1)
			So(text, ShouldNotBeEmpty)
			So(text, ShouldContainSubstring, "Readiness is 72")
		})
	})
}
