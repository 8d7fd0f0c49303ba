package repository_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/okian/fettle/internal/adapters/repository"
	"github.com/okian/fettle/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func day(offset int) time.Time {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func TestTreapStore(t *testing.T) {
	Convey("Given an empty treap store", t, func() {
		ctx := context.Background()
		store := repository.NewTreapStore(ctx)

		Convey("When putting a new record", func() {
			created, err := store.Put(ctx, "athlete-1", model.WellnessRecord{Date: day(0), HRV: 45})

			Convey("Then it is created", func() {
				So(err, ShouldBeNil)
				So(created, ShouldBeTrue)
				So(store.Count(ctx), ShouldEqual, 1)
				So(store.Athletes(ctx), ShouldEqual, 1)
			})

			Convey("And getting it back returns the record", func() {
				rec, err := store.Get(ctx, "athlete-1", day(0))
				So(err, ShouldBeNil)
				So(rec.HRV, ShouldEqual, 45)
			})
		})

		Convey("When putting the same day twice", func() {
			_, _ = store.Put(ctx, "athlete-1", model.WellnessRecord{Date: day(0), HRV: 45})
			created, err := store.Put(ctx, "athlete-1", model.WellnessRecord{Date: day(0), HRV: 50})

			Convey("Then the record is replaced in place", func() {
				So(err, ShouldBeNil)
				So(created, ShouldBeFalse)
				So(store.Count(ctx), ShouldEqual, 1)

				rec, err := store.Get(ctx, "athlete-1", day(0))
				So(err, ShouldBeNil)
				So(rec.HRV, ShouldEqual, 50)
			})
		})

		Convey("When the athlete-day does not exist", func() {
			_, err := store.Get(ctx, "athlete-1", day(0))

			Convey("Then the not-found sentinel is returned", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When different times on the same day are written", func() {
			noon := day(0).Add(12 * time.Hour)
			_, _ = store.Put(ctx, "athlete-1", model.WellnessRecord{Date: noon, HRV: 45})

			Convey("Then the lookup by midnight still finds it", func() {
				rec, err := store.Get(ctx, "athlete-1", day(0))
				So(err, ShouldBeNil)
				So(rec.HRV, ShouldEqual, 45)
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When ranging over shuffled inserts", func() {
			offsets := rand.New(rand.NewSource(1)).Perm(30)
			for _, o := range offsets {
				_, err := store.Put(ctx, "athlete-1", model.WellnessRecord{Date: day(-o), HRV: float64(40 + o)})
				So(err, ShouldBeNil)
			}

			records, err := store.Range(ctx, "athlete-1", day(-29), day(0))

			Convey("Then the full history comes back chronologically", func() {
				So(err, ShouldBeNil)
				So(len(records), ShouldEqual, 30)
				for i := 1; i < len(records); i++ {
					So(records[i-1].Date.Before(records[i].Date), ShouldBeTrue)
				}
			})

			Convey("And a sub-range is inclusive on both ends", func() {
				sub, err := store.Range(ctx, "athlete-1", day(-10), day(-5))
				So(err, ShouldBeNil)
				So(len(sub), ShouldEqual, 6)
				So(sub[0].Date.Equal(day(-10)), ShouldBeTrue)
				So(sub[len(sub)-1].Date.Equal(day(-5)), ShouldBeTrue)
			})

			Convey("And an inverted range is rejected", func() {
				_, err := store.Range(ctx, "athlete-1", day(0), day(-5))
				So(errors.Is(err, repository.ErrInvalidRange), ShouldBeTrue)
			})
		})

		Convey("When multiple athletes are stored", func() {
			_, _ = store.Put(ctx, "athlete-1", model.WellnessRecord{Date: day(0), HRV: 45})
			_, _ = store.Put(ctx, "athlete-2", model.WellnessRecord{Date: day(0), HRV: 52})

			Convey("Then histories stay isolated", func() {
				So(store.Athletes(ctx), ShouldEqual, 2)

				rec, err := store.Get(ctx, "athlete-2", day(0))
				So(err, ShouldBeNil)
				So(rec.HRV, ShouldEqual, 52)

				records, err := store.Range(ctx, "athlete-1", day(-5), day(0))
				So(err, ShouldBeNil)
				So(len(records), ShouldEqual, 1)
			})
		})
	})
}

func TestTreapStoreConcurrency(t *testing.T) {
	Convey("Given concurrent writers and readers", t, func() {
		ctx := context.Background()
		store := repository.NewTreapStore(ctx)

		const writers = 8
		const daysPerWriter = 50

		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				athlete := fmt.Sprintf("athlete-%d", w)
				for d := 0; d < daysPerWriter; d++ {
					_, _ = store.Put(ctx, athlete, model.WellnessRecord{Date: day(-d), HRV: 45})
					_, _ = store.Range(ctx, athlete, day(-daysPerWriter), day(0))
				}
			}(w)
		}
		wg.Wait()

		Convey("Then every record lands exactly once", func() {
			So(store.Count(ctx), ShouldEqual, writers*daysPerWriter)
			So(store.Athletes(ctx), ShouldEqual, writers)
		})
	})
}
