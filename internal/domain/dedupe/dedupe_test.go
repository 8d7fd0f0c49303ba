package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/okian/fettle/internal/domain/dedupe"
	"github.com/okian/fettle/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		Convey("When creating a deduper with default options", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it should start empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording update IDs", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the update is new", func() {
				seen := d.SeenAndRecord(context.Background(), "upd-1")

				Convey("Then it should return false and record the update", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the update was already seen", func() {
				d.SeenAndRecord(context.Background(), "upd-1")

				seen := d.SeenAndRecord(context.Background(), "upd-1")

				Convey("Then it should return true without growing", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And multiple updates are recorded", func() {
				ids := []model.UpdateID{"upd-1", "upd-2", "upd-3", "upd-4", "upd-5"}

				for _, id := range ids {
					seen := d.SeenAndRecord(context.Background(), id)
					So(seen, ShouldBeFalse)
				}

				Convey("Then all of them should be remembered", func() {
					So(d.Size(), ShouldEqual, int64(len(ids)))

					for _, id := range ids {
						So(d.SeenAndRecord(context.Background(), id), ShouldBeTrue)
					}
				})
			})
		})

		Convey("When unrecording updates", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the update exists", func() {
				d.SeenAndRecord(context.Background(), "upd-1")
				So(d.Size(), ShouldEqual, 1)

				d.Unrecord(context.Background(), "upd-1")

				Convey("Then it should be forgotten", func() {
					So(d.Size(), ShouldEqual, 0)
					So(d.SeenAndRecord(context.Background(), "upd-1"), ShouldBeFalse)
				})
			})

			Convey("And the update doesn't exist", func() {
				d.Unrecord(context.Background(), "nonexistent")

				Convey("Then the size is unchanged", func() {
					So(d.Size(), ShouldEqual, 0)
				})
			})
		})

		Convey("When using bounded mode with eviction", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))

			Convey("And the deduper is at capacity", func() {
				ids := []model.UpdateID{"upd-1", "upd-2", "upd-3"}
				for _, id := range ids {
					So(d.SeenAndRecord(context.Background(), id), ShouldBeFalse)
				}
				So(d.Size(), ShouldEqual, 3)

				seen := d.SeenAndRecord(context.Background(), "upd-4")

				Convey("Then the oldest entry is evicted to make room", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 3)

					// upd-1 was evicted so it reads as unseen again.
					So(d.SeenAndRecord(context.Background(), "upd-1"), ShouldBeFalse)
					So(d.Size(), ShouldEqual, 3)
				})
			})

			Convey("And a middle entry was unrecorded", func() {
				for _, id := range []model.UpdateID{"upd-1", "upd-2", "upd-3"} {
					So(d.SeenAndRecord(context.Background(), id), ShouldBeFalse)
				}
				d.Unrecord(context.Background(), "upd-2")
				So(d.Size(), ShouldEqual, 2)

				Convey("Then its neighbors survive and eviction order holds", func() {
					So(d.SeenAndRecord(context.Background(), "upd-1"), ShouldBeTrue)
					So(d.SeenAndRecord(context.Background(), "upd-3"), ShouldBeTrue)

					// Refill; upd-1 is still the oldest and goes first.
					So(d.SeenAndRecord(context.Background(), "upd-4"), ShouldBeFalse)
					So(d.SeenAndRecord(context.Background(), "upd-5"), ShouldBeFalse)
					So(d.Size(), ShouldEqual, 3)
					So(d.SeenAndRecord(context.Background(), "upd-1"), ShouldBeFalse)
				})
			})
		})

		Convey("When using unbounded mode", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))

			Convey("And many updates are recorded", func() {
				const numUpdates = 1000
				for i := 0; i < numUpdates; i++ {
					id := model.UpdateID(fmt.Sprintf("upd-%d", i))
					So(d.SeenAndRecord(context.Background(), id), ShouldBeFalse)
				}

				Convey("Then nothing is evicted", func() {
					So(d.Size(), ShouldEqual, int64(numUpdates))
				})
			})
		})
	})
}

func TestDedupeConcurrency(t *testing.T) {
	Convey("Given a deduper with concurrent access", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(1000))
		const numGoroutines = 10
		const updatesPerGoroutine = 100

		Convey("When multiple goroutines record updates concurrently", func() {
			var wg sync.WaitGroup

			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func(goroutineID int) {
					defer wg.Done()
					for j := 0; j < updatesPerGoroutine; j++ {
						id := model.UpdateID(fmt.Sprintf("upd-%d-%d", goroutineID, j))
						d.SeenAndRecord(context.Background(), id)
					}
				}(i)
			}

			wg.Wait()

			Convey("Then every distinct update should be recorded", func() {
				So(d.Size(), ShouldEqual, int64(numGoroutines*updatesPerGoroutine))
			})
		})
	})
}
