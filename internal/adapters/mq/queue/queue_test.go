package queue_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/okian/fettle/internal/adapters/mq/queue"
	"github.com/okian/fettle/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func update(id string) queue.Update {
	return model.Update{
		UpdateID:  model.UpdateID(id),
		AthleteID: "athlete-1",
		Record:    model.WellnessRecord{Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), HRV: 45},
	}
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given an in-memory update queue", t, func() {
		ctx := context.Background()

		Convey("When enqueueing within capacity", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10), queue.WithBufferSize(10))

			So(q.Enqueue(ctx, update("upd-1")), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 1)
		})

		Convey("When the queue is full", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(2), queue.WithBufferSize(2))

			So(q.Enqueue(ctx, update("upd-1")), ShouldBeTrue)
			So(q.Enqueue(ctx, update("upd-2")), ShouldBeTrue)

			Convey("Then further enqueues are refused without blocking", func() {
				So(q.Enqueue(ctx, update("upd-3")), ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})

		Convey("When dequeuing", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10), queue.WithBufferSize(10))

			for i := 0; i < 3; i++ {
				So(q.Enqueue(ctx, update(fmt.Sprintf("upd-%d", i))), ShouldBeTrue)
			}

			out := q.Dequeue(ctx)

			Convey("Then updates arrive in FIFO order", func() {
				for i := 0; i < 3; i++ {
					select {
					case u := <-out:
						So(string(u.UpdateID), ShouldEqual, fmt.Sprintf("upd-%d", i))
					case <-time.After(time.Second):
						So("timed out waiting for update", ShouldBeEmpty)
					}
				}
			})
		})

		Convey("When the queue is closed", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10), queue.WithBufferSize(10))

			So(q.Enqueue(ctx, update("upd-1")), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			Convey("Then it reports closed and refuses new updates", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, update("upd-2")), ShouldBeFalse)
			})

			Convey("And buffered updates still drain before the channel closes", func() {
				out := q.Dequeue(ctx)

				u, ok := <-out
				So(ok, ShouldBeTrue)
				So(string(u.UpdateID), ShouldEqual, "upd-1")

				_, ok = <-out
				So(ok, ShouldBeFalse)
			})

			Convey("And closing twice is harmless", func() {
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}
