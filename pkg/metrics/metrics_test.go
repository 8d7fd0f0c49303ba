package metrics_test

import (
	"testing"

	"github.com/okian/fettle/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a metrics manager on its own registry", t, func() {
		registry := prometheus.NewRegistry()
		m := metrics.NewManager(
			metrics.WithPrometheusRegistry(registry),
			metrics.WithNamespace("fettle_test"),
		)

		Convey("Then construction registers without collision", func() {
			So(m, ShouldNotBeNil)

			families, err := registry.Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})

		Convey("When creating a second manager on another registry", func() {
			other := prometheus.NewRegistry()

			Convey("Then the registries stay independent", func() {
				So(func() {
					metrics.NewManager(metrics.WithPrometheusRegistry(other))
				}, ShouldNotPanic)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global metrics helpers", t, func() {
		Convey("When recording through every helper", func() {
			record := func() {
				metrics.RecordScoreComputed()
				metrics.RecordScoreLatency(1.5)
				metrics.RecordValidationFailure()
				metrics.RecordDegradedResult()
				metrics.RecordTrendComputed()
				metrics.RecordCacheHit()
				metrics.RecordCacheMiss()
				metrics.RecordCacheInvalidation(3)
				metrics.RecordUpdateIngested()
				metrics.RecordUpdateDuplicate()
				metrics.UpdateQueueSize(10)
				metrics.UpdateQueueCapacity(100)
				metrics.RecordQueueEnqueue()
				metrics.RecordQueueDequeue()
				metrics.RecordQueueEnqueueError("queue_full")
				metrics.RecordQueueLatency(0.2)
				metrics.UpdateWorkerCount(4)
				metrics.RecordWorkerLatency(0.4)
				metrics.RecordWorkerError()
				metrics.UpdateStoreRecords(50)
				metrics.UpdateStoreAthletes(5)
				metrics.RecordStoreUpdateLatency(0.1)
			}

			Convey("Then none of them panic", func() {
				So(record, ShouldNotPanic)
			})

			Convey("And the gatherer exposes the recorded families", func() {
				record()
				families, err := metrics.Gatherer().Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 10)
			})
		})
	})
}
