package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/warfroggy/clashlens/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		reg := prometheus.NewRegistry()
		m := metrics.NewManager(metrics.WithRegistry(reg), metrics.WithNamespace("test"))

		Convey("Then construction registers without panicking", func() {
			So(m, ShouldNotBeNil)
		})

		Convey("And gathering the registry yields metric families", func() {
			families, err := reg.Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording domain metrics", func() {
			So(func() {
				metrics.RecordSnapshotIngested()
				metrics.RecordSnapshotDuplicate()
				metrics.RecordSnapshotRejected()
				metrics.RecordTimelineBuild()
				metrics.RecordTimelineBuildDuration(12.5)
				metrics.RecordTimelineEvents(3)
				metrics.RecordTimelineRowsDropped(1)
				metrics.UpdateQueueSize(10)
				metrics.UpdateQueueCapacity(100)
				metrics.UpdateWorkerCount(4)
				metrics.UpdateStorePlayers(2)
				metrics.UpdateStoreRows(40)
				metrics.RecordHTTPRequest("history", "GET", "200")
				metrics.RecordHTTPRequestDuration("history", "GET", "200", 3.2)
				metrics.RecordErrorByComponent("queue", "full")
			}, ShouldNotPanic)
		})

		Convey("Then the shared registry is gatherable", func() {
			families, err := metrics.GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
