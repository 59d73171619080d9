package metrics

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager()

			Convey("Then it should be created with its own registry", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Registry(), ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			manager := NewManager(
				WithNamespace("testspace"),
				WithSubsystem("pipeline"),
				WithHistogramBuckets([]float64{1, 10, 100}),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})

			Convey("And its metrics should gather under the custom namespace", func() {
				manager.RecordRowsParsed(3)

				families, err := manager.Registry().Gather()
				So(err, ShouldBeNil)

				found := false
				for _, mf := range families {
					if mf.GetName() == "testspace_pipeline_rows_parsed_total" {
						found = true
						So(mf.GetMetric()[0].GetCounter().GetValue(), ShouldEqual, 3)
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given an isolated manager", t, func() {
		manager := NewManager(WithNamespace("reccheck"))

		Convey("When recording pipeline metrics", func() {
			Convey("Then recording should not panic", func() {
				So(func() {
					manager.RecordRowsParsed(10)
					manager.RecordRowMalformed()
					manager.RecordPlayerDropped()
					manager.RecordRuleMiss()
					manager.ObservePipeline(12.5)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording week lifecycle metrics", func() {
			So(func() {
				manager.RecordWeekLoad()
				manager.RecordWeekLoadFailure()
				manager.RecordWeekSwitchStale()
				manager.UpdateCurrentPlayers(42)
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				manager.RecordHTTPRequest("players", "GET", "200")
				manager.ObserveHTTPRequest("players", "GET", 3.2)
			}, ShouldNotPanic)
		})
	})

	Convey("Given the package-level helpers", t, func() {
		Convey("When recording through the default manager", func() {
			So(func() {
				RecordRowsParsed(1)
				RecordRowMalformed()
				RecordPlayerDropped()
				RecordRuleMiss()
				RecordWeekLoad()
				RecordWeekLoadFailure()
				RecordWeekSwitchStale()
				UpdateCurrentPlayers(7)
				ObservePipeline(1.0)
				RecordHTTPRequest("stats", "GET", "200")
				ObserveHTTPRequest("stats", "GET", 0.4)
			}, ShouldNotPanic)
		})

		Convey("When fetching the default registry", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
