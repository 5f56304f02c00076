package metrics_test

import (
	"testing"

	metrics "github.com/ewscore/ewscore/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewManager(t *testing.T) {
	Convey("Given the metrics manager", t, func() {
		Convey("When creating a manager on a fresh registry", func() {
			reg := prometheus.NewRegistry()
			m := metrics.NewManager(metrics.WithPrometheusRegistry(reg))

			Convey("Then every metric should be registered", func() {
				So(m, ShouldNotBeNil)

				families, err := reg.Gather()
				So(err, ShouldBeNil)
				// Counters without observations do not show up in Gather;
				// registration conflicts would have panicked above.
				So(families, ShouldNotBeNil)
			})
		})

		Convey("When creating a manager with custom options", func() {
			reg := prometheus.NewRegistry()
			m := metrics.NewManager(
				metrics.WithPrometheusRegistry(reg),
				metrics.WithNamespace("custom"),
				metrics.WithSubsystem("unit"),
				metrics.WithHistogramBuckets([]float64{1, 10, 100}),
				metrics.WithMetricsEnabled(true),
			)

			Convey("Then construction should succeed", func() {
				So(m, ShouldNotBeNil)
			})
		})

		Convey("When registering the same metrics twice on one registry", func() {
			reg := prometheus.NewRegistry()
			metrics.NewManager(metrics.WithPrometheusRegistry(reg))

			Convey("Then the second registration should panic", func() {
				So(func() {
					metrics.NewManager(metrics.WithPrometheusRegistry(reg))
				}, ShouldPanic)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global metrics helpers", t, func() {
		Convey("When recording business events", func() {
			So(func() {
				metrics.RecordScoreComputed(4, 1.5)
				metrics.RecordScoreRejected("validation")
				metrics.RecordScoreRejected("bounds")
				metrics.RecordScoreRejected("mismatch")
				metrics.UpdateCatalogTypes(5)
				metrics.RecordCatalogReload(true)
				metrics.RecordCatalogReload(false)
			}, ShouldNotPanic)

			Convey("Then the scoring counters should be visible in the registry", func() {
				families, err := metrics.GetRegistry().Gather()
				So(err, ShouldBeNil)

				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["ews_scoring_scores_computed_total"], ShouldBeTrue)
				So(names["ews_scoring_score_rejects_total"], ShouldBeTrue)
				So(names["ews_scoring_catalog_types"], ShouldBeTrue)
				So(names["ews_scoring_catalog_reloads_total"], ShouldBeTrue)
			})
		})

		Convey("When recording HTTP and error events", func() {
			So(func() {
				metrics.RecordHTTPRequest("score", "POST", "200")
				metrics.RecordHTTPRequestDuration("score", "POST", "200", 2.5)
				metrics.RecordErrorByType("validation", "warning")
				metrics.RecordErrorByEndpoint("score", "POST", "validation")
				metrics.RecordErrorLatency("api", "validation", 1.0)
			}, ShouldNotPanic)
		})

		Convey("When recording system metrics", func() {
			So(func() {
				metrics.UpdateSystemMemoryUsage(1 << 20)
				metrics.UpdateSystemGoroutineCount(12)
				metrics.RecordSystemGCPauseTime(0.2)
			}, ShouldNotPanic)
		})
	})
}
