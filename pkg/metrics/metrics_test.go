package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

// registererOnly hides the Gatherer side of a registry.
type registererOnly struct {
	prometheus.Registerer
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created and gatherable", func() {
				So(manager, ShouldNotBeNil)
				g, err := manager.Gatherer()
				So(err, ShouldBeNil)
				So(g, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithAmountBuckets([]float64{5000, 10000}),
				WithPeriodBuckets([]float64{24, 48}),
				WithMetricsEnabled(true),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.RecordDecision("approved")

			Convey("Then metric names and labels should follow the options", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make(map[string]bool)
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_namespace_test_subsystem_decisions_total"], ShouldBeTrue)
				So(testutil.ToFloat64(manager.decisions.WithLabelValues("approved")), ShouldEqual, 1)
				So(manager.amountBuckets, ShouldResemble, []float64{5000, 10000})
				So(manager.periodBuckets, ShouldResemble, []float64{24, 48})
			})
		})

		Convey("When the registry cannot gather", func() {
			manager := NewManager(WithPrometheusRegistry(registererOnly{prometheus.NewRegistry()}))

			Convey("Then Gatherer should report it", func() {
				_, err := manager.Gatherer()
				So(errors.Is(err, ErrNoRegistry), ShouldBeTrue)
			})
		})

		Convey("When creating with empty options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithAmountBuckets(nil),
				WithPeriodBuckets(nil),
				WithCustomLabels(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "loan")
				So(manager.subsystem, ShouldEqual, "decision")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
				So(manager.amountBuckets, ShouldResemble, []float64{2000, 3000, 4000, 5000, 6000, 7000, 8000, 9000, 10000})
				So(len(manager.periodBuckets), ShouldEqual, 9)
			})
		})
	})
}

func TestDecisionMetrics(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When recording outcomes and rejections", func() {
			manager.RecordDecision("approved")
			manager.RecordDecision("approved")
			manager.RecordDecision("debt")
			manager.RecordValidationError("amount")

			Convey("Then counters should reflect each label", func() {
				So(testutil.ToFloat64(manager.decisions.WithLabelValues("approved")), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.decisions.WithLabelValues("debt")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.validationErrors.WithLabelValues("amount")), ShouldEqual, 1)
			})
		})

		Convey("When recording approvals", func() {
			manager.RecordApproval(2000, 20, true)
			manager.RecordApproval(4000, 40, false)
			manager.UpdateRiskProfiles(4)

			Convey("Then only extended periods should be counted as extensions", func() {
				So(testutil.ToFloat64(manager.periodExtensions), ShouldEqual, 1)
				So(testutil.CollectAndCount(manager.approvedAmount), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.riskProfiles), ShouldEqual, 4)
			})
		})

		Convey("When metrics are disabled", func() {
			disabled := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()), WithMetricsEnabled(false))
			disabled.RecordDecision("approved")
			disabled.RecordApproval(2000, 20, true)

			Convey("Then nothing should be recorded", func() {
				So(testutil.ToFloat64(disabled.decisions.WithLabelValues("approved")), ShouldEqual, 0)
				So(testutil.ToFloat64(disabled.periodExtensions), ShouldEqual, 0)
			})
		})
	})
}

func TestGlobalRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording through package functions", func() {
			So(func() {
				RecordDecision("approved")
				RecordValidationError("period")
				RecordEvaluationLatency(0.2)
				RecordApproval(3600, 12, false)
				UpdateRiskProfiles(4)
				RecordHTTPRequest("decision", "GET", "200")
				RecordHTTPRequestDuration("decision", "GET", "200", 1.5)
				RecordErrorByType("client_error", "medium")
				RecordErrorByEndpoint("decision", "GET", "client_error")
				RecordErrorLatency("http", "client_error", 1.0)
				UpdateSystemMemoryUsage(1024 * 1024)
				UpdateSystemGoroutineCount(10)
				RecordSystemGCPauseTime(0.5)
			}, ShouldNotPanic)
		})

		Convey("When scraping the handler", func() {
			RecordDecision("denied")
			w := httptest.NewRecorder()
			Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			Convey("Then the exposition should contain decision metrics", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "loan_decision_decisions_total")
				So(GetRegistry(), ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given metrics concurrency", t, func() {
		manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When recording metrics concurrently", func() {
			done := make(chan bool, 10)
			for i := 0; i < 10; i++ {
				go func() {
					for j := 0; j < 100; j++ {
						manager.RecordDecision("approved")
						manager.RecordEvaluationLatency(float64(j) / 100)
					}
					done <- true
				}()
			}
			for i := 0; i < 10; i++ {
				<-done
			}

			Convey("Then every increment should be counted", func() {
				So(testutil.ToFloat64(manager.decisions.WithLabelValues("approved")), ShouldEqual, 1000)
			})
		})
	})
}
