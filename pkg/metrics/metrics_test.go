package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/pable/go-quiz-metrics/internal/model"
	"github.com/pable/go-quiz-metrics/internal/parser"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager()

			Convey("Then it owns a private registry", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Registry(), ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("engine"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithPrometheusRegistry(registry),
			)
			manager.RecordLoad(time.Millisecond, nil)

			Convey("Then metric names carry the namespace and subsystem", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_engine_loads_total")
			})
		})
	})
}

func TestRecording(t *testing.T) {
	Convey("Given a manager", t, func() {
		m := NewManager()

		Convey("When loads succeed and fail", func() {
			m.RecordLoad(10*time.Millisecond, nil)
			m.RecordLoad(20*time.Millisecond, errors.New("boom"))
			m.RecordLoad(5*time.Millisecond, nil)

			Convey("Then results are counted separately", func() {
				So(testutil.ToFloat64(m.loads.WithLabelValues("ok")), ShouldEqual, 2)
				So(testutil.ToFloat64(m.loads.WithLabelValues("error")), ShouldEqual, 1)
			})
		})

		Convey("When diagnostics flow through the observer", func() {
			obs := m.Observer()
			obs.Observe(parser.Diagnostic{Kind: parser.KindSheetNormalized, Sheet: parser.SheetEvents, Records: 12})
			obs.Observe(parser.Diagnostic{Kind: parser.KindOrderSuspect})
			obs.Observe(parser.Diagnostic{Kind: parser.KindOrderSuspect})

			Convey("Then records and kinds are counted", func() {
				So(testutil.ToFloat64(m.records.WithLabelValues(parser.SheetEvents)), ShouldEqual, 12)
				So(testutil.ToFloat64(m.diagnostics.WithLabelValues(string(parser.KindOrderSuspect))), ShouldEqual, 2)
			})
		})

		Convey("When a dataset is published", func() {
			m.SetDataset(model.Dataset{
				Summaries: make([]model.PlayerSummary, 3),
				Events:    make([]model.AnswerEvent, 7),
			})

			Convey("Then the gauges reflect its size", func() {
				So(testutil.ToFloat64(m.datasetPlayers), ShouldEqual, 3)
				So(testutil.ToFloat64(m.datasetEvents), ShouldEqual, 7)
			})
		})

		Convey("When requests are recorded", func() {
			m.RecordHTTPRequest("/leaderboard", http.MethodGet, http.StatusOK, time.Millisecond)
			m.RecordHTTPRequest("/leaderboard", http.MethodGet, http.StatusBadRequest, time.Millisecond)

			Convey("Then the handler exposes them", func() {
				rec := httptest.NewRecorder()
				m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
				So(rec.Code, ShouldEqual, http.StatusOK)
				body := rec.Body.String()
				So(strings.Contains(body, `quizmetrics_http_requests_total{method="GET",route="/leaderboard",status_code="400"} 1`), ShouldBeTrue)
			})
		})
	})
}
