package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a fresh manager", t, func() {
		m := NewManager(WithNamespace("test"), WithHistogramBuckets([]float64{0.1, 1}))

		Convey("HTTP requests are counted per label set", func() {
			m.RecordHTTPRequest("/users", "GET", "200", 5*time.Millisecond)
			m.RecordHTTPRequest("/users", "GET", "200", 7*time.Millisecond)
			m.RecordHTTPRequest("/users", "GET", "500", time.Millisecond)

			So(testutil.ToFloat64(m.httpRequests.WithLabelValues("/users", "GET", "200")), ShouldEqual, 2.0)
			So(testutil.ToFloat64(m.httpRequests.WithLabelValues("/users", "GET", "500")), ShouldEqual, 1.0)
		})

		Convey("DB queries are labelled by result", func() {
			m.RecordDBQuery("list_users", time.Millisecond, nil)
			m.RecordDBQuery("list_users", time.Millisecond, errors.New("down"))

			So(testutil.ToFloat64(m.dbQueries.WithLabelValues("list_users", "ok")), ShouldEqual, 1.0)
			So(testutil.ToFloat64(m.dbQueries.WithLabelValues("list_users", "error")), ShouldEqual, 1.0)
		})

		Convey("The handler exposes namespaced series", func() {
			m.RecordDBQuery("list_users", time.Millisecond, nil)
			w := httptest.NewRecorder()
			m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "test_db_queries_total")
			So(w.Body.String(), ShouldContainSubstring, "go_goroutines")
		})
	})
}
