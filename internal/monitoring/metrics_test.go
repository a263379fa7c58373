package monitoring

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveStoreCall(t *testing.T) {
	m := NewMetrics()
	m.ObserveStoreCall("Visits", "append", nil, 10*time.Millisecond)
	m.ObserveStoreCall("Visits", "append", errors.New("quota"), 10*time.Millisecond)
	m.ObserveStoreCall("Visits", "append", nil, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.storeCalls.WithLabelValues("Visits", "append", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeCalls.WithLabelValues("Visits", "append", "error")))
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	m := NewMetrics()
	svc := NewMonitoringService(m)

	router := mux.NewRouter()
	router.Use(svc.Middleware)
	router.HandleFunc("/visit/{family_number:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, path := range []string{"/visit/1", "/visit/2"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(
		m.httpRequests.WithLabelValues("GET", "/visit/{family_number:[0-9]+}", "418")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := NewMetrics()
	m.VisitRecorded()
	m.LoginAttempt("failure")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "resala_visits_recorded_total 1"))
	assert.True(t, strings.Contains(body, `resala_logins_total{result="failure"} 1`))
}
