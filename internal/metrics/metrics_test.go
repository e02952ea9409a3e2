package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObservePlan(t *testing.T) {
	r := NewRegistry()

	r.ObservePlan("scalable", time.Millisecond, nil)
	r.ObservePlan("scalable", time.Millisecond, nil)
	r.ObservePlan("fault_tolerant", time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(r.PlansTotal.WithLabelValues("scalable", "ok")); got != 2 {
		t.Errorf("scalable ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.PlansTotal.WithLabelValues("fault_tolerant", "error")); got != 1 {
		t.Errorf("fault_tolerant error = %v, want 1", got)
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRegistry()

	engine := gin.New()
	engine.Use(r.Middleware())
	engine.GET("/api/v1/topologies/:topologyId", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	engine.GET("/metrics", gin.WrapH(r.Handler()))

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/topologies/"+id, nil))
	}

	counter := r.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/topologies/:topologyId", "404")
	if got := testutil.ToFloat64(counter); got != 2 {
		t.Errorf("request counter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.HTTPRequestsInFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "topoplan_http_requests_total") {
		t.Error("expected exposition to contain topoplan_http_requests_total")
	}
}
