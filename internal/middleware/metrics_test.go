package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/abhikumar45444/movie-night-decider/internal/metrics"
)

func setupMetricsRouter(m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Metrics(m))
	return router
}

func TestMetrics_RecordsRequests(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
	router := setupMetricsRouter(m)
	router.GET("/api/rooms/:code/matches", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/rooms/AB12CD/matches", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
	}

	// Labeled by route pattern, not the concrete path
	got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/rooms/:code/matches", "200"))
	if got != 3 {
		t.Errorf("request counter = %v, want 3", got)
	}
}

func TestMetrics_SkipsOperationalEndpoints(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
	router := setupMetricsRouter(m)
	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/health", "200"))
	if got != 0 {
		t.Errorf("health probe was recorded, counter = %v", got)
	}
}
