package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountsByRouteAndFoldsUnmatched(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())
	r.GET("/talks/:id", func(c *gin.Context) { c.String(http.StatusOK, "talk") })
	r.GET("/statusonly", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	baseTalk := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/talks/:id", "200"))
	base404 := testutil.ToFloat64(httpReqs.WithLabelValues("GET", unmatchedRoute, "404"))
	baseNoBody := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/statusonly", "204"))

	for _, p := range []string{"/talks/1", "/talks/2", "/nope/a", "/nope/b", "/statusonly"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
	}

	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/talks/:id", "200")); got != baseTalk+2 {
		t.Fatalf("talk route counter = %v; want %v", got, baseTalk+2)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", unmatchedRoute, "404")); got != base404+2 {
		t.Fatalf("unmatched counter = %v; want %v", got, base404+2)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/statusonly", "204")); got != baseNoBody+1 {
		t.Fatalf("status-only counter = %v; want %v", got, baseNoBody+1)
	}
	if inFlight := testutil.ToFloat64(httpInflight); inFlight != 0 {
		t.Fatalf("httpInflight = %v; want 0", inFlight)
	}
}
