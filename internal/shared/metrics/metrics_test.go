package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveAICallIncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(aiCallsTotal.WithLabelValues("summarize", "ok"))
	ObserveAICall("summarize", "ok", 20*time.Millisecond)
	after := testutil.ToFloat64(aiCallsTotal.WithLabelValues("summarize", "ok"))
	assert.Equal(t, before+1, after)
}

func TestHandlerExposesRouteMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(HTTP())
	router.GET("/api/notes/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", Handler())

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/notes/abc", nil))
	IncQuizRecovery("fenced")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `smartnotes_http_requests_total{method="GET",route="/api/notes/:id",status="200"}`)
	assert.Contains(t, string(body), `smartnotes_quiz_recovery_total{tier="fenced"}`)
}
