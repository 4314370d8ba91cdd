package monitoring

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestLogger(buf *bytes.Buffer, level string) *Logger {
	return NewLogger(LoggerConfig{Level: level, Output: buf})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, "info")

	logger.AssessmentLogger("req-1", "high", 0.8, 12*time.Millisecond, true)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Assessment Completed", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "high", entry["risk_level"])
	assert.Equal(t, true, entry["cache_hit"])
	assert.Contains(t, entry, "timestamp")
	assert.NotContains(t, entry, "time")
}

func TestLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, "warn")

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.SecurityLogger("probe", "1.2.3.4", "nikto", map[string]interface{}{"type": "suspicious_user_agent"})
	assert.Contains(t, buf.String(), "Security Event")
}

func TestLogger_RotatedFile(t *testing.T) {
	var buf bytes.Buffer
	path := t.TempDir() + "/app.log"
	logger := NewLogger(LoggerConfig{Level: "info", File: path, Output: &buf})

	logger.SystemLogger("startup", "test")
	require.NoError(t, logger.Close())

	assert.Contains(t, buf.String(), "System Event")
}

func TestMetrics_RecordAssessment(t *testing.T) {
	m := NewMetrics()

	m.RecordAssessment("high", "web", 0.9, 10*time.Millisecond, false)
	m.RecordAssessment("low", "api", 0.1, 5*time.Millisecond, true)
	m.RecordFailure("scoring")

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats["assessments"])
	assert.Equal(t, int64(1), stats["high_risk_assessments"])
	assert.Equal(t, 50.0, stats["high_risk_rate_percent"])
	assert.Equal(t, int64(1), stats["cache_hits"])
	assert.Equal(t, int64(1), stats["cache_misses"])
	assert.Equal(t, map[string]int64{"scoring": 1}, stats["failures_by_category"])

	assert.Equal(t, 1.0, testutil.ToFloat64(m.assessments.WithLabelValues("high", "web")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("scoring")))
}

func TestMetrics_AssetsGaugeAndRateLimit(t *testing.T) {
	m := NewMetrics()

	m.SetAssetsLoaded(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.assetsLoaded))
	m.SetAssetsLoaded(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.assetsLoaded))

	m.IncrementRateLimitIPBlock()
	m.IncrementRateLimitFallback()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimited))
	assert.Equal(t, int64(1), m.GetRateLimitStats()["fallback_count"])
}

func TestMetrics_Percentiles(t *testing.T) {
	m := NewMetrics()
	assert.Equal(t, time.Duration(0), m.GetPercentileResponseTime(50))

	for i := 1; i <= 100; i++ {
		m.RecordResponseTime(time.Duration(i) * time.Millisecond)
	}
	assert.Equal(t, 50*time.Millisecond, m.GetPercentileResponseTime(50))
	assert.Equal(t, 100*time.Millisecond, m.GetPercentileResponseTime(100))
}

func TestMonitoringMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, "info")
	m := NewMetrics()

	router := gin.New()
	router.Use(RequestIDMiddleware(), MonitoringMiddleware(m, logger))
	router.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/fail", "/missing"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	stats := m.GetStats()
	assert.Equal(t, int64(3), stats["total_requests"])
	assert.Equal(t, int64(2), stats["error_count"])
	assert.Equal(t, map[int]int64{200: 1, 404: 1, 500: 1}, stats["status_code_distribution"])

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/ok", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "4xx")))
	assert.Contains(t, buf.String(), `"request_id"`)
}

func TestRequestIDMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 200))
	router.ServeHTTP(w, req)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestSecurityMonitoringMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, "info")

	router := gin.New()
	router.Use(SecurityMonitoringMiddleware(logger, 1024))
	router.Any("/assess", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assess?age=40", nil))
	assert.Empty(t, buf.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assess?q=1%20UNION%20SELECT%20x", nil))
	assert.Contains(t, buf.String(), "potential_sql_injection")
	assert.Equal(t, http.StatusOK, w.Code)

	buf.Reset()
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/assess", strings.NewReader(strings.Repeat("a", 2048)))
	router.ServeHTTP(w, req)
	assert.Contains(t, buf.String(), "large_request_body")

	buf.Reset()
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/assess", nil)
	req.Header.Set("User-Agent", "sqlmap/1.7")
	router.ServeHTTP(w, req)
	assert.Contains(t, buf.String(), "suspicious_user_agent")
}
