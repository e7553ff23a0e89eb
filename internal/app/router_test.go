package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/execboard/internal/correlation"
	"github.com/odyssey-erp/execboard/internal/dashboard"
	dashboardhttp "github.com/odyssey-erp/execboard/internal/dashboard/http"
	"github.com/odyssey-erp/execboard/internal/finapi"
	"github.com/odyssey-erp/execboard/internal/observability"
	"github.com/odyssey-erp/execboard/jobs"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	client := finapi.New(finapi.Options{})
	state := dashboard.NewState(client, nil)
	require.NoError(t, state.LoadTenantDirectory(context.Background()))
	overview := dashboard.NewOverview(state, client, nil)
	t.Cleanup(overview.Close)

	return NewRouter(RouterParams{
		Config:           &Config{AppRequestTimeout: 5 * time.Second, RateLimitPerMinute: 100},
		Metrics:          observability.NewMetrics(),
		DashboardHandler: dashboardhttp.NewHandler(nil, state, overview),
		JobHandler:       jobs.NewHandler(nil, nil),
	})
}

func TestRouterHealthz(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])

	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.NotEmpty(t, rec.Header().Get(correlation.HeaderName))
}

func TestRouterKeepsInboundCorrelationID(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/periods", nil)
	req.Header.Set(correlation.HeaderName, "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "abc-123", rec.Header().Get(correlation.HeaderName))
}

func TestRouterMountsOptionalSurfaces(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		path string
		code int
	}{
		{"/metrics", http.StatusOK},
		{"/jobs/health", http.StatusOK},
		{"/api/tenant-directory", http.StatusNotFound},
		{"/nowhere", http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		require.Equal(t, tc.code, rec.Code, tc.path)
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/filters/tenant", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
