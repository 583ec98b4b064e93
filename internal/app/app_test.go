package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/spores-football/internal/config"
	"github.com/riskibarqy/spores-football/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		AppEnv:                   config.EnvDev,
		ServiceName:              "spores-football-api",
		HTTPAddr:                 ":0",
		ReadTimeout:              time.Second,
		WriteTimeout:             time.Second,
		CORSAllowedOrigins:       []string{"*"},
		MetricsEnabled:           true,
		FootballAPIURL:           "http://127.0.0.1:1",
		FootballAPITimeout:       time.Second,
		FootballAPIRateBurst:     1,
		FootballFailOpen:         true,
		FootballPopularLeagueIDs: []int64{39},
		FootballLocation:         time.UTC,
		CacheBackend:             config.CacheBackendMemory,
		WarmupWorkers:            1,
	}
}

func TestNewHTTPServer_ServesHealthAndMetrics(t *testing.T) {
	srv, cleanup, err := NewHTTPServer(context.Background(), testConfig(), logging.NewNop())
	require.NoError(t, err)
	defer func() { require.NoError(t, cleanup()) }()

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "spores_football_http_request_duration_seconds")
}

func TestNewHTTPServer_RejectsEmptyAddr(t *testing.T) {
	cfg := testConfig()
	cfg.HTTPAddr = ""

	_, _, err := NewHTTPServer(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
}

func TestAnnotateUpstreamFailure_NoSpanIsNoop(t *testing.T) {
	annotateUpstreamFailure(context.Background(), "live_matches", context.DeadlineExceeded)
}
