package httpapi

import (
	"net/http"

	"github.com/riskibarqy/spores-football/internal/platform/metrics"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, m *metrics.Metrics) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}
}

func registerFootballRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/football/home", handler.GetHomePage)
	mux.HandleFunc("GET /v1/football/leagues", handler.ListPopularLeagues)
	mux.HandleFunc("GET /v1/football/leagues/{leagueID}/teams", handler.ListLeagueTeams)
	mux.HandleFunc("GET /v1/football/leagues/{leagueID}/fixtures", handler.ListLeagueFixtures)
	mux.HandleFunc("GET /v1/football/live", handler.ListLiveMatches)
	mux.HandleFunc("GET /v1/football/matches", handler.ListMatches)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/warmup", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunWarmupJob)))
}
