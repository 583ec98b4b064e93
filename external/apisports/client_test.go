package apisports

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/spores-football/internal/platform/resilience"
	"github.com/stretchr/testify/require"
)

const leaguesBody = `{
  "get": "leagues",
  "parameters": {"country": "England", "season": "2024"},
  "errors": [],
  "results": 1,
  "paging": {"current": 1, "total": 1},
  "response": [
    {
      "league": {"id": 39, "name": "Premier League", "type": "League", "logo": "https://media.api-sports.io/football/leagues/39.png"},
      "country": {"name": "England", "code": "GB", "flag": "https://media.api-sports.io/flags/gb.svg"},
      "seasons": [{"year": 2023, "current": false}, {"year": 2024, "current": true}]
    }
  ]
}`

const liveBody = `{
  "get": "fixtures",
  "parameters": {"live": "all"},
  "errors": [],
  "results": 1,
  "paging": {"current": 1, "total": 1},
  "response": [
    {
      "fixture": {
        "id": 1035037,
        "referee": "M. Oliver",
        "timezone": "UTC",
        "date": "2024-08-17T14:00:00+00:00",
        "timestamp": 1723903200,
        "venue": {"id": 556, "name": "Old Trafford", "city": "Manchester"},
        "status": {"long": "Second Half", "short": "2H", "elapsed": 67}
      },
      "league": {"id": 39, "name": "Premier League", "country": "England", "logo": "l.png", "flag": null, "season": 2024, "round": "Regular Season - 1"},
      "teams": {
        "home": {"id": 33, "name": "Manchester United", "logo": "h.png", "winner": null},
        "away": {"id": 36, "name": "Fulham", "logo": "a.png", "winner": null}
      },
      "goals": {"home": 1, "away": 0},
      "score": {"halftime": {"home": 0, "away": 0}, "fulltime": {"home": null, "away": null}}
    }
  ]
}`

func newTestClient(t *testing.T, srv *httptest.Server, mutate func(*ClientConfig)) *Client {
	t.Helper()

	cfg := ClientConfig{
		HTTPClient:     srv.Client(),
		BaseURL:        srv.URL,
		APIKey:         "secret-key",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewClient(cfg)
}

func TestClient_FetchLeagues_SendsHeadersAndDefinedFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/leagues", r.URL.Path)
		require.Equal(t, "secret-key", r.Header.Get("x-rapidapi-key"))
		require.Equal(t, DefaultHost, r.Header.Get("x-rapidapi-host"))

		query := r.URL.Query()
		require.Equal(t, "England", query.Get("country"))
		require.Equal(t, "2024", query.Get("season"))
		require.False(t, query.Has("current"))
		require.False(t, query.Has("search"))
		_, _ = w.Write([]byte(leaguesBody))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, nil)
	envelope, err := client.FetchLeagues(context.Background(), LeagueFilter{
		Country: String("England"),
		Season:  Int(2024),
	})
	require.NoError(t, err)

	require.Equal(t, "leagues", envelope.Get)
	require.Equal(t, 1, envelope.Results)
	require.Equal(t, Paging{Current: 1, Total: 1}, envelope.Paging)
	require.Equal(t, "England", envelope.Parameters["country"])
	require.Len(t, envelope.Response, 1)

	record := envelope.Response[0]
	require.EqualValues(t, 39, record.League.ID)
	require.Equal(t, "Premier League", record.League.Name)
	season, current := record.CurrentSeason()
	require.True(t, current)
	require.Equal(t, 2024, season.Year)
}

func TestClient_EmptyFilterSendsNoQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"get":"leagues","parameters":[],"errors":[],"results":0,"paging":{"current":1,"total":1},"response":[]}`))
	}))
	defer srv.Close()

	envelope, err := newTestClient(t, srv, nil).FetchLeagues(context.Background(), LeagueFilter{})
	require.NoError(t, err)
	require.NotNil(t, envelope.Response)
	require.Empty(t, envelope.Response)
	require.Empty(t, envelope.Parameters)
}

func TestClient_FetchLiveFixtures_DecodesNestedFixture(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/fixtures", r.URL.Path)
		require.Equal(t, "all", r.URL.Query().Get("live"))
		_, _ = w.Write([]byte(liveBody))
	}))
	defer srv.Close()

	envelope, err := newTestClient(t, srv, nil).FetchLiveFixtures(context.Background())
	require.NoError(t, err)
	require.Len(t, envelope.Response, 1)

	fixture := envelope.Response[0]
	require.EqualValues(t, 1035037, fixture.ID)
	require.Equal(t, "2024-08-17T14:00:00+00:00", fixture.Date)
	require.Equal(t, "2H", fixture.Status.Short)
	require.NotNil(t, fixture.Status.Elapsed)
	require.Equal(t, 67, *fixture.Status.Elapsed)
	require.NotNil(t, fixture.Venue)
	require.Equal(t, "Old Trafford", fixture.Venue.Name)
	require.Equal(t, "Manchester United", fixture.Teams.Home.Name)
	require.NotNil(t, fixture.Goals.Home)
	require.Equal(t, 1, *fixture.Goals.Home)
	require.Nil(t, fixture.Score.Fulltime.Home)
}

func TestClient_FetchFixturesByDateAndLeague(t *testing.T) {
	var lastQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastQuery.Store(r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"get":"fixtures","parameters":[],"errors":[],"results":0,"paging":{"current":1,"total":1},"response":[]}`))
	}))
	defer srv.Close()
	client := newTestClient(t, srv, nil)

	_, err := client.FetchFixturesByDate(context.Background(), "2024-08-17")
	require.NoError(t, err)
	require.Equal(t, "date=2024-08-17", lastQuery.Load())

	_, err = client.FetchLeagueFixtures(context.Background(), 39, 2024)
	require.NoError(t, err)
	require.Equal(t, "league=39&season=2024", lastQuery.Load())
}

func TestClient_NonSuccessStatusIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"You are not subscribed to this API."}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, func(cfg *ClientConfig) { cfg.MaxRetries = 2 })
	_, err := client.FetchTeams(context.Background(), TeamFilter{League: Int64(39), Season: Int(2024)})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	require.Equal(t, "Forbidden", statusErr.Status)
	require.Contains(t, statusErr.Body, "not subscribed")
	require.False(t, errors.Is(err, ErrTransient))
	require.EqualValues(t, 1, calls.Load())
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(leaguesBody))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, func(cfg *ClientConfig) { cfg.MaxRetries = 1 })
	envelope, err := client.FetchLeagues(context.Background(), LeagueFilter{})
	require.NoError(t, err)
	require.Len(t, envelope.Response, 1)
	require.EqualValues(t, 2, calls.Load())
}

func TestClient_ProviderErrorsReject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"get":"leagues","parameters":[],"errors":{"token":"Error/Missing application key."},"results":0,"paging":{"current":1,"total":1},"response":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, nil).FetchLeagues(context.Background(), LeagueFilter{})
	require.ErrorIs(t, err, ErrProviderRejected)
	require.Contains(t, err.Error(), "Missing application key")
}

func TestClient_InvalidRecordFailsValidation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"get":"fixtures","parameters":[],"errors":[],"results":1,"paging":{"current":1,"total":1},"response":[
			{"fixture":{"id":7,"date":"not-a-date","status":{"short":"NS"}},"teams":{"home":{"name":"A"},"away":{"name":"B"}},"goals":{"home":null,"away":null}}
		]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, nil).FetchLiveFixtures(context.Background())
	require.ErrorIs(t, err, ErrInvalidPayload)
}

func TestClient_FixtureKickoffValidation(t *testing.T) {
	tests := []struct {
		name    string
		fixture string
		wantErr bool
	}{
		{
			name:    "timestamp without date",
			fixture: `{"fixture":{"id":7,"timestamp":1723903200,"status":{"short":"NS"}},"teams":{"home":{"name":"A"},"away":{"name":"B"}}}`,
		},
		{
			name:    "neither date nor timestamp",
			fixture: `{"fixture":{"id":7,"status":{"short":"NS"}},"teams":{"home":{"name":"A"},"away":{"name":"B"}}}`,
			wantErr: true,
		},
		{
			name:    "missing status short code",
			fixture: `{"fixture":{"id":7,"date":"2024-08-17T14:00:00+00:00","status":{"long":"Not Started"}},"teams":{"home":{"name":"A"},"away":{"name":"B"}}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"get":"fixtures","parameters":[],"errors":[],"results":1,"paging":{"current":1,"total":1},"response":[` + tt.fixture + `]}`
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			envelope, err := newTestClient(t, srv, nil).FetchLiveFixtures(context.Background())
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPayload)
				return
			}
			require.NoError(t, err)
			require.Len(t, envelope.Response, 1)
			require.Empty(t, envelope.Response[0].Date)
			require.EqualValues(t, 1723903200, envelope.Response[0].Timestamp)
		})
	}
}

func TestClient_UndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, nil).FetchLeagues(context.Background(), LeagueFilter{})
	require.ErrorIs(t, err, ErrInvalidPayload)
}

func TestClient_CircuitOpensAfterTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(t, srv, func(cfg *ClientConfig) {
		cfg.CircuitBreaker = resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		}
	})

	for i := 0; i < 2; i++ {
		_, err := client.FetchLiveFixtures(context.Background())
		require.ErrorIs(t, err, ErrTransient)
	}
	require.Equal(t, resilience.CircuitStateOpen, client.BreakerState())

	_, err := client.FetchLiveFixtures(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	require.EqualValues(t, 2, calls.Load())
}

func TestClient_CurlPreviewHidesKey(t *testing.T) {
	client := NewClient(ClientConfig{APIKey: "secret-key"})
	preview := client.curlPreview("https://v3.football.api-sports.io/fixtures?live=all")

	require.Contains(t, preview, "x-rapidapi-key: ***")
	require.NotContains(t, preview, "secret-key")
}
