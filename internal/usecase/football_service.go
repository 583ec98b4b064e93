package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/spores-football/external/apisports"
	"github.com/riskibarqy/spores-football/internal/domain/apicache"
	"github.com/riskibarqy/spores-football/internal/domain/football"
	"github.com/riskibarqy/spores-football/internal/platform/logging"
	"github.com/riskibarqy/spores-football/internal/platform/metrics"
	"github.com/riskibarqy/spores-football/internal/platform/resilience"
	"github.com/sourcegraph/conc"
)

const (
	popularLeaguesKey = "popular_leagues"
	liveMatchesKey    = "live_matches"

	popularLeaguesTTL = 24 * time.Hour
	leagueTeamsTTL    = 24 * time.Hour
	liveMatchesTTL    = time.Minute
	matchesTTL        = 15 * time.Minute
	leagueMatchesTTL  = 15 * time.Minute

	defaultLocationName = "Europe/Moscow"
)

// Operation names double as metric labels.
const (
	opPopularLeagues = "popular_leagues"
	opLeagueTeams    = "league_teams"
	opLiveMatches    = "live_matches"
	opMatchesByDate  = "matches_by_date"
	opLeagueMatches  = "league_matches"
)

func leagueTeamsKey(leagueID int64, season int) string {
	return "teams_" + strconv.FormatInt(leagueID, 10) + "_" + strconv.Itoa(season)
}

func matchesKey(date string) string {
	return "matches_" + date
}

func leagueMatchesKey(leagueID int64, season int) string {
	return "fixtures_" + strconv.FormatInt(leagueID, 10) + "_" + strconv.Itoa(season)
}

// FootballProvider is the upstream port the service reads through.
type FootballProvider interface {
	FetchLeagues(ctx context.Context, filter apisports.LeagueFilter) (apisports.Envelope[apisports.LeagueRecord], error)
	FetchTeams(ctx context.Context, filter apisports.TeamFilter) (apisports.Envelope[apisports.TeamRecord], error)
	FetchLiveFixtures(ctx context.Context) (apisports.Envelope[apisports.Fixture], error)
	FetchFixturesByDate(ctx context.Context, date string) (apisports.Envelope[apisports.Fixture], error)
	FetchLeagueFixtures(ctx context.Context, leagueID int64, season int) (apisports.Envelope[apisports.Fixture], error)
}

// FailurePolicy decides what callers see when the provider fails.
type FailurePolicy int

const (
	// FailOpen answers with empty collections and a nil error.
	FailOpen FailurePolicy = iota
	// Propagate returns an error wrapping ErrUpstream.
	Propagate
)

func (p FailurePolicy) String() string {
	switch p {
	case Propagate:
		return "propagate"
	default:
		return "fail_open"
	}
}

// FailureObserver is called once per failed upstream fetch, whatever the policy.
type FailureObserver func(ctx context.Context, operation string, err error)

type FootballServiceConfig struct {
	PopularLeagueIDs  []int64
	FailurePolicy     FailurePolicy
	OnUpstreamFailure FailureObserver
	// Location formats kickoff times. Defaults to Europe/Moscow.
	Location *time.Location
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

// FootballService serves normalized football data through a cache-aside
// read path. Concurrent misses on one key share a single upstream call.
type FootballService struct {
	provider   FootballProvider
	cache      apicache.Repository
	popularIDs []int64
	popular    map[int64]struct{}
	policy     FailurePolicy
	onFailure  FailureObserver
	location   *time.Location
	metrics    *metrics.Metrics
	logger     *logging.Logger
	now        func() time.Time
	flight     resilience.SingleFlight
}

func NewFootballService(
	provider FootballProvider,
	cache apicache.Repository,
	cfg FootballServiceConfig,
	logger *logging.Logger,
) *FootballService {
	if logger == nil {
		logger = logging.Default()
	}

	ids := cfg.PopularLeagueIDs
	if len(ids) == 0 {
		ids = football.DefaultPopularLeagueIDs
	}
	popular := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		popular[id] = struct{}{}
	}

	location := cfg.Location
	if location == nil {
		loaded, err := time.LoadLocation(defaultLocationName)
		if err != nil {
			logger.Warn("kickoff location unavailable, falling back to UTC", "location", defaultLocationName, "error", err)
			loaded = time.UTC
		}
		location = loaded
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &FootballService{
		provider:   provider,
		cache:      cache,
		popularIDs: append([]int64(nil), ids...),
		popular:    popular,
		policy:     cfg.FailurePolicy,
		onFailure:  cfg.OnUpstreamFailure,
		location:   location,
		metrics:    cfg.Metrics,
		logger:     logger,
		now:        now,
	}
}

// PopularLeagueIDs returns the configured allow-list in order.
func (s *FootballService) PopularLeagueIDs() []int64 {
	return append([]int64(nil), s.popularIDs...)
}

func (s *FootballService) GetPopularLeagues(ctx context.Context) ([]football.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FootballService.GetPopularLeagues")
	defer span.End()

	items, err := cachedFetch(ctx, s, cacheQuery[football.League]{
		operation: opPopularLeagues,
		key:       popularLeaguesKey,
		ttl:       popularLeaguesTTL,
		fetch: func(ctx context.Context) ([]football.League, error) {
			env, err := s.provider.FetchLeagues(ctx, apisports.LeagueFilter{})
			if err != nil {
				return nil, err
			}
			out := make([]football.League, 0, len(s.popular))
			for _, record := range env.Response {
				if _, ok := s.popular[record.League.ID]; !ok {
					continue
				}
				out = append(out, mapLeague(record))
			}
			return out, nil
		},
	})
	recordSpanError(span, err)
	return items, err
}

func (s *FootballService) GetLeagueTeams(ctx context.Context, leagueID int64, season int) ([]football.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FootballService.GetLeagueTeams")
	defer span.End()

	if err := validateLeagueSeason(leagueID, season); err != nil {
		return nil, err
	}

	items, err := cachedFetch(ctx, s, cacheQuery[football.Team]{
		operation: opLeagueTeams,
		key:       leagueTeamsKey(leagueID, season),
		ttl:       leagueTeamsTTL,
		fetch: func(ctx context.Context) ([]football.Team, error) {
			env, err := s.provider.FetchTeams(ctx, apisports.TeamFilter{
				League: apisports.Int64(leagueID),
				Season: apisports.Int(season),
			})
			if err != nil {
				return nil, err
			}
			out := make([]football.Team, 0, len(env.Response))
			for _, record := range env.Response {
				out = append(out, mapTeam(record))
			}
			return out, nil
		},
	})
	recordSpanError(span, err)
	return items, err
}

func (s *FootballService) GetLiveMatches(ctx context.Context) ([]football.MatchEvent, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FootballService.GetLiveMatches")
	defer span.End()

	items, err := cachedFetch(ctx, s, cacheQuery[football.MatchEvent]{
		operation: opLiveMatches,
		key:       liveMatchesKey,
		ttl:       liveMatchesTTL,
		fetch: func(ctx context.Context) ([]football.MatchEvent, error) {
			env, err := s.provider.FetchLiveFixtures(ctx)
			if err != nil {
				return nil, err
			}
			return mapFixtures(env.Response, s.location), nil
		},
	})
	recordSpanError(span, err)
	return items, err
}

// GetTodayMatches lists fixtures for the current UTC calendar day.
func (s *FootballService) GetTodayMatches(ctx context.Context) ([]football.MatchEvent, error) {
	return s.GetMatchesByDate(ctx, s.today())
}

func (s *FootballService) GetMatchesByDate(ctx context.Context, date string) ([]football.MatchEvent, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FootballService.GetMatchesByDate")
	defer span.End()

	if _, ok := football.ParseDate(date); !ok {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", ErrInvalidInput, date)
	}

	items, err := cachedFetch(ctx, s, cacheQuery[football.MatchEvent]{
		operation: opMatchesByDate,
		key:       matchesKey(date),
		ttl:       matchesTTL,
		fetch: func(ctx context.Context) ([]football.MatchEvent, error) {
			env, err := s.provider.FetchFixturesByDate(ctx, date)
			if err != nil {
				return nil, err
			}
			return mapFixtures(env.Response, s.location), nil
		},
	})
	recordSpanError(span, err)
	return items, err
}

func (s *FootballService) GetLeagueMatches(ctx context.Context, leagueID int64, season int) ([]football.MatchEvent, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FootballService.GetLeagueMatches")
	defer span.End()

	if err := validateLeagueSeason(leagueID, season); err != nil {
		return nil, err
	}

	items, err := cachedFetch(ctx, s, cacheQuery[football.MatchEvent]{
		operation: opLeagueMatches,
		key:       leagueMatchesKey(leagueID, season),
		ttl:       leagueMatchesTTL,
		fetch: func(ctx context.Context) ([]football.MatchEvent, error) {
			env, err := s.provider.FetchLeagueFixtures(ctx, leagueID, season)
			if err != nil {
				return nil, err
			}
			return mapFixtures(env.Response, s.location), nil
		},
	})
	recordSpanError(span, err)
	return items, err
}

// GetHomePageData loads live, today and popular leagues concurrently.
// The returned data is always usable; under Propagate the error joins
// whichever parts failed.
func (s *FootballService) GetHomePageData(ctx context.Context) (football.HomePageData, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FootballService.GetHomePageData")
	defer span.End()

	var data football.HomePageData
	var liveErr, todayErr, leagueErr error

	var wg conc.WaitGroup
	wg.Go(func() {
		data.LiveMatches, liveErr = s.GetLiveMatches(ctx)
	})
	wg.Go(func() {
		data.TodayMatches, todayErr = s.GetTodayMatches(ctx)
	})
	wg.Go(func() {
		data.PopularLeagues, leagueErr = s.GetPopularLeagues(ctx)
	})
	wg.Wait()

	if data.LiveMatches == nil {
		data.LiveMatches = []football.MatchEvent{}
	}
	if data.TodayMatches == nil {
		data.TodayMatches = []football.MatchEvent{}
	}
	if data.PopularLeagues == nil {
		data.PopularLeagues = []football.League{}
	}

	err := errors.Join(liveErr, todayErr, leagueErr)
	recordSpanError(span, err)
	return data, err
}

func (s *FootballService) today() string {
	return s.now().UTC().Format(football.DateLayout)
}

func validateLeagueSeason(leagueID int64, season int) error {
	if leagueID <= 0 {
		return fmt.Errorf("%w: league id must be positive, got %d", ErrInvalidInput, leagueID)
	}
	if !football.ValidSeason(season) {
		return fmt.Errorf("%w: season must be within [%d, %d], got %d",
			ErrInvalidInput, football.MinSeason, football.MaxSeason, season)
	}
	return nil
}

type cacheQuery[T any] struct {
	operation string
	key       string
	ttl       time.Duration
	fetch     func(ctx context.Context) ([]T, error)
}

// cachedFetch reads key from the cache and falls back to the provider on
// a miss. Cache faults never fail the call; provider faults follow the
// service failure policy. The returned slice is never nil.
func cachedFetch[T any](ctx context.Context, s *FootballService, q cacheQuery[T]) ([]T, error) {
	cached, result := readCached(ctx, s, q)
	s.metrics.ObserveCacheLookup(q.operation, result)
	if result == metrics.CacheHit {
		return cached, nil
	}

	// The shared fetch outlives any single caller giving up.
	flightCtx := context.WithoutCancel(ctx)
	resultCh := s.flight.DoChan(q.key, func() (any, error) {
		if items, result := readCached(flightCtx, s, q); result == metrics.CacheHit {
			return items, nil
		}

		items, err := q.fetch(flightCtx)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []T{}
		}
		writeCached(flightCtx, s, q, items)
		return items, nil
	})

	var res resilience.Result
	select {
	case res = <-resultCh:
	case <-ctx.Done():
		// The fetch keeps running and still fills the cache for later callers.
		s.logger.DebugContext(ctx, "caller gave up waiting for upstream fetch", "key", q.key, "error", ctx.Err())
		if s.policy == Propagate || upstreamErrorsRequested(ctx) {
			return []T{}, ctx.Err()
		}
		return []T{}, nil
	}
	if res.Err != nil {
		return []T{}, s.upstreamFailed(ctx, q.operation, res.Err)
	}

	items, _ := res.Val.([]T)
	out := make([]T, len(items))
	copy(out, items)
	return out, nil
}

func readCached[T any](ctx context.Context, s *FootballService, q cacheQuery[T]) ([]T, string) {
	entry, found, err := s.cache.Get(ctx, q.key)
	if err != nil {
		s.logger.WarnContext(ctx, "cache read failed, treating as miss", "key", q.key, "error", err)
		return nil, metrics.CacheError
	}
	if !found || !entry.Fresh(s.now()) {
		return nil, metrics.CacheMiss
	}

	var items []T
	if err := sonic.Unmarshal(entry.Data, &items); err != nil {
		s.logger.WarnContext(ctx, "cache payload undecodable, treating as miss", "key", q.key, "error", err)
		return nil, metrics.CacheError
	}
	if items == nil {
		items = []T{}
	}
	return items, metrics.CacheHit
}

func writeCached[T any](ctx context.Context, s *FootballService, q cacheQuery[T], items []T) {
	data, err := sonic.Marshal(items)
	if err != nil {
		s.logger.ErrorContext(ctx, "encode cache payload failed", "key", q.key, "error", err)
		s.metrics.ObserveCacheWriteError(q.operation)
		return
	}

	entry := apicache.Entry{
		Key:       q.key,
		Data:      data,
		ExpiresAt: s.now().Add(q.ttl),
	}
	if err := s.cache.Upsert(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "cache write failed", "key", q.key, "error", err)
		s.metrics.ObserveCacheWriteError(q.operation)
	}
}

func (s *FootballService) upstreamFailed(ctx context.Context, operation string, err error) error {
	s.logger.WarnContext(ctx, "upstream fetch failed",
		"operation", operation,
		"policy", s.policy.String(),
		"error", err,
	)
	s.metrics.ObserveUpstreamFailure(operation)
	if s.onFailure != nil {
		s.onFailure(ctx, operation, err)
	}
	if s.policy == Propagate || upstreamErrorsRequested(ctx) {
		return fmt.Errorf("%w: %s: %w", ErrUpstream, operation, err)
	}
	return nil
}

type upstreamErrorsKey struct{}

// withUpstreamErrors makes calls on ctx report provider failures even
// when the service fails open.
func withUpstreamErrors(ctx context.Context) context.Context {
	return context.WithValue(ctx, upstreamErrorsKey{}, true)
}

func upstreamErrorsRequested(ctx context.Context) bool {
	requested, _ := ctx.Value(upstreamErrorsKey{}).(bool)
	return requested
}
