package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/spores-football/internal/domain/football"
	"github.com/riskibarqy/spores-football/internal/platform/logging"
	"github.com/riskibarqy/spores-football/internal/usecase"
)

type Handler struct {
	footballService *usecase.FootballService
	warmupService   *usecase.WarmupService
	logger          *logging.Logger
	validator       *validator.Validate
	now             func() time.Time
}

func NewHandler(
	footballService *usecase.FootballService,
	warmupService *usecase.WarmupService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		footballService: footballService,
		warmupService:   warmupService,
		logger:          logger,
		validator:       validator.New(),
		now:             time.Now,
	}
}

type leagueSeasonParams struct {
	LeagueID int64 `validate:"gt=0"`
	Season   int   `validate:"gte=1900,lte=2100"`
}

type matchesParams struct {
	Date string `validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetHomePage always answers with whatever parts loaded; a partial
// failure is only logged.
func (h *Handler) GetHomePage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetHomePage")
	defer span.End()

	data, err := h.footballService.GetHomePageData(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "home page served with missing sections", "error", err)
	}

	writeSuccess(ctx, w, http.StatusOK, data)
}

func (h *Handler) ListPopularLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPopularLeagues")
	defer span.End()

	leagues, err := h.footballService.GetPopularLeagues(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list popular leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, newListPayload(leagues))
}

func (h *Handler) ListLeagueTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueTeams")
	defer span.End()

	params, err := h.parseLeagueSeason(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teams, err := h.footballService.GetLeagueTeams(ctx, params.LeagueID, params.Season)
	if err != nil {
		h.logger.WarnContext(ctx, "list league teams failed",
			"league_id", params.LeagueID,
			"season", params.Season,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, newListPayload(teams))
}

func (h *Handler) ListLeagueFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueFixtures")
	defer span.End()

	params, err := h.parseLeagueSeason(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matches, err := h.footballService.GetLeagueMatches(ctx, params.LeagueID, params.Season)
	if err != nil {
		h.logger.WarnContext(ctx, "list league fixtures failed",
			"league_id", params.LeagueID,
			"season", params.Season,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, newListPayload(matches))
}

func (h *Handler) ListLiveMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLiveMatches")
	defer span.End()

	matches, err := h.footballService.GetLiveMatches(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list live matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, newListPayload(matches))
}

// ListMatches serves ?date=YYYY-MM-DD, or today's fixtures without it.
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	params := matchesParams{Date: strings.TrimSpace(r.URL.Query().Get("date"))}
	if err := h.validator.StructCtx(ctx, params); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: date must be YYYY-MM-DD", usecase.ErrInvalidInput))
		return
	}

	var (
		matches []football.MatchEvent
		err     error
	)
	if params.Date == "" {
		matches, err = h.footballService.GetTodayMatches(ctx)
	} else {
		matches, err = h.footballService.GetMatchesByDate(ctx, params.Date)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "date", params.Date, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, newListPayload(matches))
}

func (h *Handler) RunWarmupJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunWarmupJob")
	defer span.End()

	if h.warmupService == nil {
		writeError(ctx, w, fmt.Errorf("%w: warmup job is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.warmupService.Run(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "run warmup job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// parseLeagueSeason reads {leagueID} and ?season=, defaulting the season
// to the one currently running.
func (h *Handler) parseLeagueSeason(ctx context.Context, r *http.Request) (leagueSeasonParams, error) {
	rawLeagueID := strings.TrimSpace(r.PathValue("leagueID"))
	leagueID, err := strconv.ParseInt(rawLeagueID, 10, 64)
	if err != nil {
		return leagueSeasonParams{}, fmt.Errorf("%w: league id must be numeric, got %q", usecase.ErrInvalidInput, rawLeagueID)
	}

	season := football.CurrentSeason(h.now())
	if rawSeason := strings.TrimSpace(r.URL.Query().Get("season")); rawSeason != "" {
		season, err = strconv.Atoi(rawSeason)
		if err != nil {
			return leagueSeasonParams{}, fmt.Errorf("%w: season must be a year, got %q", usecase.ErrInvalidInput, rawSeason)
		}
	}

	params := leagueSeasonParams{LeagueID: leagueID, Season: season}
	if err := h.validator.StructCtx(ctx, params); err != nil {
		return leagueSeasonParams{}, fmt.Errorf("%w: %s", usecase.ErrInvalidInput, describeValidationError(err))
	}
	return params, nil
}

func describeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
