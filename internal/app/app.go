package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/spores-football/external/apisports"
	"github.com/riskibarqy/spores-football/internal/config"
	"github.com/riskibarqy/spores-football/internal/interfaces/httpapi"
	"github.com/riskibarqy/spores-football/internal/platform/logging"
	"github.com/riskibarqy/spores-football/internal/platform/metrics"
	"github.com/riskibarqy/spores-football/internal/platform/resilience"
	"github.com/riskibarqy/spores-football/internal/usecase"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CleanupFunc releases what NewHTTPServer opened. Call it after the server
// has shut down.
type CleanupFunc func() error

func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, CleanupFunc, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	cacheRepo, closeCache, err := openCacheRepository(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	provider := apisports.NewClient(apisports.ClientConfig{
		BaseURL:    cfg.FootballAPIURL,
		APIKey:     cfg.FootballAPIKey,
		Host:       cfg.FootballAPIHost,
		Timeout:    cfg.FootballAPITimeout,
		MaxRetries: cfg.FootballAPIMaxRetries,
		RateLimit:  cfg.FootballAPIRateLimit,
		RateBurst:  cfg.FootballAPIRateBurst,
		Logger:     logger,
		Metrics:    m,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootballCircuitEnabled,
			FailureThreshold: cfg.FootballCircuitFailureCount,
			OpenTimeout:      cfg.FootballCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FootballCircuitHalfOpenMaxReq,
		},
	})

	policy := usecase.FailOpen
	if !cfg.FootballFailOpen {
		policy = usecase.Propagate
	}

	footballSvc := usecase.NewFootballService(provider, cacheRepo, usecase.FootballServiceConfig{
		PopularLeagueIDs:  cfg.FootballPopularLeagueIDs,
		FailurePolicy:     policy,
		OnUpstreamFailure: annotateUpstreamFailure,
		Location:          cfg.FootballLocation,
		Metrics:           m,
	}, logger.Named("football"))
	warmupSvc := usecase.NewWarmupService(footballSvc, usecase.WarmupConfig{
		Workers: cfg.WarmupWorkers,
		Metrics: m,
	}, logger.Named("warmup"))

	handler := httpapi.NewHandler(footballSvc, warmupSvc, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterConfig{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
		Metrics:            m,
	})
	if cfg.InternalJobToken == "" {
		logger.Warn("internal job routes disabled", "reason", "INTERNAL_JOB_TOKEN empty")
	}

	logger.Info("football service configured",
		"cache_backend", cfg.CacheBackend,
		"cache_l1_ttl", cfg.CacheL1TTL.String(),
		"failure_policy", policy.String(),
		"popular_leagues", len(cfg.FootballPopularLeagueIDs),
		"timezone", cfg.FootballTimezone,
		"metrics_enabled", m != nil,
	)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, CleanupFunc(closeCache), nil
}

// annotateUpstreamFailure marks the active request span so failed provider
// calls stay visible in traces even when the caller got an empty list.
func annotateUpstreamFailure(ctx context.Context, operation string, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent("football.upstream_failure", trace.WithAttributes(
		attribute.String("football.operation", operation),
		attribute.String("error.message", err.Error()),
	))
}
