package apisports

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/spores-football/internal/platform/logging"
	"github.com/riskibarqy/spores-football/internal/platform/metrics"
	"github.com/riskibarqy/spores-football/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://v3.football.api-sports.io"
	DefaultHost    = "v3.football.api-sports.io"

	defaultTimeout   = 10 * time.Second
	maxResponseBytes = 6 << 20
	retryBaseDelay   = 500 * time.Millisecond
	retryMaxDelay    = 5 * time.Second
	breakerName      = "apisports"
)

var tracer = otel.Tracer("spores-football/external/apisports")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Host           string
	Timeout        time.Duration
	MaxRetries     int
	RateLimit      float64
	RateBurst      int
	Logger         *logging.Logger
	Metrics        *metrics.Metrics
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the API-Football v3 REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	host       string
	maxRetries int
	limiter    *rate.Limiter
	breaker    *resilience.CircuitBreaker
	validate   *validator.Validate
	logger     *logging.Logger
	metrics    *metrics.Metrics
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("apisports")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = DefaultHost
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	m := cfg.Metrics
	breaker := resilience.NewCircuitBreaker(cfg.CircuitBreaker, func(from, to resilience.CircuitState) {
		logger.Warn("circuit breaker state changed", "from", from, "to", to)
		m.SetBreakerOpen(breakerName, to != resilience.CircuitStateClosed)
	})

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		host:       host,
		maxRetries: max(cfg.MaxRetries, 0),
		limiter:    limiter,
		breaker:    breaker,
		validate:   validator.New(),
		logger:     logger,
		metrics:    m,
	}
}

// FetchLeagues lists competitions matching filter.
func (c *Client) FetchLeagues(ctx context.Context, filter LeagueFilter) (Envelope[LeagueRecord], error) {
	return fetch[LeagueRecord](ctx, c, "/leagues", filter.values())
}

// FetchTeams lists teams matching filter.
func (c *Client) FetchTeams(ctx context.Context, filter TeamFilter) (Envelope[TeamRecord], error) {
	return fetch[TeamRecord](ctx, c, "/teams", filter.values())
}

// FetchFixtures lists fixtures matching filter.
func (c *Client) FetchFixtures(ctx context.Context, filter FixtureFilter) (Envelope[Fixture], error) {
	return fetch[Fixture](ctx, c, "/fixtures", filter.values())
}

// FetchLiveFixtures lists every fixture currently in play.
func (c *Client) FetchLiveFixtures(ctx context.Context) (Envelope[Fixture], error) {
	return c.FetchFixtures(ctx, FixtureFilter{Live: String("all")})
}

// FetchFixturesByDate lists fixtures on a YYYY-MM-DD day.
func (c *Client) FetchFixturesByDate(ctx context.Context, date string) (Envelope[Fixture], error) {
	return c.FetchFixtures(ctx, FixtureFilter{Date: String(date)})
}

// FetchLeagueFixtures lists one league's fixtures for a season.
func (c *Client) FetchLeagueFixtures(ctx context.Context, leagueID int64, season int) (Envelope[Fixture], error) {
	return c.FetchFixtures(ctx, FixtureFilter{League: Int64(leagueID), Season: Int(season)})
}

func (c *Client) BreakerState() resilience.CircuitState {
	return c.breaker.State()
}

func fetch[T any](ctx context.Context, c *Client, path string, query url.Values) (Envelope[T], error) {
	ctx, span := tracer.Start(ctx, "apisports.Client.fetch")
	defer span.End()
	span.SetAttributes(attribute.String("apisports.endpoint", path))

	started := time.Now()
	raw, err := c.doRequest(ctx, path, query)
	if err != nil {
		c.metrics.ObserveUpstreamRequest(path, outcomeOf(err), time.Since(started))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Envelope[T]{}, err
	}

	var envelope Envelope[T]
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		err = fmt.Errorf("%w: decode %s: %v", ErrInvalidPayload, path, err)
		c.metrics.ObserveUpstreamRequest(path, "invalid_payload", time.Since(started))
		span.RecordError(err)
		return Envelope[T]{}, err
	}
	if len(envelope.Errors) > 0 {
		err = fmt.Errorf("%w: %s", ErrProviderRejected, strings.Join(envelope.Errors, "; "))
		c.metrics.ObserveUpstreamRequest(path, "rejected", time.Since(started))
		c.logger.WarnContext(ctx, "provider returned errors", "endpoint", path, "errors", []string(envelope.Errors))
		span.RecordError(err)
		return Envelope[T]{}, err
	}
	for i := range envelope.Response {
		if err := c.validate.StructCtx(ctx, envelope.Response[i]); err != nil {
			err = fmt.Errorf("%w: %s record %d: %v", ErrInvalidPayload, path, i, err)
			c.metrics.ObserveUpstreamRequest(path, "invalid_payload", time.Since(started))
			span.RecordError(err)
			return Envelope[T]{}, err
		}
	}
	if envelope.Response == nil {
		envelope.Response = []T{}
	}

	c.metrics.ObserveUpstreamRequest(path, "ok", time.Since(started))
	span.SetAttributes(attribute.Int("apisports.results", len(envelope.Response)))
	return envelope, nil
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "circuit breaker rejected request", "endpoint", path, "state", c.breaker.State())
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}
	c.logger.DebugContext(ctx, "provider request", "curl_preview", c.curlPreview(fullURL))

	raw, err := c.executeRequest(ctx, fullURL)
	if err != nil && isCircuitFailure(err) {
		c.breaker.RecordFailure()
	} else {
		c.breaker.RecordSuccess()
	}
	return raw, err
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, crerr.Wrap(err, "wait for rate limiter")
			}
		}

		raw, err := c.send(ctx, fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !stderrors.Is(err, ErrTransient) || ctx.Err() != nil {
			break
		}
		if attempt == c.maxRetries {
			break
		}
		if err := resilience.Sleep(ctx, resilience.Backoff(attempt, retryBaseDelay, retryMaxDelay)); err != nil {
			return nil, err
		}
	}

	c.logger.WarnContext(ctx, "provider request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) send(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("x-rapidapi-host", c.host)
	req.Header.Set("x-rapidapi-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: send request: %s", ErrTransient, c.redact(err.Error()))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", ErrTransient, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Body:       abbreviateBody(raw),
		}
	}
	return raw, nil
}

func (c *Client) redact(text string) string {
	if c.apiKey == "" {
		return text
	}
	return strings.ReplaceAll(text, c.apiKey, "REDACTED")
}

func (c *Client) curlPreview(fullURL string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("curl -X GET ")
	_, _ = buf.WriteString(shellQuote(fullURL))
	_, _ = buf.WriteString(" -H ")
	_, _ = buf.WriteString(shellQuote("x-rapidapi-host: " + c.host))
	_, _ = buf.WriteString(" -H ")
	_, _ = buf.WriteString(shellQuote("x-rapidapi-key: ***"))
	return buf.String()
}

func isCircuitFailure(err error) bool {
	return stderrors.Is(err, ErrTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func outcomeOf(err error) string {
	var statusErr *StatusError
	switch {
	case stderrors.Is(err, ErrUnavailable):
		return "circuit_open"
	case stderrors.As(err, &statusErr):
		return "status_" + strconv.Itoa(statusErr.StatusCode)
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "transport_error"
	}
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
