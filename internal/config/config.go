package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/riskibarqy/spores-football/internal/platform/logging"
)

const (
	CacheBackendPostgres = "postgres"
	CacheBackendRedis    = "redis"
	CacheBackendBolt     = "bolt"
	CacheBackendMemory   = "memory"
)

const maxFootballAPITimeout = 60 * time.Second

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	LogLevel           logging.Level
	LogFormat          logging.Format
	CORSAllowedOrigins []string
	InternalJobToken   string
	MetricsEnabled     bool

	FootballAPIURL                string
	FootballAPIKey                string
	FootballAPIHost               string
	FootballAPITimeout            time.Duration
	FootballAPIMaxRetries         int
	FootballAPIRateLimit          float64
	FootballAPIRateBurst          int
	FootballCircuitEnabled        bool
	FootballCircuitFailureCount   int
	FootballCircuitOpenTimeout    time.Duration
	FootballCircuitHalfOpenMaxReq int
	FootballFailOpen              bool
	FootballPopularLeagueIDs      []int64
	FootballTimezone              string
	FootballLocation              *time.Location

	CacheBackend            string
	CacheL1TTL              time.Duration
	DBURL                   string
	DBDisablePreparedBinary bool
	RedisAddr               string
	RedisPassword           string
	RedisDB                 int
	BoltPath                string
	WarmupWorkers           int

	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	PprofEnabled               bool
	PprofAddr                  string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "spores-football-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		InternalJobToken:   strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	if cfg.ReadTimeout, err = getEnvAsDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getEnvAsDuration("APP_WRITE_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = getEnvAsDuration("APP_SHUTDOWN_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}

	if cfg.LogLevel, err = logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")); err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}
	if cfg.LogFormat, err = parseLogFormat(getEnv("APP_LOG_FORMAT", string(logging.FormatJSON))); err != nil {
		return Config{}, err
	}
	if cfg.MetricsEnabled, err = getEnvAsBool("METRICS_ENABLED", "true"); err != nil {
		return Config{}, err
	}

	if err := loadFootball(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadCache(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadObservability(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadFootball(cfg *Config) error {
	var err error

	cfg.FootballAPIURL = strings.TrimRight(strings.TrimSpace(getEnv("FOOTBALL_API_URL", "https://v3.football.api-sports.io")), "/")
	// An empty key is forwarded as-is; the provider answers with an error envelope.
	cfg.FootballAPIKey = strings.TrimSpace(os.Getenv("FOOTBALL_API_KEY"))
	cfg.FootballAPIHost = strings.TrimSpace(getEnv("FOOTBALL_API_HOST", "v3.football.api-sports.io"))

	if cfg.FootballAPITimeout, err = getEnvAsDuration("FOOTBALL_API_TIMEOUT", "10s"); err != nil {
		return err
	}
	if cfg.FootballAPITimeout > maxFootballAPITimeout {
		return fmt.Errorf("FOOTBALL_API_TIMEOUT must be <= %s", maxFootballAPITimeout)
	}
	if cfg.FootballAPIMaxRetries, err = getEnvAsInt("FOOTBALL_API_MAX_RETRIES", 0); err != nil {
		return fmt.Errorf("parse FOOTBALL_API_MAX_RETRIES: %w", err)
	}
	if cfg.FootballAPIMaxRetries < 0 {
		return fmt.Errorf("FOOTBALL_API_MAX_RETRIES must be >= 0")
	}
	if cfg.FootballAPIRateLimit, err = strconv.ParseFloat(getEnv("FOOTBALL_API_RATE_LIMIT", "5"), 64); err != nil {
		return fmt.Errorf("parse FOOTBALL_API_RATE_LIMIT: %w", err)
	}
	if cfg.FootballAPIRateLimit < 0 {
		return fmt.Errorf("FOOTBALL_API_RATE_LIMIT must be >= 0")
	}
	if cfg.FootballAPIRateBurst, err = getEnvAsInt("FOOTBALL_API_RATE_BURST", 5); err != nil {
		return fmt.Errorf("parse FOOTBALL_API_RATE_BURST: %w", err)
	}
	if cfg.FootballAPIRateBurst < 1 {
		return fmt.Errorf("FOOTBALL_API_RATE_BURST must be >= 1")
	}

	if cfg.FootballCircuitEnabled, err = getEnvAsBool("FOOTBALL_CIRCUIT_ENABLED", "true"); err != nil {
		return err
	}
	if cfg.FootballCircuitFailureCount, err = getEnvAsInt("FOOTBALL_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return fmt.Errorf("parse FOOTBALL_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.FootballCircuitFailureCount < 1 {
		return fmt.Errorf("FOOTBALL_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	if cfg.FootballCircuitOpenTimeout, err = getEnvAsDuration("FOOTBALL_CIRCUIT_OPEN_TIMEOUT", "30s"); err != nil {
		return err
	}
	if cfg.FootballCircuitHalfOpenMaxReq, err = getEnvAsInt("FOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ", 1); err != nil {
		return fmt.Errorf("parse FOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfg.FootballCircuitHalfOpenMaxReq < 1 {
		return fmt.Errorf("FOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	if cfg.FootballFailOpen, err = getEnvAsBool("FOOTBALL_FAIL_OPEN", "true"); err != nil {
		return err
	}
	if cfg.FootballPopularLeagueIDs, err = parseIDList(getEnv("FOOTBALL_POPULAR_LEAGUE_IDS", "39,140,78,61,135,94")); err != nil {
		return fmt.Errorf("parse FOOTBALL_POPULAR_LEAGUE_IDS: %w", err)
	}
	if len(cfg.FootballPopularLeagueIDs) == 0 {
		return fmt.Errorf("FOOTBALL_POPULAR_LEAGUE_IDS cannot be empty")
	}

	cfg.FootballTimezone = strings.TrimSpace(getEnv("FOOTBALL_TIMEZONE", "Europe/Moscow"))
	if cfg.FootballLocation, err = time.LoadLocation(cfg.FootballTimezone); err != nil {
		return fmt.Errorf("parse FOOTBALL_TIMEZONE: %w", err)
	}
	return nil
}

func loadCache(cfg *Config) error {
	var err error

	cfg.CacheBackend = strings.ToLower(strings.TrimSpace(getEnv("CACHE_BACKEND", CacheBackendPostgres)))
	switch cfg.CacheBackend {
	case CacheBackendPostgres, CacheBackendRedis, CacheBackendBolt, CacheBackendMemory:
	default:
		return fmt.Errorf("invalid CACHE_BACKEND %q: valid values are %s, %s, %s, %s",
			cfg.CacheBackend, CacheBackendPostgres, CacheBackendRedis, CacheBackendBolt, CacheBackendMemory)
	}

	// 0 disables the in-process layer.
	if cfg.CacheL1TTL, err = time.ParseDuration(getEnv("CACHE_L1_TTL", "0s")); err != nil {
		return fmt.Errorf("parse CACHE_L1_TTL: %w", err)
	}
	if cfg.CacheL1TTL < 0 {
		return fmt.Errorf("CACHE_L1_TTL must be >= 0")
	}

	cfg.DBURL = strings.TrimSpace(getEnv("DB_URL", getEnv("DATABASE_URL", "")))
	if cfg.DBDisablePreparedBinary, err = getEnvAsBool("DB_DISABLE_PREPARED_BINARY_RESULT", "true"); err != nil {
		return err
	}
	cfg.RedisAddr = strings.TrimSpace(getEnv("REDIS_ADDR", "localhost:6379"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if cfg.RedisDB, err = getEnvAsInt("REDIS_DB", 0); err != nil {
		return fmt.Errorf("parse REDIS_DB: %w", err)
	}
	if cfg.RedisDB < 0 {
		return fmt.Errorf("REDIS_DB must be >= 0")
	}
	cfg.BoltPath = strings.TrimSpace(getEnv("BOLT_PATH", "data/api_cache.db"))

	switch cfg.CacheBackend {
	case CacheBackendPostgres:
		if cfg.DBURL == "" {
			return fmt.Errorf("DB_URL is required when CACHE_BACKEND=%s", CacheBackendPostgres)
		}
	case CacheBackendRedis:
		if cfg.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND=%s", CacheBackendRedis)
		}
	case CacheBackendBolt:
		if cfg.BoltPath == "" {
			return fmt.Errorf("BOLT_PATH is required when CACHE_BACKEND=%s", CacheBackendBolt)
		}
	}

	if cfg.WarmupWorkers, err = getEnvAsInt("WARMUP_WORKERS", 4); err != nil {
		return fmt.Errorf("parse WARMUP_WORKERS: %w", err)
	}
	if cfg.WarmupWorkers < 1 {
		return fmt.Errorf("WARMUP_WORKERS must be >= 1")
	}
	return nil
}

func loadObservability(cfg *Config) error {
	var err error

	if cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", "false"); err != nil {
		return err
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PprofEnabled, err = getEnvAsBool("PPROF_ENABLED", "false"); err != nil {
		return err
	}
	cfg.PprofAddr = strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))

	if cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", "false"); err != nil {
		return err
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if cfg.PyroscopeUploadRate, err = getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return err
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	return nil
}

func parseLogFormat(v string) (logging.Format, error) {
	switch logging.Format(strings.ToLower(strings.TrimSpace(v))) {
	case logging.FormatJSON:
		return logging.FormatJSON, nil
	case logging.FormatConsole:
		return logging.FormatConsole, nil
	default:
		return "", fmt.Errorf("invalid APP_LOG_FORMAT %q: valid values are %s, %s", v, logging.FormatJSON, logging.FormatConsole)
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsBool(key, fallback string) (bool, error) {
	out, err := strconv.ParseBool(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

// getEnvAsDuration rejects zero and negative durations.
func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseIDList(raw string) ([]int64, error) {
	items := splitCSV(raw)
	out := make([]int64, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		value, err := strconv.ParseInt(item, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", item, err)
		}
		if value <= 0 {
			return nil, fmt.Errorf("id must be > 0, got %d", value)
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
