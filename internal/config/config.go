package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// ProviderConfig is the per-provider client tuning shared by both feeds.
type ProviderConfig struct {
	Enabled               bool
	BaseURL               string
	APIKey                string
	Timeout               time.Duration
	MaxRetries            int
	CircuitEnabled        bool
	CircuitFailureCount   int
	CircuitOpenTimeout    time.Duration
	CircuitHalfOpenMaxReq int
}

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	LogLevel       logging.Level

	// DBURL empty means the in-memory stores are used.
	DBURL                   string
	DBDisablePreparedBinary bool

	CacheEnabled       bool
	CacheTTL           time.Duration
	CORSAllowedOrigins []string
	InternalJobToken   string

	UptraceEnabled   bool
	UptraceDSN       string
	PyroscopeEnabled bool
	PyroscopeServer  string
	PyroscopeApp     string
	PyroscopeToken   string

	Goalserve       ProviderConfig
	GoalserveLocale string
	Oddsfeed        ProviderConfig

	Sports            []string
	WindowSteps       []int
	MinFixtures       int
	IngestMaxWorkers  int
	FeaturedMarkup    float64
	FeaturedPrecision int

	WeightOdds       float64
	WeightVolume     float64
	WeightMovement   float64
	WeightTeamStats  float64
	WeightMomentum   float64
	WeightHeadToHead float64
	ConfidenceHigh   float64
	ConfidenceMedium float64

	RefreshInterval time.Duration
	ComputeInterval time.Duration
	VerifyInterval  time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "funbet-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:              strings.TrimSpace(getEnv("DB_URL", "")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		InternalJobToken:   strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		LogLevel:           parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		GoalserveLocale:    strings.TrimSpace(getEnv("GOALSERVE_LOCALE", "en")),
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

	if cfg.DBDisablePreparedBinary, err = getEnvAsBool("DB_DISABLE_PREPARED_BINARY_RESULT", "true"); err != nil {
		return Config{}, err
	}

	if cfg.CacheEnabled, err = getEnvAsBool("CACHE_ENABLED", "true"); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = getEnvAsDuration("CACHE_TTL", "60s"); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	if cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	cfg.PyroscopeServer = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServer == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeApp = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))

	if cfg.Goalserve, err = loadProvider("GOALSERVE", "https://feeds.goalserve.example.com/v1"); err != nil {
		return Config{}, err
	}
	if cfg.Oddsfeed, err = loadProvider("ODDSFEED", "https://api.the-odds-feed.example.com/v4"); err != nil {
		return Config{}, err
	}

	cfg.Sports = splitCSV(strings.ToLower(getEnv("SPORTS", "football,basketball,tennis,hockey")))
	if len(cfg.Sports) == 0 {
		return Config{}, fmt.Errorf("SPORTS cannot be empty")
	}

	if cfg.WindowSteps, err = parseIntList(getEnv("INGEST_WINDOW_STEPS", "7,14,21,30")); err != nil {
		return Config{}, fmt.Errorf("parse INGEST_WINDOW_STEPS: %w", err)
	}
	for idx, step := range cfg.WindowSteps {
		if step <= 0 {
			return Config{}, fmt.Errorf("INGEST_WINDOW_STEPS must be positive days")
		}
		if idx > 0 && step <= cfg.WindowSteps[idx-1] {
			return Config{}, fmt.Errorf("INGEST_WINDOW_STEPS must be strictly increasing")
		}
	}
	if cfg.MinFixtures, err = getEnvAsInt("INGEST_MIN_FIXTURES", 20); err != nil {
		return Config{}, err
	}
	if cfg.MinFixtures < 1 {
		return Config{}, fmt.Errorf("INGEST_MIN_FIXTURES must be >= 1")
	}
	if cfg.IngestMaxWorkers, err = getEnvAsInt("INGEST_MAX_WORKERS", 8); err != nil {
		return Config{}, err
	}
	if cfg.IngestMaxWorkers < 1 {
		return Config{}, fmt.Errorf("INGEST_MAX_WORKERS must be >= 1")
	}

	if cfg.FeaturedMarkup, err = getEnvAsFloat("FEATURED_MARKUP", 1.05); err != nil {
		return Config{}, err
	}
	if cfg.FeaturedMarkup <= 1 {
		return Config{}, fmt.Errorf("FEATURED_MARKUP must be > 1")
	}
	if cfg.FeaturedPrecision, err = getEnvAsInt("FEATURED_PRECISION", 2); err != nil {
		return Config{}, err
	}
	if cfg.FeaturedPrecision < 0 || cfg.FeaturedPrecision > 4 {
		return Config{}, fmt.Errorf("FEATURED_PRECISION must be between 0 and 4")
	}

	if err := cfg.loadWeights(); err != nil {
		return Config{}, err
	}

	if cfg.RefreshInterval, err = getEnvAsDuration("JOB_REFRESH_INTERVAL", "5m"); err != nil {
		return Config{}, err
	}
	if cfg.ComputeInterval, err = getEnvAsDuration("JOB_COMPUTE_INTERVAL", "10m"); err != nil {
		return Config{}, err
	}
	if cfg.VerifyInterval, err = getEnvAsDuration("JOB_VERIFY_INTERVAL", "15m"); err != nil {
		return Config{}, err
	}
	if cfg.RefreshInterval <= 0 || cfg.ComputeInterval <= 0 || cfg.VerifyInterval <= 0 {
		return Config{}, fmt.Errorf("job intervals must be > 0")
	}

	return cfg, nil
}

func (c *Config) loadWeights() error {
	var err error
	if c.WeightOdds, err = getEnvAsFloat("WEIGHT_ODDS", 0.20); err != nil {
		return err
	}
	if c.WeightVolume, err = getEnvAsFloat("WEIGHT_VOLUME", 0.20); err != nil {
		return err
	}
	if c.WeightMovement, err = getEnvAsFloat("WEIGHT_MOVEMENT", 0.20); err != nil {
		return err
	}
	if c.WeightTeamStats, err = getEnvAsFloat("WEIGHT_TEAM_STATS", 0.20); err != nil {
		return err
	}
	if c.WeightMomentum, err = getEnvAsFloat("WEIGHT_MOMENTUM", 0.10); err != nil {
		return err
	}
	if c.WeightHeadToHead, err = getEnvAsFloat("WEIGHT_HEAD_TO_HEAD", 0.10); err != nil {
		return err
	}

	sum := c.WeightOdds + c.WeightVolume + c.WeightMovement + c.WeightTeamStats + c.WeightMomentum + c.WeightHeadToHead
	if sum < 0.999999 || sum > 1.000001 {
		return fmt.Errorf("prediction weights must sum to 1.0, got %.6f", sum)
	}

	if c.ConfidenceHigh, err = getEnvAsFloat("CONFIDENCE_HIGH_MARGIN", 12); err != nil {
		return err
	}
	if c.ConfidenceMedium, err = getEnvAsFloat("CONFIDENCE_MEDIUM_MARGIN", 5); err != nil {
		return err
	}
	if c.ConfidenceMedium <= 0 || c.ConfidenceHigh <= c.ConfidenceMedium {
		return fmt.Errorf("CONFIDENCE_HIGH_MARGIN must be greater than CONFIDENCE_MEDIUM_MARGIN, both > 0")
	}

	return nil
}

func loadProvider(prefix, defaultBaseURL string) (ProviderConfig, error) {
	out := ProviderConfig{
		BaseURL: strings.TrimSpace(getEnv(prefix+"_BASE_URL", defaultBaseURL)),
		APIKey:  strings.TrimSpace(getEnv(prefix+"_API_KEY", "")),
	}

	var err error
	if out.Enabled, err = getEnvAsBool(prefix+"_ENABLED", "true"); err != nil {
		return ProviderConfig{}, err
	}
	if out.Timeout, err = getEnvAsDuration(prefix+"_TIMEOUT", "15s"); err != nil {
		return ProviderConfig{}, err
	}
	if out.Timeout <= 0 {
		return ProviderConfig{}, fmt.Errorf("%s_TIMEOUT must be > 0", prefix)
	}
	if out.MaxRetries, err = getEnvAsInt(prefix+"_MAX_RETRIES", 2); err != nil {
		return ProviderConfig{}, err
	}
	if out.MaxRetries < 0 {
		return ProviderConfig{}, fmt.Errorf("%s_MAX_RETRIES must be >= 0", prefix)
	}
	if out.CircuitEnabled, err = getEnvAsBool(prefix+"_CIRCUIT_ENABLED", "true"); err != nil {
		return ProviderConfig{}, err
	}
	if out.CircuitFailureCount, err = getEnvAsInt(prefix+"_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return ProviderConfig{}, err
	}
	if out.CircuitFailureCount < 1 {
		return ProviderConfig{}, fmt.Errorf("%s_CIRCUIT_FAILURE_COUNT must be >= 1", prefix)
	}
	if out.CircuitOpenTimeout, err = getEnvAsDuration(prefix+"_CIRCUIT_OPEN_TIMEOUT", "15s"); err != nil {
		return ProviderConfig{}, err
	}
	if out.CircuitOpenTimeout <= 0 {
		return ProviderConfig{}, fmt.Errorf("%s_CIRCUIT_OPEN_TIMEOUT must be > 0", prefix)
	}
	if out.CircuitHalfOpenMaxReq, err = getEnvAsInt(prefix+"_CIRCUIT_HALF_OPEN_MAX_REQ", 2); err != nil {
		return ProviderConfig{}, err
	}
	if out.CircuitHalfOpenMaxReq < 1 {
		return ProviderConfig{}, fmt.Errorf("%s_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1", prefix)
	}

	return out, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
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
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	return out, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	return out, nil
}

func getEnvAsBool(key, fallback string) (bool, error) {
	out, err := strconv.ParseBool(getEnv(key, fallback))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}

	return out, nil
}

func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
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

func parseIntList(v string) ([]int, error) {
	parts := splitCSV(v)
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", part, err)
		}
		out = append(out, value)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("list cannot be empty")
	}

	return out, nil
}
