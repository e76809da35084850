package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr %q", cfg.HTTPAddr)
	}
	if cfg.DBURL != "" {
		t.Fatalf("expected empty DB_URL by default, got %q", cfg.DBURL)
	}
	if !cfg.CacheEnabled || cfg.CacheTTL != 60*time.Second {
		t.Fatalf("unexpected cache defaults: enabled=%t ttl=%s", cfg.CacheEnabled, cfg.CacheTTL)
	}
	if len(cfg.Sports) != 4 || cfg.Sports[0] != "football" {
		t.Fatalf("unexpected sports %v", cfg.Sports)
	}
	if len(cfg.WindowSteps) != 4 || cfg.WindowSteps[0] != 7 || cfg.WindowSteps[3] != 30 {
		t.Fatalf("unexpected window steps %v", cfg.WindowSteps)
	}
	if cfg.MinFixtures != 20 || cfg.IngestMaxWorkers != 8 {
		t.Fatalf("unexpected ingestion defaults: fixtures=%d workers=%d", cfg.MinFixtures, cfg.IngestMaxWorkers)
	}
	if cfg.FeaturedMarkup != 1.05 || cfg.FeaturedPrecision != 2 {
		t.Fatalf("unexpected featured defaults: markup=%v precision=%d", cfg.FeaturedMarkup, cfg.FeaturedPrecision)
	}
	if cfg.ConfidenceHigh != 12 || cfg.ConfidenceMedium != 5 {
		t.Fatalf("unexpected confidence margins: high=%v medium=%v", cfg.ConfidenceHigh, cfg.ConfidenceMedium)
	}
	if cfg.RefreshInterval != 5*time.Minute || cfg.ComputeInterval != 10*time.Minute || cfg.VerifyInterval != 15*time.Minute {
		t.Fatalf("unexpected job intervals: %s %s %s", cfg.RefreshInterval, cfg.ComputeInterval, cfg.VerifyInterval)
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PyroscopeRequiresServerWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_WeightsMustSumToOne(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("WEIGHT_ODDS", "0.50")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when prediction weights do not sum to 1.0")
	}
}

func TestLoad_WeightOverridesKeepingSum(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("WEIGHT_ODDS", "0.30")
	t.Setenv("WEIGHT_VOLUME", "0.10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.WeightOdds != 0.30 || cfg.WeightVolume != 0.10 {
		t.Fatalf("unexpected weights: odds=%v volume=%v", cfg.WeightOdds, cfg.WeightVolume)
	}
}

func TestLoad_WindowStepsValidation(t *testing.T) {
	cases := []struct {
		name  string
		value string
	}{
		{"not increasing", "7,7,21"},
		{"decreasing", "14,7"},
		{"non positive", "0,7"},
		{"not a number", "7,abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv("INGEST_WINDOW_STEPS", tc.value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error for INGEST_WINDOW_STEPS=%q", tc.value)
			}
		})
	}
}

func TestLoad_ConfidenceMarginsOrdering(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CONFIDENCE_HIGH_MARGIN", "4")
	t.Setenv("CONFIDENCE_MEDIUM_MARGIN", "5")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when high margin is not above medium margin")
	}
}

func TestLoad_ProviderConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("GOALSERVE_BASE_URL", "https://feeds.goalserve.example.com/v2")
	t.Setenv("GOALSERVE_API_KEY", "key-123")
	t.Setenv("GOALSERVE_TIMEOUT", "4s")
	t.Setenv("GOALSERVE_MAX_RETRIES", "1")
	t.Setenv("ODDSFEED_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Goalserve.BaseURL != "https://feeds.goalserve.example.com/v2" {
		t.Fatalf("unexpected Goalserve base URL %q", cfg.Goalserve.BaseURL)
	}
	if cfg.Goalserve.APIKey != "key-123" {
		t.Fatalf("unexpected Goalserve API key")
	}
	if cfg.Goalserve.Timeout != 4*time.Second || cfg.Goalserve.MaxRetries != 1 {
		t.Fatalf("unexpected Goalserve tuning: timeout=%s retries=%d", cfg.Goalserve.Timeout, cfg.Goalserve.MaxRetries)
	}
	if !cfg.Goalserve.CircuitEnabled || cfg.Goalserve.CircuitFailureCount != 5 {
		t.Fatalf("unexpected Goalserve circuit defaults")
	}
	if cfg.Oddsfeed.Enabled {
		t.Fatalf("expected Oddsfeed to be disabled")
	}
}
