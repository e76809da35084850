package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/config"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/match"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/prediction"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/ranking"
	cacherepo "github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/infrastructure/repository/cache"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/infrastructure/repository/memory"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/infrastructure/repository/postgres"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/interfaces/httpapi"
	basecache "github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/platform/cache"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/platform/logging"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/platform/resilience"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/providers"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/providers/goalserve"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/providers/oddsfeed"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/usecase"
)

// App bundles the wired HTTP server and background scheduler.
type App struct {
	Server    *http.Server
	Scheduler *usecase.Scheduler

	db *sqlx.DB
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	var (
		db          *sqlx.DB
		snapshots   match.SnapshotRepository
		results     match.ResultRepository
		predictions prediction.Repository
	)
	if cfg.DBURL == "" {
		logger.Info("storage backend", "driver", "memory", "reason", "DB_URL empty")
		snapshots = memory.NewMatchRepository()
		results = memory.NewResultRepository()
		predictions = memory.NewPredictionRepository()
	} else {
		var err error
		db, err = openDB(cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("storage backend", "driver", "postgres", "database", dbNameFromURL(cfg.DBURL))
		snapshots = postgres.NewMatchRepository(db)
		results = postgres.NewResultRepository(db)
		predictions = postgres.NewPredictionRepository(db)
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		ttls := cacherepo.DefaultTTLs()
		snapshots = cacherepo.NewMatchRepository(snapshots, store, ttls)
		predictions = cacherepo.NewPredictionRepository(predictions, store, ttls.Match)
	}

	registry := buildProviderRegistry(cfg, logger)

	engine := prediction.NewEngine(
		prediction.Weights{
			Odds:       cfg.WeightOdds,
			Volume:     cfg.WeightVolume,
			Movement:   cfg.WeightMovement,
			TeamStats:  cfg.WeightTeamStats,
			Momentum:   cfg.WeightMomentum,
			HeadToHead: cfg.WeightHeadToHead,
		},
		prediction.ConfidenceThresholds{
			High:   cfg.ConfidenceHigh,
			Medium: cfg.ConfidenceMedium,
		},
	)

	ingestionSvc := usecase.NewIngestionService(
		registry,
		snapshots,
		results,
		ranking.DefaultConfig(),
		cfg.Sports,
		usecase.IngestionConfig{
			WindowSteps: cfg.WindowSteps,
			MinFixtures: cfg.MinFixtures,
			MaxWorkers:  cfg.IngestMaxWorkers,
		},
		logger,
	)
	predictionSvc := usecase.NewPredictionService(snapshots, results, predictions, engine, logger)
	verificationSvc := usecase.NewVerificationService(results, predictions, logger)
	matchQuerySvc := usecase.NewMatchQueryService(
		snapshots,
		predictions,
		ingestionSvc,
		cfg.FeaturedMarkup,
		cfg.FeaturedPrecision,
		logger,
	)

	scheduler := usecase.NewScheduler(
		ingestionSvc,
		predictionSvc,
		verificationSvc,
		usecase.SchedulerConfig{
			RefreshInterval: cfg.RefreshInterval,
			ComputeInterval: cfg.ComputeInterval,
			VerifyInterval:  cfg.VerifyInterval,
		},
		logger,
	)

	handler := httpapi.NewHandler(matchQuerySvc, scheduler, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{
		Server:    server,
		Scheduler: scheduler,
		db:        db,
	}, nil
}

// Close releases resources not owned by the HTTP server.
func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}

	return a.db.Close()
}

func buildProviderRegistry(cfg config.Config, logger *logging.Logger) *providers.Registry {
	adapters := make([]providers.Adapter, 0, 2)

	if cfg.Goalserve.Enabled {
		client := providers.NewClient(providers.ClientConfig{
			BaseURL:        cfg.Goalserve.BaseURL,
			APIKey:         cfg.Goalserve.APIKey,
			Timeout:        cfg.Goalserve.Timeout,
			MaxRetries:     cfg.Goalserve.MaxRetries,
			Logger:         logger,
			CircuitBreaker: circuitConfig(cfg.Goalserve),
		})
		adapters = append(adapters, goalserve.New(client, logger, cfg.GoalserveLocale))
	} else {
		logger.Info("provider disabled", "provider", "goalserve")
	}

	if cfg.Oddsfeed.Enabled {
		client := providers.NewClient(providers.ClientConfig{
			BaseURL:        cfg.Oddsfeed.BaseURL,
			APIKey:         cfg.Oddsfeed.APIKey,
			Timeout:        cfg.Oddsfeed.Timeout,
			MaxRetries:     cfg.Oddsfeed.MaxRetries,
			Logger:         logger,
			CircuitBreaker: circuitConfig(cfg.Oddsfeed),
		})
		adapters = append(adapters, oddsfeed.New(client, logger))
	} else {
		logger.Info("provider disabled", "provider", "oddsfeed")
	}

	return providers.NewRegistry(adapters...)
}

func circuitConfig(p config.ProviderConfig) resilience.CircuitBreakerConfig {
	return resilience.NormalizeCircuitBreakerConfig(resilience.CircuitBreakerConfig{
		Enabled:          p.CircuitEnabled,
		FailureThreshold: p.CircuitFailureCount,
		OpenTimeout:      p.CircuitOpenTimeout,
		HalfOpenMaxReq:   p.CircuitHalfOpenMaxReq,
	})
}
