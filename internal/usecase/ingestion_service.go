package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/match"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/ranking"
	idgen "github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/platform/id"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/platform/logging"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/providers"
)

// IngestionConfig tunes one refresh cycle. WindowSteps is the widening
// ladder in days: the cycle starts at the first step and widens to the next
// whenever the merged fixture count stays under MinFixtures.
type IngestionConfig struct {
	WindowSteps []int
	MinFixtures int
	MaxWorkers  int
}

func DefaultIngestionConfig() IngestionConfig {
	return IngestionConfig{
		WindowSteps: []int{7, 14, 21, 30},
		MinFixtures: 20,
		MaxWorkers:  8,
	}
}

func (c IngestionConfig) normalized() IngestionConfig {
	defaults := DefaultIngestionConfig()
	if len(c.WindowSteps) == 0 {
		c.WindowSteps = defaults.WindowSteps
	}
	if c.MinFixtures <= 0 {
		c.MinFixtures = defaults.MinFixtures
	}
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = defaults.MaxWorkers
	}
	return c
}

// RefreshResult summarizes one refresh cycle for logs and the job endpoint.
type RefreshResult struct {
	WindowDays     int `json:"window_days"`
	Fetched        int `json:"fetched"`
	Merged         int `json:"merged"`
	SkippedRecords int `json:"skipped_records"`
	SkippedQuotes  int `json:"skipped_quotes"`
	Completed      int `json:"completed"`
	ProviderErrors int `json:"provider_errors"`
}

// IngestionService pulls every provider feed, merges fixtures by key,
// classifies them and swaps the snapshot. A cycle where every provider
// fails leaves the previous snapshot untouched.
type IngestionService struct {
	registry  *providers.Registry
	snapshots match.SnapshotRepository
	results   match.ResultRepository
	ranking   ranking.Config
	sports    []string
	cfg       IngestionConfig
	ids       idgen.Generator
	logger    *logging.Logger
	now       func() time.Time
}

func NewIngestionService(
	registry *providers.Registry,
	snapshots match.SnapshotRepository,
	results match.ResultRepository,
	rankingCfg ranking.Config,
	sports []string,
	cfg IngestionConfig,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	if len(sports) == 0 {
		sports = []string{match.SportFootball, match.SportBasketball, match.SportTennis, match.SportHockey}
	}
	return &IngestionService{
		registry:  registry,
		snapshots: snapshots,
		results:   results,
		ranking:   rankingCfg,
		sports:    sports,
		cfg:       cfg.normalized(),
		ids:       idgen.NewRandomGenerator(),
		logger:    logger,
		now:       time.Now,
	}
}

// RefreshOdds runs one full ingestion cycle.
func (s *IngestionService) RefreshOdds(ctx context.Context) (RefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshOdds")
	defer span.End()

	logger := s.logger
	if cycleID, err := s.ids.NewID(); err == nil {
		logger = logger.With("cycle_id", cycleID)
	}

	now := s.now().UTC()
	result := RefreshResult{}

	var merged map[string]match.Match
	for idx, days := range s.cfg.WindowSteps {
		window := providers.NewWindow(now, days)
		cycle, err := s.fetchCycle(ctx, window)
		if err != nil {
			return RefreshResult{}, err
		}

		merged = cycle.merged
		result.WindowDays = days
		result.Fetched = cycle.fetched
		result.SkippedRecords = cycle.skippedRecords
		result.SkippedQuotes = cycle.skippedQuotes
		result.ProviderErrors = cycle.providerErrors

		if len(merged) >= s.cfg.MinFixtures || idx == len(s.cfg.WindowSteps)-1 {
			break
		}
		logger.InfoContext(ctx, "widening ingestion window",
			"window_days", days, "fixtures", len(merged), "min_fixtures", s.cfg.MinFixtures)
	}

	matches := make([]match.Match, 0, len(merged))
	completed := make([]match.Match, 0, 16)
	for _, item := range merged {
		matches = append(matches, item)
		if item.Completed && item.HomeScore != nil && item.AwayScore != nil {
			completed = append(completed, item)
		}
	}

	s.ranking.Classify(now, matches)
	ranking.Sort(matches)

	if err := s.snapshots.ReplaceAll(ctx, matches); err != nil {
		return RefreshResult{}, fmt.Errorf("replace match snapshot: %w", err)
	}
	if len(completed) > 0 {
		if err := s.results.UpsertResults(ctx, completed); err != nil {
			return RefreshResult{}, fmt.Errorf("upsert results: %w", err)
		}
	}

	result.Merged = len(matches)
	result.Completed = len(completed)
	logger.InfoContext(ctx, "odds refresh complete",
		"window_days", result.WindowDays,
		"fetched", result.Fetched,
		"merged", result.Merged,
		"completed", result.Completed,
		"skipped_records", result.SkippedRecords,
		"provider_errors", result.ProviderErrors)

	return result, nil
}

type fetchCycle struct {
	merged         map[string]match.Match
	fetched        int
	skippedRecords int
	skippedQuotes  int
	providerErrors int
}

type fetchTask struct {
	adapter providers.Adapter
	sport   string
}

func (s *IngestionService) fetchCycle(ctx context.Context, window providers.Window) (fetchCycle, error) {
	tasks := make([]fetchTask, 0, 8)
	for _, adapter := range s.registry.All() {
		for _, sport := range s.sports {
			if !providers.SupportsSport(adapter, sport) {
				continue
			}
			tasks = append(tasks, fetchTask{adapter: adapter, sport: sport})
		}
	}
	if len(tasks) == 0 {
		return fetchCycle{}, fmt.Errorf("%w: no odds providers registered", ErrDependencyUnavailable)
	}

	workerCount := min(s.cfg.MaxWorkers, len(tasks))
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return fetchCycle{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	batches := make(chan providers.Batch, len(tasks))
	var failures atomic.Int32
	var skipped atomic.Int32

	var workers sync.WaitGroup
	for _, task := range tasks {
		task := task
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			batch, err := task.adapter.Fetch(ctx, window, task.sport)
			if err != nil {
				failures.Add(1)
				s.logger.WarnContext(ctx, "provider fetch failed",
					"provider", task.adapter.Name(), "sport", task.sport, "error", err)
				return
			}
			skipped.Add(int32(batch.Skipped))
			batches <- batch
		}); err != nil {
			workers.Done()
			return fetchCycle{}, fmt.Errorf("submit fetch task: %w", err)
		}
	}

	workers.Wait()
	close(batches)

	cycle := fetchCycle{
		merged:         make(map[string]match.Match, 64),
		skippedRecords: int(skipped.Load()),
		providerErrors: int(failures.Load()),
	}
	for batch := range batches {
		for _, item := range batch.Matches {
			cycle.fetched++
			// Merge against the zero value on first sight so a provider
			// payload repeating a bookmaker is deduped like any other clash.
			combined, mergeResult := match.Merge(cycle.merged[item.Key], item)
			cycle.merged[item.Key] = combined
			cycle.skippedQuotes += mergeResult.Skipped
		}
	}

	if cycle.providerErrors == len(tasks) {
		return fetchCycle{}, fmt.Errorf("%w: every provider fetch failed", ErrDependencyUnavailable)
	}
	return cycle, nil
}
