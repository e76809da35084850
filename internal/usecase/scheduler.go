package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/platform/logging"
)

// SchedulerConfig sets the cadence of the three background jobs.
type SchedulerConfig struct {
	RefreshInterval time.Duration
	ComputeInterval time.Duration
	VerifyInterval  time.Duration
}

func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		RefreshInterval: 5 * time.Minute,
		ComputeInterval: 10 * time.Minute,
		VerifyInterval:  15 * time.Minute,
	}
}

func (c SchedulerConfig) normalized() SchedulerConfig {
	defaults := DefaultSchedulerConfig()
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = defaults.RefreshInterval
	}
	if c.ComputeInterval <= 0 {
		c.ComputeInterval = defaults.ComputeInterval
	}
	if c.VerifyInterval <= 0 {
		c.VerifyInterval = defaults.VerifyInterval
	}
	return c
}

// Scheduler drives the refresh, compute and verify cycles on fixed tickers.
// Each job holds a running flag; a tick that lands while the previous run
// is still going is skipped, never queued.
type Scheduler struct {
	ingestion    *IngestionService
	predictions  *PredictionService
	verification *VerificationService
	cfg          SchedulerConfig
	logger       *logging.Logger

	refreshRunning atomic.Bool
	computeRunning atomic.Bool
	verifyRunning  atomic.Bool

	workers conc.WaitGroup
	stop    chan struct{}
	stopped atomic.Bool
}

func NewScheduler(
	ingestion *IngestionService,
	predictions *PredictionService,
	verification *VerificationService,
	cfg SchedulerConfig,
	logger *logging.Logger,
) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Scheduler{
		ingestion:    ingestion,
		predictions:  predictions,
		verification: verification,
		cfg:          cfg.normalized(),
		logger:       logger,
		stop:         make(chan struct{}),
	}
}

// Start launches the three job loops. It returns immediately.
func (s *Scheduler) Start(ctx context.Context) {
	s.workers.Go(func() {
		s.runLoop(ctx, "refresh-odds", s.cfg.RefreshInterval, func(ctx context.Context) (bool, error) {
			_, ran, err := s.RunRefresh(ctx)
			return ran, err
		})
	})
	s.workers.Go(func() {
		s.runLoop(ctx, "compute-predictions", s.cfg.ComputeInterval, func(ctx context.Context) (bool, error) {
			_, ran, err := s.RunCompute(ctx)
			return ran, err
		})
	})
	s.workers.Go(func() {
		s.runLoop(ctx, "verify-results", s.cfg.VerifyInterval, func(ctx context.Context) (bool, error) {
			_, ran, err := s.RunVerify(ctx)
			return ran, err
		})
	})
}

// Stop halts the loops and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	if !s.stopped.CompareAndSwap(false, true) {
		return
	}
	close(s.stop)
	s.workers.Wait()
}

func (s *Scheduler) runLoop(ctx context.Context, name string, interval time.Duration, job func(context.Context) (bool, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// First run happens immediately so a fresh process has data to serve
	// before the first tick.
	if _, err := job(ctx); err != nil {
		s.logger.ErrorContext(ctx, "startup job failed", "job", name, "error", err)
	}

	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			ran, err := job(ctx)
			if err != nil {
				s.logger.ErrorContext(ctx, "scheduled job failed", "job", name, "error", err)
			} else if !ran {
				s.logger.DebugContext(ctx, "scheduled job skipped, previous run active", "job", name)
			}
		}
	}
}

// RunRefresh runs one ingestion cycle unless one is already in flight.
// ran=false means the tick was skipped because a run was active.
func (s *Scheduler) RunRefresh(ctx context.Context) (RefreshResult, bool, error) {
	if !s.refreshRunning.CompareAndSwap(false, true) {
		return RefreshResult{}, false, nil
	}
	defer s.refreshRunning.Store(false)

	result, err := s.ingestion.RefreshOdds(ctx)
	return result, true, err
}

// RunCompute runs one prediction cycle unless one is already in flight.
func (s *Scheduler) RunCompute(ctx context.Context) (ComputeResult, bool, error) {
	if !s.computeRunning.CompareAndSwap(false, true) {
		return ComputeResult{}, false, nil
	}
	defer s.computeRunning.Store(false)

	result, err := s.predictions.ComputePredictions(ctx)
	return result, true, err
}

// RunVerify runs one verification cycle unless one is already in flight.
func (s *Scheduler) RunVerify(ctx context.Context) (VerifyResult, bool, error) {
	if !s.verifyRunning.CompareAndSwap(false, true) {
		return VerifyResult{}, false, nil
	}
	defer s.verifyRunning.Store(false)

	result, err := s.verification.VerifyResults(ctx)
	return result, true, err
}
