package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/match"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/prediction"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/ranking"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/infrastructure/repository/memory"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/platform/logging"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/providers"
)

func newSchedulerForTest(adapters ...providers.Adapter) *Scheduler {
	snapshots := memory.NewMatchRepository()
	results := memory.NewResultRepository()
	store := memory.NewPredictionRepository()

	ingestion := NewIngestionService(
		providers.NewRegistry(adapters...),
		snapshots,
		results,
		ranking.DefaultConfig(),
		[]string{match.SportFootball},
		IngestionConfig{WindowSteps: []int{7}, MinFixtures: 1, MaxWorkers: 1},
		logging.NewNop(),
	)
	predictions := NewPredictionService(
		snapshots,
		results,
		store,
		prediction.NewEngine(prediction.DefaultWeights(), prediction.DefaultConfidenceThresholds()),
		logging.NewNop(),
	)
	verification := NewVerificationService(results, store, logging.NewNop())

	return NewScheduler(ingestion, predictions, verification, SchedulerConfig{}, logging.NewNop())
}

func TestScheduler_RunSkipsWhileJobInFlight(t *testing.T) {
	t.Parallel()

	s := newSchedulerForTest()
	ctx := context.Background()

	s.computeRunning.Store(true)
	if _, ran, err := s.RunCompute(ctx); err != nil || ran {
		t.Fatalf("tick during an active run must be skipped: ran=%t err=%v", ran, err)
	}
	s.computeRunning.Store(false)

	if _, ran, err := s.RunCompute(ctx); err != nil || !ran {
		t.Fatalf("idle job must run: ran=%t err=%v", ran, err)
	}

	s.verifyRunning.Store(true)
	if _, ran, _ := s.RunVerify(ctx); ran {
		t.Fatalf("verify tick during an active run must be skipped")
	}
	s.verifyRunning.Store(false)

	if _, ran, err := s.RunVerify(ctx); err != nil || !ran {
		t.Fatalf("idle verify must run: ran=%t err=%v", ran, err)
	}
}

func TestScheduler_RunRefreshReleasesFlagAfterFailure(t *testing.T) {
	t.Parallel()

	broken := &stubAdapter{
		name:   "down",
		sports: []string{match.SportFootball},
		fetch: func(context.Context, providers.Window, string) (providers.Batch, error) {
			return providers.Batch{}, providers.ErrProviderUnavailable
		},
	}
	s := newSchedulerForTest(broken)
	ctx := context.Background()

	if _, ran, err := s.RunRefresh(ctx); !ran || err == nil {
		t.Fatalf("expected the run to execute and fail: ran=%t err=%v", ran, err)
	}

	// The running flag must be released even on failure.
	if _, ran, _ := s.RunRefresh(ctx); !ran {
		t.Fatalf("flag leaked after a failed run")
	}
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newSchedulerForTest()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx)

	done := make(chan struct{})
	go func() {
		s.Stop()
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Stop did not return")
	}
}
