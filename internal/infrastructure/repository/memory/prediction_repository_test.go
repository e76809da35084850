package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/match"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/prediction"
)

func TestPredictionRepository_CreateIsWriteOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewPredictionRepository()

	first := prediction.Prediction{MatchKey: "k", HomeIQ: 61.5, PredictedWinner: match.OutcomeHome}
	created, err := repo.Create(ctx, first)
	if err != nil || !created {
		t.Fatalf("first create should succeed: created=%t err=%v", created, err)
	}

	second := prediction.Prediction{MatchKey: "k", HomeIQ: 99, PredictedWinner: match.OutcomeAway}
	created, err = repo.Create(ctx, second)
	if err != nil {
		t.Fatalf("second create error: %v", err)
	}
	if created {
		t.Fatalf("second create for the same key must be a no-op")
	}

	stored, ok, _ := repo.GetByMatchKey(ctx, "k")
	if !ok || stored.HomeIQ != 61.5 {
		t.Fatalf("stored prediction must be the first write: %+v", stored)
	}

	if created, _ := repo.Create(ctx, prediction.Prediction{}); created {
		t.Fatalf("empty match key must not be stored")
	}
}

func TestPredictionRepository_ConcurrentCreateSingleWinner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewPredictionRepository()

	const writers = 16
	var wins atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(score float64) {
			defer wg.Done()
			<-start
			created, err := repo.Create(ctx, prediction.Prediction{MatchKey: "same", HomeIQ: score})
			if err != nil {
				t.Errorf("create error: %v", err)
				return
			}
			if created {
				wins.Add(1)
			}
		}(float64(i))
	}

	close(start)
	wg.Wait()

	if got := wins.Load(); got != 1 {
		t.Fatalf("exactly one concurrent create must win, got %d", got)
	}
}

func TestPredictionRepository_VerifyOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewPredictionRepository()
	verifiedAt := time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC)

	if _, err := repo.Create(ctx, prediction.Prediction{MatchKey: "k", PredictedWinner: match.OutcomeHome}); err != nil {
		t.Fatalf("create error: %v", err)
	}

	applied, err := repo.Verify(ctx, "k", prediction.Verification{
		Correct:      true,
		ActualWinner: match.OutcomeHome,
		VerifiedAt:   verifiedAt,
	})
	if err != nil || !applied {
		t.Fatalf("first verify should apply: applied=%t err=%v", applied, err)
	}

	stored, _, _ := repo.GetByMatchKey(ctx, "k")
	if stored.Correct == nil || !*stored.Correct || stored.ActualWinner != match.OutcomeHome {
		t.Fatalf("verification fields not set: %+v", stored)
	}
	if stored.VerifiedAt == nil || !stored.VerifiedAt.Equal(verifiedAt) {
		t.Fatalf("verified timestamp not set: %+v", stored.VerifiedAt)
	}

	applied, err = repo.Verify(ctx, "k", prediction.Verification{
		Correct:      false,
		ActualWinner: match.OutcomeAway,
		VerifiedAt:   verifiedAt.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("second verify error: %v", err)
	}
	if applied {
		t.Fatalf("second verify must be a no-op")
	}
	stored, _, _ = repo.GetByMatchKey(ctx, "k")
	if !*stored.Correct || stored.ActualWinner != match.OutcomeHome {
		t.Fatalf("second verify must not overwrite: %+v", stored)
	}

	if applied, _ := repo.Verify(ctx, "missing", prediction.Verification{}); applied {
		t.Fatalf("verify on a missing key must be a no-op")
	}
}

func TestPredictionRepository_ListUnverified(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewPredictionRepository()

	for _, key := range []string{"b", "a", "c"} {
		if _, err := repo.Create(ctx, prediction.Prediction{MatchKey: key}); err != nil {
			t.Fatalf("create %s error: %v", key, err)
		}
	}
	if _, err := repo.Verify(ctx, "b", prediction.Verification{VerifiedAt: time.Now()}); err != nil {
		t.Fatalf("verify error: %v", err)
	}

	unverified, err := repo.ListUnverified(ctx)
	if err != nil {
		t.Fatalf("ListUnverified error: %v", err)
	}
	if len(unverified) != 2 || unverified[0].MatchKey != "a" || unverified[1].MatchKey != "c" {
		t.Fatalf("unexpected unverified set: %+v", unverified)
	}
}
