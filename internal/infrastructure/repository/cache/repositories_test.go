package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/match"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/prediction"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/infrastructure/repository/memory"
	basecache "github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/platform/cache"
)

func upcomingFixture(key string) match.Match {
	return match.Match{
		Key:       key,
		Sport:     match.SportFootball,
		HomeTeam:  "Arsenal",
		AwayTeam:  "Chelsea",
		KickoffAt: time.Now().Add(24 * time.Hour).UTC(),
	}
}

func TestMatchRepository_ListServesCachedSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := memory.NewMatchRepository()
	repo := NewMatchRepository(next, basecache.NewStore(time.Minute), DefaultTTLs())

	require.NoError(t, repo.ReplaceAll(ctx, []match.Match{upcomingFixture("m-1")}))

	first, err := repo.List(ctx, match.Filter{Window: match.WindowUpcoming, Now: time.Now().UTC()})
	require.NoError(t, err)
	require.Len(t, first, 1)

	// A write that bypasses the decorator is invisible until invalidation.
	require.NoError(t, next.ReplaceAll(ctx, []match.Match{upcomingFixture("m-1"), upcomingFixture("m-2")}))

	cached, err := repo.List(ctx, match.Filter{Window: match.WindowUpcoming, Now: time.Now().UTC()})
	require.NoError(t, err)
	require.Len(t, cached, 1)

	require.NoError(t, repo.ReplaceAll(ctx, []match.Match{upcomingFixture("m-1"), upcomingFixture("m-2")}))

	fresh, err := repo.List(ctx, match.Filter{Window: match.WindowUpcoming, Now: time.Now().UTC()})
	require.NoError(t, err)
	require.Len(t, fresh, 2)
}

func TestMatchRepository_GetByKeyCachesMisses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := memory.NewMatchRepository()
	repo := NewMatchRepository(next, basecache.NewStore(time.Minute), DefaultTTLs())

	_, found, err := repo.GetByKey(ctx, "m-1")
	require.NoError(t, err)
	require.False(t, found)

	// The miss stays cached until the next snapshot swap.
	require.NoError(t, next.ReplaceAll(ctx, []match.Match{upcomingFixture("m-1")}))
	_, found, err = repo.GetByKey(ctx, "m-1")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, repo.ReplaceAll(ctx, []match.Match{upcomingFixture("m-1")}))
	item, found, err := repo.GetByKey(ctx, "m-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "m-1", item.Key)
}

func TestPredictionRepository_WritesInvalidate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := memory.NewPredictionRepository()
	repo := NewPredictionRepository(next, basecache.NewStore(time.Minute), time.Minute)

	_, found, err := repo.GetByMatchKey(ctx, "m-1")
	require.NoError(t, err)
	require.False(t, found)

	created, err := repo.Create(ctx, prediction.Prediction{MatchKey: "m-1", PredictedWinner: "Arsenal", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	require.True(t, created)

	stored, found, err := repo.GetByMatchKey(ctx, "m-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Arsenal", stored.PredictedWinner)
	require.Nil(t, stored.VerifiedAt)

	applied, err := repo.Verify(ctx, "m-1", prediction.Verification{
		Correct:      true,
		ActualWinner: "Arsenal",
		VerifiedAt:   time.Now().UTC(),
	})
	require.NoError(t, err)
	require.True(t, applied)

	verified, found, err := repo.GetByMatchKey(ctx, "m-1")
	require.NoError(t, err)
	require.True(t, found)
	require.NotNil(t, verified.VerifiedAt)
	require.NotNil(t, verified.Correct)
	require.True(t, *verified.Correct)
}
