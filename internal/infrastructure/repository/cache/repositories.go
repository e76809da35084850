package cache

import (
	"context"
	"time"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/match"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/prediction"
	basecache "github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/platform/cache"
)

const (
	matchKeyPrefix      = "matches:"
	predictionKeyPrefix = "prediction:"
)

// TTLs tunes how long each read window may serve a cached answer. Live
// fixtures churn, finished ones do not, so the windows age differently.
type TTLs struct {
	Live     time.Duration
	Upcoming time.Duration
	Results  time.Duration
	Match    time.Duration
}

func DefaultTTLs() TTLs {
	return TTLs{
		Live:     30 * time.Second,
		Upcoming: 2 * time.Minute,
		Results:  10 * time.Minute,
		Match:    time.Minute,
	}
}

func (t TTLs) forWindow(window match.Window) time.Duration {
	switch window {
	case match.WindowLive:
		return t.Live
	case match.WindowResults:
		return t.Results
	default:
		return t.Upcoming
	}
}

// MatchRepository is a read-through decorator over the fixture snapshot.
// Writes pass through and drop every cached read.
type MatchRepository struct {
	next  match.SnapshotRepository
	cache *basecache.Store
	ttls  TTLs
}

func NewMatchRepository(next match.SnapshotRepository, cache *basecache.Store, ttls TTLs) *MatchRepository {
	if ttls == (TTLs{}) {
		ttls = DefaultTTLs()
	}
	return &MatchRepository{next: next, cache: cache, ttls: ttls}
}

func (r *MatchRepository) ReplaceAll(ctx context.Context, matches []match.Match) error {
	if err := r.next.ReplaceAll(ctx, matches); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, matchKeyPrefix)
	r.cache.DeletePrefix(ctx, predictionKeyPrefix)
	return nil
}

func (r *MatchRepository) List(ctx context.Context, filter match.Filter) ([]match.Match, error) {
	key := matchKeyPrefix + "list:" + filter.Sport + ":" + string(filter.Window)
	v, err := r.cache.GetOrLoad(ctx, key, r.ttls.forWindow(filter.Window), func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return append([]match.Match(nil), items...), nil
}

func (r *MatchRepository) GetByKey(ctx context.Context, key string) (match.Match, bool, error) {
	cacheKey := matchKeyPrefix + "key:" + key
	v, err := r.cache.GetOrLoad(ctx, cacheKey, r.ttls.Match, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByKey(ctx, key)
		if err != nil {
			return nil, err
		}
		return cachedMatch{value: item, exists: exists}, nil
	})
	if err != nil {
		return match.Match{}, false, err
	}

	cached, _ := v.(cachedMatch)
	return cached.value, cached.exists, nil
}

func (r *MatchRepository) Count(ctx context.Context) (int, error) {
	return r.next.Count(ctx)
}

type cachedMatch struct {
	value  match.Match
	exists bool
}

// PredictionRepository caches reads of individual predictions. Created and
// verified rows are invalidated on write; the underlying store stays the
// single source of truth for the write-once rules.
type PredictionRepository struct {
	next  prediction.Repository
	cache *basecache.Store
	ttl   time.Duration
}

func NewPredictionRepository(next prediction.Repository, cache *basecache.Store, ttl time.Duration) *PredictionRepository {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &PredictionRepository{next: next, cache: cache, ttl: ttl}
}

func (r *PredictionRepository) Create(ctx context.Context, p prediction.Prediction) (bool, error) {
	created, err := r.next.Create(ctx, p)
	if err != nil {
		return false, err
	}
	if created {
		r.cache.Delete(ctx, predictionKeyPrefix+p.MatchKey)
	}
	return created, nil
}

func (r *PredictionRepository) GetByMatchKey(ctx context.Context, matchKey string) (prediction.Prediction, bool, error) {
	cacheKey := predictionKeyPrefix + matchKey
	v, err := r.cache.GetOrLoad(ctx, cacheKey, r.ttl, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByMatchKey(ctx, matchKey)
		if err != nil {
			return nil, err
		}
		return cachedPrediction{value: item, exists: exists}, nil
	})
	if err != nil {
		return prediction.Prediction{}, false, err
	}

	cached, _ := v.(cachedPrediction)
	return cached.value, cached.exists, nil
}

func (r *PredictionRepository) ListUnverified(ctx context.Context) ([]prediction.Prediction, error) {
	return r.next.ListUnverified(ctx)
}

func (r *PredictionRepository) Verify(ctx context.Context, matchKey string, v prediction.Verification) (bool, error) {
	applied, err := r.next.Verify(ctx, matchKey, v)
	if err != nil {
		return false, err
	}
	if applied {
		r.cache.Delete(ctx, predictionKeyPrefix+matchKey)
	}
	return applied, nil
}

type cachedPrediction struct {
	value  prediction.Prediction
	exists bool
}
