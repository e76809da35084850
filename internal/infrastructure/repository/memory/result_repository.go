package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/match"
)

// ResultRepository accumulates completed fixtures across refresh cycles.
// Unlike the snapshot it is append-only, so history survives cycles where
// a provider no longer returns an old fixture.
type ResultRepository struct {
	mu    sync.RWMutex
	byKey map[string]match.Match
}

func NewResultRepository() *ResultRepository {
	return &ResultRepository{byKey: make(map[string]match.Match)}
}

func (r *ResultRepository) UpsertResults(_ context.Context, matches []match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range matches {
		if !item.Completed || item.HomeScore == nil || item.AwayScore == nil {
			continue
		}
		if strings.TrimSpace(item.Key) == "" {
			continue
		}
		r.byKey[item.Key] = item
	}

	return nil
}

func (r *ResultRepository) ListCompleted(_ context.Context, sport string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.byKey))
	for _, item := range r.byKey {
		if sport != "" && !strings.EqualFold(item.Sport, sport) {
			continue
		}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.After(out[j].KickoffAt)
		}
		return out[i].Key < out[j].Key
	})

	return out, nil
}
