package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/match"
)

// MatchRepository holds the live fixture snapshot. ReplaceAll swaps the
// whole slice under the lock so readers never observe a partial cycle.
type MatchRepository struct {
	mu      sync.RWMutex
	matches []match.Match
	byKey   map[string]int
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{byKey: make(map[string]int)}
}

func (r *MatchRepository) ReplaceAll(_ context.Context, matches []match.Match) error {
	snapshot := make([]match.Match, len(matches))
	copy(snapshot, matches)

	byKey := make(map[string]int, len(snapshot))
	for idx, item := range snapshot {
		byKey[item.Key] = idx
	}

	r.mu.Lock()
	r.matches = snapshot
	r.byKey = byKey
	r.mu.Unlock()

	return nil
}

func (r *MatchRepository) List(_ context.Context, filter match.Filter) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.matches))
	for _, item := range r.matches {
		if filter.Sport != "" && !strings.EqualFold(item.Sport, filter.Sport) {
			continue
		}
		if !match.InWindow(item, filter.Window, filter.Now) {
			continue
		}
		out = append(out, item)
	}

	return out, nil
}

func (r *MatchRepository) GetByKey(_ context.Context, key string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byKey[key]
	if !ok {
		return match.Match{}, false, nil
	}
	return r.matches[idx], true, nil
}

func (r *MatchRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matches), nil
}
