package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/prediction"
)

// PredictionRepository is the in-memory write-once prediction store.
// Create keeps the first write per match key; Verify patches the
// verification fields exactly once and leaves the scores untouched.
type PredictionRepository struct {
	mu    sync.Mutex
	byKey map[string]prediction.Prediction
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{byKey: make(map[string]prediction.Prediction)}
}

func (r *PredictionRepository) Create(_ context.Context, p prediction.Prediction) (bool, error) {
	key := strings.TrimSpace(p.MatchKey)
	if key == "" {
		return false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byKey[key]; exists {
		return false, nil
	}
	r.byKey[key] = p
	return true, nil
}

func (r *PredictionRepository) GetByMatchKey(_ context.Context, matchKey string) (prediction.Prediction, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byKey[strings.TrimSpace(matchKey)]
	return p, ok, nil
}

func (r *PredictionRepository) ListUnverified(_ context.Context) ([]prediction.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]prediction.Prediction, 0, len(r.byKey))
	for _, p := range r.byKey {
		if p.Verified() {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].MatchKey < out[j].MatchKey })
	return out, nil
}

func (r *PredictionRepository) Verify(_ context.Context, matchKey string, v prediction.Verification) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.TrimSpace(matchKey)
	p, ok := r.byKey[key]
	if !ok || p.Verified() {
		return false, nil
	}

	correct := v.Correct
	verifiedAt := v.VerifiedAt
	p.Correct = &correct
	p.ActualWinner = v.ActualWinner
	p.VerifiedAt = &verifiedAt
	r.byKey[key] = p

	return true, nil
}
