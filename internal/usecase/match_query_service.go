package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/match"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/odds"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/prediction"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/platform/logging"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/platform/resilience"
)

const (
	defaultListLimit = 20
	maxListLimit     = 50
)

// ListMatchesInput is the validated read query.
type ListMatchesInput struct {
	Sport  string
	Window string
	Limit  int
	Skip   int
}

// MatchView is one fixture prepared for the read path: quotes carry the
// featured quote first, and the prediction is attached when one exists.
type MatchView struct {
	Match      match.Match
	Prediction *prediction.Prediction
}

// ListMatchesOutput carries one page plus the total before paging.
type ListMatchesOutput struct {
	Matches []MatchView
	Total   int
	Limit   int
	Skip    int
}

// Refresher triggers an ingestion cycle; the query service uses it to
// bootstrap an empty store on first read.
type Refresher interface {
	RefreshOdds(ctx context.Context) (RefreshResult, error)
}

// MatchQueryService serves the read API from the snapshot and the
// prediction store.
type MatchQueryService struct {
	snapshots   match.SnapshotRepository
	predictions prediction.Repository
	refresher   Refresher
	markup      float64
	precision   int
	logger      *logging.Logger
	bootstrap   resilience.SingleFlight
	now         func() time.Time
}

func NewMatchQueryService(
	snapshots match.SnapshotRepository,
	predictions prediction.Repository,
	refresher Refresher,
	markup float64,
	precision int,
	logger *logging.Logger,
) *MatchQueryService {
	if logger == nil {
		logger = logging.Default()
	}
	if markup <= 1 {
		markup = odds.DefaultMarkup
	}
	if precision <= 0 {
		precision = odds.DefaultPrecision
	}
	return &MatchQueryService{
		snapshots:   snapshots,
		predictions: predictions,
		refresher:   refresher,
		markup:      markup,
		precision:   precision,
		logger:      logger,
		now:         time.Now,
	}
}

// ListMatches returns one sorted page of fixtures.
func (s *MatchQueryService) ListMatches(ctx context.Context, input ListMatchesInput) (ListMatchesOutput, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ListMatches")
	defer span.End()

	sport := strings.ToLower(strings.TrimSpace(input.Sport))
	if sport != "" && !validSport(sport) {
		return ListMatchesOutput{}, fmt.Errorf("%w: unknown sport %q", ErrInvalidInput, input.Sport)
	}
	window, ok := match.ParseWindow(strings.ToLower(strings.TrimSpace(input.Window)))
	if !ok {
		return ListMatchesOutput{}, fmt.Errorf("%w: unknown window %q", ErrInvalidInput, input.Window)
	}
	if input.Skip < 0 {
		return ListMatchesOutput{}, fmt.Errorf("%w: skip must not be negative", ErrInvalidInput)
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	if err := s.bootstrapIfEmpty(ctx); err != nil {
		return ListMatchesOutput{}, err
	}

	now := s.now().UTC()
	matches, err := s.snapshots.List(ctx, match.Filter{Sport: sport, Window: window, Now: now})
	if err != nil {
		return ListMatchesOutput{}, fmt.Errorf("list matches: %w", err)
	}

	out := ListMatchesOutput{Total: len(matches), Limit: limit, Skip: input.Skip}
	if input.Skip >= len(matches) {
		out.Matches = []MatchView{}
		return out, nil
	}

	end := min(input.Skip+limit, len(matches))
	page := matches[input.Skip:end]
	out.Matches = make([]MatchView, 0, len(page))
	for _, item := range page {
		view, err := s.buildView(ctx, item)
		if err != nil {
			return ListMatchesOutput{}, err
		}
		out.Matches = append(out.Matches, view)
	}

	return out, nil
}

// GetMatch returns a single fixture by key.
func (s *MatchQueryService) GetMatch(ctx context.Context, key string) (MatchView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GetMatch")
	defer span.End()

	key = strings.TrimSpace(key)
	if key == "" {
		return MatchView{}, fmt.Errorf("%w: match key is required", ErrInvalidInput)
	}

	item, found, err := s.snapshots.GetByKey(ctx, key)
	if err != nil {
		return MatchView{}, fmt.Errorf("get match: %w", err)
	}
	if !found {
		return MatchView{}, fmt.Errorf("%w: match %q", ErrNotFound, key)
	}

	return s.buildView(ctx, item)
}

func (s *MatchQueryService) buildView(ctx context.Context, item match.Match) (MatchView, error) {
	item.Quotes = odds.WithFeatured(item, s.markup, s.precision)

	view := MatchView{Match: item}
	p, found, err := s.predictions.GetByMatchKey(ctx, item.Key)
	if err != nil {
		return MatchView{}, fmt.Errorf("get prediction for %s: %w", item.Key, err)
	}
	if found {
		view.Prediction = &p
	}
	return view, nil
}

// bootstrapIfEmpty runs one ingestion cycle when the snapshot has never
// been filled. Concurrent first reads collapse onto a single refresh.
func (s *MatchQueryService) bootstrapIfEmpty(ctx context.Context) error {
	if s.refresher == nil {
		return nil
	}
	count, err := s.snapshots.Count(ctx)
	if err != nil {
		return fmt.Errorf("count matches: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err, _ = s.bootstrap.Do("bootstrap", func() (any, error) {
		s.logger.InfoContext(ctx, "bootstrapping empty match store")
		return s.refresher.RefreshOdds(ctx)
	})
	return err
}

func validSport(sport string) bool {
	switch sport {
	case match.SportFootball, match.SportBasketball, match.SportTennis, match.SportHockey:
		return true
	default:
		return false
	}
}
