package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/history"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/match"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/prediction"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/platform/logging"
)

// ComputeResult summarizes one prediction cycle.
type ComputeResult struct {
	Evaluated int `json:"evaluated"`
	Created   int `json:"created"`
	Existing  int `json:"existing"`
	Started   int `json:"started"`
}

// PredictionService computes pre-kickoff predictions for upcoming fixtures.
// A fixture gets at most one prediction ever; kickoff is re-checked right
// before the write so a fixture that started mid-cycle is never scored.
type PredictionService struct {
	snapshots   match.SnapshotRepository
	results     match.ResultRepository
	predictions prediction.Repository
	engine      *prediction.Engine
	logger      *logging.Logger
	now         func() time.Time
}

func NewPredictionService(
	snapshots match.SnapshotRepository,
	results match.ResultRepository,
	predictions prediction.Repository,
	engine *prediction.Engine,
	logger *logging.Logger,
) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PredictionService{
		snapshots:   snapshots,
		results:     results,
		predictions: predictions,
		engine:      engine,
		logger:      logger,
		now:         time.Now,
	}
}

// ComputePredictions scores every upcoming fixture that has no prediction
// yet. Existing predictions are never recomputed or overwritten.
func (s *PredictionService) ComputePredictions(ctx context.Context) (ComputeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ComputePredictions")
	defer span.End()

	now := s.now().UTC()
	upcoming, err := s.snapshots.List(ctx, match.Filter{Window: match.WindowUpcoming, Now: now})
	if err != nil {
		return ComputeResult{}, fmt.Errorf("list upcoming matches: %w", err)
	}

	completed, err := s.results.ListCompleted(ctx, "")
	if err != nil {
		return ComputeResult{}, fmt.Errorf("list completed matches: %w", err)
	}
	book := history.Build(completed)

	result := ComputeResult{}
	for _, item := range upcoming {
		result.Evaluated++

		if _, exists, err := s.predictions.GetByMatchKey(ctx, item.Key); err != nil {
			return ComputeResult{}, fmt.Errorf("check existing prediction: %w", err)
		} else if exists {
			result.Existing++
			continue
		}

		// Kickoff may have passed while the cycle was running.
		if !item.KickoffAt.After(s.now().UTC()) {
			result.Started++
			s.logger.WarnContext(ctx, "refusing to score a started fixture",
				"match_key", item.Key,
				"kickoff_at", item.KickoffAt,
				"error", ErrPredictionIntegrity)
			continue
		}

		p := s.engine.Compute(item, book, s.now().UTC())

		created, err := s.predictions.Create(ctx, p)
		if err != nil {
			return ComputeResult{}, fmt.Errorf("create prediction for %s: %w", item.Key, err)
		}
		if created {
			result.Created++
		} else {
			result.Existing++
		}
	}

	s.logger.InfoContext(ctx, "prediction cycle complete",
		"evaluated", result.Evaluated,
		"created", result.Created,
		"existing", result.Existing,
		"started", result.Started)

	return result, nil
}

// GetByMatchKey returns the stored prediction for a fixture.
func (s *PredictionService) GetByMatchKey(ctx context.Context, matchKey string) (prediction.Prediction, bool, error) {
	return s.predictions.GetByMatchKey(ctx, matchKey)
}
