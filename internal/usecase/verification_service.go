package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/match"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/prediction"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/platform/logging"
)

// VerifyResult summarizes one verification cycle.
type VerifyResult struct {
	Unverified int `json:"unverified"`
	Verified   int `json:"verified"`
	Correct    int `json:"correct"`
	Pending    int `json:"pending"`
}

// VerificationService settles predictions against final results. Each
// prediction is patched exactly once; a prediction whose fixture has no
// final score yet stays pending for the next cycle.
type VerificationService struct {
	results     match.ResultRepository
	predictions prediction.Repository
	logger      *logging.Logger
	now         func() time.Time
}

func NewVerificationService(
	results match.ResultRepository,
	predictions prediction.Repository,
	logger *logging.Logger,
) *VerificationService {
	if logger == nil {
		logger = logging.Default()
	}
	return &VerificationService{
		results:     results,
		predictions: predictions,
		logger:      logger,
		now:         time.Now,
	}
}

// VerifyResults patches every unverified prediction whose fixture finished.
func (s *VerificationService) VerifyResults(ctx context.Context) (VerifyResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.VerifyResults")
	defer span.End()

	unverified, err := s.predictions.ListUnverified(ctx)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("list unverified predictions: %w", err)
	}

	result := VerifyResult{Unverified: len(unverified)}
	if len(unverified) == 0 {
		return result, nil
	}

	completed, err := s.results.ListCompleted(ctx, "")
	if err != nil {
		return VerifyResult{}, fmt.Errorf("list completed matches: %w", err)
	}
	byKey := make(map[string]match.Match, len(completed))
	for _, item := range completed {
		byKey[item.Key] = item
	}

	now := s.now().UTC()
	for _, p := range unverified {
		final, ok := byKey[p.MatchKey]
		if !ok {
			result.Pending++
			continue
		}

		actual := final.Winner()
		if actual == "" {
			result.Pending++
			continue
		}

		correct := strings.EqualFold(p.PredictedWinner, actual)
		applied, err := s.predictions.Verify(ctx, p.MatchKey, prediction.Verification{
			Correct:      correct,
			ActualWinner: actual,
			VerifiedAt:   now,
		})
		if err != nil {
			return VerifyResult{}, fmt.Errorf("verify prediction %s: %w", p.MatchKey, err)
		}
		if !applied {
			continue
		}
		result.Verified++
		if correct {
			result.Correct++
		}
	}

	s.logger.InfoContext(ctx, "verification cycle complete",
		"unverified", result.Unverified,
		"verified", result.Verified,
		"correct", result.Correct,
		"pending", result.Pending)

	return result, nil
}
