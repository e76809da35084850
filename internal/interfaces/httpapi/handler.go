package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/match"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/prediction"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/platform/logging"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/usecase"
)

type Handler struct {
	matchQueryService *usecase.MatchQueryService
	scheduler         *usecase.Scheduler
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	matchQueryService *usecase.MatchQueryService,
	scheduler *usecase.Scheduler,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchQueryService: matchQueryService,
		scheduler:         scheduler,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

type quoteDTO struct {
	Bookmaker string  `json:"bookmaker"`
	Label     string  `json:"label"`
	Featured  bool    `json:"featured,omitempty"`
	Home      float64 `json:"home,omitempty"`
	Draw      float64 `json:"draw,omitempty"`
	Away      float64 `json:"away,omitempty"`
}

type predictionDTO struct {
	HomeIQ          float64                          `json:"homeIq"`
	DrawIQ          float64                          `json:"drawIq"`
	AwayIQ          float64                          `json:"awayIq"`
	Components      map[string]prediction.Components `json:"components"`
	Confidence      string                           `json:"confidence"`
	PredictedWinner string                           `json:"predictedWinner"`
	Verdict         string                           `json:"verdict"`
	CreatedAt       string                           `json:"createdAt"`
	Correct         *bool                            `json:"correct,omitempty"`
	ActualWinner    string                           `json:"actualWinner,omitempty"`
	VerifiedAt      string                           `json:"verifiedAt,omitempty"`
}

type matchDTO struct {
	Key         string         `json:"key"`
	Sport       string         `json:"sport"`
	Competition string         `json:"competition"`
	HomeTeam    string         `json:"homeTeam"`
	AwayTeam    string         `json:"awayTeam"`
	KickoffAt   string         `json:"kickoffAt"`
	Completed   bool           `json:"completed"`
	HomeScore   *int           `json:"homeScore,omitempty"`
	AwayScore   *int           `json:"awayScore,omitempty"`
	Tier        int            `json:"tier"`
	TimeBucket  int            `json:"timeBucket"`
	Quotes      []quoteDTO     `json:"quotes"`
	Prediction  *predictionDTO `json:"prediction,omitempty"`
}

type paginationDTO struct {
	Total    int  `json:"total"`
	Limit    int  `json:"limit"`
	HasMore  bool `json:"hasMore"`
	NextSkip int  `json:"nextSkip"`
}

type matchListDTO struct {
	Matches    []matchDTO    `json:"matches"`
	Pagination paginationDTO `json:"pagination"`
}

func matchViewToDTO(view usecase.MatchView) matchDTO {
	dto := matchDTO{
		Key:         view.Match.Key,
		Sport:       view.Match.Sport,
		Competition: view.Match.Competition,
		HomeTeam:    view.Match.HomeTeam,
		AwayTeam:    view.Match.AwayTeam,
		KickoffAt:   view.Match.KickoffAt.UTC().Format(time.RFC3339),
		Completed:   view.Match.Completed,
		HomeScore:   view.Match.HomeScore,
		AwayScore:   view.Match.AwayScore,
		Tier:        view.Match.Tier,
		TimeBucket:  view.Match.TimeBucket,
		Quotes:      quotesToDTO(view.Match.Quotes),
	}
	if view.Prediction != nil {
		dto.Prediction = predictionToDTO(*view.Prediction)
	}
	return dto
}

func quotesToDTO(quotes []match.Quote) []quoteDTO {
	out := make([]quoteDTO, 0, len(quotes))
	for _, quote := range quotes {
		out = append(out, quoteDTO{
			Bookmaker: quote.Bookmaker,
			Label:     quote.Label,
			Featured:  quote.Featured,
			Home:      quote.Home,
			Draw:      quote.Draw,
			Away:      quote.Away,
		})
	}
	return out
}

func predictionToDTO(p prediction.Prediction) *predictionDTO {
	dto := &predictionDTO{
		HomeIQ:          p.HomeIQ,
		DrawIQ:          p.DrawIQ,
		AwayIQ:          p.AwayIQ,
		Components:      p.Components,
		Confidence:      p.Confidence,
		PredictedWinner: p.PredictedWinner,
		Verdict:         p.Verdict,
		CreatedAt:       p.CreatedAt.UTC().Format(time.RFC3339),
		Correct:         p.Correct,
		ActualWinner:    p.ActualWinner,
	}
	if p.VerifiedAt != nil {
		dto.VerifiedAt = p.VerifiedAt.UTC().Format(time.RFC3339)
	}
	return dto
}
