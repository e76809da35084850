package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/match"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/prediction"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/ranking"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/infrastructure/repository/memory"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/platform/logging"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/providers"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/usecase"
)

const testJobToken = "job-secret"

// newRouterForTest wires the full router over in-memory repositories so
// handler tests exercise routing, validation and the response envelope
// end to end.
func newRouterForTest(t *testing.T) (http.Handler, *memory.MatchRepository, *memory.PredictionRepository) {
	t.Helper()

	snapshots := memory.NewMatchRepository()
	results := memory.NewResultRepository()
	store := memory.NewPredictionRepository()
	logger := logging.NewNop()

	ingestion := usecase.NewIngestionService(
		providers.NewRegistry(),
		snapshots,
		results,
		ranking.DefaultConfig(),
		[]string{match.SportFootball},
		usecase.IngestionConfig{WindowSteps: []int{7}, MinFixtures: 1, MaxWorkers: 1},
		logger,
	)
	predictions := usecase.NewPredictionService(
		snapshots,
		results,
		store,
		prediction.NewEngine(prediction.DefaultWeights(), prediction.DefaultConfidenceThresholds()),
		logger,
	)
	verification := usecase.NewVerificationService(results, store, logger)
	scheduler := usecase.NewScheduler(ingestion, predictions, verification, usecase.SchedulerConfig{}, logger)

	queries := usecase.NewMatchQueryService(snapshots, store, nil, 1.05, 2, logger)
	handler := NewHandler(queries, scheduler, logger)

	return NewRouter(handler, logger, []string{"*"}, testJobToken), snapshots, store
}

func seedSnapshot(t *testing.T, snapshots *memory.MatchRepository, matches ...match.Match) {
	t.Helper()
	if err := snapshots.ReplaceAll(context.Background(), matches); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
}

func upcomingMatch(key string) match.Match {
	return match.Match{
		Key:         key,
		Sport:       match.SportFootball,
		Competition: "Premier League",
		HomeTeam:    "Arsenal",
		AwayTeam:    "Chelsea",
		KickoffAt:   time.Now().Add(24 * time.Hour).UTC(),
		Tier:        ranking.TierTopDomestic,
		Quotes: []match.Quote{
			{Bookmaker: "bookie-a", Label: "Bookie A", Home: 2.00, Draw: 3.10, Away: 3.80},
		},
	}
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body
}

func TestHealthz(t *testing.T) {
	router, _, _ := newRouterForTest(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type %q", got)
	}
}

func TestListMatches_ReturnsFeaturedQuoteFirst(t *testing.T) {
	router, snapshots, _ := newRouterForTest(t)
	seedSnapshot(t, snapshots, upcomingMatch("football|arsenal|chelsea|202603141500"))

	req := httptest.NewRequest(http.MethodGet, "/v1/matches?sport=football&window=upcoming", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	data := body["data"].(map[string]any)
	pagination := data["pagination"].(map[string]any)
	if got := pagination["total"].(float64); got != 1 {
		t.Fatalf("expected total=1, got %v", got)
	}
	if hasMore, _ := pagination["hasMore"].(bool); hasMore {
		t.Fatalf("single page must not report more results")
	}
	matches := data["matches"].([]any)
	if len(matches) != 1 {
		t.Fatalf("expected one match, got %d", len(matches))
	}
	quotes := matches[0].(map[string]any)["quotes"].([]any)
	if len(quotes) != 2 {
		t.Fatalf("expected featured plus real quote, got %d", len(quotes))
	}
	featured := quotes[0].(map[string]any)
	if got, _ := featured["featured"].(bool); !got {
		t.Fatalf("first quote must be the featured one: %v", featured)
	}
	if got := featured["home"].(float64); got != 2.10 {
		t.Fatalf("expected featured home price 2.10, got %v", got)
	}
}

func TestListMatches_RejectsBadQuery(t *testing.T) {
	router, snapshots, _ := newRouterForTest(t)
	seedSnapshot(t, snapshots, upcomingMatch("football|arsenal|chelsea|202603141500"))

	cases := []struct {
		name   string
		target string
	}{
		{"non numeric limit", "/v1/matches?limit=abc"},
		{"limit above cap", "/v1/matches?limit=100"},
		{"unknown sport", "/v1/matches?sport=cricket"},
		{"unknown window", "/v1/matches?window=yesterday"},
		{"negative skip", "/v1/matches?skip=-1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
			}
			body := decodeEnvelope(t, rec)
			errorObj := body["error"].(map[string]any)
			if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
				t.Fatalf("expected INVALID_ARGUMENT, got %v", got)
			}
		})
	}
}

func TestGetMatch(t *testing.T) {
	router, snapshots, store := newRouterForTest(t)
	seeded := upcomingMatch("football|arsenal|chelsea|202603141500")
	seedSnapshot(t, snapshots, seeded)

	p := prediction.Prediction{
		MatchKey:        seeded.Key,
		HomeIQ:          61.25,
		DrawIQ:          22.50,
		AwayIQ:          41.00,
		Confidence:      prediction.ConfidenceHigh,
		PredictedWinner: "Arsenal",
		Verdict:         "Arsenal to win",
		CreatedAt:       time.Now().UTC(),
	}
	if _, err := store.Create(context.Background(), p); err != nil {
		t.Fatalf("seed prediction: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/matches/"+seeded.Key, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	data := body["data"].(map[string]any)
	if got, _ := data["key"].(string); got != seeded.Key {
		t.Fatalf("unexpected match key %v", data["key"])
	}
	pred, ok := data["prediction"].(map[string]any)
	if !ok {
		t.Fatalf("expected attached prediction, got %v", data["prediction"])
	}
	if got := pred["homeIq"].(float64); got != 61.25 {
		t.Fatalf("unexpected homeIq %v", got)
	}
}

func TestGetMatch_NotFound(t *testing.T) {
	router, snapshots, _ := newRouterForTest(t)
	seedSnapshot(t, snapshots, upcomingMatch("football|arsenal|chelsea|202603141500"))

	req := httptest.NewRequest(http.MethodGet, "/v1/matches/football|nobody|nowhere|202601010000", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	errorObj := body["error"].(map[string]any)
	if got, _ := errorObj["status"].(string); got != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %v", got)
	}
}
