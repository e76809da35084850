package prediction

import (
	"math"
	"testing"
	"time"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/history"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/match"
)

func completedMatch(home, away string, homeScore, awayScore int, kickoff time.Time) match.Match {
	return match.Match{
		Key:       match.BuildKey(match.SportFootball, home, away, kickoff),
		Sport:     match.SportFootball,
		HomeTeam:  home,
		AwayTeam:  away,
		KickoffAt: kickoff,
		Completed: true,
		HomeScore: &homeScore,
		AwayScore: &awayScore,
	}
}

func TestWeightsValidate(t *testing.T) {
	t.Parallel()

	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("default weights must validate: %v", err)
	}
	bad := Weights{Odds: 0.5, Volume: 0.6}
	if err := bad.Validate(); err == nil {
		t.Fatalf("weights summing to 1.1 must fail validation")
	}
}

func TestCompute_NeutralWithoutAnySignal(t *testing.T) {
	t.Parallel()

	engine := NewEngine(DefaultWeights(), DefaultConfidenceThresholds())
	m := match.Match{
		Key:      "k",
		Sport:    match.SportFootball,
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
	}

	p := engine.Compute(m, history.Build(nil), time.Now())

	for outcome, parts := range p.Components {
		for name, value := range map[string]float64{
			"odds":         parts.Odds,
			"volume":       parts.Volume,
			"movement":     parts.Movement,
			"team_stats":   parts.TeamStats,
			"momentum":     parts.Momentum,
			"head_to_head": parts.HeadToHead,
		} {
			if value != 50 {
				t.Fatalf("%s/%s component=%v, want neutral 50", outcome, name, value)
			}
		}
	}
	if p.HomeIQ != 50 || p.DrawIQ != 50 || p.AwayIQ != 50 {
		t.Fatalf("neutral scores expected, got %v/%v/%v", p.HomeIQ, p.DrawIQ, p.AwayIQ)
	}
	if p.PredictedWinner != match.OutcomeHome {
		t.Fatalf("ties must break home first, got %q", p.PredictedWinner)
	}
	if p.Confidence != ConfidenceLow {
		t.Fatalf("zero margin must be low confidence, got %q", p.Confidence)
	}
	if p.Verdict != "Arsenal to win" {
		t.Fatalf("unexpected verdict: %q", p.Verdict)
	}
}

func TestCompute_ScoresRecombineFromComponents(t *testing.T) {
	t.Parallel()

	weights := DefaultWeights()
	engine := NewEngine(weights, DefaultConfidenceThresholds())

	base := time.Date(2026, 1, 1, 15, 0, 0, 0, time.UTC)
	book := history.Build([]match.Match{
		completedMatch("Arsenal", "Chelsea", 2, 0, base),
		completedMatch("Arsenal", "Spurs", 3, 1, base.AddDate(0, 0, 7)),
		completedMatch("Everton", "Chelsea", 2, 2, base.AddDate(0, 0, 7)),
	})

	m := match.Match{
		Key:      "k",
		Sport:    match.SportFootball,
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
		Quotes: []match.Quote{
			{Bookmaker: "a", Home: 1.70, Draw: 3.60, Away: 5.00},
			{Bookmaker: "b", Home: 1.75, Draw: 3.50, Away: 4.80},
			{Bookmaker: "c", Home: 1.72, Draw: 3.55, Away: 5.20},
		},
	}

	p := engine.Compute(m, book, base.AddDate(0, 0, 14))

	for _, outcome := range match.Outcomes(m.Sport) {
		parts := p.Components[outcome]
		recombined := math.Round((weights.Odds*parts.Odds+
			weights.Volume*parts.Volume+
			weights.Movement*parts.Movement+
			weights.TeamStats*parts.TeamStats+
			weights.Momentum*parts.Momentum+
			weights.HeadToHead*parts.HeadToHead)*100) / 100
		if got := p.Score(outcome); got != recombined {
			t.Fatalf("%s: stored score %v does not recombine from components (%v)", outcome, got, recombined)
		}
	}

	if p.PredictedWinner != match.OutcomeHome {
		t.Fatalf("heavy home favorite with strong form should be predicted, got %q", p.PredictedWinner)
	}
	if p.HomeIQ <= p.AwayIQ {
		t.Fatalf("home score should beat away: %v vs %v", p.HomeIQ, p.AwayIQ)
	}
}

func TestCompute_TwoOutcomeSport(t *testing.T) {
	t.Parallel()

	engine := NewEngine(DefaultWeights(), DefaultConfidenceThresholds())
	m := match.Match{
		Key:      "k",
		Sport:    match.SportTennis,
		HomeTeam: "Alcaraz",
		AwayTeam: "Sinner",
		Quotes:   []match.Quote{{Bookmaker: "a", Home: 1.50, Away: 2.60}},
	}

	p := engine.Compute(m, history.Build(nil), time.Now())
	if len(p.Components) != 2 {
		t.Fatalf("tennis scores two outcomes, got %d", len(p.Components))
	}
	if _, ok := p.Components[match.OutcomeDraw]; ok {
		t.Fatalf("tennis must not carry a draw component")
	}
	if p.DrawIQ != 0 {
		t.Fatalf("draw IQ must stay zero for tennis, got %v", p.DrawIQ)
	}
	if p.PredictedWinner != match.OutcomeHome {
		t.Fatalf("shorter price should win, got %q", p.PredictedWinner)
	}
}

func TestMomentumRaw_CapAndStreaks(t *testing.T) {
	t.Parallel()

	// Most recent first, as Recent returns them. Ten streaked away wins
	// score 10*5 + 9*2 = 68, the strongest reachable run.
	awayWins := make([]history.Result, 10)
	for i := range awayWins {
		awayWins[i] = history.Result{Outcome: 'W', Home: false}
	}
	got := momentumRaw(awayWins)
	if got != 68 {
		t.Fatalf("ten streaked away wins scored %v, want 68", got)
	}
	if got > momentumRawCap {
		t.Fatalf("raw momentum exceeded the cap: %v", got)
	}

	// W D W played in that order: 3 + (2+2+1) + (3+2) = 13.
	mixed := []history.Result{
		{Outcome: 'W', Home: true},
		{Outcome: 'D'},
		{Outcome: 'W', Home: true},
	}
	if got := momentumRaw(mixed); got != 13 {
		t.Fatalf("mixed run scored %v, want 13", got)
	}

	// A loss resets the streak bonus.
	withLoss := []history.Result{
		{Outcome: 'W', Home: true},
		{Outcome: 'L'},
		{Outcome: 'W', Home: true},
	}
	if got := momentumRaw(withLoss); got != 6 {
		t.Fatalf("loss should reset streak, got %v, want 6", got)
	}

	if got := momentumRaw(nil); got != momentumRawCap/2 {
		t.Fatalf("no history should score the midpoint, got %v", got)
	}
}

func TestConfidenceThresholds(t *testing.T) {
	t.Parallel()

	engine := NewEngine(DefaultWeights(), DefaultConfidenceThresholds())
	tests := []struct {
		margin float64
		want   string
	}{
		{15, ConfidenceHigh},
		{12, ConfidenceHigh},
		{11.99, ConfidenceMedium},
		{5, ConfidenceMedium},
		{4.99, ConfidenceLow},
		{0, ConfidenceLow},
	}
	for _, tt := range tests {
		if got := engine.confidence(tt.margin); got != tt.want {
			t.Fatalf("confidence(%v)=%q, want %q", tt.margin, got, tt.want)
		}
	}
}

func TestHeadToHead_BlendFavorsDominantSide(t *testing.T) {
	t.Parallel()

	engine := NewEngine(DefaultWeights(), DefaultConfidenceThresholds())
	base := time.Date(2025, 1, 1, 15, 0, 0, 0, time.UTC)

	fixtures := make([]match.Match, 0, 6)
	for i := 0; i < 6; i++ {
		fixtures = append(fixtures, completedMatch("Arsenal", "Chelsea", 2, 0, base.AddDate(0, 0, i*30)))
	}
	book := history.Build(fixtures)

	m := match.Match{Sport: match.SportFootball, HomeTeam: "Arsenal", AwayTeam: "Chelsea"}
	home := engine.headToHeadComponent(m, match.OutcomeHome, book)
	away := engine.headToHeadComponent(m, match.OutcomeAway, book)

	if home != 100 {
		t.Fatalf("a clean sweep should score 100, got %v", home)
	}
	if away != 0 {
		t.Fatalf("the swept side should score 0, got %v", away)
	}
}
