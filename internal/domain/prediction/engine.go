package prediction

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/history"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/match"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/odds"
)

const (
	neutralScore = 50.0

	// Raw momentum ceiling: ten away wins on an unbroken streak score
	// 5 + 9*(5+2) = 68, so 70 bounds every reachable sequence.
	momentumRawCap = 70.0

	h2hMeetingLimit = 20
	h2hRecentLimit  = 5
	momentumLimit   = 10
	formLimit       = 5
)

// Weights distributes the six components into the final score. Values are
// fractions that must sum to 1.
type Weights struct {
	Odds       float64
	Volume     float64
	Movement   float64
	TeamStats  float64
	Momentum   float64
	HeadToHead float64
}

func DefaultWeights() Weights {
	return Weights{
		Odds:       0.20,
		Volume:     0.20,
		Movement:   0.20,
		TeamStats:  0.20,
		Momentum:   0.10,
		HeadToHead: 0.10,
	}
}

func (w Weights) Sum() float64 {
	return w.Odds + w.Volume + w.Movement + w.TeamStats + w.Momentum + w.HeadToHead
}

func (w Weights) Validate() error {
	if math.Abs(w.Sum()-1) > 1e-6 {
		return fmt.Errorf("component weights must sum to 1.0, got %.6f", w.Sum())
	}
	return nil
}

// ConfidenceThresholds buckets the winning score's margin over the
// runner-up. The numbers are product configuration, not inferred truth.
type ConfidenceThresholds struct {
	High   float64
	Medium float64
}

func DefaultConfidenceThresholds() ConfidenceThresholds {
	return ConfidenceThresholds{High: 12, Medium: 5}
}

type Engine struct {
	weights    Weights
	thresholds ConfidenceThresholds
}

func NewEngine(weights Weights, thresholds ConfidenceThresholds) *Engine {
	if weights.Sum() == 0 {
		weights = DefaultWeights()
	}
	if thresholds.High <= 0 {
		thresholds = DefaultConfidenceThresholds()
	}
	return &Engine{weights: weights, thresholds: thresholds}
}

// Compute builds a prediction for an upcoming match from its merged quotes
// and the accumulated result history. Outcomes are scored independently;
// ties on the final score break on the fixed order home, draw, away.
func (e *Engine) Compute(m match.Match, book *history.Book, now time.Time) Prediction {
	outcomes := match.Outcomes(m.Sport)
	components := make(map[string]Components, len(outcomes))
	scores := make(map[string]float64, len(outcomes))

	for _, outcome := range outcomes {
		parts := Components{
			Odds:       e.oddsComponent(m, outcome),
			Volume:     e.volumeComponent(m, outcome),
			Movement:   e.movementComponent(m, outcome),
			TeamStats:  e.teamStatsComponent(m, outcome, book),
			Momentum:   e.momentumComponent(m, outcome, book),
			HeadToHead: e.headToHeadComponent(m, outcome, book),
		}
		components[outcome] = parts
		scores[outcome] = round2(e.weights.Odds*parts.Odds +
			e.weights.Volume*parts.Volume +
			e.weights.Movement*parts.Movement +
			e.weights.TeamStats*parts.TeamStats +
			e.weights.Momentum*parts.Momentum +
			e.weights.HeadToHead*parts.HeadToHead)
	}

	winner := outcomes[0]
	for _, outcome := range outcomes[1:] {
		if scores[outcome] > scores[winner] {
			winner = outcome
		}
	}

	runnerUp := 0.0
	for _, outcome := range outcomes {
		if outcome == winner {
			continue
		}
		if scores[outcome] > runnerUp {
			runnerUp = scores[outcome]
		}
	}

	return Prediction{
		MatchKey:        m.Key,
		Sport:           m.Sport,
		HomeIQ:          scores[match.OutcomeHome],
		DrawIQ:          scores[match.OutcomeDraw],
		AwayIQ:          scores[match.OutcomeAway],
		Components:      components,
		Confidence:      e.confidence(scores[winner] - runnerUp),
		PredictedWinner: winner,
		Verdict:         verdict(m, winner),
		CreatedAt:       now.UTC(),
	}
}

func (e *Engine) confidence(margin float64) string {
	switch {
	case margin >= e.thresholds.High:
		return ConfidenceHigh
	case margin >= e.thresholds.Medium:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func verdict(m match.Match, winner string) string {
	switch winner {
	case match.OutcomeHome:
		return fmt.Sprintf("%s to win", m.HomeTeam)
	case match.OutcomeAway:
		return fmt.Sprintf("%s to win", m.AwayTeam)
	default:
		return "Draw likely"
	}
}

// oddsComponent scores the implied probability of the best available price,
// with a small bonus when the market makes this outcome its favorite and
// another when the books broadly agree on the probability.
func (e *Engine) oddsComponent(m match.Match, outcome string) float64 {
	best, count := odds.Best(m.Quotes, outcome)
	if count == 0 {
		return neutralScore
	}

	implied := odds.ImpliedProbability(best)
	score := implied * 90

	if isFavorite(m, outcome) {
		score += 5
	}
	if variance := impliedVariance(m.Quotes, outcome); count > 1 && variance < 0.001 {
		score += 5
	}

	return clampScore(score)
}

// volumeComponent scores market depth: how many books price the outcome,
// how tightly they agree and how probable they collectively find it.
func (e *Engine) volumeComponent(m match.Match, outcome string) float64 {
	best, count := odds.Best(m.Quotes, outcome)
	if count == 0 {
		return neutralScore
	}

	depth := math.Min(float64(count), 10) / 10 * 50
	agreement := math.Max(0, 1-odds.Spread(m.Quotes, outcome)*5) * 25
	implied := odds.ImpliedProbability(best) * 25

	return clampScore(depth + agreement + implied)
}

// movementComponent proxies price movement with the best/worst spread:
// a tight market reads as confidence, a wide one as disagreement.
func (e *Engine) movementComponent(m match.Match, outcome string) float64 {
	_, count := odds.Best(m.Quotes, outcome)
	if count < 2 {
		return neutralScore
	}

	spread := odds.Spread(m.Quotes, outcome)
	return clampScore(neutralScore + (0.05-spread)*400)
}

func (e *Engine) teamStatsComponent(m match.Match, outcome string, book *history.Book) float64 {
	if book == nil {
		return neutralScore
	}

	if outcome == match.OutcomeDraw {
		return drawStatsScore(m, book)
	}

	team := m.HomeTeam
	if outcome == match.OutcomeAway {
		team = m.AwayTeam
	}
	record, ok := book.Record(team)
	if !ok || record.Played == 0 {
		return neutralScore
	}

	winRate := record.WinRate() * 40
	goalDiff := clamp(record.GoalDiffPerGame()*10+10, 0, 20)

	venueRate := 0.5
	if outcome == match.OutcomeHome && record.HomePlayed > 0 {
		venueRate = float64(record.HomeWins) / float64(record.HomePlayed)
	} else if outcome == match.OutcomeAway && record.AwayPlayed > 0 {
		venueRate = float64(record.AwayWins) / float64(record.AwayPlayed)
	}
	venue := venueRate * 20

	form := formPoints(book.Recent(team, formLimit)) / (3 * formLimit) * 20

	return clampScore(winRate + goalDiff + venue + form)
}

func drawStatsScore(m match.Match, book *history.Book) float64 {
	rates := make([]float64, 0, 2)
	for _, team := range []string{m.HomeTeam, m.AwayTeam} {
		record, ok := book.Record(team)
		if !ok || record.Played == 0 {
			continue
		}
		rates = append(rates, float64(record.Draws)/float64(record.Played))
	}
	if len(rates) == 0 {
		return neutralScore
	}

	total := 0.0
	for _, rate := range rates {
		total += rate
	}
	return clampScore(total / float64(len(rates)) * 200)
}

// momentumComponent scores the last ten results on the fixed point table:
// home win 3, draw 2, away win 5, plus 2 for each game extending an
// unbeaten streak and 1 extra per draw inside that streak. The raw total is
// capped and rescaled to [0,100].
func (e *Engine) momentumComponent(m match.Match, outcome string, book *history.Book) float64 {
	if book == nil {
		return neutralScore
	}

	if outcome == match.OutcomeDraw {
		home := momentumRaw(book.Recent(m.HomeTeam, momentumLimit))
		away := momentumRaw(book.Recent(m.AwayTeam, momentumLimit))
		return clampScore((home + away) / 2 / momentumRawCap * 100)
	}

	team := m.HomeTeam
	if outcome == match.OutcomeAway {
		team = m.AwayTeam
	}
	results := book.Recent(team, momentumLimit)
	if len(results) == 0 {
		return neutralScore
	}
	return clampScore(momentumRaw(results) / momentumRawCap * 100)
}

func momentumRaw(results []history.Result) float64 {
	if len(results) == 0 {
		return momentumRawCap / 2
	}

	// Results arrive most recent first; score in played order so streaks
	// build forward in time.
	raw := 0.0
	streak := 0
	for i := len(results) - 1; i >= 0; i-- {
		result := results[i]
		switch result.Outcome {
		case 'W':
			if result.Home {
				raw += 3
			} else {
				raw += 5
			}
		case 'D':
			raw += 2
		default:
			streak = 0
			continue
		}

		streak++
		if streak >= 2 {
			raw += 2
			if result.Outcome == 'D' {
				raw++
			}
		}
	}

	return math.Min(raw, momentumRawCap)
}

// headToHeadComponent blends the win share over the last twenty meetings
// (draws split evenly) with a recency-weighted read of the last five.
func (e *Engine) headToHeadComponent(m match.Match, outcome string, book *history.Book) float64 {
	if book == nil {
		return neutralScore
	}
	meetings := book.Meetings(m.HomeTeam, m.AwayTeam, h2hMeetingLimit)
	if len(meetings) == 0 {
		return neutralScore
	}

	overall := h2hShare(meetings, m, outcome)

	recent := meetings
	if len(recent) > h2hRecentLimit {
		recent = recent[:h2hRecentLimit]
	}
	weighted := 0.0
	weightSum := 0.0
	for i, meeting := range recent {
		weight := float64(len(recent) - i)
		weighted += meetingShare(meeting, m, outcome) * weight
		weightSum += weight
	}
	recentScore := weighted / weightSum

	return clampScore((overall*0.7 + recentScore*0.3) * 100)
}

func h2hShare(meetings []history.Meeting, m match.Match, outcome string) float64 {
	total := 0.0
	for _, meeting := range meetings {
		total += meetingShare(meeting, m, outcome)
	}
	return total / float64(len(meetings))
}

// meetingShare scores one meeting for the outcome: 1 for a win by the side
// in question, 0.5 for a draw, 0 otherwise. For the draw outcome a drawn
// meeting counts 1.
func meetingShare(meeting history.Meeting, m match.Match, outcome string) float64 {
	var winner string
	switch {
	case meeting.HomeScore > meeting.AwayScore:
		winner = meeting.HomeTeam
	case meeting.HomeScore < meeting.AwayScore:
		winner = meeting.AwayTeam
	}

	if outcome == match.OutcomeDraw {
		if winner == "" {
			return 1
		}
		return 0
	}

	team := m.HomeTeam
	if outcome == match.OutcomeAway {
		team = m.AwayTeam
	}
	if winner == "" {
		return 0.5
	}
	if sameTeam(winner, team) {
		return 1
	}
	return 0
}

func formPoints(results []history.Result) float64 {
	points := 0.0
	for _, result := range results {
		switch result.Outcome {
		case 'W':
			points += 3
		case 'D':
			points++
		}
	}
	return points
}

func isFavorite(m match.Match, outcome string) bool {
	best, count := odds.Best(m.Quotes, outcome)
	if count == 0 {
		return false
	}
	target := odds.ImpliedProbability(best)
	for _, other := range match.Outcomes(m.Sport) {
		if other == outcome {
			continue
		}
		price, n := odds.Best(m.Quotes, other)
		if n == 0 {
			continue
		}
		if odds.ImpliedProbability(price) > target {
			return false
		}
	}
	return true
}

func impliedVariance(quotes []match.Quote, outcome string) float64 {
	probs := make([]float64, 0, len(quotes))
	for _, quote := range quotes {
		if quote.Featured {
			continue
		}
		price := quote.Price(outcome)
		if price < 1 {
			continue
		}
		probs = append(probs, odds.ImpliedProbability(price))
	}
	if len(probs) < 2 {
		return 0
	}

	mean := 0.0
	for _, p := range probs {
		mean += p
	}
	mean /= float64(len(probs))

	variance := 0.0
	for _, p := range probs {
		variance += (p - mean) * (p - mean)
	}
	return variance / float64(len(probs))
}

func sameTeam(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func clampScore(value float64) float64 {
	return round2(clamp(value, 0, 100))
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
