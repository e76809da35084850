package match

import (
	"strings"
	"time"
)

const (
	OutcomeHome = "home"
	OutcomeDraw = "draw"
	OutcomeAway = "away"
)

const (
	SportFootball   = "football"
	SportBasketball = "basketball"
	SportTennis     = "tennis"
	SportHockey     = "hockey"
)

// Quote is one bookmaker's set of outcome prices for a match. Prices are
// decimal odds; zero means the bookmaker does not price that outcome.
type Quote struct {
	Bookmaker string
	Label     string
	Featured  bool
	Home      float64
	Draw      float64
	Away      float64
}

// Match is one fixture with its merged bookmaker quotes. Tier and TimeBucket
// are derived during the ingestion cycle and stored so sorting stays stable
// for readers.
type Match struct {
	Key         string
	Sport       string
	Competition string
	HomeTeam    string
	AwayTeam    string
	KickoffAt   time.Time
	Completed   bool
	HomeScore   *int
	AwayScore   *int
	Tier        int
	TimeBucket  int
	Quotes      []Quote
}

// HasDraw reports whether the sport's match outcome space includes a draw.
func HasDraw(sport string) bool {
	switch strings.ToLower(strings.TrimSpace(sport)) {
	case SportBasketball, SportTennis:
		return false
	default:
		return true
	}
}

// Winner returns the final outcome of a completed match, or "" when the
// match is not complete or has no score.
func (m Match) Winner() string {
	if !m.Completed || m.HomeScore == nil || m.AwayScore == nil {
		return ""
	}
	switch {
	case *m.HomeScore > *m.AwayScore:
		return OutcomeHome
	case *m.HomeScore < *m.AwayScore:
		return OutcomeAway
	default:
		return OutcomeDraw
	}
}

// BuildKey derives the stable identity used to match the same logical
// fixture across providers: sport, both team names and the kickoff minute.
func BuildKey(sport, homeTeam, awayTeam string, kickoffAt time.Time) string {
	parts := []string{
		normalizeKeyPart(sport),
		normalizeKeyPart(homeTeam),
		normalizeKeyPart(awayTeam),
		kickoffAt.UTC().Truncate(time.Minute).Format("200601021504"),
	}
	return strings.Join(parts, "|")
}

func normalizeKeyPart(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	return strings.Join(strings.Fields(value), "-")
}

// Price returns the quote's price for the named outcome.
func (q Quote) Price(outcome string) float64 {
	switch outcome {
	case OutcomeHome:
		return q.Home
	case OutcomeDraw:
		return q.Draw
	case OutcomeAway:
		return q.Away
	default:
		return 0
	}
}

// Outcomes lists the outcome slots for a sport in fixed order.
func Outcomes(sport string) []string {
	if HasDraw(sport) {
		return []string{OutcomeHome, OutcomeDraw, OutcomeAway}
	}
	return []string{OutcomeHome, OutcomeAway}
}
