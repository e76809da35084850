package goalserve

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/match"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/platform/logging"
	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/providers"
)

const adapterName = "goalserve"

// sportPaths maps our sport names onto the upstream feed paths.
var sportPaths = map[string]string{
	match.SportFootball:   "/soccer/odds",
	match.SportBasketball: "/basketball/odds",
	match.SportTennis:     "/tennis/odds",
	match.SportHockey:     "/hockey/odds",
}

// Adapter reads the goalserve odds feed: an object keyed by fixture id,
// epoch timestamps in seconds or milliseconds, localized team names and
// decimal prices serialized as strings.
type Adapter struct {
	client *providers.Client
	logger *logging.Logger
	locale string
}

func New(client *providers.Client, logger *logging.Logger, locale string) *Adapter {
	if logger == nil {
		logger = logging.Default()
	}
	locale = strings.TrimSpace(strings.ToLower(locale))
	if locale == "" {
		locale = "en"
	}
	return &Adapter{client: client, logger: logger, locale: locale}
}

func (a *Adapter) Name() string { return adapterName }

func (a *Adapter) Sports() []string {
	sports := make([]string, 0, len(sportPaths))
	for sport := range sportPaths {
		sports = append(sports, sport)
	}
	sort.Strings(sports)
	return sports
}

func (a *Adapter) Fetch(ctx context.Context, window providers.Window, sport string) (providers.Batch, error) {
	path, ok := sportPaths[sport]
	if !ok {
		return providers.Batch{}, fmt.Errorf("%w: sport %q not offered", providers.ErrProviderSchema, sport)
	}

	var envelope feedEnvelope
	query := map[string]string{
		"from": window.From.UTC().Format("2006-01-02"),
		"to":   window.To.UTC().Format("2006-01-02"),
	}
	if err := a.client.GetJSON(ctx, path, query, &envelope); err != nil {
		return providers.Batch{}, fmt.Errorf("fetch %s %s: %w", adapterName, sport, err)
	}

	batch := providers.Batch{Provider: adapterName, Sport: sport}

	ids := make([]string, 0, len(envelope.Matches))
	for id := range envelope.Matches {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		record := envelope.Matches[id]
		normalized, err := a.normalize(sport, record, window)
		if err != nil {
			batch.Skipped++
			a.logger.DebugContext(ctx, "skipped goalserve record", "id", id, "sport", sport, "error", err)
			continue
		}
		batch.Matches = append(batch.Matches, normalized)
	}

	return batch, nil
}

func (a *Adapter) normalize(sport string, record feedMatch, window providers.Window) (match.Match, error) {
	home := record.HomeTeam.name(a.locale)
	away := record.AwayTeam.name(a.locale)
	if home == "" || away == "" {
		return match.Match{}, fmt.Errorf("missing team name")
	}

	kickoff, err := parseEpoch(record.Start)
	if err != nil {
		return match.Match{}, fmt.Errorf("kickoff: %w", err)
	}
	if !window.Contains(kickoff) {
		return match.Match{}, fmt.Errorf("kickoff %s outside window", kickoff.Format(time.RFC3339))
	}

	m := match.Match{
		Key:         match.BuildKey(sport, home, away, kickoff),
		Sport:       sport,
		Competition: strings.TrimSpace(record.League),
		HomeTeam:    home,
		AwayTeam:    away,
		KickoffAt:   kickoff,
		Completed:   isFinished(record.Status),
	}

	if m.Completed {
		homeScore, homeErr := parseScore(record.HomeTeam.Score)
		awayScore, awayErr := parseScore(record.AwayTeam.Score)
		if homeErr != nil || awayErr != nil {
			return match.Match{}, fmt.Errorf("finished fixture without scores")
		}
		m.HomeScore = &homeScore
		m.AwayScore = &awayScore
	}

	books := make([]string, 0, len(record.Odds))
	for book := range record.Odds {
		books = append(books, book)
	}
	sort.Strings(books)

	for _, book := range books {
		prices := record.Odds[book]
		quote, ok := buildQuote(sport, book, prices)
		if !ok {
			continue
		}
		m.Quotes = append(m.Quotes, quote)
	}

	return m, nil
}

func buildQuote(sport, bookmaker string, prices feedPrices) (match.Quote, bool) {
	quote := match.Quote{Bookmaker: strings.TrimSpace(bookmaker), Label: strings.TrimSpace(bookmaker)}
	if quote.Bookmaker == "" {
		return match.Quote{}, false
	}

	quote.Home = parsePrice(prices.Home)
	quote.Away = parsePrice(prices.Away)
	if match.HasDraw(sport) {
		quote.Draw = parsePrice(prices.Draw)
	}

	if quote.Home == 0 && quote.Draw == 0 && quote.Away == 0 {
		return match.Quote{}, false
	}
	return quote, true
}

// parseEpoch accepts epoch seconds or milliseconds; the feed mixes both.
func parseEpoch(raw int64) (time.Time, error) {
	if raw <= 0 {
		return time.Time{}, fmt.Errorf("epoch %d not positive", raw)
	}
	if raw > 1e12 {
		return time.UnixMilli(raw).UTC(), nil
	}
	return time.Unix(raw, 0).UTC(), nil
}

func parseScore(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}

// parsePrice returns 0 for anything unpriced or priced below even money;
// decimal odds under 1.0 cannot be real.
func parsePrice(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || value < 1 {
		return 0
	}
	return value
}

func isFinished(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "finished", "ft", "aet", "after_penalties", "ended":
		return true
	default:
		return false
	}
}

type feedEnvelope struct {
	Updated int64                `json:"updated"`
	Matches map[string]feedMatch `json:"matches"`
}

type feedMatch struct {
	League   string                `json:"league"`
	Start    int64                 `json:"start"`
	Status   string                `json:"status"`
	HomeTeam feedTeam              `json:"localteam"`
	AwayTeam feedTeam              `json:"visitorteam"`
	Odds     map[string]feedPrices `json:"odds"`
}

type feedTeam struct {
	Name   string `json:"name"`
	NameEN string `json:"name_en"`
	NameES string `json:"name_es"`
	Score  string `json:"score"`
}

// name prefers the requested locale, then english, then the default field.
func (t feedTeam) name(locale string) string {
	candidates := []string{t.NameEN, t.Name, t.NameES}
	switch locale {
	case "es":
		candidates = []string{t.NameES, t.NameEN, t.Name}
	case "en":
	default:
		candidates = []string{t.Name, t.NameEN, t.NameES}
	}
	for _, candidate := range candidates {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

type feedPrices struct {
	Home string `json:"home"`
	Draw string `json:"draw"`
	Away string `json:"away"`
}
