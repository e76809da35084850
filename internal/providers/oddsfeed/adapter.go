package oddsfeed

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

const (
	adapterName  = "oddsfeed"
	marketH2H    = "h2h"
	drawOutcome  = "draw"
	maxBatchSize = 500
)

// sportKeys maps our sport names onto upstream sport keys.
var sportKeys = map[string]string{
	match.SportFootball:   "soccer",
	match.SportBasketball: "basketball",
	match.SportTennis:     "tennis",
	match.SportHockey:     "icehockey",
}

// Adapter reads an odds-api style feed: a flat array of events with
// ISO-8601 timestamps and head-to-head prices nested under
// bookmakers[].markets[].outcomes[].
type Adapter struct {
	client *providers.Client
	logger *logging.Logger
}

func New(client *providers.Client, logger *logging.Logger) *Adapter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Adapter{client: client, logger: logger}
}

func (a *Adapter) Name() string { return adapterName }

func (a *Adapter) Sports() []string {
	sports := make([]string, 0, len(sportKeys))
	for sport := range sportKeys {
		sports = append(sports, sport)
	}
	sort.Strings(sports)
	return sports
}

func (a *Adapter) Fetch(ctx context.Context, window providers.Window, sport string) (providers.Batch, error) {
	key, ok := sportKeys[sport]
	if !ok {
		return providers.Batch{}, fmt.Errorf("%w: sport %q not offered", providers.ErrProviderSchema, sport)
	}

	var events []feedEvent
	query := map[string]string{
		"regions":          "eu,uk",
		"markets":          marketH2H,
		"oddsFormat":       "decimal",
		"commenceTimeFrom": window.From.UTC().Format(time.RFC3339),
		"commenceTimeTo":   window.To.UTC().Format(time.RFC3339),
	}
	if err := a.client.GetJSON(ctx, "/sports/"+key+"/odds", query, &events); err != nil {
		return providers.Batch{}, fmt.Errorf("fetch %s %s: %w", adapterName, sport, err)
	}
	if len(events) > maxBatchSize {
		events = events[:maxBatchSize]
	}

	batch := providers.Batch{Provider: adapterName, Sport: sport}
	for _, event := range events {
		normalized, err := normalize(sport, event, window)
		if err != nil {
			batch.Skipped++
			a.logger.DebugContext(ctx, "skipped oddsfeed event", "id", event.ID, "sport", sport, "error", err)
			continue
		}
		batch.Matches = append(batch.Matches, normalized)
	}

	return batch, nil
}

func normalize(sport string, event feedEvent, window providers.Window) (match.Match, error) {
	home := strings.TrimSpace(event.HomeTeam)
	away := strings.TrimSpace(event.AwayTeam)
	if home == "" || away == "" {
		return match.Match{}, fmt.Errorf("missing team name")
	}

	kickoff, err := time.Parse(time.RFC3339, strings.TrimSpace(event.CommenceTime))
	if err != nil {
		return match.Match{}, fmt.Errorf("kickoff: %w", err)
	}
	kickoff = kickoff.UTC()
	if !window.Contains(kickoff) {
		return match.Match{}, fmt.Errorf("kickoff %s outside window", kickoff.Format(time.RFC3339))
	}

	m := match.Match{
		Key:         match.BuildKey(sport, home, away, kickoff),
		Sport:       sport,
		Competition: strings.TrimSpace(event.SportTitle),
		HomeTeam:    home,
		AwayTeam:    away,
		KickoffAt:   kickoff,
		Completed:   event.Completed,
	}

	if m.Completed {
		homeScore, ok1 := scoreFor(event.Scores, home)
		awayScore, ok2 := scoreFor(event.Scores, away)
		if !ok1 || !ok2 {
			return match.Match{}, fmt.Errorf("completed event without scores")
		}
		m.HomeScore = &homeScore
		m.AwayScore = &awayScore
	}

	for _, bookmaker := range event.Bookmakers {
		quote, ok := buildQuote(sport, home, away, bookmaker)
		if !ok {
			continue
		}
		m.Quotes = append(m.Quotes, quote)
	}

	return m, nil
}

func buildQuote(sport, home, away string, bookmaker feedBookmaker) (match.Quote, bool) {
	key := strings.TrimSpace(bookmaker.Key)
	if key == "" {
		return match.Quote{}, false
	}

	label := strings.TrimSpace(bookmaker.Title)
	if label == "" {
		label = key
	}
	quote := match.Quote{Bookmaker: key, Label: label}

	for _, market := range bookmaker.Markets {
		if !strings.EqualFold(strings.TrimSpace(market.Key), marketH2H) {
			continue
		}
		for _, outcome := range market.Outcomes {
			price := outcome.Price
			if price < 1 {
				continue
			}
			name := strings.TrimSpace(outcome.Name)
			switch {
			case strings.EqualFold(name, home):
				quote.Home = price
			case strings.EqualFold(name, away):
				quote.Away = price
			case strings.EqualFold(name, drawOutcome) && match.HasDraw(sport):
				quote.Draw = price
			}
		}
	}

	if quote.Home == 0 && quote.Draw == 0 && quote.Away == 0 {
		return match.Quote{}, false
	}
	return quote, true
}

func scoreFor(scores []feedScore, team string) (int, bool) {
	for _, entry := range scores {
		if !strings.EqualFold(strings.TrimSpace(entry.Name), team) {
			continue
		}
		value, err := strconv.Atoi(strings.TrimSpace(entry.Score))
		if err != nil {
			return 0, false
		}
		return value, true
	}
	return 0, false
}

type feedEvent struct {
	ID           string          `json:"id"`
	SportKey     string          `json:"sport_key"`
	SportTitle   string          `json:"sport_title"`
	CommenceTime string          `json:"commence_time"`
	Completed    bool            `json:"completed"`
	HomeTeam     string          `json:"home_team"`
	AwayTeam     string          `json:"away_team"`
	Scores       []feedScore     `json:"scores"`
	Bookmakers   []feedBookmaker `json:"bookmakers"`
}

type feedScore struct {
	Name  string `json:"name"`
	Score string `json:"score"`
}

type feedBookmaker struct {
	Key     string       `json:"key"`
	Title   string       `json:"title"`
	Markets []feedMarket `json:"markets"`
}

type feedMarket struct {
	Key      string        `json:"key"`
	Outcomes []feedOutcome `json:"outcomes"`
}

type feedOutcome struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}
