package history

import (
	"sort"
	"strings"
	"time"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/match"
)

// TeamRecord aggregates a team's completed matches.
type TeamRecord struct {
	Team         string
	Played       int
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
	HomePlayed   int
	HomeWins     int
	AwayPlayed   int
	AwayWins     int
}

func (r TeamRecord) WinRate() float64 {
	if r.Played == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Played)
}

func (r TeamRecord) GoalDiffPerGame() float64 {
	if r.Played == 0 {
		return 0
	}
	return float64(r.GoalsFor-r.GoalsAgainst) / float64(r.Played)
}

// Result is one completed match from a single team's perspective.
type Result struct {
	KickoffAt time.Time
	Home      bool
	Outcome   byte // 'W', 'D' or 'L'
}

// Meeting is one completed head-to-head match between two teams.
type Meeting struct {
	KickoffAt time.Time
	HomeTeam  string
	AwayTeam  string
	HomeScore int
	AwayScore int
}

// Book indexes completed matches by team and by team pair. It is rebuilt
// from the result store each prediction cycle and read-only afterwards.
type Book struct {
	records  map[string]TeamRecord
	results  map[string][]Result
	meetings map[string][]Meeting
}

// Build indexes completed matches with final scores; anything else in the
// input is ignored.
func Build(matches []match.Match) *Book {
	book := &Book{
		records:  make(map[string]TeamRecord),
		results:  make(map[string][]Result),
		meetings: make(map[string][]Meeting),
	}

	for _, m := range matches {
		if !m.Completed || m.HomeScore == nil || m.AwayScore == nil {
			continue
		}
		homeKey := teamKey(m.HomeTeam)
		awayKey := teamKey(m.AwayTeam)
		if homeKey == "" || awayKey == "" {
			continue
		}

		homeScore := *m.HomeScore
		awayScore := *m.AwayScore

		book.apply(homeKey, m.HomeTeam, true, homeScore, awayScore, m.KickoffAt)
		book.apply(awayKey, m.AwayTeam, false, awayScore, homeScore, m.KickoffAt)

		pair := pairKey(homeKey, awayKey)
		book.meetings[pair] = append(book.meetings[pair], Meeting{
			KickoffAt: m.KickoffAt,
			HomeTeam:  m.HomeTeam,
			AwayTeam:  m.AwayTeam,
			HomeScore: homeScore,
			AwayScore: awayScore,
		})
	}

	for key := range book.results {
		items := book.results[key]
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].KickoffAt.After(items[j].KickoffAt)
		})
		book.results[key] = items
	}
	for key := range book.meetings {
		items := book.meetings[key]
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].KickoffAt.After(items[j].KickoffAt)
		})
		book.meetings[key] = items
	}

	return book
}

func (b *Book) apply(key, name string, home bool, scored, conceded int, kickoffAt time.Time) {
	record := b.records[key]
	if record.Team == "" {
		record.Team = name
	}
	record.Played++
	record.GoalsFor += scored
	record.GoalsAgainst += conceded

	outcome := byte('D')
	switch {
	case scored > conceded:
		outcome = 'W'
		record.Wins++
	case scored < conceded:
		outcome = 'L'
		record.Losses++
	default:
		record.Draws++
	}

	if home {
		record.HomePlayed++
		if outcome == 'W' {
			record.HomeWins++
		}
	} else {
		record.AwayPlayed++
		if outcome == 'W' {
			record.AwayWins++
		}
	}

	b.records[key] = record
	b.results[key] = append(b.results[key], Result{
		KickoffAt: kickoffAt,
		Home:      home,
		Outcome:   outcome,
	})
}

// Record returns the aggregate record for a team.
func (b *Book) Record(team string) (TeamRecord, bool) {
	record, ok := b.records[teamKey(team)]
	return record, ok
}

// Recent returns up to limit results for a team, most recent first.
func (b *Book) Recent(team string, limit int) []Result {
	items := b.results[teamKey(team)]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	out := make([]Result, len(items))
	copy(out, items)
	return out
}

// Meetings returns up to limit head-to-head matches between the two teams,
// most recent first, regardless of which side hosted.
func (b *Book) Meetings(teamA, teamB string, limit int) []Meeting {
	items := b.meetings[pairKey(teamKey(teamA), teamKey(teamB))]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	out := make([]Meeting, len(items))
	copy(out, items)
	return out
}

func teamKey(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	return strings.Join(strings.Fields(value), " ")
}

func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}
