package postgres

import (
	"database/sql"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/match"
)

type matchTableModel struct {
	Key         string        `db:"key"`
	Sport       string        `db:"sport"`
	Competition string        `db:"competition"`
	HomeTeam    string        `db:"home_team"`
	AwayTeam    string        `db:"away_team"`
	KickoffAt   time.Time     `db:"kickoff_at"`
	Completed   bool          `db:"completed"`
	HomeScore   sql.NullInt64 `db:"home_score"`
	AwayScore   sql.NullInt64 `db:"away_score"`
	Tier        int           `db:"tier"`
	TimeBucket  int           `db:"time_bucket"`
	Quotes      []byte        `db:"quotes"`
	UpdatedAt   time.Time     `db:"updated_at"`
}

func matchToModel(m match.Match, now time.Time) (matchTableModel, error) {
	quotes, err := sonic.Marshal(m.Quotes)
	if err != nil {
		return matchTableModel{}, fmt.Errorf("encode quotes for %s: %w", m.Key, err)
	}

	model := matchTableModel{
		Key:         m.Key,
		Sport:       m.Sport,
		Competition: m.Competition,
		HomeTeam:    m.HomeTeam,
		AwayTeam:    m.AwayTeam,
		KickoffAt:   m.KickoffAt.UTC(),
		Completed:   m.Completed,
		Tier:        m.Tier,
		TimeBucket:  m.TimeBucket,
		Quotes:      quotes,
		UpdatedAt:   now.UTC(),
	}
	if m.HomeScore != nil {
		model.HomeScore = sql.NullInt64{Int64: int64(*m.HomeScore), Valid: true}
	}
	if m.AwayScore != nil {
		model.AwayScore = sql.NullInt64{Int64: int64(*m.AwayScore), Valid: true}
	}
	return model, nil
}

func (m matchTableModel) toDomain() (match.Match, error) {
	out := match.Match{
		Key:         m.Key,
		Sport:       m.Sport,
		Competition: m.Competition,
		HomeTeam:    m.HomeTeam,
		AwayTeam:    m.AwayTeam,
		KickoffAt:   m.KickoffAt.UTC(),
		Completed:   m.Completed,
		Tier:        m.Tier,
		TimeBucket:  m.TimeBucket,
	}
	if m.HomeScore.Valid {
		score := int(m.HomeScore.Int64)
		out.HomeScore = &score
	}
	if m.AwayScore.Valid {
		score := int(m.AwayScore.Int64)
		out.AwayScore = &score
	}
	if len(m.Quotes) > 0 {
		if err := sonic.Unmarshal(m.Quotes, &out.Quotes); err != nil {
			return match.Match{}, fmt.Errorf("decode quotes for %s: %w", m.Key, err)
		}
	}
	return out, nil
}
