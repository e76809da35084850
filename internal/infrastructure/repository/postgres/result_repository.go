package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/match"
)

// ResultRepository keeps completed fixtures across ingestion cycles. Rows
// are only ever added or re-upserted with final scores, never removed, so
// the prediction engine's history keeps growing.
type ResultRepository struct {
	db *sqlx.DB
}

func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

const upsertResultQuery = `
INSERT INTO results (key, sport, competition, home_team, away_team, kickoff_at, completed, home_score, away_score, tier, time_bucket, quotes, updated_at)
VALUES (:key, :sport, :competition, :home_team, :away_team, :kickoff_at, :completed, :home_score, :away_score, :tier, :time_bucket, :quotes, :updated_at)
ON CONFLICT (key) DO UPDATE SET
	home_score = EXCLUDED.home_score,
	away_score = EXCLUDED.away_score,
	completed = EXCLUDED.completed,
	updated_at = EXCLUDED.updated_at`

func (r *ResultRepository) UpsertResults(ctx context.Context, matches []match.Match) error {
	now := time.Now().UTC()
	models := make([]matchTableModel, 0, len(matches))
	for _, item := range matches {
		if !item.Completed || item.HomeScore == nil || item.AwayScore == nil {
			continue
		}
		model, err := matchToModel(item, now)
		if err != nil {
			return err
		}
		models = append(models, model)
	}
	if len(models) == 0 {
		return nil
	}

	if _, err := r.db.NamedExecContext(ctx, upsertResultQuery, models); err != nil {
		return fmt.Errorf("upsert results: %w", err)
	}
	return nil
}

func (r *ResultRepository) ListCompleted(ctx context.Context, sport string) ([]match.Match, error) {
	query := "SELECT * FROM results ORDER BY kickoff_at DESC, key"
	args := []any{}
	if sport != "" {
		query = "SELECT * FROM results WHERE sport = $1 ORDER BY kickoff_at DESC, key"
		args = append(args, sport)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select results: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
