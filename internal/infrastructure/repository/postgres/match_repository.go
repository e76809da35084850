package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/match"
)

// MatchRepository persists the fixture snapshot. ReplaceAll deletes and
// reinserts inside one transaction so readers on other connections keep
// seeing the previous snapshot until commit.
type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

const insertMatchQuery = `
INSERT INTO matches (key, sport, competition, home_team, away_team, kickoff_at, completed, home_score, away_score, tier, time_bucket, quotes, updated_at)
VALUES (:key, :sport, :competition, :home_team, :away_team, :kickoff_at, :completed, :home_score, :away_score, :tier, :time_bucket, :quotes, :updated_at)`

func (r *MatchRepository) ReplaceAll(ctx context.Context, matches []match.Match) error {
	now := time.Now().UTC()
	models := make([]matchTableModel, 0, len(matches))
	for _, item := range matches {
		model, err := matchToModel(item, now)
		if err != nil {
			return err
		}
		models = append(models, model)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace matches: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM matches"); err != nil {
		return fmt.Errorf("clear matches: %w", err)
	}
	if len(models) > 0 {
		if _, err := tx.NamedExecContext(ctx, insertMatchQuery, models); err != nil {
			return fmt.Errorf("insert matches: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace matches: %w", err)
	}
	return nil
}

func (r *MatchRepository) List(ctx context.Context, filter match.Filter) ([]match.Match, error) {
	query := "SELECT * FROM matches ORDER BY time_bucket, tier, kickoff_at, key"
	args := []any{}
	if filter.Sport != "" {
		query = "SELECT * FROM matches WHERE sport = $1 ORDER BY time_bucket, tier, kickoff_at, key"
		args = append(args, filter.Sport)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		if !match.InWindow(item, filter.Window, filter.Now) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *MatchRepository) GetByKey(ctx context.Context, key string) (match.Match, bool, error) {
	var row matchTableModel
	err := r.db.GetContext(ctx, &row, "SELECT * FROM matches WHERE key = $1", key)
	if isNotFound(err) {
		return match.Match{}, false, nil
	}
	if err != nil {
		return match.Match{}, false, fmt.Errorf("select match by key: %w", err)
	}

	item, err := row.toDomain()
	if err != nil {
		return match.Match{}, false, err
	}
	return item, true, nil
}

func (r *MatchRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM matches"); err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return count, nil
}
