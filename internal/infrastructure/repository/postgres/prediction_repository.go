package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/prediction"
)

// PredictionRepository is the durable write-once prediction store. The
// primary key plus ON CONFLICT DO NOTHING makes Create race-safe: exactly
// one concurrent writer inserts, everyone else observes created=false.
type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

const insertPredictionQuery = `
INSERT INTO predictions (match_key, sport, home_iq, draw_iq, away_iq, components, confidence, predicted_winner, verdict, created_at)
VALUES (:match_key, :sport, :home_iq, :draw_iq, :away_iq, :components, :confidence, :predicted_winner, :verdict, :created_at)
ON CONFLICT (match_key) DO NOTHING`

func (r *PredictionRepository) Create(ctx context.Context, p prediction.Prediction) (bool, error) {
	model, err := predictionToModel(p)
	if err != nil {
		return false, err
	}

	result, err := r.db.NamedExecContext(ctx, insertPredictionQuery, model)
	if err != nil {
		return false, fmt.Errorf("insert prediction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert prediction rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *PredictionRepository) GetByMatchKey(ctx context.Context, matchKey string) (prediction.Prediction, bool, error) {
	var row predictionTableModel
	err := r.db.GetContext(ctx, &row, "SELECT * FROM predictions WHERE match_key = $1", matchKey)
	if isNotFound(err) {
		return prediction.Prediction{}, false, nil
	}
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("select prediction: %w", err)
	}

	out, err := row.toDomain()
	if err != nil {
		return prediction.Prediction{}, false, err
	}
	return out, true, nil
}

func (r *PredictionRepository) ListUnverified(ctx context.Context) ([]prediction.Prediction, error) {
	var rows []predictionTableModel
	err := r.db.SelectContext(ctx, &rows, "SELECT * FROM predictions WHERE verified_at IS NULL ORDER BY match_key")
	if err != nil {
		return nil, fmt.Errorf("select unverified predictions: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

const verifyPredictionQuery = `
UPDATE predictions
SET correct = $2, actual_winner = $3, verified_at = $4
WHERE match_key = $1 AND verified_at IS NULL`

func (r *PredictionRepository) Verify(ctx context.Context, matchKey string, v prediction.Verification) (bool, error) {
	result, err := r.db.ExecContext(ctx, verifyPredictionQuery, matchKey, v.Correct, v.ActualWinner, v.VerifiedAt.UTC())
	if err != nil {
		return false, fmt.Errorf("verify prediction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("verify prediction rows affected: %w", err)
	}
	return affected == 1, nil
}
