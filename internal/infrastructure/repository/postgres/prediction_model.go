package postgres

import (
	"database/sql"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/prediction"
)

type predictionTableModel struct {
	MatchKey        string         `db:"match_key"`
	Sport           string         `db:"sport"`
	HomeIQ          float64        `db:"home_iq"`
	DrawIQ          float64        `db:"draw_iq"`
	AwayIQ          float64        `db:"away_iq"`
	Components      []byte         `db:"components"`
	Confidence      string         `db:"confidence"`
	PredictedWinner string         `db:"predicted_winner"`
	Verdict         string         `db:"verdict"`
	CreatedAt       time.Time      `db:"created_at"`
	Correct         sql.NullBool   `db:"correct"`
	ActualWinner    sql.NullString `db:"actual_winner"`
	VerifiedAt      *time.Time     `db:"verified_at"`
}

func predictionToModel(p prediction.Prediction) (predictionTableModel, error) {
	components, err := sonic.Marshal(p.Components)
	if err != nil {
		return predictionTableModel{}, fmt.Errorf("encode components for %s: %w", p.MatchKey, err)
	}

	model := predictionTableModel{
		MatchKey:        p.MatchKey,
		Sport:           p.Sport,
		HomeIQ:          p.HomeIQ,
		DrawIQ:          p.DrawIQ,
		AwayIQ:          p.AwayIQ,
		Components:      components,
		Confidence:      p.Confidence,
		PredictedWinner: p.PredictedWinner,
		Verdict:         p.Verdict,
		CreatedAt:       p.CreatedAt.UTC(),
	}
	if p.Correct != nil {
		model.Correct = sql.NullBool{Bool: *p.Correct, Valid: true}
	}
	if p.ActualWinner != "" {
		model.ActualWinner = sql.NullString{String: p.ActualWinner, Valid: true}
	}
	if p.VerifiedAt != nil {
		verifiedAt := p.VerifiedAt.UTC()
		model.VerifiedAt = &verifiedAt
	}
	return model, nil
}

func (m predictionTableModel) toDomain() (prediction.Prediction, error) {
	out := prediction.Prediction{
		MatchKey:        m.MatchKey,
		Sport:           m.Sport,
		HomeIQ:          m.HomeIQ,
		DrawIQ:          m.DrawIQ,
		AwayIQ:          m.AwayIQ,
		Confidence:      m.Confidence,
		PredictedWinner: m.PredictedWinner,
		Verdict:         m.Verdict,
		CreatedAt:       m.CreatedAt.UTC(),
		ActualWinner:    m.ActualWinner.String,
	}
	if len(m.Components) > 0 {
		if err := sonic.Unmarshal(m.Components, &out.Components); err != nil {
			return prediction.Prediction{}, fmt.Errorf("decode components for %s: %w", m.MatchKey, err)
		}
	}
	if m.Correct.Valid {
		correct := m.Correct.Bool
		out.Correct = &correct
	}
	if m.VerifiedAt != nil {
		verifiedAt := m.VerifiedAt.UTC()
		out.VerifiedAt = &verifiedAt
	}
	return out, nil
}
