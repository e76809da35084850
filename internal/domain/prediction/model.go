package prediction

import (
	"time"
)

const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

// Components is the six-part breakdown behind one side's IQ score. Each
// value is already normalized to [0,100]; the side total is the weighted
// sum, so the stored score can be audited from the breakdown.
type Components struct {
	Odds       float64 `json:"odds"`
	Volume     float64 `json:"volume"`
	Movement   float64 `json:"movement"`
	TeamStats  float64 `json:"team_stats"`
	Momentum   float64 `json:"momentum"`
	HeadToHead float64 `json:"head_to_head"`
}

// Verification is the narrow post-match patch. It is the only part of a
// prediction that may change after creation, and it is applied exactly once.
type Verification struct {
	Correct      bool
	ActualWinner string
	VerifiedAt   time.Time
}

// Prediction is one pre-kickoff assessment of a match. The IQ scores and
// the component breakdown are write-once; only the verification fields may
// transition from unset to set.
type Prediction struct {
	MatchKey        string
	Sport           string
	HomeIQ          float64
	DrawIQ          float64
	AwayIQ          float64
	Components      map[string]Components
	Confidence      string
	PredictedWinner string
	Verdict         string
	CreatedAt       time.Time

	Correct      *bool
	ActualWinner string
	VerifiedAt   *time.Time
}

func (p Prediction) Verified() bool {
	return p.VerifiedAt != nil
}

// Score returns the IQ score for the named outcome.
func (p Prediction) Score(outcome string) float64 {
	switch outcome {
	case "home":
		return p.HomeIQ
	case "draw":
		return p.DrawIQ
	case "away":
		return p.AwayIQ
	default:
		return 0
	}
}
