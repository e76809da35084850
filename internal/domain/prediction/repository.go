package prediction

import "context"

// Repository persists predictions. Create is insert-if-absent: the first
// writer wins and concurrent losers get created=false without an error.
// Verify applies the verification patch at most once and never touches the
// scores written at creation. Predictions are never deleted.
type Repository interface {
	Create(ctx context.Context, p Prediction) (created bool, err error)
	GetByMatchKey(ctx context.Context, matchKey string) (Prediction, bool, error)
	ListUnverified(ctx context.Context) ([]Prediction, error)
	Verify(ctx context.Context, matchKey string, v Verification) (applied bool, err error)
}
