package odds

import (
	"math"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/match"
)

// FeaturedBookmaker identifies the synthetic quote derived from the best
// real prices. It is never fetched from a provider.
const FeaturedBookmaker = "funbet"

const FeaturedLabel = "Funbet Featured"

// DefaultMarkup and DefaultPrecision govern the synthetic featured price:
// best real price times the markup, rounded to the precision.
const (
	DefaultMarkup    = 1.05
	DefaultPrecision = 2
)

// ImpliedProbability converts a decimal price to its implied probability.
func ImpliedProbability(price float64) float64 {
	if price < 1 {
		return 0
	}
	return 1 / price
}

// Best returns the maximum real (non-featured) price for an outcome and the
// number of real quotes that price it.
func Best(quotes []match.Quote, outcome string) (float64, int) {
	best := 0.0
	count := 0
	for _, quote := range quotes {
		if quote.Featured {
			continue
		}
		price := quote.Price(outcome)
		if price < 1 {
			continue
		}
		count++
		if price > best {
			best = price
		}
	}
	return best, count
}

// Worst returns the minimum real price for an outcome, 0 when unpriced.
func Worst(quotes []match.Quote, outcome string) float64 {
	worst := 0.0
	for _, quote := range quotes {
		if quote.Featured {
			continue
		}
		price := quote.Price(outcome)
		if price < 1 {
			continue
		}
		if worst == 0 || price < worst {
			worst = price
		}
	}
	return worst
}

// Spread is the relative gap between the best and worst price for an
// outcome, a proxy for market disagreement when no price history exists.
func Spread(quotes []match.Quote, outcome string) float64 {
	best, count := Best(quotes, outcome)
	if count == 0 {
		return 0
	}
	worst := Worst(quotes, outcome)
	if worst <= 0 {
		return 0
	}
	return (best - worst) / worst
}

// Round rounds price to the given number of decimal places.
func Round(price float64, precision int) float64 {
	factor := math.Pow(10, float64(precision))
	return math.Round(price*factor) / factor
}

// BuildFeatured derives the synthetic quote for a match: per outcome the
// best real price times markup, rounded to precision. Outcomes with no real
// price stay at zero, and an outcome price is never allowed below the real
// maximum it derives from. Returns false when no outcome could be priced.
func BuildFeatured(m match.Match, markup float64, precision int) (match.Quote, bool) {
	if markup < 1 {
		markup = 1
	}
	if precision < 0 {
		precision = 2
	}

	quote := match.Quote{
		Bookmaker: FeaturedBookmaker,
		Label:     FeaturedLabel,
		Featured:  true,
	}

	priced := false
	for _, outcome := range match.Outcomes(m.Sport) {
		best, count := Best(m.Quotes, outcome)
		if count == 0 {
			continue
		}
		price := Round(best*markup, precision)
		if price < best {
			price = best
		}
		switch outcome {
		case match.OutcomeHome:
			quote.Home = price
		case match.OutcomeDraw:
			quote.Draw = price
		case match.OutcomeAway:
			quote.Away = price
		}
		priced = true
	}

	return quote, priced
}

// WithFeatured returns the match's quotes with the synthetic quote first,
// replacing any previously generated one. The input slice is not modified.
func WithFeatured(m match.Match, markup float64, precision int) []match.Quote {
	real := make([]match.Quote, 0, len(m.Quotes)+1)
	for _, quote := range m.Quotes {
		if quote.Featured {
			continue
		}
		real = append(real, quote)
	}

	stripped := m
	stripped.Quotes = real
	featured, ok := BuildFeatured(stripped, markup, precision)
	if !ok {
		return real
	}

	out := make([]match.Quote, 0, len(real)+1)
	out = append(out, featured)
	out = append(out, real...)
	return out
}
