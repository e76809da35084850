package match

import "strings"

// MergeResult reports what a quote merge did, for cycle logs.
type MergeResult struct {
	Added   int
	Skipped int
}

// MergeQuotes appends incoming quotes to existing ones, keeping the first
// quote seen per bookmaker identity. Regional variants of one brand
// ("exchange-uk" vs "exchange-eu") carry distinct identities and are kept
// side by side on purpose.
func MergeQuotes(existing, incoming []Quote) ([]Quote, MergeResult) {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	out := make([]Quote, 0, len(existing)+len(incoming))
	var result MergeResult

	for _, quote := range existing {
		key := bookmakerKey(quote.Bookmaker)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, quote)
	}

	for _, quote := range incoming {
		key := bookmakerKey(quote.Bookmaker)
		if key == "" {
			result.Skipped++
			continue
		}
		if _, dup := seen[key]; dup {
			result.Skipped++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, quote)
		result.Added++
	}

	return out, result
}

// Merge folds an incoming record for the same logical fixture into the
// existing one: scalar fields are filled where missing, completion and
// scores prefer the record that has them, quotes are deduplicated.
func Merge(existing, incoming Match) (Match, MergeResult) {
	if existing.Key == "" {
		merged := incoming
		quotes, result := MergeQuotes(nil, incoming.Quotes)
		merged.Quotes = quotes
		return merged, result
	}

	if existing.Competition == "" {
		existing.Competition = incoming.Competition
	}
	if existing.HomeTeam == "" {
		existing.HomeTeam = incoming.HomeTeam
	}
	if existing.AwayTeam == "" {
		existing.AwayTeam = incoming.AwayTeam
	}
	if existing.KickoffAt.IsZero() {
		existing.KickoffAt = incoming.KickoffAt
	}
	if incoming.Completed {
		existing.Completed = true
	}
	if existing.HomeScore == nil {
		existing.HomeScore = incoming.HomeScore
	}
	if existing.AwayScore == nil {
		existing.AwayScore = incoming.AwayScore
	}

	quotes, result := MergeQuotes(existing.Quotes, incoming.Quotes)
	existing.Quotes = quotes
	return existing, result
}

func bookmakerKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
