package ranking

import (
	"testing"
	"time"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/match"
)

func TestTier(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	tests := []struct {
		competition string
		want        int
	}{
		{"UEFA Champions League", TierContinental},
		{"Copa Libertadores", TierContinental},
		{"Premier League", TierTopDomestic},
		{"LaLiga", TierTopDomestic},
		{"2. Bundesliga", TierTopDomestic},
		{"UEFA Europa League", TierInternational},
		{"World Cup Qualifiers - Europe", TierInternational},
		{"Regionalliga Nordost", TierOther},
		{"", TierOther},
	}
	for _, tt := range tests {
		if got := cfg.Tier(tt.competition); got != tt.want {
			t.Fatalf("Tier(%q)=%d, want %d", tt.competition, got, tt.want)
		}
	}
}

func TestTier_WomenDemotionRunsBeforePrestige(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	// These names would hit tier 1 or 2 keywords; the women's rule wins.
	for _, name := range []string{
		"UEFA Women's Champions League",
		"Women's Super League",
		"Frauen-Bundesliga",
		"Premier League Ladies Cup",
	} {
		if got := cfg.Tier(name); got != TierOther {
			t.Fatalf("Tier(%q)=%d, want %d", name, got, TierOther)
		}
	}

	// A keyword buried inside another word must not trigger the demotion:
	// "wsl" appears mid-word in "newsletter".
	if got := cfg.Tier("Newsletter Derby Premier League"); got != TierTopDomestic {
		t.Fatalf("Tier with embedded substring demoted: got %d", got)
	}
}

func TestTimeBucket(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		kickoff time.Time
		want    int
	}{
		{"in two hours", now.Add(2 * time.Hour), BucketSoon},
		{"already started", now.Add(-time.Hour), BucketSoon},
		{"tonight", time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC), BucketToday},
		{"tomorrow", time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC), BucketTomorrow},
		{"day after", time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC), BucketDayAfter},
		{"next week", time.Date(2026, 3, 21, 12, 0, 0, 0, time.UTC), BucketLater},
	}
	for _, tt := range tests {
		if got := cfg.TimeBucket(now, tt.kickoff); got != tt.want {
			t.Fatalf("%s: TimeBucket=%d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestSort_Deterministic(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	build := func() []match.Match {
		return []match.Match{
			{Key: "d", TimeBucket: BucketToday, Tier: TierTopDomestic, KickoffAt: kickoff},
			{Key: "a", TimeBucket: BucketSoon, Tier: TierOther, KickoffAt: kickoff},
			{Key: "c", TimeBucket: BucketToday, Tier: TierTopDomestic, KickoffAt: kickoff},
			{Key: "b", TimeBucket: BucketSoon, Tier: TierContinental, KickoffAt: kickoff.Add(time.Hour)},
			{Key: "e", TimeBucket: BucketSoon, Tier: TierContinental, KickoffAt: kickoff},
		}
	}

	first := build()
	Sort(first)
	want := []string{"e", "b", "a", "c", "d"}
	for i, key := range want {
		if first[i].Key != key {
			t.Fatalf("unexpected order at %d: got %q, want %q", i, first[i].Key, key)
		}
	}

	// A differently ordered copy of the same snapshot sorts identically.
	second := build()
	second[0], second[4] = second[4], second[0]
	Sort(second)
	for i := range first {
		if second[i].Key != first[i].Key {
			t.Fatalf("sort is not deterministic at %d: %q vs %q", i, second[i].Key, first[i].Key)
		}
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	matches := []match.Match{
		{Competition: "Serie A", KickoffAt: now.Add(26 * time.Hour)},
	}
	cfg.Classify(now, matches)
	if matches[0].Tier != TierTopDomestic {
		t.Fatalf("tier not stamped: %d", matches[0].Tier)
	}
	if matches[0].TimeBucket != BucketTomorrow {
		t.Fatalf("time bucket not stamped: %d", matches[0].TimeBucket)
	}
}
