package ranking

import (
	"sort"
	"strings"
	"time"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/match"
)

const (
	TierContinental   = 1
	TierTopDomestic   = 2
	TierInternational = 3
	TierOther         = 4
)

const (
	BucketSoon     = 1
	BucketToday    = 2
	BucketTomorrow = 3
	BucketDayAfter = 4
	BucketLater    = 5
)

// Config carries the classification thresholds. The keyword tables are
// configuration rather than domain law; Default reflects the competitions
// the product currently features.
type Config struct {
	SoonWindow       time.Duration
	Tier1Keywords    []string
	Tier2Keywords    []string
	Tier3Keywords    []string
	WomenKeywords    []string
}

func DefaultConfig() Config {
	return Config{
		SoonWindow: 3 * time.Hour,
		Tier1Keywords: []string{
			"uefa champions league",
			"champions league",
			"copa libertadores",
			"fifa club world cup",
			"uefa super cup",
		},
		Tier2Keywords: []string{
			"premier league",
			"championship",
			"la liga",
			"laliga",
			"segunda division",
			"serie a",
			"serie b",
			"bundesliga",
			"2. bundesliga",
			"ligue 1",
			"ligue 2",
			"eredivisie",
			"primeira liga",
		},
		Tier3Keywords: []string{
			"europa league",
			"conference league",
			"nations league",
			"copa sudamericana",
			"afc champions league",
			"caf champions league",
			"concacaf champions cup",
			"world cup qualif",
			"euro qualif",
			"copa america",
			"gold cup",
		},
		WomenKeywords: []string{
			"women",
			"wsl",
			"nwsl",
			"femenin",
			"feminin",
			"feminine",
			"frauen",
			"ladies",
		},
	}
}

// Tier classifies a competition name into a prestige rank, 1 being highest.
// Every women's competition is placed in tier 4 before any prestige lookup
// runs; that demotion is a deliberate product rule, applied unconditionally.
// Unrecognized competitions also land in tier 4.
func (c Config) Tier(competition string) int {
	name := normalizeName(competition)
	if name == "" {
		return TierOther
	}

	for _, keyword := range c.WomenKeywords {
		if containsWord(name, keyword) {
			return TierOther
		}
	}

	for _, keyword := range c.Tier1Keywords {
		if strings.Contains(name, keyword) {
			return TierContinental
		}
	}
	for _, keyword := range c.Tier2Keywords {
		if strings.Contains(name, keyword) {
			return TierTopDomestic
		}
	}
	for _, keyword := range c.Tier3Keywords {
		if strings.Contains(name, keyword) {
			return TierInternational
		}
	}

	return TierOther
}

// TimeBucket classifies proximity to kickoff. Buckets beyond "soon" follow
// calendar days in UTC, so the assignment is a pure function of the two
// instants.
func (c Config) TimeBucket(now, kickoffAt time.Time) int {
	now = now.UTC()
	kickoffAt = kickoffAt.UTC()

	soonWindow := c.SoonWindow
	if soonWindow <= 0 {
		soonWindow = 3 * time.Hour
	}
	if kickoffAt.Sub(now) <= soonWindow {
		return BucketSoon
	}

	nowDay := now.Truncate(24 * time.Hour)
	kickoffDay := kickoffAt.Truncate(24 * time.Hour)
	switch int(kickoffDay.Sub(nowDay) / (24 * time.Hour)) {
	case 0:
		return BucketToday
	case 1:
		return BucketTomorrow
	case 2:
		return BucketDayAfter
	default:
		return BucketLater
	}
}

// Classify stamps tier and time bucket on every match.
func (c Config) Classify(now time.Time, matches []match.Match) {
	for i := range matches {
		matches[i].Tier = c.Tier(matches[i].Competition)
		matches[i].TimeBucket = c.TimeBucket(now, matches[i].KickoffAt)
	}
}

// Sort orders matches ascending by (time bucket, tier, kickoff, key). The
// key is the final component so repeated runs over the same snapshot always
// produce the same order.
func Sort(matches []match.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].TimeBucket != matches[j].TimeBucket {
			return matches[i].TimeBucket < matches[j].TimeBucket
		}
		if matches[i].Tier != matches[j].Tier {
			return matches[i].Tier < matches[j].Tier
		}
		if !matches[i].KickoffAt.Equal(matches[j].KickoffAt) {
			return matches[i].KickoffAt.Before(matches[j].KickoffAt)
		}
		return matches[i].Key < matches[j].Key
	})
}

func normalizeName(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	return strings.Join(strings.Fields(value), " ")
}

func containsWord(name, keyword string) bool {
	if keyword == "" {
		return false
	}
	idx := strings.Index(name, keyword)
	for idx >= 0 {
		before := idx == 0 || !isLetter(name[idx-1])
		if before {
			return true
		}
		next := strings.Index(name[idx+1:], keyword)
		if next < 0 {
			return false
		}
		idx = idx + 1 + next
	}
	return false
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
