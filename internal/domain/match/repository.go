package match

import (
	"context"
	"time"
)

// Window filters the match list on the read path.
type Window string

const (
	WindowAll      Window = "all"
	WindowUpcoming Window = "upcoming"
	WindowLive     Window = "live"
	WindowResults  Window = "results"
)

func ParseWindow(value string) (Window, bool) {
	switch Window(value) {
	case WindowAll, WindowUpcoming, WindowLive, WindowResults, "":
		if value == "" {
			return WindowAll, true
		}
		return Window(value), true
	default:
		return "", false
	}
}

type Filter struct {
	Sport  string
	Window Window
	Now    time.Time
}

// SnapshotRepository stores the fixture cache. ReplaceAll swaps the whole
// snapshot atomically; readers never see a half-merged cycle.
type SnapshotRepository interface {
	ReplaceAll(ctx context.Context, matches []Match) error
	List(ctx context.Context, filter Filter) ([]Match, error)
	GetByKey(ctx context.Context, key string) (Match, bool, error)
	Count(ctx context.Context) (int, error)
}

// ResultRepository keeps completed fixtures across cycles so the prediction
// engine has form and head-to-head history to work with.
type ResultRepository interface {
	UpsertResults(ctx context.Context, matches []Match) error
	ListCompleted(ctx context.Context, sport string) ([]Match, error)
}

// InWindow reports whether a match belongs to the filter window. The live
// window is kickoff-3h .. kickoff+3h for a match not yet completed.
func InWindow(m Match, window Window, now time.Time) bool {
	switch window {
	case WindowUpcoming:
		return !m.Completed && m.KickoffAt.After(now)
	case WindowLive:
		return !m.Completed && !m.KickoffAt.After(now) && now.Sub(m.KickoffAt) <= 3*time.Hour
	case WindowResults:
		return m.Completed
	default:
		return true
	}
}
