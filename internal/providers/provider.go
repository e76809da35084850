package providers

import (
	"context"
	"sort"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/domain/match"
)

// ErrProviderUnavailable marks transport or upstream availability failures.
// ErrProviderSchema marks payloads whose shape the adapter cannot read at
// all; single malformed records are skipped and counted, never escalated.
var (
	ErrProviderUnavailable = crerr.New("odds provider unavailable")
	ErrProviderSchema      = crerr.New("odds provider payload schema mismatch")
)

// Window bounds a fetch around now.
type Window struct {
	From time.Time
	To   time.Time
}

func NewWindow(now time.Time, days int) Window {
	now = now.UTC()
	return Window{From: now.Add(-48 * time.Hour), To: now.AddDate(0, 0, days)}
}

func (w Window) Contains(ts time.Time) bool {
	return !ts.Before(w.From) && !ts.After(w.To)
}

// Batch is one normalized fetch result. Skipped counts records the adapter
// dropped because they were individually malformed.
type Batch struct {
	Provider string
	Sport    string
	Matches  []match.Match
	Skipped  int
}

// Adapter pulls one upstream feed and normalizes it into domain matches.
type Adapter interface {
	Name() string
	Sports() []string
	Fetch(ctx context.Context, window Window, sport string) (Batch, error)
}

// Registry holds the configured adapters keyed by name.
type Registry struct {
	adapters map[string]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	registry := &Registry{adapters: make(map[string]Adapter, len(adapters))}
	for _, adapter := range adapters {
		registry.Register(adapter)
	}
	return registry
}

func (r *Registry) Register(adapter Adapter) {
	if adapter == nil {
		return
	}
	name := strings.ToLower(strings.TrimSpace(adapter.Name()))
	if name == "" {
		return
	}
	r.adapters[name] = adapter
}

func (r *Registry) Get(name string) (Adapter, bool) {
	adapter, ok := r.adapters[strings.ToLower(strings.TrimSpace(name))]
	return adapter, ok
}

// All returns the adapters in name order so fan-out is deterministic.
func (r *Registry) All() []Adapter {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Adapter, 0, len(names))
	for _, name := range names {
		out = append(out, r.adapters[name])
	}
	return out
}

// SupportsSport reports whether the adapter lists the sport.
func SupportsSport(adapter Adapter, sport string) bool {
	for _, supported := range adapter.Sports() {
		if strings.EqualFold(supported, sport) {
			return true
		}
	}
	return false
}
