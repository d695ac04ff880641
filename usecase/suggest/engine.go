// Package suggest proposes three daily tasks from completion history and
// time-of-day context. Steps 1-3 are deterministic for a given (history,
// preferences, now); only the final fill step draws from the injected
// random source.
package suggest

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/nestly/backend/domain"
)

// Suggestion is one proposed task. Accepting it creates a real task through
// the normal create path.
type Suggestion struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Category    domain.Category `json:"category"`
	Priority    domain.Priority `json:"priority"`
	Source      domain.Source   `json:"source"`
	Reason      string          `json:"reason"`
}

// Config tunes the engine. Zero values fall back to the shipped defaults.
type Config struct {
	// NoveltyWindow excludes any candidate whose exact title was completed
	// this recently.
	NoveltyWindow time.Duration
	// NeglectGap is the minimum gap before a tracked category counts as
	// neglected.
	NeglectGap time.Duration
	// NeverCompletedGap is the assumed gap for categories with no completion
	// history at all.
	NeverCompletedGap time.Duration
}

func (c Config) normalize() Config {
	if c.NoveltyWindow <= 0 {
		c.NoveltyWindow = 3 * 24 * time.Hour
	}
	if c.NeglectGap <= 0 {
		c.NeglectGap = 2 * 24 * time.Hour
	}
	if c.NeverCompletedGap <= 0 {
		c.NeverCompletedGap = 7 * 24 * time.Hour
	}
	return c
}

const dailyCount = 3

// Engine holds the tuning knobs and the random source for the fill step.
type Engine struct {
	cfg Config
	rng *rand.Rand
}

// NewEngine builds an engine. A nil rng gets a time-seeded source; tests
// inject a seeded one.
func NewEngine(cfg Config, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{cfg: cfg.normalize(), rng: rng}
}

// Daily produces up to three suggestions: a quick win, a pick from the most
// neglected tracked category, a contextual pick for the current time window,
// then random fills until three are reached or the pools run dry.
func (e *Engine) Daily(history []domain.Task, prefs *domain.Preferences, now time.Time) []Suggestion {
	if prefs == nil {
		prefs = domain.DefaultPreferences("")
	}

	recent := recentTitles(history, now.Add(-e.cfg.NoveltyWindow))
	chosen := make(map[string]bool)
	var out []Suggestion

	take := func(s *Suggestion) {
		if s == nil {
			return
		}
		chosen[s.Title] = true
		out = append(out, *s)
	}

	take(e.quickWin(recent, chosen))
	take(e.neglected(history, prefs, now, recent, chosen))
	take(e.contextual(now, recent, chosen))

	for len(out) < dailyCount {
		s := e.fill(out, recent, chosen)
		if s == nil {
			break
		}
		take(s)
	}

	return out
}

// quickWin walks the category precedence list and returns the first fresh
// low-effort candidate.
func (e *Engine) quickWin(recent, chosen map[string]bool) *Suggestion {
	for _, category := range quickWinOrder {
		for _, tpl := range categoryPool[category] {
			if recent[tpl.Title] || chosen[tpl.Title] {
				continue
			}
			s := toSuggestion(tpl, category, "A quick win to build momentum for the day.")
			return &s
		}
	}
	return nil
}

// neglected finds the tracked category with the widest completion gap beyond
// the configured threshold and picks a fresh candidate from it.
func (e *Engine) neglected(history []domain.Task, prefs *domain.Preferences, now time.Time, recent, chosen map[string]bool) *Suggestion {
	lastDone := make(map[domain.Category]time.Time)
	for _, t := range history {
		if !t.IsCompleted() || t.CompletedAt == nil || !prefs.Tracked(t.Category) {
			continue
		}
		if t.CompletedAt.After(lastDone[t.Category]) {
			lastDone[t.Category] = *t.CompletedAt
		}
	}

	var (
		worst    domain.Category
		worstGap time.Duration
	)
	for _, category := range prefs.TrackedCategories {
		gap := e.cfg.NeverCompletedGap
		if last, ok := lastDone[category]; ok {
			gap = now.Sub(last)
		}
		if gap > e.cfg.NeglectGap && gap > worstGap {
			worst = category
			worstGap = gap
		}
	}
	if worst == "" {
		return nil
	}

	days := int(worstGap.Hours() / 24)
	for _, tpl := range categoryPool[worst] {
		if recent[tpl.Title] || chosen[tpl.Title] {
			continue
		}
		s := toSuggestion(tpl, worst, fmt.Sprintf("Nothing done for %s in %d days.", worst, days))
		return &s
	}
	return nil
}

// contextual picks from the time-window pools: morning before 9, evening
// from 19, otherwise weekend or Friday. Outside every window the slot is
// skipped.
func (e *Engine) contextual(now time.Time, recent, chosen map[string]bool) *Suggestion {
	var (
		pool   []template
		reason string
	)
	switch {
	case now.Hour() < 9:
		pool, reason = morningPool, "A calm-morning task before the day takes over."
	case now.Hour() >= 19:
		pool, reason = eveningPool, "An evening wind-down task."
	case now.Weekday() == time.Saturday || now.Weekday() == time.Sunday:
		pool, reason = weekendPool, "Something for the weekend."
	case now.Weekday() == time.Friday:
		pool, reason = fridayPool, "Close out the week."
	default:
		return nil
	}

	for _, tpl := range pool {
		if recent[tpl.Title] || chosen[tpl.Title] {
			continue
		}
		s := toSuggestion(tpl, domain.CategoryHousehold, reason)
		return &s
	}
	return nil
}

// fill draws a random fresh candidate from whichever fill category is least
// represented among the suggestions made so far. This is the only
// non-deterministic step.
func (e *Engine) fill(current []Suggestion, recent, chosen map[string]bool) *Suggestion {
	counts := make(map[domain.Category]int)
	for _, s := range current {
		counts[s.Category]++
	}

	ordered := append([]domain.Category(nil), fillCategories...)
	for i := 0; i < len(ordered); i++ {
		least := i
		for j := i + 1; j < len(ordered); j++ {
			if counts[ordered[j]] < counts[ordered[least]] {
				least = j
			}
		}
		ordered[i], ordered[least] = ordered[least], ordered[i]
	}

	for _, category := range ordered {
		var fresh []template
		for _, tpl := range categoryPool[category] {
			if !recent[tpl.Title] && !chosen[tpl.Title] {
				fresh = append(fresh, tpl)
			}
		}
		if len(fresh) == 0 {
			continue
		}
		tpl := fresh[e.rng.Intn(len(fresh))]
		s := toSuggestion(tpl, category, fmt.Sprintf("Keeping %s in the rotation.", category))
		return &s
	}
	return nil
}

func recentTitles(history []domain.Task, cutoff time.Time) map[string]bool {
	recent := make(map[string]bool)
	for _, t := range history {
		if !t.IsCompleted() || t.CompletedAt == nil {
			continue
		}
		if t.CompletedAt.After(cutoff) {
			recent[t.Title] = true
		}
	}
	return recent
}

func toSuggestion(tpl template, category domain.Category, reason string) Suggestion {
	priority := tpl.Priority
	if priority == "" {
		priority = domain.PriorityLow
	}
	return Suggestion{
		Title:       tpl.Title,
		Description: tpl.Description,
		Category:    category,
		Priority:    priority,
		Source:      domain.SourceAIMentor,
		Reason:      reason,
	}
}
