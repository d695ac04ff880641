// Package views derives the user-facing task sets from the raw record set.
// Derivation is pure; the stored status is never rewritten to match what a
// view reports.
package views

import (
	"sort"
	"time"

	"github.com/nestly/backend/domain"
)

// Config holds the staleness windows for the past-promises view. These are
// empirically chosen product constants, injected rather than hard-coded.
type Config struct {
	UrgentAge  time.Duration // baby, health
	SlowAge    time.Duration // home_projects, maintenance
	DefaultAge time.Duration
	Ceiling    time.Duration
}

// DefaultConfig returns the shipped staleness windows.
func DefaultConfig() Config {
	return Config{
		UrgentAge:  3 * 24 * time.Hour,
		SlowAge:    7 * 24 * time.Hour,
		DefaultAge: 5 * 24 * time.Hour,
		Ceiling:    14 * 24 * time.Hour,
	}
}

func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.UrgentAge <= 0 {
		c.UrgentAge = def.UrgentAge
	}
	if c.SlowAge <= 0 {
		c.SlowAge = def.SlowAge
	}
	if c.DefaultAge <= 0 {
		c.DefaultAge = def.DefaultAge
	}
	if c.Ceiling <= 0 {
		c.Ceiling = def.Ceiling
	}
	return c
}

// ageThreshold returns the minimum age before a manual task of the given
// category counts as a past promise.
func (c Config) ageThreshold(category domain.Category) time.Duration {
	switch category {
	case domain.CategoryBaby, domain.CategoryHealth:
		return c.UrgentAge
	case domain.CategoryHomeProjects, domain.CategoryMaintenance:
		return c.SlowAge
	default:
		return c.DefaultAge
	}
}

// Visible filters out deleted, dismissed and template records. Every view
// below assumes its input already went through this boundary.
func Visible(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Visible() {
			out = append(out, t)
		}
	}
	return out
}

// Active returns tasks that are active, or snoozed with a lapsed snooze.
func Active(tasks []domain.Task, now time.Time) []domain.Task {
	var out []domain.Task
	for _, t := range tasks {
		if t.EffectiveStatus(now) == domain.StatusActive {
			out = append(out, t)
		}
	}
	return out
}

// Completed returns completed tasks, most recently completed first. A limit
// of 0 means unbounded.
func Completed(tasks []domain.Task, limit int) []domain.Task {
	var out []domain.Task
	for _, t := range tasks {
		if t.IsCompleted() {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := out[i].CompletedAt, out[j].CompletedAt
		switch {
		case ti == nil && tj == nil:
			return false
		case tj == nil:
			return true
		case ti == nil:
			return false
		default:
			return ti.After(*tj)
		}
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Projects returns live projects: isProject set and not completed or archived.
func Projects(tasks []domain.Task) []domain.Task {
	var out []domain.Task
	for _, t := range tasks {
		if !t.IsProject {
			continue
		}
		if t.Status == domain.StatusCompleted || t.Status == domain.StatusArchived {
			continue
		}
		out = append(out, t)
	}
	return out
}

// PastPromises surfaces manual, still-active tasks old enough to nag about
// but not so old they are hopeless. Duplicate titles collapse to the first
// occurrence so a recurring chore does not flood the view.
func PastPromises(tasks []domain.Task, now time.Time, cfg Config) []domain.Task {
	cfg = cfg.normalize()

	var out []domain.Task
	seen := make(map[string]bool)
	for _, t := range tasks {
		if t.Status != domain.StatusActive || t.Source != domain.SourceManual {
			continue
		}
		age := now.Sub(t.CreatedAt)
		if age <= cfg.ageThreshold(t.Category) || age >= cfg.Ceiling {
			continue
		}
		if seen[t.Title] {
			continue
		}
		seen[t.Title] = true
		out = append(out, t)
	}
	return out
}
