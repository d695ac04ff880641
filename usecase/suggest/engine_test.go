package suggest

import (
	"math/rand"
	"testing"
	"time"

	"github.com/nestly/backend/domain"
)

// Tuesday morning, before the 9 o'clock cutoff.
var tuesdayMorning = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	return NewEngine(Config{}, rand.New(rand.NewSource(1)))
}

func completedTask(title string, category domain.Category, completedAt time.Time) domain.Task {
	return domain.Task{
		Title:       title,
		Category:    category,
		Status:      domain.StatusCompleted,
		Completed:   true,
		CompletedAt: &completedAt,
	}
}

func titles(suggestions []Suggestion) map[string]bool {
	out := make(map[string]bool)
	for _, s := range suggestions {
		out[s.Title] = true
	}
	return out
}

func TestDailyMorningWithEmptyHistory(t *testing.T) {
	got := testEngine().Daily(nil, domain.DefaultPreferences("u1"), tuesdayMorning)

	if len(got) != 3 {
		t.Fatalf("Daily returned %d suggestions, want 3", len(got))
	}

	// Step 1: quick win from the first precedence category.
	if got[0].Title != "Take 10 minutes for yourself" {
		t.Errorf("quick win = %q", got[0].Title)
	}
	// Step 2: with no history every tracked category is equally neglected,
	// the first one listed wins.
	if got[1].Category != domain.CategoryRelationship {
		t.Errorf("neglected pick category = %q, want relationship", got[1].Category)
	}
	// Step 3: morning window.
	if got[2].Title != "Prep tonight's dinner in the morning calm" {
		t.Errorf("contextual = %q", got[2].Title)
	}

	for i, s := range got {
		if s.Source != domain.SourceAIMentor {
			t.Errorf("suggestion %d source = %q, want ai_mentor", i, s.Source)
		}
		if s.Priority == "" {
			t.Errorf("suggestion %d has no priority", i)
		}
		if s.Reason == "" {
			t.Errorf("suggestion %d has no reason", i)
		}
	}
}

func TestDailyDeterministicStepsIgnoreSeed(t *testing.T) {
	a := NewEngine(Config{}, rand.New(rand.NewSource(7))).Daily(nil, nil, tuesdayMorning)
	b := NewEngine(Config{}, rand.New(rand.NewSource(99))).Daily(nil, nil, tuesdayMorning)

	if len(a) != 3 || len(b) != 3 {
		t.Fatalf("lengths = %d, %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Title != b[i].Title {
			t.Errorf("slot %d differs across seeds: %q vs %q", i, a[i].Title, b[i].Title)
		}
	}
}

func TestDailySkipsRecentlyCompletedTitles(t *testing.T) {
	history := []domain.Task{
		completedTask("Take 10 minutes for yourself", domain.CategoryPersonal, tuesdayMorning.Add(-24*time.Hour)),
	}

	got := testEngine().Daily(history, domain.DefaultPreferences("u1"), tuesdayMorning)
	if len(got) == 0 {
		t.Fatal("no suggestions")
	}
	if got[0].Title != "Reply to that message you keep postponing" {
		t.Errorf("quick win = %q, want the next fresh candidate", got[0].Title)
	}
	if titles(got)["Take 10 minutes for yourself"] {
		t.Error("recently completed title resurfaced")
	}
}

func TestDailyAllowsTitleCompletedBeforeNoveltyWindow(t *testing.T) {
	history := []domain.Task{
		completedTask("Take 10 minutes for yourself", domain.CategoryPersonal, tuesdayMorning.Add(-4*24*time.Hour)),
	}

	got := testEngine().Daily(history, domain.DefaultPreferences("u1"), tuesdayMorning)
	if len(got) == 0 || got[0].Title != "Take 10 minutes for yourself" {
		t.Fatalf("quick win = %+v, want the title back after the novelty window", got)
	}
}

func TestDailyNeglectedPicksWidestGap(t *testing.T) {
	history := []domain.Task{
		completedTask("Laundry", domain.CategoryHousehold, tuesdayMorning.Add(-24*time.Hour)),
		completedTask("Diapers", domain.CategoryBaby, tuesdayMorning.Add(-5*24*time.Hour)),
		completedTask("Date night", domain.CategoryRelationship, tuesdayMorning.Add(-3*24*time.Hour)),
	}

	got := testEngine().Daily(history, domain.DefaultPreferences("u1"), tuesdayMorning)
	if len(got) < 2 {
		t.Fatalf("Daily returned %d suggestions", len(got))
	}
	if got[1].Category != domain.CategoryBaby {
		t.Errorf("neglected pick category = %q, want baby with the 5 day gap", got[1].Category)
	}
}

func TestDailyNeglectIgnoresUntrackedCompletions(t *testing.T) {
	prefs := domain.DefaultPreferences("u1")
	prefs.TrackedCategories = []domain.Category{domain.CategoryRelationship, domain.CategoryBaby}
	history := []domain.Task{
		completedTask("Date night", domain.CategoryRelationship, tuesdayMorning.Add(-time.Hour)),
		// Household completions fall outside the tracked set and must not
		// feed the gap scoring.
		completedTask("Laundry", domain.CategoryHousehold, tuesdayMorning.Add(-time.Hour)),
	}

	got := testEngine().Daily(history, prefs, tuesdayMorning)
	if len(got) < 2 {
		t.Fatalf("Daily returned %d suggestions", len(got))
	}
	if got[1].Category != domain.CategoryBaby {
		t.Errorf("neglected pick category = %q, want never-completed baby", got[1].Category)
	}
}

func TestDailyNoNeglectWhenEverythingRecent(t *testing.T) {
	history := []domain.Task{
		completedTask("Laundry", domain.CategoryHousehold, tuesdayMorning.Add(-time.Hour)),
		completedTask("Diapers", domain.CategoryBaby, tuesdayMorning.Add(-time.Hour)),
		completedTask("Date night", domain.CategoryRelationship, tuesdayMorning.Add(-time.Hour)),
	}

	got := testEngine().Daily(history, domain.DefaultPreferences("u1"), tuesdayMorning)
	if len(got) != 3 {
		t.Fatalf("Daily returned %d suggestions, want 3 via fill", len(got))
	}

	seen := make(map[string]bool)
	for _, s := range got {
		if seen[s.Title] {
			t.Errorf("duplicate suggestion %q", s.Title)
		}
		seen[s.Title] = true
	}
	// With the neglect slot empty the remaining picks all land in the
	// contextual/fill categories.
	for _, s := range got[1:] {
		found := false
		for _, c := range fillCategories {
			if s.Category == c {
				found = true
			}
		}
		if !found {
			t.Errorf("fill suggestion %q has category %q outside the fill set", s.Title, s.Category)
		}
	}
}

func TestContextualWindows(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"evening", time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC), "Do a 10 minute evening reset of the living room"},
		{"friday midday", time.Date(2026, 3, 13, 12, 0, 0, 0, time.UTC), "Close the week: clear your task list of leftovers"},
		{"saturday midday", time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC), "Plan one family outing for the weekend"},
		{"sunday midday", time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC), "Plan one family outing for the weekend"},
	}

	for _, tt := range tests {
		e := testEngine()
		s := e.contextual(tt.now, map[string]bool{}, map[string]bool{})
		if s == nil || s.Title != tt.want {
			t.Errorf("%s: contextual = %+v, want %q", tt.name, s, tt.want)
		}
	}

	// A plain midweek midday has no contextual window.
	wednesdayNoon := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	if s := testEngine().contextual(wednesdayNoon, map[string]bool{}, map[string]bool{}); s != nil {
		t.Errorf("midweek midday produced %+v, want nothing", s)
	}
}

func TestDailyNilPreferencesFallBackToDefaults(t *testing.T) {
	got := testEngine().Daily(nil, nil, tuesdayMorning)
	if len(got) != 3 {
		t.Fatalf("Daily with nil preferences returned %d suggestions", len(got))
	}
}
