package domain

import "time"

// Preferences holds per-user suggestion settings. Absent preferences fall
// back to DefaultPreferences.
type Preferences struct {
	UserID             string     `json:"user_id"`
	SuggestionsEnabled bool       `json:"suggestions_enabled"`
	TrackedCategories  []Category `json:"tracked_categories,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// DefaultPreferences returns the settings applied when a user never saved any.
func DefaultPreferences(userID string) *Preferences {
	return &Preferences{
		UserID:             userID,
		SuggestionsEnabled: true,
		TrackedCategories: []Category{
			CategoryRelationship,
			CategoryBaby,
			CategoryHousehold,
		},
	}
}

// Tracked reports whether the category participates in neglect scoring.
func (p *Preferences) Tracked(c Category) bool {
	if p == nil {
		return false
	}
	for _, tc := range p.TrackedCategories {
		if tc == c {
			return true
		}
	}
	return false
}
