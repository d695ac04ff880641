package transport

// TaskCreateRequest carries the caller-supplied fields for a new task. The
// engine derives everything else; progress and lifecycle stamps are not
// accepted from the wire.
type TaskCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Source      string `json:"source"`
}

type TaskEditRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
}

type SnoozeRequest struct {
	Until string `json:"until"` // RFC3339
}

type BulkCompleteRequest struct {
	IDs []string `json:"ids"`
}

type ConvertProjectRequest struct {
	Subtasks []SubtaskRequest `json:"subtasks"`
}

type SubtaskRequest struct {
	Title string `json:"title"`
}

type SubtaskUpdateRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

type RecurrenceEvaluateRequest struct {
	Type    string `json:"type"`
	WeekDay int    `json:"week_day"`
	Days    []int  `json:"days"`
	Date    string `json:"date"` // RFC3339 or 2006-01-02
}

type PreferencesRequest struct {
	SuggestionsEnabled bool     `json:"suggestions_enabled"`
	TrackedCategories  []string `json:"tracked_categories"`
}

type ProfileUpdateRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Timezone    string `json:"timezone"`
	Status      string `json:"status"`
}

type AuthLoginRequest struct {
	UserID string `json:"user_id"`
	TTL    int    `json:"ttl_seconds"`
}

type RefreshRequest struct {
	SessionID string `json:"session_id"`
	TTL       int    `json:"ttl_seconds"`
}
