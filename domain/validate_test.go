package domain

import (
	"strings"
	"testing"
)

func TestNormalizeNewTaskDefaults(t *testing.T) {
	task, err := NormalizeNewTask(TaskInput{
		UserID: "u1",
		Title:  "  Buy diapers  ",
	})
	if err != nil {
		t.Fatalf("NormalizeNewTask: %v", err)
	}

	if task.Title != "Buy diapers" {
		t.Errorf("title not trimmed: %q", task.Title)
	}
	if task.Category != CategoryPersonal {
		t.Errorf("category = %q, want %q", task.Category, CategoryPersonal)
	}
	if task.Priority != PriorityMedium {
		t.Errorf("priority = %q, want %q", task.Priority, PriorityMedium)
	}
	if task.Status != StatusActive {
		t.Errorf("status = %q, want %q", task.Status, StatusActive)
	}
	if task.Source != SourceManual {
		t.Errorf("source = %q, want %q", task.Source, SourceManual)
	}
	if task.IsProject || task.Progress != 0 || task.Subtasks != nil {
		t.Error("project fields not fresh")
	}
	if task.Completed || task.CompletedAt != nil || task.SnoozedUntil != nil {
		t.Error("lifecycle stamps not fresh")
	}
	if task.Dismissed || task.Deleted {
		t.Error("visibility flags not fresh")
	}
}

func TestNormalizeNewTaskCollectsAllViolations(t *testing.T) {
	_, err := NormalizeNewTask(TaskInput{
		UserID:   "",
		Title:    "",
		Category: "gardening",
		Priority: "urgent",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsDomainError(err, ErrCodeInvalid) {
		t.Fatalf("error code: %v", err)
	}

	msg := err.Error()
	for _, want := range []string{"user_id", "title", "gardening", "urgent"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing violation mentioning %q", msg, want)
		}
	}
}

func TestNormalizeNewTaskLengthLimits(t *testing.T) {
	longTitle := strings.Repeat("x", MaxTitleLength+1)
	if _, err := NormalizeNewTask(TaskInput{UserID: "u1", Title: longTitle}); !IsDomainError(err, ErrCodeInvalid) {
		t.Errorf("over-long title accepted: %v", err)
	}

	exactTitle := strings.Repeat("x", MaxTitleLength)
	if _, err := NormalizeNewTask(TaskInput{UserID: "u1", Title: exactTitle}); err != nil {
		t.Errorf("title at limit rejected: %v", err)
	}

	// Limits count runes, not bytes.
	runeTitle := strings.Repeat("ä", MaxTitleLength)
	if _, err := NormalizeNewTask(TaskInput{UserID: "u1", Title: runeTitle}); err != nil {
		t.Errorf("multibyte title at limit rejected: %v", err)
	}

	longDesc := strings.Repeat("x", MaxDescriptionLength+1)
	if _, err := NormalizeNewTask(TaskInput{UserID: "u1", Title: "ok", Description: longDesc}); !IsDomainError(err, ErrCodeInvalid) {
		t.Errorf("over-long description accepted: %v", err)
	}
}

func TestNormalizeNewTaskWhitespaceOnlyTitle(t *testing.T) {
	if _, err := NormalizeNewTask(TaskInput{UserID: "u1", Title: "   "}); !IsDomainError(err, ErrCodeInvalid) {
		t.Fatalf("whitespace-only title accepted: %v", err)
	}
}

func TestValidateEdit(t *testing.T) {
	good := "New title"
	empty := "  "
	long := strings.Repeat("x", MaxTitleLength+1)
	badCategory := Category("gardening")
	goodCategory := CategoryBaby
	badPriority := Priority("urgent")

	if err := ValidateEdit(&good, nil, &goodCategory, nil); err != nil {
		t.Errorf("valid edit rejected: %v", err)
	}
	if err := ValidateEdit(nil, nil, nil, nil); err != nil {
		t.Errorf("no-op edit rejected: %v", err)
	}
	if err := ValidateEdit(&empty, nil, nil, nil); !IsDomainError(err, ErrCodeInvalid) {
		t.Errorf("empty title accepted: %v", err)
	}
	if err := ValidateEdit(&long, nil, nil, nil); !IsDomainError(err, ErrCodeInvalid) {
		t.Errorf("over-long title accepted: %v", err)
	}
	if err := ValidateEdit(nil, nil, &badCategory, &badPriority); !IsDomainError(err, ErrCodeInvalid) {
		t.Errorf("bad enums accepted: %v", err)
	}
}
