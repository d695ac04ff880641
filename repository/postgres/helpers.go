package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nestly/backend/domain"
	"github.com/nestly/backend/repository"
)

func marshalSubtasks(subtasks []domain.Subtask) []byte {
	if len(subtasks) == 0 {
		return []byte("[]")
	}
	b, err := json.Marshal(subtasks)
	if err != nil {
		return []byte("[]")
	}
	return b
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 500
	}
	return limit
}

// classify maps infrastructure failures to the UNAVAILABLE class so callers
// can tell a down store apart from a caller mistake.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.WrapError(domain.ErrCodeUnavailable, "store call timed out", err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08 covers connection exceptions, 57 operator intervention
		// (shutdown), 53 insufficient resources.
		class := ""
		if len(pgErr.Code) >= 2 {
			class = pgErr.Code[:2]
		}
		switch class {
		case "08", "53", "57":
			return domain.WrapError(domain.ErrCodeUnavailable, "postgres unavailable", err)
		}
		return err
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return domain.WrapError(domain.ErrCodeUnavailable, "postgres connection failed", err)
	}
	return err
}

// buildPatch renders a TaskPatch as SET clauses. Argument numbering starts at
// startArg; updated_at is always bumped.
func buildPatch(patch repository.TaskPatch, startArg int) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
		n       = startArg
	)

	add := func(column string, value interface{}) {
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Category != nil {
		add("category", string(*patch.Category))
	}
	if patch.Priority != nil {
		add("priority", string(*patch.Priority))
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.IsProject != nil {
		add("is_project", *patch.IsProject)
	}
	if patch.Subtasks != nil {
		add("subtasks", marshalSubtasks(*patch.Subtasks))
	}
	if patch.Progress != nil {
		add("progress", *patch.Progress)
	}
	if patch.Completed != nil {
		add("completed", *patch.Completed)
	}
	if patch.CompletedAt != nil {
		if *patch.CompletedAt == nil {
			add("completed_at", nil)
		} else {
			add("completed_at", **patch.CompletedAt)
		}
	}
	if patch.SnoozedUntil != nil {
		if *patch.SnoozedUntil == nil {
			add("snoozed_until", nil)
		} else {
			add("snoozed_until", **patch.SnoozedUntil)
		}
	}
	if patch.Dismissed != nil {
		add("dismissed", *patch.Dismissed)
	}
	if patch.Deleted != nil {
		add("deleted", *patch.Deleted)
	}

	clauses = append(clauses, "updated_at = NOW()")
	return strings.Join(clauses, ",\n\t\t"), args
}
