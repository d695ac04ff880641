package usecase

import (
	"context"

	"github.com/nestly/backend/domain"
)

// Write operation names shared with the buffer layer.
const (
	OperationUpsert = "upsert"
	OperationDelete = "delete"
)

// OperationBuffer abstracts the offline write buffer so use cases stay
// storage-agnostic. Buffered task writes carry the full post-change record,
// which keeps replays idempotent.
type OperationBuffer interface {
	BufferTask(ctx context.Context, operation string, task *domain.Task) error
	BufferPreferences(ctx context.Context, prefs *domain.Preferences) error
}
