package services

import (
	"context"
	"encoding/json"

	"github.com/nestly/backend/domain"
	"github.com/nestly/backend/internal/infrastructure/buffer"
	"github.com/nestly/backend/usecase"
)

// BufferBridge adapts the buffer processor to the usecase.OperationBuffer port.
type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferTask(ctx context.Context, operation string, task *domain.Task) error {
	if b.processor == nil || task == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}
	item := buffer.Item{
		ID:        task.ID,
		UserID:    task.UserID,
		Entity:    buffer.EntityTask,
		Operation: operation,
		Data:      payload,
		Priority:  4,
	}
	return b.processor.BufferOperation(ctx, item)
}

func (b *BufferBridge) BufferPreferences(ctx context.Context, prefs *domain.Preferences) error {
	if b.processor == nil || prefs == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	item := buffer.Item{
		UserID:    prefs.UserID,
		Entity:    buffer.EntityPreferences,
		Operation: buffer.OperationUpsert,
		Data:      payload,
		Priority:  3,
	}
	return b.processor.BufferOperation(ctx, item)
}

var _ usecase.OperationBuffer = (*BufferBridge)(nil)
