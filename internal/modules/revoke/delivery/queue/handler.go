// Package queue adapts the external event-delivery collaborator to the
// revoke engine.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/alumnihub/pointsledger/internal/event"
	revokeService "github.com/alumnihub/pointsledger/internal/modules/revoke/service"
)

// TaskActivityCompletedUndone is the inbound task type carrying an
// ActivityCompletedUndo payload.
const TaskActivityCompletedUndone = "activity:completed_undone"

type Handler struct {
	service revokeService.RevokeService
}

func NewHandler(service revokeService.RevokeService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) HandleActivityCompletedUndone(ctx context.Context, t *asynq.Task) error {
	var ev event.ActivityCompletedUndo
	if err := json.Unmarshal(t.Payload(), &ev); err != nil {
		return fmt.Errorf("malformed undo payload: %v: %w", err, asynq.SkipRetry)
	}
	if err := ev.Validate(); err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	return h.service.Revoke(ctx, &ev)
}
