// Package queue adapts the external event-delivery collaborator to the grant
// engine. Malformed payloads are dropped with SkipRetry; engine errors
// propagate so the queue retries them — the grant is idempotent, so replays
// after a timeout are safe.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/alumnihub/pointsledger/internal/event"
	grantService "github.com/alumnihub/pointsledger/internal/modules/grant/service"
)

// TaskActivityCompleted is the inbound task type carrying an
// ActivityCompleted payload.
const TaskActivityCompleted = "activity:completed"

type Handler struct {
	service grantService.GrantService
}

func NewHandler(service grantService.GrantService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) HandleActivityCompleted(ctx context.Context, t *asynq.Task) error {
	var ev event.ActivityCompleted
	if err := json.Unmarshal(t.Payload(), &ev); err != nil {
		return fmt.Errorf("malformed completion payload: %v: %w", err, asynq.SkipRetry)
	}
	if err := ev.Validate(); err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	return h.service.Grant(ctx, &ev)
}
