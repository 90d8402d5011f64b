package service

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskSendDirectMessage is the outbound command consumed by the external
// messaging collaborator. Fire-and-forget: no response contract.
const TaskSendDirectMessage = "messaging:direct_message"

type DirectMessagePayload struct {
	MessagingUserID string `json:"messaging_user_id"`
	Text            string `json:"text"`
}

// Messenger delivers a rendered text message to a member's messaging
// identity.
type Messenger interface {
	SendDirectMessage(ctx context.Context, messagingUserID, text string) error
}

type queueMessenger struct {
	client *asynq.Client
}

// NewQueueMessenger enqueues direct-message commands for the messaging
// worker.
func NewQueueMessenger(client *asynq.Client) Messenger {
	return &queueMessenger{client: client}
}

func (m *queueMessenger) SendDirectMessage(ctx context.Context, messagingUserID, text string) error {
	payload, err := json.Marshal(DirectMessagePayload{
		MessagingUserID: messagingUserID,
		Text:            text,
	})
	if err != nil {
		return err
	}

	_, err = m.client.EnqueueContext(ctx,
		asynq.NewTask(TaskSendDirectMessage, payload),
		asynq.Queue("low"),
		asynq.MaxRetry(3),
	)
	return err
}
