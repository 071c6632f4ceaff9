package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/hibiken/asynq"
)

func (q *Queue) HandleApprovalNotifyTask(ctx context.Context, task *asynq.Task) error {
	var payload ApprovalNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	return q.DeliverNotification(ctx, &payload)
}

// DeliverNotification POSTs the batch outcome to the configured webhook.
// Returning an error hands the task back to asynq for retry.
func (q *Queue) DeliverNotification(ctx context.Context, payload *ApprovalNotifyPayload) error {
	if q.cfg.WebhookURL == "" {
		log.Printf("No webhook configured, dropping notification %s", payload.NotificationID)
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, q.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := q.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	log.Printf("Notification %s delivered for session %d", payload.NotificationID, payload.SessionID)
	return nil
}
