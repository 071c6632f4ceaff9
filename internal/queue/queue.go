package queue

import (
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

func EnqueueNotification(asynqClient *asynq.Client, payload ApprovalNotifyPayload) error {
	id, err := gonanoid.New()
	if err != nil {
		return err
	}
	payload.NotificationID = id

	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeApprovalNotify, taskPayload)

	_, err = asynqClient.Enqueue(task, asynq.MaxRetry(5))
	if err != nil {
		return err
	}

	log.Printf("Notification queued for session %d", payload.SessionID)
	return nil
}
