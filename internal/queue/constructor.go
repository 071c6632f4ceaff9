package queue

import (
	"net/http"
	"time"

	config "github.com/maheshrc27/approvalflow/configs"
	"github.com/maheshrc27/approvalflow/internal/transfer"
)

// Queue delivers batch outcomes to the product's notification webhook. The
// core never talks to the notification service directly; everything goes
// through this asynq-backed sink.
type Queue struct {
	cfg    config.Config
	client *http.Client
}

func NewQueue(cfg config.Config) *Queue {
	return &Queue{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

const TaskTypeApprovalNotify = "approval:notify"

type ApprovalNotifyPayload struct {
	NotificationID string                    `json:"notification_id"`
	SessionID      int64                     `json:"session_id"`
	ClientID       int64                     `json:"client_id"`
	Results        []transfer.DecisionResult `json:"results"`
}
