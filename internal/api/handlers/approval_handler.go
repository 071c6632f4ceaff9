package handlers

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	config "github.com/maheshrc27/approvalflow/configs"
	"github.com/maheshrc27/approvalflow/internal/queue"
	"github.com/maheshrc27/approvalflow/internal/service"
	"github.com/maheshrc27/approvalflow/internal/transfer"
)

type ApprovalHandler struct {
	as          service.ApprovalService
	ss          service.SubmissionService
	cfg         config.Config
	AsynqClient *asynq.Client
}

func NewApprovalHandler(as service.ApprovalService, ss service.SubmissionService, cfg config.Config, asynqClient *asynq.Client) *ApprovalHandler {
	return &ApprovalHandler{as: as, ss: ss, cfg: cfg, AsynqClient: asynqClient}
}

// CreateSession is the internal endpoint an agency user calls to open a
// client review round. The returned share URL is what gets sent to the client.
func (h *ApprovalHandler) CreateSession(c *fiber.Ctx) error {
	var sc transfer.SessionCreation
	if err := c.BodyParser(&sc); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	if sc.TTLDays <= 0 {
		sc.TTLDays = h.cfg.ApprovalTTLDays
	}

	session, seeded, err := h.as.CreateSession(c.Context(), sc.ClientID, sc.ProjectID, sc.PostIDs, sc.TTLDays)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(transfer.SessionInfo{
		SessionID: session.ID,
		ShareURL:  fmt.Sprintf("%s/approval/%s", h.cfg.FrontendURL, session.ShareToken),
		ExpiresAt: session.ExpiresAt,
		Seeded:    seeded,
	})
}

func (h *ApprovalHandler) GetSession(c *fiber.Ctx) error {
	session, err := h.as.ValidateToken(c.Context(), c.Query("token"))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(session)
}

func (h *ApprovalHandler) ListPosts(c *fiber.Ctx) error {
	session, err := h.as.ValidateToken(c.Context(), c.Query("token"))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	posts, err := h.as.ListEligiblePosts(c.Context(), session)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to list posts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

// Submit applies a batch of decisions. The response always carries one result
// per decision; success is the AND over them, the caller decides what partial
// failure means for its UI.
func (h *ApprovalHandler) Submit(c *fiber.Ctx) error {
	session, err := h.as.ValidateToken(c.Context(), c.Query("token"))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var submission transfer.BatchSubmission
	if err := c.BodyParser(&submission); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}
	if len(submission.Decisions) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No decisions submitted",
		})
	}

	batch := h.ss.Submit(c.Context(), session, submission.Decisions)

	err = queue.EnqueueNotification(h.AsynqClient, queue.ApprovalNotifyPayload{
		SessionID: session.ID,
		ClientID:  session.ClientID,
		Results:   batch.Results,
	})
	if err != nil {
		slog.Warn(fmt.Sprintf("session %d: notification enqueue failed: %v", session.ID, err))
	}

	return c.Status(fiber.StatusOK).JSON(batch)
}
