package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/approvalflow/internal/service"
	"github.com/maheshrc27/approvalflow/internal/transfer"
)

type PostHandler struct {
	s service.PostService
}

func NewPostHandler(service service.PostService) *PostHandler {
	return &PostHandler{s: service}
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	postID := c.QueryInt("id", 0)

	post, err := h.s.Info(c.Context(), int64(postID))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": "Unable to find post",
		})
	}

	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) EditPost(c *fiber.Ctx) error {
	editorID := GetUserID(c)
	postID := c.QueryInt("id", 0)

	var changes transfer.PostEdit
	if err := c.BodyParser(&changes); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	post, err := h.s.ApplyEdit(c.Context(), int64(postID), editorID, &changes)
	if err != nil {
		var conflict *service.LockConflictError
		if errors.As(err, &conflict) {
			return c.Status(fiber.StatusConflict).JSON(transfer.LockConflict{
				Error:              "Post is locked by another editor",
				CurrentlyEditingBy: conflict.EditingBy,
				EditingStartedAt:   conflict.Since,
				RetryableWithForce: true,
			})
		}
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) ReleaseLock(c *fiber.Ctx) error {
	editorID := GetUserID(c)
	postID := c.QueryInt("id", 0)

	if err := h.s.ReleaseLock(c.Context(), int64(postID), editorID); err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": "Unable to release lock",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	postID := c.QueryInt("id", 0)

	if err := h.s.Remove(c.Context(), int64(postID)); err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": "Unable to remove post",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
