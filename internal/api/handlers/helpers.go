package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/approvalflow/internal/service"
)

func GetUserID(c *fiber.Ctx) int64 {
	userID, _ := strconv.Atoi(c.Locals("user_id").(string))
	return int64(userID)
}

// statusFor maps the service error taxonomy onto HTTP statuses. Lock
// conflicts are handled separately because their body carries metadata.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrSessionExpired):
		return fiber.StatusGone
	case errors.Is(err, service.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrInvalidState):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, service.ErrValidation):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}
