package response

import (
	"errors"

	"checkin-bot/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// Body is the JSON envelope of the operator API
type Body struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK sends data with status 200
func OK(c *fiber.Ctx, data interface{}) error {
	return c.JSON(Body{Success: true, Data: data})
}

// Fail sends an error envelope with the given status
func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Body{Error: message})
}

// FromError maps err to a status. Only fiber errors and validation
// failures expose their message to the caller.
func FromError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return Fail(c, fe.Code, fe.Message)
	case errors.Is(err, domain.ErrValidation):
		return Fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrAuthorizationDenied):
		return Fail(c, fiber.StatusForbidden, "Insufficient role for this resource")
	case errors.Is(err, domain.ErrDirectoryUnavailable):
		return Fail(c, fiber.StatusServiceUnavailable, "Directory source unavailable")
	case errors.Is(err, domain.ErrSinkWriteFailure):
		return Fail(c, fiber.StatusServiceUnavailable, "Check-in sink unavailable")
	}
	return Fail(c, fiber.StatusInternalServerError, "Internal Server Error")
}
