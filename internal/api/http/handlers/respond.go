package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/deskhive/support-desk/internal/api/dto"
)

// success writes the uniform success envelope.
func success(c *fiber.Ctx, data any, message string) error {
	return c.Status(http.StatusOK).JSON(dto.Envelope{
		Status:  "success",
		Data:    data,
		Message: message,
	})
}
