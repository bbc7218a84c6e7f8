package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/redacaolab/redator/internal/apperr"
)

// respondError maps the error taxonomy onto HTTP statuses. Unknown errors
// surface as 500 with their message intact; the messages are already user
// facing Portuguese.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		status = fiber.StatusNotFound
	case apperr.KindForbidden:
		status = fiber.StatusForbidden
	case apperr.KindTimeout:
		status = fiber.StatusGatewayTimeout
	case apperr.KindInsufficientContent, apperr.KindUnverifiedClaim:
		status = fiber.StatusUnprocessableEntity
	case apperr.KindUpstream:
		status = fiber.StatusBadGateway
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}
