package handlers

import (
	"errors"
	"log"

	"matchmate/internal/services"

	"github.com/gofiber/fiber/v2"
)

// respondServiceError maps a domain error onto the HTTP contract:
// validation and conflict errors are 400 with their own message,
// ErrNotFound is 404 with the endpoint's message, ErrNotVerified is 403,
// ErrBadCredentials is 400, and anything else degrades to a generic 500
// with no internal detail exposed.
func respondServiceError(c *fiber.Ctx, err error, notFoundMsg, genericMsg string) error {
	var vErr *services.ValidationError
	var cErr *services.ConflictError
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": vErr.Message})
	case errors.As(err, &cErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": cErr.Message})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": notFoundMsg})
	case errors.Is(err, services.ErrNotVerified):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Please verify your email to log in."})
	case errors.Is(err, services.ErrBadCredentials):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Incorrect email or password."})
	default:
		log.Printf("Unexpected error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": genericMsg})
	}
}

// callerID returns the authenticated user's id from the middleware
// Locals.
func callerID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
