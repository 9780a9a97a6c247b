package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/pomoflow/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// serviceError maps domain errors onto the HTTP taxonomy: 400 for bad
// input, 403 for ownership or plan violations, 404 for missing records.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrEmptyTaskText),
		errors.Is(err, services.ErrBadTarget),
		errors.Is(err, services.ErrBadProjectRef),
		errors.Is(err, services.ErrEmptyName),
		errors.Is(err, services.ErrNameTooLong),
		errors.Is(err, services.ErrDuplicateName):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrTaskNotOwned),
		errors.Is(err, services.ErrProjectNotOwned):
		return apiError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		return apiError(c, fiber.StatusNotFound, err.Error())
	}
	return apiError(c, fiber.StatusInternalServerError, "internal server error")
}
