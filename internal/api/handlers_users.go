package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// IncrementUserCycles records one completed focus session. The
// day-boundary reset happens here on the server so every device a user
// runs the timer on observes the same daily count.
func (handler *Handler) IncrementUserCycles(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	cycles, err := handler.cycleService.RecordCycle(user.ID, time.Now().In(handler.location))
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to record cycle")
	}
	return c.JSON(fiber.Map{"cycles": cycles})
}

// DeleteAccount removes the account with all of its tasks and projects
// and ends the session.
func (handler *Handler) DeleteAccount(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := handler.repositories.Users.DeleteAccountAndRelatedData(user.ID); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to delete account")
	}
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}
