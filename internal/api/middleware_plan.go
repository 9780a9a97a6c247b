package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/pomoflow/internal/models"
)

// ProjectPlanRequired gates project mutations behind the trial and plus
// plans. Free accounts stay read-only; listing is not routed through
// this middleware.
func (handler *Handler) ProjectPlanRequired(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if !models.PlanAllowsProjects(user.Plan) {
		return apiError(c, fiber.StatusForbidden, "projects require a trial or plus plan")
	}
	return c.Next()
}
