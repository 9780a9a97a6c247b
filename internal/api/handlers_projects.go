package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (handler *Handler) GetProjects(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	projects, err := handler.projectService.List(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load projects")
	}
	return c.JSON(projects)
}

func (handler *Handler) CreateProject(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := projectNameInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	project, err := handler.projectService.Create(user.ID, input.Name, time.Now().In(handler.location))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

func (handler *Handler) RenameProject(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	projectID, err := projectIDParam(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid project id")
	}

	input := projectNameInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	project, err := handler.projectService.Rename(user.ID, projectID, input.Name, time.Now().In(handler.location))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(project)
}

func (handler *Handler) DeleteProject(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	projectID, err := projectIDParam(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid project id")
	}

	if err := handler.projectService.Delete(user.ID, projectID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func projectIDParam(c *fiber.Ctx) (string, error) {
	raw := c.Params("id")
	if _, err := uuid.Parse(raw); err != nil {
		return "", err
	}
	return raw, nil
}
