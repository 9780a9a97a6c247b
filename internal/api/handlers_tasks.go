package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/terraincognita07/pomoflow/internal/services"
)

func (handler *Handler) GetTasks(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	tasks, err := handler.taskService.List(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load tasks")
	}
	return c.JSON(tasks)
}

func (handler *Handler) CreateTask(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := createTaskInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if input.Pomodoros == 0 {
		input.Pomodoros = 1
	}

	task, err := handler.taskService.Create(user.ID, input.Text, input.Pomodoros, input.ProjectID, time.Now().In(handler.location))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

func (handler *Handler) UpdateTask(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	taskID, err := taskIDParam(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid task id")
	}

	input := updateTaskInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	update := services.TaskUpdate{
		Text:               input.Text,
		Pomodoros:          input.Pomodoros,
		PomodorosCompleted: input.PomodorosCompleted,
		Completed:          input.Completed,
		SetProject:         input.ProjectID.Set,
		ProjectID:          input.ProjectID.Value,
	}

	task, err := handler.taskService.Update(user.ID, taskID, update, time.Now().In(handler.location))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(task)
}

func (handler *Handler) IncrementTaskPomodoro(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	taskID, err := taskIDParam(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid task id")
	}

	task, err := handler.taskService.IncrementPomodoro(user.ID, taskID, time.Now().In(handler.location))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(task)
}

func (handler *Handler) ToggleTaskCompleted(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	taskID, err := taskIDParam(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid task id")
	}

	task, err := handler.taskService.ToggleCompleted(user.ID, taskID, time.Now().In(handler.location))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(task)
}

func (handler *Handler) DeleteTask(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	taskID, err := taskIDParam(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid task id")
	}

	if err := handler.taskService.Delete(user.ID, taskID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func taskIDParam(c *fiber.Ctx) (string, error) {
	raw := c.Params("id")
	if _, err := uuid.Parse(raw); err != nil {
		return "", err
	}
	return raw, nil
}
