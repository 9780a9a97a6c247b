package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.Logout)
	auth.Get("/me", handler.AuthRequired, handler.Me)

	tasks := api.Group("/tasks", handler.AuthRequired)
	tasks.Get("", handler.GetTasks)
	tasks.Post("", handler.CreateTask)
	tasks.Put("/:id", handler.UpdateTask)
	tasks.Put("/:id/incrementPomodoro", handler.IncrementTaskPomodoro)
	tasks.Put("/:id/toggleCompleted", handler.ToggleTaskCompleted)
	tasks.Delete("/:id", handler.DeleteTask)

	projects := api.Group("/projects", handler.AuthRequired)
	projects.Get("", handler.GetProjects)
	projects.Post("", handler.ProjectPlanRequired, handler.CreateProject)
	projects.Put("/:id", handler.ProjectPlanRequired, handler.RenameProject)
	projects.Delete("/:id", handler.ProjectPlanRequired, handler.DeleteProject)

	users := api.Group("/users", handler.AuthRequired)
	users.Put("/cycles/increment", handler.IncrementUserCycles)
	users.Delete("/me", handler.DeleteAccount)
}
