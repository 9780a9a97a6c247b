package api

import (
	"time"

	"github.com/terraincognita07/pomoflow/internal/db"
	"github.com/terraincognita07/pomoflow/internal/services"
	"gorm.io/gorm"
)

type Handler struct {
	secretKey    []byte
	location     *time.Location
	cookieSecure bool

	repositories   *db.Repositories
	authService    *services.AuthService
	cycleService   *services.CycleService
	taskService    *services.TaskService
	projectService *services.ProjectService

	loginLimiter *attemptLimiter
}

func NewHandler(database *gorm.DB, secret string, location *time.Location, cookieSecure bool) *Handler {
	if location == nil {
		location = time.Local
	}

	repositories := db.NewRepositories(database)
	return &Handler{
		secretKey:      []byte(secret),
		location:       location,
		cookieSecure:   cookieSecure,
		repositories:   repositories,
		authService:    services.NewAuthService(repositories.Users),
		cycleService:   services.NewCycleService(repositories.Users, location),
		taskService:    services.NewTaskService(repositories.Tasks, repositories.Projects),
		projectService: services.NewProjectService(repositories.Projects),
		loginLimiter:   newAttemptLimiter(loginAttemptsLimit, loginAttemptsWindow),
	}
}
