package services

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/pomoflow/internal/models"
	"gorm.io/gorm"
)

type TaskTaskRepository interface {
	ListByUser(userID uint) ([]models.Task, error)
	FindByID(taskID string) (models.Task, error)
	Create(task *models.Task) error
	Save(task *models.Task) error
	Delete(taskID string) error
}

type TaskProjectRepository interface {
	FindByID(projectID string) (models.Project, error)
}

type TaskService struct {
	tasks    TaskTaskRepository
	projects TaskProjectRepository
}

func NewTaskService(tasks TaskTaskRepository, projects TaskProjectRepository) *TaskService {
	return &TaskService{tasks: tasks, projects: projects}
}

// TaskUpdate carries a partial update. Nil fields are left untouched.
// ProjectID distinguishes "absent" from "set to null" via SetProject.
type TaskUpdate struct {
	Text               *string
	Pomodoros          *int
	PomodorosCompleted *int
	Completed          *bool
	SetProject         bool
	ProjectID          *string
}

func (service *TaskService) List(userID uint) ([]models.Task, error) {
	return service.tasks.ListByUser(userID)
}

func (service *TaskService) Create(userID uint, text string, pomodoros int, projectID *string, now time.Time) (models.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Task{}, ErrEmptyTaskText
	}
	if pomodoros < 1 {
		return models.Task{}, ErrBadTarget
	}
	if projectID != nil {
		if err := service.checkProjectRef(userID, *projectID); err != nil {
			return models.Task{}, err
		}
	}

	task := models.Task{
		UserID:             userID,
		Text:               text,
		Pomodoros:          pomodoros,
		PomodorosCompleted: 0,
		Completed:          false,
		ProjectID:          projectID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := service.tasks.Create(&task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (service *TaskService) Update(userID uint, taskID string, update TaskUpdate, now time.Time) (models.Task, error) {
	task, err := service.findOwned(userID, taskID)
	if err != nil {
		return models.Task{}, err
	}

	if update.Text != nil {
		text := strings.TrimSpace(*update.Text)
		if text == "" {
			return models.Task{}, ErrEmptyTaskText
		}
		task.Text = text
	}
	if update.Pomodoros != nil {
		if *update.Pomodoros < 1 {
			return models.Task{}, ErrBadTarget
		}
		task.Pomodoros = *update.Pomodoros
	}
	if update.PomodorosCompleted != nil {
		if *update.PomodorosCompleted < 0 {
			return models.Task{}, ErrBadTarget
		}
		task.PomodorosCompleted = *update.PomodorosCompleted
	}
	if update.Completed != nil {
		task.Completed = *update.Completed
	}
	if update.SetProject {
		if update.ProjectID != nil {
			if err := service.checkProjectRef(userID, *update.ProjectID); err != nil {
				return models.Task{}, err
			}
		}
		task.ProjectID = update.ProjectID
	}

	task.PromoteCompletion()
	task.UpdatedAt = now
	if err := service.tasks.Save(&task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (service *TaskService) IncrementPomodoro(userID uint, taskID string, now time.Time) (models.Task, error) {
	task, err := service.findOwned(userID, taskID)
	if err != nil {
		return models.Task{}, err
	}

	task.PomodorosCompleted++
	task.PromoteCompletion()
	task.UpdatedAt = now
	if err := service.tasks.Save(&task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (service *TaskService) ToggleCompleted(userID uint, taskID string, now time.Time) (models.Task, error) {
	task, err := service.findOwned(userID, taskID)
	if err != nil {
		return models.Task{}, err
	}

	task.Completed = !task.Completed
	task.UpdatedAt = now
	if err := service.tasks.Save(&task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (service *TaskService) Delete(userID uint, taskID string) error {
	if _, err := service.findOwned(userID, taskID); err != nil {
		return err
	}
	return service.tasks.Delete(taskID)
}

func (service *TaskService) findOwned(userID uint, taskID string) (models.Task, error) {
	task, err := service.tasks.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}
	if task.UserID != userID {
		return models.Task{}, ErrTaskNotOwned
	}
	return task, nil
}

func (service *TaskService) checkProjectRef(userID uint, projectID string) error {
	project, err := service.projects.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBadProjectRef
		}
		return err
	}
	if project.UserID != userID {
		return ErrBadProjectRef
	}
	return nil
}
