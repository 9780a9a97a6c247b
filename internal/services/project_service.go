package services

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terraincognita07/pomoflow/internal/models"
	"gorm.io/gorm"
)

type ProjectProjectRepository interface {
	ListByUser(userID uint) ([]models.Project, error)
	FindByID(projectID string) (models.Project, error)
	ExistsByOwnerAndName(userID uint, name string, excludeID string) (bool, error)
	Create(project *models.Project) error
	Save(project *models.Project) error
	DeleteAndDetachTasks(projectID string) error
}

type ProjectService struct {
	projects ProjectProjectRepository
}

func NewProjectService(projects ProjectProjectRepository) *ProjectService {
	return &ProjectService{projects: projects}
}

func (service *ProjectService) List(userID uint) ([]models.Project, error) {
	return service.projects.ListByUser(userID)
}

func (service *ProjectService) Create(userID uint, name string, now time.Time) (models.Project, error) {
	name, err := normalizeProjectName(name)
	if err != nil {
		return models.Project{}, err
	}

	taken, err := service.projects.ExistsByOwnerAndName(userID, name, "")
	if err != nil {
		return models.Project{}, err
	}
	if taken {
		return models.Project{}, ErrDuplicateName
	}

	project := models.Project{
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := service.projects.Create(&project); err != nil {
		return models.Project{}, err
	}
	return project, nil
}

// Rename allows renaming a project to its current name as a no-op.
func (service *ProjectService) Rename(userID uint, projectID string, name string, now time.Time) (models.Project, error) {
	project, err := service.findOwned(userID, projectID)
	if err != nil {
		return models.Project{}, err
	}

	name, err = normalizeProjectName(name)
	if err != nil {
		return models.Project{}, err
	}

	if name != project.Name {
		taken, err := service.projects.ExistsByOwnerAndName(userID, name, projectID)
		if err != nil {
			return models.Project{}, err
		}
		if taken {
			return models.Project{}, ErrDuplicateName
		}
	}

	project.Name = name
	project.UpdatedAt = now
	if err := service.projects.Save(&project); err != nil {
		return models.Project{}, err
	}
	return project, nil
}

func (service *ProjectService) Delete(userID uint, projectID string) error {
	if _, err := service.findOwned(userID, projectID); err != nil {
		return err
	}
	return service.projects.DeleteAndDetachTasks(projectID)
}

func (service *ProjectService) findOwned(userID uint, projectID string) (models.Project, error) {
	project, err := service.projects.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Project{}, ErrProjectNotFound
		}
		return models.Project{}, err
	}
	if project.UserID != userID {
		return models.Project{}, ErrProjectNotOwned
	}
	return project, nil
}

func normalizeProjectName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	// Length limit counts characters, not bytes.
	if utf8.RuneCountInString(name) > models.ProjectNameMaxLength {
		return "", ErrNameTooLong
	}
	return name, nil
}
