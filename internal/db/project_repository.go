package db

import (
	"github.com/terraincognita07/pomoflow/internal/models"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	database *gorm.DB
}

func NewProjectRepository(database *gorm.DB) *ProjectRepository {
	return &ProjectRepository{database: database}
}

// ListByUser returns the user's projects newest-created first.
func (repo *ProjectRepository) ListByUser(userID uint) ([]models.Project, error) {
	projects := make([]models.Project, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (repo *ProjectRepository) FindByID(projectID string) (models.Project, error) {
	var project models.Project
	if err := repo.database.Where("id = ?", projectID).First(&project).Error; err != nil {
		return models.Project{}, err
	}
	return project, nil
}

// ExistsByOwnerAndName matches the name case-sensitively, excluding the
// given project ID so a rename to the current name stays a no-op.
func (repo *ProjectRepository) ExistsByOwnerAndName(userID uint, name string, excludeID string) (bool, error) {
	query := repo.database.Model(&models.Project{}).
		Where("user_id = ? AND name = ?", userID, name)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var matched int64
	if err := query.Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *ProjectRepository) Create(project *models.Project) error {
	return repo.database.Create(project).Error
}

func (repo *ProjectRepository) Save(project *models.Project) error {
	return repo.database.Save(project).Error
}

// DeleteAndDetachTasks removes the project and clears the reference on
// tasks that pointed at it, in a single transaction.
func (repo *ProjectRepository) DeleteAndDetachTasks(projectID string) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("project_id = ?", projectID).
			Update("project_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", projectID).Delete(&models.Project{}).Error
	})
}
