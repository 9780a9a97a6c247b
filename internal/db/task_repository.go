package db

import (
	"github.com/terraincognita07/pomoflow/internal/models"
	"gorm.io/gorm"
)

type TaskRepository struct {
	database *gorm.DB
}

func NewTaskRepository(database *gorm.DB) *TaskRepository {
	return &TaskRepository{database: database}
}

// ListByUser returns the user's tasks newest-created first.
func (repo *TaskRepository) ListByUser(userID uint) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (repo *TaskRepository) FindByID(taskID string) (models.Task, error) {
	var task models.Task
	if err := repo.database.Where("id = ?", taskID).First(&task).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (repo *TaskRepository) Create(task *models.Task) error {
	return repo.database.Create(task).Error
}

func (repo *TaskRepository) Save(task *models.Task) error {
	return repo.database.Save(task).Error
}

func (repo *TaskRepository) Delete(taskID string) error {
	return repo.database.Where("id = ?", taskID).Delete(&models.Task{}).Error
}
