package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const ProjectNameMaxLength = 50

type Project struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_project_owner_name,unique" json:"userId"`
	Name      string    `gorm:"not null;index:idx_project_owner_name,unique" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (project *Project) BeforeCreate(tx *gorm.DB) error {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	return nil
}
