package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Task struct {
	ID                 string    `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"not null;index" json:"userId"`
	Text               string    `gorm:"not null" json:"text"`
	Pomodoros          int       `gorm:"not null;default:1" json:"pomodoros"`
	PomodorosCompleted int       `gorm:"not null;default:0" json:"pomodorosCompleted"`
	Completed          bool      `gorm:"not null;default:false" json:"completed"`
	ProjectID          *string   `gorm:"index;default:null" json:"projectId"`
	CreatedAt          time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt          time.Time `gorm:"not null" json:"updatedAt"`
}

func (task *Task) BeforeCreate(tx *gorm.DB) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	return nil
}

// PromoteCompletion flips the completed flag once the completed count
// reaches the target. Promotion is one-way; a task already marked done
// stays done even if counts later change.
func (task *Task) PromoteCompletion() {
	if task.PomodorosCompleted >= task.Pomodoros && !task.Completed {
		task.Completed = true
	}
}
