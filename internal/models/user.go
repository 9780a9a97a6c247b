package models

import "time"

const (
	PlanFree  = "free"
	PlanTrial = "trial"
	PlanPlus  = "plus"
)

// TrialLength is how long a trial plan stays active before the daily
// sweep downgrades the account to the free plan.
const TrialLength = 14 * 24 * time.Hour

type User struct {
	ID               uint       `gorm:"primaryKey"`
	Email            string     `gorm:"uniqueIndex;not null"`
	Username         string     `gorm:"uniqueIndex;not null"`
	PasswordHash     string     `gorm:"not null"`
	Plan             string     `gorm:"not null;default:free"`
	TrialStart       *time.Time `gorm:"default:null"`
	Cycles           int        `gorm:"not null;default:0"`
	LastPomodoroDate *time.Time `gorm:"default:null"`
	CreatedAt        time.Time  `gorm:"not null"`
}

// PlanAllowsProjects reports whether the plan may create, rename or
// delete projects. Free accounts keep read access to projects they
// already own.
func PlanAllowsProjects(plan string) bool {
	return plan == PlanTrial || plan == PlanPlus
}
