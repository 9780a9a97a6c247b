package services

import (
	"time"

	"github.com/terraincognita07/pomoflow/internal/models"
)

type CycleUserRepository interface {
	FindByID(userID uint) (models.User, error)
	UpdateCycles(userID uint, cycles int, lastPomodoro time.Time) error
}

// CycleService tracks how many focus sessions a user finished today.
// The counter resets at calendar-day boundaries, compared by date
// components rather than elapsed time, so 23:59 and 00:01 land on
// different days.
type CycleService struct {
	users    CycleUserRepository
	location *time.Location
}

func NewCycleService(users CycleUserRepository, location *time.Location) *CycleService {
	if location == nil {
		location = time.Local
	}
	return &CycleService{users: users, location: location}
}

// RecordCycle registers one completed focus session and returns the new
// count for today. The first session of a new day resets the counter to
// 1, not 0: the session being recorded is itself the first of the day.
func (service *CycleService) RecordCycle(userID uint, now time.Time) (int, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		return 0, err
	}

	now = now.In(service.location)
	cycles := user.Cycles + 1
	if user.LastPomodoroDate != nil && !SameCalendarDay(user.LastPomodoroDate.In(service.location), now) {
		cycles = 1
	}

	if err := service.users.UpdateCycles(userID, cycles, now); err != nil {
		return 0, err
	}
	return cycles, nil
}

func SameCalendarDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
