package services

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/terraincognita07/pomoflow/internal/models"
)

type TrialUserRepository interface {
	ExpireTrials(cutoff time.Time) (int64, error)
}

// TrialSweeper downgrades expired trial accounts to the free plan on a
// daily schedule. Billing and upgrades live outside this system; the
// sweep is the only plan mutation the server performs on its own.
type TrialSweeper struct {
	users    TrialUserRepository
	cron     *cron.Cron
	location *time.Location
}

func NewTrialSweeper(users TrialUserRepository, location *time.Location) *TrialSweeper {
	if location == nil {
		location = time.Local
	}
	return &TrialSweeper{
		users:    users,
		cron:     cron.New(cron.WithLocation(location)),
		location: location,
	}
}

// Start registers the nightly sweep and runs one immediately so trials
// that expired while the server was down are caught on boot.
func (sweeper *TrialSweeper) Start() error {
	if _, err := sweeper.cron.AddFunc("5 0 * * *", sweeper.sweep); err != nil {
		return err
	}
	sweeper.cron.Start()
	go sweeper.sweep()
	return nil
}

func (sweeper *TrialSweeper) Stop() {
	ctx := sweeper.cron.Stop()
	<-ctx.Done()
}

func (sweeper *TrialSweeper) sweep() {
	cutoff := time.Now().In(sweeper.location).Add(-models.TrialLength)
	downgraded, err := sweeper.users.ExpireTrials(cutoff)
	if err != nil {
		log.Printf("trial sweep failed: %v", err)
		return
	}
	if downgraded > 0 {
		log.Printf("trial sweep downgraded %d account(s) to free", downgraded)
	}
}
