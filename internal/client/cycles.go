package client

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/terraincognita07/pomoflow/internal/localstore"
	"github.com/terraincognita07/pomoflow/internal/services"
)

// CycleCounter tracks how many focus sessions finished today. The
// count resets to 1 on the first session of a new calendar day; for
// accounts the server owns that logic, for guests it runs here against
// the cached date.
type CycleCounter struct {
	resolver *Resolver
	api      *API
	local    *localstore.Store
	location *time.Location

	mu        sync.Mutex
	lastKnown int
}

func NewCycleCounter(resolver *Resolver, api *API, local *localstore.Store, location *time.Location) *CycleCounter {
	if location == nil {
		location = time.Local
	}
	return &CycleCounter{
		resolver: resolver,
		api:      api,
		local:    local,
		location: location,
	}
}

// Load seeds the counter for the current principal.
func (counter *CycleCounter) Load(ctx context.Context) error {
	if err := counter.resolver.Await(ctx); err != nil {
		return err
	}

	counter.mu.Lock()
	defer counter.mu.Unlock()

	if counter.resolver.IsAuthenticated() {
		_, principal := counter.resolver.State()
		if principal != nil {
			counter.lastKnown = principal.Cycles
		}
		return nil
	}

	cycles, updatedAt, err := counter.local.LoadCycle()
	if err != nil {
		return &TransientIOError{Message: "load guest cycle count", Err: err}
	}
	now := time.Now().In(counter.location)
	if !updatedAt.IsZero() && !services.SameCalendarDay(updatedAt.In(counter.location), now) {
		cycles = 0
	}
	counter.lastKnown = cycles
	return nil
}

// Cycles returns the last count this client observed.
func (counter *CycleCounter) Cycles() int {
	counter.mu.Lock()
	defer counter.mu.Unlock()
	return counter.lastKnown
}

// RecordCycle registers one finished focus session and returns the
// resulting count for today. For accounts the server response is
// authoritative; if the call fails the locally advanced count is
// returned alongside the error so the timer can still move on.
func (counter *CycleCounter) RecordCycle(ctx context.Context) (int, error) {
	if err := counter.resolver.Await(ctx); err != nil {
		return counter.Cycles(), err
	}

	if counter.resolver.IsAuthenticated() {
		var result struct {
			Cycles int `json:"cycles"`
		}
		err := counter.api.do(ctx, http.MethodPut, "/api/users/cycles/increment", nil, &result)

		counter.mu.Lock()
		defer counter.mu.Unlock()
		if err != nil {
			counter.lastKnown++
			return counter.lastKnown, err
		}
		counter.lastKnown = result.Cycles
		return counter.lastKnown, nil
	}

	counter.mu.Lock()
	defer counter.mu.Unlock()

	now := time.Now().In(counter.location)
	cycles, updatedAt, err := counter.local.LoadCycle()
	if err != nil {
		return counter.lastKnown, &TransientIOError{Message: "load guest cycle count", Err: err}
	}
	if !updatedAt.IsZero() && !services.SameCalendarDay(updatedAt.In(counter.location), now) {
		cycles = 0
	}
	cycles++
	if err := counter.local.SaveCycle(cycles, now); err != nil {
		return counter.lastKnown, &TransientIOError{Message: "persist guest cycle count", Err: err}
	}
	counter.lastKnown = cycles
	return cycles, nil
}
