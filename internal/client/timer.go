package client

import (
	"context"
	"sync"
	"time"

	"github.com/terraincognita07/pomoflow/internal/notify"
)

type SessionState int

const (
	StateFocus SessionState = iota
	StateShortBreak
	StateLongBreak
)

func (state SessionState) String() string {
	switch state {
	case StateShortBreak:
		return "short break"
	case StateLongBreak:
		return "long break"
	default:
		return "focus"
	}
}

// Durations configures the three interval lengths.
type Durations struct {
	Focus      time.Duration
	ShortBreak time.Duration
	LongBreak  time.Duration
}

func DefaultDurations() Durations {
	return Durations{
		Focus:      25 * time.Minute,
		ShortBreak: 5 * time.Minute,
		LongBreak:  15 * time.Minute,
	}
}

func (durations Durations) of(state SessionState) time.Duration {
	switch state {
	case StateShortBreak:
		return durations.ShortBreak
	case StateLongBreak:
		return durations.LongBreak
	default:
		return durations.Focus
	}
}

// longBreakEvery is the cycle interval after which the long break is
// offered instead of the short one.
const longBreakEvery = 4

// Session is the pomodoro state machine. The caller drives it with
// one-second Tick calls; the session itself owns no goroutine, which
// keeps it easy to embed in an event loop and to test.
//
// Side effects of a finished focus interval, recording the cycle and
// bumping the selected task, are best-effort: their failure is kept in
// Err but never blocks the transition to the break.
type Session struct {
	tasks    *TaskStore
	cycles   *CycleCounter
	notifier notify.Notifier
	sound    notify.Sound

	mu             sync.Mutex
	durations      Durations
	state          SessionState
	remaining      time.Duration
	running        bool
	selectedTaskID string
	lastErr        error
}

func NewSession(tasks *TaskStore, cycles *CycleCounter, notifier notify.Notifier, sound notify.Sound, durations Durations) *Session {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	if sound == nil {
		sound = notify.NopSound{}
	}
	return &Session{
		tasks:     tasks,
		cycles:    cycles,
		notifier:  notifier,
		sound:     sound,
		durations: durations,
		state:     StateFocus,
		remaining: durations.Focus,
	}
}

func (session *Session) State() SessionState {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.state
}

func (session *Session) Remaining() time.Duration {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.remaining
}

func (session *Session) Running() bool {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.running
}

// Err returns the last best-effort failure, if any, and clears it.
func (session *Session) Err() error {
	session.mu.Lock()
	defer session.mu.Unlock()
	err := session.lastErr
	session.lastErr = nil
	return err
}

// SelectTask points the timer at the task whose pomodoro count should
// advance when a focus interval completes. An empty id detaches.
func (session *Session) SelectTask(taskID string) {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.selectedTaskID = taskID
}

func (session *Session) Start() {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.remaining > 0 {
		session.running = true
	}
}

// Pause freezes the countdown in place. Start resumes from the same
// remaining time.
func (session *Session) Pause() {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.running = false
}

// SwitchMode jumps to the given interval, stopped, with the full
// duration restored. Switching away from a running focus interval
// abandons it without recording anything.
func (session *Session) SwitchMode(state SessionState) {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.running = false
	session.state = state
	session.remaining = session.durations.of(state)
}

// Tick advances the countdown by one second. When an interval reaches
// zero it completes: a focus interval records the cycle and advances
// the selected task, then hands over to the short break, or the long
// one after every fourth cycle of the day; breaks hand back to focus.
// The next interval starts paused.
func (session *Session) Tick(ctx context.Context) {
	session.mu.Lock()
	if !session.running {
		session.mu.Unlock()
		return
	}
	session.remaining -= time.Second
	if session.remaining > 0 {
		session.mu.Unlock()
		return
	}
	session.remaining = 0
	session.running = false
	finished := session.state
	taskID := session.selectedTaskID
	session.mu.Unlock()

	// Network calls run outside the lock so readers stay responsive.
	session.completeInterval(ctx, finished, taskID)
}

func (session *Session) completeInterval(ctx context.Context, finished SessionState, taskID string) {
	next := StateFocus
	if finished == StateFocus {
		count, err := session.cycles.RecordCycle(ctx)
		if err != nil {
			session.recordErr(err)
		}
		if taskID != "" {
			if err := session.tasks.IncrementPomodoro(ctx, taskID); err != nil {
				session.recordErr(err)
			}
		}
		if count > 0 && count%longBreakEvery == 0 {
			next = StateLongBreak
		} else {
			next = StateShortBreak
		}
	}

	session.announce(finished, next)

	session.mu.Lock()
	session.state = next
	session.remaining = session.durations.of(next)
	session.mu.Unlock()
}

func (session *Session) announce(finished SessionState, next SessionState) {
	title := "Focus finished"
	body := "Time for a " + next.String() + "."
	if finished != StateFocus {
		title = "Break over"
		body = "Back to focus."
	}
	if err := session.notifier.Notify(title, body); err != nil {
		session.recordErr(err)
	}
	if err := session.sound.Play(); err != nil {
		session.recordErr(err)
	}
}

func (session *Session) recordErr(err error) {
	session.mu.Lock()
	session.lastErr = err
	session.mu.Unlock()
}
