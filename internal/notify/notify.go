package notify

import (
	"fmt"
	"io"
	"os/exec"
)

// Notifier delivers a user-facing alert when a timer interval ends.
// Failures are always non-fatal for the caller.
type Notifier interface {
	Notify(title string, body string) error
}

// Sound plays an audible alert alongside the notification.
type Sound interface {
	Play() error
}

// DesktopNotifier shells out to notify-send, the common path on Linux
// desktops. Missing binary surfaces as an error the caller may ignore.
type DesktopNotifier struct {
	AppName string
}

func NewDesktopNotifier() *DesktopNotifier {
	return &DesktopNotifier{AppName: "pomoflow"}
}

func (notifier *DesktopNotifier) Notify(title string, body string) error {
	args := []string{"-u", "normal", "-t", "10000", "-a", notifier.AppName, title}
	if body != "" {
		args = append(args, body)
	}
	return exec.Command("notify-send", args...).Run()
}

// NopNotifier discards notifications, for headless runs and tests.
type NopNotifier struct{}

func (NopNotifier) Notify(title string, body string) error { return nil }

// TerminalBell rings the terminal bell on the given writer.
type TerminalBell struct {
	Writer io.Writer
}

func (bell *TerminalBell) Play() error {
	if bell.Writer == nil {
		return nil
	}
	_, err := fmt.Fprint(bell.Writer, "\a")
	return err
}

// NopSound discards the audible alert.
type NopSound struct{}

func (NopSound) Play() error { return nil }
