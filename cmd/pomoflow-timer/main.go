package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/terraincognita07/pomoflow/internal/client"
	"github.com/terraincognita07/pomoflow/internal/localstore"
	"github.com/terraincognita07/pomoflow/internal/notify"
)

func main() {
	serverURL := getEnv("POMOFLOW_SERVER", "http://localhost:8080")
	identifier := os.Getenv("POMOFLOW_IDENTIFIER")
	password := os.Getenv("POMOFLOW_PASSWORD")
	cachePath := getEnv("POMOFLOW_CACHE", localstore.DefaultPath())

	api, err := client.NewAPI(serverURL)
	if err != nil {
		log.Fatalf("invalid server url %q: %v", serverURL, err)
	}

	local := localstore.New(cachePath)
	resolver := client.NewResolver(api)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// With credentials in the environment, sign in before resolving so
	// the session cookie is already in the jar. Anything else starts as
	// a guest; a dead server does too.
	if identifier != "" && password != "" {
		if _, err := resolver.Login(ctx, identifier, password); err != nil {
			fmt.Fprintf(os.Stderr, "login failed, continuing as guest: %v\n", err)
			resolver.Resolve(ctx)
		}
	} else {
		resolver.Resolve(ctx)
	}

	tasks := client.NewTaskStore(resolver, api, local)
	cycles := client.NewCycleCounter(resolver, api, local, time.Local)
	projects := client.NewProjectStore(resolver, api)
	session := client.NewSession(tasks, cycles, notify.NewDesktopNotifier(), &notify.TerminalBell{Writer: os.Stderr}, client.DefaultDurations())

	if err := tasks.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "loading tasks: %v\n", err)
	}
	if err := cycles.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "loading cycle count: %v\n", err)
	}
	if resolver.IsAuthenticated() {
		if err := projects.Load(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "loading projects: %v\n", err)
		}
	}

	program := tea.NewProgram(newModel(resolver, tasks, cycles, projects, session), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatalf("ui exited: %v", err)
	}
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
