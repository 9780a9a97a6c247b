package client

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/terraincognita07/pomoflow/internal/models"
)

// ProjectStore manages the project list. Projects exist only for
// accounts on a trial or plus plan; guests get an authorization error
// before any network traffic, and plan enforcement proper happens on
// the server.
type ProjectStore struct {
	resolver *Resolver
	api      *API

	mu       sync.Mutex
	projects []models.Project
}

func NewProjectStore(resolver *Resolver, api *API) *ProjectStore {
	return &ProjectStore{resolver: resolver, api: api, projects: []models.Project{}}
}

func (store *ProjectStore) requireAccount(ctx context.Context) error {
	if err := store.resolver.Await(ctx); err != nil {
		return err
	}
	if !store.resolver.IsAuthenticated() {
		return &AuthorizationError{Message: "projects require an account"}
	}
	return nil
}

func (store *ProjectStore) Load(ctx context.Context) error {
	if err := store.requireAccount(ctx); err != nil {
		return err
	}
	var projects []models.Project
	if err := store.api.do(ctx, http.MethodGet, "/api/projects", nil, &projects); err != nil {
		return err
	}
	store.mu.Lock()
	store.projects = projects
	store.mu.Unlock()
	return nil
}

func (store *ProjectStore) Projects() []models.Project {
	store.mu.Lock()
	defer store.mu.Unlock()
	cloned := make([]models.Project, len(store.projects))
	copy(cloned, store.projects)
	return cloned
}

func (store *ProjectStore) Create(ctx context.Context, name string) (models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Project{}, &ValidationError{Message: "project name must not be empty"}
	}
	if err := store.requireAccount(ctx); err != nil {
		return models.Project{}, err
	}
	var created models.Project
	body := map[string]any{"name": name}
	if err := store.api.do(ctx, http.MethodPost, "/api/projects", body, &created); err != nil {
		return models.Project{}, err
	}
	store.mu.Lock()
	store.projects = append(store.projects, created)
	store.mu.Unlock()
	return created, nil
}

func (store *ProjectStore) Rename(ctx context.Context, projectID string, name string) (models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Project{}, &ValidationError{Message: "project name must not be empty"}
	}
	if err := store.requireAccount(ctx); err != nil {
		return models.Project{}, err
	}
	var renamed models.Project
	body := map[string]any{"name": name}
	if err := store.api.do(ctx, http.MethodPut, "/api/projects/"+projectID, body, &renamed); err != nil {
		return models.Project{}, err
	}
	store.mu.Lock()
	for index := range store.projects {
		if store.projects[index].ID == projectID {
			store.projects[index] = renamed
		}
	}
	store.mu.Unlock()
	return renamed, nil
}

func (store *ProjectStore) Delete(ctx context.Context, projectID string) error {
	if err := store.requireAccount(ctx); err != nil {
		return err
	}
	if err := store.api.do(ctx, http.MethodDelete, "/api/projects/"+projectID, nil, nil); err != nil {
		return err
	}
	store.mu.Lock()
	remaining := store.projects[:0]
	for _, project := range store.projects {
		if project.ID != projectID {
			remaining = append(remaining, project)
		}
	}
	store.projects = remaining
	store.mu.Unlock()
	return nil
}
