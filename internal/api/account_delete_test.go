package api

import (
	"net/http"
	"testing"

	"github.com/terraincognita07/pomoflow/internal/models"
)

func TestDeleteAccountRemovesAllData(t *testing.T) {
	t.Parallel()

	app, database := newTestApp(t)
	cookie, user := registerTestUser(t, app, "doomed@example.com", "doomed")
	userID := uint(user["id"].(float64))

	project := createTestProject(t, app, cookie, "Doomed project")
	performJSON(t, app, cookie, http.MethodPost, "/api/tasks", map[string]any{
		"text": "doomed task", "projectId": project["id"],
	}).Body.Close()

	response := performJSON(t, app, cookie, http.MethodDelete, "/api/users/me", nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected delete account status 200, got %d", response.StatusCode)
	}
	response.Body.Close()

	var users, tasks, projects int64
	if err := database.Model(&models.User{}).Where("id = ?", userID).Count(&users).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if err := database.Model(&models.Task{}).Where("user_id = ?", userID).Count(&tasks).Error; err != nil {
		t.Fatalf("count tasks: %v", err)
	}
	if err := database.Model(&models.Project{}).Where("user_id = ?", userID).Count(&projects).Error; err != nil {
		t.Fatalf("count projects: %v", err)
	}
	if users != 0 || tasks != 0 || projects != 0 {
		t.Fatalf("expected all data removed, got users=%d tasks=%d projects=%d", users, tasks, projects)
	}

	// The session is gone with the account.
	me := performJSON(t, app, cookie, http.MethodGet, "/api/auth/me", nil)
	if me.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected dead session status 401, got %d", me.StatusCode)
	}
	me.Body.Close()
}
