package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/pomoflow/internal/db"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "pomoflow-test.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	handler := NewHandler(database, "test-secret", time.UTC, false)
	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, database
}

func performJSON(t *testing.T, app *fiber.App, cookie string, method string, path string, payload any) *http.Response {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	} else {
		body = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if cookie != "" {
		request.Header.Set("Cookie", cookie)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return response
}

func decodeJSONMap(t *testing.T, response *http.Response) map[string]any {
	t.Helper()

	defer response.Body.Close()
	decoded := map[string]any{}
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return decoded
}

func decodeJSONList(t *testing.T, response *http.Response) []map[string]any {
	t.Helper()

	defer response.Body.Close()
	var decoded []map[string]any
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response list: %v", err)
	}
	return decoded
}

func extractAuthCookie(t *testing.T, response *http.Response) string {
	t.Helper()

	for _, setCookie := range response.Header.Values("Set-Cookie") {
		if strings.HasPrefix(setCookie, "pomoflow_auth=") {
			return strings.SplitN(setCookie, ";", 2)[0]
		}
	}
	t.Fatalf("expected pomoflow_auth cookie, got %v", response.Header.Values("Set-Cookie"))
	return ""
}

// registerTestUser creates an account through the public endpoint and
// returns its auth cookie plus the decoded user summary.
func registerTestUser(t *testing.T, app *fiber.App, email string, username string) (string, map[string]any) {
	t.Helper()

	response := performJSON(t, app, "", http.MethodPost, "/api/auth/register", map[string]any{
		"email":    email,
		"username": username,
		"password": "StrongPass1",
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected register status 201, got %d", response.StatusCode)
	}
	cookie := extractAuthCookie(t, response)
	return cookie, decodeJSONMap(t, response)
}

func createTestTask(t *testing.T, app *fiber.App, cookie string, text string) map[string]any {
	t.Helper()

	response := performJSON(t, app, cookie, http.MethodPost, "/api/tasks", map[string]any{"text": text})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected create task status 201, got %d", response.StatusCode)
	}
	return decodeJSONMap(t, response)
}

func createTestProject(t *testing.T, app *fiber.App, cookie string, name string) map[string]any {
	t.Helper()

	response := performJSON(t, app, cookie, http.MethodPost, "/api/projects", map[string]any{"name": name})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected create project status 201, got %d", response.StatusCode)
	}
	return decodeJSONMap(t, response)
}
