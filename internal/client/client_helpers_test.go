package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/terraincognita07/pomoflow/internal/localstore"
)

func writeTestJSON(t *testing.T, w http.ResponseWriter, status int, payload any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		t.Errorf("encode test response: %v", err)
	}
}

func testPrincipal() map[string]any {
	return map[string]any{
		"id":       uint(1),
		"email":    "user@example.com",
		"username": "user",
		"plan":     "trial",
		"cycles":   0,
	}
}

// newRemoteMux serves a resolvable session; tests register their own
// routes on top.
func newRemoteMux(t *testing.T) *http.ServeMux {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(t, w, http.StatusOK, testPrincipal())
	})
	return mux
}

func newAuthenticatedResolver(t *testing.T, mux *http.ServeMux) (*API, *Resolver) {
	t.Helper()

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	api, err := NewAPI(server.URL)
	if err != nil {
		t.Fatalf("new api: %v", err)
	}

	resolver := NewResolver(api)
	resolver.Resolve(context.Background())
	if !resolver.IsAuthenticated() {
		t.Fatal("expected resolver to authenticate against test server")
	}
	return api, resolver
}

func newGuestResolver(t *testing.T) *Resolver {
	t.Helper()

	resolver := NewResolver(nil)
	resolver.Resolve(context.Background())
	if resolver.IsAuthenticated() {
		t.Fatal("expected guest resolver")
	}
	return resolver
}

func newGuestStore(t *testing.T) (*TaskStore, *localstore.Store) {
	t.Helper()

	local := localstore.New(filepath.Join(t.TempDir(), "guest.json"))
	store := NewTaskStore(newGuestResolver(t), nil, local)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load guest store: %v", err)
	}
	return store, local
}
