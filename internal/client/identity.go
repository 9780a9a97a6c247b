package client

import (
	"context"
	"net/http"
	"sync"
	"time"
)

type IdentityState int

const (
	IdentityUnresolved IdentityState = iota
	IdentityGuest
	IdentityAuthenticated
)

// Principal is the server's summary of the logged-in account.
type Principal struct {
	ID               uint       `json:"id"`
	Email            string     `json:"email"`
	Username         string     `json:"username"`
	Plan             string     `json:"plan"`
	TrialStart       *time.Time `json:"trialStart"`
	Cycles           int        `json:"cycles"`
	LastPomodoroDate *time.Time `json:"lastPomodoroDate"`
}

// Resolver answers the one question every state-changing operation
// must ask first: is the acting principal a guest or an account?
//
// The answer starts out unresolved; callers go through Await before
// branching on it, otherwise a guest decision could be made for a user
// who is actually logged in. Any failure of the session check,
// including an honest 401, resolves to guest, so callers cannot tell
// "not logged in" from "check failed". That is deliberate.
type Resolver struct {
	api *API

	mu        sync.Mutex
	state     IdentityState
	principal *Principal

	resolved     chan struct{}
	resolvedOnce sync.Once
}

func NewResolver(api *API) *Resolver {
	return &Resolver{
		api:      api,
		state:    IdentityUnresolved,
		resolved: make(chan struct{}),
	}
}

// Resolve runs the session check and replaces the cached state
// atomically. It is called once at startup and again after login,
// logout and registration.
func (resolver *Resolver) Resolve(ctx context.Context) {
	if resolver.api == nil {
		resolver.setState(IdentityGuest, nil)
		return
	}

	var principal Principal
	if err := resolver.api.do(ctx, http.MethodGet, "/api/auth/me", nil, &principal); err != nil {
		resolver.setState(IdentityGuest, nil)
		return
	}
	resolver.setState(IdentityAuthenticated, &principal)
}

// Await blocks until the first resolution completes.
func (resolver *Resolver) Await(ctx context.Context) error {
	select {
	case <-resolver.resolved:
		return nil
	case <-ctx.Done():
		return &TransientIOError{Message: "identity resolution interrupted", Err: ctx.Err()}
	}
}

func (resolver *Resolver) State() (IdentityState, *Principal) {
	resolver.mu.Lock()
	defer resolver.mu.Unlock()
	return resolver.state, resolver.principal
}

func (resolver *Resolver) IsAuthenticated() bool {
	state, _ := resolver.State()
	return state == IdentityAuthenticated
}

type loginRequest struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates with an email or username identifier and, on
// success, replaces the identity state with the returned principal.
func (resolver *Resolver) Login(ctx context.Context, identifier string, password string) (*Principal, error) {
	if resolver.api == nil {
		return nil, &TransientIOError{Message: "no server configured"}
	}

	request := loginRequest{Password: password}
	if isEmailIdentifier(identifier) {
		request.Email = identifier
	} else {
		request.Username = identifier
	}

	var principal Principal
	if err := resolver.api.do(ctx, http.MethodPost, "/api/auth/login", request, &principal); err != nil {
		return nil, err
	}
	resolver.setState(IdentityAuthenticated, &principal)
	return &principal, nil
}

func (resolver *Resolver) Register(ctx context.Context, email string, username string, password string) (*Principal, error) {
	if resolver.api == nil {
		return nil, &TransientIOError{Message: "no server configured"}
	}

	var principal Principal
	request := registerRequest{Email: email, Username: username, Password: password}
	if err := resolver.api.do(ctx, http.MethodPost, "/api/auth/register", request, &principal); err != nil {
		return nil, err
	}
	resolver.setState(IdentityAuthenticated, &principal)
	return &principal, nil
}

// Logout clears the session. The local state flips to guest even when
// the remote call fails; the cookie may survive but the process stops
// acting on the account's behalf.
func (resolver *Resolver) Logout(ctx context.Context) error {
	var err error
	if resolver.api != nil {
		err = resolver.api.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	}
	resolver.setState(IdentityGuest, nil)
	return err
}

func (resolver *Resolver) setState(state IdentityState, principal *Principal) {
	resolver.mu.Lock()
	resolver.state = state
	resolver.principal = principal
	resolver.mu.Unlock()
	resolver.resolvedOnce.Do(func() { close(resolver.resolved) })
}

func isEmailIdentifier(identifier string) bool {
	for _, r := range identifier {
		if r == '@' {
			return true
		}
	}
	return false
}
