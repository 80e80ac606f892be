// Package services contains the application services of the duet client:
// authentication state, household membership, and the task synchronization
// core. Each service wraps the API client and owns a mutex-guarded local
// copy of backend state; the REPL and the poller touch them from different
// goroutines.
package services

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"duet/internal/client/api"
	"duet/internal/client/models"
	"duet/internal/logging"
)

// Status is the authentication state of the client.
type Status string

const (
	StatusUnauthenticated Status = "unauthenticated"
	StatusLoading         Status = "loading"
	StatusAuthenticated   Status = "authenticated"
)

// AuthService tracks the current user and drives the magic-link flow.
//
// Contract:
//   - Restore: on start, exchange a persisted token for the current user;
//     an invalid token is cleared silently.
//   - SignIn: request a magic link for an email; in dev deployments the
//     backend returns the link and token directly.
//   - Verify: exchange a magic-link token for a session token and load the
//     user. Accepts either a bare token or a full link with ?token=.
//   - SignOut: revoke server-side state, then reset locally regardless.
//   - UpdateProfile: patch name/color and merge the result.
//   - RefreshUser: silent re-fetch, failures swallowed.
type AuthService interface {
	Restore(ctx context.Context) error
	SignIn(ctx context.Context, email string) (*api.MagicLinkResponse, error)
	Verify(ctx context.Context, token string) error
	SignOut(ctx context.Context)
	UpdateProfile(ctx context.Context, name, avatarColor *string) error
	RefreshUser(ctx context.Context)
	Status() Status
	CurrentUser() *models.User
}

type authService struct {
	client api.API
	log    logging.Logger

	mu     sync.RWMutex
	status Status
	user   *models.User
}

// NewAuthService constructs an AuthService bound to the given API client.
func NewAuthService(client api.API, log logging.Logger) AuthService {
	return &authService{client: client, log: log, status: StatusUnauthenticated}
}

func (a *authService) setState(status Status, user *models.User) {
	a.mu.Lock()
	a.status = status
	a.user = user
	a.mu.Unlock()
}

func (a *authService) Restore(ctx context.Context) error {
	if !a.client.HasToken() {
		a.setState(StatusUnauthenticated, nil)
		return nil
	}

	a.setState(StatusLoading, nil)

	user, err := a.client.Me(ctx)
	if err != nil {
		// Stored token no longer valid. Treated as "not signed in",
		// not surfaced as an error.
		if cerr := a.client.ClearToken(ctx); cerr != nil {
			a.log.Warn(ctx, "clearing stale token failed", "error", cerr)
		}
		a.setState(StatusUnauthenticated, nil)
		return nil
	}

	a.setState(StatusAuthenticated, user)
	return nil
}

func (a *authService) SignIn(ctx context.Context, email string) (*api.MagicLinkResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmptyEmail
	}
	return a.client.RequestMagicLink(ctx, email)
}

func (a *authService) Verify(ctx context.Context, token string) error {
	token = ExtractToken(token)
	if token == "" {
		return ErrEmptyToken
	}

	if err := a.client.VerifyMagicLink(ctx, token); err != nil {
		return err
	}
	return a.Restore(ctx)
}

// SignOut revokes the session server-side and resets local state. The local
// reset happens even when the revoke call fails; the failure is only logged.
func (a *authService) SignOut(ctx context.Context) {
	if err := a.client.Logout(ctx); err != nil {
		a.log.Warn(ctx, "logout request failed", "error", err)
	}
	a.setState(StatusUnauthenticated, nil)
}

func (a *authService) UpdateProfile(ctx context.Context, name, avatarColor *string) error {
	user, err := a.client.UpdateMe(ctx, api.ProfileUpdate{Name: name, AvatarColor: avatarColor})
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.user = user
	a.mu.Unlock()
	return nil
}

// RefreshUser re-fetches the current user and merges it into local state,
// swallowing failures. Used after side-effecting flows like household join,
// which change the user's household reference.
func (a *authService) RefreshUser(ctx context.Context) {
	if !a.client.HasToken() {
		return
	}
	user, err := a.client.Me(ctx)
	if err != nil {
		a.log.Debug(ctx, "user refresh failed", "error", err)
		return
	}

	a.mu.Lock()
	if a.status == StatusAuthenticated {
		a.user = user
	}
	a.mu.Unlock()
}

func (a *authService) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

func (a *authService) CurrentUser() *models.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return nil
	}
	u := *a.user
	return &u
}

// ExtractToken accepts either a bare magic-link token or a full magic link
// and returns the token. A link carries it as the "token" query parameter.
func ExtractToken(s string) string {
	s = strings.TrimSpace(s)
	if u, err := url.Parse(s); err == nil {
		if t := u.Query().Get("token"); t != "" {
			return t
		}
	}
	return s
}
