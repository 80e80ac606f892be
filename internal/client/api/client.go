// Package api wraps the household task-sharing REST backend. Client issues
// one HTTP request per backend operation, attaches the bearer token when one
// is held, and normalizes error responses into api.Error values.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"duet/internal/client/models"
)

const requestTimeout = 10 * time.Second

// TokenStore persists the session token across runs. The sqlite session
// store implements it; tests use an in-memory stub.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// API is the operation surface the services depend on. *Client is the HTTP
// implementation; tests substitute fakes.
type API interface {
	HasToken() bool
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error

	RequestMagicLink(ctx context.Context, email string) (*MagicLinkResponse, error)
	VerifyMagicLink(ctx context.Context, token string) error
	Logout(ctx context.Context) error

	Me(ctx context.Context) (*models.User, error)
	UpdateMe(ctx context.Context, update ProfileUpdate) (*models.User, error)

	CreateHousehold(ctx context.Context, name string) (*models.Household, error)
	JoinHousehold(ctx context.Context, inviteCode string) (*models.Household, error)
	CurrentHousehold(ctx context.Context) (*models.Household, error)
	LeaveHousehold(ctx context.Context) error

	Tasks(ctx context.Context) ([]models.Task, error)
	CompletedTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, title string) (*models.Task, error)
	ClaimTask(ctx context.Context, taskID string) (*models.Task, error)
	UnclaimTask(ctx context.Context, taskID string) (*models.Task, error)
	CompleteTask(ctx context.Context, taskID string) (*models.Task, error)
	UncompleteTask(ctx context.Context, taskID string) (*models.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
}

// MagicLinkResponse is the dev-mode reply to a magic-link request. In
// production deployments the backend emails the link and both MagicLink
// and Token are empty.
type MagicLinkResponse struct {
	Message   string `json:"message"`
	MagicLink string `json:"magic_link"`
	Token     string `json:"token"`
}

// ProfileUpdate carries the PATCH /api/users/me payload. Nil fields are
// left unchanged.
type ProfileUpdate struct {
	Name        *string `json:"name,omitempty"`
	AvatarColor *string `json:"avatar_color,omitempty"`
}

// Client talks to the backend over HTTP/JSON. It owns the in-memory token
// and writes every token change through the injected store.
type Client struct {
	baseURL string
	http    *http.Client
	store   TokenStore

	mu    sync.RWMutex
	token string
}

var _ API = (*Client)(nil)

// NewClient creates a Client for the given base URL. Call Restore to load
// a previously persisted token.
func NewClient(baseURL string, store TokenStore) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		store:   store,
	}
}

// Restore loads the persisted session token, if any, into memory.
func (c *Client) Restore(ctx context.Context) error {
	token, err := c.store.Token(ctx)
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	return nil
}

// HasToken reports whether a session token is currently held.
func (c *Client) HasToken() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// Token returns the session token currently held. The push listener uses it
// to authenticate its websocket subscription.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken stores the token in memory and persists it.
func (c *Client) SetToken(ctx context.Context, token string) error {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	return c.store.SetToken(ctx, token)
}

// ClearToken drops the token from memory and from the store.
func (c *Client) ClearToken(ctx context.Context) error {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
	return c.store.ClearToken(ctx)
}

// request performs a single HTTP call. A nil out skips body decoding, as
// does a 204 response.
func (c *Client) request(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Correlates client requests with backend logs.
	req.Header.Set("X-Request-ID", uuid.NewString())

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		var detail struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&detail); err == nil {
			apiErr.Detail = detail.Detail
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) RequestMagicLink(ctx context.Context, email string) (*MagicLinkResponse, error) {
	in := map[string]string{"email": email}
	var out MagicLinkResponse
	if err := c.request(ctx, http.MethodPost, "/api/auth/magic-link", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyMagicLink exchanges the single-use token for a session token and
// persists it.
func (c *Client) VerifyMagicLink(ctx context.Context, token string) error {
	in := map[string]string{"token": token}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.request(ctx, http.MethodPost, "/api/auth/verify", in, &out); err != nil {
		return err
	}
	return c.SetToken(ctx, out.AccessToken)
}

// Logout invalidates the session server-side. The local token is cleared
// whether or not the call succeeded.
func (c *Client) Logout(ctx context.Context) error {
	err := c.request(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	if cerr := c.ClearToken(ctx); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.request(ctx, http.MethodGet, "/api/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateMe(ctx context.Context, update ProfileUpdate) (*models.User, error) {
	var out models.User
	if err := c.request(ctx, http.MethodPatch, "/api/users/me", update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateHousehold(ctx context.Context, name string) (*models.Household, error) {
	in := map[string]string{"name": name}
	var out models.Household
	if err := c.request(ctx, http.MethodPost, "/api/households", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) JoinHousehold(ctx context.Context, inviteCode string) (*models.Household, error) {
	in := map[string]string{"invite_code": inviteCode}
	var out models.Household
	if err := c.request(ctx, http.MethodPost, "/api/households/join", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CurrentHousehold(ctx context.Context) (*models.Household, error) {
	var out models.Household
	if err := c.request(ctx, http.MethodGet, "/api/households/current", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) LeaveHousehold(ctx context.Context) error {
	return c.request(ctx, http.MethodPost, "/api/households/leave", nil, nil)
}

func (c *Client) Tasks(ctx context.Context) ([]models.Task, error) {
	var out []models.Task
	if err := c.request(ctx, http.MethodGet, "/api/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CompletedTasks(ctx context.Context) ([]models.Task, error) {
	var out []models.Task
	if err := c.request(ctx, http.MethodGet, "/api/tasks/completed", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTask(ctx context.Context, title string) (*models.Task, error) {
	in := map[string]string{"title": title}
	var out models.Task
	if err := c.request(ctx, http.MethodPost, "/api/tasks", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) taskAction(ctx context.Context, taskID, action string) (*models.Task, error) {
	var out models.Task
	path := "/api/tasks/" + url.PathEscape(taskID) + "/" + action
	if err := c.request(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ClaimTask(ctx context.Context, taskID string) (*models.Task, error) {
	return c.taskAction(ctx, taskID, "claim")
}

func (c *Client) UnclaimTask(ctx context.Context, taskID string) (*models.Task, error) {
	return c.taskAction(ctx, taskID, "unclaim")
}

func (c *Client) CompleteTask(ctx context.Context, taskID string) (*models.Task, error) {
	return c.taskAction(ctx, taskID, "complete")
}

func (c *Client) UncompleteTask(ctx context.Context, taskID string) (*models.Task, error) {
	return c.taskAction(ctx, taskID, "uncomplete")
}

func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.request(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(taskID), nil, nil)
}
