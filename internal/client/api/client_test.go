package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// memStore is an in-memory TokenStore for tests.
type memStore struct {
	token string
	sets  int
}

func (m *memStore) Token(ctx context.Context) (string, error) { return m.token, nil }
func (m *memStore) SetToken(ctx context.Context, token string) error {
	m.token = token
	m.sets++
	return nil
}
func (m *memStore) ClearToken(ctx context.Context) error {
	m.token = ""
	return nil
}

func TestRequestAttachesBearerToken(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"u1","email":"a@b.c","avatar_color":"#f97316","created_at":"2025-01-01T00:00:00Z"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &memStore{})
	require.NoError(t, c.SetToken(context.Background(), "sekrit"))

	_, err := c.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer sekrit", gotAuth)
	require.NotEmpty(t, gotRequestID)
}

func TestNoAuthHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"message":"ok","magic_link":"","token":""}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &memStore{})
	_, err := c.RequestMagicLink(context.Background(), "a@b.c")
	require.NoError(t, err)
	require.Empty(t, gotAuth)
}

func TestVerifyMagicLinkPersistsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/verify", r.URL.Path)
		_, _ = w.Write([]byte(`{"access_token":"session-token"}`))
	}))
	defer srv.Close()

	store := &memStore{}
	c := NewClient(srv.URL, store)

	require.NoError(t, c.VerifyMagicLink(context.Background(), "magic"))
	require.True(t, c.HasToken())
	require.Equal(t, "session-token", store.token)
}

func TestLogoutClearsTokenEvenOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := &memStore{token: "sekrit"}
	c := NewClient(srv.URL, store)
	require.NoError(t, c.Restore(context.Background()))
	require.True(t, c.HasToken())

	err := c.Logout(context.Background())
	require.Error(t, err)
	require.False(t, c.HasToken())
	require.Empty(t, store.token)
}

func TestErrorDetailAndSentinels(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		sentinel error
	}{
		{"detail message", http.StatusBadRequest, `{"detail":"Already in a household"}`, "Already in a household", nil},
		{"unauthorized", http.StatusUnauthorized, `{"detail":"Invalid or expired token"}`, "Invalid or expired token", ErrUnauthorized},
		{"not found", http.StatusNotFound, `{"detail":"Not in a household"}`, "Not in a household", ErrNotFound},
		{"no body", http.StatusBadGateway, ``, "HTTP 502 Bad Gateway", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, &memStore{})
			_, err := c.CurrentHousehold(context.Background())
			require.Error(t, err)
			require.Equal(t, tt.wantMsg, err.Error())
			if tt.sentinel != nil {
				require.ErrorIs(t, err, tt.sentinel)
			}
		})
	}
}

func TestNoContentResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &memStore{})
	require.NoError(t, c.LeaveHousehold(context.Background()))
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, &memStore{})
	_, err := c.Tasks(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestTaskActionPaths(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte(`{"id":"t1","household_id":"h1","title":"x","created_by":"u1","created_at":"2025-01-01T00:00:00Z"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &memStore{})
	ctx := context.Background()

	_, err := c.ClaimTask(ctx, "t1")
	require.NoError(t, err)
	_, err = c.UnclaimTask(ctx, "t1")
	require.NoError(t, err)
	_, err = c.CompleteTask(ctx, "t1")
	require.NoError(t, err)
	_, err = c.UncompleteTask(ctx, "t1")
	require.NoError(t, err)
	require.NoError(t, c.DeleteTask(ctx, "t1"))

	require.Equal(t, []string{
		"POST /api/tasks/t1/claim",
		"POST /api/tasks/t1/unclaim",
		"POST /api/tasks/t1/complete",
		"POST /api/tasks/t1/uncomplete",
		"DELETE /api/tasks/t1",
	}, paths)
}
