// Package push implements the optional websocket change nudge. The backend
// broadcasts a small JSON message whenever household data changes; the
// listener reacts to task events by asking the task service to refresh
// immediately instead of waiting for the next poll tick. Polling remains
// the source of freshness; the nudge only shortens the staleness window.
package push

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	ws "github.com/coder/websocket"

	"duet/internal/logging"
)

// Message is a real-time sync notification. Entity names the changed kind
// ("task", "household"), Action the change ("created", "completed", ...).
type Message struct {
	Type   string `json:"type"`
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     string `json:"id,omitempty"`
}

// Listener holds a single websocket subscription to the backend.
type Listener struct {
	url     string
	token   string
	log     logging.Logger
	onEvent func()
}

// NewListener creates a Listener for the backend at serverURL. onEvent is
// invoked once per received task event.
func NewListener(serverURL, token string, log logging.Logger, onEvent func()) *Listener {
	return &Listener{
		url:     strings.TrimRight(serverURL, "/") + "/api/ws",
		token:   token,
		log:     log,
		onEvent: onEvent,
	}
}

// Run connects and reads messages until the connection fails or ctx is
// cancelled. There is no reconnect; the caller decides whether to fall back
// to plain polling (which is always running anyway).
func (l *Listener) Run(ctx context.Context) error {
	header := http.Header{}
	if l.token != "" {
		header.Set("Authorization", "Bearer "+l.token)
	}

	conn, _, err := ws.Dial(ctx, l.url, &ws.DialOptions{HTTPHeader: header})
	if err != nil {
		return err
	}
	defer conn.Close(ws.StatusNormalClosure, "")

	l.log.Info(ctx, "push channel connected", "url", l.url)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			l.log.Debug(ctx, "unparseable push message", "error", err)
			continue
		}

		if msg.Entity == "task" {
			l.log.Debug(ctx, "task change notification", "action", msg.Action, "id", msg.ID)
			l.onEvent()
		}
	}
}
