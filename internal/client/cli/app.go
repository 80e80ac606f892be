// Package cli implements the interactive duet terminal client: a small REPL
// over the auth, household and task services.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"duet/internal/client/api"
	"duet/internal/client/config"
	"duet/internal/client/push"
	"duet/internal/client/services"
	"duet/internal/client/session"
	"duet/internal/logging"
)

type App struct {
	cfg    *config.Config
	log    logging.Logger
	store  *session.Store
	client *api.Client

	auth       services.AuthService
	households services.HouseholdService
	tasks      services.TaskService

	reader      *bufio.Reader
	out         io.Writer
	pushStarted bool
}

// NewApp wires the client together: session store, API client, services.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	store, err := session.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	client := api.NewClient(cfg.ServerURL, store)
	if err := client.Restore(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	return &App{
		cfg:        cfg,
		log:        log,
		store:      store,
		client:     client,
		auth:       services.NewAuthService(client, log),
		households: services.NewHouseholdService(client),
		tasks:      services.NewTaskService(client, log, cfg.PollInterval),
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}, nil
}

func (a *App) Close() error {
	a.tasks.Stop()
	return a.store.Close()
}

// Run restores any persisted session, applies the one-shot startup inputs
// (-link, -join), and enters the REPL until EOF or "exit".
func (a *App) Run(ctx context.Context) error {
	if code := strings.TrimSpace(a.cfg.JoinCode); code != "" {
		if err := a.store.SetPendingJoinCode(ctx, strings.ToUpper(code)); err != nil {
			return err
		}
	}

	if err := a.auth.Restore(ctx); err != nil {
		return err
	}

	if a.cfg.MagicLink != "" {
		if err := a.Verify(ctx, a.cfg.MagicLink); err != nil {
			fmt.Fprintf(a.out, "Could not verify magic link: %v\n", err)
		}
	} else if a.isSignedIn() {
		a.startSession(ctx)
	}

	fmt.Fprintln(a.out, "duet: shared tasks for two (type 'help' for commands)")
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
	return nil
}

func (a *App) isSignedIn() bool {
	return a.auth.Status() == services.StatusAuthenticated
}

func (a *App) hasHousehold() bool {
	return a.households.Current() != nil
}

func (a *App) status() string {
	user := a.auth.CurrentUser()
	if user == nil {
		return ""
	}
	s := user.DisplayName()
	if hh := a.households.Current(); hh != nil {
		s += " · " + hh.Name
	}
	return fmt.Sprintf("(%s)", s)
}

// startSession brings household state up after authentication: consumes a
// pending join code, fetches the household, and activates task polling.
func (a *App) startSession(ctx context.Context) {
	a.consumePendingJoin(ctx)

	if err := a.households.Fetch(ctx); err != nil {
		if errors.Is(err, services.ErrNoHousehold) {
			fmt.Fprintln(a.out, "You are not in a household yet. Use 'create <name>' or 'join <code>'.")
		} else {
			fmt.Fprintf(a.out, "Could not load household: %v\n", err)
		}
		return
	}

	hh := a.households.Current()
	if hh == nil {
		return
	}

	a.tasks.Start(ctx, hh.ID)
	a.startPush(ctx)
}

func (a *App) consumePendingJoin(ctx context.Context) {
	user := a.auth.CurrentUser()
	if user == nil || user.HouseholdID != nil {
		return
	}

	code, err := a.store.PendingJoinCode(ctx)
	if err != nil || code == "" {
		return
	}
	// One attempt only; a bad code should not wedge every future start.
	_ = a.store.ClearPendingJoinCode(ctx)

	if _, err := a.households.Join(ctx, code); err != nil {
		fmt.Fprintf(a.out, "Could not join household with code %s: %v\n", code, err)
		return
	}
	a.auth.RefreshUser(ctx)
	fmt.Fprintf(a.out, "Joined household with invite code %s.\n", code)
}

// startPush starts the websocket change nudge when configured. The listener
// is fire-and-forget: when the connection drops, polling alone carries on.
func (a *App) startPush(ctx context.Context) {
	if !a.cfg.EnablePush || a.pushStarted {
		return
	}
	a.pushStarted = true

	listener := push.NewListener(a.cfg.ServerURL, a.client.Token(), a.log, a.tasks.Nudge)
	go func() {
		if err := listener.Run(ctx); err != nil && ctx.Err() == nil {
			a.log.Warn(ctx, "push channel closed, polling continues", "error", err)
		}
	}()
}
