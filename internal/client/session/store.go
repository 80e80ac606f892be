// Package session persists small pieces of client state between runs:
// the session token and a join code supplied before authentication
// completed. Values live in a single sqlite key/value table whose schema
// is managed by embedded goose migrations.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"duet/internal/client/migrations"
	"duet/internal/filex"
)

// Storage keys. tokenKey matches the fixed key the web client used for
// localStorage so the two stores are interchangeable in spirit.
const (
	tokenKey    = "auth_token"
	joinCodeKey = "pending_join_code"
)

// Store is a sqlite-backed key/value store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the session database at dsn and applies
// pending migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if err := filex.EnsureParentDir(dsn); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value for key, or "" when the key is absent.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get session[%s]: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set session[%s]: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete session[%s]: %w", key, err)
	}
	return nil
}

// Token, SetToken and ClearToken implement api.TokenStore.

func (s *Store) Token(ctx context.Context) (string, error) {
	return s.Get(ctx, tokenKey)
}

func (s *Store) SetToken(ctx context.Context, token string) error {
	return s.Set(ctx, tokenKey, token)
}

func (s *Store) ClearToken(ctx context.Context) error {
	return s.Delete(ctx, tokenKey)
}

// PendingJoinCode returns an invite code cached before authentication
// completed, or "".
func (s *Store) PendingJoinCode(ctx context.Context) (string, error) {
	return s.Get(ctx, joinCodeKey)
}

func (s *Store) SetPendingJoinCode(ctx context.Context, code string) error {
	return s.Set(ctx, joinCodeKey, code)
}

func (s *Store) ClearPendingJoinCode(ctx context.Context) error {
	return s.Delete(ctx, joinCodeKey)
}
