package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Session is the stored login used to authenticate API and favicon requests.
type Session struct {
	Server    string    `json:"server"`
	Username  string    `json:"username,omitempty"`
	Token     string    `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Session(ctx context.Context) (Session, error) {
	var sess Session
	var username sql.NullString
	var updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT server, username, auth_token, updated_at FROM session WHERE id = 1`,
	).Scan(&sess.Server, &username, &sess.Token, &updatedAt)
	if err != nil {
		return Session{}, wrapNotFound("session", err)
	}
	sess.Username = username.String
	if t, err := parseDBTime(updatedAt); err == nil {
		sess.UpdatedAt = t
	}
	return sess, nil
}

// SaveSession replaces the stored login.
func (s *Store) SaveSession(ctx context.Context, sess Session) error {
	sess.Token = strings.TrimSpace(sess.Token)
	if sess.Token == "" {
		return fmt.Errorf("%w: auth token must be non-empty", ErrInvalidInput)
	}
	if strings.TrimSpace(sess.Server) == "" {
		return fmt.Errorf("%w: server must be non-empty", ErrInvalidInput)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session(id, server, username, auth_token, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			server = excluded.server,
			username = excluded.username,
			auth_token = excluded.auth_token,
			updated_at = excluded.updated_at
	`, sess.Server, nullIfEmpty(sess.Username), sess.Token, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// ClearSession removes the stored login. It reports ErrNotFound when there
// was none.
func (s *Store) ClearSession(ctx context.Context) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1`)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("session")
	}
	return nil
}

func nullIfEmpty(v string) any {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return v
}
