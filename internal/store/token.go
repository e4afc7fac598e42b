package store

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

const tokenLookupTimeout = 2 * time.Second

// TokenSource looks up the session token synchronously. A missing session or
// a failed lookup both mean "no token".
type TokenSource struct {
	store  *Store
	logger *slog.Logger
}

func NewTokenSource(s *Store, logger *slog.Logger) TokenSource {
	if logger == nil {
		logger = slog.Default()
	}
	return TokenSource{store: s, logger: logger}
}

func (ts TokenSource) Token() (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), tokenLookupTimeout)
	defer cancel()

	sess, err := ts.store.Session(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			ts.logger.Warn("auth token lookup failed", "err", err)
		}
		return "", false
	}
	return sess.Token, true
}
