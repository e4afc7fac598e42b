package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tengjizhang/drawer/internal/config"
	"github.com/tengjizhang/drawer/internal/favicon"
	"github.com/tengjizhang/drawer/internal/model"
	"github.com/tengjizhang/drawer/internal/opml"
	"github.com/tengjizhang/drawer/internal/remote"
	"github.com/tengjizhang/drawer/internal/sidebar"
	"github.com/tengjizhang/drawer/internal/store"
)

type App struct {
	cfg    config.Config
	db     *sql.DB
	store  *store.Store
	client *remote.Client
	logger *slog.Logger

	// explicitServer is set when --server was given on the command line.
	explicitServer bool
	sessionRemote  *remote.Client
}

func NewApp(cfg config.Config, logger *slog.Logger) (*App, error) {
	client, err := remote.NewClient(remote.Config{
		BaseURL:     cfg.ServerURL,
		HTTPTimeout: cfg.HTTPTimeout,
		UserAgent:   cfg.UserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidFlag, err)
	}
	db, err := store.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	return &App{
		cfg:    cfg,
		db:     db,
		store:  store.NewStore(db),
		client: client,
		logger: logger,
	}, nil
}

func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func requireApp(getApp func() *App) (*App, error) {
	app := getApp()
	if app == nil {
		return nil, errors.New("app not initialized")
	}
	return app, nil
}

func (a *App) tokens() store.TokenSource {
	return store.NewTokenSource(a.store, a.logger)
}

// sessionClient returns a client for the server that issued the stored
// session, so its token is never sent anywhere else. Without a session the
// configured client is used. A session from another server conflicts with
// an explicit --server.
func (a *App) sessionClient(ctx context.Context) (*remote.Client, error) {
	if a.sessionRemote != nil {
		return a.sessionRemote, nil
	}
	sess, err := a.store.Session(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return a.client, nil
	case err != nil:
		return nil, err
	}
	if sess.Server == a.client.BaseURL() {
		a.sessionRemote = a.client
		return a.client, nil
	}
	if a.explicitServer {
		return nil, fmt.Errorf("%w: stored session belongs to %s, not %s (run `drawer login` again)",
			errInvalidFlag, sess.Server, a.client.BaseURL())
	}
	c, err := remote.NewClient(remote.Config{
		BaseURL:     sess.Server,
		HTTPTimeout: a.cfg.HTTPTimeout,
		UserAgent:   a.cfg.UserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("stored session server: %w", err)
	}
	a.logger.Debug("using session server", "server", sess.Server, "configured", a.client.BaseURL())
	a.sessionRemote = c
	return c, nil
}

func (a *App) newLoader(ctx context.Context, d favicon.Dispatcher) (*favicon.Loader, error) {
	client, err := a.sessionClient(ctx)
	if err != nil {
		return nil, err
	}
	return favicon.NewLoader(client, d, favicon.Options{
		CacheSize:    a.cfg.IconCacheSize,
		FetchTimeout: a.cfg.HTTPTimeout,
		Logger:       a.logger,
	})
}

// loadPayload reads the subscription tree from input, or from the server
// with the stored session when input is empty.
func (a *App) loadPayload(ctx context.Context, input string) (*model.Payload, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		sess, err := a.store.Session(ctx)
		if err != nil {
			return nil, fmt.Errorf("not logged in (run `drawer login`): %w", err)
		}
		client, err := a.sessionClient(ctx)
		if err != nil {
			return nil, err
		}
		a.logger.Debug("fetching subscriptions", "server", client.BaseURL())
		return client.Subscriptions(ctx, sess.Token)
	}

	if isOPML(input) {
		p, err := opml.ReadTree(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", sidebar.ErrInvalidInput, err)
		}
		return p, nil
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return nil, err
	}
	var p model.Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", sidebar.ErrInvalidInput, input, err)
	}
	return &p, nil
}

func isOPML(input string) bool {
	lower := strings.ToLower(input)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return true
	}
	switch filepath.Ext(lower) {
	case ".opml", ".xml":
		return true
	}
	return false
}
