package favicon

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/tengjizhang/drawer/internal/sidebar"
)

const (
	defaultCacheSize    = 256
	defaultFetchTimeout = 15 * time.Second
)

// Source downloads raw favicon bytes; *remote.Client implements it.
type Source interface {
	Favicon(ctx context.Context, path, token string) ([]byte, string, error)
}

type Options struct {
	CacheSize    int
	IconSize     int
	FetchTimeout time.Duration
	Logger       *slog.Logger
}

// Loader resolves subscription favicons off the UI goroutine and hands the
// results back through a Dispatcher. Decoded icons are kept in an LRU cache
// keyed by path, and concurrent requests for the same path share one fetch.
type Loader struct {
	source     Source
	dispatcher Dispatcher
	cache      *lru.Cache[string, image.Image]
	group      singleflight.Group
	size       int
	timeout    time.Duration
	logger     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func NewLoader(source Source, dispatcher Dispatcher, opts Options) (*Loader, error) {
	if opts.CacheSize < 1 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.IconSize < 1 {
		opts.IconSize = DefaultSize
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	cache, err := lru.New[string, image.Image](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create favicon cache: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		source:     source,
		dispatcher: dispatcher,
		cache:      cache,
		size:       opts.IconSize,
		timeout:    opts.FetchTimeout,
		logger:     opts.Logger,
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

// Load binds slot to the favicon of req. It must be called on the UI
// goroutine and returns at once: a cached icon is shown directly with no
// transition, otherwise the placeholder is shown until the fetch completes.
// A result arriving after slot has been rebound is discarded.
func (l *Loader) Load(slot *sidebar.ImageSlot, req sidebar.IconRequest) {
	generation := slot.Begin()
	if img, ok := l.cache.Get(req.Path); ok {
		slot.Set(img, sidebar.TransitionNone)
		return
	}
	slot.Set(req.Placeholder, sidebar.TransitionNone)

	go func() {
		img, err := l.Fetch(l.ctx, req.Path, req.Token)
		if l.ctx.Err() != nil {
			return
		}
		transition := req.Transition
		if err != nil {
			l.logger.Debug("favicon fetch failed", "path", req.Path, "err", err)
			img, transition = req.Fallback, sidebar.TransitionNone
		}
		l.dispatcher.Post(func() {
			if !slot.Apply(generation, img, transition) {
				l.logger.Debug("discarding favicon for rebound view", "path", req.Path)
			}
		})
	}()
}

// Fetch returns the scaled favicon at path, from the cache when resident.
func (l *Loader) Fetch(ctx context.Context, path, token string) (image.Image, error) {
	if img, ok := l.cache.Get(path); ok {
		return img, nil
	}
	v, err, _ := l.group.Do(path, func() (any, error) {
		ctx, cancel := context.WithTimeout(ctx, l.timeout)
		defer cancel()

		data, _, err := l.source.Favicon(ctx, path, token)
		if err != nil {
			return nil, err
		}
		img, err := Decode(data)
		if err != nil {
			return nil, err
		}
		img = Scale(img, l.size)
		l.cache.Add(path, img)
		return img, nil
	})
	if err != nil {
		return nil, fmt.Errorf("favicon %s: %w", path, err)
	}
	return v.(image.Image), nil
}

// Cached reports whether the icon at path is resident.
func (l *Loader) Cached(path string) bool {
	return l.cache.Contains(path)
}

// Close abandons in-flight fetches; their results are never dispatched.
func (l *Loader) Close() {
	l.cancel()
}
