// Package imagecache loads avatar images without blocking the draw pass.
//
// A renderer asks for an image with LoadOrGet. If the image is ready it is
// returned; otherwise a load starts in the background, the requesting cell
// is remembered, and the ready callback fires with every waiting cell once
// the image arrives so the surface can redraw just those cells.
package imagecache

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/mesh-intelligence/griddle/pkg/types"
)

// ErrNoImage is returned when a fetcher succeeds without producing an image.
var ErrNoImage = errors.New("fetcher returned no image")

// Fetcher produces the image for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) (image.Image, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, url string) (image.Image, error) {
	return f(ctx, url)
}

// ReadyFunc is called, off the caller's goroutine, when an image finishes
// loading. cells lists the coordinates that asked for it while it was
// pending.
type ReadyFunc func(url string, cells []types.Item)

// Option configures a Cache.
type Option func(*Cache)

// WithReady sets the callback fired when a pending image arrives.
func WithReady(fn ReadyFunc) Option {
	return func(c *Cache) { c.onReady = fn }
}

// WithLogger sets the logger for load failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// Cache holds loaded images keyed by URL.
type Cache struct {
	fetcher Fetcher
	onReady ReadyFunc
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	group  singleflight.Group

	mu       sync.Mutex
	images   map[string]image.Image
	failed   map[string]error
	inflight map[string]bool
	waiting  map[string][]types.Item
}

// New returns an empty cache that loads through f.
func New(f Fetcher, opts ...Option) *Cache {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache{
		fetcher:  f,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		ctx:      ctx,
		cancel:   cancel,
		images:   make(map[string]image.Image),
		failed:   make(map[string]error),
		inflight: make(map[string]bool),
		waiting:  make(map[string][]types.Item),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadOrGet returns the image for url if it is loaded. Otherwise it records
// that the cell at needs it, starts a background load if none is running,
// and returns false immediately. URLs that failed to load are not retried;
// a load that was cancelled or timed out did not fail and is retried.
func (c *Cache) LoadOrGet(url string, at types.Item) (image.Image, bool) {
	if url == "" {
		return nil, false
	}
	c.mu.Lock()
	if img, ok := c.images[url]; ok {
		c.mu.Unlock()
		return img, true
	}
	if _, ok := c.failed[url]; ok {
		c.mu.Unlock()
		return nil, false
	}
	c.addWaiting(url, at)
	start := !c.inflight[url]
	c.inflight[url] = true
	c.mu.Unlock()

	if start {
		go func() { _, _ = c.fetch(c.ctx, url) }()
	}
	return nil, false
}

// Preload loads every URL concurrently and waits for all of them. One
// failure does not cancel the other loads. It returns the first load error;
// images that did load stay cached.
func (c *Cache) Preload(ctx context.Context, urls []string) error {
	var g errgroup.Group
	for _, url := range urls {
		if url == "" || c.Loaded(url) {
			continue
		}
		g.Go(func() error {
			_, err := c.fetch(ctx, url)
			return err
		})
	}
	return g.Wait()
}

// Loaded reports whether the image for url is cached.
func (c *Cache) Loaded(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.images[url]
	return ok
}

// Close stops background loads. Loads already finished stay cached.
func (c *Cache) Close() {
	c.cancel()
}

// fetch loads url once even when LoadOrGet and Preload ask concurrently.
func (c *Cache) fetch(ctx context.Context, url string) (image.Image, error) {
	v, err, _ := c.group.Do(url, func() (any, error) {
		return c.fetcher.Fetch(ctx, url)
	})
	img, _ := v.(image.Image)
	if err == nil && img == nil {
		err = ErrNoImage
	}

	c.mu.Lock()
	delete(c.inflight, url)
	cells := c.waiting[url]
	delete(c.waiting, url)
	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			c.failed[url] = err
		}
		c.mu.Unlock()
		c.logger.Debug("image load failed", "url", url, "error", err)
		return nil, fmt.Errorf("load image %s: %w", url, err)
	}
	c.images[url] = img
	c.mu.Unlock()

	if len(cells) > 0 && c.onReady != nil {
		c.onReady(url, cells)
	}
	return img, nil
}

func (c *Cache) addWaiting(url string, at types.Item) {
	for _, it := range c.waiting[url] {
		if it == at {
			return
		}
	}
	c.waiting[url] = append(c.waiting[url], at)
}
