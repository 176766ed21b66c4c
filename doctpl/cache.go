package doctpl

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// CachedStore memoises the templates fetched from another Store. Failed
// fetches are not cached. It is safe for concurrent use.
type CachedStore struct {
	next   Store
	logger *zap.Logger

	mu      sync.RWMutex
	entries map[string]string
	// Invalidation counters. A fetch stores its text only if neither moved
	// while it was in flight.
	epoch uint64
	gens  map[string]uint64
}

// NewCachedStore wraps next. A nil logger disables logging.
func NewCachedStore(next Store, logger *zap.Logger) *CachedStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedStore{next: next, logger: logger, entries: make(map[string]string), gens: make(map[string]uint64)}
}

// Fetch implements Store.
func (c *CachedStore) Fetch(ctx context.Context, name string) (string, error) {
	c.mu.RLock()
	text, ok := c.entries[name]
	epoch, gen := c.epoch, c.gens[name]
	c.mu.RUnlock()
	if ok {
		return text, nil
	}

	text, err := c.next.Fetch(ctx, name)
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	if c.epoch == epoch && c.gens[name] == gen {
		c.entries[name] = text
	}
	c.mu.Unlock()
	return text, nil
}

// List returns the templates of the wrapped store, which must be a Catalog.
func (c *CachedStore) List() ([]Info, error) {
	cat, ok := c.next.(Catalog)
	if !ok {
		return nil, fmt.Errorf("doctpl: %T cannot list templates", c.next)
	}
	return cat.List()
}

// Invalidate drops the named entries, or every entry when no name is given.
func (c *CachedStore) Invalidate(names ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(names) == 0 {
		c.entries = make(map[string]string)
		c.epoch++
		return
	}
	for _, n := range names {
		delete(c.entries, n)
		c.gens[n]++
	}
}

// Len reports the number of cached templates.
func (c *CachedStore) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Watch invalidates cached entries whenever a template file in dir is
// created, written, removed or renamed. It returns once the watch is
// established; the watch ends when ctx is done or stop is called.
func (c *CachedStore) Watch(ctx context.Context, dir string) (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("doctpl: creating watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("doctpl: watching %s: %w", dir, err)
	}

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	go func() {
		defer close(doneCh)
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stopCh:
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !strings.HasSuffix(ev.Name, ".txt") {
					continue
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				name := filepath.Base(ev.Name)
				c.Invalidate(name)
				c.logger.Debug("template invalidated", zap.String("template", name), zap.String("op", ev.Op.String()))
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				c.logger.Warn("template watcher error", zap.Error(err))
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(stopCh) })
		<-doneCh
	}, nil
}
