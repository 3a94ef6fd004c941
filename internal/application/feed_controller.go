package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bnema/feedsync/internal/domain"
	"github.com/bnema/feedsync/internal/ports"
)

const DefaultPageSize = 10

// ItemStore is the view of loaded items that optimistic mutations act on.
type ItemStore interface {
	Item(id domain.ItemID) (domain.Item, bool)
	// ReplaceItem overwrites a loaded item. It reports false when the item is
	// no longer loaded.
	ReplaceItem(item domain.Item) bool
}

// FeedController accumulates the pages of one feed. Items only ever grow
// until Reset, and no id appears twice.
type FeedController struct {
	source   ports.FeedSource
	resource string
	pageSize int
	logger   *slog.Logger
	metrics  ports.Metrics

	mu         sync.Mutex
	filter     domain.FeedFilter
	items      []domain.Item
	index      map[domain.ItemID]int
	nextCursor string
	exhausted  bool
	loading    bool
	generation uint64
	alive      bool
	listeners  map[int]func(domain.FeedSnapshot)
	nextHandle int
}

var _ ItemStore = (*FeedController)(nil)

func NewFeedController(source ports.FeedSource, resource string, pageSize int, opts ...Option) *FeedController {
	s := newSettings(opts)
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &FeedController{
		source:    source,
		resource:  resource,
		pageSize:  pageSize,
		logger:    s.logger.With("component", "feed_controller", "resource", resource),
		metrics:   s.metrics,
		index:     map[domain.ItemID]int{},
		alive:     true,
		listeners: map[int]func(domain.FeedSnapshot){},
	}
}

// Reset discards all loaded items and switches to filter. Fetches started
// before the reset are dropped when they complete.
func (c *FeedController) Reset(filter domain.FeedFilter) {
	c.mu.Lock()
	if !c.alive {
		c.mu.Unlock()
		return
	}
	c.generation++
	c.filter = filter.Normalize()
	c.items = nil
	c.index = map[domain.ItemID]int{}
	c.nextCursor = ""
	c.exhausted = false
	c.loading = false
	c.mu.Unlock()

	c.notify()
}

// LoadNext fetches the next page. It returns false without a network call
// when a fetch is already running, the feed is exhausted, or the controller
// is closed. A result made stale by Reset or Close also returns false.
func (c *FeedController) LoadNext(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if !c.alive || c.loading || c.exhausted {
		c.mu.Unlock()
		return false, nil
	}
	c.loading = true
	generation := c.generation
	query := domain.FeedQuery{
		Resource: c.resource,
		Filter:   c.filter,
		Cursor:   c.nextCursor,
		PageSize: c.pageSize,
	}
	c.mu.Unlock()
	c.notify()

	page, err := c.source.FetchPage(ctx, query)

	c.mu.Lock()
	if !c.alive || generation != c.generation {
		c.mu.Unlock()
		c.logger.Warn("discarding stale page", "cursor", query.Cursor, "error", err)
		return false, nil
	}
	c.loading = false
	if err != nil {
		c.mu.Unlock()
		c.notify()
		return false, fmt.Errorf("load %s page: %w", c.resource, err)
	}

	for _, item := range page.Items {
		c.upsertLocked(item, false)
	}
	c.nextCursor = page.NextCursor
	c.exhausted = page.Exhausted || page.NextCursor == ""
	total := len(c.items)
	c.mu.Unlock()

	c.metrics.FeedPageLoaded(c.resource, len(page.Items))
	c.logger.Debug("page loaded", "cursor", query.Cursor, "items", len(page.Items), "total", total, "exhausted", page.NextCursor == "")
	c.notify()
	return true, nil
}

// Refresh restarts the feed with the current filter and loads the first page.
func (c *FeedController) Refresh(ctx context.Context) (bool, error) {
	c.mu.Lock()
	filter := c.filter
	c.mu.Unlock()

	c.Reset(filter)
	return c.LoadNext(ctx)
}

// Prepend inserts a locally created item at the head. An item already loaded
// is merged in place instead.
func (c *FeedController) Prepend(item domain.Item) {
	c.mu.Lock()
	if !c.alive {
		c.mu.Unlock()
		return
	}
	c.upsertLocked(item, true)
	c.mu.Unlock()

	c.notify()
}

func (c *FeedController) upsertLocked(item domain.Item, atHead bool) {
	if item.Reconciliation == "" {
		item.Reconciliation = domain.ReconcileConfirmed
	}
	if i, ok := c.index[item.ID]; ok {
		c.items[i] = c.items[i].MergeFrom(item)
		return
	}

	if !atHead {
		c.index[item.ID] = len(c.items)
		c.items = append(c.items, item.Clone())
		return
	}

	c.items = append([]domain.Item{item.Clone()}, c.items...)
	for i, existing := range c.items {
		c.index[existing.ID] = i
	}
}

func (c *FeedController) Item(id domain.ItemID) (domain.Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[id]
	if !ok {
		return domain.Item{}, false
	}
	return c.items[i].Clone(), true
}

func (c *FeedController) ReplaceItem(item domain.Item) bool {
	c.mu.Lock()
	if !c.alive {
		c.mu.Unlock()
		return false
	}
	i, ok := c.index[item.ID]
	if ok {
		c.items[i] = item.Clone()
	}
	c.mu.Unlock()

	if ok {
		c.notify()
	}
	return ok
}

func (c *FeedController) Snapshot() domain.FeedSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *FeedController) snapshotLocked() domain.FeedSnapshot {
	items := make([]domain.Item, len(c.items))
	for i, item := range c.items {
		items[i] = item.Clone()
	}
	return domain.FeedSnapshot{
		Filter:    c.filter,
		Items:     items,
		Exhausted: c.exhausted,
		Loading:   c.loading,
	}
}

// Subscribe registers fn to receive a snapshot after every state change. The
// returned function removes the subscription.
func (c *FeedController) Subscribe(fn func(domain.FeedSnapshot)) func() {
	c.mu.Lock()
	handle := c.nextHandle
	c.nextHandle++
	c.listeners[handle] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, handle)
		c.mu.Unlock()
	}
}

// Close detaches the controller. Later results and writes are ignored.
func (c *FeedController) Close() {
	c.mu.Lock()
	c.alive = false
	c.loading = false
	c.listeners = map[int]func(domain.FeedSnapshot){}
	c.mu.Unlock()
}

func (c *FeedController) notify() {
	c.mu.Lock()
	if !c.alive || len(c.listeners) == 0 {
		c.mu.Unlock()
		return
	}
	snapshot := c.snapshotLocked()
	listeners := make([]func(domain.FeedSnapshot), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}
