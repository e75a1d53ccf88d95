package memory

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"taletrail/book/internal/repository"
	"taletrail/book/pkg/model"
	"taletrail/pkg/logging"
)

type entry struct {
	book      model.Book
	expiresAt time.Time
}

// Cache defines an in-memory book cache with a fixed time to live.
// Every eviction bumps the version of the book, so a Put carrying a
// version read before the eviction is dropped.
type Cache struct {
	sync.RWMutex
	data     map[int64]entry
	versions map[int64]uint64
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// New creates a new book cache. Entries expire ttl after being put.
func New(ttl time.Duration, logger *zap.Logger) *Cache {
	logger = logger.With(
		zap.String(logging.FieldComponent, "repository"),
		zap.String(logging.FieldType, "memory"),
	)
	return &Cache{
		data:     map[int64]entry{},
		versions: map[int64]uint64{},
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// Get retrieves a book by id together with the current version of the
// book. On a miss the version is to be passed to Put.
func (c *Cache) Get(_ context.Context, id int64) (*model.Book, uint64, error) {
	c.RLock()
	e, ok := c.data[id]
	version := c.versions[id]
	c.RUnlock()
	if !ok {
		return nil, version, repository.ErrNotFound
	}
	if !c.now().Before(e.expiresAt) {
		c.Lock()
		if cur, ok := c.data[id]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.data, id)
		}
		c.Unlock()
		return nil, version, repository.ErrNotFound
	}
	b := e.book
	return &b, version, nil
}

// Put adds a copy of the book to the cache unless the book was evicted
// since version was read.
func (c *Cache) Put(_ context.Context, b *model.Book, version uint64) error {
	c.Lock()
	defer c.Unlock()
	if c.versions[b.ID] != version {
		c.logger.Debug("Dropped stale book", zap.Int64(logging.FieldBookID, b.ID))
		return nil
	}
	c.data[b.ID] = entry{book: *b, expiresAt: c.now().Add(c.ttl)}
	return nil
}

// Delete evicts a book from the cache.
func (c *Cache) Delete(_ context.Context, id int64) error {
	c.Lock()
	defer c.Unlock()
	delete(c.data, id)
	c.versions[id]++
	c.logger.Debug("Evicted book", zap.Int64(logging.FieldBookID, id))
	return nil
}
