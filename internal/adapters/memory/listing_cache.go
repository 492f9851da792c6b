package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
)

type cachedPage struct {
	page      domain.RecordPage
	expiresAt time.Time
}

// ListingCache is the in-process fallback when Redis is not configured.
type ListingCache struct {
	mu    sync.RWMutex
	pages map[domain.EntityKind]map[domain.ListQuery]cachedPage
	ttl   time.Duration
	now   func() time.Time
}

func NewListingCache(ttl time.Duration) *ListingCache {
	return &ListingCache{
		pages: make(map[domain.EntityKind]map[domain.ListQuery]cachedPage),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (c *ListingCache) Get(ctx context.Context, kind domain.EntityKind, query domain.ListQuery) (*domain.RecordPage, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.pages[kind][query]
	if !ok || c.now().After(entry.expiresAt) {
		return nil, false, nil
	}
	page := entry.page
	return &page, true, nil
}

func (c *ListingCache) Set(ctx context.Context, kind domain.EntityKind, query domain.ListQuery, page *domain.RecordPage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pages[kind] == nil {
		c.pages[kind] = make(map[domain.ListQuery]cachedPage)
	}
	c.pages[kind][query] = cachedPage{page: *page, expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *ListingCache) Invalidate(ctx context.Context, kind domain.EntityKind) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pages, kind)
	return nil
}
