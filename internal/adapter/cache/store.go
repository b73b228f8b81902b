package cache

import (
	"context"
	"time"

	"github.com/couchcryptid/forecast-etl/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
)

// MemoryStore is a bounded in-process domain.ForecastStore, used when no
// Redis address is configured. The least recently used location is dropped first.
type MemoryStore struct {
	docs *LRU[domain.ForecastDocument]
}

// NewMemoryStore creates a store holding at most maxLocations documents.
func NewMemoryStore(maxLocations int) *MemoryStore {
	return &MemoryStore{docs: NewLRU[domain.ForecastDocument](maxLocations)}
}

func (s *MemoryStore) Get(_ context.Context, location string) (domain.ForecastDocument, error) {
	doc, ok := s.docs.Get(location)
	if !ok {
		return domain.ForecastDocument{}, domain.ErrForecastNotFound
	}
	return doc, nil
}

func (s *MemoryStore) Put(_ context.Context, doc domain.ForecastDocument) error {
	s.docs.Put(doc.Location, doc)
	return nil
}

// CachedStore wraps a ForecastStore with an in-memory LRU read-through cache.
// Cached copies expire with the same TTL as the inner store.
type CachedStore struct {
	inner   domain.ForecastStore
	cache   *LRU[cachedDoc]
	ttl     time.Duration
	clock   clockwork.Clock
	lookups *prometheus.CounterVec // labels: result={hit,miss}
}

type cachedDoc struct {
	doc     domain.ForecastDocument
	expires time.Time // zero: never
}

// NewCachedStore creates a cache decorator around a store. A ttl of zero
// keeps entries until they are evicted. lookups may be nil.
func NewCachedStore(inner domain.ForecastStore, maxEntries int, ttl time.Duration, lookups *prometheus.CounterVec) *CachedStore {
	return &CachedStore{
		inner:   inner,
		cache:   NewLRU[cachedDoc](maxEntries),
		ttl:     ttl,
		clock:   clockwork.NewRealClock(),
		lookups: lookups,
	}
}

// SetClock swaps the time source used for expiry. Pass nil to reset to real time.
func (c *CachedStore) SetClock(clock clockwork.Clock) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	c.clock = clock
}

func (c *CachedStore) Get(ctx context.Context, location string) (domain.ForecastDocument, error) {
	if e, ok := c.cache.Get(location); ok && !c.expired(e) {
		c.count("hit")
		return e.doc, nil
	}
	c.count("miss")

	doc, err := c.inner.Get(ctx, location)
	if err != nil {
		return doc, err
	}
	c.remember(doc)
	return doc, nil
}

// remember caches doc until ProcessedAt+ttl, or now+ttl when the document
// carries no processing time.
func (c *CachedStore) remember(doc domain.ForecastDocument) {
	e := cachedDoc{doc: doc}
	if c.ttl > 0 {
		from := doc.ProcessedAt
		if from.IsZero() {
			from = c.clock.Now()
		}
		e.expires = from.Add(c.ttl)
	}
	c.cache.Put(doc.Location, e)
}

func (c *CachedStore) expired(e cachedDoc) bool {
	return !e.expires.IsZero() && !c.clock.Now().Before(e.expires)
}

// Put writes through to the inner store and refreshes the cached copy only
// once the write succeeded.
func (c *CachedStore) Put(ctx context.Context, doc domain.ForecastDocument) error {
	if err := c.inner.Put(ctx, doc); err != nil {
		return err
	}
	c.remember(doc)
	return nil
}

type batchLoader interface {
	LoadBatch(ctx context.Context, docs []domain.ForecastDocument) error
}

// LoadBatch writes docs through to the inner store, in one round trip when
// the inner store supports batches, then refreshes the cache.
func (c *CachedStore) LoadBatch(ctx context.Context, docs []domain.ForecastDocument) error {
	if bl, ok := c.inner.(batchLoader); ok {
		if err := bl.LoadBatch(ctx, docs); err != nil {
			return err
		}
	} else {
		for i := range docs {
			if err := c.inner.Put(ctx, docs[i]); err != nil {
				return err
			}
		}
	}
	for i := range docs {
		c.remember(docs[i])
	}
	return nil
}

func (c *CachedStore) count(result string) {
	if c.lookups != nil {
		c.lookups.WithLabelValues(result).Inc()
	}
}
