package dataset

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"sales-analytics/internal/domain"
	"sales-analytics/internal/enrichment"
	"sales-analytics/internal/idhash"
	"sales-analytics/internal/observability"
)

// Snapshot is one successfully loaded, enriched dataset.
// Records is shared with every reader and must not be modified.
type Snapshot struct {
	ID           string
	Records      []domain.SaleFeatures
	LoadedAt     time.Time
	InvalidDates int
}

// Cache owns the enriched dataset. The first Load fetches from the Source;
// later loads return the same snapshot until a forced refresh or Invalidate.
// A failed load leaves the previous snapshot in place.
type Cache struct {
	src     Source
	logger  *log.Logger
	metrics *observability.Metrics
	now     func() time.Time

	loadMu sync.Mutex // serializes fetches so concurrent first loads share one

	mu   sync.RWMutex
	snap *Snapshot

	subMu sync.Mutex
	subs  map[chan string]struct{}
}

// CacheOption configures Cache.
type CacheOption func(*Cache)

// WithLogger sets the cache logger.
func WithLogger(logger *log.Logger) CacheOption {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *observability.Metrics) CacheOption {
	return func(c *Cache) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithClock sets the time source used for LoadedAt and durations.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCache creates an empty cache over src.
func NewCache(src Source, opts ...CacheOption) *Cache {
	c := &Cache{
		src:     src,
		logger:  log.Default(),
		metrics: observability.DefaultMetrics,
		now:     time.Now,
		subs:    make(map[chan string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load returns the enriched records. Unless forceRefresh is set, an existing
// snapshot is returned without contacting the Source. Fetch and decode
// errors propagate unchanged.
func (c *Cache) Load(ctx context.Context, forceRefresh bool) ([]domain.SaleFeatures, error) {
	snap, err := c.LoadSnapshot(ctx, forceRefresh)
	if err != nil {
		return nil, err
	}
	return snap.Records, nil
}

// LoadSnapshot is Load returning the full snapshot.
func (c *Cache) LoadSnapshot(ctx context.Context, forceRefresh bool) (Snapshot, error) {
	if !forceRefresh {
		if snap, ok := c.Snapshot(); ok {
			c.metrics.RecordLoad(observability.StatusCache, 0)
			return snap, nil
		}
	}

	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	// Another caller may have completed the first load while we waited.
	if !forceRefresh {
		if snap, ok := c.Snapshot(); ok {
			c.metrics.RecordLoad(observability.StatusCache, 0)
			return snap, nil
		}
	}

	start := c.now()
	sales, err := c.src.Fetch(ctx)
	if err != nil {
		c.metrics.RecordLoad(observability.StatusError, c.now().Sub(start).Seconds())
		c.logger.Printf("load failed: %v", err)
		return Snapshot{}, err
	}

	id, err := idhash.ComputeSnapshotID(sales)
	if err != nil {
		c.metrics.RecordLoad(observability.StatusError, c.now().Sub(start).Seconds())
		return Snapshot{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	records, invalid := enrichment.EnrichAll(sales)
	loadedAt := c.now()
	snap := Snapshot{
		ID:           id,
		Records:      records,
		LoadedAt:     loadedAt,
		InvalidDates: invalid,
	}

	c.mu.Lock()
	c.snap = &snap
	c.mu.Unlock()

	c.metrics.RecordLoad(observability.StatusOK, loadedAt.Sub(start).Seconds())
	c.metrics.UpdateSnapshot(len(records), invalid, loadedAt.Unix())
	if invalid > 0 {
		c.logger.Printf("snapshot %s: %d of %d records have unparseable dates", id, invalid, len(records))
	}
	c.logger.Printf("loaded snapshot %s: %d records in %s", id, len(records), loadedAt.Sub(start))

	c.notify(id)
	return snap, nil
}

// Snapshot returns the current snapshot, if any, without loading.
func (c *Cache) Snapshot() (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return Snapshot{}, false
	}
	return *c.snap, true
}

// Invalidate drops the current snapshot. The next Load fetches again.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}

// Subscribe returns a channel that receives the snapshot ID after every
// successful load, and a function that cancels the subscription.
// Slow subscribers only see the most recent ID.
func (c *Cache) Subscribe() (<-chan string, func()) {
	ch := make(chan string, 1)

	c.subMu.Lock()
	c.subs[ch] = struct{}{}
	c.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, ch)
			c.subMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (c *Cache) notify(id string) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	for ch := range c.subs {
		select {
		case ch <- id:
		default:
			// Replace the stale pending ID.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- id:
			default:
			}
		}
	}
}
