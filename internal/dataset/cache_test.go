package dataset

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-analytics/internal/domain"
	"sales-analytics/internal/observability"
)

// stubSource returns the configured sales or error and counts calls.
type stubSource struct {
	mu    sync.Mutex
	sales []domain.Sale
	err   error
	calls atomic.Int32
	delay time.Duration
}

func (s *stubSource) Fetch(ctx context.Context) ([]domain.Sale, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.Sale, len(s.sales))
	copy(out, s.sales)
	return out, nil
}

func (s *stubSource) set(sales []domain.Sale, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales, s.err = sales, err
}

func newTestCache(src Source) *Cache {
	return NewCache(src,
		WithLogger(log.New(io.Discard, "", 0)),
		WithMetrics(observability.NewMetricsWith(prometheus.NewRegistry(), "test")),
		WithClock(func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }),
	)
}

func twoSales() []domain.Sale {
	return []domain.Sale{
		{OrderID: "A1", OrderDate: "2024-01-10", ShipDate: "2024-01-15", Sales: 200, Profit: 50},
		{OrderID: "A2", OrderDate: "2024-02-01", ShipDate: "2024-02-03", Sales: 100, Profit: -20},
	}
}

func TestCache_LoadCachesSnapshot(t *testing.T) {
	src := &stubSource{sales: twoSales()}
	cache := newTestCache(src)
	ctx := context.Background()

	first, err := cache.Load(ctx, false)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "2024-01", first[0].OrderMonth)
	assert.Equal(t, 5, first[0].ShippingDuration)

	second, err := cache.Load(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int32(1), src.calls.Load(), "cached load must not refetch")
	assert.Same(t, &first[0], &second[0], "cached load returns the same snapshot")

	snap, ok := cache.Snapshot()
	require.True(t, ok)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), snap.LoadedAt)
}

func TestCache_ForceRefreshRefetches(t *testing.T) {
	src := &stubSource{sales: twoSales()}
	cache := newTestCache(src)
	ctx := context.Background()

	_, err := cache.Load(ctx, false)
	require.NoError(t, err)
	before, _ := cache.Snapshot()

	src.set(twoSales()[:1], nil)
	records, err := cache.Load(ctx, true)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, int32(2), src.calls.Load())

	after, _ := cache.Snapshot()
	assert.NotEqual(t, before.ID, after.ID)
}

func TestCache_FailedRefreshKeepsSnapshot(t *testing.T) {
	src := &stubSource{sales: twoSales()}
	cache := newTestCache(src)
	ctx := context.Background()

	_, err := cache.Load(ctx, false)
	require.NoError(t, err)
	before, _ := cache.Snapshot()

	src.set(nil, ErrFetch)
	_, err = cache.Load(ctx, true)
	assert.True(t, errors.Is(err, ErrFetch))

	after, ok := cache.Snapshot()
	require.True(t, ok)
	assert.Equal(t, before.ID, after.ID)

	records, err := cache.Load(ctx, false)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestCache_FirstLoadFailurePropagates(t *testing.T) {
	src := &stubSource{err: ErrDecode}
	cache := newTestCache(src)

	_, err := cache.Load(context.Background(), false)
	assert.True(t, errors.Is(err, ErrDecode))

	_, ok := cache.Snapshot()
	assert.False(t, ok)
}

func TestCache_Invalidate(t *testing.T) {
	src := &stubSource{sales: twoSales()}
	cache := newTestCache(src)
	ctx := context.Background()

	_, _ = cache.Load(ctx, false)
	cache.Invalidate()

	_, ok := cache.Snapshot()
	assert.False(t, ok)

	_, err := cache.Load(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestCache_EmptyDatasetIsCached(t *testing.T) {
	src := &stubSource{sales: []domain.Sale{}}
	cache := newTestCache(src)
	ctx := context.Background()

	records, err := cache.Load(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, records)

	_, _ = cache.Load(ctx, false)
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestCache_ConcurrentFirstLoadsCoalesce(t *testing.T) {
	src := &stubSource{sales: twoSales(), delay: 20 * time.Millisecond}
	cache := newTestCache(src)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			records, err := cache.Load(context.Background(), false)
			assert.NoError(t, err)
			assert.Len(t, records, 2)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), src.calls.Load())
}

func TestCache_CountsInvalidDates(t *testing.T) {
	sales := twoSales()
	sales[1].ShipDate = "soon"
	cache := newTestCache(&stubSource{sales: sales})

	_, err := cache.Load(context.Background(), false)
	require.NoError(t, err)

	snap, _ := cache.Snapshot()
	assert.Equal(t, 1, snap.InvalidDates)
	assert.False(t, snap.Records[1].DateValid)
}

func TestCache_Subscribe(t *testing.T) {
	src := &stubSource{sales: twoSales()}
	cache := newTestCache(src)
	ctx := context.Background()

	ch, cancel := cache.Subscribe()
	defer cancel()

	_, err := cache.Load(ctx, false)
	require.NoError(t, err)
	snap, _ := cache.Snapshot()

	select {
	case id := <-ch:
		assert.Equal(t, snap.ID, id)
	case <-time.After(time.Second):
		t.Fatal("no notification after load")
	}

	// Cache hits do not notify.
	_, _ = cache.Load(ctx, false)
	select {
	case id := <-ch:
		t.Fatalf("unexpected notification %s", id)
	default:
	}

	// Two refreshes without reading leave only the latest ID pending.
	src.set(twoSales()[:1], nil)
	_, _ = cache.Load(ctx, true)
	src.set(twoSales(), nil)
	_, _ = cache.Load(ctx, true)
	assert.Equal(t, snap.ID, <-ch)

	cancel()
	_, open := <-ch
	assert.False(t, open)
}
