package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-analytics/internal/domain"
	"sales-analytics/internal/storage"
)

func createTestSale(orderID, productID, orderDate string) *domain.Sale {
	return &domain.Sale{
		OrderID:         orderID,
		OrderDate:       orderDate,
		ShipDate:        orderDate,
		CustomerID:      "C-1",
		CustomerName:    "Ada Lovelace",
		CustomerSegment: domain.SegmentSmallBusiness,
		ProductID:       productID,
		ProductName:     "Standing Desk",
		Category:        domain.CategoryHomeKitchen,
		Subcategory:     "Desks",
		Quantity:        2,
		Sales:           420.5,
		Discount:        0.15,
		Profit:          -12.25,
		Region:          domain.RegionMountain,
		City:            "Denver",
		State:           "CO",
		ShippingCost:    18.75,
		PaymentType:     domain.PaymentMobilePay,
	}
}

func TestSaleStore_InsertBulkAndGetAll(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSaleStore(pool)

	sales := []*domain.Sale{
		createTestSale("A2", "P1", "2024-02-01"),
		createTestSale("A1", "P2", "2024-01-10"),
		createTestSale("A1", "P1", "2024-01-10"),
	}
	require.NoError(t, store.InsertBulk(ctx, sales))

	got, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "A1", got[0].OrderID)
	assert.Equal(t, "P1", got[0].ProductID)
	assert.Equal(t, "P2", got[1].ProductID)
	assert.Equal(t, "A2", got[2].OrderID)

	// Every field round-trips, enums included.
	assert.Equal(t, *sales[2], *got[0])

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSaleStore_DuplicateRollsBackBatch(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSaleStore(pool)

	require.NoError(t, store.InsertBulk(ctx, []*domain.Sale{createTestSale("A1", "P1", "2024-01-10")}))

	err := store.InsertBulk(ctx, []*domain.Sale{
		createTestSale("A9", "P1", "2024-01-11"),
		createTestSale("A1", "P1", "2024-01-10"),
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "failed batch must not leave partial rows")
}

func TestSaleStore_GetByDateRange(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSaleStore(pool)

	require.NoError(t, store.InsertBulk(ctx, []*domain.Sale{
		createTestSale("A1", "P1", "2024-01-01"),
		createTestSale("A2", "P1", "2024-01-15T10:00:00Z"),
		createTestSale("A3", "P1", "2024-01-31"),
		createTestSale("A4", "P1", "2024-02-01"),
	}))

	got, err := store.GetByDateRange(ctx, "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "A1", got[0].OrderID)
	assert.Equal(t, "A3", got[2].OrderID)
}

func TestSaleStore_InvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSaleStore(pool)
	err := store.InsertBulk(context.Background(), []*domain.Sale{createTestSale("", "P1", "2024-01-01")})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestSaleStore_EmptyTable(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSaleStore(pool)

	got, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
