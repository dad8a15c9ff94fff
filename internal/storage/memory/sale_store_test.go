package memory

import (
	"context"
	"errors"
	"testing"

	"sales-analytics/internal/domain"
	"sales-analytics/internal/storage"
)

func testSale(orderID, productID, orderDate string, sales float64) *domain.Sale {
	return &domain.Sale{
		OrderID:   orderID,
		ProductID: productID,
		OrderDate: orderDate,
		ShipDate:  orderDate,
		Sales:     sales,
		Region:    domain.RegionWest,
		Category:  domain.CategoryTechnology,
	}
}

func TestSaleStore_InsertBulkAndGetAll(t *testing.T) {
	store := NewSaleStore()
	ctx := context.Background()

	sales := []*domain.Sale{
		testSale("A2", "P1", "2024-02-01", 100),
		testSale("A1", "P2", "2024-01-10", 50),
		testSale("A1", "P1", "2024-01-10", 200),
	}

	if err := store.InsertBulk(ctx, sales); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 sales, got %d", len(got))
	}

	// Ordered by order_date, order_id, product_id
	if got[0].ProductID != "P1" || got[1].ProductID != "P2" || got[2].OrderID != "A2" {
		t.Errorf("Unexpected order: %s/%s, %s/%s, %s/%s",
			got[0].OrderID, got[0].ProductID, got[1].OrderID, got[1].ProductID, got[2].OrderID, got[2].ProductID)
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Count mismatch: got %d, want 3", n)
	}
}

func TestSaleStore_DuplicateKey(t *testing.T) {
	store := NewSaleStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, []*domain.Sale{testSale("A1", "P1", "2024-01-10", 200)}); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.InsertBulk(ctx, []*domain.Sale{
		testSale("A9", "P1", "2024-01-11", 1),
		testSale("A1", "P1", "2024-01-10", 200),
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	// Batch is atomic: A9 must not have been stored
	n, _ := store.Count(ctx)
	if n != 1 {
		t.Errorf("Expected 1 sale after failed batch, got %d", n)
	}
}

func TestSaleStore_IntraBatchDuplicate(t *testing.T) {
	store := NewSaleStore()
	err := store.InsertBulk(context.Background(), []*domain.Sale{
		testSale("A1", "P1", "2024-01-10", 1),
		testSale("A1", "P1", "2024-01-10", 2),
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestSaleStore_InvalidInput(t *testing.T) {
	store := NewSaleStore()
	err := store.InsertBulk(context.Background(), []*domain.Sale{nil})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	err = store.InsertBulk(context.Background(), []*domain.Sale{testSale("", "P1", "2024-01-01", 1)})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestSaleStore_GetByDateRange(t *testing.T) {
	store := NewSaleStore()
	ctx := context.Background()

	_ = store.InsertBulk(ctx, []*domain.Sale{
		testSale("A1", "P1", "2024-01-01", 1),
		testSale("A2", "P1", "2024-01-15T10:00:00Z", 2),
		testSale("A3", "P1", "2024-01-31", 3),
		testSale("A4", "P1", "2024-02-01", 4),
	})

	got, err := store.GetByDateRange(ctx, "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("GetByDateRange failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 sales (inclusive range), got %d", len(got))
	}
	if got[2].OrderID != "A3" {
		t.Errorf("Expected last sale A3, got %s", got[2].OrderID)
	}
}

func TestSaleStore_ReturnsCopies(t *testing.T) {
	store := NewSaleStore()
	ctx := context.Background()

	in := testSale("A1", "P1", "2024-01-01", 10)
	_ = store.InsertBulk(ctx, []*domain.Sale{in})
	in.Sales = 999

	got, _ := store.GetAll(ctx)
	got[0].Sales = 555

	again, _ := store.GetAll(ctx)
	if again[0].Sales != 10 {
		t.Errorf("Store data mutated through caller pointer: %f", again[0].Sales)
	}
}
