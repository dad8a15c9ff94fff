package memory

import (
	"context"
	"errors"
	"testing"

	"sales-analytics/internal/domain"
	"sales-analytics/internal/storage"
)

func TestMonthlySummaryStore_UpsertReplaces(t *testing.T) {
	store := NewMonthlySummaryStore()
	ctx := context.Background()

	err := store.Upsert(ctx, []*domain.MonthlySummary{
		{Month: "2024-02", Sales: 100},
		{Month: "2024-01", Sales: 200},
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if err := store.Upsert(ctx, []*domain.MonthlySummary{{Month: "2024-01", Sales: 250, Orders: 2}}); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	got, err := store.GetByMonth(ctx, "2024-01")
	if err != nil {
		t.Fatalf("GetByMonth failed: %v", err)
	}
	if got.Sales != 250 || got.Orders != 2 {
		t.Errorf("Summary not replaced: %+v", got)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 2 || all[0].Month != "2024-01" || all[1].Month != "2024-02" {
		t.Errorf("Unexpected GetAll result: %+v", all)
	}
}

func TestMonthlySummaryStore_NotFound(t *testing.T) {
	store := NewMonthlySummaryStore()
	_, err := store.GetByMonth(context.Background(), "1999-12")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMonthlySummaryStore_InvalidInput(t *testing.T) {
	store := NewMonthlySummaryStore()
	ctx := context.Background()

	err := store.Upsert(ctx, []*domain.MonthlySummary{{Month: "2024-01"}, {Month: ""}})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}

	all, _ := store.GetAll(ctx)
	if len(all) != 0 {
		t.Errorf("Expected no summaries after rejected batch, got %d", len(all))
	}
}
