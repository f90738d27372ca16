package listing

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/evcraddock/house-market/internal/db"
)

func ptr[T any](v T) *T { return &v }

func TestUpsertAndGet(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	l := &Listing{
		ID:             "p1",
		Title:          "Craftsman bungalow",
		Address:        "101 Main St",
		City:           "Springfield",
		State:          "IL",
		Zip:            "62701",
		PropertyType:   "single_family",
		Tier:           "standard",
		InvestmentType: "primary",
		Price:          ptr(int64(325000)),
		Bedrooms:       ptr(int64(3)),
		Bathrooms:      ptr(2.5),
		Sqft:           ptr(int64(1800)),
		Status:         StatusForSale,
		Latitude:       ptr(39.78),
		Longitude:      ptr(-89.65),
		CreatedAt:      ParseTimestamp("2024-03-01T00:00:00Z"),
	}

	if err := repo.Upsert(ctx, l); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Address != "101 Main St" {
		t.Errorf("address = %q, want %q", got.Address, "101 Main St")
	}
	if got.Price == nil || *got.Price != 325000 {
		t.Errorf("price = %v, want 325000", got.Price)
	}
	if got.Bathrooms == nil || *got.Bathrooms != 2.5 {
		t.Errorf("bathrooms = %v, want 2.5", got.Bathrooms)
	}
	if !got.HasLocation() {
		t.Error("expected location to round-trip")
	}
	if !got.CreatedAt.Equal(l.CreatedAt.Time) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt.Time, l.CreatedAt.Time)
	}
	if got.Tier != "standard" || got.InvestmentType != "primary" {
		t.Errorf("facets = %q/%q", got.Tier, got.InvestmentType)
	}
}

func TestUpsertReplaces(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if err := repo.Upsert(ctx, &Listing{ID: "p1", Address: "1 Old Rd", Status: StatusForSale}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := repo.Upsert(ctx, &Listing{ID: "p1", Address: "1 Old Rd", Status: StatusSold}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}

	got, err := repo.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusSold {
		t.Errorf("status = %q, want %q", got.Status, StatusSold)
	}
}

func TestUpsertRequiresID(t *testing.T) {
	repo := testRepo(t)
	if err := repo.Upsert(context.Background(), &Listing{Address: "1 Main St"}); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestGetNotFound(t *testing.T) {
	repo := testRepo(t)

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestNullableFieldsRoundTrip(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if err := repo.Upsert(ctx, &Listing{ID: "bare", Address: "9 Nowhere Ln"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.Get(ctx, "bare")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Price != nil || got.Bedrooms != nil || got.Bathrooms != nil || got.Sqft != nil {
		t.Error("expected numeric fields to stay nil")
	}
	if !got.CreatedAt.IsZero() {
		t.Error("expected zero created_at")
	}
	if got.HasLocation() {
		t.Error("expected no location")
	}
}

func TestListPreservesInsertionOrder(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	ids := []ID{"c", "a", "b"}
	for i, id := range ids {
		l := &Listing{ID: id, Address: fmt.Sprintf("%d Order St", i)}
		if err := repo.Upsert(ctx, l); err != nil {
			t.Fatalf("upsert %s: %v", id, err)
		}
	}

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != len(ids) {
		t.Fatalf("got %d listings, want %d", len(got), len(ids))
	}
	for i, id := range ids {
		if got[i].ID != id {
			t.Errorf("listing %d = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestListEmpty(t *testing.T) {
	repo := testRepo(t)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d listings, want 0", len(got))
	}
}

func TestDelete(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if err := repo.Upsert(ctx, &Listing{ID: "gone", Address: "1 Gone St"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.Delete(ctx, "gone"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, "gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete: %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, "gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: %v, want ErrNotFound", err)
	}
}

func testRepo(t *testing.T) *Repository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	d, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	return NewRepository(d)
}
