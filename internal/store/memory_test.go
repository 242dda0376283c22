package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopai/shopchat/internal/catalog"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	// Absent key
	_, _, ok, err := m.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("absent key should report ok=false")
	}

	// Roundtrip
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := m.Set(ctx, "k", []byte("payload"), ts); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	payload, gotTS, ok, err := m.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get after Set: ok=%v err=%v", ok, err)
	}
	if string(payload) != "payload" {
		t.Errorf("payload = %q", payload)
	}
	if !gotTS.Equal(ts) {
		t.Errorf("ts = %v, want %v", gotTS, ts)
	}

	// Overwrite
	ts2 := ts.Add(time.Hour)
	_ = m.Set(ctx, "k", []byte("newer"), ts2)
	payload, gotTS, _, _ = m.Get(ctx, "k")
	if string(payload) != "newer" || !gotTS.Equal(ts2) {
		t.Errorf("overwrite not applied: %q at %v", payload, gotTS)
	}
}

func TestMemoryWishlist(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	// Empty
	products, err := m.WishlistAll(ctx)
	if err != nil {
		t.Fatalf("WishlistAll failed: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("expected empty wishlist, got %d", len(products))
	}

	// Insertion order preserved
	for _, id := range []string{"c", "a", "b"} {
		if err := m.WishlistPut(ctx, catalog.Product{ID: id}); err != nil {
			t.Fatalf("WishlistPut failed: %v", err)
		}
	}
	products, _ = m.WishlistAll(ctx)
	for i, id := range []string{"c", "a", "b"} {
		if products[i].ID != id {
			t.Errorf("item %d = %q, want %q", i, products[i].ID, id)
		}
	}

	// Re-put same id updates in place, no duplicate
	_ = m.WishlistPut(ctx, catalog.Product{ID: "a", Name: "Updated"})
	products, _ = m.WishlistAll(ctx)
	if len(products) != 3 {
		t.Errorf("re-put duplicated item, got %d", len(products))
	}
	if products[1].Name != "Updated" {
		t.Errorf("re-put did not update: %+v", products[1])
	}

	// Delete
	if err := m.WishlistDelete(ctx, "a"); err != nil {
		t.Fatalf("WishlistDelete failed: %v", err)
	}
	products, _ = m.WishlistAll(ctx)
	if len(products) != 2 {
		t.Errorf("expected 2 after delete, got %d", len(products))
	}

	// Deleting a missing id is a no-op
	if err := m.WishlistDelete(ctx, "nope"); err != nil {
		t.Errorf("deleting missing id should not error: %v", err)
	}
}
