// Package wishlist maintains the set of products the user saved for later.
// Its lifecycle is independent of the conversation: it is persisted through
// the store and survives conversation resets.
package wishlist

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopai/shopchat/internal/catalog"
)

// Persister stores wishlist contents across runs. Satisfied by both the
// SurrealDB client and the in-memory store.
type Persister interface {
	WishlistAll(ctx context.Context) ([]catalog.Product, error)
	WishlistPut(ctx context.Context, p catalog.Product) error
	WishlistDelete(ctx context.Context, productID string) error
}

// Wishlist is a product set keyed by product id.
type Wishlist struct {
	persister Persister
	logger    *slog.Logger

	mu    sync.Mutex
	items []catalog.Product
}

// New creates a wishlist, loading previously saved products.
func New(ctx context.Context, persister Persister, logger *slog.Logger) *Wishlist {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Wishlist{persister: persister, logger: logger}

	items, err := persister.WishlistAll(ctx)
	if err != nil {
		logger.Warn("could not load saved wishlist, starting empty", "error", err)
	} else {
		w.items = items
	}
	return w
}

// Toggle flips membership for a product: absent products are added, present
// ones removed. Returns true when the product ended up in the list.
func (w *Wishlist) Toggle(ctx context.Context, p catalog.Product) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, item := range w.items {
		if item.ID == p.ID {
			w.items = append(w.items[:i], w.items[i+1:]...)
			if err := w.persister.WishlistDelete(ctx, p.ID); err != nil {
				w.logger.Warn("wishlist delete not persisted", "product", p.ID, "error", err)
			}
			return false
		}
	}

	w.items = append(w.items, p)
	if err := w.persister.WishlistPut(ctx, p); err != nil {
		w.logger.Warn("wishlist add not persisted", "product", p.ID, "error", err)
	}
	return true
}

// Contains reports whether a product id is saved.
func (w *Wishlist) Contains(productID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, item := range w.items {
		if item.ID == productID {
			return true
		}
	}
	return false
}

// Items returns a snapshot of the saved products in insertion order.
func (w *Wishlist) Items() []catalog.Product {
	w.mu.Lock()
	defer w.mu.Unlock()
	snapshot := make([]catalog.Product, len(w.items))
	copy(snapshot, w.items)
	return snapshot
}
