package store

import (
	"context"
	"sync"
	"time"

	"github.com/shopai/shopchat/internal/catalog"
)

// Memory is the in-process store used when no SurrealDB is reachable.
// Contents do not survive the process; the showcase simply refetches and the
// wishlist starts empty.
type Memory struct {
	mu       sync.Mutex
	cache    map[string]memEntry
	wishlist map[string]catalog.Product
	order    []string
}

type memEntry struct {
	payload []byte
	ts      time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		cache:    make(map[string]memEntry),
		wishlist: make(map[string]catalog.Product),
	}
}

// Get reads a cache entry.
func (m *Memory) Get(_ context.Context, key string) ([]byte, time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.cache[key]
	if !ok {
		return nil, time.Time{}, false, nil
	}
	return entry.payload, entry.ts, true, nil
}

// Set writes a cache entry.
func (m *Memory) Set(_ context.Context, key string, payload []byte, ts time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[key] = memEntry{payload: payload, ts: ts}
	return nil
}

// WishlistAll returns saved products in insertion order.
func (m *Memory) WishlistAll(_ context.Context) ([]catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	products := make([]catalog.Product, 0, len(m.wishlist))
	for _, id := range m.order {
		if p, ok := m.wishlist[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

// WishlistPut saves a product.
func (m *Memory) WishlistPut(_ context.Context, p catalog.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.wishlist[p.ID]; !ok {
		m.order = append(m.order, p.ID)
	}
	m.wishlist[p.ID] = p
	return nil
}

// WishlistDelete removes a saved product.
func (m *Memory) WishlistDelete(_ context.Context, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.wishlist, productID)
	return nil
}
