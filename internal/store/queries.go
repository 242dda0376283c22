package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shopai/shopchat/internal/catalog"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

type cacheRecord struct {
	Payload  string    `json:"payload"`
	StoredAt time.Time `json:"stored_at"`
}

type wishRecord struct {
	Product catalog.Product `json:"product"`
}

// Get reads a cache entry. ok is false when the key is absent.
func (c *Client) Get(ctx context.Context, key string) ([]byte, time.Time, bool, error) {
	results, err := surrealdb.Query[[]cacheRecord](ctx, c.db,
		"SELECT payload, stored_at FROM $id",
		map[string]any{"id": surrealmodels.NewRecordID("cache", key)})
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("cache get: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, time.Time{}, false, nil
	}

	rec := (*results)[0].Result[0]
	return []byte(rec.Payload), rec.StoredAt, true, nil
}

// Set writes a cache entry, replacing any previous value for the key.
func (c *Client) Set(ctx context.Context, key string, payload []byte, ts time.Time) error {
	_, err := surrealdb.Query[any](ctx, c.db,
		"UPSERT $id SET payload = $payload, stored_at = $ts",
		map[string]any{
			"id":      surrealmodels.NewRecordID("cache", key),
			"payload": string(payload),
			"ts":      ts,
		})
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// WishlistAll returns every saved product.
func (c *Client) WishlistAll(ctx context.Context) ([]catalog.Product, error) {
	results, err := surrealdb.Query[[]wishRecord](ctx, c.db,
		"SELECT product FROM wishlist ORDER BY added_at", nil)
	if err != nil {
		return nil, fmt.Errorf("wishlist all: %w", err)
	}

	var products []catalog.Product
	if results != nil && len(*results) > 0 {
		for _, rec := range (*results)[0].Result {
			products = append(products, rec.Product)
		}
	}
	return products, nil
}

// WishlistPut saves a product, keyed by its id.
func (c *Client) WishlistPut(ctx context.Context, p catalog.Product) error {
	_, err := surrealdb.Query[any](ctx, c.db,
		"UPSERT $id SET product = $product, added_at = time::now()",
		map[string]any{
			"id":      surrealmodels.NewRecordID("wishlist", p.ID),
			"product": p,
		})
	if err != nil {
		return fmt.Errorf("wishlist put: %w", err)
	}
	return nil
}

// WishlistDelete removes a saved product by id.
func (c *Client) WishlistDelete(ctx context.Context, productID string) error {
	_, err := surrealdb.Query[any](ctx, c.db,
		"DELETE $id",
		map[string]any{"id": surrealmodels.NewRecordID("wishlist", productID)})
	if err != nil {
		return fmt.Errorf("wishlist delete: %w", err)
	}
	return nil
}
