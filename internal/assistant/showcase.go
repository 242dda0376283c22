package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopai/shopchat/internal/catalog"
	"github.com/shopai/shopchat/internal/metrics"
)

// showcaseCacheKey versions the cached showcase payload.
const showcaseCacheKey = "shopchat_showcase_v1"

// FetchShowcase returns the storefront product batch. A fresh cached batch
// is returned as-is; otherwise the model generates one, gaps are backfilled,
// and the result replaces the cache. Every failure path returns the static
// fallback catalog instead of an error.
func (c *Client) FetchShowcase(ctx context.Context) []catalog.Product {
	if cached, ok := c.cachedShowcase(ctx); ok {
		c.logger.Debug("using cached showcase products")
		return cached
	}

	prompt := fmt.Sprintf(showcasePrompt, c.showcaseSize)
	start := time.Now()
	raw, err := c.model.GenerateWithSystem(ctx, showcaseSystem, prompt)
	c.stats.Record(metrics.OpShowcase, time.Since(start), err != nil)
	if err != nil {
		c.logger.Error("showcase generation failed, using fallback catalog", "error", err)
		return catalog.FallbackProducts
	}

	span, found := extractArray(raw)
	if !found {
		c.logger.Error("showcase response contained no JSON array, using fallback catalog")
		return catalog.FallbackProducts
	}

	items, err := decodeShowcase(span)
	if err != nil {
		c.logger.Error("showcase response failed validation, using fallback catalog", "error", err)
		return catalog.FallbackProducts
	}

	products := make([]catalog.Product, 0, len(items))
	for i, item := range items {
		// Seed offset keeps showcase placeholders distinct from chat reply
		// placeholders.
		products = append(products, normalizeProduct(item, i+500))
	}

	c.storeShowcase(ctx, products)
	return products
}

func (c *Client) cachedShowcase(ctx context.Context) ([]catalog.Product, bool) {
	payload, ts, ok, err := c.cache.Get(ctx, showcaseCacheKey)
	if err != nil {
		c.logger.Warn("showcase cache read failed", "error", err)
		return nil, false
	}
	if !ok || c.now().Sub(ts) >= c.showcaseTTL {
		return nil, false
	}

	var products []catalog.Product
	if err := json.Unmarshal(payload, &products); err != nil {
		c.logger.Warn("showcase cache payload corrupt", "error", err)
		return nil, false
	}
	if len(products) == 0 {
		return nil, false
	}
	return products, true
}

func (c *Client) storeShowcase(ctx context.Context, products []catalog.Product) {
	payload, err := json.Marshal(products)
	if err != nil {
		c.logger.Warn("showcase cache encode failed", "error", err)
		return
	}
	if err := c.cache.Set(ctx, showcaseCacheKey, payload, c.now()); err != nil {
		c.logger.Warn("showcase cache write failed", "error", err)
	}
}
