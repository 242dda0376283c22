package assistant

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopai/shopchat/internal/catalog"
)

// wireReply is the structured response shape the persona prompt demands.
type wireReply struct {
	Message  string        `json:"message"`
	Products []wireProduct `json:"products"`
}

// wireProduct is an untrusted product item from the model. Required fields
// are id, name, priceEstimate, and pitch; everything else is backfilled.
type wireProduct struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	ProductURL    string  `json:"productUrl"`
	PriceEstimate string  `json:"priceEstimate"`
	ImageURL      string  `json:"imageUrl"`
	Category      string  `json:"category"`
	Pitch         string  `json:"pitch"`
	Rating        float64 `json:"rating"`
	ReviewCount   int     `json:"reviewCount"`
}

// extractObject locates the first top-level {...} span in raw. Models wrap
// the payload in prose or markdown often enough that this cannot be strict.
func extractObject(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}

// extractArray locates the outermost [...] span in raw.
func extractArray(raw string) (string, bool) {
	start := strings.IndexByte(raw, '[')
	end := strings.LastIndexByte(raw, ']')
	if start < 0 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}

func decodeReply(span string) (wireReply, error) {
	var wire wireReply
	if err := json.Unmarshal([]byte(span), &wire); err != nil {
		return wireReply{}, fmt.Errorf("decode reply: %w", err)
	}
	return wire, nil
}

// decodeShowcase parses and schema-checks a showcase batch. Any item missing
// a required field fails the whole batch; the caller falls back.
func decodeShowcase(span string) ([]wireProduct, error) {
	var items []wireProduct
	if err := json.Unmarshal([]byte(span), &items); err != nil {
		return nil, fmt.Errorf("decode showcase: %w", err)
	}
	for i, item := range items {
		if item.ID == "" || item.Name == "" || item.PriceEstimate == "" || item.Pitch == "" {
			return nil, fmt.Errorf("showcase item %d missing required fields", i)
		}
	}
	return items, nil
}

// normalizeProduct fills the gaps the model left: price, description, a
// usable buy link, and an absolute image URL. The placeholder seed is
// deterministic so re-rendering a reply is stable.
func normalizeProduct(p wireProduct, seed int) catalog.Product {
	out := catalog.Product{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		ProductURL:    p.ProductURL,
		PriceEstimate: p.PriceEstimate,
		ImageURL:      p.ImageURL,
		Category:      p.Category,
		Pitch:         p.Pitch,
		Rating:        p.Rating,
		ReviewCount:   p.ReviewCount,
	}

	if out.PriceEstimate == "" {
		out.PriceEstimate = catalog.DefaultPrice
	}
	if out.Description == "" {
		if out.Pitch != "" {
			out.Description = out.Pitch
		} else {
			out.Description = catalog.DefaultDescription
		}
	}
	if !isAbsoluteHTTP(out.ProductURL) {
		out.ProductURL = catalog.SearchLink(out.Name)
	}
	if !isAbsoluteHTTP(out.ImageURL) || isPlaceholderService(out.ImageURL) {
		out.ImageURL = catalog.PlaceholderImage(seed)
	}

	return out
}

func isAbsoluteHTTP(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

func isPlaceholderService(u string) bool {
	return strings.Contains(u, "unsplash")
}
