// Package chat implements the conversation engine: response segmentation,
// product-to-bubble distribution, the paced reveal scheduler, and the
// conversation state store the view surfaces render from.
package chat

import (
	"strings"

	"github.com/shopai/shopchat/internal/catalog"
)

// Delimiter separates the bubbles of a raw assistant reply.
const Delimiter = "|||"

// Bubble couples one text segment with the products revealed alongside it.
type Bubble struct {
	Text     string
	Products []catalog.Product
}

// SplitSegments splits raw assistant text on the bubble delimiter, trimming
// each piece and discarding empties while preserving order.
func SplitSegments(raw string) []string {
	parts := strings.Split(raw, Delimiter)
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			segments = append(segments, t)
		}
	}
	return segments
}

// Distribute splits raw text into bubbles and assigns products to them.
//
// Products go to the trailing segments only, one per bubble, so leading
// segments stay pure narrative: with S segments and P products the first
// max(0, S-P) bubbles carry no product. The final bubble takes all remaining
// unassigned products; a reply with a single bubble takes the whole list.
// This mirrors a salesperson narrating context before presenting each item.
func Distribute(raw string, products []catalog.Product) []Bubble {
	segments := SplitSegments(raw)
	s := len(segments)
	p := len(products)

	startIdx := s - p
	if startIdx < 0 {
		startIdx = 0
	}

	bubbles := make([]Bubble, 0, s)
	for i, seg := range segments {
		var assigned []catalog.Product

		if p > 0 {
			productIdx := i - startIdx
			if i == s-1 {
				start := productIdx
				if start < 0 {
					start = 0
				}
				if start < p {
					assigned = products[start:]
				} else if s == 1 {
					assigned = products
				}
			} else if productIdx >= 0 && productIdx < p {
				assigned = products[productIdx : productIdx+1]
			}
		}

		bubbles = append(bubbles, Bubble{Text: seg, Products: assigned})
	}

	return bubbles
}
