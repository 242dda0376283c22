// Package catalog defines the product and chat message models shared by the
// assistant, the conversation engine, and the view surfaces.
package catalog

import (
	"fmt"
	"net/url"
	"time"
)

// Product is a single offer as returned by the assistant or the showcase.
// Products are immutable once received; missing fields are backfilled at
// ingestion time, never mutated afterwards.
type Product struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	ProductURL    string  `json:"productUrl"`
	PriceEstimate string  `json:"priceEstimate"`
	ImageURL      string  `json:"imageUrl"`
	Category      string  `json:"category"`
	Pitch         string  `json:"pitch"`
	Rating        float64 `json:"rating,omitempty"`
	ReviewCount   int     `json:"reviewCount,omitempty"`
}

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one reveal unit in the conversation log. Once appended it is
// immutable; the conversation store owns the log exclusively.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Products  []Product `json:"products,omitempty"`
	Image     string    `json:"image,omitempty"` // base64 user upload
	Timestamp time.Time `json:"timestamp"`
}

// DefaultPrice is substituted when the model omits a price estimate.
const DefaultPrice = "R$ 0,00"

// DefaultDescription is substituted when both description and pitch are missing.
const DefaultDescription = "Produto incrível selecionado pela Vivi."

// SearchLink derives a marketplace search URL from a product name, used when
// the model returned no usable product link.
func SearchLink(name string) string {
	return "https://www.amazon.com.br/s?k=" + url.QueryEscape(name)
}

// PlaceholderImage derives a deterministic placeholder image URL from a seed.
func PlaceholderImage(seed int) string {
	return fmt.Sprintf("https://picsum.photos/400/400?random=%d", seed)
}
