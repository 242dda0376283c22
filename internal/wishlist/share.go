package wishlist

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/shopai/shopchat/internal/catalog"
)

var nonDigits = regexp.MustCompile(`\D`)

// ShareLink builds a WhatsApp link carrying the wishlist as a formatted
// message. With a phone number the link targets that (Brazilian) number;
// without one it opens the contact picker. Every product link runs through
// rewriteLink so shares carry affiliate parameters. Empty lists yield "".
func ShareLink(items []catalog.Product, phone string, rewriteLink func(string) string) string {
	if len(items) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("*Olá! Aqui está sua lista de favoritos da ShopAI (Vivi)* ✨\n\n")
	for _, p := range items {
		target := p.ProductURL
		if target == "" {
			// Older replies sometimes carried the link in the description.
			target = p.Description
		}
		b.WriteString("🛍️ *" + p.Name + "*\n")
		b.WriteString("💰 " + p.PriceEstimate + "\n")
		b.WriteString("🔗 *Link:* " + rewriteLink(target) + "\n\n")
	}
	b.WriteString("_Espero que faça ótimas compras!_")

	encoded := url.QueryEscape(b.String())

	digits := nonDigits.ReplaceAllString(phone, "")
	if len(digits) > 8 {
		return "https://wa.me/55" + digits + "?text=" + encoded
	}
	return "https://wa.me/?text=" + encoded
}
