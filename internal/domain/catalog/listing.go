package catalog

import (
	"sort"
	"strings"
)

// Sort orders accepted by the merch listing.
const (
	SortAlphabetical = "alphabetically"
	SortPriceLow     = "price-low"
	SortPriceHigh    = "price-high"
	SortNewest       = "newest"
)

// FilterByCategory keeps products in the category; "" and "all" keep everything.
func FilterByCategory(products []*Product, category string) []*Product {
	if category == "" || category == "all" {
		return products
	}
	out := make([]*Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// SortProducts orders products in place. Unknown orders fall back to
// alphabetical, which is also the tie-breaker.
func SortProducts(products []*Product, order string) {
	byName := func(a, b *Product) bool {
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		switch order {
		case SortPriceLow:
			if a.PriceCents != b.PriceCents {
				return a.PriceCents < b.PriceCents
			}
		case SortPriceHigh:
			if a.PriceCents != b.PriceCents {
				return a.PriceCents > b.PriceCents
			}
		case SortNewest:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		return byName(a, b)
	})
}

// CategoryFor derives the listing category when a product row has none.
func CategoryFor(t ProductType, subtype string) string {
	if t == ProductPhysical {
		return CategoryClothing
	}
	if subtype == "beats" {
		return CategoryBeats
	}
	return CategoryLimited
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
