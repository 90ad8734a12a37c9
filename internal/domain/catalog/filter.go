// internal/domain/catalog/filter.go
package catalog

import (
	"sort"
	"strconv"
	"strings"
)

// SortKey identifies one of the supported product orderings
type SortKey string

const (
	SortRecommended  SortKey = "recommended"
	SortNewest       SortKey = "newest"
	SortPopular      SortKey = "popular"
	SortPriceLowHigh SortKey = "price-low-high"
	SortPriceHighLow SortKey = "price-high-low"
)

// Filter group names
const (
	GroupCustomizable = "customizable"
	GroupIdealFor     = "idealFor"
	GroupOccasion     = "occasion"
	GroupWork         = "work"
	GroupFabric       = "fabric"
	GroupPrice        = "price"
)

// Price range option values
const (
	PriceUnder50  = "under-50"
	Price50To100  = "50-100"
	Price100To200 = "100-200"
	PriceOver200  = "over-200"
)

// Selection maps a filter group name to its selected option values.
// An empty or missing group applies no filter for that group.
type Selection map[string][]string

// has reports whether the group carries at least one selected option
func (s Selection) has(group string) bool {
	return len(s[group]) > 0
}

// priceRanges maps range values to their predicates. Boundaries: 50
// falls in "50-100", 100 falls in "50-100" and not "100-200", so the
// four ranges partition all prices with no gaps or overlaps.
var priceRanges = map[string]func(price float64) bool{
	PriceUnder50:  func(price float64) bool { return price < 50 },
	Price50To100:  func(price float64) bool { return price >= 50 && price <= 100 },
	Price100To200: func(price float64) bool { return price > 100 && price <= 200 },
	PriceOver200:  func(price float64) bool { return price > 200 },
}

// Apply runs the full filter/sort/search pipeline. It is pure and
// deterministic for a given input tuple; the input slice is not
// modified. Each stage narrows the previous stage's output.
func Apply(products []Product, selection Selection, sortKey SortKey, query string) []Product {
	filtered := applySearch(products, query)
	filtered = applyCustomizable(filtered, selection)
	filtered = applyTagGroup(filtered, selection, GroupIdealFor)
	filtered = applyTagGroup(filtered, selection, GroupOccasion)
	filtered = applyTagGroup(filtered, selection, GroupWork)
	filtered = applyFabric(filtered, selection)
	filtered = applyPrice(filtered, selection)
	return sortProducts(filtered, sortKey)
}

// applySearch keeps products whose name or description contains the
// query, case-insensitively. An empty query passes everything through.
func applySearch(products []Product, query string) []Product {
	query = strings.TrimSpace(query)
	if query == "" {
		return products
	}

	needle := strings.ToLower(query)
	var filtered []Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// applyCustomizable keeps only customizable products when the group has
// any selection. The selected option value itself is not distinguished.
func applyCustomizable(products []Product, selection Selection) []Product {
	if !selection.has(GroupCustomizable) {
		return products
	}

	var filtered []Product
	for _, p := range products {
		if p.Customizable {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// applyTagGroup keeps products carrying at least one of the group's
// selected options as a tag, case-insensitively.
func applyTagGroup(products []Product, selection Selection, group string) []Product {
	if !selection.has(group) {
		return products
	}

	var filtered []Product
	for _, p := range products {
		if hasAnyTag(p.Tags, selection[group]) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func hasAnyTag(tags, wanted []string) bool {
	for _, tag := range tags {
		for _, w := range wanted {
			if strings.EqualFold(tag, w) {
				return true
			}
		}
	}
	return false
}

// applyFabric keeps products whose category contains any selected
// fabric string as a case-insensitive substring.
func applyFabric(products []Product, selection Selection) []Product {
	if !selection.has(GroupFabric) {
		return products
	}

	var filtered []Product
	for _, p := range products {
		category := strings.ToLower(p.Category)
		for _, fabric := range selection[GroupFabric] {
			if strings.Contains(category, strings.ToLower(fabric)) {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered
}

// applyPrice keeps products whose price falls into at least one
// selected named range. A product with no price is always excluded
// once any price filter is active.
func applyPrice(products []Product, selection Selection) []Product {
	if !selection.has(GroupPrice) {
		return products
	}

	var filtered []Product
	for _, p := range products {
		if p.Price == nil {
			continue
		}
		for _, value := range selection[GroupPrice] {
			match, ok := priceRanges[value]
			if ok && match(*p.Price) {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered
}

// sortProducts orders the result by the given key. The sort is stable
// so that ties preserve the original relative order.
func sortProducts(products []Product, sortKey SortKey) []Product {
	sorted := make([]Product, len(products))
	copy(sorted, products)

	switch sortKey {
	case SortNewest:
		sort.SliceStable(sorted, func(i, j int) bool {
			return numericID(sorted[i].ID) > numericID(sorted[j].ID)
		})
	case SortPopular:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].RatingCount() > sorted[j].RatingCount()
		})
	case SortPriceLowHigh:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].PriceOrZero() < sorted[j].PriceOrZero()
		})
	case SortPriceHighLow:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].PriceOrZero() > sorted[j].PriceOrZero()
		})
	case SortRecommended:
		fallthrough
	default:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].RatingRate() > sorted[j].RatingRate()
		})
	}

	return sorted
}

func numericID(id string) int64 {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
