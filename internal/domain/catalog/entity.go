// internal/domain/catalog/entity.go
package catalog

// Product represents one catalog entry. Products are created by the
// fetcher at request time and are immutable afterwards; nothing in
// this package persists them.
type Product struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Title        string   `json:"title"`
	Image        string   `json:"image"`
	AltText      string   `json:"alt_text"`
	Price        *float64 `json:"price,omitempty"`
	Rating       *Rating  `json:"rating,omitempty"`
	Description  string   `json:"description,omitempty"`
	Category     string   `json:"category,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Customizable bool     `json:"customizable"`
	InStock      bool     `json:"in_stock"`
}

// Rating represents aggregated review data for a product
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// RatingRate returns the rating rate, treating a missing rating as 0
func (p *Product) RatingRate() float64 {
	if p.Rating == nil {
		return 0
	}
	return p.Rating.Rate
}

// RatingCount returns the review count, treating a missing rating as 0
func (p *Product) RatingCount() int {
	if p.Rating == nil {
		return 0
	}
	return p.Rating.Count
}

// PriceOrZero returns the price, treating a missing price as 0
func (p *Product) PriceOrZero() float64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}
