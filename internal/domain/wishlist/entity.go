// internal/domain/wishlist/entity.go
package wishlist

import (
	"time"

	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

// Item represents a saved-for-later reference to a product
type Item struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Image   string          `json:"image"`
	Price   *float64        `json:"price,omitempty"`
	Rating  *catalog.Rating `json:"rating,omitempty"`
	AddedAt time.Time       `json:"added_at"`
}

// NewItem derives a wishlist item from a product
func NewItem(p catalog.Product) Item {
	return Item{
		ID:      p.ID,
		Name:    p.Name,
		Image:   p.Image,
		Price:   p.Price,
		Rating:  p.Rating,
		AddedAt: time.Now().UTC(),
	}
}
