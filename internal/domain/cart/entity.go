// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

// Item represents one cart entry. The collection holds at most one
// item per product id; adding an already-present product accumulates
// its quantity instead of duplicating the entry.
type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Image       string          `json:"image"`
	Price       *float64        `json:"price,omitempty"`
	Rating      *catalog.Rating `json:"rating,omitempty"`
	Description string          `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
	AddedAt     time.Time       `json:"added_at"`
}

// NewItem derives a cart item from a product
func NewItem(p catalog.Product, quantity int) Item {
	return Item{
		ID:          p.ID,
		Name:        p.Name,
		Image:       p.Image,
		Price:       p.Price,
		Rating:      p.Rating,
		Description: p.Description,
		Quantity:    quantity,
		AddedAt:     time.Now().UTC(),
	}
}

// Totals represents calculated cart totals
type Totals struct {
	ItemCount     int     `json:"item_count"`     // Number of unique items
	TotalQuantity int     `json:"total_quantity"` // Sum of all quantities
	SubTotal      float64 `json:"sub_total"`      // Base-currency subtotal
}

// CalculateTotals sums the collection. Items with no price contribute
// quantity but no amount.
func CalculateTotals(items []Item) Totals {
	var totals Totals
	totals.ItemCount = len(items)
	for _, item := range items {
		totals.TotalQuantity += item.Quantity
		if item.Price != nil {
			totals.SubTotal += *item.Price * float64(item.Quantity)
		}
	}
	return totals
}
