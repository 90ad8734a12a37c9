// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/currency"
	"github.com/your-org/storefront-backend/internal/domain/prefs"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"github.com/your-org/storefront-backend/internal/pkg/events"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService  *cart.Service
	prefsService *prefs.Service
	config       *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) *CartHandler {
	broker := events.NewBroker(redisClient, logger)
	return &CartHandler{
		cartService:  cart.NewService(redisClient, broker, logger),
		prefsService: prefs.NewService(redisClient, broker, logger),
		config:       cfg,
	}
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	Product  catalog.Product `json:"product" binding:"required"`
	Quantity int             `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest represents update cart item request
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse represents the cart with items and totals
type CartResponse struct {
	Items           []cart.Item `json:"items"`
	Totals          cart.Totals `json:"totals"`
	Currency        string      `json:"currency"`
	DisplaySubTotal string      `json:"display_sub_total,omitempty"`
	PricesVisible   bool        `json:"prices_visible"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	deviceID := middleware.GetDeviceIDFromContext(c)

	items, err := h.cartService.Get(c.Request.Context(), deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    h.cartResponse(c, deviceID, items),
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	deviceID := middleware.GetDeviceIDFromContext(c)
	sess := middleware.GetSessionFromContext(c)

	items, err := h.cartService.Add(c.Request.Context(), deviceID, sess, req.Product, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item added to cart successfully",
		"data":    h.cartResponse(c, deviceID, items),
	})
}

// UpdateCartItem handles PUT /cart/items/:id. Quantity is absolute and
// clamps at 1; removing an item is a separate operation.
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	deviceID := middleware.GetDeviceIDFromContext(c)
	sess := middleware.GetSessionFromContext(c)

	items, err := h.cartService.UpdateQuantity(c.Request.Context(), deviceID, sess, c.Param("id"), req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    h.cartResponse(c, deviceID, items),
	})
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	deviceID := middleware.GetDeviceIDFromContext(c)
	sess := middleware.GetSessionFromContext(c)

	items, err := h.cartService.Remove(c.Request.Context(), deviceID, sess, c.Param("id"))
	if err != nil {
		respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    h.cartResponse(c, deviceID, items),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	deviceID := middleware.GetDeviceIDFromContext(c)

	if err := h.cartService.Clear(c.Request.Context(), deviceID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// GetCartCount handles GET /cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	deviceID := middleware.GetDeviceIDFromContext(c)

	count, err := h.cartService.Count(c.Request.Context(), deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get cart count",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved successfully",
		"data": gin.H{
			"count": count,
		},
	})
}

// cartResponse assembles the cart view. Prices are stripped for
// anonymous visitors; the subtotal is also formatted in the device's
// selected display currency for signed-in ones.
func (h *CartHandler) cartResponse(c *gin.Context, deviceID string, items []cart.Item) CartResponse {
	sess := middleware.GetSessionFromContext(c)
	cur, err := h.prefsService.GetCurrency(c.Request.Context(), deviceID)
	if err != nil {
		cur = currency.Base()
	}

	totals := cart.CalculateTotals(items)
	response := CartResponse{
		Items:         items,
		Totals:        totals,
		Currency:      cur.Code,
		PricesVisible: sess != nil,
	}

	if sess != nil {
		response.DisplaySubTotal = currency.Format(totals.SubTotal, cur.Code)
	} else {
		stripped := make([]cart.Item, len(items))
		copy(stripped, items)
		for i := range stripped {
			stripped[i].Price = nil
		}
		response.Items = stripped
		response.Totals.SubTotal = 0
	}

	return response
}

func respondCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrSignInRequired):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":            "Sign in required",
			"sign_in_required": true,
		})
	case errors.Is(err, cart.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Cart operation failed",
		})
	}
}
