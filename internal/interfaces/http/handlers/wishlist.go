// internal/interfaces/http/handlers/wishlist.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/wishlist"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"github.com/your-org/storefront-backend/internal/pkg/events"
)

// WishlistHandler handles wishlist endpoints
type WishlistHandler struct {
	wishlistService *wishlist.Service
	config          *config.Config
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) *WishlistHandler {
	broker := events.NewBroker(redisClient, logger)
	return &WishlistHandler{
		wishlistService: wishlist.NewService(redisClient, broker, logger),
		config:          cfg,
	}
}

// ToggleWishlistRequest represents a wishlist toggle request
type ToggleWishlistRequest struct {
	Product catalog.Product `json:"product" binding:"required"`
}

// GetWishlist handles GET /wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	deviceID := middleware.GetDeviceIDFromContext(c)

	items, err := h.wishlistService.Get(c.Request.Context(), deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve wishlist",
		})
		return
	}

	sess := middleware.GetSessionFromContext(c)
	if sess == nil {
		stripped := make([]wishlist.Item, len(items))
		copy(stripped, items)
		for i := range stripped {
			stripped[i].Price = nil
		}
		items = stripped
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist retrieved successfully",
		"data": gin.H{
			"items":          items,
			"count":          len(items),
			"prices_visible": sess != nil,
		},
	})
}

// ToggleWishlist handles POST /wishlist/toggle. Toggling is its own
// inverse: a present item is removed, an absent product is added.
func (h *WishlistHandler) ToggleWishlist(c *gin.Context) {
	var req ToggleWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	deviceID := middleware.GetDeviceIDFromContext(c)
	sess := middleware.GetSessionFromContext(c)

	added, items, err := h.wishlistService.Toggle(c.Request.Context(), deviceID, sess, req.Product)
	if err != nil {
		respondWishlistError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist updated successfully",
		"data": gin.H{
			"added": added,
			"items": items,
			"count": len(items),
		},
	})
}

// RemoveFromWishlist handles DELETE /wishlist/items/:id
func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	deviceID := middleware.GetDeviceIDFromContext(c)
	sess := middleware.GetSessionFromContext(c)

	items, err := h.wishlistService.Remove(c.Request.Context(), deviceID, sess, c.Param("id"))
	if err != nil {
		respondWishlistError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from wishlist successfully",
		"data": gin.H{
			"items": items,
			"count": len(items),
		},
	})
}

// CheckItemInWishlist handles GET /wishlist/check/:id
func (h *WishlistHandler) CheckItemInWishlist(c *gin.Context) {
	deviceID := middleware.GetDeviceIDFromContext(c)
	productID := c.Param("id")

	inWishlist, err := h.wishlistService.Contains(c.Request.Context(), deviceID, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to check wishlist status",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist status checked successfully",
		"data": gin.H{
			"in_wishlist": inWishlist,
			"product_id":  productID,
		},
	})
}

// GetWishlistCount handles GET /wishlist/count
func (h *WishlistHandler) GetWishlistCount(c *gin.Context) {
	deviceID := middleware.GetDeviceIDFromContext(c)

	count, err := h.wishlistService.Count(c.Request.Context(), deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get wishlist count",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist count retrieved successfully",
		"data": gin.H{
			"count": count,
		},
	})
}

func respondWishlistError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrSignInRequired):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":            "Sign in required",
			"sign_in_required": true,
		})
	case errors.Is(err, wishlist.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Wishlist operation failed",
		})
	}
}
