// internal/interfaces/http/handlers/prefs.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/currency"
	"github.com/your-org/storefront-backend/internal/domain/prefs"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/events"
)

// PrefsHandler handles per-device display preference endpoints
type PrefsHandler struct {
	prefsService *prefs.Service
	config       *config.Config
}

// NewPrefsHandler creates a new preferences handler
func NewPrefsHandler(redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) *PrefsHandler {
	broker := events.NewBroker(redisClient, logger)
	return &PrefsHandler{
		prefsService: prefs.NewService(redisClient, broker, logger),
		config:       cfg,
	}
}

// GetCurrencies handles GET /currencies
func (h *PrefsHandler) GetCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Currencies retrieved successfully",
		"data": gin.H{
			"currencies": currency.Supported(),
			"base":       currency.BaseCode,
		},
	})
}

// GetPreferences handles GET /preferences
func (h *PrefsHandler) GetPreferences(c *gin.Context) {
	deviceID := middleware.GetDeviceIDFromContext(c)
	ctx := c.Request.Context()

	cur, err := h.prefsService.GetCurrency(ctx, deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve preferences",
		})
		return
	}

	lang, err := h.prefsService.GetLanguage(ctx, deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve preferences",
		})
		return
	}

	newsletterEmail, err := h.prefsService.GetNewsletterEmail(ctx, deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve preferences",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Preferences retrieved successfully",
		"data": gin.H{
			"currency":         cur,
			"language":         lang,
			"newsletter_email": newsletterEmail,
		},
	})
}

// SetCurrency handles PUT /preferences/currency
func (h *PrefsHandler) SetCurrency(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	deviceID := middleware.GetDeviceIDFromContext(c)
	cur, err := h.prefsService.SetCurrency(c.Request.Context(), deviceID, req.Code)
	if err != nil {
		if errors.Is(err, currency.ErrUnknownCurrency) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to save currency selection",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Currency updated successfully",
		"data":    cur,
	})
}

// SetLanguage handles PUT /preferences/language
func (h *PrefsHandler) SetLanguage(c *gin.Context) {
	var req struct {
		Language string `json:"language" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	deviceID := middleware.GetDeviceIDFromContext(c)
	if err := h.prefsService.SetLanguage(c.Request.Context(), deviceID, req.Language); err != nil {
		if errors.Is(err, prefs.ErrUnknownLanguage) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to save language selection",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Language updated successfully",
		"data": gin.H{
			"language": req.Language,
		},
	})
}

// SubscribeNewsletter handles POST /newsletter. Cosmetic: the email is
// remembered per device, nothing is actually subscribed.
func (h *PrefsHandler) SubscribeNewsletter(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	deviceID := middleware.GetDeviceIDFromContext(c)
	if err := h.prefsService.SetNewsletterEmail(c.Request.Context(), deviceID, req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to save newsletter email",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Newsletter email saved successfully",
	})
}
