// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/session"
	"github.com/your-org/storefront-backend/internal/domain/wishlist"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"github.com/your-org/storefront-backend/internal/pkg/events"
)

// AuthHandler handles session endpoints
type AuthHandler struct {
	sessionService *session.Service
	config         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) *AuthHandler {
	broker := events.NewBroker(redisClient, logger)
	cartService := cart.NewService(redisClient, broker, logger)
	wishlistService := wishlist.NewService(redisClient, broker, logger)

	return &AuthHandler{
		sessionService: session.NewService(
			auth.NewJWTManager(cfg),
			session.DemoVerifier{},
			cartService,
			wishlistService,
			broker,
			logger,
		),
		config: cfg,
	}
}

// SignIn handles POST /auth/signin
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req session.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	deviceID := middleware.GetDeviceIDFromContext(c)
	result, err := h.sessionService.SignIn(c.Request.Context(), deviceID, &req)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Signed in successfully",
		"data":    result,
	})
}

// SignUp handles POST /auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req session.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	deviceID := middleware.GetDeviceIDFromContext(c)
	result, err := h.sessionService.SignUp(c.Request.Context(), deviceID, &req)
	if err != nil {
		var validationErr *session.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": validationErr.Message,
				"field": validationErr.Field,
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"data":    result,
	})
}

// SignOut handles POST /auth/signout. Signing out clears the device's
// cart and wishlist; this storefront has no per-account persistence.
func (h *AuthHandler) SignOut(c *gin.Context) {
	deviceID := middleware.GetDeviceIDFromContext(c)

	if err := h.sessionService.SignOut(c.Request.Context(), deviceID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to sign out",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Signed out successfully",
	})
}

// GetProfile handles GET /auth/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	sess := middleware.GetSessionFromContext(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":            "Sign in required",
			"sign_in_required": true,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile retrieved successfully",
		"data":    sess,
	})
}
