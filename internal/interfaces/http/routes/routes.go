// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// SetupRoutes wires every endpoint under the API group
func SetupRoutes(rg *gin.RouterGroup, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	setupAuthRoutes(rg, redisClient, cfg, logger)
	setupProductRoutes(rg, redisClient, cfg, logger)
	setupCartRoutes(rg, redisClient, cfg, logger)
	setupWishlistRoutes(rg, redisClient, cfg, logger)
	setupPrefsRoutes(rg, redisClient, cfg, logger)
	setupEventRoutes(rg, redisClient, cfg, logger)
}

func setupAuthRoutes(rg *gin.RouterGroup, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	authHandler := handlers.NewAuthHandler(redisClient, cfg, logger)

	auth := rg.Group("/auth")
	{
		// Public auth endpoints
		auth.POST("/signin", authHandler.SignIn)
		auth.POST("/signup", authHandler.SignUp)

		// Protected auth endpoints
		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("/signout", authHandler.SignOut)
			protected.GET("/profile", authHandler.GetProfile)
		}
	}
}

func setupProductRoutes(rg *gin.RouterGroup, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	productHandler := handlers.NewProductHandler(redisClient, cfg, logger)

	products := rg.Group("/products")
	products.Use(middleware.OptionalAuthMiddleware(cfg)) // price visibility depends on session
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)
	}
}

func setupCartRoutes(rg *gin.RouterGroup, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	cartHandler := handlers.NewCartHandler(redisClient, cfg, logger)

	cart := rg.Group("/cart")
	cart.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		// Reads work anonymously; mutators are gated inside the service
		cart.GET("", cartHandler.GetCart)
		cart.GET("/count", cartHandler.GetCartCount)
		cart.POST("/items", cartHandler.AddToCart)
		cart.PUT("/items/:id", cartHandler.UpdateCartItem)
		cart.DELETE("/items/:id", cartHandler.RemoveFromCart)
	}

	// Clearing the whole cart requires a session
	clear := rg.Group("/cart")
	clear.Use(middleware.AuthMiddleware(cfg))
	{
		clear.DELETE("", cartHandler.ClearCart)
	}
}

func setupWishlistRoutes(rg *gin.RouterGroup, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	wishlistHandler := handlers.NewWishlistHandler(redisClient, cfg, logger)

	wishlist := rg.Group("/wishlist")
	wishlist.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		wishlist.GET("", wishlistHandler.GetWishlist)
		wishlist.GET("/count", wishlistHandler.GetWishlistCount)
		wishlist.GET("/check/:id", wishlistHandler.CheckItemInWishlist)
		wishlist.POST("/toggle", wishlistHandler.ToggleWishlist)
		wishlist.DELETE("/items/:id", wishlistHandler.RemoveFromWishlist)
	}
}

func setupPrefsRoutes(rg *gin.RouterGroup, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	prefsHandler := handlers.NewPrefsHandler(redisClient, cfg, logger)

	rg.GET("/currencies", prefsHandler.GetCurrencies)
	rg.POST("/newsletter", prefsHandler.SubscribeNewsletter)

	preferences := rg.Group("/preferences")
	{
		preferences.GET("", prefsHandler.GetPreferences)
		preferences.PUT("/currency", prefsHandler.SetCurrency)
		preferences.PUT("/language", prefsHandler.SetLanguage)
	}
}

func setupEventRoutes(rg *gin.RouterGroup, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	eventsHandler := handlers.NewEventsHandler(redisClient, cfg, logger)

	rg.GET("/events", eventsHandler.Stream)
}
