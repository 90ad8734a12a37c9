// internal/interfaces/http/handlers/product.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/currency"
	"github.com/your-org/storefront-backend/internal/domain/prefs"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/events"
)

// ProductHandler handles catalog endpoints
type ProductHandler struct {
	fetcher      *catalog.Fetcher
	prefsService *prefs.Service
	config       *config.Config
}

// NewProductHandler creates a new product handler
func NewProductHandler(redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) *ProductHandler {
	broker := events.NewBroker(redisClient, logger)
	return &ProductHandler{
		fetcher:      catalog.NewFetcher(cfg, logger),
		prefsService: prefs.NewService(redisClient, broker, logger),
		config:       cfg,
	}
}

// ProductView is a product as presented to the client. Prices are only
// populated when the request carries an active session.
type ProductView struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Title        string          `json:"title"`
	Image        string          `json:"image"`
	AltText      string          `json:"alt_text"`
	Price        *float64        `json:"price,omitempty"`
	DisplayPrice string          `json:"display_price,omitempty"`
	Rating       *catalog.Rating `json:"rating,omitempty"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
	Customizable bool            `json:"customizable"`
	InStock      bool            `json:"in_stock"`
}

// GetProducts handles GET /products. The full catalog is fetched fresh
// on every request and narrowed by the filter/sort/search pipeline.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := h.fetcher.FetchProducts(c.Request.Context())
	if err != nil {
		var fetchErr *catalog.FetchError
		if errors.As(err, &fetchErr) {
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Failed to retrieve catalog",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve catalog",
		})
		return
	}

	selection := parseSelection(c)
	sortKey := catalog.SortKey(c.DefaultQuery("sort", string(catalog.SortRecommended)))
	query := c.Query("search")

	displayed := catalog.Apply(products, selection, sortKey, query)

	sess := middleware.GetSessionFromContext(c)
	deviceID := middleware.GetDeviceIDFromContext(c)
	cur := h.displayCurrency(c, deviceID)

	views := make([]ProductView, len(displayed))
	for i, p := range displayed {
		views[i] = newProductView(p, sess != nil, cur)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data": gin.H{
			"products":       views,
			"count":          len(views),
			"prices_visible": sess != nil,
			"currency":       cur.Code,
		},
	})
}

// GetProduct handles GET /products/:id. The remote source only serves
// the full catalog, so the record is picked out of a fresh fetch.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	products, err := h.fetcher.FetchProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to retrieve catalog",
		})
		return
	}

	id := c.Param("id")
	sess := middleware.GetSessionFromContext(c)
	deviceID := middleware.GetDeviceIDFromContext(c)
	cur := h.displayCurrency(c, deviceID)

	for _, p := range products {
		if p.ID == id {
			view := newProductView(p, sess != nil, cur)
			c.JSON(http.StatusOK, gin.H{
				"message": "Product retrieved successfully",
				"data":    view,
			})
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{
		"error": "Product not found",
	})
}

// displayCurrency resolves the device's selected currency, falling
// back to the base currency when the preference store is unreachable.
func (h *ProductHandler) displayCurrency(c *gin.Context, deviceID string) currency.Currency {
	cur, err := h.prefsService.GetCurrency(c.Request.Context(), deviceID)
	if err != nil {
		return currency.Base()
	}
	return cur
}

func newProductView(p catalog.Product, pricesVisible bool, cur currency.Currency) ProductView {
	view := ProductView{
		ID:           p.ID,
		Name:         p.Name,
		Title:        p.Title,
		Image:        p.Image,
		AltText:      p.AltText,
		Rating:       p.Rating,
		Description:  p.Description,
		Category:     p.Category,
		Tags:         p.Tags,
		Customizable: p.Customizable,
		InStock:      p.InStock,
	}

	if pricesVisible && p.Price != nil {
		converted := currency.Convert(*p.Price, cur.Code)
		view.Price = &converted
		view.DisplayPrice = currency.Format(*p.Price, cur.Code)
	}

	return view
}

// parseSelection reads the filter groups from query parameters. Each
// group accepts repeated parameters or comma-separated values.
func parseSelection(c *gin.Context) catalog.Selection {
	groups := map[string]string{
		catalog.GroupCustomizable: "customizable",
		catalog.GroupIdealFor:     "ideal_for",
		catalog.GroupOccasion:     "occasion",
		catalog.GroupWork:         "work",
		catalog.GroupFabric:       "fabric",
		catalog.GroupPrice:        "price",
	}

	selection := catalog.Selection{}
	for group, param := range groups {
		var values []string
		for _, raw := range c.QueryArray(param) {
			for _, value := range strings.Split(raw, ",") {
				if value = strings.TrimSpace(value); value != "" {
					values = append(values, value)
				}
			}
		}
		if len(values) > 0 {
			selection[group] = values
		}
	}
	return selection
}
