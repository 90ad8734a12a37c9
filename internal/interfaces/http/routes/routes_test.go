// internal/interfaces/http/routes/routes_test.go
package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

const catalogBody = `[
	{"id": 1, "title": "Linen Shirt", "price": 40,
	 "description": "A light shirt", "category": "men's clothing",
	 "image": "https://example.com/1.jpg",
	 "rating": {"rate": 4.5, "count": 120}},
	{"id": 2, "title": "Leather Shoes", "price": 150,
	 "description": "Sturdy shoes", "category": "men's shoes",
	 "image": "https://example.com/2.jpg",
	 "rating": {"rate": 4.8, "count": 30}}
]`

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	catalogServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(catalogBody))
	}))
	t.Cleanup(catalogServer.Close)

	cfg := &config.Config{}
	cfg.App.Name = "Storefront Backend"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.SessionExpiry = time.Hour
	cfg.Catalog.BaseURL = catalogServer.URL
	cfg.Catalog.Timeout = 2 * time.Second

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	router := gin.New()
	router.Use(middleware.DeviceID())
	SetupRoutes(router.Group("/api/v1"), client, cfg, logger)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Device-ID", "test-device")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func signIn(t *testing.T, router *gin.Engine) string {
	t.Helper()

	w := doJSON(t, router, "POST", "/api/v1/auth/signin", "", gin.H{
		"email":    "jane@example.com",
		"password": "whatever",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Data.Token)
	return response.Data.Token
}

func TestSignIn_ReturnsSessionAndToken(t *testing.T) {
	router := setupTestRouter(t)

	token := signIn(t, router)

	assert.NotEmpty(t, token)
}

func TestSignIn_EmptyCredentials(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, "POST", "/api/v1/auth/signin", "", gin.H{
		"email":    "  ",
		"password": "pw",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProducts_AnonymousHidesPrices(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, "GET", "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data struct {
			Products []map[string]interface{} `json:"products"`
			Count    int                      `json:"count"`
			Visible  bool                     `json:"prices_visible"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Data.Count)
	assert.False(t, response.Data.Visible)
	for _, p := range response.Data.Products {
		assert.NotContains(t, p, "price")
		assert.NotContains(t, p, "display_price")
	}
}

func TestGetProducts_SignedInShowsPrices(t *testing.T) {
	router := setupTestRouter(t)
	token := signIn(t, router)

	w := doJSON(t, router, "GET", "/api/v1/products", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data struct {
			Products []map[string]interface{} `json:"products"`
			Visible  bool                     `json:"prices_visible"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Data.Visible)
	require.NotEmpty(t, response.Data.Products)
	assert.Contains(t, response.Data.Products[0], "price")
	assert.Contains(t, response.Data.Products[0], "display_price")
}

func TestGetProducts_FilterAndSortParams(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, "GET", "/api/v1/products?price=100-200&sort=price-low-high", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data struct {
			Products []map[string]interface{} `json:"products"`
			Count    int                      `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, 1, response.Data.Count)
	assert.Equal(t, "Leather Shoes", response.Data.Products[0]["name"])
}

func TestGetProduct_NotFound(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, "GET", "/api/v1/products/99", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddToCart_AnonymousGetsSignInPrompt(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, "POST", "/api/v1/cart/items", "", gin.H{
		"product":  gin.H{"id": "1", "name": "Linen Shirt", "price": 40},
		"quantity": 1,
	})

	require.Equal(t, http.StatusUnauthorized, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["sign_in_required"])
}

func TestCartFlow_AddUpdateRemove(t *testing.T) {
	router := setupTestRouter(t)
	token := signIn(t, router)

	w := doJSON(t, router, "POST", "/api/v1/cart/items", token, gin.H{
		"product":  gin.H{"id": "1", "name": "Linen Shirt", "price": 40},
		"quantity": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// same product again accumulates
	w = doJSON(t, router, "POST", "/api/v1/cart/items", token, gin.H{
		"product":  gin.H{"id": "1", "name": "Linen Shirt", "price": 40},
		"quantity": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, "GET", "/api/v1/cart/count", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var countResp struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &countResp))
	assert.Equal(t, 3, countResp.Data.Count)

	w = doJSON(t, router, "PUT", "/api/v1/cart/items/1", token, gin.H{"quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "DELETE", "/api/v1/cart/items/1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "DELETE", "/api/v1/cart/items/1", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWishlistToggle_AndSignOutClearsState(t *testing.T) {
	router := setupTestRouter(t)
	token := signIn(t, router)

	w := doJSON(t, router, "POST", "/api/v1/wishlist/toggle", token, gin.H{
		"product": gin.H{"id": "2", "name": "Leather Shoes", "price": 150},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/api/v1/wishlist/check/2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var checkResp struct {
		Data struct {
			InWishlist bool `json:"in_wishlist"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &checkResp))
	assert.True(t, checkResp.Data.InWishlist)

	w = doJSON(t, router, "POST", "/api/v1/auth/signout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// collections are gone after sign-out
	w = doJSON(t, router, "GET", "/api/v1/wishlist/count", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var countResp struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &countResp))
	assert.Zero(t, countResp.Data.Count)
}

func TestPreferences_CurrencyRoundTrip(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, "PUT", "/api/v1/preferences/currency", "", gin.H{"code": "EUR"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/api/v1/preferences", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data struct {
			Currency struct {
				Code string `json:"code"`
			} `json:"currency"`
			Language string `json:"language"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "EUR", response.Data.Currency.Code)
	assert.Equal(t, "en", response.Data.Language)
}

func TestPreferences_RejectsUnknownCurrency(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, "PUT", "/api/v1/preferences/currency", "", gin.H{"code": "XYZ"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCurrencies_ListsSupported(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, "GET", "/api/v1/currencies", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data struct {
			Currencies []struct {
				Code string `json:"code"`
			} `json:"currencies"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Data.Currencies, 4)
	assert.Equal(t, "USD", response.Data.Currencies[0].Code)
}
