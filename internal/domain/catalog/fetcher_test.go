// internal/domain/catalog/fetcher_test.go
package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-backend/internal/config"
)

func newTestFetcher(baseURL string, demoFlags bool) *Fetcher {
	cfg := &config.Config{}
	cfg.Catalog.BaseURL = baseURL
	cfg.Catalog.Timeout = 2 * time.Second
	cfg.Catalog.DemoFlags = demoFlags

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return NewFetcher(cfg, logger)
}

func TestFetchProducts_MapsRemoteRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 1, "title": "Linen Shirt", "price": 39.99,
			 "description": "A light shirt", "category": "men's clothing",
			 "image": "https://example.com/1.jpg",
			 "rating": {"rate": 4.5, "count": 120}},
			{"id": 2, "title": "Plain Mug", "description": "No price listed"}
		]`))
	}))
	defer server.Close()

	fetcher := newTestFetcher(server.URL, false)
	products, err := fetcher.FetchProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)

	first := products[0]
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, "Linen Shirt", first.Name)
	assert.Equal(t, "Linen Shirt", first.Title)
	assert.Equal(t, "Buy Linen Shirt online", first.AltText)
	require.NotNil(t, first.Price)
	assert.Equal(t, 39.99, *first.Price)
	require.NotNil(t, first.Rating)
	assert.Equal(t, 4.5, first.Rating.Rate)
	assert.Equal(t, 120, first.Rating.Count)

	second := products[1]
	assert.Equal(t, "2", second.ID)
	assert.Nil(t, second.Price)
	assert.Nil(t, second.Rating)
}

func TestFetchProducts_DefaultsFlagsDeterministically(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 1, "title": "Shirt"}]`))
	}))
	defer server.Close()

	fetcher := newTestFetcher(server.URL, false)
	products, err := fetcher.FetchProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.False(t, products[0].Customizable)
	assert.True(t, products[0].InStock)
}

func TestFetchProducts_HonorsExplicitFlags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 1, "title": "Shirt", "customizable": true, "in_stock": false}]`))
	}))
	defer server.Close()

	fetcher := newTestFetcher(server.URL, true)
	products, err := fetcher.FetchProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, products[0].Customizable)
	assert.False(t, products[0].InStock)
}

func TestFetchProducts_ConcurrentDemoDraws(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 1, "title": "Shirt"}, {"id": 2, "title": "Shoes"}]`))
	}))
	defer server.Close()

	fetcher := newTestFetcher(server.URL, true)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			products, err := fetcher.FetchProducts(context.Background())
			assert.NoError(t, err)
			assert.Len(t, products, 2)
		}()
	}
	wg.Wait()
}

func TestFetchProducts_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := newTestFetcher(server.URL, false)
	products, err := fetcher.FetchProducts(context.Background())

	assert.Nil(t, products)
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusInternalServerError, fetchErr.StatusCode)
}

func TestFetchProducts_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	fetcher := newTestFetcher(server.URL, false)
	products, err := fetcher.FetchProducts(context.Background())

	assert.Nil(t, products)
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Zero(t, fetchErr.StatusCode)
	assert.Error(t, fetchErr.Unwrap())
}

func TestFetchProducts_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"}`))
	}))
	defer server.Close()

	fetcher := newTestFetcher(server.URL, false)
	_, err := fetcher.FetchProducts(context.Background())

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
}
