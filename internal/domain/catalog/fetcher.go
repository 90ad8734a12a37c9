// internal/domain/catalog/fetcher.go
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
)

// FetchError indicates the remote catalog could not be retrieved.
// StatusCode is 0 when the request itself failed before a response.
type FetchError struct {
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog fetch failed: %v", e.Err)
	}
	return fmt.Sprintf("catalog fetch failed: unexpected status %d", e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// remoteProduct mirrors one record of the remote catalog response
type remoteProduct struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Price       *float64 `json:"price"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Image       string   `json:"image"`
	Rating      *Rating  `json:"rating"`
	Tags        []string `json:"tags"`

	// Optional real attributes; defaulted when the source omits them
	Customizable *bool `json:"customizable"`
	InStock      *bool `json:"in_stock"`
}

// Fetcher retrieves the full product list from the remote catalog.
// It never caches; every call requests fresh data.
type Fetcher struct {
	client *http.Client
	config *config.Config
	logger *logrus.Logger
}

// NewFetcher creates a new catalog fetcher
func NewFetcher(cfg *config.Config, logger *logrus.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Catalog.Timeout,
		},
		config: cfg,
		logger: logger,
	}
}

// FetchProducts retrieves and maps the full catalog. A non-2xx response
// or transport failure yields a *FetchError; there is no retry and the
// caller is expected to surface the failure as an empty/error state.
func (f *Fetcher) FetchProducts(ctx context.Context) ([]Product, error) {
	url := f.config.Catalog.BaseURL + "/products"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.WithError(err).Error("Catalog request failed")
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.logger.WithField("status_code", resp.StatusCode).Error("Catalog returned non-success status")
		return nil, &FetchError{StatusCode: resp.StatusCode}
	}

	var records []remoteProduct
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, &FetchError{Err: fmt.Errorf("decode catalog response: %w", err)}
	}

	products := make([]Product, len(records))
	for i, record := range records {
		products[i] = f.mapProduct(record)
	}

	f.logger.WithField("count", len(products)).Debug("Catalog fetched")
	return products, nil
}

// mapProduct converts a remote record to the internal product shape.
// The remote id becomes a string and the title is carried into both
// name and title.
func (f *Fetcher) mapProduct(record remoteProduct) Product {
	p := Product{
		ID:          strconv.Itoa(record.ID),
		Name:        record.Title,
		Title:       record.Title,
		Image:       record.Image,
		AltText:     fmt.Sprintf("Buy %s online", record.Title),
		Price:       record.Price,
		Rating:      record.Rating,
		Description: record.Description,
		Category:    record.Category,
		Tags:        record.Tags,
	}

	// The remote source rarely carries these attributes; default them
	// to fixed values so the pipeline stays deterministic. Demo mode
	// restores the original storefront's random draws, using the shared
	// top-level source, which is safe under concurrent requests.
	p.Customizable = false
	p.InStock = true
	if record.Customizable != nil {
		p.Customizable = *record.Customizable
	}
	if record.InStock != nil {
		p.InStock = *record.InStock
	}
	if f.config.Catalog.DemoFlags {
		if record.Customizable == nil {
			p.Customizable = rand.Float64() > 0.5
		}
		if record.InStock == nil {
			p.InStock = rand.Float64() > 0.3
		}
	}

	return p
}
