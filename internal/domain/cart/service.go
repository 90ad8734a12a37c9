// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"github.com/your-org/storefront-backend/internal/pkg/events"
)

// ErrItemNotFound indicates the product is not in the cart
var ErrItemNotFound = errors.New("item not found in cart")

// Service handles cart business logic. The cart is one keyed
// collection per device scope, shared by every session on the device.
// All mutators require an active session and broadcast a change
// notification after writing.
type Service struct {
	redisClient *redis.Client
	events      *events.Broker
	logger      *logrus.Logger
}

// NewService creates a new cart service
func NewService(redisClient *redis.Client, broker *events.Broker, logger *logrus.Logger) *Service {
	return &Service{
		redisClient: redisClient,
		events:      broker,
		logger:      logger,
	}
}

func storageKey(deviceID string) string {
	return fmt.Sprintf("cart:device:%s", deviceID)
}

// Get retrieves the cart collection for a device. A missing key is an
// empty cart, not an error.
func (s *Service) Get(ctx context.Context, deviceID string) ([]Item, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("device ID required")
	}

	data, err := s.redisClient.Get(ctx, storageKey(deviceID)).Result()
	if err == redis.Nil {
		return []Item{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	var items []Item
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return items, nil
}

// Add puts a product in the cart. If an item with the same id already
// exists its quantity is increased by the given amount; otherwise a
// new item is inserted. Quantities below 1 are clamped to 1.
func (s *Service) Add(ctx context.Context, deviceID string, sess *auth.Session, product catalog.Product, quantity int) ([]Item, error) {
	if sess == nil {
		return nil, auth.ErrSignInRequired
	}
	if quantity < 1 {
		quantity = 1
	}

	items, err := s.Get(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	exists := false
	for i := range items {
		if items[i].ID == product.ID {
			items[i].Quantity += quantity
			exists = true
			break
		}
	}
	if !exists {
		items = append(items, NewItem(product, quantity))
	}

	if err := s.save(ctx, deviceID, items); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, events.CartUpdated, deviceID)
	return items, nil
}

// UpdateQuantity sets an item's absolute quantity, clamped to a
// minimum of 1. Removal is a separate operation; decrementing can
// never drop an item out of the cart.
func (s *Service) UpdateQuantity(ctx context.Context, deviceID string, sess *auth.Session, productID string, quantity int) ([]Item, error) {
	if sess == nil {
		return nil, auth.ErrSignInRequired
	}
	if quantity < 1 {
		quantity = 1
	}

	items, err := s.Get(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range items {
		if items[i].ID == productID {
			items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, ErrItemNotFound
	}

	if err := s.save(ctx, deviceID, items); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, events.CartUpdated, deviceID)
	return items, nil
}

// Remove deletes an entry by product id
func (s *Service) Remove(ctx context.Context, deviceID string, sess *auth.Session, productID string) ([]Item, error) {
	if sess == nil {
		return nil, auth.ErrSignInRequired
	}

	items, err := s.Get(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range items {
		if items[i].ID == productID {
			items = append(items[:i], items[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return nil, ErrItemNotFound
	}

	if err := s.save(ctx, deviceID, items); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, events.CartUpdated, deviceID)
	return items, nil
}

// Count returns the total quantity across all cart items
func (s *Service) Count(ctx context.Context, deviceID string) (int, error) {
	items, err := s.Get(ctx, deviceID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total, nil
}

// Clear empties the device's cart. Called on sign-out; not gated,
// since sign-out itself runs after the session is gone.
func (s *Service) Clear(ctx context.Context, deviceID string) error {
	if err := s.redisClient.Del(ctx, storageKey(deviceID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	s.events.Publish(ctx, events.CartUpdated, deviceID)
	return nil
}

func (s *Service) save(ctx context.Context, deviceID string, items []Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.redisClient.Set(ctx, storageKey(deviceID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}
