// internal/domain/wishlist/service.go
package wishlist

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

// ErrItemNotFound indicates the product is not in the wishlist
var ErrItemNotFound = errors.New("item not found in wishlist")

// Service handles wishlist business logic. The wishlist is one keyed
// collection per device scope; all sessions on a device share it.
type Service struct {
	redisClient *redis.Client
	events      *events.Broker
	logger      *logrus.Logger
}

// NewService creates a new wishlist service
func NewService(redisClient *redis.Client, broker *events.Broker, logger *logrus.Logger) *Service {
	return &Service{
		redisClient: redisClient,
		events:      broker,
		logger:      logger,
	}
}

func storageKey(deviceID string) string {
	return fmt.Sprintf("wishlist:device:%s", deviceID)
}

// Get retrieves the wishlist collection for a device. A missing key is
// an empty wishlist, not an error.
func (s *Service) Get(ctx context.Context, deviceID string) ([]Item, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("device ID required")
	}

	data, err := s.redisClient.Get(ctx, storageKey(deviceID)).Result()
	if err == redis.Nil {
		return []Item{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to retrieve wishlist: %w", err)
	}

	var items []Item
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, fmt.Errorf("failed to decode wishlist: %w", err)
	}
	return items, nil
}

// Toggle flips a product's wishlist membership: present items are
// removed, absent products are inserted. Returns the new membership
// state. Requires an active session.
func (s *Service) Toggle(ctx context.Context, deviceID string, sess *auth.Session, product catalog.Product) (bool, []Item, error) {
	if sess == nil {
		return false, nil, auth.ErrSignInRequired
	}

	items, err := s.Get(ctx, deviceID)
	if err != nil {
		return false, nil, err
	}

	added := true
	for i := range items {
		if items[i].ID == product.ID {
			items = append(items[:i], items[i+1:]...)
			added = false
			break
		}
	}
	if added {
		items = append(items, NewItem(product))
	}

	if err := s.save(ctx, deviceID, items); err != nil {
		return false, nil, err
	}

	s.events.Publish(ctx, events.WishlistUpdated, deviceID)
	return added, items, nil
}

// Remove deletes an entry by product id. Requires an active session.
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

	s.events.Publish(ctx, events.WishlistUpdated, deviceID)
	return items, nil
}

// Contains reports whether a product is in the device's wishlist
func (s *Service) Contains(ctx context.Context, deviceID, productID string) (bool, error) {
	items, err := s.Get(ctx, deviceID)
	if err != nil {
		return false, err
	}
	for _, item := range items {
		if item.ID == productID {
			return true, nil
		}
	}
	return false, nil
}

// Count returns the number of wishlist entries
func (s *Service) Count(ctx context.Context, deviceID string) (int, error) {
	items, err := s.Get(ctx, deviceID)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// Clear empties the device's wishlist. Called on sign-out; not gated,
// since sign-out itself runs after the session is gone.
func (s *Service) Clear(ctx context.Context, deviceID string) error {
	if err := s.redisClient.Del(ctx, storageKey(deviceID)).Err(); err != nil {
		return fmt.Errorf("failed to clear wishlist: %w", err)
	}
	s.events.Publish(ctx, events.WishlistUpdated, deviceID)
	return nil
}

func (s *Service) save(ctx context.Context, deviceID string, items []Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode wishlist: %w", err)
	}
	if err := s.redisClient.Set(ctx, storageKey(deviceID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save wishlist: %w", err)
	}
	return nil
}
