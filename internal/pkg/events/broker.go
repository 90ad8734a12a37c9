// internal/pkg/events/broker.go
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Kind identifies a state transition a store has broadcast
type Kind string

const (
	CartUpdated     Kind = "cart.updated"
	WishlistUpdated Kind = "wishlist.updated"
	AuthChanged     Kind = "auth.changed"
	CurrencyChanged Kind = "currency.changed"
	LanguageChanged Kind = "language.changed"
)

// Channel is the Redis pub/sub channel all store events go through
const Channel = "storefront:events"

// Event carries the minimal payload needed to know what changed.
// Subscribers must re-read store state rather than trust the payload;
// delivery order across subscribers is not guaranteed.
type Event struct {
	Kind     Kind      `json:"kind"`
	DeviceID string    `json:"device_id"`
	At       time.Time `json:"at"`
}

// Broker broadcasts store change notifications over Redis pub/sub so
// that every consumer of the shared device store stays in sync.
type Broker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
}

// NewBroker creates a new event broker
func NewBroker(redisClient *redis.Client, logger *logrus.Logger) *Broker {
	return &Broker{
		redisClient: redisClient,
		logger:      logger,
	}
}

// Publish broadcasts a change notification. Failures are logged and
// swallowed: a missed notification must never roll back the store
// mutation that preceded it.
func (b *Broker) Publish(ctx context.Context, kind Kind, deviceID string) {
	event := Event{
		Kind:     kind,
		DeviceID: deviceID,
		At:       time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.WithError(err).Error("Failed to encode store event")
		return
	}

	if err := b.redisClient.Publish(ctx, Channel, payload).Err(); err != nil {
		b.logger.WithError(err).WithField("kind", kind).Warn("Failed to publish store event")
	}
}

// Subscribe returns a channel of store events and a cancel function.
// The channel is closed when the subscription ends.
func (b *Broker) Subscribe(ctx context.Context) (<-chan Event, func()) {
	pubsub := b.redisClient.Subscribe(ctx, Channel)
	out := make(chan Event)

	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.WithError(err).Warn("Dropping malformed store event")
				continue
			}
			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		_ = pubsub.Close()
	}
	return out, cancel
}
