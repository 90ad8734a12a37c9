// internal/interfaces/http/handlers/events.go
package handlers

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/events"
)

// EventsHandler streams store change notifications to clients
type EventsHandler struct {
	broker *events.Broker
	config *config.Config
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) *EventsHandler {
	return &EventsHandler{
		broker: events.NewBroker(redisClient, logger),
		config: cfg,
	}
}

// Stream handles GET /events as server-sent events. Only events for
// the caller's device scope are forwarded; the payload is minimal and
// clients are expected to re-read store state on every notification.
func (h *EventsHandler) Stream(c *gin.Context) {
	deviceID := middleware.GetDeviceIDFromContext(c)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ctx := c.Request.Context()
	eventCh, cancel := h.broker.Subscribe(ctx)
	defer cancel()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-eventCh:
			if !ok {
				return false
			}
			if event.DeviceID != deviceID {
				return true
			}
			payload, err := json.Marshal(event)
			if err != nil {
				return true
			}
			c.SSEvent(string(event.Kind), string(payload))
			return true
		case <-ctx.Done():
			return false
		}
	})
}
