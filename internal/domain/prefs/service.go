// internal/domain/prefs/service.go
package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/currency"
	"github.com/your-org/storefront-backend/internal/pkg/events"
)

// ErrUnknownLanguage indicates a language outside the supported set
var ErrUnknownLanguage = errors.New("unknown language")

// supportedLanguages is the closed set of display languages
var supportedLanguages = map[string]bool{
	"en": true,
	"es": true,
	"fr": true,
}

// DefaultLanguage is used until a device selects one
const DefaultLanguage = "en"

// Service persists per-device display selections: currency code,
// language, and the last-used newsletter email. Selecting a currency
// is purely a display transform and never mutates stored prices.
type Service struct {
	redisClient *redis.Client
	events      *events.Broker
	logger      *logrus.Logger
}

// NewService creates a new preferences service
func NewService(redisClient *redis.Client, broker *events.Broker, logger *logrus.Logger) *Service {
	return &Service{
		redisClient: redisClient,
		events:      broker,
		logger:      logger,
	}
}

func currencyKey(deviceID string) string   { return fmt.Sprintf("currency:device:%s", deviceID) }
func languageKey(deviceID string) string   { return fmt.Sprintf("language:device:%s", deviceID) }
func newsletterKey(deviceID string) string { return fmt.Sprintf("newsletter:device:%s", deviceID) }

// GetCurrency returns the device's selected currency, defaulting to
// the base currency when none is stored.
func (s *Service) GetCurrency(ctx context.Context, deviceID string) (currency.Currency, error) {
	code, err := s.redisClient.Get(ctx, currencyKey(deviceID)).Result()
	if err == redis.Nil {
		return currency.Base(), nil
	} else if err != nil {
		return currency.Currency{}, fmt.Errorf("failed to retrieve currency selection: %w", err)
	}

	c, err := currency.Lookup(code)
	if err != nil {
		// Stale or corrupt selection falls back to the base currency
		return currency.Base(), nil
	}
	return c, nil
}

// SetCurrency stores the device's display currency. Unknown codes are
// rejected so a bad selection can never reach the converter.
func (s *Service) SetCurrency(ctx context.Context, deviceID, code string) (currency.Currency, error) {
	c, err := currency.Lookup(code)
	if err != nil {
		return currency.Currency{}, err
	}

	if err := s.redisClient.Set(ctx, currencyKey(deviceID), c.Code, 0).Err(); err != nil {
		return currency.Currency{}, fmt.Errorf("failed to save currency selection: %w", err)
	}

	s.events.Publish(ctx, events.CurrencyChanged, deviceID)
	return c, nil
}

// GetLanguage returns the device's display language
func (s *Service) GetLanguage(ctx context.Context, deviceID string) (string, error) {
	lang, err := s.redisClient.Get(ctx, languageKey(deviceID)).Result()
	if err == redis.Nil {
		return DefaultLanguage, nil
	} else if err != nil {
		return "", fmt.Errorf("failed to retrieve language selection: %w", err)
	}
	if !supportedLanguages[lang] {
		return DefaultLanguage, nil
	}
	return lang, nil
}

// SetLanguage stores the device's display language
func (s *Service) SetLanguage(ctx context.Context, deviceID, lang string) error {
	if !supportedLanguages[lang] {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}

	if err := s.redisClient.Set(ctx, languageKey(deviceID), lang, 0).Err(); err != nil {
		return fmt.Errorf("failed to save language selection: %w", err)
	}

	s.events.Publish(ctx, events.LanguageChanged, deviceID)
	return nil
}

// SetNewsletterEmail remembers the last email used for the newsletter
// form. Cosmetic state; no subscription happens server-side.
func (s *Service) SetNewsletterEmail(ctx context.Context, deviceID, email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if err := s.redisClient.Set(ctx, newsletterKey(deviceID), email, 0).Err(); err != nil {
		return fmt.Errorf("failed to save newsletter email: %w", err)
	}
	return nil
}

// GetNewsletterEmail returns the last newsletter email, if any
func (s *Service) GetNewsletterEmail(ctx context.Context, deviceID string) (string, error) {
	email, err := s.redisClient.Get(ctx, newsletterKey(deviceID)).Result()
	if err == redis.Nil {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("failed to retrieve newsletter email: %w", err)
	}
	return email, nil
}
