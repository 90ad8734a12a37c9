// internal/domain/prefs/service_test.go
package prefs

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-backend/internal/domain/currency"
	"github.com/your-org/storefront-backend/internal/pkg/events"
)

func setupTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return NewService(client, events.NewBroker(client, logger), logger), mr
}

func TestGetCurrency_DefaultsToBase(t *testing.T) {
	service, _ := setupTestService(t)

	c, err := service.GetCurrency(context.Background(), "dev-1")

	require.NoError(t, err)
	assert.Equal(t, currency.BaseCode, c.Code)
}

func TestSetCurrency_RoundTrips(t *testing.T) {
	service, _ := setupTestService(t)
	ctx := context.Background()

	c, err := service.SetCurrency(ctx, "dev-1", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "€", c.Symbol)

	c, err = service.GetCurrency(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, "EUR", c.Code)
}

func TestSetCurrency_RejectsUnknownCode(t *testing.T) {
	service, _ := setupTestService(t)

	_, err := service.SetCurrency(context.Background(), "dev-1", "XYZ")

	assert.ErrorIs(t, err, currency.ErrUnknownCurrency)
}

func TestGetCurrency_CorruptSelectionFallsBack(t *testing.T) {
	service, mr := setupTestService(t)

	require.NoError(t, mr.Set("currency:device:dev-1", "garbage"))

	c, err := service.GetCurrency(context.Background(), "dev-1")
	require.NoError(t, err)
	assert.Equal(t, currency.BaseCode, c.Code)
}

func TestGetLanguage_DefaultsToEnglish(t *testing.T) {
	service, _ := setupTestService(t)

	lang, err := service.GetLanguage(context.Background(), "dev-1")

	require.NoError(t, err)
	assert.Equal(t, DefaultLanguage, lang)
}

func TestSetLanguage_RoundTrips(t *testing.T) {
	service, _ := setupTestService(t)
	ctx := context.Background()

	require.NoError(t, service.SetLanguage(ctx, "dev-1", "fr"))

	lang, err := service.GetLanguage(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, "fr", lang)
}

func TestSetLanguage_RejectsUnknownLanguage(t *testing.T) {
	service, _ := setupTestService(t)

	err := service.SetLanguage(context.Background(), "dev-1", "de")

	assert.ErrorIs(t, err, ErrUnknownLanguage)
}

func TestNewsletterEmail_RoundTrips(t *testing.T) {
	service, _ := setupTestService(t)
	ctx := context.Background()

	email, err := service.GetNewsletterEmail(ctx, "dev-1")
	require.NoError(t, err)
	assert.Empty(t, email)

	require.NoError(t, service.SetNewsletterEmail(ctx, "dev-1", "jane@example.com"))

	email, err = service.GetNewsletterEmail(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", email)
}

func TestSetNewsletterEmail_RequiresEmail(t *testing.T) {
	service, _ := setupTestService(t)

	assert.Error(t, service.SetNewsletterEmail(context.Background(), "dev-1", ""))
}

func TestPreferences_ScopedPerDevice(t *testing.T) {
	service, _ := setupTestService(t)
	ctx := context.Background()

	_, err := service.SetCurrency(ctx, "dev-1", "INR")
	require.NoError(t, err)

	c, err := service.GetCurrency(ctx, "dev-2")
	require.NoError(t, err)
	assert.Equal(t, currency.BaseCode, c.Code)
}
