// internal/domain/session/service_test.go
package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/wishlist"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"github.com/your-org/storefront-backend/internal/pkg/events"
)

type testEnv struct {
	session  *Service
	cart     *cart.Service
	wishlist *wishlist.Service
	jwt      *auth.JWTManager
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cfg := &config.Config{}
	cfg.App.Name = "Storefront Backend"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.SessionExpiry = time.Hour

	broker := events.NewBroker(client, logger)
	cartService := cart.NewService(client, broker, logger)
	wishlistService := wishlist.NewService(client, broker, logger)
	jwtManager := auth.NewJWTManager(cfg)

	return &testEnv{
		session:  NewService(jwtManager, DemoVerifier{}, cartService, wishlistService, broker, logger),
		cart:     cartService,
		wishlist: wishlistService,
		jwt:      jwtManager,
	}
}

func testProduct() catalog.Product {
	price := 39.99
	return catalog.Product{ID: "1", Name: "Linen Shirt", Price: &price, InStock: true}
}

func TestSignIn_AcceptsAnyNonEmptyCredentials(t *testing.T) {
	env := setupTestEnv(t)

	result, err := env.session.SignIn(context.Background(), "dev-1", &SignInRequest{
		Email:    "jane.doe@example.com",
		Password: "whatever",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Session.ID)
	assert.Equal(t, "jane.doe@example.com", result.Session.Email)
	assert.Equal(t, "jane.doe", result.Session.Name)
	assert.NotEmpty(t, result.Token)
}

func TestSignIn_EmptyLocalPartFallsBackToEmail(t *testing.T) {
	env := setupTestEnv(t)

	result, err := env.session.SignIn(context.Background(), "dev-1", &SignInRequest{
		Email:    "@example.com",
		Password: "pw",
	})

	require.NoError(t, err)
	assert.Equal(t, "@example.com", result.Session.Name)
}

func TestSignIn_TokenRoundTrips(t *testing.T) {
	env := setupTestEnv(t)

	result, err := env.session.SignIn(context.Background(), "dev-1", &SignInRequest{
		Email:    "jane@example.com",
		Password: "pw",
	})
	require.NoError(t, err)

	claims, err := env.jwt.ValidateSessionToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.Session.ID, claims.SessionID)
	assert.Equal(t, "jane@example.com", claims.Email)
}

func TestSignIn_EmptyCredentials(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	cases := []SignInRequest{
		{Email: "", Password: "pw"},
		{Email: "jane@example.com", Password: ""},
		{Email: "   ", Password: "pw"},
	}
	for _, req := range cases {
		_, err := env.session.SignIn(ctx, "dev-1", &req)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
}

func TestSignUp_ValidForm(t *testing.T) {
	env := setupTestEnv(t)

	result, err := env.session.SignUp(context.Background(), "dev-1", &SignUpRequest{
		Name:            "Jane",
		Email:           "jane@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})

	require.NoError(t, err)
	assert.Equal(t, "jane", result.Session.Name)
}

func TestSignUp_ValidationFailures(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		req   SignUpRequest
		field string
	}{
		{
			name:  "missing fields",
			req:   SignUpRequest{Email: "jane@example.com", Password: "secret1", ConfirmPassword: "secret1"},
			field: "form",
		},
		{
			name:  "password mismatch",
			req:   SignUpRequest{Name: "Jane", Email: "jane@example.com", Password: "secret1", ConfirmPassword: "secret2"},
			field: "confirm_password",
		},
		{
			name:  "password too short",
			req:   SignUpRequest{Name: "Jane", Email: "jane@example.com", Password: "abc", ConfirmPassword: "abc"},
			field: "password",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.session.SignUp(ctx, "dev-1", &tc.req)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestSignOut_ClearsCartAndWishlist(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	sess := &auth.Session{ID: "s-1", Email: "jane@example.com", Name: "jane"}

	_, err := env.cart.Add(ctx, "dev-1", sess, testProduct(), 2)
	require.NoError(t, err)
	_, _, err = env.wishlist.Toggle(ctx, "dev-1", sess, testProduct())
	require.NoError(t, err)

	require.NoError(t, env.session.SignOut(ctx, "dev-1"))

	cartItems, err := env.cart.Get(ctx, "dev-1")
	require.NoError(t, err)
	assert.Empty(t, cartItems)

	wishlistItems, err := env.wishlist.Get(ctx, "dev-1")
	require.NoError(t, err)
	assert.Empty(t, wishlistItems)
}

func TestMutatorsRefusedWithoutSession(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	_, err := env.cart.Add(ctx, "dev-1", nil, testProduct(), 1)
	assert.ErrorIs(t, err, auth.ErrSignInRequired)

	_, _, err = env.wishlist.Toggle(ctx, "dev-1", nil, testProduct())
	assert.ErrorIs(t, err, auth.ErrSignInRequired)
}
