// internal/pkg/auth/jwt_test.go
package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-backend/internal/config"
)

func newTestManager(expiry time.Duration) *JWTManager {
	cfg := &config.Config{}
	cfg.App.Name = "Storefront Backend"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.SessionExpiry = expiry
	return NewJWTManager(cfg)
}

func TestSessionToken_RoundTrips(t *testing.T) {
	manager := newTestManager(time.Hour)
	sess := &Session{ID: "s-1", Email: "jane@example.com", Name: "jane"}

	token, err := manager.GenerateSessionToken(sess)
	require.NoError(t, err)

	claims, err := manager.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "s-1", claims.SessionID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "jane", claims.Name)

	rebuilt := claims.Session()
	assert.Equal(t, sess, rebuilt)
}

func TestValidateSessionToken_WrongSecret(t *testing.T) {
	token, err := newTestManager(time.Hour).GenerateSessionToken(&Session{ID: "s-1", Email: "a@b.c", Name: "a"})
	require.NoError(t, err)

	other := newTestManager(time.Hour)
	other.config.JWT.Secret = "different-secret"

	_, err = other.ValidateSessionToken(token)
	assert.Error(t, err)
}

func TestValidateSessionToken_Expired(t *testing.T) {
	manager := newTestManager(-time.Minute)

	token, err := manager.GenerateSessionToken(&Session{ID: "s-1", Email: "a@b.c", Name: "a"})
	require.NoError(t, err)

	_, err = manager.ValidateSessionToken(token)
	assert.Error(t, err)
}

func TestValidateSessionToken_Garbage(t *testing.T) {
	_, err := newTestManager(time.Hour).ValidateSessionToken("not-a-token")

	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", ExtractTokenFromHeader("Bearer abc.def.ghi"))
	assert.Empty(t, ExtractTokenFromHeader(""))
	assert.Empty(t, ExtractTokenFromHeader("Basic abc"))
	assert.Empty(t, ExtractTokenFromHeader("Bearer "))
}
