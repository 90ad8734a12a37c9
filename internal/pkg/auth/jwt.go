// internal/pkg/auth/jwt.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/your-org/storefront-backend/internal/config"
)

// ErrSignInRequired is returned by store mutators invoked without an
// active session. Callers surface a sign-in prompt instead of mutating.
var ErrSignInRequired = errors.New("sign in required")

// Session is the active mock-authenticated visitor identity. Its
// presence is the sole gate for viewing prices and for cart/wishlist
// mutation.
type Session struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Claims represents the session token claims
type Claims struct {
	SessionID string `json:"session_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	jwt.RegisteredClaims
}

// Session rebuilds the session carried by the claims
func (c *Claims) Session() *Session {
	return &Session{
		ID:    c.SessionID,
		Email: c.Email,
		Name:  c.Name,
	}
}

// JWTManager handles session token operations
type JWTManager struct {
	config *config.Config
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(cfg *config.Config) *JWTManager {
	return &JWTManager{
		config: cfg,
	}
}

// GenerateSessionToken signs a token carrying the session identity
func (j *JWTManager) GenerateSessionToken(sess *Session) (string, error) {
	now := time.Now().UTC()

	claims := &Claims{
		SessionID: sess.ID,
		Email:     sess.Email,
		Name:      sess.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.config.JWT.SessionExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    j.config.App.Name,
			Subject:   fmt.Sprintf("session:%s", sess.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.JWT.Secret))
}

// ValidateSessionToken validates and parses a session token
func (j *JWTManager) ValidateSessionToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.config.JWT.Secret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if claims.SessionID == "" {
		return nil, fmt.Errorf("token carries no session")
	}

	return claims, nil
}

// ExtractTokenFromHeader extracts the token from an Authorization header
func ExtractTokenFromHeader(authHeader string) string {
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}
	return ""
}
