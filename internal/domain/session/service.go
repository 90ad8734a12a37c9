// internal/domain/session/service.go
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/wishlist"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"github.com/your-org/storefront-backend/internal/pkg/events"
)

// ErrInvalidCredentials indicates an empty email or password
var ErrInvalidCredentials = errors.New("email and password are required")

// ValidationError carries a sign-up validation failure. It is
// recovered locally by re-prompting the visitor.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CredentialVerifier checks a credential pair. The session lifecycle
// (create/destroy, gate mutations, clear collections on sign-out) does
// not depend on how credentials are verified.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) error
}

// DemoVerifier accepts any non-empty credential pair. This storefront
// performs no real credential verification.
type DemoVerifier struct{}

// Verify always succeeds; emptiness is checked before the verifier runs
func (DemoVerifier) Verify(ctx context.Context, email, password string) error {
	return nil
}

// Service handles the mock session lifecycle
type Service struct {
	jwtManager *auth.JWTManager
	verifier   CredentialVerifier
	cart       *cart.Service
	wishlist   *wishlist.Service
	events     *events.Broker
	logger     *logrus.Logger
}

// NewService creates a new session service
func NewService(jwtManager *auth.JWTManager, verifier CredentialVerifier, cartService *cart.Service, wishlistService *wishlist.Service, broker *events.Broker, logger *logrus.Logger) *Service {
	return &Service{
		jwtManager: jwtManager,
		verifier:   verifier,
		cart:       cartService,
		wishlist:   wishlistService,
		events:     broker,
		logger:     logger,
	}
}

// SignInRequest represents sign-in credentials
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpRequest represents sign-up data
type SignUpRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// SignInResult carries the created session and its signed token
type SignInResult struct {
	Session *auth.Session `json:"session"`
	Token   string        `json:"token"`
}

// SignIn creates a session for any non-empty credential pair. The
// display name is derived from the local part of the email.
func (s *Service) SignIn(ctx context.Context, deviceID string, req *SignInRequest) (*SignInResult, error) {
	email := strings.TrimSpace(req.Email)
	password := strings.TrimSpace(req.Password)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	if err := s.verifier.Verify(ctx, email, password); err != nil {
		return nil, err
	}

	// Display name is the local part of the email; an address with an
	// empty local part falls back to the full email.
	name := strings.SplitN(email, "@", 2)[0]
	if name == "" {
		name = email
	}

	sess := &auth.Session{
		ID:    uuid.NewString(),
		Email: email,
		Name:  name,
	}

	token, err := s.jwtManager.GenerateSessionToken(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	s.events.Publish(ctx, events.AuthChanged, deviceID)
	s.logger.WithFields(logrus.Fields{
		"session_id": sess.ID,
		"email":      sess.Email,
	}).Info("Session created")

	return &SignInResult{Session: sess, Token: token}, nil
}

// SignUp validates the registration form and then behaves as SignIn.
// There is no account store; sign-up is the same mock flow.
func (s *Service) SignUp(ctx context.Context, deviceID string, req *SignUpRequest) (*SignInResult, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	password := strings.TrimSpace(req.Password)
	confirm := strings.TrimSpace(req.ConfirmPassword)

	switch {
	case name == "" || email == "" || password == "" || confirm == "":
		return nil, &ValidationError{Field: "form", Message: "all fields are required"}
	case password != confirm:
		return nil, &ValidationError{Field: "confirm_password", Message: "passwords do not match"}
	case len(password) < 6:
		return nil, &ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}

	return s.SignIn(ctx, deviceID, &SignInRequest{Email: email, Password: password})
}

// SignOut destroys the session and, as a side effect, clears the
// device's cart and wishlist collections. Cart and wishlist state is
// device-scoped, not per-account, so nothing survives sign-out.
func (s *Service) SignOut(ctx context.Context, deviceID string) error {
	if err := s.cart.Clear(ctx, deviceID); err != nil {
		return err
	}
	if err := s.wishlist.Clear(ctx, deviceID); err != nil {
		return err
	}

	s.events.Publish(ctx, events.AuthChanged, deviceID)
	s.logger.WithField("device_id", deviceID).Info("Session destroyed")
	return nil
}
