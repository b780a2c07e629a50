package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/auth"
	"storefront/internal/models"
	"storefront/internal/store"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// AuthService handles registration, login and token verification.
type AuthService struct {
	store  *store.Store
	tokens *auth.TokenIssuer
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(store *store.Store, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
		logger: util.GetLogger(),
	}
}

// Register creates a user and returns a fresh token with the public record.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (string, models.PublicUser, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Register")
	defer span.End()

	if username == "" || email == "" || password == "" {
		return "", models.PublicUser{}, ErrMissingFields
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return "", models.PublicUser{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Username: username, Email: email, Password: hashed}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return "", models.PublicUser{}, ErrDuplicateUser
		}
		return "", models.PublicUser{}, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Generate(user.ID, user.Username)
	if err != nil {
		return "", models.PublicUser{}, fmt.Errorf("failed to generate token: %w", err)
	}

	util.UsersRegisteredTotal.Inc()
	s.logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username))

	return token, user.Public(), nil
}

// Login verifies credentials and returns a fresh token. Unknown email and
// wrong password yield the same error so callers cannot enumerate users.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.PublicUser, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Login")
	defer span.End()

	if email == "" || password == "" {
		return "", models.PublicUser{}, ErrMissingFields
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.LoginAttemptsTotal.WithLabelValues("failure").Inc()
			return "", models.PublicUser{}, ErrInvalidCredentials
		}
		return "", models.PublicUser{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPasswordHash(password, user.Password) {
		util.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return "", models.PublicUser{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Username)
	if err != nil {
		return "", models.PublicUser{}, fmt.Errorf("failed to generate token: %w", err)
	}

	util.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return token, user.Public(), nil
}

// Verify validates a bearer token and returns the embedded identity.
func (s *AuthService) Verify(tokenStr string) (*auth.Claims, error) {
	if tokenStr == "" {
		return nil, ErrTokenMissing
	}

	claims, err := s.tokens.Parse(tokenStr)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
