package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/armaan/kanban-be/internal/apperr"
	"github.com/armaan/kanban-be/internal/auth"
	"github.com/armaan/kanban-be/internal/models"
	"github.com/armaan/kanban-be/internal/store"
)

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	AvatarURL string
}

// AuthServiceProvider defines the interface for authentication services.
type AuthServiceProvider interface {
	Register(ctx context.Context, in RegisterInput) (models.AuthResponse, error)
	Login(ctx context.Context, usernameOrEmail, password string) (models.AuthResponse, error)
	GetProfile(ctx context.Context, username string) (models.UserProfileResponse, error)
}

// AuthService orchestrates registration, login, and profile lookup over the
// credential store, password hasher, and token codec.
type AuthService struct {
	users  store.UserStore
	hasher *auth.PasswordHasher
	codec  *auth.TokenCodec
}

// NewAuthService creates a new AuthService.
func NewAuthService(users store.UserStore, hasher *auth.PasswordHasher, codec *auth.TokenCodec) *AuthService {
	return &AuthService{users: users, hasher: hasher, codec: codec}
}

// Register creates a new user account and issues a token for it. Username
// uniqueness is checked before email uniqueness; the first failure wins. The
// store's unique constraints remain the arbiter under concurrent
// registrations, so a losing race still comes back as a duplicate error.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.AuthResponse, error) {
	taken, err := s.users.ExistsByUsername(ctx, in.Username)
	if err != nil {
		log.Error().Err(err).Str("username", in.Username).Msg("Username existence check failed")
		return models.AuthResponse{}, apperr.ErrInternal
	}
	if taken {
		return models.AuthResponse{}, apperr.ErrDuplicateUsername
	}

	inUse, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		log.Error().Err(err).Str("email", in.Email).Msg("Email existence check failed")
		return models.AuthResponse{}, apperr.ErrInternal
	}
	if inUse {
		return models.AuthResponse{}, apperr.ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		log.Error().Err(err).Str("username", in.Username).Msg("Password hashing failed")
		return models.AuthResponse{}, apperr.ErrInternal
	}

	now := time.Now()
	user := models.User{
		ID:            uuid.New().String(),
		Username:      in.Username,
		Email:         in.Email,
		PasswordHash:  hash,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		AvatarURL:     in.AvatarURL,
		IsActive:      true,
		EmailVerified: false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrDuplicateUsername) || errors.Is(err, apperr.ErrDuplicateEmail) {
			return models.AuthResponse{}, err
		}
		log.Error().Err(err).Str("username", in.Username).Msg("Failed to persist new user")
		return models.AuthResponse{}, apperr.ErrInternal
	}

	token, err := s.codec.Issue(user.Username)
	if err != nil {
		log.Error().Err(err).Str("username", in.Username).Msg("Failed to issue token")
		return models.AuthResponse{}, apperr.ErrInternal
	}

	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	return models.AuthResponseFrom(token, user), nil
}

// Login resolves the principal by username first, then email, verifies the
// password, and issues a token. An unknown principal and a wrong password
// return the same error. The last-login update is best-effort: one attempt,
// and its failure never fails the login.
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (models.AuthResponse, error) {
	user, err := s.resolvePrincipal(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, apperr.ErrUserNotFound) {
			log.Warn().Str("principal", usernameOrEmail).Msg("Failed authentication attempt")
			return models.AuthResponse{}, apperr.ErrInvalidCredentials
		}
		log.Error().Err(err).Str("principal", usernameOrEmail).Msg("Principal lookup failed")
		return models.AuthResponse{}, apperr.ErrInternal
	}

	if !user.IsActive {
		log.Warn().Str("username", user.Username).Msg("Login attempt on disabled account")
		return models.AuthResponse{}, apperr.ErrAccountDisabled
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		log.Warn().Str("principal", usernameOrEmail).Msg("Failed authentication attempt")
		return models.AuthResponse{}, apperr.ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("Could not update last login time")
	} else {
		user.LastLoginAt = &now
	}

	token, err := s.codec.Issue(user.Username)
	if err != nil {
		log.Error().Err(err).Str("username", user.Username).Msg("Failed to issue token")
		return models.AuthResponse{}, apperr.ErrInternal
	}

	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("User authenticated")
	return models.AuthResponseFrom(token, user), nil
}

// GetProfile returns the public projection of the named user.
func (s *AuthService) GetProfile(ctx context.Context, username string) (models.UserProfileResponse, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrUserNotFound) {
			return models.UserProfileResponse{}, apperr.ErrUserNotFound
		}
		log.Error().Err(err).Str("username", username).Msg("Profile lookup failed")
		return models.UserProfileResponse{}, apperr.ErrInternal
	}
	return models.ProfileFrom(user), nil
}

// resolvePrincipal tries a username lookup first and falls back to email.
func (s *AuthService) resolvePrincipal(ctx context.Context, usernameOrEmail string) (models.User, error) {
	user, err := s.users.GetByUsername(ctx, usernameOrEmail)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperr.ErrUserNotFound) {
		return models.User{}, err
	}
	return s.users.GetByEmail(ctx, usernameOrEmail)
}
