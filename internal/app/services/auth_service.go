package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/courseapi/internal/app/models"
	"github.com/yigit/courseapi/internal/app/models/dto"
	"github.com/yigit/courseapi/internal/app/repositories"
	"github.com/yigit/courseapi/internal/pkg/apperrors"
	"github.com/yigit/courseapi/internal/pkg/auth"
)

// Client-facing auth messages
const (
	msgUsernameTaken      = "Username is already in use"
	msgEmailTaken         = "Email is already in use"
	msgInvalidCredentials = "Invalid username or password"
	msgTokenExpired       = "Token has expired"
	msgTokenInvalid       = "Invalid token"
	msgTokenRevoked       = "Token has been revoked"
	msgUsernameBlank      = "username cannot be blank"
	msgPasswordTooLong    = "password must be at most 72 bytes"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   repositories.IUserRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates a new user account. Username and email are trimmed and the username
// is checked before the email.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, apperrors.NewValidationError(msgUsernameBlank)
	}
	email := strings.TrimSpace(req.Email)

	exists, err := s.userRepo.UsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error checking username: %w", err)
	}
	if exists {
		return nil, apperrors.NewConflictError(msgUsernameTaken)
	}

	exists, err = s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, apperrors.NewConflictError(msgEmailTaken)
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperrors.NewValidationError(msgPasswordTooLong)
		}
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
	}

	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEntry) {
			return nil, apperrors.NewConflictError("Username or email is already in use")
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	user.ID = id

	s.logger.Info().Int64("userId", id).Str("username", user.Username).Msg("User registered")
	return user, nil
}

// Login verifies credentials and returns the user's access token. A still valid stored
// token is handed out again instead of issuing a new one. Unknown usernames still pay for
// a password comparison.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			auth.CheckDummyPassword(req.Password)
			return nil, apperrors.NewUnauthorizedError(apperrors.ErrInvalidCredentials, msgInvalidCredentials)
		}
		return nil, fmt.Errorf("error finding user: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.NewUnauthorizedError(apperrors.ErrInvalidCredentials, msgInvalidCredentials)
	}

	if user.Token != nil {
		claims, err := s.jwtService.ValidateToken(*user.Token)
		if err == nil && claims.UserID == user.ID {
			return &dto.LoginResponse{
				Token:     *user.Token,
				TokenType: "Bearer",
				ExpiresAt: claims.ExpiresAt.Time,
			}, nil
		}
	}

	token, expiresAt, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	if err := s.userRepo.UpdateToken(ctx, user.ID, &token); err != nil {
		return nil, fmt.Errorf("error storing token: %w", err)
	}

	s.logger.Info().Int64("userId", user.ID).Msg("Access token issued")
	return &dto.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
	}, nil
}

// Logout revokes the user's stored token
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	if err := s.userRepo.UpdateToken(ctx, userID, nil); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NewUnauthorizedError(apperrors.ErrTokenInvalid, msgTokenInvalid)
		}
		return fmt.Errorf("error clearing token: %w", err)
	}

	s.logger.Info().Int64("userId", userID).Msg("User logged out")
	return nil
}

// Authenticate resolves a bearer token to its user. The token must be signed, unexpired
// and identical to the one stored for the user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenExpired) {
			return nil, apperrors.NewUnauthorizedError(apperrors.ErrTokenExpired, msgTokenExpired)
		}
		return nil, apperrors.NewUnauthorizedError(apperrors.ErrTokenInvalid, msgTokenInvalid)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError(apperrors.ErrTokenInvalid, msgTokenInvalid)
		}
		return nil, fmt.Errorf("error loading token user: %w", err)
	}

	if !user.HasToken(token) {
		return nil, apperrors.NewUnauthorizedError(apperrors.ErrTokenRevoked, msgTokenRevoked)
	}

	return user, nil
}
