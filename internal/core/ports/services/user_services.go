package services

import (
	"context"

	"github.com/SscSPs/user_accounts_app/internal/core/domain"
	"github.com/SscSPs/user_accounts_app/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetCurrentUser retrieves the sanitized record of an authenticated user.
	GetCurrentUser(ctx context.Context, userID string) (*domain.User, error)
}

// UserRegistrationSvc defines account creation
type UserRegistrationSvc interface {
	// Register validates the request, uploads media and creates the user.
	Register(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)
}

// UserAuthSvc defines operations for user authentication and sessions
type UserAuthSvc interface {
	// Login verifies credentials and issues a fresh token pair.
	Login(ctx context.Context, req dto.LoginRequest) (*domain.LoginResult, error)

	// Logout clears the stored refresh token. Calling it repeatedly is not an error.
	Logout(ctx context.Context, userID string) error

	// RefreshAccessToken exchanges the current refresh token for a new token pair.
	RefreshAccessToken(ctx context.Context, refreshToken string) (*domain.LoginResult, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserRegistrationSvc
	UserAuthSvc
}
