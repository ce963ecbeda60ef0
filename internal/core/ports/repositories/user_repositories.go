package repositories

import (
	"context"

	"github.com/SscSPs/user_accounts_app/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a user by ID without password hash or refresh token.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserCredentialsByID retrieves a user by ID including the stored credentials.
	FindUserCredentialsByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByUsernameOrEmail retrieves the user matching either value, credentials included.
	// Blank criteria are ignored; apperrors.ErrNotFound if nothing matches.
	FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user. A username or email collision yields apperrors.ErrDuplicate.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateRefreshToken stores the given refresh token, or clears it when token is nil.
	UpdateRefreshToken(ctx context.Context, userID string, token *string) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
