package services

import (
	"context"
	"time"

	"github.com/SscSPs/user_accounts_app/internal/core/domain"
)

// TokenSvcFacade defines the interface for token management services.
type TokenSvcFacade interface {
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error)
	// VerifyToken checks a token against the secret of the given kind.
	// Failures wrap apperrors.ErrInvalidToken and are one of ErrTokenExpired,
	// ErrTokenWrongType or ErrTokenInvalid.
	VerifyToken(ctx context.Context, token string, kind domain.TokenKind) (*domain.TokenClaims, error)
}
