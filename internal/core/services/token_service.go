package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/user_accounts_app/internal/apperrors"
	"github.com/SscSPs/user_accounts_app/internal/core/domain"
	portssvc "github.com/SscSPs/user_accounts_app/internal/core/ports/services"
	"github.com/SscSPs/user_accounts_app/internal/platform/config"
	"github.com/SscSPs/user_accounts_app/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims is the JWT payload for both token kinds. Refresh tokens only
// carry UserID and TokenType.
type tokenClaims struct {
	UserID    string           `json:"user_id"`
	Username  string           `json:"username,omitempty"`
	Email     string           `json:"email,omitempty"`
	Fullname  string           `json:"fullname,omitempty"`
	TokenType domain.TokenKind `json:"token_type"`
	jwt.RegisteredClaims
}

// tokenService implements TokenSvcFacade with two HS256 secrets and two lifetimes.
type tokenService struct {
	BaseService
	accessSecret    string
	accessDuration  time.Duration
	refreshSecret   string
	refreshDuration time.Duration
	issuer          string
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{
		accessSecret:    cfg.JWTSecret,
		accessDuration:  cfg.JWTExpiryDuration,
		refreshSecret:   cfg.RefreshTokenSecret,
		refreshDuration: cfg.RefreshTokenExpiryDuration,
		issuer:          cfg.JWTIssuer,
	}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// GenerateAccessToken creates a short-lived JWT carrying the user's identity.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	claims, err := s.newClaims(user.UserID, domain.AccessToken, s.accessDuration)
	if err != nil {
		return "", time.Time{}, err
	}
	claims.Username = user.Username
	claims.Email = user.Email
	claims.Fullname = user.Fullname

	token, err := utils.GenerateJWT(claims, s.accessSecret)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token", slog.String("user_id", user.UserID))
		return "", time.Time{}, fmt.Errorf("%w: failed to sign access token: %v", apperrors.ErrInternal, err)
	}
	return token, claims.ExpiresAt.Time, nil
}

// GenerateRefreshToken creates a long-lived JWT carrying only the user ID.
func (s *tokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	claims, err := s.newClaims(user.UserID, domain.RefreshToken, s.refreshDuration)
	if err != nil {
		return "", time.Time{}, err
	}

	token, err := utils.GenerateJWT(claims, s.refreshSecret)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign refresh token", slog.String("user_id", user.UserID))
		return "", time.Time{}, fmt.Errorf("%w: failed to sign refresh token: %v", apperrors.ErrInternal, err)
	}
	return token, claims.ExpiresAt.Time, nil
}

func (s *tokenService) newClaims(userID string, kind domain.TokenKind, lifetime time.Duration) (*tokenClaims, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: cannot issue a token without a user ID", apperrors.ErrInternal)
	}
	// jti keeps two tokens issued within the same second distinct.
	jti, err := utils.GenerateSecureRandomString(16)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}

	now := time.Now()
	return &tokenClaims{
		UserID:    userID,
		TokenType: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}, nil
}

// VerifyToken validates a token of the given kind and returns its claims.
func (s *tokenService) VerifyToken(ctx context.Context, token string, kind domain.TokenKind) (*domain.TokenClaims, error) {
	secret, otherSecret, err := s.secretsFor(kind)
	if err != nil {
		return nil, err
	}

	claims := &tokenClaims{}
	if err := utils.ParseAndValidateJWT(token, secret, claims); err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, apperrors.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid) && s.signedWith(token, otherSecret):
			return nil, apperrors.ErrTokenWrongType
		default:
			s.LogDebug(ctx, "Token rejected", slog.String("kind", string(kind)), slog.String("error", err.Error()))
			return nil, apperrors.ErrTokenInvalid
		}
	}

	if claims.TokenType != kind {
		return nil, apperrors.ErrTokenWrongType
	}
	if claims.UserID == "" || claims.Issuer != s.issuer {
		return nil, apperrors.ErrTokenInvalid
	}

	out := &domain.TokenClaims{
		Kind:     claims.TokenType,
		UserID:   claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
		Fullname: claims.Fullname,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

func (s *tokenService) secretsFor(kind domain.TokenKind) (string, string, error) {
	switch kind {
	case domain.AccessToken:
		return s.accessSecret, s.refreshSecret, nil
	case domain.RefreshToken:
		return s.refreshSecret, s.accessSecret, nil
	default:
		return "", "", fmt.Errorf("%w: unknown token kind %q", apperrors.ErrInternal, kind)
	}
}

// signedWith reports whether token carries a valid signature for secret,
// ignoring expiry.
func (s *tokenService) signedWith(token, secret string) bool {
	err := utils.ParseAndValidateJWT(token, secret, &tokenClaims{})
	return err == nil || errors.Is(err, jwt.ErrTokenExpired)
}
