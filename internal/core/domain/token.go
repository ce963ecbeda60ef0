package domain

import "time"

// TokenKind distinguishes the two classes of signed tokens.
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// TokenClaims is the verified content of an access or refresh token.
// Identity fields other than UserID are only present on access tokens.
type TokenClaims struct {
	Kind      TokenKind
	UserID    string
	Username  string
	Email     string
	Fullname  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
