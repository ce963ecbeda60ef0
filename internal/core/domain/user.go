package domain

import (
	"time"

	"github.com/SscSPs/user_accounts_app/internal/utils"
)

// User represents a registered account in the domain.
type User struct {
	UserID        string `json:"userID"` // Primary Key (UUID)
	Username      string `json:"username"`
	Email         string `json:"email"`
	Fullname      string `json:"fullname"`
	AvatarURL     string `json:"avatar"`
	CoverImageURL string `json:"coverImage"`

	// Credentials. Never populated on records handed back to callers.
	PasswordHash string  `json:"-"`
	RefreshToken *string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return utils.CheckPasswordHash(password, u.PasswordHash)
}

// Sanitized returns a copy of the user with the password hash and refresh token removed.
func (u User) Sanitized() *User {
	u.PasswordHash = ""
	u.RefreshToken = nil
	return &u
}

// HasActiveSession reports whether a refresh token is currently stored.
func (u *User) HasActiveSession() bool {
	return u.RefreshToken != nil && *u.RefreshToken != ""
}

// Getters used by dto.ToUserResponse.
func (u *User) GetUserID() string        { return u.UserID }
func (u *User) GetUsername() string      { return u.Username }
func (u *User) GetEmail() string         { return u.Email }
func (u *User) GetFullname() string      { return u.Fullname }
func (u *User) GetAvatarURL() string     { return u.AvatarURL }
func (u *User) GetCoverImageURL() string { return u.CoverImageURL }
func (u *User) GetCreatedAt() time.Time  { return u.CreatedAt }
func (u *User) GetUpdatedAt() time.Time  { return u.UpdatedAt }

// LoginResult is the outcome of a successful login or token refresh.
type LoginResult struct {
	User                  *User
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}
