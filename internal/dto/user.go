package dto

// RegisterUserRequest carries the registration form. The local paths point at
// uploaded files the handler has already written to the temp directory.
type RegisterUserRequest struct {
	Fullname string `json:"fullname" form:"fullname" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required"`
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`

	AvatarLocalPath     string `json:"-" form:"-"`
	CoverImageLocalPath string `json:"-" form:"-"`
}

// LoginRequest accepts either a username or an email (or both) plus the password.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required_without=Email"`
	Email    string `json:"email" form:"email" validate:"required_without=Username"`
	Password string `json:"password" form:"password" validate:"required"`
}

// RefreshTokenRequest is used when the refresh token is not sent as a cookie.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" form:"refreshToken"`
}
