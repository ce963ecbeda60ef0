package dto

import "time"

// UserResponse is the public view of a user. It deliberately has no
// password or refresh token fields.
type UserResponse struct {
	UserID     string    `json:"userID"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Fullname   string    `json:"fullname"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func ToUserResponse(user interface {
	GetUserID() string
	GetUsername() string
	GetEmail() string
	GetFullname() string
	GetAvatarURL() string
	GetCoverImageURL() string
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}) UserResponse {
	return UserResponse{
		UserID:     user.GetUserID(),
		Username:   user.GetUsername(),
		Email:      user.GetEmail(),
		Fullname:   user.GetFullname(),
		Avatar:     user.GetAvatarURL(),
		CoverImage: user.GetCoverImageURL(),
		CreatedAt:  user.GetCreatedAt(),
		UpdatedAt:  user.GetUpdatedAt(),
	}
}
