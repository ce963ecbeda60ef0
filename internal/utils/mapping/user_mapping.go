package mapping

import (
	"database/sql"

	"github.com/SscSPs/user_accounts_app/internal/core/domain"
	"github.com/SscSPs/user_accounts_app/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	m := models.User{
		UserID:       d.UserID,
		Username:     d.Username,
		Email:        d.Email,
		Fullname:     d.Fullname,
		Avatar:       d.AvatarURL,
		CoverImage:   d.CoverImageURL,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.RefreshToken != nil {
		m.RefreshToken = sql.NullString{String: *d.RefreshToken, Valid: true}
	}
	return m
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	d := domain.User{
		UserID:        m.UserID,
		Username:      m.Username,
		Email:         m.Email,
		Fullname:      m.Fullname,
		AvatarURL:     m.Avatar,
		CoverImageURL: m.CoverImage,
		PasswordHash:  m.PasswordHash,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.RefreshToken.Valid {
		token := m.RefreshToken.String
		d.RefreshToken = &token
	}
	return d
}
