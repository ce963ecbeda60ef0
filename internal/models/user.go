package models

import (
	"database/sql"
	"time"
)

// User is the row shape of the users table.
type User struct {
	UserID       string         `db:"user_id"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	Fullname     string         `db:"fullname"`
	Avatar       string         `db:"avatar"`
	CoverImage   string         `db:"cover_image"`
	PasswordHash string         `db:"password_hash"`
	RefreshToken sql.NullString `db:"refresh_token"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}
