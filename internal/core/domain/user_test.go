package domain_test

import (
	"testing"

	"github.com/SscSPs/user_accounts_app/internal/core/domain"
	"github.com/SscSPs/user_accounts_app/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_CheckPassword(t *testing.T) {
	hash, err := utils.HashPassword("s3cret-pass")
	require.NoError(t, err)

	u := &domain.User{UserID: "u1", PasswordHash: hash}
	assert.True(t, u.CheckPassword("s3cret-pass"))
	assert.False(t, u.CheckPassword("wrong"))

	assert.False(t, (&domain.User{}).CheckPassword(""))
}

func TestUser_Sanitized(t *testing.T) {
	token := "refresh"
	u := domain.User{UserID: "u1", Username: "alice", PasswordHash: "hash", RefreshToken: &token}

	clean := u.Sanitized()

	assert.Empty(t, clean.PasswordHash)
	assert.Nil(t, clean.RefreshToken)
	assert.Equal(t, "alice", clean.Username)
	// the original is untouched
	assert.Equal(t, "hash", u.PasswordHash)
	assert.True(t, u.HasActiveSession())
	assert.False(t, clean.HasActiveSession())
}
