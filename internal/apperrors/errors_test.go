package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/user_accounts_app/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestTokenErrorsWrapInvalidToken(t *testing.T) {
	for _, err := range []error{apperrors.ErrTokenExpired, apperrors.ErrTokenInvalid, apperrors.ErrTokenWrongType} {
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	}
	assert.False(t, errors.Is(apperrors.ErrTokenExpired, apperrors.ErrTokenInvalid))
	assert.False(t, errors.Is(apperrors.ErrTokenWrongType, apperrors.ErrTokenExpired))
}

func TestAppErrorUnwrap(t *testing.T) {
	err := apperrors.NewAppError(500, "failed to begin transaction", apperrors.ErrInternal)
	wrapped := fmt.Errorf("repo: %w", err)

	assert.ErrorIs(t, wrapped, apperrors.ErrInternal)
	assert.Equal(t, "failed to begin transaction: internal error", err.Error())

	var appErr *apperrors.AppError
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, 500, appErr.Code)
	assert.Equal(t, "plain", apperrors.NewAppError(400, "plain", nil).Error())
}
