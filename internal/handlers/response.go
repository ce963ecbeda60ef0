package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/user_accounts_app/internal/apperrors"
	"github.com/SscSPs/user_accounts_app/internal/dto"
	"github.com/SscSPs/user_accounts_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respond writes a success envelope.
func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, dto.NewAPIResponse(status, data, message))
}

// respondError converts a workflow error into a failure envelope.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	message := http.StatusText(status)

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", slog.Int("status", status), slog.String("error", err.Error()))
		if appErr == nil {
			message = "Something went wrong"
		}
	} else {
		logger.Info("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(status, message))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrUpload):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrUnauthorized), errors.Is(err, apperrors.ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
