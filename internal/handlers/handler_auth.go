package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SscSPs/user_accounts_app/internal/apperrors"
	"github.com/SscSPs/user_accounts_app/internal/core/domain"
	portssvc "github.com/SscSPs/user_accounts_app/internal/core/ports/services"
	"github.com/SscSPs/user_accounts_app/internal/dto"
	"github.com/SscSPs/user_accounts_app/internal/middleware"
	"github.com/SscSPs/user_accounts_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// authHandler handles registration, login, logout and token refresh.
type authHandler struct {
	userService       portssvc.UserSvcFacade
	accessCookieName  string
	refreshCookieName string
	cookiePath        string
	uploadTempDir     string
	maxUploadBytes    int64
}

func newAuthHandler(us portssvc.UserSvcFacade, cfg *config.Config) *authHandler {
	return &authHandler{
		userService:       us,
		accessCookieName:  cfg.AccessTokenCookieName,
		refreshCookieName: cfg.RefreshTokenCookieName,
		cookiePath:        cfg.TokenCookiePath,
		uploadTempDir:     cfg.UploadTempDir,
		maxUploadBytes:    cfg.MaxUploadSizeMB << 20,
	}
}

// register godoc
// @Summary Register a new user
// @Description Creates an account from form fields and an avatar (plus optional cover image).
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param fullname formData string true "Full name"
// @Param email formData string true "Email"
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Param avatar formData file true "Avatar image"
// @Param coverImage formData file false "Cover image"
// @Success 201 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Username or email exists"
// @Failure 500 {object} dto.ErrorResponse
// @Router /users/register [post]
func (h *authHandler) register(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	var req dto.RegisterUserRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, apperrors.NewAppError(http.StatusBadRequest, "Invalid request body", errors.Join(apperrors.ErrValidation, err)))
		return
	}

	avatarPath, err := h.saveUpload(c, "avatar")
	if err != nil {
		respondError(c, err)
		return
	}
	defer h.removeUpload(c, avatarPath)

	coverPath, err := h.saveUpload(c, "coverImage")
	if err != nil {
		respondError(c, err)
		return
	}
	defer h.removeUpload(c, coverPath)

	req.AvatarLocalPath = avatarPath
	req.CoverImageLocalPath = coverPath

	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetUserID(c, user.UserID)
	respond(c, http.StatusCreated, dto.ToUserResponse(user), "User registered successfully")
}

// login godoc
// @Summary User login
// @Description Authenticates by username or email and sets the session cookies.
// @Tags users
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /users/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, apperrors.NewAppError(http.StatusBadRequest, "Invalid request body", errors.Join(apperrors.ErrValidation, err)))
		return
	}

	result, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookies(c, result)
	middleware.SetUserID(c, result.User.UserID)
	respond(c, http.StatusOK, dto.LoginResponse{
		User:         dto.ToUserResponse(result.User),
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}, "User logged in successfully")
}

// logout godoc
// @Summary User logout
// @Description Clears the stored refresh token and the session cookies.
// @Tags users
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /users/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		respondError(c, apperrors.NewAppError(http.StatusUnauthorized, "Unauthorized request", apperrors.ErrUnauthorized))
		return
	}

	if err := h.userService.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	h.clearSessionCookies(c)
	respond(c, http.StatusOK, gin.H{}, "User logged out")
}

// refreshToken godoc
// @Summary Refresh access token
// @Description Exchanges the refresh token (cookie or body) for a new token pair.
// @Tags users
// @Accept json
// @Produce json
// @Param body body dto.RefreshTokenRequest false "Refresh token when no cookie is sent"
// @Success 200 {object} dto.APIResponse{data=dto.RefreshTokenResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Router /users/refresh-token [post]
func (h *authHandler) refreshToken(c *gin.Context) {
	incoming, err := c.Cookie(h.refreshCookieName)
	if err != nil || incoming == "" {
		var req dto.RefreshTokenRequest
		if bindErr := c.ShouldBind(&req); bindErr == nil {
			incoming = req.RefreshToken
		}
	}

	result, err := h.userService.RefreshAccessToken(c.Request.Context(), incoming)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookies(c, result)
	if result.User != nil {
		middleware.SetUserID(c, result.User.UserID)
	}
	respond(c, http.StatusOK, dto.RefreshTokenResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}, "Access token refreshed")
}

// setSessionCookies sets both tokens as HttpOnly, Secure cookies.
func (h *authHandler) setSessionCookies(c *gin.Context, result *domain.LoginResult) {
	c.SetCookie(h.accessCookieName, result.AccessToken, maxAge(result.AccessTokenExpiresAt), h.cookiePath, "", true, true)
	c.SetCookie(h.refreshCookieName, result.RefreshToken, maxAge(result.RefreshTokenExpiresAt), h.cookiePath, "", true, true)
}

func (h *authHandler) clearSessionCookies(c *gin.Context) {
	c.SetCookie(h.accessCookieName, "", -1, h.cookiePath, "", true, true)
	c.SetCookie(h.refreshCookieName, "", -1, h.cookiePath, "", true, true)
}

func maxAge(expiresAt time.Time) int {
	seconds := int(time.Until(expiresAt).Seconds())
	if seconds < 1 {
		return 1
	}
	return seconds
}

// saveUpload writes the multipart file of field to the temp dir and returns its path.
// A missing file yields an empty path.
func (h *authHandler) saveUpload(c *gin.Context, field string) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", apperrors.NewAppError(http.StatusBadRequest, "Invalid "+field+" upload", errors.Join(apperrors.ErrValidation, err))
	}

	if err := os.MkdirAll(h.uploadTempDir, 0o755); err != nil {
		return "", apperrors.NewAppError(http.StatusInternalServerError, "Failed to store upload", errors.Join(apperrors.ErrInternal, err))
	}

	path := filepath.Join(h.uploadTempDir, uuid.NewString()+strings.ToLower(filepath.Ext(fileHeader.Filename)))
	if err := c.SaveUploadedFile(fileHeader, path); err != nil {
		return "", apperrors.NewAppError(http.StatusInternalServerError, "Failed to store upload", errors.Join(apperrors.ErrInternal, err))
	}
	return path, nil
}

func (h *authHandler) removeUpload(c *gin.Context, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to remove temp upload", slog.String("path", path), slog.String("error", err.Error()))
	}
}
