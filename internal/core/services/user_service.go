package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/user_accounts_app/internal/apperrors"
	"github.com/SscSPs/user_accounts_app/internal/core/domain"
	portsrepo "github.com/SscSPs/user_accounts_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/user_accounts_app/internal/core/ports/services"
	"github.com/SscSPs/user_accounts_app/internal/dto"
	"github.com/SscSPs/user_accounts_app/internal/metrics"
	"github.com/SscSPs/user_accounts_app/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// userService implements UserSvcFacade: registration, login, logout and token refresh.
type userService struct {
	BaseService
	userRepo     portsrepo.UserRepositoryFacade
	tokenService portssvc.TokenSvcFacade
	uploader     portssvc.MediaUploaderSvc
	metrics      metrics.AuthMetricsRecorder
}

// UserServiceOption is a functional option for configuring the user service
type UserServiceOption func(*userService)

// WithAuthMetrics records workflow outcomes on the given recorder.
func WithAuthMetrics(recorder metrics.AuthMetricsRecorder) UserServiceOption {
	return func(s *userService) {
		if recorder != nil {
			s.metrics = recorder
		}
	}
}

// NewUserService creates the account workflow over its collaborators.
func NewUserService(
	userRepo portsrepo.UserRepositoryFacade,
	tokenService portssvc.TokenSvcFacade,
	uploader portssvc.MediaUploaderSvc,
	options ...UserServiceOption,
) portssvc.UserSvcFacade {
	svc := &userService{
		userRepo:     userRepo,
		tokenService: tokenService,
		uploader:     uploader,
		metrics:      metrics.Noop{},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// Register validates the request, uploads the avatar (and cover image) and creates the user.
func (s *userService) Register(ctx context.Context, req dto.RegisterUserRequest) (_ *domain.User, err error) {
	defer func() { s.record(metrics.EventRegister, err) }()

	fields := dto.RegisterUserRequest{
		Fullname: strings.TrimSpace(req.Fullname),
		Email:    strings.TrimSpace(req.Email),
		Username: strings.TrimSpace(req.Username),
		Password: strings.TrimSpace(req.Password),
	}
	if err := validate.Struct(fields); err != nil {
		return nil, apperrors.NewAppError(http.StatusBadRequest, "All fields are required", fmt.Errorf("%w: %s", apperrors.ErrValidation, describeValidation(err)))
	}
	username := strings.ToLower(fields.Username)

	existing, err := s.userRepo.FindUserByUsernameOrEmail(ctx, username, fields.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check for existing user")
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}
	if existing != nil {
		return nil, apperrors.NewAppError(http.StatusConflict, "User with email or username already exists", apperrors.ErrDuplicate)
	}

	if strings.TrimSpace(req.AvatarLocalPath) == "" {
		return nil, apperrors.NewAppError(http.StatusBadRequest, "Avatar file is required", apperrors.ErrValidation)
	}

	avatar, err := s.uploader.Upload(ctx, req.AvatarLocalPath)
	s.metrics.RecordUpload("avatar", err)
	if err != nil || avatar == nil || avatar.URL == "" {
		if err != nil {
			s.LogError(ctx, err, "Avatar upload failed")
		}
		return nil, apperrors.NewAppError(http.StatusBadRequest, "Avatar file is required", apperrors.ErrUpload)
	}

	coverImageURL := ""
	if strings.TrimSpace(req.CoverImageLocalPath) != "" {
		cover, err := s.uploader.Upload(ctx, req.CoverImageLocalPath)
		s.metrics.RecordUpload("coverImage", err)
		switch {
		case err != nil:
			s.LogWarn(ctx, "Cover image upload failed, continuing without it", slog.String("error", err.Error()))
		case cover != nil:
			coverImageURL = cover.URL
		}
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperrors.NewAppError(http.StatusBadRequest, "Password is too long", apperrors.ErrValidation)
		}
		return nil, fmt.Errorf("%w: failed to hash password: %v", apperrors.ErrInternal, err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:        uuid.NewString(),
		Username:      username,
		Email:         fields.Email,
		Fullname:      fields.Fullname,
		AvatarURL:     avatar.URL,
		CoverImageURL: coverImageURL,
		PasswordHash:  passwordHash,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewAppError(http.StatusConflict, "User with email or username already exists", err)
		}
		s.LogError(ctx, err, "Failed to save user", slog.String("username", username))
		return nil, fmt.Errorf("failed to create user in service: %w", err)
	}

	created, err := s.userRepo.FindUserByID(ctx, user.UserID)
	if err != nil || created == nil {
		if err == nil || errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "Something went wrong while registering the user", apperrors.ErrInternal)
		}
		return nil, fmt.Errorf("failed to fetch created user: %w", err)
	}

	s.LogInfo(ctx, "User registered", slog.String("user_id", created.UserID))
	return created.Sanitized(), nil
}

// Login verifies the password of the user matching username or email and issues a token pair.
func (s *userService) Login(ctx context.Context, req dto.LoginRequest) (_ *domain.LoginResult, err error) {
	defer func() { s.record(metrics.EventLogin, err) }()

	fields := dto.LoginRequest{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
		Password: strings.TrimSpace(req.Password),
	}
	if err := validate.Struct(fields); err != nil {
		msg := "Username or email is required"
		if fields.Username != "" || fields.Email != "" {
			msg = "Password is required"
		}
		return nil, apperrors.NewAppError(http.StatusBadRequest, msg, fmt.Errorf("%w: %s", apperrors.ErrValidation, describeValidation(err)))
	}

	user, err := s.userRepo.FindUserByUsernameOrEmail(ctx, strings.ToLower(fields.Username), fields.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewAppError(http.StatusNotFound, "User does not exist", apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to look up user for login")
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.CheckPassword(req.Password) {
		s.LogWarn(ctx, "Password mismatch", slog.String("user_id", user.UserID))
		return nil, apperrors.NewAppError(http.StatusUnauthorized, "Invalid user credentials", apperrors.ErrUnauthorized)
	}

	result, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "User logged in", slog.String("user_id", user.UserID))
	return result, nil
}

// Logout clears the stored refresh token. A user that no longer exists is not an error.
func (s *userService) Logout(ctx context.Context, userID string) (err error) {
	defer func() { s.record(metrics.EventLogout, err) }()

	if userID == "" {
		return apperrors.NewAppError(http.StatusUnauthorized, "Unauthorized request", apperrors.ErrUnauthorized)
	}

	if err := s.userRepo.UpdateRefreshToken(ctx, userID, nil); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to clear refresh token", slog.String("user_id", userID))
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

// RefreshAccessToken rotates the token pair when the presented refresh token
// is valid and still the one stored for its user.
func (s *userService) RefreshAccessToken(ctx context.Context, refreshToken string) (_ *domain.LoginResult, err error) {
	defer func() { s.record(metrics.EventRefresh, err) }()

	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, apperrors.NewAppError(http.StatusUnauthorized, "Unauthorized request", apperrors.ErrUnauthorized)
	}

	claims, err := s.tokenService.VerifyToken(ctx, refreshToken, domain.RefreshToken)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusUnauthorized, "Invalid refresh token", err)
	}

	user, err := s.userRepo.FindUserCredentialsByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewAppError(http.StatusUnauthorized, "Invalid refresh token", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to load user for refresh: %w", err)
	}

	if !user.HasActiveSession() || !utils.CompareRefreshTokens(refreshToken, *user.RefreshToken) {
		s.LogWarn(ctx, "Refresh token does not match the stored one", slog.String("user_id", user.UserID))
		return nil, apperrors.NewAppError(http.StatusUnauthorized, "Refresh token is expired or used", apperrors.ErrUnauthorized)
	}

	return s.issueTokenPair(ctx, user)
}

// GetCurrentUser returns the sanitized record of userID.
func (s *userService) GetCurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewAppError(http.StatusNotFound, "User not found", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID in service: %w", err)
	}
	return user.Sanitized(), nil
}

// issueTokenPair mints both tokens and persists the refresh token, superseding any previous one.
func (s *userService) issueTokenPair(ctx context.Context, user *domain.User) (*domain.LoginResult, error) {
	accessToken, accessExpiry, err := s.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "Something went wrong while generating refresh and access token", err)
	}
	refreshToken, refreshExpiry, err := s.tokenService.GenerateRefreshToken(ctx, user)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "Something went wrong while generating refresh and access token", err)
	}

	if err := s.userRepo.UpdateRefreshToken(ctx, user.UserID, &refreshToken); err != nil {
		s.LogError(ctx, err, "Failed to persist refresh token", slog.String("user_id", user.UserID))
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "Something went wrong while generating refresh and access token", fmt.Errorf("%w: %v", apperrors.ErrInternal, err))
	}

	return &domain.LoginResult{
		User:                  user.Sanitized(),
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessExpiry,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshExpiry,
	}, nil
}

func (s *userService) record(event string, err error) {
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailure
	}
	s.metrics.RecordAuthEvent(event, outcome)
}

// describeValidation lists the failing fields of a validator error.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field())+" ("+fe.Tag()+")")
	}
	return strings.Join(fields, ", ")
}
