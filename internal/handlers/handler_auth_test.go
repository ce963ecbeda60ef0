package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/user_accounts_app/internal/apperrors"
	"github.com/SscSPs/user_accounts_app/internal/core/domain"
	portssvc "github.com/SscSPs/user_accounts_app/internal/core/ports/services"
	"github.com/SscSPs/user_accounts_app/internal/core/services"
	"github.com/SscSPs/user_accounts_app/internal/dto"
	"github.com/SscSPs/user_accounts_app/internal/handlers"
	"github.com/SscSPs/user_accounts_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetCurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) Register(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, req dto.LoginRequest) (*domain.LoginResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoginResult), args.Error(1)
}

func (m *MockUserService) Logout(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserService) RefreshAccessToken(ctx context.Context, refreshToken string) (*domain.LoginResult, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoginResult), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

// --- Test Suite Setup ---
type UserHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	cfg             *config.Config
	mockUserService *MockUserService
	tokenService    portssvc.TokenSvcFacade
}

func testConfig(tempDir string) *config.Config {
	return &config.Config{
		JWTSecret:                  "access-secret-for-tests-only",
		JWTExpiryDuration:          time.Hour,
		JWTIssuer:                  "user-accounts-test",
		RefreshTokenSecret:         "refresh-secret-for-tests-only",
		RefreshTokenExpiryDuration: 240 * time.Hour,
		AccessTokenCookieName:      "accessToken",
		RefreshTokenCookieName:     "refreshToken",
		TokenCookiePath:            "/",
		UploadTempDir:              tempDir,
		MaxUploadSizeMB:            1,
	}
}

func (suite *UserHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.cfg = testConfig(suite.T().TempDir())
	suite.mockUserService = new(MockUserService)
	suite.tokenService = services.NewTokenService(suite.cfg)
	suite.router = suite.newRouter(suite.cfg)
}

func (suite *UserHandlerTestSuite) newRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	container := &portssvc.ServiceContainer{User: suite.mockUserService, TokenService: suite.tokenService}
	suite.Require().NoError(handlers.RegisterUserRoutes(router.Group("/api/v1"), cfg, container))
	return router
}

func (suite *UserHandlerTestSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *UserHandlerTestSuite) decode(w *httptest.ResponseRecorder) envelope {
	var body envelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func (suite *UserHandlerTestSuite) cookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func loginResult() *domain.LoginResult {
	return &domain.LoginResult{
		User:                  &domain.User{UserID: "user-1", Username: "alice", Email: "alice@example.com"},
		AccessToken:           "access-token",
		AccessTokenExpiresAt:  time.Now().Add(time.Hour),
		RefreshToken:          "refresh-token",
		RefreshTokenExpiresAt: time.Now().Add(240 * time.Hour),
	}
}

// --- Login ---
func (suite *UserHandlerTestSuite) TestLogin_SetsSecureCookies() {
	suite.mockUserService.On("Login", mock.Anything, dto.LoginRequest{Email: "alice@example.com", Password: "pw"}).Return(loginResult(), nil).Once()

	w := suite.serve(jsonRequest(http.MethodPost, "/api/v1/users/login", `{"email":"alice@example.com","password":"pw"}`))

	suite.Equal(http.StatusOK, w.Code)
	body := suite.decode(w)
	suite.True(body.Success)
	suite.Equal(http.StatusOK, body.StatusCode)
	suite.Equal("User logged in successfully", body.Message)

	var payload dto.LoginResponse
	suite.Require().NoError(json.Unmarshal(body.Data, &payload))
	suite.Equal("alice", payload.User.Username)
	suite.Equal("access-token", payload.AccessToken)
	suite.Equal("refresh-token", payload.RefreshToken)
	suite.NotContains(string(body.Data), "password")

	for name, value := range map[string]string{"accessToken": "access-token", "refreshToken": "refresh-token"} {
		c := suite.cookie(w, name)
		suite.Require().NotNil(c, name)
		suite.Equal(value, c.Value)
		suite.True(c.HttpOnly)
		suite.True(c.Secure)
		suite.Equal("/", c.Path)
		suite.Positive(c.MaxAge)
	}
}

func (suite *UserHandlerTestSuite) TestLogin_UnknownUser() {
	suite.mockUserService.On("Login", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewAppError(http.StatusNotFound, "User does not exist", apperrors.ErrNotFound)).Once()

	w := suite.serve(jsonRequest(http.MethodPost, "/api/v1/users/login", `{"username":"ghost","password":"pw"}`))

	suite.Equal(http.StatusNotFound, w.Code)
	body := suite.decode(w)
	suite.False(body.Success)
	suite.Equal(http.StatusNotFound, body.StatusCode)
	suite.Equal("User does not exist", body.Message)
	suite.Nil(suite.cookie(w, "accessToken"))
}

func (suite *UserHandlerTestSuite) TestLogin_WrongPassword() {
	suite.mockUserService.On("Login", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewAppError(http.StatusUnauthorized, "Invalid user credentials", apperrors.ErrUnauthorized)).Once()

	w := suite.serve(jsonRequest(http.MethodPost, "/api/v1/users/login", `{"username":"alice","password":"nope"}`))

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Invalid user credentials", suite.decode(w).Message)
}

func (suite *UserHandlerTestSuite) TestLogin_MalformedBody() {
	w := suite.serve(jsonRequest(http.MethodPost, "/api/v1/users/login", `{"username":`))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.False(suite.decode(w).Success)
	suite.mockUserService.AssertNotCalled(suite.T(), "Login", mock.Anything, mock.Anything)
}

func (suite *UserHandlerTestSuite) TestLogin_UnexpectedErrorIsMasked() {
	suite.mockUserService.On("Login", mock.Anything, mock.Anything).Return(nil, errors.New("pq: connection refused")).Once()

	w := suite.serve(jsonRequest(http.MethodPost, "/api/v1/users/login", `{"username":"alice","password":"pw"}`))

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "connection refused")
}

// --- Register ---
func (suite *UserHandlerTestSuite) multipartRegister(withAvatar bool) *http.Request {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{"fullname": "Alice A", "email": "alice@example.com", "username": "alice", "password": "pw"} {
		suite.Require().NoError(mw.WriteField(k, v))
	}
	if withAvatar {
		fw, err := mw.CreateFormFile("avatar", "Me.PNG")
		suite.Require().NoError(err)
		_, err = fw.Write([]byte("\x89PNG\r\n\x1a\nfake"))
		suite.Require().NoError(err)
	}
	suite.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (suite *UserHandlerTestSuite) TestRegister_Created() {
	var tempPath string
	suite.mockUserService.On("Register", mock.Anything, mock.MatchedBy(func(req dto.RegisterUserRequest) bool {
		return req.Username == "alice" && req.Fullname == "Alice A" && strings.HasSuffix(req.AvatarLocalPath, ".png") && req.CoverImageLocalPath == ""
	})).Run(func(args mock.Arguments) {
		tempPath = args.Get(1).(dto.RegisterUserRequest).AvatarLocalPath
		_, err := os.Stat(tempPath)
		suite.NoError(err, "avatar must be on disk while registering")
	}).Return(&domain.User{UserID: "user-1", Username: "alice", AvatarURL: "https://media.example.com/a.png"}, nil).Once()

	w := suite.serve(suite.multipartRegister(true))

	suite.Equal(http.StatusCreated, w.Code)
	body := suite.decode(w)
	suite.True(body.Success)
	suite.Equal(http.StatusCreated, body.StatusCode)
	var user dto.UserResponse
	suite.Require().NoError(json.Unmarshal(body.Data, &user))
	suite.Equal("https://media.example.com/a.png", user.Avatar)

	_, err := os.Stat(tempPath)
	suite.True(os.IsNotExist(err), "temp upload must be removed")
}

func (suite *UserHandlerTestSuite) TestRegister_WithoutAvatarStillReachesWorkflow() {
	suite.mockUserService.On("Register", mock.Anything, mock.MatchedBy(func(req dto.RegisterUserRequest) bool {
		return req.AvatarLocalPath == ""
	})).Return(nil, apperrors.NewAppError(http.StatusBadRequest, "Avatar file is required", apperrors.ErrValidation)).Once()

	w := suite.serve(suite.multipartRegister(false))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Avatar file is required", suite.decode(w).Message)
}

func (suite *UserHandlerTestSuite) TestRegister_Duplicate() {
	suite.mockUserService.On("Register", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewAppError(http.StatusConflict, "User with email or username already exists", apperrors.ErrDuplicate)).Once()

	w := suite.serve(suite.multipartRegister(true))

	suite.Equal(http.StatusConflict, w.Code)
	body := suite.decode(w)
	suite.False(body.Success)
	suite.Equal(http.StatusConflict, body.StatusCode)
}

// --- Logout ---
func (suite *UserHandlerTestSuite) accessTokenFor(userID string) string {
	token, _, err := suite.tokenService.GenerateAccessToken(context.Background(), &domain.User{UserID: userID, Username: "alice"})
	suite.Require().NoError(err)
	return token
}

func (suite *UserHandlerTestSuite) TestLogout_RequiresToken() {
	w := suite.serve(httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil))

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.False(suite.decode(w).Success)
	suite.mockUserService.AssertNotCalled(suite.T(), "Logout", mock.Anything, mock.Anything)
}

func (suite *UserHandlerTestSuite) TestLogout_ClearsCookies() {
	suite.mockUserService.On("Logout", mock.Anything, "user-1").Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil)
	req.Header.Set("Authorization", "Bearer "+suite.accessTokenFor("user-1"))
	w := suite.serve(req)

	suite.Equal(http.StatusOK, w.Code)
	body := suite.decode(w)
	suite.Equal("User logged out", body.Message)
	suite.JSONEq(`{}`, string(body.Data))
	for _, name := range []string{"accessToken", "refreshToken"} {
		c := suite.cookie(w, name)
		suite.Require().NotNil(c, name)
		suite.Empty(c.Value)
		suite.Negative(c.MaxAge)
		suite.True(c.HttpOnly)
		suite.True(c.Secure)
	}
	suite.mockUserService.AssertExpectations(suite.T())
}

// --- Current user / auth middleware ---
func (suite *UserHandlerTestSuite) TestCurrentUser_FromCookie() {
	suite.mockUserService.On("GetCurrentUser", mock.Anything, "user-1").Return(&domain.User{UserID: "user-1", Username: "alice"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: suite.accessTokenFor("user-1")})
	w := suite.serve(req)

	suite.Equal(http.StatusOK, w.Code)
	var user dto.UserResponse
	suite.Require().NoError(json.Unmarshal(suite.decode(w).Data, &user))
	suite.Equal("alice", user.Username)
}

func (suite *UserHandlerTestSuite) TestCurrentUser_RejectsRefreshToken() {
	refresh, _, err := suite.tokenService.GenerateRefreshToken(context.Background(), &domain.User{UserID: "user-1"})
	suite.Require().NoError(err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	w := suite.serve(req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Invalid access token", suite.decode(w).Message)
}

func (suite *UserHandlerTestSuite) TestCurrentUser_ExpiredToken() {
	expiredCfg := *suite.cfg
	expiredCfg.JWTExpiryDuration = -time.Minute
	token, _, err := services.NewTokenService(&expiredCfg).GenerateAccessToken(context.Background(), &domain.User{UserID: "user-1"})
	suite.Require().NoError(err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := suite.serve(req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Access token has expired", suite.decode(w).Message)
}

// --- Refresh ---
func (suite *UserHandlerTestSuite) TestRefresh_FromCookie() {
	suite.mockUserService.On("RefreshAccessToken", mock.Anything, "old-refresh").Return(loginResult(), nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "old-refresh"})
	w := suite.serve(req)

	suite.Equal(http.StatusOK, w.Code)
	var payload dto.RefreshTokenResponse
	suite.Require().NoError(json.Unmarshal(suite.decode(w).Data, &payload))
	suite.Equal("refresh-token", payload.RefreshToken)
	suite.Equal("refresh-token", suite.cookie(w, "refreshToken").Value)
}

func (suite *UserHandlerTestSuite) TestRefresh_FromBody() {
	suite.mockUserService.On("RefreshAccessToken", mock.Anything, "body-refresh").Return(loginResult(), nil).Once()

	w := suite.serve(jsonRequest(http.MethodPost, "/api/v1/users/refresh-token", `{"refreshToken":"body-refresh"}`))

	suite.Equal(http.StatusOK, w.Code)
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *UserHandlerTestSuite) TestRefresh_Rejected() {
	suite.mockUserService.On("RefreshAccessToken", mock.Anything, "").
		Return(nil, apperrors.NewAppError(http.StatusUnauthorized, "Unauthorized request", apperrors.ErrUnauthorized)).Once()

	w := suite.serve(httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil))

	suite.Equal(http.StatusUnauthorized, w.Code)
}

// --- Rate limiting ---
func (suite *UserHandlerTestSuite) TestLogin_RateLimited() {
	cfg := *suite.cfg
	cfg.LoginRateLimit = "1-M"
	suite.router = suite.newRouter(&cfg)
	suite.mockUserService.On("Login", mock.Anything, mock.Anything).Return(loginResult(), nil).Once()

	first := suite.serve(jsonRequest(http.MethodPost, "/api/v1/users/login", `{"username":"alice","password":"pw"}`))
	second := suite.serve(jsonRequest(http.MethodPost, "/api/v1/users/login", `{"username":"alice","password":"pw"}`))

	suite.Equal(http.StatusOK, first.Code)
	suite.Equal(http.StatusTooManyRequests, second.Code)
	suite.False(suite.decode(second).Success)
}

func (suite *UserHandlerTestSuite) TestRegisterUserRoutes_BadRateLimit() {
	cfg := *suite.cfg
	cfg.LoginRateLimit = "lots"
	container := &portssvc.ServiceContainer{User: suite.mockUserService, TokenService: suite.tokenService}

	suite.Error(handlers.RegisterUserRoutes(gin.New().Group("/api/v1"), &cfg, container))
}

// --- Run Test Suite ---
func TestUserHandler(t *testing.T) {
	suite.Run(t, new(UserHandlerTestSuite))
}
