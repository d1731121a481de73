package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/rememberme/internal/identity/domain"
	"github.com/allisson/rememberme/internal/identity/http/dto"
	identityUseCase "github.com/allisson/rememberme/internal/identity/usecase"
	"github.com/allisson/rememberme/internal/identity/usecase/mocks"
	sessionDomain "github.com/allisson/rememberme/internal/session/domain"
	userDomain "github.com/allisson/rememberme/internal/user/domain"
)

func setupAuthHandler() (*AuthHandler, *mocks.MockIdentityUseCase) {
	useCase := &mocks.MockIdentityUseCase{}
	return NewAuthHandler(useCase, testCookieConfig(), discardLogger()), useCase
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler, useCase := setupAuthHandler()
		principal := newPrincipal(userDomain.RoleUser)
		principal.Source = domain.SourceLogin

		useCase.On("Login", mock.Anything, mock.AnythingOfType("*http.CookieTransport"), identityUseCase.LoginInput{
			Email:    "ada@example.com",
			Password: "Secret123!",
			Remember: true,
		}).Return(principal, nil).Once()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = jsonRequest(t, http.MethodPost, "/login", dto.LoginRequest{
			Email:    "ada@example.com",
			Password: "Secret123!",
			Remember: true,
		})

		handler.LoginHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.PrincipalResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, principal.UserID.String(), response.UserID)
		assert.Equal(t, "login", response.Source)
		useCase.AssertExpectations(t)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		handler, useCase := setupAuthHandler()
		useCase.On("Login", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, userDomain.ErrInvalidCredentials).Once()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = jsonRequest(t, http.MethodPost, "/login", dto.LoginRequest{
			Email:    "ada@example.com",
			Password: "wrong",
		})

		handler.LoginHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("validation error", func(t *testing.T) {
		handler, useCase := setupAuthHandler()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = jsonRequest(t, http.MethodPost, "/login", dto.LoginRequest{Email: "not-an-email"})

		handler.LoginHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		useCase.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed json", func(t *testing.T) {
		handler, _ := setupAuthHandler()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString("{"))
		c.Request.Header.Set("Content-Type", "application/json")

		handler.LoginHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("store unavailable", func(t *testing.T) {
		handler, useCase := setupAuthHandler()
		useCase.On("Login", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, sessionDomain.ErrSessionStoreUnavailable).Once()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = jsonRequest(t, http.MethodPost, "/login", dto.LoginRequest{
			Email:    "ada@example.com",
			Password: "Secret123!",
		})

		handler.LoginHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("with principal", func(t *testing.T) {
		handler, useCase := setupAuthHandler()
		principal := newPrincipal(userDomain.RoleUser)
		useCase.On("Logout", mock.Anything, mock.Anything, principal).Return(nil).Once()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/logout", nil)
		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))

		handler.LogoutHandler(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
		useCase.AssertExpectations(t)
	})

	t.Run("anonymous", func(t *testing.T) {
		handler, useCase := setupAuthHandler()
		useCase.On("Logout", mock.Anything, mock.Anything, (*domain.Principal)(nil)).Return(nil).Once()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/logout", nil)

		handler.LogoutHandler(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
		useCase.AssertExpectations(t)
	})

	t.Run("session store failure", func(t *testing.T) {
		handler, useCase := setupAuthHandler()
		useCase.On("Logout", mock.Anything, mock.Anything, mock.Anything).
			Return(sessionDomain.ErrSessionStoreUnavailable).Once()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/logout", nil)

		handler.LogoutHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestAuthHandler_LogoutEverywhere(t *testing.T) {
	t.Run("requires principal", func(t *testing.T) {
		handler, useCase := setupAuthHandler()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/logout/all", nil)

		handler.LogoutEverywhereHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		useCase.AssertNotCalled(t, "LogoutEverywhere", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("success", func(t *testing.T) {
		handler, useCase := setupAuthHandler()
		principal := newPrincipal(userDomain.RoleUser)
		useCase.On("LogoutEverywhere", mock.Anything, mock.Anything, principal).Return(nil).Once()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/logout/all", nil)
		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))

		handler.LogoutEverywhereHandler(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
		useCase.AssertExpectations(t)
	})
}

func TestAuthHandler_WhoAmI(t *testing.T) {
	handler, _ := setupAuthHandler()
	principal := newPrincipal(userDomain.RoleAdmin)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/session", nil)
	c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))

	handler.WhoAmIHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestLoginAndResolveShareTransport(t *testing.T) {
	useCase := &mocks.MockIdentityUseCase{}
	var seen []identityUseCase.CookieTransport
	useCase.On("Resolve", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { seen = append(seen, args.Get(1).(identityUseCase.CookieTransport)) }).
		Return(domain.Anonymous(domain.OutcomeAnonymous), nil).Once()
	useCase.On("Logout", mock.Anything, mock.Anything, (*domain.Principal)(nil)).
		Run(func(args mock.Arguments) { seen = append(seen, args.Get(1).(identityUseCase.CookieTransport)) }).
		Return(nil).Once()

	handler := NewAuthHandler(useCase, testCookieConfig(), discardLogger())
	router := gin.New()
	router.Use(ResolveIdentityMiddleware(useCase, testCookieConfig(), discardLogger()))
	router.POST("/logout", handler.LogoutHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/logout", nil))

	require.Len(t, seen, 2)
	assert.Same(t, seen[0], seen[1])
}
