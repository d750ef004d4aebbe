package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shopping-ledger/internal/auth"
	"shopping-ledger/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func newTestAuthHandler(svc *MockAuthService) (*AuthHandler, *auth.Manager) {
	tokens := auth.NewManager("test-secret", 15*time.Minute, 24*time.Hour)
	return NewAuthHandler(svc, tokens, false, zerolog.Nop()), tokens
}

func refreshCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == refreshCookieName {
			return c
		}
	}
	t.Fatal("refresh cookie not set")
	return nil
}

func TestAuthHandler_Login(t *testing.T) {
	testUser := &model.User{ID: 42, Username: "alex"}

	t.Run("Success sets cookie and returns access token", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler, tokens := newTestAuthHandler(mockService)

		mockService.On("Authenticate", mock.Anything, "alex", "password").Return(testUser, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"username": "alex", "password": "password"}`))
		w := httptest.NewRecorder()

		handler.Login(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp model.TokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		userID, err := tokens.VerifyAccess(resp.Access)
		require.NoError(t, err)
		assert.Equal(t, int64(42), userID)

		cookie := refreshCookie(t, w)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, refreshCookiePath, cookie.Path)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		assert.Positive(t, cookie.MaxAge)

		// The cookie carries a refresh token, not an access token.
		userID, err = tokens.VerifyRefresh(cookie.Value)
		require.NoError(t, err)
		assert.Equal(t, int64(42), userID)

		mockService.AssertExpectations(t)
	})

	t.Run("Invalid credentials", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler, _ := newTestAuthHandler(mockService)

		mockService.On("Authenticate", mock.Anything, "alex", "wrong").Return(nil, model.ErrInvalidCredentials)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"username": "alex", "password": "wrong"}`))
		w := httptest.NewRecorder()

		handler.Login(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, w.Result().Cookies())
		mockService.AssertExpectations(t)
	})

	t.Run("Missing credentials", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler, _ := newTestAuthHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"username": "alex"}`))
		w := httptest.NewRecorder()

		handler.Login(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Malformed body", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler, _ := newTestAuthHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{`))
		w := httptest.NewRecorder()

		handler.Login(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	t.Run("Valid cookie yields new access token", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler, tokens := newTestAuthHandler(mockService)

		refresh, err := tokens.IssueRefresh(42)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: refresh})
		w := httptest.NewRecorder()

		handler.Refresh(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp model.TokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		userID, err := tokens.VerifyAccess(resp.Access)
		require.NoError(t, err)
		assert.Equal(t, int64(42), userID)
	})

	t.Run("Missing cookie", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler, _ := newTestAuthHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
		w := httptest.NewRecorder()

		handler.Refresh(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Access token in cookie is rejected", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler, tokens := newTestAuthHandler(mockService)

		access, err := tokens.IssueAccess(42)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: access})
		w := httptest.NewRecorder()

		handler.Refresh(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		// The bad cookie is dropped so the client stops retrying.
		cookie := refreshCookie(t, w)
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	mockService := new(MockAuthService)
	handler, _ := newTestAuthHandler(mockService)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	w := httptest.NewRecorder()

	handler.Logout(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"detail": "successfully logged out"}`, w.Body.String())

	cookie := refreshCookie(t, w)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}
