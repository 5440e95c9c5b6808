package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-hrm/internal/auth"
	autherrors "go-hrm/internal/auth/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeAuthService struct {
	LoginFn func(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error)
	GetMeFn func(ctx context.Context, userID string) (auth.AuthResponse, error)
}

func (f *fakeAuthService) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	return f.LoginFn(ctx, req)
}

func (f *fakeAuthService) GetMe(ctx context.Context, userID string) (auth.AuthResponse, error) {
	return f.GetMeFn(ctx, userID)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("sets the session cookie", func(t *testing.T) {
		svc := &fakeAuthService{
			LoginFn: func(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
				assert.Equal(t, "jane@example.com", req.Email)
				return auth.LoginResponse{AccessToken: "signed.jwt.value"}, nil
			},
		}
		r := setupRouter()
		r.POST("/auth/login", auth.NewHandler(svc, auth.CookieOptions{Secure: true}).Login)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"email":"jane@example.com","password":"s3cret!"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		cookie := w.Header().Get("Set-Cookie")
		assert.Contains(t, cookie, auth.AccessTokenCookie+"=signed.jwt.value")
		assert.Contains(t, cookie, "HttpOnly")
		assert.Contains(t, cookie, "Secure")
	})

	t.Run("invalid credentials", func(t *testing.T) {
		svc := &fakeAuthService{
			LoginFn: func(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
				return auth.LoginResponse{}, autherrors.ErrInvalidCredentials
			},
		}
		r := setupRouter()
		r.POST("/auth/login", auth.NewHandler(svc, auth.CookieOptions{}).Login)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"email":"jane@example.com","password":"bad"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, w.Header().Get("Set-Cookie"))
	})

	t.Run("malformed email", func(t *testing.T) {
		r := setupRouter()
		r.POST("/auth/login", auth.NewHandler(&fakeAuthService{}, auth.CookieOptions{}).Login)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"email":"nope","password":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	svc := &fakeAuthService{
		GetMeFn: func(ctx context.Context, userID string) (auth.AuthResponse, error) {
			return auth.AuthResponse{ID: userID, Role: "Employee"}, nil
		},
	}
	h := auth.NewHandler(svc, auth.CookieOptions{})

	t.Run("requires a session", func(t *testing.T) {
		r := setupRouter()
		r.GET("/auth/me", h.Me)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/auth/me", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("returns the caller", func(t *testing.T) {
		r := setupRouter()
		r.GET("/auth/me", func(c *gin.Context) { c.Set("user_id", "u-1"); c.Next() }, h.Me)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/auth/me", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"u-1"`)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	r := setupRouter()
	r.POST("/auth/logout", auth.NewHandler(&fakeAuthService{}, auth.CookieOptions{}).Logout)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/auth/logout", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}
