package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipeshare/server/internal/entities"
	"github.com/recipeshare/server/internal/provider"
)

// credentialAuthenticator backs the handler tests with a single account.
type credentialAuthenticator struct {
	email    string
	password string
	session  *entities.Session

	signUpErr   error
	signOutErr  error
	signOutSeen []string
}

func (f *credentialAuthenticator) SignIn(ctx context.Context, email, password string) (*entities.Session, error) {
	if email == f.email && password == f.password {
		return f.session, nil
	}
	return nil, provider.ErrInvalidCredentials
}

func (f *credentialAuthenticator) SignUp(ctx context.Context, email, password string) (*entities.Session, error) {
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return f.session, nil
}

func (f *credentialAuthenticator) SignOut(ctx context.Context, accessToken string) error {
	f.signOutSeen = append(f.signOutSeen, accessToken)
	return f.signOutErr
}

func (f *credentialAuthenticator) RefreshSession(ctx context.Context, refreshToken string) (*entities.Session, error) {
	return nil, provider.ErrNoSession
}

func (f *credentialAuthenticator) GetUser(ctx context.Context, accessToken string) (*entities.Identity, error) {
	if f.session != nil && accessToken == f.session.AccessToken {
		identity := f.session.Identity
		return &identity, nil
	}
	return nil, provider.ErrNoSession
}

func testSession() *entities.Session {
	return &entities.Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(time.Hour),
		Identity:     entities.Identity{ID: "user-1", Email: "alice@example.com"},
	}
}

func setupAuthRouter(t *testing.T, fake *credentialAuthenticator, limiter *RateLimiter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	controller := NewController(fake, CookieConfig{}, t.TempDir(), limiter, nil)
	t.Cleanup(controller.Stop)

	gateway := NewGateway(fake, CookieConfig{}, nil)

	router := gin.New()
	router.Use(gateway.Handler())
	controller.RegisterRoutes(router)
	return router
}

func postJSONForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestController_Login(t *testing.T) {
	fake := &credentialAuthenticator{email: "alice@example.com", password: "pw123456", session: testSession()}
	router := setupAuthRouter(t, fake, nil)

	t.Run("success sets cookie and returns the session", func(t *testing.T) {
		w := postJSONForm(router, "/login", url.Values{
			"email":    {"alice@example.com"},
			"password": {"pw123456"},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "access-1")

		cookie := renewedSessionCookie(w.Result())
		require.NotNil(t, cookie)
		got, err := ReadSessionCookie(&http.Request{Header: http.Header{"Cookie": {cookie.String()}}})
		require.NoError(t, err)
		assert.Equal(t, "access-1", got.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := postJSONForm(router, "/login", url.Values{
			"email":    {"alice@example.com"},
			"password": {"wrong"},
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid email or password")
		assert.Nil(t, renewedSessionCookie(w.Result()))
	})

	t.Run("browser success redirects", func(t *testing.T) {
		form := url.Values{
			"email":    {"alice@example.com"},
			"password": {"pw123456"},
			"next":     {"/recipes"},
		}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/recipes", w.Header().Get("Location"))
	})

	t.Run("external redirect target is discarded", func(t *testing.T) {
		form := url.Values{
			"email":    {"alice@example.com"},
			"password": {"pw123456"},
			"next":     {"https://evil.example.com/"},
		}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})
}

func TestController_Login_RateLimited(t *testing.T) {
	fake := &credentialAuthenticator{email: "alice@example.com", password: "pw123456", session: testSession()}
	limiter := NewRateLimiter(RateLimitConfig{MaxAttempts: 2, WindowDuration: time.Minute, LockoutDuration: time.Minute})
	router := setupAuthRouter(t, fake, limiter)

	form := url.Values{"email": {"alice@example.com"}, "password": {"wrong"}}
	for i := 0; i < 2; i++ {
		w := postJSONForm(router, "/login", form)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := postJSONForm(router, "/login", form)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	t.Run("correct credentials are also locked out", func(t *testing.T) {
		w := postJSONForm(router, "/login", url.Values{
			"email":    {"alice@example.com"},
			"password": {"pw123456"},
		})
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})
}

func TestController_Signup(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &credentialAuthenticator{session: testSession()}
		router := setupAuthRouter(t, fake, nil)

		w := postJSONForm(router, "/signup", url.Values{
			"email":    {"alice@example.com"},
			"password": {"pw123456"},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotNil(t, renewedSessionCookie(w.Result()))
	})

	t.Run("existing account", func(t *testing.T) {
		fake := &credentialAuthenticator{signUpErr: provider.ErrAccountExists}
		router := setupAuthRouter(t, fake, nil)

		w := postJSONForm(router, "/signup", url.Values{
			"email":    {"alice@example.com"},
			"password": {"pw123456"},
		})

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("provider unreachable", func(t *testing.T) {
		fake := &credentialAuthenticator{signUpErr: provider.ErrNetwork}
		router := setupAuthRouter(t, fake, nil)

		w := postJSONForm(router, "/signup", url.Values{
			"email":    {"alice@example.com"},
			"password": {"pw123456"},
		})

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestController_Logout(t *testing.T) {
	fake := &credentialAuthenticator{email: "alice@example.com", password: "pw123456", session: testSession()}
	router := setupAuthRouter(t, fake, nil)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer access-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"access-1"}, fake.signOutSeen)
	assert.True(t, clearedSessionCookie(w.Result()))

	t.Run("cookie cleared even when the provider call fails", func(t *testing.T) {
		fake.signOutErr = errors.New("provider down")

		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer access-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, clearedSessionCookie(w.Result()))
	})

	t.Run("anonymous logout is harmless", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		req.Header.Set("Accept", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestSanitizeRedirectPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/recipes", "/recipes"},
		{"/", "/"},
		{"", "/"},
		{"https://evil.example.com", "/"},
		{"//evil.example.com", "/"},
		{"/path\\evil", "/"},
		{"relative/path", "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeRedirectPath(tt.in), "input %q", tt.in)
	}
}
