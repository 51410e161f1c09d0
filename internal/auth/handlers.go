package auth

import (
	"errors"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/recipeshare/server/internal/entities"
	"github.com/recipeshare/server/internal/provider"
)

// EventRecorder receives authentication events for the audit trail. Optional.
type EventRecorder interface {
	RecordSignIn(identityID, email, ip string, err error)
	RecordSignUp(identityID, email, ip string, err error)
	RecordSignOut(identityID, ip string, err error)
}

// isLocalPath validates that a redirect path is local to prevent open
// redirect attacks.
func isLocalPath(path string) bool {
	if path == "" {
		return false
	}
	if !strings.HasPrefix(path, "/") {
		return false
	}
	// Reject protocol-relative URLs (//evil.com)
	if strings.HasPrefix(path, "//") {
		return false
	}
	if strings.Contains(path, "://") {
		return false
	}
	if strings.Contains(path, "\\") {
		return false
	}
	return true
}

// sanitizeRedirectPath returns a safe redirect path, defaulting to "/" if invalid.
func sanitizeRedirectPath(path string) string {
	if isLocalPath(path) {
		return path
	}
	return "/"
}

// credentialsForm is the shared login/signup input, bound from form or JSON.
type credentialsForm struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	Next     string `form:"next" json:"-"`
}

// Controller handles the sign-in, sign-up, and sign-out HTTP endpoints.
type Controller struct {
	auth        provider.Authenticator
	cookies     CookieConfig
	templates   *template.Template
	rateLimiter *RateLimiter
	recorder    EventRecorder
}

// NewController creates the authentication controller.
func NewController(auth provider.Authenticator, cookies CookieConfig, templatesPath string, rateLimiter *RateLimiter, recorder EventRecorder) *Controller {
	// Parse auth templates; absent templates fall back to JSON rendering.
	pattern := filepath.Join(templatesPath, "auth", "*.html")
	tmpl, err := template.ParseGlob(pattern)
	if err != nil {
		tmpl = nil
	}

	return &Controller{
		auth:        auth,
		cookies:     cookies,
		templates:   tmpl,
		rateLimiter: rateLimiter,
		recorder:    recorder,
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *Controller) RegisterRoutes(router *gin.Engine) {
	router.GET("/login", ac.LoginPage)
	router.POST("/login", ac.Login)
	router.GET("/signup", ac.SignupPage)
	router.POST("/signup", ac.Signup)
	router.POST("/logout", ac.Logout)
	router.GET("/logout", ac.Logout) // Support GET for simple logout links
}

// Stop cleans up resources (rate limiter background goroutine).
func (ac *Controller) Stop() {
	if ac.rateLimiter != nil {
		ac.rateLimiter.Stop()
	}
}

// LoginPage renders the login form.
func (ac *Controller) LoginPage(c *gin.Context) {
	if IsAuthenticated(c) {
		c.Redirect(http.StatusFound, "/")
		return
	}

	ac.renderTemplate(c, http.StatusOK, "login.html", gin.H{
		"Title":     "Login",
		"Next":      sanitizeRedirectPath(c.Query("next")),
		"CSRFToken": GetCSRFToken(c),
		"Error":     c.Query("error"),
	})
}

// Login handles the login submission.
func (ac *Controller) Login(c *gin.Context) {
	var form credentialsForm
	_ = c.ShouldBind(&form)
	next := sanitizeRedirectPath(form.Next)
	clientIP := c.ClientIP()

	if ac.rateLimiter != nil {
		allowed, retryAfter := ac.rateLimiter.Allow(clientIP, form.Email)
		if !allowed {
			c.Header("Retry-After", retryAfter.String())
			ac.failAuth(c, http.StatusTooManyRequests, "login.html", next, form.Email,
				"Too many attempts. Please try again later.")
			return
		}
	}

	session, err := ac.auth.SignIn(c.Request.Context(), form.Email, form.Password)
	if ac.recorder != nil {
		id := ""
		if session != nil {
			id = session.Identity.ID
		}
		ac.recorder.RecordSignIn(id, form.Email, clientIP, err)
	}
	if err != nil {
		if ac.rateLimiter != nil {
			ac.rateLimiter.RecordFailure(clientIP, form.Email)
		}
		status := http.StatusUnauthorized
		if errors.Is(err, provider.ErrNetwork) {
			status = http.StatusBadGateway
		}
		ac.failAuth(c, status, "login.html", next, form.Email, provider.UserMessage(err))
		return
	}

	if ac.rateLimiter != nil {
		ac.rateLimiter.RecordSuccess(clientIP, form.Email)
	}

	WriteSessionCookie(c, session, ac.cookies)
	ac.finishAuth(c, next, session)
}

// SignupPage renders the registration form.
func (ac *Controller) SignupPage(c *gin.Context) {
	if IsAuthenticated(c) {
		c.Redirect(http.StatusFound, "/")
		return
	}

	ac.renderTemplate(c, http.StatusOK, "signup.html", gin.H{
		"Title":     "Sign Up",
		"CSRFToken": GetCSRFToken(c),
		"Error":     c.Query("error"),
	})
}

// Signup handles the registration submission. No profile is created here;
// that is a separate write the signed-up user performs afterwards.
func (ac *Controller) Signup(c *gin.Context) {
	var form credentialsForm
	_ = c.ShouldBind(&form)
	clientIP := c.ClientIP()

	session, err := ac.auth.SignUp(c.Request.Context(), form.Email, form.Password)
	if ac.recorder != nil {
		id := ""
		if session != nil {
			id = session.Identity.ID
		}
		ac.recorder.RecordSignUp(id, form.Email, clientIP, err)
	}
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, provider.ErrAccountExists):
			status = http.StatusConflict
		case errors.Is(err, provider.ErrNetwork):
			status = http.StatusBadGateway
		}
		ac.failAuth(c, status, "signup.html", "/", form.Email, provider.UserMessage(err))
		return
	}

	WriteSessionCookie(c, session, ac.cookies)
	ac.finishAuth(c, "/", session)
}

// Logout destroys the session. Local session state is cleared even when the
// provider call fails: a user-initiated logout must win.
func (ac *Controller) Logout(c *gin.Context) {
	accessToken := GetAccessToken(c)

	var err error
	if accessToken != "" {
		err = ac.auth.SignOut(c.Request.Context(), accessToken)
	}
	if ac.recorder != nil {
		id := ""
		if identity := GetIdentity(c); identity != nil {
			id = identity.ID
		}
		ac.recorder.RecordSignOut(id, c.ClientIP(), err)
	}

	ClearSessionCookie(c, ac.cookies)

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"message": "signed out"})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// finishAuth completes a successful login or signup. API clients get the
// session payload; browsers get a redirect with the cookie already set.
func (ac *Controller) finishAuth(c *gin.Context, next string, session *entities.Session) {
	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{
			"access_token":  session.AccessToken,
			"refresh_token": session.RefreshToken,
			"expires_at":    session.ExpiresAt.Unix(),
			"user": gin.H{
				"id":    session.Identity.ID,
				"email": session.Identity.Email,
			},
		})
		return
	}
	c.Redirect(http.StatusFound, next)
}

// failAuth reports an authentication failure on the right channel.
func (ac *Controller) failAuth(c *gin.Context, status int, page, next, email, message string) {
	if wantsJSON(c) {
		c.JSON(status, gin.H{"error": message})
		return
	}
	ac.renderTemplate(c, status, page, gin.H{
		"Title":     "Login",
		"Next":      next,
		"Email":     email,
		"CSRFToken": GetCSRFToken(c),
		"Error":     message,
	})
}

// renderTemplate renders an auth template or falls back to JSON.
func (ac *Controller) renderTemplate(c *gin.Context, status int, name string, data gin.H) {
	if ac.templates == nil {
		c.JSON(status, data)
		return
	}

	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := ac.templates.ExecuteTemplate(c.Writer, name, data); err != nil {
		c.String(http.StatusInternalServerError, "Template error: %v", err)
	}
}

func wantsJSON(c *gin.Context) bool {
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		return true
	}
	return strings.Contains(c.ContentType(), "application/json")
}
