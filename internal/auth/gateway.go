package auth

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/recipeshare/server/internal/provider"
)

// RefreshRecorder receives a diagnostic record when a session refresh fails
// irrecoverably. Optional.
type RefreshRecorder interface {
	RecordRefreshFailure(ip string, err error)
}

// Gateway intercepts every request, validates or refreshes the session it
// carries, and forwards an identity context (or none) downstream. It runs
// before any handler reads identity.
//
// Per-request state machine:
//
//	NoSession -> anonymous passthrough
//	SessionPresentValid -> identity attached
//	SessionPresentExpired -> RefreshInFlight (exactly one attempt)
//	    -> SessionPresentValid (cookie rewritten)
//	    -> NoSession (cookie cleared)
type Gateway struct {
	auth     provider.Authenticator
	cookies  CookieConfig
	recorder RefreshRecorder
}

// NewGateway creates the session gateway middleware.
func NewGateway(auth provider.Authenticator, cookies CookieConfig, recorder RefreshRecorder) *Gateway {
	return &Gateway{auth: auth, cookies: cookies, recorder: recorder}
}

// Handler returns the Gin middleware. It never aborts: an invalid session
// degrades to an anonymous request and the handler decides what that means.
func (g *Gateway) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// API clients may present the access token directly. Bearer sessions
		// carry no refresh token, so there is nothing to renew.
		if token := bearerToken(c); token != "" {
			g.resolveIdentity(c, token)
			c.Next()
			return
		}

		session, err := ReadSessionCookie(c.Request)
		if err != nil {
			if !errors.Is(err, errNoSessionCookie) {
				// Corrupt cookie: clear it so the client stops sending it.
				ClearSessionCookie(c, g.cookies)
			}
			c.Next()
			return
		}

		if session.Valid(time.Now()) {
			err := g.resolveIdentity(c, session.AccessToken)
			if errors.Is(err, provider.ErrNoSession) || errors.Is(err, provider.ErrSessionExpired) {
				// The provider rejected the token itself. Any other failure
				// (a transient outage) degrades this request to anonymous
				// but leaves the still-valid session for the next one.
				ClearSessionCookie(c, g.cookies)
			}
			c.Next()
			return
		}

		// Expired. At most one refresh attempt per request.
		if !session.Refreshable() {
			ClearSessionCookie(c, g.cookies)
			c.Next()
			return
		}

		renewed, err := g.auth.RefreshSession(c.Request.Context(), session.RefreshToken)
		if err != nil {
			// NetworkError during refresh degrades to NoSession rather than
			// failing the whole request.
			log.Printf("Session refresh failed: %v", err)
			if g.recorder != nil {
				g.recorder.RecordRefreshFailure(c.ClientIP(), err)
			}
			ClearSessionCookie(c, g.cookies)
			c.Next()
			return
		}

		// Attach the renewed session to the response so subsequent requests
		// observe the new expiry.
		WriteSessionCookie(c, renewed, g.cookies)
		identity := renewed.Identity
		c.Set(ContextKeyIdentity, &identity)
		c.Set(ContextKeyAccessToken, renewed.AccessToken)
		c.Next()
	}
}

// resolveIdentity validates an access token with the provider and attaches
// the identity on success. Any failure leaves the request anonymous.
func (g *Gateway) resolveIdentity(c *gin.Context, accessToken string) error {
	identity, err := g.auth.GetUser(c.Request.Context(), accessToken)
	if err != nil {
		if errors.Is(err, provider.ErrNetwork) {
			log.Printf("Identity lookup failed: %v", err)
		}
		return err
	}
	c.Set(ContextKeyIdentity, identity)
	c.Set(ContextKeyAccessToken, accessToken)
	return nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
