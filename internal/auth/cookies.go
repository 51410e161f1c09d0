package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/recipeshare/server/internal/entities"
)

// SessionCookieName is the single cookie carrying the session token triple.
const SessionCookieName = "rs_session"

var errNoSessionCookie = errors.New("no session cookie")

// CookieConfig controls session cookie attributes.
type CookieConfig struct {
	Secure bool
	MaxAge time.Duration
}

// cookiePayload is the base64-JSON body of the session cookie. The expiry is
// mirrored here so the gateway can make its expired/valid decision without a
// provider round trip.
type cookiePayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// ReadSessionCookie decodes the session cookie from the request. Returns
// errNoSessionCookie when absent, or a decode error for a corrupt cookie
// (which callers treat the same way: no session).
func ReadSessionCookie(r *http.Request) (*entities.Session, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, errNoSessionCookie
	}

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil, err
	}

	var payload cookiePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	if payload.AccessToken == "" {
		return nil, errNoSessionCookie
	}

	return &entities.Session{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		ExpiresAt:    time.Unix(payload.ExpiresAt, 0),
	}, nil
}

// WriteSessionCookie attaches the session to the outgoing response.
func WriteSessionCookie(c *gin.Context, session *entities.Session, cfg CookieConfig) {
	payload := cookiePayload{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresAt:    session.ExpiresAt.Unix(),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}

	maxAge := int(cfg.MaxAge.Seconds())
	if maxAge <= 0 {
		maxAge = int((30 * 24 * time.Hour).Seconds())
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie removes any session state from the outgoing response.
func ClearSessionCookie(c *gin.Context, cfg CookieConfig) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
