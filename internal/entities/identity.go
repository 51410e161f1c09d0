package entities

import "time"

// Identity is the authenticated principal issued by the identity provider.
// It is created on sign-up and only the provider mutates it.
type Identity struct {
	ID       string    `json:"id"`
	Email    string    `json:"email"`
	IssuedAt time.Time `json:"issued_at"`
}

// Session is a renewable credential proving one Identity's authentication.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	Identity     Identity  `json:"identity"`
}

// Valid reports whether the session has not yet expired.
func (s *Session) Valid(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

// Refreshable reports whether an expired session still carries a refresh
// token the gateway may redeem.
func (s *Session) Refreshable() bool {
	return s.RefreshToken != ""
}
