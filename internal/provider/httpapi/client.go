// Package httpapi implements the provider boundary against the hosted
// identity/storage service's REST API (token-based auth endpoints plus
// table-oriented record endpoints).
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/recipeshare/server/internal/entities"
	"github.com/recipeshare/server/internal/provider"
)

const defaultTimeout = 30 * time.Second

// Client talks to the hosted provider. One instance is constructed at
// process start and shared; it holds no per-request state.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

var _ provider.Client = (*Client)(nil)

// NewClient creates a provider client for the given endpoint and public API
// key. Both values come from process environment and are validated at
// startup.
func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// sessionResponse is the provider's wire shape for an issued session.
type sessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         struct {
		ID        string    `json:"id"`
		Email     string    `json:"email"`
		CreatedAt time.Time `json:"created_at"`
	} `json:"user"`
}

func (r *sessionResponse) toSession() *entities.Session {
	expires := time.Unix(r.ExpiresAt, 0)
	if r.ExpiresAt == 0 {
		expires = time.Now().Add(time.Duration(r.ExpiresIn) * time.Second)
	}
	return &entities.Session{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    expires,
		Identity: entities.Identity{
			ID:       r.User.ID,
			Email:    r.User.Email,
			IssuedAt: r.User.CreatedAt,
		},
	}
}

// errorResponse is the provider's wire shape for a failed auth call.
type errorResponse struct {
	Message          string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (r *errorResponse) text() string {
	switch {
	case r.Message != "":
		return r.Message
	case r.ErrorDescription != "":
		return r.ErrorDescription
	default:
		return r.Error
	}
}

// SignIn exchanges an email/password pair for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*entities.Session, error) {
	body := map[string]string{"email": email, "password": password}
	resp, err := c.doJSON(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
		return nil, provider.ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.unexpectedStatus(resp)
	}

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return session.toSession(), nil
}

// SignUp registers a new account. The provider reports duplicates and weak
// passwords; both are translated into the shared taxonomy.
func (c *Client) SignUp(ctx context.Context, email, password string) (*entities.Session, error) {
	body := map[string]string{"email": email, "password": password}
	resp, err := c.doJSON(ctx, http.MethodPost, "/auth/v1/signup", "", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var session sessionResponse
		if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
			return nil, fmt.Errorf("failed to decode session: %w", err)
		}
		return session.toSession(), nil
	case http.StatusConflict:
		return nil, provider.ErrAccountExists
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		var apiErr errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		msg := apiErr.text()
		if strings.Contains(strings.ToLower(msg), "already registered") {
			return nil, provider.ErrAccountExists
		}
		if msg == "" {
			msg = "invalid sign-up request"
		}
		return nil, provider.NewValidationError("credentials", msg)
	default:
		return nil, c.unexpectedStatus(resp)
	}
}

// SignOut invalidates the session server-side. Any non-transport failure is
// swallowed: the token may already be gone, which is the desired end state.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	resp, err := c.doJSON(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return nil
}

// RefreshSession redeems a refresh token for a renewed session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*entities.Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	resp, err := c.doJSON(ctx, http.MethodPost, "/auth/v1/token?grant_type=refresh_token", "", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
		return nil, provider.ErrNoSession
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.unexpectedStatus(resp)
	}

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return session.toSession(), nil
}

// GetUser resolves the identity behind an access token.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*entities.Identity, error) {
	if accessToken == "" {
		return nil, provider.ErrNoSession
	}
	resp, err := c.doJSON(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		var apiErr errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if strings.Contains(strings.ToLower(apiErr.text()), "expired") {
			return nil, provider.ErrSessionExpired
		}
		return nil, provider.ErrNoSession
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.unexpectedStatus(resp)
	}

	var user struct {
		ID        string    `json:"id"`
		Email     string    `json:"email"`
		CreatedAt time.Time `json:"created_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return &entities.Identity{ID: user.ID, Email: user.Email, IssuedAt: user.CreatedAt}, nil
}

// doJSON performs one provider call. Transport failures wrap ErrNetwork so
// callers can branch on the taxonomy.
func (c *Client) doJSON(ctx context.Context, method, path, accessToken string, body any) (*http.Response, error) {
	return c.do(ctx, method, path, accessToken, body, "")
}

func (c *Client) do(ctx context.Context, method, path, accessToken string, body any, prefer string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", c.anonKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token := accessToken
	if token == "" {
		token = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrNetwork, err)
	}
	return resp, nil
}

func (c *Client) unexpectedStatus(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: provider returned %d: %s", provider.ErrNetwork, resp.StatusCode, string(body))
	}
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
}
