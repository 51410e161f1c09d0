// Package embedded implements the provider boundary on local SQLite storage.
//
// It exists so the application runs, and its tests run, without the hosted
// provider: same interfaces, same error taxonomy, state kept in the local
// database instead of behind a REST API.
package embedded

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"gorm.io/gorm"

	"github.com/recipeshare/server/internal/entities"
	"github.com/recipeshare/server/internal/provider"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Config controls token lifetimes and credential hashing.
type Config struct {
	BcryptCost      int
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	CleanupInterval time.Duration
}

// Provider is the embedded identity/storage provider.
type Provider struct {
	db       *gorm.DB
	sessions *sessionStore
	cfg      Config
}

var _ provider.Client = (*Provider)(nil)

// New creates an embedded provider. sqlDB must point at the same database as
// db; the session store keeps its rows there.
func New(db *gorm.DB, sqlDB *sql.DB, cfg Config) (*Provider, error) {
	if cfg.BcryptCost <= 0 {
		cfg.BcryptCost = 12
	}
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = time.Hour
	}
	if cfg.RefreshTokenTTL <= 0 {
		cfg.RefreshTokenTTL = 30 * 24 * time.Hour
	}

	sessions, err := newSessionStore(sqlDB, cfg.CleanupInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	return &Provider{db: db, sessions: sessions, cfg: cfg}, nil
}

// SignUp registers a new account and issues its first session.
func (p *Provider) SignUp(ctx context.Context, email, password string) (*entities.Session, error) {
	if email == "" {
		return nil, provider.NewValidationError("email", "email is required")
	}
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, provider.NewValidationError("email", "invalid email format")
	}

	var existing entities.Account
	err := p.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, provider.ErrAccountExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	hash, err := HashPassword(password, p.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	account := &entities.Account{
		ID:           newID(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := p.db.WithContext(ctx).Create(account).Error; err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return p.issueSession(account)
}

// SignIn exchanges credentials for a session.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*entities.Session, error) {
	var account entities.Account
	err := p.db.WithContext(ctx).Where("email = ?", email).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, provider.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	if err := CheckPassword(password, account.PasswordHash); err != nil {
		return nil, provider.ErrInvalidCredentials
	}

	return p.issueSession(&account)
}

// SignOut invalidates the session behind an access token. Unknown tokens are
// not an error: sign-out is idempotent from the caller's perspective.
func (p *Provider) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	rec, found, err := p.sessions.findByAccess(accessToken)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	return p.sessions.delete(rec)
}

// RefreshSession redeems a refresh token for a renewed session. The old
// token pair is consumed; redeeming it twice fails with ErrNoSession.
func (p *Provider) RefreshSession(ctx context.Context, refreshToken string) (*entities.Session, error) {
	if refreshToken == "" {
		return nil, provider.ErrNoSession
	}
	rec, found, err := p.sessions.findByRefresh(refreshToken)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, provider.ErrNoSession
	}

	var account entities.Account
	if err := p.db.WithContext(ctx).First(&account, "id = ?", rec.IdentityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = p.sessions.delete(rec)
			return nil, provider.ErrNoSession
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	// Rotate: consume the old pair before issuing the new one.
	if err := p.sessions.delete(rec); err != nil {
		return nil, err
	}

	return p.issueSession(&account)
}

// GetUser resolves the identity behind an access token.
func (p *Provider) GetUser(ctx context.Context, accessToken string) (*entities.Identity, error) {
	if accessToken == "" {
		return nil, provider.ErrNoSession
	}
	rec, found, err := p.sessions.findByAccess(accessToken)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, provider.ErrNoSession
	}
	if !time.Now().Before(rec.ExpiresAt) {
		return nil, provider.ErrSessionExpired
	}

	return &entities.Identity{
		ID:       rec.IdentityID,
		Email:    rec.Email,
		IssuedAt: rec.IssuedAt,
	}, nil
}

// PurgeExpiredSessions removes session rows whose refresh window has closed.
// Wired to the background cleanup task.
func (p *Provider) PurgeExpiredSessions() (int64, error) {
	return p.sessions.purgeExpired()
}

func (p *Provider) issueSession(account *entities.Account) (*entities.Session, error) {
	access, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now()
	rec := sessionRecord{
		AccessToken:  access,
		RefreshToken: refresh,
		IdentityID:   account.ID,
		Email:        account.Email,
		IssuedAt:     now,
		ExpiresAt:    now.Add(p.cfg.AccessTokenTTL),
	}
	if err := p.sessions.save(rec, now.Add(p.cfg.RefreshTokenTTL)); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return &entities.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    rec.ExpiresAt,
		Identity: entities.Identity{
			ID:       account.ID,
			Email:    account.Email,
			IssuedAt: now,
		},
	}, nil
}
