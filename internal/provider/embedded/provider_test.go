package embedded

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/recipeshare/server/internal/entities"
	"github.com/recipeshare/server/internal/provider"
)

func setupTestProvider(t *testing.T, cfg Config) *Provider {
	t.Helper()

	// File-backed database: the session store opens its own pool
	// connections, which in-memory SQLite would not share.
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&entities.Account{}, &entities.Profile{}, &entities.Recipe{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 4 // keep the tests fast
	}
	p, err := New(db, sqlDB, cfg)
	require.NoError(t, err)
	return p
}

func TestProvider_SignUp(t *testing.T) {
	p := setupTestProvider(t, Config{})
	ctx := context.Background()

	session, err := p.SignUp(ctx, "alice@example.com", "pw123456")
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.NotEmpty(t, session.Identity.ID)
	assert.Equal(t, "alice@example.com", session.Identity.Email)
	assert.True(t, session.Valid(time.Now()))

	t.Run("duplicate email", func(t *testing.T) {
		_, err := p.SignUp(ctx, "alice@example.com", "pw123456")
		assert.ErrorIs(t, err, provider.ErrAccountExists)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := p.SignUp(ctx, "not-an-email", "pw123456")
		assert.True(t, provider.IsValidation(err))
	})

	t.Run("missing email", func(t *testing.T) {
		_, err := p.SignUp(ctx, "", "pw123456")
		assert.True(t, provider.IsValidation(err))
	})

	t.Run("short password", func(t *testing.T) {
		_, err := p.SignUp(ctx, "bob@example.com", "short")
		assert.True(t, provider.IsValidation(err))
	})
}

func TestProvider_SignIn(t *testing.T) {
	p := setupTestProvider(t, Config{})
	ctx := context.Background()

	_, err := p.SignUp(ctx, "alice@example.com", "pw123456")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		session, err := p.SignIn(ctx, "alice@example.com", "pw123456")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", session.Identity.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := p.SignIn(ctx, "alice@example.com", "wrong-password")
		assert.ErrorIs(t, err, provider.ErrInvalidCredentials)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := p.SignIn(ctx, "nobody@example.com", "pw123456")
		assert.ErrorIs(t, err, provider.ErrInvalidCredentials)
	})
}

func TestProvider_GetUser(t *testing.T) {
	p := setupTestProvider(t, Config{})
	ctx := context.Background()

	session, err := p.SignUp(ctx, "alice@example.com", "pw123456")
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		identity, err := p.GetUser(ctx, session.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, session.Identity.ID, identity.ID)
		assert.Equal(t, "alice@example.com", identity.Email)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := p.GetUser(ctx, "")
		assert.ErrorIs(t, err, provider.ErrNoSession)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := p.GetUser(ctx, "deadbeef")
		assert.ErrorIs(t, err, provider.ErrNoSession)
	})
}

func TestProvider_GetUser_Expired(t *testing.T) {
	p := setupTestProvider(t, Config{AccessTokenTTL: time.Millisecond})
	ctx := context.Background()

	session, err := p.SignUp(ctx, "alice@example.com", "pw123456")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = p.GetUser(ctx, session.AccessToken)
	assert.ErrorIs(t, err, provider.ErrSessionExpired)
}

func TestProvider_RefreshSession(t *testing.T) {
	p := setupTestProvider(t, Config{})
	ctx := context.Background()

	session, err := p.SignUp(ctx, "alice@example.com", "pw123456")
	require.NoError(t, err)

	renewed, err := p.RefreshSession(ctx, session.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, session.Identity.ID, renewed.Identity.ID)
	assert.NotEqual(t, session.AccessToken, renewed.AccessToken)
	assert.NotEqual(t, session.RefreshToken, renewed.RefreshToken)

	t.Run("consumed token cannot be redeemed again", func(t *testing.T) {
		_, err := p.RefreshSession(ctx, session.RefreshToken)
		assert.ErrorIs(t, err, provider.ErrNoSession)
	})

	t.Run("old access token no longer resolves", func(t *testing.T) {
		_, err := p.GetUser(ctx, session.AccessToken)
		assert.ErrorIs(t, err, provider.ErrNoSession)
	})

	t.Run("renewed session works", func(t *testing.T) {
		identity, err := p.GetUser(ctx, renewed.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, session.Identity.ID, identity.ID)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := p.RefreshSession(ctx, "")
		assert.ErrorIs(t, err, provider.ErrNoSession)
	})
}

func TestProvider_SignOut(t *testing.T) {
	p := setupTestProvider(t, Config{})
	ctx := context.Background()

	session, err := p.SignUp(ctx, "alice@example.com", "pw123456")
	require.NoError(t, err)

	require.NoError(t, p.SignOut(ctx, session.AccessToken))

	_, err = p.GetUser(ctx, session.AccessToken)
	assert.ErrorIs(t, err, provider.ErrNoSession)

	_, err = p.RefreshSession(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, provider.ErrNoSession)

	t.Run("idempotent", func(t *testing.T) {
		assert.NoError(t, p.SignOut(ctx, session.AccessToken))
		assert.NoError(t, p.SignOut(ctx, ""))
	})
}

func TestProvider_PurgeExpiredSessions(t *testing.T) {
	p := setupTestProvider(t, Config{
		AccessTokenTTL:  time.Millisecond,
		RefreshTokenTTL: 10 * time.Millisecond,
	})
	ctx := context.Background()

	_, err := p.SignUp(ctx, "alice@example.com", "pw123456")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	deleted, err := p.PurgeExpiredSessions()
	require.NoError(t, err)
	// Two rows per session: one per token.
	assert.Equal(t, int64(2), deleted)
}
