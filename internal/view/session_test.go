package view

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipeshare/server/internal/entities"
	"github.com/recipeshare/server/internal/provider"
)

type stubAuthenticator struct {
	identity   *entities.Identity
	getUserErr error
	signOutErr error

	signOutCalls int
}

func (s *stubAuthenticator) SignIn(ctx context.Context, email, password string) (*entities.Session, error) {
	return nil, provider.ErrInvalidCredentials
}

func (s *stubAuthenticator) SignUp(ctx context.Context, email, password string) (*entities.Session, error) {
	return nil, provider.ErrNetwork
}

func (s *stubAuthenticator) SignOut(ctx context.Context, accessToken string) error {
	s.signOutCalls++
	return s.signOutErr
}

func (s *stubAuthenticator) RefreshSession(ctx context.Context, refreshToken string) (*entities.Session, error) {
	return nil, provider.ErrNoSession
}

func (s *stubAuthenticator) GetUser(ctx context.Context, accessToken string) (*entities.Identity, error) {
	if s.getUserErr != nil {
		return nil, s.getUserErr
	}
	return s.identity, nil
}

func TestController_InitialStateIsLoading(t *testing.T) {
	vc := NewController(&stubAuthenticator{})

	view := vc.Current()
	assert.Equal(t, StateLoading, view.State)
	assert.Nil(t, view.Identity)
}

func TestController_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("authenticated", func(t *testing.T) {
		vc := NewController(&stubAuthenticator{identity: &entities.Identity{ID: "user-1"}})

		view := vc.Load(ctx, "token-1")
		assert.Equal(t, StateAuthenticated, view.State)
		require.NotNil(t, view.Identity)
		assert.Equal(t, "user-1", view.Identity.ID)
		assert.Equal(t, view, vc.Current())
	})

	t.Run("no token resolves to anonymous not loading", func(t *testing.T) {
		vc := NewController(&stubAuthenticator{})

		view := vc.Load(ctx, "")
		assert.Equal(t, StateAnonymous, view.State)
		assert.Nil(t, view.Identity)
	})

	t.Run("expired session resolves to anonymous", func(t *testing.T) {
		vc := NewController(&stubAuthenticator{getUserErr: provider.ErrSessionExpired})

		view := vc.Load(ctx, "token-1")
		assert.Equal(t, StateAnonymous, view.State)
	})

	t.Run("network error resolves to anonymous, never a stale authenticated view", func(t *testing.T) {
		stub := &stubAuthenticator{identity: &entities.Identity{ID: "user-1"}}
		vc := NewController(stub)

		view := vc.Load(ctx, "token-1")
		require.Equal(t, StateAuthenticated, view.State)

		stub.getUserErr = provider.ErrNetwork
		view = vc.Load(ctx, "token-1")
		assert.Equal(t, StateAnonymous, view.State)
		assert.Nil(t, view.Identity)
		assert.Equal(t, StateAnonymous, vc.Current().State)
	})
}

func TestController_SignOut(t *testing.T) {
	ctx := context.Background()

	t.Run("clears state", func(t *testing.T) {
		stub := &stubAuthenticator{identity: &entities.Identity{ID: "user-1"}}
		vc := NewController(stub)
		vc.Load(ctx, "token-1")

		view := vc.SignOut(ctx, "token-1")
		assert.Equal(t, StateAnonymous, view.State)
		assert.Equal(t, 1, stub.signOutCalls)
	})

	t.Run("remote failure still clears local state", func(t *testing.T) {
		stub := &stubAuthenticator{
			identity:   &entities.Identity{ID: "user-1"},
			signOutErr: provider.ErrNetwork,
		}
		vc := NewController(stub)
		vc.Load(ctx, "token-1")

		view := vc.SignOut(ctx, "token-1")
		assert.Equal(t, StateAnonymous, view.State)
		assert.Equal(t, StateAnonymous, vc.Current().State)
	})

	t.Run("no token skips the provider call", func(t *testing.T) {
		stub := &stubAuthenticator{}
		vc := NewController(stub)

		view := vc.SignOut(ctx, "")
		assert.Equal(t, StateAnonymous, view.State)
		assert.Zero(t, stub.signOutCalls)
	})
}
