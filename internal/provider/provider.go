// Package provider defines the boundary to the identity/storage provider.
//
// The rest of the application depends only on the interfaces and error
// taxonomy declared here. Two implementations exist:
//
//   - httpapi: client for the hosted provider's REST API
//   - embedded: self-hosted provider backed by SQLite, used for development,
//     tests, and single-box deployments
//
// The client is constructed once at process start and injected everywhere it
// is needed; nothing in the application re-initializes it.
package provider

import (
	"context"

	"github.com/recipeshare/server/internal/entities"
)

// Authenticator is the credential client: the thin call boundary to the
// identity provider's auth operations. All methods are network (or local
// storage) calls; none retain state between calls.
type Authenticator interface {
	// SignIn exchanges an email/password pair for a Session.
	// Fails with ErrInvalidCredentials or ErrNetwork.
	SignIn(ctx context.Context, email, password string) (*entities.Session, error)

	// SignUp registers a new account and returns its first Session.
	// No Profile is created here. Fails with ErrAccountExists, a
	// ValidationError (weak password, bad email), or ErrNetwork.
	SignUp(ctx context.Context, email, password string) (*entities.Session, error)

	// SignOut invalidates the session server-side. Fails with ErrNetwork
	// only; callers must clear local session state regardless of the result.
	SignOut(ctx context.Context, accessToken string) error

	// RefreshSession redeems a refresh token for a renewed Session.
	// Fails with ErrNoSession when the token is unknown or already consumed,
	// or ErrNetwork.
	RefreshSession(ctx context.Context, refreshToken string) (*entities.Session, error)

	// GetUser resolves the Identity behind an access token. Returns
	// ErrNoSession for an absent/unknown token and ErrSessionExpired for a
	// stale one; ErrNetwork on transport failure.
	GetUser(ctx context.Context, accessToken string) (*entities.Identity, error)
}

// RecipeUpdate carries the mutable recipe fields for an update. Nil fields
// are left untouched. UserID is deliberately absent: ownership is never
// accepted from caller input.
type RecipeUpdate struct {
	Title        *string
	Description  *string
	Ingredients  *string
	Instructions *string
	CookingTime  *int
	Difficulty   *string
	Category     *string
}

// RecipeFilter narrows ListRecipes results.
type RecipeFilter struct {
	Category string
	UserID   string
	Limit    int
	Offset   int
}

// Records is the raw record CRUD surface of the provider. It performs no
// authorization; ownership checks belong to the store layer sitting on top.
type Records interface {
	CreateProfile(ctx context.Context, profile *entities.Profile) error
	GetProfileByID(ctx context.Context, id string) (*entities.Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*entities.Profile, error)

	CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
	GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
	ListRecipes(ctx context.Context, filter RecipeFilter) ([]entities.Recipe, int64, error)
	UpdateRecipe(ctx context.Context, id string, update RecipeUpdate) (*entities.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
}

// Client bundles the two provider surfaces behind one dependency.
type Client interface {
	Authenticator
	Records
}
