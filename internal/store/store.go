// Package store is the ownership-scoped data layer. Every content record is
// bound to exactly one owning identity; writes are accepted only when the
// acting identity owns the target. Reads are public.
//
// The store performs no I/O of its own: it gates calls to the provider's
// record surface. By the time a store method runs, the session gateway has
// already settled the request's identity, so ownership is never evaluated
// against a stale session.
package store

import (
	"context"
	"regexp"
	"strings"

	"github.com/recipeshare/server/internal/entities"
	"github.com/recipeshare/server/internal/provider"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)

// Store gates record writes behind ownership checks.
type Store struct {
	records provider.Records
}

// New creates an ownership-scoped store over the provider's record surface.
func New(records provider.Records) *Store {
	return &Store{records: records}
}

// RecipeInput carries the caller-supplied fields for a new recipe. There is
// deliberately no owner field: user_id always comes from the acting
// identity, so ownership spoofing is ignored rather than rejected.
type RecipeInput struct {
	Title        string  `form:"title" json:"title"`
	Description  *string `form:"description" json:"description"`
	Ingredients  string  `form:"ingredients" json:"ingredients"`
	Instructions string  `form:"instructions" json:"instructions"`
	CookingTime  *int    `form:"cooking_time" json:"cooking_time"`
	Difficulty   *string `form:"difficulty" json:"difficulty"`
	Category     string  `form:"category" json:"category"`
}

func (in *RecipeInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return provider.NewValidationError("title", "title is required")
	}
	if strings.TrimSpace(in.Ingredients) == "" {
		return provider.NewValidationError("ingredients", "ingredients are required")
	}
	if strings.TrimSpace(in.Instructions) == "" {
		return provider.NewValidationError("instructions", "instructions are required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return provider.NewValidationError("category", "category is required")
	}
	return nil
}

// CreateRecipe persists a new recipe owned by the acting identity.
func (s *Store) CreateRecipe(ctx context.Context, identity *entities.Identity, input RecipeInput) (*entities.Recipe, error) {
	if identity == nil {
		return nil, provider.ErrUnauthenticated
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	recipe := &entities.Recipe{
		UserID:       identity.ID,
		Title:        input.Title,
		Description:  input.Description,
		Ingredients:  input.Ingredients,
		Instructions: input.Instructions,
		CookingTime:  input.CookingTime,
		Difficulty:   input.Difficulty,
		Category:     input.Category,
	}
	if err := s.records.CreateRecipe(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// UpdateRecipe applies an update to a recipe the acting identity owns.
func (s *Store) UpdateRecipe(ctx context.Context, identity *entities.Identity, recipeID string, update provider.RecipeUpdate) (*entities.Recipe, error) {
	if identity == nil {
		return nil, provider.ErrUnauthenticated
	}

	existing, err := s.records.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != identity.ID {
		return nil, provider.ErrForbidden
	}

	if err := validateUpdate(update); err != nil {
		return nil, err
	}

	return s.records.UpdateRecipe(ctx, recipeID, update)
}

// DeleteRecipe removes a recipe the acting identity owns.
func (s *Store) DeleteRecipe(ctx context.Context, identity *entities.Identity, recipeID string) error {
	if identity == nil {
		return provider.ErrUnauthenticated
	}

	existing, err := s.records.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if existing.UserID != identity.ID {
		return provider.ErrForbidden
	}

	return s.records.DeleteRecipe(ctx, recipeID)
}

// CreateProfile creates the one-to-one profile for the acting identity.
// The profile id is pinned to the identity id; a second call for the same
// identity, or a username collision, fails with Conflict.
func (s *Store) CreateProfile(ctx context.Context, identity *entities.Identity, username string, fullName *string) (*entities.Profile, error) {
	if identity == nil {
		return nil, provider.ErrUnauthenticated
	}
	if !usernamePattern.MatchString(username) {
		return nil, provider.NewValidationError("username", "username must be 3-64 characters, alphanumeric with underscore/hyphen only")
	}

	profile := &entities.Profile{
		ID:       identity.ID,
		Username: username,
		FullName: fullName,
	}
	if err := s.records.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetRecipe is a public read; no ownership check applies.
func (s *Store) GetRecipe(ctx context.Context, recipeID string) (*entities.Recipe, error) {
	return s.records.GetRecipeByID(ctx, recipeID)
}

// ListRecipes is a public read; no ownership check applies.
func (s *Store) ListRecipes(ctx context.Context, filter provider.RecipeFilter) ([]entities.Recipe, int64, error) {
	return s.records.ListRecipes(ctx, filter)
}

// GetProfile is a public read; no ownership check applies.
func (s *Store) GetProfile(ctx context.Context, username string) (*entities.Profile, error) {
	return s.records.GetProfileByUsername(ctx, username)
}

// GetProfileByID is a public read keyed by identity id.
func (s *Store) GetProfileByID(ctx context.Context, id string) (*entities.Profile, error) {
	return s.records.GetProfileByID(ctx, id)
}

func validateUpdate(update provider.RecipeUpdate) error {
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return provider.NewValidationError("title", "title cannot be empty")
	}
	if update.Ingredients != nil && strings.TrimSpace(*update.Ingredients) == "" {
		return provider.NewValidationError("ingredients", "ingredients cannot be empty")
	}
	if update.Instructions != nil && strings.TrimSpace(*update.Instructions) == "" {
		return provider.NewValidationError("instructions", "instructions cannot be empty")
	}
	if update.Category != nil && strings.TrimSpace(*update.Category) == "" {
		return provider.NewValidationError("category", "category cannot be empty")
	}
	return nil
}
