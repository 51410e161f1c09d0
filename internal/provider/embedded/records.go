package embedded

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"github.com/recipeshare/server/internal/entities"
	"github.com/recipeshare/server/internal/provider"
)

func newID() string {
	return uuid.New().String()
}

// isUniqueViolation reports whether err is a SQLite unique or primary key
// constraint failure. The pre-insert existence check cannot see a concurrent
// insert, so the constraint error maps to the same Conflict.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
		se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// CreateProfile inserts a profile record. Uniqueness of both the id and the
// username maps to ErrConflict.
func (p *Provider) CreateProfile(ctx context.Context, profile *entities.Profile) error {
	var existing entities.Profile
	err := p.db.WithContext(ctx).Where("id = ? OR username = ?", profile.ID, profile.Username).First(&existing).Error
	if err == nil {
		return provider.ErrConflict
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check existing profile: %w", err)
	}

	if err := p.db.WithContext(ctx).Create(profile).Error; err != nil {
		if isUniqueViolation(err) {
			return provider.ErrConflict
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (p *Provider) GetProfileByID(ctx context.Context, id string) (*entities.Profile, error) {
	var profile entities.Profile
	err := p.db.WithContext(ctx).First(&profile, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, provider.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (p *Provider) GetProfileByUsername(ctx context.Context, username string) (*entities.Profile, error) {
	var profile entities.Profile
	err := p.db.WithContext(ctx).Where("username = ?", username).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, provider.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (p *Provider) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	if recipe.ID == "" {
		recipe.ID = newID()
	}
	if err := p.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	return nil
}

func (p *Provider) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	err := p.db.WithContext(ctx).First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, provider.ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (p *Provider) ListRecipes(ctx context.Context, filter provider.RecipeFilter) ([]entities.Recipe, int64, error) {
	var recipes []entities.Recipe
	var total int64

	query := p.db.WithContext(ctx).Model(&entities.Recipe{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	if err := query.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// UpdateRecipe applies the non-nil fields and returns the updated record.
// user_id is never part of the update set.
func (p *Provider) UpdateRecipe(ctx context.Context, id string, update provider.RecipeUpdate) (*entities.Recipe, error) {
	updates := map[string]any{}
	if update.Title != nil {
		updates["title"] = *update.Title
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.Ingredients != nil {
		updates["ingredients"] = *update.Ingredients
	}
	if update.Instructions != nil {
		updates["instructions"] = *update.Instructions
	}
	if update.CookingTime != nil {
		updates["cooking_time"] = *update.CookingTime
	}
	if update.Difficulty != nil {
		updates["difficulty"] = *update.Difficulty
	}
	if update.Category != nil {
		updates["category"] = *update.Category
	}

	if len(updates) > 0 {
		result := p.db.WithContext(ctx).Model(&entities.Recipe{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to update recipe: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, provider.ErrNotFound
		}
	}

	return p.GetRecipeByID(ctx, id)
}

func (p *Provider) DeleteRecipe(ctx context.Context, id string) error {
	result := p.db.WithContext(ctx).Delete(&entities.Recipe{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete recipe: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return provider.ErrNotFound
	}
	return nil
}
