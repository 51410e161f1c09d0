package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/recipeshare/server/internal/entities"
	"github.com/recipeshare/server/internal/provider"
)

// Record endpoints follow the provider's table-oriented REST conventions:
// /rest/v1/<table> with eq. filters, Prefer headers for representation and
// exact counts, and Content-Range for totals.

// profileInsert is the insert payload: only caller-owned columns, so the
// provider defaults the timestamps.
type profileInsert struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	FullName *string `json:"full_name,omitempty"`
}

// recipeInsert mirrors profileInsert for recipes; id and created_at are the
// provider's to assign.
type recipeInsert struct {
	UserID       string  `json:"user_id"`
	Title        string  `json:"title"`
	Description  *string `json:"description,omitempty"`
	Ingredients  string  `json:"ingredients"`
	Instructions string  `json:"instructions"`
	CookingTime  *int    `json:"cooking_time,omitempty"`
	Difficulty   *string `json:"difficulty,omitempty"`
	Category     string  `json:"category"`
}

func (c *Client) CreateProfile(ctx context.Context, profile *entities.Profile) error {
	body := profileInsert{
		ID:       profile.ID,
		Username: profile.Username,
		FullName: profile.FullName,
	}
	resp, err := c.doRecords(ctx, http.MethodPost, "/rest/v1/profiles", nil, body, "return=representation")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusOK:
		var rows []entities.Profile
		if err := json.NewDecoder(resp.Body).Decode(&rows); err == nil && len(rows) > 0 {
			*profile = rows[0]
		}
		return nil
	case http.StatusConflict:
		return provider.ErrConflict
	default:
		return c.unexpectedStatus(resp)
	}
}

func (c *Client) GetProfileByID(ctx context.Context, id string) (*entities.Profile, error) {
	return c.getProfile(ctx, url.Values{"id": {"eq." + id}})
}

func (c *Client) GetProfileByUsername(ctx context.Context, username string) (*entities.Profile, error) {
	return c.getProfile(ctx, url.Values{"username": {"eq." + username}})
}

func (c *Client) getProfile(ctx context.Context, query url.Values) (*entities.Profile, error) {
	resp, err := c.doRecords(ctx, http.MethodGet, "/rest/v1/profiles", query, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.unexpectedStatus(resp)
	}

	var rows []entities.Profile
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}
	if len(rows) == 0 {
		return nil, provider.ErrNotFound
	}
	return &rows[0], nil
}

func (c *Client) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	body := recipeInsert{
		UserID:       recipe.UserID,
		Title:        recipe.Title,
		Description:  recipe.Description,
		Ingredients:  recipe.Ingredients,
		Instructions: recipe.Instructions,
		CookingTime:  recipe.CookingTime,
		Difficulty:   recipe.Difficulty,
		Category:     recipe.Category,
	}
	resp, err := c.doRecords(ctx, http.MethodPost, "/rest/v1/recipes", nil, body, "return=representation")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return c.unexpectedStatus(resp)
	}

	var rows []entities.Recipe
	if err := json.NewDecoder(resp.Body).Decode(&rows); err == nil && len(rows) > 0 {
		*recipe = rows[0]
	}
	return nil
}

func (c *Client) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	query := url.Values{"id": {"eq." + id}}
	resp, err := c.doRecords(ctx, http.MethodGet, "/rest/v1/recipes", query, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.unexpectedStatus(resp)
	}

	var rows []entities.Recipe
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}
	if len(rows) == 0 {
		return nil, provider.ErrNotFound
	}
	return &rows[0], nil
}

func (c *Client) ListRecipes(ctx context.Context, filter provider.RecipeFilter) ([]entities.Recipe, int64, error) {
	query := url.Values{"order": {"created_at.desc"}}
	if filter.Category != "" {
		query.Set("category", "eq."+filter.Category)
	}
	if filter.UserID != "" {
		query.Set("user_id", "eq."+filter.UserID)
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Offset > 0 {
		query.Set("offset", strconv.Itoa(filter.Offset))
	}

	resp, err := c.doRecords(ctx, http.MethodGet, "/rest/v1/recipes", query, nil, "count=exact")
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, 0, c.unexpectedStatus(resp)
	}

	var rows []entities.Recipe
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, 0, fmt.Errorf("failed to decode recipes: %w", err)
	}

	total := int64(len(rows))
	// Content-Range: "0-9/42" when count=exact was requested.
	if cr := resp.Header.Get("Content-Range"); cr != "" {
		if idx := strings.LastIndex(cr, "/"); idx >= 0 && cr[idx+1:] != "*" {
			if n, err := strconv.ParseInt(cr[idx+1:], 10, 64); err == nil {
				total = n
			}
		}
	}
	return rows, total, nil
}

func (c *Client) UpdateRecipe(ctx context.Context, id string, update provider.RecipeUpdate) (*entities.Recipe, error) {
	body := map[string]any{}
	if update.Title != nil {
		body["title"] = *update.Title
	}
	if update.Description != nil {
		body["description"] = *update.Description
	}
	if update.Ingredients != nil {
		body["ingredients"] = *update.Ingredients
	}
	if update.Instructions != nil {
		body["instructions"] = *update.Instructions
	}
	if update.CookingTime != nil {
		body["cooking_time"] = *update.CookingTime
	}
	if update.Difficulty != nil {
		body["difficulty"] = *update.Difficulty
	}
	if update.Category != nil {
		body["category"] = *update.Category
	}
	if len(body) == 0 {
		return c.GetRecipeByID(ctx, id)
	}

	query := url.Values{"id": {"eq." + id}}
	resp, err := c.doRecords(ctx, http.MethodPatch, "/rest/v1/recipes", query, body, "return=representation")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.unexpectedStatus(resp)
	}

	var rows []entities.Recipe
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}
	if len(rows) == 0 {
		return nil, provider.ErrNotFound
	}
	return &rows[0], nil
}

func (c *Client) DeleteRecipe(ctx context.Context, id string) error {
	query := url.Values{"id": {"eq." + id}}
	resp, err := c.doRecords(ctx, http.MethodDelete, "/rest/v1/recipes", query, nil, "return=representation")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return c.unexpectedStatus(resp)
	}

	var rows []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&rows); err == nil && len(rows) == 0 {
		return provider.ErrNotFound
	}
	return nil
}

func (c *Client) doRecords(ctx context.Context, method, path string, query url.Values, body any, prefer string) (*http.Response, error) {
	full := path
	if len(query) > 0 {
		full = path + "?" + query.Encode()
	}
	return c.do(ctx, method, full, "", body, prefer)
}
