package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recipeshare/server/internal/auth"
	"github.com/recipeshare/server/internal/provider"
	"github.com/recipeshare/server/internal/store"
)

// WriteDenialRecorder records rejected mutations for the audit trail.
type WriteDenialRecorder interface {
	RecordWriteDenied(identityID, entityType, entityID, ip string)
}

// RecipesController exposes recipe CRUD. Reads are public; writes require an
// authenticated identity and are gated on ownership by the store.
type RecipesController struct {
	store   *store.Store
	auditor WriteDenialRecorder
}

func NewRecipesController(s *store.Store, auditor WriteDenialRecorder) *RecipesController {
	return &RecipesController{store: s, auditor: auditor}
}

// recipeUpdateForm mirrors provider.RecipeUpdate for request binding. Every
// field is optional; absent fields are left untouched.
type recipeUpdateForm struct {
	Title        *string `form:"title" json:"title"`
	Description  *string `form:"description" json:"description"`
	Ingredients  *string `form:"ingredients" json:"ingredients"`
	Instructions *string `form:"instructions" json:"instructions"`
	CookingTime  *int    `form:"cooking_time" json:"cooking_time"`
	Difficulty   *string `form:"difficulty" json:"difficulty"`
	Category     *string `form:"category" json:"category"`
}

func (f *recipeUpdateForm) toUpdate() provider.RecipeUpdate {
	return provider.RecipeUpdate{
		Title:        f.Title,
		Description:  f.Description,
		Ingredients:  f.Ingredients,
		Instructions: f.Instructions,
		CookingTime:  f.CookingTime,
		Difficulty:   f.Difficulty,
		Category:     f.Category,
	}
}

// ListRecipes handles GET /api/recipes. Optional filters: category, user_id.
func (rc *RecipesController) ListRecipes(c *gin.Context) {
	limit, offset := parsePagination(c)
	filter := provider.RecipeFilter{
		Category: c.Query("category"),
		UserID:   c.Query("user_id"),
		Limit:    limit,
		Offset:   offset,
	}

	recipes, total, err := rc.store.ListRecipes(c.Request.Context(), filter)
	if err != nil {
		respondProviderError(c, err, "list recipes")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    recipes,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(recipes)) < total,
	})
}

// GetRecipe handles GET /api/recipes/:id.
func (rc *RecipesController) GetRecipe(c *gin.Context) {
	recipe, err := rc.store.GetRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondProviderError(c, err, "get recipe")
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// CreateRecipe handles POST /api/recipes.
func (rc *RecipesController) CreateRecipe(c *gin.Context) {
	identity := auth.GetIdentity(c)
	if identity == nil {
		respondUnauthenticated(c)
		return
	}

	var input store.RecipeInput
	if err := c.ShouldBind(&input); err != nil {
		respondBadRequest(c, "invalid recipe payload")
		return
	}

	recipe, err := rc.store.CreateRecipe(c.Request.Context(), identity, input)
	if err != nil {
		respondProviderError(c, err, "create recipe")
		return
	}
	respondCreated(c, recipe)
}

// UpdateRecipe handles PATCH /api/recipes/:id.
func (rc *RecipesController) UpdateRecipe(c *gin.Context) {
	identity := auth.GetIdentity(c)
	if identity == nil {
		respondUnauthenticated(c)
		return
	}

	var form recipeUpdateForm
	if err := c.ShouldBind(&form); err != nil {
		respondBadRequest(c, "invalid recipe payload")
		return
	}

	recipeID := c.Param("id")
	recipe, err := rc.store.UpdateRecipe(c.Request.Context(), identity, recipeID, form.toUpdate())
	if err != nil {
		rc.recordDenial(c, identity.ID, recipeID, err)
		respondProviderError(c, err, "update recipe")
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// DeleteRecipe handles DELETE /api/recipes/:id.
func (rc *RecipesController) DeleteRecipe(c *gin.Context) {
	identity := auth.GetIdentity(c)
	if identity == nil {
		respondUnauthenticated(c)
		return
	}

	recipeID := c.Param("id")
	if err := rc.store.DeleteRecipe(c.Request.Context(), identity, recipeID); err != nil {
		rc.recordDenial(c, identity.ID, recipeID, err)
		respondProviderError(c, err, "delete recipe")
		return
	}
	c.Status(http.StatusNoContent)
}

func (rc *RecipesController) recordDenial(c *gin.Context, identityID, recipeID string, err error) {
	if rc.auditor == nil || !errors.Is(err, provider.ErrForbidden) {
		return
	}
	rc.auditor.RecordWriteDenied(identityID, "recipe", recipeID, c.ClientIP())
}
