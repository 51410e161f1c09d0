package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recipeshare/server/internal/auth"
	"github.com/recipeshare/server/internal/provider"
	"github.com/recipeshare/server/internal/store"
	"github.com/recipeshare/server/internal/view"
)

// UIController renders the home page and exposes the session view used by
// clients to decide between the loading, authenticated and anonymous states.
type UIController struct {
	store    *store.Store
	sessions *view.Controller
}

func NewUIController(s *store.Store, sessions *view.Controller) *UIController {
	return &UIController{store: s, sessions: sessions}
}

// Session handles GET /api/session. The response always carries a state so
// clients never have to infer it from an absent identity.
func (u *UIController) Session(c *gin.Context) {
	sv := u.sessions.Load(c.Request.Context(), auth.GetAccessToken(c))
	c.JSON(http.StatusOK, sv)
}

// Home handles GET /. Recent recipes plus the viewer's session state.
func (u *UIController) Home(c *gin.Context) {
	sv := u.sessions.Load(c.Request.Context(), auth.GetAccessToken(c))

	recipes, total, err := u.store.ListRecipes(c.Request.Context(), provider.RecipeFilter{Limit: 20})
	if err != nil {
		log.Printf("Failed to list recipes for home page: %v", err)
		recipes = nil
		total = 0
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Session":   sv,
		"Recipes":   recipes,
		"Total":     total,
		"CSRFToken": auth.GetCSRFToken(c),
	})
}
