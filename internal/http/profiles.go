package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recipeshare/server/internal/auth"
	"github.com/recipeshare/server/internal/store"
)

// ProfilesController handles profile creation and public lookups.
type ProfilesController struct {
	store *store.Store
}

func NewProfilesController(s *store.Store) *ProfilesController {
	return &ProfilesController{store: s}
}

type profileForm struct {
	Username string  `form:"username" json:"username"`
	FullName *string `form:"full_name" json:"full_name"`
}

// CreateProfile handles POST /api/profile. The profile id is always the
// acting identity's id, so an identity can hold at most one profile.
func (pc *ProfilesController) CreateProfile(c *gin.Context) {
	identity := auth.GetIdentity(c)
	if identity == nil {
		respondUnauthenticated(c)
		return
	}

	var form profileForm
	if err := c.ShouldBind(&form); err != nil {
		respondBadRequest(c, "invalid profile payload")
		return
	}

	profile, err := pc.store.CreateProfile(c.Request.Context(), identity, form.Username, form.FullName)
	if err != nil {
		respondProviderError(c, err, "create profile")
		return
	}
	respondCreated(c, profile)
}

// GetCurrentProfile handles GET /api/profile for the signed-in identity.
func (pc *ProfilesController) GetCurrentProfile(c *gin.Context) {
	identity := auth.GetIdentity(c)
	if identity == nil {
		respondUnauthenticated(c)
		return
	}

	profile, err := pc.store.GetProfileByID(c.Request.Context(), identity.ID)
	if err != nil {
		respondProviderError(c, err, "get current profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetProfile handles GET /api/profiles/:username. Public.
func (pc *ProfilesController) GetProfile(c *gin.Context) {
	profile, err := pc.store.GetProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondProviderError(c, err, "get profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}
