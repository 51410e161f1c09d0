package http

import (
	"html/template"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/recipeshare/server/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before the session gateway so the gateway sees the
	// request csrf has already wrapped
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.Cookies.Secure))
	}

	// Session gateway: resolves, refreshes or tears down the session on
	// every request. Never aborts; unauthenticated requests pass through
	// anonymous.
	gateway := auth.NewGateway(cfg.Provider, cfg.Cookies, cfg.Auditor)
	router.Use(gateway.Handler())

	// Load HTML templates when present; API-only deployments run without.
	tmpl, err := template.ParseGlob(cfg.TemplatesPath + "/*.html")
	if err == nil {
		router.SetHTMLTemplate(tmpl)
	} else {
		log.Printf("HTML templates unavailable (%v), serving API only", err)
	}

	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	// Credential endpoints (login, signup, logout)
	authController := auth.NewController(cfg.Provider, cfg.Cookies, cfg.TemplatesPath, cfg.RateLimiter, cfg.Auditor)
	authController.RegisterRoutes(router)

	// Create controllers with appropriate interfaces
	health := NewHealthController(cfg.Database, cfg.Version)
	recipes := NewRecipesController(cfg.Store, cfg.Auditor)
	profiles := NewProfilesController(cfg.Store)
	ui := NewUIController(cfg.Store, cfg.Sessions)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Session view
	router.GET("/api/session", ui.Session)
	if err == nil {
		router.GET("/", ui.Home)
	}

	// Recipe endpoints; reads are public, writes ownership-gated
	router.GET("/api/recipes", recipes.ListRecipes)
	router.GET("/api/recipes/:id", recipes.GetRecipe)
	router.POST("/api/recipes", recipes.CreateRecipe)
	router.PATCH("/api/recipes/:id", recipes.UpdateRecipe)
	router.DELETE("/api/recipes/:id", recipes.DeleteRecipe)

	// Profile endpoints
	router.POST("/api/profile", profiles.CreateProfile)
	router.GET("/api/profile", profiles.GetCurrentProfile)
	router.GET("/api/profiles/:username", profiles.GetProfile)

	return router
}
