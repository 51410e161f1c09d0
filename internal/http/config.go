package http

import (
	"github.com/recipeshare/server/internal/audit"
	"github.com/recipeshare/server/internal/auth"
	"github.com/recipeshare/server/internal/database"
	"github.com/recipeshare/server/internal/provider"
	"github.com/recipeshare/server/internal/store"
	"github.com/recipeshare/server/internal/view"
)

// RouterConfig contains all dependencies and configuration needed to create
// the HTTP router. This replaces a long parameter list in NewRouter.
type RouterConfig struct {
	// Core dependencies
	Provider provider.Client
	Store    *store.Store
	Sessions *view.Controller
	Database *database.Database
	Auditor  *audit.Service

	// Authentication
	Cookies     auth.CookieConfig
	CSRFSecret  []byte
	RateLimiter *auth.RateLimiter

	// UI paths
	TemplatesPath string
	StaticPath    string

	// Application info
	Version string
}
