package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/recipeshare/server/internal/entities"
)

// Context keys set by the gateway for downstream handlers.
const (
	ContextKeyIdentity    = "auth_identity"
	ContextKeyAccessToken = "auth_access_token"
)

// GetIdentity retrieves the authenticated identity from the Gin context.
// Returns nil for anonymous requests.
func GetIdentity(c *gin.Context) *entities.Identity {
	if v, exists := c.Get(ContextKeyIdentity); exists {
		if identity, ok := v.(*entities.Identity); ok {
			return identity
		}
	}
	return nil
}

// GetAccessToken retrieves the access token the gateway validated for this
// request. Empty for anonymous requests.
func GetAccessToken(c *gin.Context) string {
	if v, exists := c.Get(ContextKeyAccessToken); exists {
		if token, ok := v.(string); ok {
			return token
		}
	}
	return ""
}

// IsAuthenticated reports whether the request carries a resolved identity.
func IsAuthenticated(c *gin.Context) bool {
	return GetIdentity(c) != nil
}
