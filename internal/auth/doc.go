// Package auth implements the session gateway and the authentication HTTP
// endpoints.
//
// The gateway middleware runs on every request before any handler reads
// identity. It decodes the session cookie (or a Bearer access token),
// validates the session against the identity provider, performs at most one
// refresh per request for an expired-but-refreshable session, and attaches
// the resolved identity to the request context. A request without a usable
// session proceeds anonymously; handlers decide whether that is acceptable.
//
// # Usage
//
// Initialize in entrypoint:
//
//	gateway := auth.NewGateway(providerClient, cookieCfg, auditService)
//	router.Use(gateway.Handler())
//
// Extract identity in handlers:
//
//	identity := auth.GetIdentity(c) // nil when anonymous
package auth
