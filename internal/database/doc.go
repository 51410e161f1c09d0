// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations
//	└── audit/           # Auth event audit trail
//
// The accounts, profiles, recipes and sessions tables are owned by the
// embedded provider (internal/provider/embedded), which talks to the same
// connection. In hosted provider mode only the audit trail lives here.
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./app.db")
//
//	// Create domain-specific repositories
//	auditRepo := audit.NewRepository(db.DB)
//
// # Adding a New Domain
//
// To add a new domain (e.g., favourites):
//
//  1. Create a new sub-package: internal/database/favourites/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Implement the required interface
//  5. Add compile-time interface check: var _ SomeInterface = (*Repository)(nil)
package database
