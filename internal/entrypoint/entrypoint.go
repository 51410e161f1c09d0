package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/recipeshare/server/internal/audit"
	"github.com/recipeshare/server/internal/auth"
	"github.com/recipeshare/server/internal/config"
	"github.com/recipeshare/server/internal/database"
	auditdb "github.com/recipeshare/server/internal/database/audit"
	http_controllers "github.com/recipeshare/server/internal/http"
	"github.com/recipeshare/server/internal/provider"
	"github.com/recipeshare/server/internal/provider/embedded"
	"github.com/recipeshare/server/internal/provider/httpapi"
	"github.com/recipeshare/server/internal/scheduler"
	"github.com/recipeshare/server/internal/store"
	"github.com/recipeshare/server/internal/tasks"
	"github.com/recipeshare/server/internal/view"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (stop scheduler and task queue before
	// the HTTP listener so in-flight enqueues still land)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting RecipeShare v%s", version)

	// Initialize database. The embedded provider, the audit trail and the
	// session store all live here; in hosted mode only the audit trail does.
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Auth event audit trail
	auditRepo := auditdb.NewRepository(db.DB)
	auditor := audit.NewService(auditRepo)

	// Provider selection: hosted external service or embedded local accounts
	var client provider.Client
	var embeddedProvider *embedded.Provider
	switch cfg.Provider.Mode {
	case config.ProviderModeHosted:
		if cfg.Provider.URL == "" || cfg.Provider.AnonKey == "" {
			log.Fatalf("Provider mode 'hosted' requires PROVIDER_URL and PROVIDER_ANON_KEY")
		}
		log.Printf("Provider mode: hosted (%s)", cfg.Provider.URL)
		client = httpapi.NewClient(cfg.Provider.URL, cfg.Provider.AnonKey)
	case config.ProviderModeEmbedded, "":
		log.Printf("Provider mode: embedded")
		sqlDB, err := db.SQLDB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}
		embeddedProvider, err = embedded.New(db.DB, sqlDB, embedded.Config{
			BcryptCost:      cfg.Auth.BcryptCost,
			AccessTokenTTL:  cfg.Auth.SessionLifetime,
			RefreshTokenTTL: cfg.Auth.RefreshLifetime,
		})
		if err != nil {
			log.Fatalf("Failed to initialize embedded provider: %v", err)
		}
		client = embeddedProvider
	default:
		log.Fatalf("Unknown provider mode %q (expected 'embedded' or 'hosted')", cfg.Provider.Mode)
	}

	// Ownership-enforcing store over the provider's record surface
	recordStore := store.New(client)

	// Session view shared with the UI endpoints
	sessions := view.NewController(client)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var maintenance *scheduler.MaintenanceScheduler
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		// Session purging only applies to the embedded provider; the
		// hosted service expires its own sessions.
		var purger tasks.SessionPurger
		if embeddedProvider != nil {
			purger = embeddedProvider
		}
		taskClient.Register(
			tasks.NewPurgeSessionsQueue(purger),
			tasks.NewCleanupAuthEventsQueue(auditRepo),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		if cfg.Maintenance.Enabled {
			maintenance = scheduler.NewMaintenanceScheduler(taskClient, cfg.Maintenance.Schedule, cfg.Audit.RetentionDays)
			if err := maintenance.Start(); err != nil {
				log.Fatalf("Failed to start maintenance scheduler: %v", err)
			}
		}
	}

	// CSRF secret: configured or generated per process
	var csrfSecret []byte
	if cfg.Auth.CSRFSecret != "" {
		csrfSecret, err = hex.DecodeString(cfg.Auth.CSRFSecret)
		if err != nil {
			// Not hex, use as raw bytes
			csrfSecret = []byte(cfg.Auth.CSRFSecret)
		}
	} else {
		secret, err := auth.GenerateCSRFSecret()
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}
		csrfSecret, _ = hex.DecodeString(secret)
		log.Printf("Generated CSRF secret (set AUTH_CSRF_SECRET to persist)")
	}

	rateLimiter := auth.NewRateLimiter(auth.RateLimitConfig{
		MaxAttempts:     cfg.Auth.MaxLoginAttempts,
		WindowDuration:  cfg.Auth.RateLimitWindow,
		LockoutDuration: cfg.Auth.LockoutDuration,
	})
	defer rateLimiter.Stop()

	routerCfg := http_controllers.RouterConfig{
		Provider: client,
		Store:    recordStore,
		Sessions: sessions,
		Database: db,
		Auditor:  auditor,
		Cookies: auth.CookieConfig{
			Secure: cfg.Auth.SecureCookies,
			MaxAge: cfg.Auth.RefreshLifetime,
		},
		CSRFSecret:    csrfSecret,
		RateLimiter:   rateLimiter,
		TemplatesPath: cfg.UI.TemplatesPath,
		StaticPath:    cfg.UI.StaticPath,
		Version:       version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
