package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/b3yield/config"
	"github.com/guttosm/b3yield/internal/api"
	"github.com/guttosm/b3yield/internal/middleware"
	"github.com/guttosm/b3yield/internal/storage"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Connects to PostgreSQL using InitPostgres().
//   - Initializes the repository layer (QuotationsRepository).
//   - Builds the calendars and the pricing service (NewPricingService).
//   - Applies the configured rate limit.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes.
//   - Provides a cleanup function to close resources (e.g., DB connection).
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	repo := storage.NewQuotationsRepository(db)

	svc, cals, err := NewPricingService(cfg, repo)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to initialize pricing: %w", err)
	}

	middleware.SetRateLimit(cfg.RateLimit.PerMinute, time.Minute)

	handler := api.NewHandler(svc)
	router := api.NewRouter(handler)

	healthHandler := api.NewHealthHandler(db.PingContext, cals.Names()...)
	healthHandler.Register(router)

	cleanup := func() {
		_ = db.Close()
	}

	return router, cleanup, nil
}
