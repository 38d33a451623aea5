package main

//
//  @title           b3yield API
//  @version         1.0
//  @description     Brazilian treasury bill and bond pricing under the ANBIMA convention.
//  @termsOfService  https://github.com/guttosm/b3yield
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/b3yield
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        pricing
//  @tag.description Price, yield and cash-flow computations
//
//  @tag.name        quotations
//  @tag.description Quotations priced from the daily ANBIMA rate files
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/b3yield/config"
	_ "github.com/guttosm/b3yield/docs" // swagger docs
	"github.com/guttosm/b3yield/internal/app"
	"github.com/guttosm/b3yield/internal/ingestion"
	"github.com/guttosm/b3yield/internal/logger"
	"github.com/guttosm/b3yield/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// startServer serves router on port in the background. The write timeout
// leaves headroom over the router's per-request deadline so a sweep that
// hits its deadline can still report 504.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Component("server").Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Component("server").Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown blocks until SIGINT or SIGTERM arrives or ctx ends, then
// drains in-flight pricing requests and runs cleanup.
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Component("server").Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	cleanup()
	if err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Component("server").Info().Msg("server exited gracefully")
	return nil
}

// runIngestion prices and stores the rate files of the last business days.
func runIngestion(ctx context.Context, dir string, days, parallel int, force bool) error {
	db, err := app.InitPostgres(config.AppConfig)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	svc, cals, err := app.NewPricingService(config.AppConfig, storage.NewQuotationsRepository(db))
	if err != nil {
		return err
	}
	cal, err := cals.Get(config.AppConfig.Pricing.Calendar)
	if err != nil {
		return err
	}
	return ingestion.ProcessDirectory(ctx, dir, db, svc, cal, days, parallel, force)
}

// main is the entry point of the b3yield application.
//
// Modes (selected via --mode flag):
//   - ingest: Prices the last business days of ANBIMA rate files from ./data/input/.
//   - api:    Starts the REST pricing API.
//
// Flags:
//   - --mode: Execution mode ("ingest" or "api"). Default: "api".
//   - --dir:  Directory containing .txt input files. Default: "./data/input".
//   - --port: Port for the API server. Defaults to value from config (SERVER_PORT).
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	mode := flag.String("mode", "api", "Mode: ingest or api")
	dir := flag.String("dir", "./data/input", "Directory with DD-MM-YYYY_TAXAS_ANBIMA.txt files")
	days := flag.Int("days", 1, "Number of last business days to ingest (1-7)")
	parallel := flag.Int("parallel", 0, "How many files to process concurrently (0=auto up to CPU, max 7)")
	force := flag.Bool("force", false, "Reprocess days even if already ingested (deletes existing quotations for that day)")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	switch *mode {
	case "ingest":
		logger.L().Info().Str("calendar", config.AppConfig.Pricing.Calendar).Int("days", *days).Msg("running ingestion")
		if err := runIngestion(ctx, *dir, *days, *parallel, *force); err != nil {
			logger.L().Fatal().Err(err).Msg("ingestion failed")
		}
		logger.L().Info().Msg("ingestion completed successfully")

	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		if err := gracefulShutdown(ctx, server, cleanup); err != nil {
			logger.L().Fatal().Err(err).Msg("shutdown failed")
		}

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
