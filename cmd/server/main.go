package main

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

	"github.com/rs/zerolog/log"

	"resala-backend/internal/auth"
	"resala-backend/internal/config"
	"resala-backend/internal/db"
	"resala-backend/internal/handlers"
	"resala-backend/internal/health"
	h "resala-backend/internal/http"
	"resala-backend/internal/logging"
	"resala-backend/internal/middleware"
	"resala-backend/internal/monitoring"
	"resala-backend/internal/repositories"
	"resala-backend/internal/services"
	"resala-backend/internal/store"
	"resala-backend/templates"
)

func main() {
	// Parse command-line flags
	port := flag.Int("port", 0, "Server port (overrides config)")
	configPath := flag.String("config", "", "Path to config file (default: ./config.yaml if present)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Pretty)

	if err := run(cfg); err != nil {
		logger := logging.NewComponentLogger("server")
		logger.Fatal().Err(err).Msg("Server stopped")
	}
}

// run serves until SIGINT or SIGTERM and returns once the record store is closed
func run(cfg *config.Config) error {
	logger := logging.NewComponentLogger("server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the record store
	backend, closeBackend, err := db.Open(ctx, cfg, cfg.Store.Backend)
	if err != nil {
		return fmt.Errorf("failed to open %s record store: %w", cfg.Store.Backend, err)
	}
	defer closeBackend()

	if cfg.Store.Backend != config.BackendSheets && len(cfg.SeedProducts) > 0 {
		n, err := store.SeedProducts(ctx, backend, cfg.SeedProducts)
		if err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}
		if n > 0 {
			logger.Info().Int("products", n).Msg("Seeded Products table")
		}
	}

	// Metrics and monitoring
	metrics := monitoring.NewMetrics()
	monitor := monitoring.NewMonitoringService(metrics)
	monitor.StartCollection(ctx, 30*time.Second)

	instrumented := store.Instrument(backend, metrics, cfg.Server.StoreTimeout)

	policy, err := services.ParseInventoryPolicy(cfg.Inventory.Policy)
	if err != nil {
		return err
	}

	// Initialize repositories
	familyRepo := repositories.NewFamilyRepository(instrumented)
	productRepo := repositories.NewProductRepository(instrumented)
	visitRepo := repositories.NewVisitRepository(instrumented)

	// Initialize services
	familyService := services.NewFamilyService(familyRepo, services.MatchMode(cfg.Search.MobileMatch), metrics)
	visitService := services.NewVisitService(familyRepo, productRepo, visitRepo, policy, metrics)
	reportService := services.NewReportService(productRepo, visitRepo, policy)

	// Initialize handlers
	renderer, err := handlers.NewRenderer(templates.FS)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	jwtManager := auth.NewJWTManager(cfg.Session.Secret, cfg.Session.TTL)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, cfg.Session.CookieName)
	proxies, err := middleware.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return err
	}
	loginLimiter := middleware.NewRateLimiter(cfg.Server.LoginRateLimit, time.Minute).TrustProxies(proxies)

	authHandler := handlers.NewAuthHandler(
		renderer,
		auth.NewUserTable(cfg.Users),
		jwtManager,
		loginLimiter,
		metrics,
		handlers.SessionCookie{Name: cfg.Session.CookieName, Secure: cfg.Session.CookieSecure},
	)
	homeHandler := handlers.NewHomeHandler(renderer, familyService, reportService)
	visitHandler := handlers.NewVisitHandler(renderer, visitService, reportService)
	familyHandler := handlers.NewFamilyHandler(renderer, familyService)
	adminHandler := handlers.NewAdminHandler(renderer, reportService, policy)
	apiHandler := handlers.NewAPIHandler(familyService, reportService)
	healthHandler := handlers.NewHealthHandler(health.NewHealthChecker(backend, cfg.Store.Backend))

	router := h.NewRouter(
		authHandler,
		homeHandler,
		visitHandler,
		familyHandler,
		adminHandler,
		apiHandler,
		healthHandler,
		authMiddleware,
		h.RouterOptions{
			Metrics:        metrics,
			Monitor:        monitor,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			ForceHTTPS:     cfg.Server.Mode == config.ModeProduction,
			TrustedProxies: proxies,
		},
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("backend", cfg.Store.Backend).
			Str("inventory_policy", string(policy)).
			Msg("Server running")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
