package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"resala-backend/internal/flash"
	"resala-backend/internal/handlers"
	"resala-backend/internal/middleware"
	"resala-backend/internal/monitoring"
	"resala-backend/static"
)

// RouterOptions carries the non-handler dependencies of the router
type RouterOptions struct {
	Metrics        *monitoring.Metrics
	Monitor        *monitoring.MonitoringService
	AllowedOrigins []string // CORS origins for /api; empty disables CORS headers
	ForceHTTPS     bool
	TrustedProxies *middleware.ProxyTrust
}

func NewRouter(
	authHandler *handlers.AuthHandler,
	homeHandler *handlers.HomeHandler,
	visitHandler *handlers.VisitHandler,
	familyHandler *handlers.FamilyHandler,
	adminHandler *handlers.AdminHandler,
	apiHandler *handlers.APIHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
	opts RouterOptions,
) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.HTTPSRedirect(opts.ForceHTTPS))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequestLogger(opts.TrustedProxies))
	if opts.Monitor != nil {
		r.Use(opts.Monitor.Middleware)
	}
	r.Use(middleware.GzipCompression)
	r.Use(flash.Middleware)
	r.Use(authMiddleware.Authenticate)

	// Static files
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static.FS))))

	// Public routes
	r.HandleFunc("/", authHandler.LoginPage).Methods("GET")
	r.HandleFunc("/", authHandler.Login).Methods("POST")
	r.HandleFunc("/login", authHandler.LoginPage).Methods("GET")
	r.HandleFunc("/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/logout", authHandler.Logout).Methods("GET")

	// Health and metrics
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler()).Methods("GET")
	}

	// Pages for any signed-in user
	r.Handle("/home", authMiddleware.RequireLogin(http.HandlerFunc(homeHandler.Home))).Methods("GET", "POST")
	r.Handle("/visit/{family_number:[0-9]+}", authMiddleware.RequireLogin(http.HandlerFunc(visitHandler.Visit))).Methods("GET", "POST")
	r.Handle("/add_family", authMiddleware.RequireLogin(http.HandlerFunc(familyHandler.AddFamily))).Methods("GET", "POST")

	// Admin pages
	r.Handle("/admin", authMiddleware.RequireAdmin(http.HandlerFunc(adminHandler.Dashboard))).Methods("GET")

	// JSON API
	api := r.PathPrefix("/api").Subrouter()
	if len(opts.AllowedOrigins) > 0 {
		api.Use(cors.New(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}).Handler)
	}
	api.Handle("/families", authMiddleware.RequireAPIUser(false)(http.HandlerFunc(apiHandler.SearchFamilies))).Methods("GET", "OPTIONS")
	api.Handle("/reports", authMiddleware.RequireAPIUser(true)(http.HandlerFunc(apiHandler.Reports))).Methods("GET", "OPTIONS")

	return r
}
