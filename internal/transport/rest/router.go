package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"aroha-api/internal/service"
	"aroha-api/internal/transport/rest/handler"
	"aroha-api/internal/transport/rest/middleware"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	ResponseService  *service.ResponseService
	ExportService    *service.ExportService
	AnalyticsService *service.AnalyticsService
	InsightService   *service.InsightService
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	responsesHandler := handler.NewResponsesHandler(c.ResponseService, c.ExportService)
	dashboardHandler := handler.NewDashboardHandler(c.AnalyticsService)
	insightsHandler := handler.NewInsightsHandler(c.InsightService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Admin routes (require admin auth)
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/responses", responsesHandler.List).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/responses/export", responsesHandler.Export).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/responses/{id}", responsesHandler.Get).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/dashboard", dashboardHandler.Get).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/insights", insightsHandler.Get).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/insights", insightsHandler.Generate).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
