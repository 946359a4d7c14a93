package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/intellidoc/console-gateway/internal/backend"
	"github.com/intellidoc/console-gateway/internal/console/handler"
	"github.com/intellidoc/console-gateway/internal/console/service"
	"github.com/intellidoc/console-gateway/internal/observability/metrics"
	"github.com/intellidoc/console-gateway/internal/session"
	"github.com/intellidoc/console-gateway/pkg/config"
	"github.com/intellidoc/console-gateway/pkg/httputil"
	"github.com/intellidoc/console-gateway/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadWithValidation()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("console-gateway", cfg.Server.Environment)
	log.Info().Str("backend", cfg.Backend.BaseURL).Msg("starting Console Gateway")

	// Metrics
	var httpMetrics *metrics.HTTPMetrics
	if cfg.Metrics.Enabled {
		httpMetrics = metrics.NewHTTPMetrics("console-gateway")
	}

	// Initialize components
	backendClient := backend.NewClient(&cfg.Backend, log, httpMetrics)
	consoleService := service.NewConsoleService(backendClient, log)

	authHandler := handler.NewAuthHandler(consoleService, &cfg.Session, log)
	documentsHandler := handler.NewDocumentsHandler(consoleService, log)
	exportHandler := handler.NewExportHandler(consoleService, log)
	auditHandler := handler.NewAuditHandler(consoleService, log)
	searchHandler := handler.NewSearchHandler(consoleService, log)
	settingsHandler := handler.NewSettingsHandler(consoleService, log)
	dashboardHandler := handler.NewDashboardHandler(consoleService, log)

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if httpMetrics != nil {
		r.Use(func(next http.Handler) http.Handler {
			return httpMetrics.Middleware("console-gateway", next)
		})
	}
	r.Use(session.Middleware(cfg.Session.CookieName))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":  "healthy",
			"service": "console-gateway",
		})
	})

	if httpMetrics != nil {
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}

	// Landing redirect: authenticated browsers go to the dashboard.
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.FromContext(r.Context()); ok {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
		http.Redirect(w, r, "/login", http.StatusFound)
	})

	// Auth routes
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Post("/register", authHandler.Register)
		r.Post("/confirm-email", authHandler.ConfirmEmail)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Post("/reset-password", authHandler.ResetPassword)
		r.With(session.RequireSession).Get("/me", authHandler.Me)
	})

	// Console routes
	r.Group(func(r chi.Router) {
		r.Use(session.RequireSession)

		r.Route("/api/documents", func(r chi.Router) {
			r.Post("/", documentsHandler.Upload)
			r.Get("/", documentsHandler.List)
			r.Get("/mine", documentsHandler.List)
			r.Get("/{id}", documentsHandler.Get)
			r.Get("/{id}/review", documentsHandler.Review)
			r.Get("/{id}/download-url", documentsHandler.DownloadURL)
		})

		r.Route("/api/extraction", func(r chi.Router) {
			r.Get("/{id}/export", exportHandler.ExportDocument)
			r.Get("/{id}/workbook", exportHandler.Workbook)
			r.Post("/export-batch", exportHandler.ExportBatch)
		})

		r.Route("/api/audit", func(r chi.Router) {
			r.Get("/history/{id}", auditHandler.History)
			r.Get("/logs", auditHandler.Logs)
			r.Post("/update-field", auditHandler.UpdateField)
			r.Post("/approve/{id}", auditHandler.Approve)
		})

		r.Get("/api/search", searchHandler.Search)
		r.Get("/api/analytics/dashboard", dashboardHandler.Stats)

		r.Route("/api/settings/webhook", func(r chi.Router) {
			r.Get("/", settingsHandler.GetWebhook)
			r.Post("/", settingsHandler.SaveWebhook)
			r.Post("/test", settingsHandler.TestWebhook)
		})
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
