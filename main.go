package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/srriwatch/backend/src/config"
	"github.com/username/srriwatch/backend/src/database"
	"github.com/username/srriwatch/backend/src/handlers"
	"github.com/username/srriwatch/backend/src/logger"
	"github.com/username/srriwatch/backend/src/parsers/manifest"
	"github.com/username/srriwatch/backend/src/parsers/monitoring"
	"github.com/username/srriwatch/backend/src/pdftext"
	"github.com/username/srriwatch/backend/src/processors"
	"github.com/username/srriwatch/backend/src/security"
	"github.com/username/srriwatch/backend/src/services"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == config.Cfg.AllowedOrigin {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("SRRI Watch backend server starting...")

	if config.Cfg.JWTSecret == "" || len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid. Must be at least 32 bytes.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	runCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)
	factCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)

	logger.L.Info("Initializing services and handlers...")
	authService := security.NewAuthService(config.Cfg.JWTSecret)
	emailService := services.NewEmailService()
	userHandler := handlers.NewUserHandler(authService)

	fetcher := services.NewDocumentService(config.Cfg.FetchTimeout, config.Cfg.FetchRatePerSecond)
	extractor := services.NewExtractionService(
		fetcher,
		pdftext.NewLayoutExtractor(),
		pdftext.NewStreamExtractor(),
		factCache,
		config.Cfg.FetchConcurrency,
	)

	reconciliationService := services.NewReconciliationService(
		manifest.NewParser(),
		monitoring.NewParser(),
		processors.NewSRRIChangeProcessor(),
		processors.NewReconciliationProcessor(),
		extractor,
		emailService,
		config.Cfg.ReportRecipient,
		runCache,
	)
	reconciliationHandler := handlers.NewReconciliationHandler(reconciliationService)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	apiRouter.HandleFunc("POST /api/auth/login", userHandler.LoginUserHandler)
	apiRouter.HandleFunc("POST /api/auth/register", userHandler.RegisterUserHandler)
	apiRouter.HandleFunc("POST /api/auth/refresh", userHandler.RefreshTokenHandler)
	apiRouter.HandleFunc("POST /api/auth/logout", userHandler.LogoutUserHandler)

	requireAuth := func(handler http.HandlerFunc) http.Handler {
		return userHandler.AuthMiddleware(handler)
	}

	apiRouter.Handle("POST /api/reconcile", requireAuth(reconciliationHandler.HandleReconcile))
	apiRouter.Handle("GET /api/runs", requireAuth(reconciliationHandler.HandleListRuns))
	apiRouter.Handle("GET /api/runs/latest", requireAuth(reconciliationHandler.HandleGetLatestRun))
	apiRouter.Handle("GET /api/runs/{id}/report", requireAuth(reconciliationHandler.HandleDownloadReport))

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "SRRI Watch backend is running"})
		} else {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
				http.NotFound(w, r)
			}
		}
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(rootMux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
