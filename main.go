package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/vendalytics/backend/src/config"
	"github.com/username/vendalytics/backend/src/database"
	"github.com/username/vendalytics/backend/src/handlers"
	"github.com/username/vendalytics/backend/src/logger"
	"github.com/username/vendalytics/backend/src/services"
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
		allowedOrigins := map[string]bool{
			"http://localhost:3000": true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-Requested-With, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag, X-Request-ID")
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
	logger.L.Info("Vendalytics backend server starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	logger.L.Info("Initializing report cache...", "ttl", config.Cfg.ReportCacheTTL)
	reportCache := cache.New(config.Cfg.ReportCacheTTL, services.CacheCleanupInterval)

	logger.L.Info("Initializing services and handlers...")
	reportService := services.NewReportService(reportCache)
	importService := services.NewImportService(reportService)
	chartService := services.NewChartService(config.Cfg.ChartWidth, config.Cfg.ChartHeight)

	uploadHandler := handlers.NewUploadHandler(importService)
	reportsHandler := handlers.NewReportsHandler(reportService, chartService)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	apiRouter.HandleFunc("POST /sales/upload-file", uploadHandler.HandleUpload)
	apiRouter.HandleFunc("GET /sales/reports/financial-metrics", reportsHandler.HandleFinancialMetrics)
	apiRouter.HandleFunc("GET /sales/reports/product-analysis", reportsHandler.HandleProductAnalysis)
	apiRouter.HandleFunc("GET /sales/reports/transaction-analysis", reportsHandler.HandleTransactionAnalysis)
	apiRouter.HandleFunc("GET /sales/reports/sales-summary", reportsHandler.HandleSalesSummary)
	apiRouter.HandleFunc("GET /sales/reports/regional-performance", reportsHandler.HandleRegionalPerformance)
	apiRouter.HandleFunc("GET /sales/reports/state-performance", reportsHandler.HandleStatePerformance)
	apiRouter.HandleFunc("GET /sales/reports/customer-profile", reportsHandler.HandleCustomerProfile)
	apiRouter.HandleFunc("GET /sales/reports/full", reportsHandler.HandleFullReport)
	apiRouter.HandleFunc("GET /sales/reports/download", reportsHandler.HandleDownload)

	rootMux.Handle("/sales/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "Vendalytics backend is running"})
		} else {
			if !strings.HasPrefix(r.URL.Path, "/sales/") {
				logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
				http.NotFound(w, r)
			}
		}
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(handlers.RequestIDMiddleware(rootMux)))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
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
