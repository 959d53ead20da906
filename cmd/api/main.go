package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"powerview/internal/api/handlers"
	"powerview/internal/api/middleware"
	"powerview/internal/config"
	"powerview/internal/data"
	"powerview/internal/observability"

	"github.com/gin-gonic/gin"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := loadConfig(os.Getenv("POWERVIEW_CONFIG"))
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	// Get configuration from environment
	port := os.Getenv("API_PORT")
	if port == "" {
		port = cfg.API.Port
	}

	// Set up Gin router
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	metrics := observability.NewMetrics()

	// Apply middleware
	router.Use(middleware.CORS(allowedOrigins()...))
	router.Use(middleware.Logger(logger, metrics))
	router.Use(middleware.ErrorHandler(logger))

	cache := data.NewResultCache(cfg.API.CacheTTL)
	stop := make(chan struct{})
	defer close(stop)
	go cache.RunEviction(cfg.API.CacheTTL/4, stop)

	// Initialize handlers
	seriesHandler, err := handlers.NewSeriesHandler(cfg, cache, metrics, logger)
	if err != nil {
		logger.Error("failed to build series handler", "err", err)
		os.Exit(1)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "cached_results": cache.Len()})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API routes
	api := router.Group("/api/v1")
	{
		api.GET("/capabilities", seriesHandler.ListCapabilities)
		api.POST("/series", seriesHandler.Prepare)
		api.GET("/series/:id", seriesHandler.Get)
		api.POST("/leak", seriesHandler.Leak)
	}

	// Serve static files from web/dist (if it exists)
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./web/dist"
	}
	if _, err := os.Stat(staticDir); err == nil {
		router.Static("/assets", staticDir+"/assets")
		router.StaticFile("/favicon.ico", staticDir+"/favicon.ico")

		// Serve index.html for all non-API routes (SPA routing)
		router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(404, gin.H{"error": "Not found"})
				return
			}
			c.File(staticDir + "/index.html")
		})
		logger.Info("serving static files", "dir", staticDir)
	}

	// Start server
	addr := fmt.Sprintf(":%s", port)
	logger.Info("starting API server", "addr", addr, "timezone", cfg.Timezone, "interval", cfg.Interval)
	if err := router.Run(addr); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

// loadConfig reads the YAML config at path; an empty path yields the defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := &config.Config{}
		cfg.ApplyDefaults()
		return cfg, nil
	}
	return config.Load(path)
}

func allowedOrigins() []string {
	raw := os.Getenv("CORS_ORIGINS")
	if raw == "" {
		return nil
	}
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
