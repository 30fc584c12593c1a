package api

import (
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/martinhensley/cardindex/internal/api/handlers"
	"github.com/martinhensley/cardindex/internal/metrics"
	"github.com/martinhensley/cardindex/internal/services"
)

func SetupRouter(store services.CatalogStore, matcher *services.MatcherService) *gin.Engine {
	router := gin.Default()

	// CORS configuration - allow origins from environment or use defaults
	config := cors.DefaultConfig()
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		config.AllowOrigins = strings.Split(corsOrigins, ",")
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = false // Explicitly set
	router.Use(cors.New(config))
	router.Use(requestMetrics())

	// Initialize handlers
	matchHandler := handlers.NewMatchHandler(matcher)
	importHandler := handlers.NewImportHandler(store, matcher)
	catalogHandler := handlers.NewCatalogHandler(store, matcher)

	// API routes
	api := router.Group("/api")
	{
		api.POST("/match", matchHandler.Match)

		// Imports rewrite whole set families; keep them paced.
		api.POST("/import", importLimiter(), importHandler.Import)

		api.GET("/releases", catalogHandler.ListReleases)
		api.GET("/releases/:slug/sets", catalogHandler.GetReleaseSets)
		api.GET("/sets/:slug", catalogHandler.GetSet)
		api.GET("/sets/:slug/cards", catalogHandler.GetSetCards)
		api.DELETE("/sets/:slug", catalogHandler.DeleteSet)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// importLimiter rejects import bursts instead of queueing them; a rejected
// run can simply be re-invoked thanks to import idempotency.
func importLimiter() gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(1), 2)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "import rate limit exceeded, retry shortly"})
			return
		}
		c.Next()
	}
}

func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}
