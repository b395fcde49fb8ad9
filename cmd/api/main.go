package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/changes"
	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/cleanup"
	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/config"
	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/database"
	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/handlers"
	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/ingest"
	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/ratelimit"
	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/region"
	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/scheduler"
	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/search"
)

var (
	db           *database.DB
	gormDB       *database.GormDB
	searchClient *search.SearchClient
	appConfig    *config.Config
	rateLimiter  *ratelimit.RateLimiter
	appScheduler *scheduler.Scheduler
	logger       *logrus.Logger
)

func main() {
	logger = logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load configuration
	configPath := getEnv("CONFIG_PATH", "/app/config/config.yaml")
	var err error
	appConfig, err = config.LoadConfig(configPath)
	if err != nil {
		logger.WithError(err).Warnf("Failed to load config from %s, using defaults", configPath)
		appConfig = config.DefaultConfig()
	} else {
		logger.Infof("Loaded configuration from %s", configPath)
	}

	if level, err := logrus.ParseLevel(appConfig.Logging.Level); err == nil {
		logger.SetLevel(level)
	}

	// Initialize database based on configuration
	dbType := appConfig.Database.Type
	if dbType == "" {
		dbType = getEnv("DB_TYPE", "mysql")
	}

	if dbType == "mysql" {
		logger.Info("Using MySQL with GORM")
		mysqlCfg := appConfig.Database.MySQL

		portStr := ""
		if mysqlCfg.Port > 0 {
			portStr = fmt.Sprintf("%d", mysqlCfg.Port)
		}

		gormDB, err = database.NewGormDB(
			getEnvOrConfig(mysqlCfg.Host, "DB_HOST", "mysql"),
			getEnvOrConfig(portStr, "DB_PORT", "3306"),
			getEnvOrConfig(mysqlCfg.User, "DB_USER", "rental_user"),
			getEnvOrConfig(mysqlCfg.Password, "DB_PASSWORD", "rental_pass"),
			getEnvOrConfig(mysqlCfg.Database, "DB_NAME", "rental_db"),
		)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to MySQL")
		}
		defer gormDB.Close()

		if err := gormDB.InitSchema(); err != nil {
			logger.WithError(err).Fatal("Failed to initialize schema")
		}
	} else {
		// Read-only analytics mode against the PostgreSQL replica. The
		// ingestion pipeline is unavailable without MySQL.
		logger.Info("Using PostgreSQL (read-only analytics mode)")
		pgCfg := appConfig.Database.Postgres

		portStr := ""
		if pgCfg.Port > 0 {
			portStr = fmt.Sprintf("%d", pgCfg.Port)
		}

		db, err = database.NewDB(
			getEnvOrConfig(pgCfg.Host, "DB_HOST", "db"),
			getEnvOrConfig(portStr, "DB_PORT", "5432"),
			getEnvOrConfig(pgCfg.User, "DB_USER", "rental_user"),
			getEnvOrConfig(pgCfg.Password, "DB_PASSWORD", "rental_pass"),
			getEnvOrConfig(pgCfg.Database, "DB_NAME", "rental_db"),
			pgCfg.SSLMode,
		)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to database")
		}
		defer db.Close()
	}

	// Initialize Meilisearch using config
	meilisearchHost := appConfig.Search.Meilisearch.Host
	if meilisearchHost == "" {
		meilisearchHost = getEnv("MEILISEARCH_HOST", "http://meilisearch:7700")
	}
	meilisearchKey := appConfig.Search.Meilisearch.APIKey
	if meilisearchKey == "" {
		meilisearchKey = getEnv("MEILISEARCH_KEY", "masterKey123")
	}

	searchClient = search.NewSearchClient(meilisearchHost, meilisearchKey)

	// Wait for Meilisearch to be ready
	time.Sleep(2 * time.Second)

	if err := searchClient.InitIndex(); err != nil {
		logger.WithError(err).Warn("Failed to initialize search index")
	}

	// Initialize rate limiter for the ingest endpoint
	rateLimiter = ratelimit.NewRateLimiter(
		appConfig.RateLimit.RequestsPerMinute,
		appConfig.RateLimit.RequestsPerHour,
		appConfig.RateLimit.RequestsPerDay,
		appConfig.RateLimit.Enabled,
	)
	logger.Infof("Rate limiter initialized: %d req/min, %d req/hour, %d req/day (enabled: %v)",
		appConfig.RateLimit.RequestsPerMinute,
		appConfig.RateLimit.RequestsPerHour,
		appConfig.RateLimit.RequestsPerDay,
		appConfig.RateLimit.Enabled,
	)

	// Ingestion pipeline and scheduler (MySQL only)
	var ingestService *ingest.Service
	if gormDB != nil {
		resolver := region.NewResolver(gormDB.DB(), logger)
		changesService := changes.NewService(gormDB.DB(), logger)
		ingestService = ingest.NewService(gormDB, resolver, appConfig.Ingest.ChunkSize, logger).
			WithIndexer(searchClient).
			WithChangeRecorder(changesService)

		cleanupService := cleanup.NewService(gormDB.DB(), logger)
		appScheduler = scheduler.NewScheduler(gormDB, searchClient, cleanupService, appConfig, logger)
		if err := appScheduler.Start(); err != nil {
			logger.WithError(err).Warn("Failed to start scheduler")
		}
		defer appScheduler.Stop()
	}

	// Setup Gin router
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{getEnv("CORS_ORIGIN", "http://localhost:5173")},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	// Routes
	r.GET("/health", healthCheck)

	// Search routes
	r.GET("/api/search", searchProperties)
	r.GET("/api/filter", filterProperties)
	r.GET("/api/search/facets", getSearchFacets)

	// Rate limiter stats endpoint
	r.GET("/api/ratelimit/stats", getRateLimitStats)

	// Address parser debugging endpoint
	addressHandler := handlers.NewAddressHandler()
	r.POST("/api/address/parse", addressHandler.PostParse)

	// Analytics routes (PostgreSQL replica mode)
	if db != nil {
		analyticsHandler := handlers.NewAnalyticsHandler(db)
		r.GET("/api/analytics/neighborhoods", analyticsHandler.GetNeighborhoodStats)
		r.GET("/api/analytics/price-distribution", analyticsHandler.GetPriceDistribution)
		r.GET("/api/analytics/summary", analyticsHandler.GetRegionSummary)
		logger.Info("Analytics API routes registered at /api/analytics/*")
	}

	// Ingestion and admin routes (MySQL only)
	if gormDB != nil {
		ingestHandler := handlers.NewIngestHandler(ingestService, appConfig.Ingest.GetRequestTimeout(), logger)
		r.POST("/api/ingest", rateLimiter.Middleware(), ingestHandler.PostIngest)

		regionHandler := handlers.NewRegionHandler(gormDB)
		r.GET("/api/regions/cities", regionHandler.GetCities)
		r.GET("/api/regions/cities/:id/districts", regionHandler.GetDistricts)
		r.GET("/api/regions/districts/:id/neighborhoods", regionHandler.GetNeighborhoods)

		adminHandler := handlers.NewAdminHandler(gormDB.DB(), appScheduler, logger)
		r.GET("/api/changes/recent", adminHandler.GetRecentChanges)

		admin := r.Group("/api/admin")
		{
			admin.GET("/stats", adminHandler.GetStats)
			admin.GET("/building-type-stats", adminHandler.GetBuildingTypeStats)
			admin.GET("/changes/recent", adminHandler.GetRecentChanges)
			admin.POST("/maintenance/trigger", adminHandler.TriggerMaintenance)
			admin.POST("/cleanup/run", adminHandler.RunCleanup)
			admin.GET("/cleanup/logs", adminHandler.GetDeleteLogs)
		}

		logger.Info("Ingestion and admin API routes registered")
	}

	port := getEnv("PORT", "8085")
	logger.Infof("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		logger.WithError(err).Fatal("Failed to start server")
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now(),
	})
}

func searchProperties(c *gin.Context) {
	query := c.Query("q")
	limitStr := c.DefaultQuery("limit", "20")

	limit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil {
		limit = 20
	}

	documents, err := searchClient.Search(query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hits":  documents,
		"count": len(documents),
	})
}

func filterProperties(c *gin.Context) {
	query := c.Query("q")
	limitStr := c.DefaultQuery("limit", "20")

	limit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil {
		limit = 20
	}

	params := search.FilterParams{
		Query: query,
		Limit: limit,
	}

	// Weekly price range
	if minPriceStr := c.Query("min_weekly_price"); minPriceStr != "" {
		if minPrice, err := strconv.Atoi(minPriceStr); err == nil {
			params.MinWeeklyPrice = &minPrice
		}
	}
	if maxPriceStr := c.Query("max_weekly_price"); maxPriceStr != "" {
		if maxPrice, err := strconv.Atoi(maxPriceStr); err == nil {
			params.MaxWeeklyPrice = &maxPrice
		}
	}

	// Building types
	if buildingTypes := c.QueryArray("building_type"); len(buildingTypes) > 0 {
		params.BuildingTypes = buildingTypes
	}

	// Neighborhood
	if neighborhoodStr := c.Query("neighborhood_id"); neighborhoodStr != "" {
		if neighborhoodID, err := strconv.ParseInt(neighborhoodStr, 10, 64); err == nil {
			params.NeighborhoodID = &neighborhoodID
		}
	}

	// Sort by
	if sortBy := c.Query("sort_by"); sortBy != "" {
		params.SortBy = sortBy
	}

	documents, err := searchClient.FilterSearch(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hits":  documents,
		"count": len(documents),
	})
}

// getSearchFacets retrieves facet distributions
func getSearchFacets(c *gin.Context) {
	facetsParam := c.DefaultQuery("facets", "building_type,neighborhood_id")
	facets := strings.Split(facetsParam, ",")

	facetDist, err := searchClient.GetFacets(facets)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"facets": facetDist,
	})
}

// getRateLimitStats returns current rate limiter statistics
func getRateLimitStats(c *gin.Context) {
	stats := rateLimiter.GetStats()
	c.JSON(http.StatusOK, stats)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrConfig returns config value if set, otherwise falls back to environment variable, then default
func getEnvOrConfig(configValue, envKey, defaultValue string) string {
	if configValue != "" {
		return configValue
	}
	return getEnv(envKey, defaultValue)
}
