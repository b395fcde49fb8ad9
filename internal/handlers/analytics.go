package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/database"
)

// AnalyticsHandler serves aggregate statistics from the read-only
// PostgreSQL replica.
type AnalyticsHandler struct {
	db *database.DB
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(db *database.DB) *AnalyticsHandler {
	return &AnalyticsHandler{db: db}
}

// GetNeighborhoodStats returns per-neighborhood aggregates.
func (h *AnalyticsHandler) GetNeighborhoodStats(c *gin.Context) {
	city := c.Query("city")

	stats, err := h.db.GetNeighborhoodStats(city)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"neighborhood_stats": stats,
		"count":              len(stats),
	})
}

// GetPriceDistribution returns the weekly price histogram.
func (h *AnalyticsHandler) GetPriceDistribution(c *gin.Context) {
	bucketWidth := 100000
	if widthStr := c.Query("bucket_width"); widthStr != "" {
		if width, err := strconv.Atoi(widthStr); err == nil && width > 0 {
			bucketWidth = width
		}
	}

	buckets, err := h.db.GetPriceDistribution(bucketWidth)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"price_distribution": buckets,
		"bucket_width":       bucketWidth,
	})
}

// GetRegionSummary returns headline totals across the store.
func (h *AnalyticsHandler) GetRegionSummary(c *gin.Context) {
	summary, err := h.db.GetRegionSummary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}
