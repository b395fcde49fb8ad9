package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/changes"
	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/cleanup"
	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/models"
	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/scheduler"
)

// AdminHandler handles admin-related requests
type AdminHandler struct {
	db             *gorm.DB
	scheduler      *scheduler.Scheduler
	changesService *changes.Service
	cleanupService *cleanup.Service
	logger         *logrus.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB, sched *scheduler.Scheduler, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		db:             db,
		scheduler:      sched,
		changesService: changes.NewService(db, logger),
		cleanupService: cleanup.NewService(db, logger),
		logger:         logger,
	}
}

// GetStats returns system statistics
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats := make(map[string]interface{})

	var cityCount, districtCount, neighborhoodCount, propertyCount int64
	h.db.Model(&models.City{}).Count(&cityCount)
	h.db.Model(&models.District{}).Count(&districtCount)
	h.db.Model(&models.Neighborhood{}).Count(&neighborhoodCount)
	h.db.Model(&models.Property{}).Count(&propertyCount)

	stats["regions"] = map[string]interface{}{
		"cities":        cityCount,
		"districts":     districtCount,
		"neighborhoods": neighborhoodCount,
	}
	stats["properties"] = map[string]interface{}{
		"total": propertyCount,
	}

	// Recent ingestion activity (last 24 hours)
	last24h := time.Now().AddDate(0, 0, -1)
	var recentlyCrawled int64
	h.db.Model(&models.Property{}).Where("crawled_at >= ?", last24h).Count(&recentlyCrawled)
	stats["recent_activity"] = map[string]interface{}{
		"crawled_last_24h": recentlyCrawled,
	}

	// Property changes (last 7 days)
	last7days := time.Now().AddDate(0, 0, -7)
	var recentChanges int64
	h.db.Model(&models.PropertyChange{}).Where("detected_at >= ?", last7days).Count(&recentChanges)
	stats["changes"] = map[string]interface{}{
		"last_7_days": recentChanges,
	}

	deleteStats, err := h.cleanupService.GetDeleteStats()
	if err != nil {
		h.logger.WithError(err).Warn("Failed to get delete stats")
	} else {
		stats["deletions"] = deleteStats
	}

	c.JSON(http.StatusOK, stats)
}

// GetRecentChanges returns recent property changes
func (h *AdminHandler) GetRecentChanges(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "100")
	limit, _ := strconv.Atoi(limitStr)

	detected, err := h.changesService.GetRecent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"changes": detected,
		"count":   len(detected),
	})
}

// TriggerMaintenance manually triggers the nightly maintenance job
func (h *AdminHandler) TriggerMaintenance(c *gin.Context) {
	if h.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Scheduler not available (MySQL/GORM required)",
		})
		return
	}

	h.logger.Info("Admin: manual maintenance trigger requested")

	// Run in goroutine to avoid blocking
	go func() {
		if err := h.scheduler.RunNow(); err != nil {
			h.logger.WithError(err).Error("Admin: manual maintenance failed")
		} else {
			h.logger.Info("Admin: manual maintenance completed")
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Maintenance job started",
		"status":  "running",
	})
}

// RunCleanup executes physical deletion of stale properties
func (h *AdminHandler) RunCleanup(c *gin.Context) {
	var req struct {
		RetentionDays    int  `json:"retention_days"`     // Days to keep (default: 90)
		MaxDeletionCount int  `json:"max_deletion_count"` // Safety limit (default: 10000)
		DryRun           bool `json:"dry_run"`            // Dry run mode
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	config := cleanup.DefaultCleanupConfig()
	if req.RetentionDays > 0 {
		config.RetentionDays = req.RetentionDays
	}
	if req.MaxDeletionCount > 0 {
		config.MaxDeletionCount = req.MaxDeletionCount
	}
	config.DryRun = req.DryRun

	h.logger.WithFields(logrus.Fields{
		"retention": config.RetentionDays,
		"max":       config.MaxDeletionCount,
		"dry_run":   config.DryRun,
	}).Info("Admin: running cleanup")

	result, err := h.cleanupService.PhysicallyDelete(config)
	if err != nil {
		h.logger.WithError(err).Error("Admin: cleanup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetDeleteLogs returns recent delete log entries
func (h *AdminHandler) GetDeleteLogs(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "100")
	limit, _ := strconv.Atoi(limitStr)

	logs, err := h.cleanupService.GetRecentDeleteLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"count": len(logs),
	})
}

// GetBuildingTypeStats returns property counts by building type
func (h *AdminHandler) GetBuildingTypeStats(c *gin.Context) {
	type BuildingTypeStat struct {
		BuildingType string `json:"building_type"`
		Count        int64  `json:"count"`
	}

	var stats []BuildingTypeStat
	err := h.db.Model(&models.Property{}).
		Select("building_type, count(*) as count").
		Where("building_type != ''").
		Group("building_type").
		Order("count DESC").
		Limit(20).
		Scan(&stats).Error

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"building_type_stats": stats,
		"count":               len(stats),
	})
}
