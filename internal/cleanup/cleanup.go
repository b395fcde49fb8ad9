package cleanup

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/models"
)

// Service handles physical deletion of stale property listings
type Service struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewService creates a new cleanup service
func NewService(db *gorm.DB, logger *logrus.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// CleanupConfig holds configuration for cleanup operations
type CleanupConfig struct {
	RetentionDays    int  // Days since last crawl before a listing counts as stale (default: 90)
	MaxDeletionCount int  // Maximum number of properties to delete in one run (safety limit)
	DryRun           bool // If true, only log what would be deleted without actually deleting
}

// DefaultCleanupConfig returns default configuration
func DefaultCleanupConfig() CleanupConfig {
	return CleanupConfig{
		RetentionDays:    90,
		MaxDeletionCount: 10000,
		DryRun:           false,
	}
}

// CleanupResult holds the result of a cleanup operation
type CleanupResult struct {
	TargetCount       int       `json:"target_count"`       // Number of properties eligible for deletion
	DeletedCount      int       `json:"deleted_count"`      // Number of properties actually deleted
	ErrorCount        int       `json:"error_count"`        // Number of errors encountered
	DryRun            bool      `json:"dry_run"`            // Whether this was a dry run
	ExecutedAt        time.Time `json:"executed_at"`        // When the cleanup was executed
	DeletedProperties []string  `json:"deleted_properties"` // External IDs of deleted properties
	Errors            []string  `json:"errors,omitempty"`   // Error messages
}

// FindStaleProperties finds properties whose last crawl is older than the
// retention window. A listing that keeps reappearing in ingestion runs has
// its crawled_at refreshed and never qualifies.
func (s *Service) FindStaleProperties(retentionDays int) ([]models.Property, error) {
	var properties []models.Property

	cutoffDate := time.Now().AddDate(0, 0, -retentionDays)

	err := s.db.Where("crawled_at < ?", cutoffDate).Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find stale properties: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"count":  len(properties),
		"cutoff": cutoffDate.Format("2006-01-02"),
	}).Info("Found stale properties")
	return properties, nil
}

// PhysicallyDelete removes stale properties and their sub-entity rows,
// writing a delete log entry per property inside the same transaction.
func (s *Service) PhysicallyDelete(config CleanupConfig) (*CleanupResult, error) {
	result := &CleanupResult{
		DryRun:     config.DryRun,
		ExecutedAt: time.Now(),
	}

	staleProperties, err := s.FindStaleProperties(config.RetentionDays)
	if err != nil {
		return nil, err
	}

	result.TargetCount = len(staleProperties)

	if result.TargetCount == 0 {
		s.logger.Info("No stale properties found for deletion")
		return result, nil
	}

	// Safety check: abort if too many properties would be deleted
	if result.TargetCount > config.MaxDeletionCount {
		return nil, fmt.Errorf("safety check failed: %d properties exceed max deletion limit of %d",
			result.TargetCount, config.MaxDeletionCount)
	}

	s.logger.WithFields(logrus.Fields{
		"targets":   result.TargetCount,
		"retention": config.RetentionDays,
		"dry_run":   config.DryRun,
	}).Info("Starting cleanup")

	for _, prop := range staleProperties {
		if config.DryRun {
			s.logger.WithFields(logrus.Fields{
				"external_id": prop.ExternalID,
				"name":        prop.Name,
				"crawled_at":  prop.CrawledAt.Format("2006-01-02"),
			}).Info("[DRY-RUN] Would delete property")
			result.DeletedProperties = append(result.DeletedProperties, prop.ExternalID)
			result.DeletedCount++
			continue
		}

		if err := s.deleteProperty(prop); err != nil {
			s.logger.WithError(err).WithField("external_id", prop.ExternalID).Error("Property deletion failed")
			result.Errors = append(result.Errors, err.Error())
			result.ErrorCount++
			continue
		}

		result.DeletedProperties = append(result.DeletedProperties, prop.ExternalID)
		result.DeletedCount++
	}

	s.logger.WithFields(logrus.Fields{
		"deleted": result.DeletedCount,
		"targets": result.TargetCount,
		"errors":  result.ErrorCount,
		"dry_run": config.DryRun,
	}).Info("Cleanup completed")

	return result, nil
}

// deleteProperty removes one property, its sub-entity rows and its change
// history atomically, recording a delete log entry first.
func (s *Service) deleteProperty(prop models.Property) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		deleteLog := models.DeleteLog{
			PropertyID: prop.ID,
			ExternalID: prop.ExternalID,
			Name:       prop.Name,
			CrawledAt:  prop.CrawledAt,
			Reason:     models.DeleteReasonStale,
		}
		if err := tx.Create(&deleteLog).Error; err != nil {
			return fmt.Errorf("create delete log for property %s: %w", prop.ExternalID, err)
		}

		subEntities := []interface{}{
			&models.PropertyDetails{},
			&models.PropertyPricing{},
			&models.PropertyOccupancy{},
			&models.PropertyImage{},
			&models.PropertyReview{},
			&models.PropertyReviewSummary{},
			&models.PropertyChange{},
		}
		for _, entity := range subEntities {
			if err := tx.Where("property_id = ?", prop.ID).Delete(entity).Error; err != nil {
				return fmt.Errorf("delete sub-entities for property %s: %w", prop.ExternalID, err)
			}
		}

		if err := tx.Delete(&prop).Error; err != nil {
			return fmt.Errorf("delete property %s: %w", prop.ExternalID, err)
		}
		return nil
	})
}

// GetDeleteStats returns statistics about deleted properties
func (s *Service) GetDeleteStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var totalDeleted int64
	if err := s.db.Model(&models.DeleteLog{}).Count(&totalDeleted).Error; err != nil {
		return nil, err
	}
	stats["total_deleted"] = totalDeleted

	var reasonCounts []struct {
		Reason string
		Count  int64
	}
	if err := s.db.Model(&models.DeleteLog{}).
		Select("reason, count(*) as count").
		Group("reason").
		Scan(&reasonCounts).Error; err != nil {
		return nil, err
	}

	reasonMap := make(map[string]int64)
	for _, rc := range reasonCounts {
		reasonMap[rc.Reason] = rc.Count
	}
	stats["by_reason"] = reasonMap

	// Recent deletions (last 30 days)
	var recentDeleted int64
	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	if err := s.db.Model(&models.DeleteLog{}).
		Where("deleted_at >= ?", thirtyDaysAgo).
		Count(&recentDeleted).Error; err != nil {
		return nil, err
	}
	stats["deleted_last_30_days"] = recentDeleted

	return stats, nil
}

// GetRecentDeleteLogs returns recent delete log entries
func (s *Service) GetRecentDeleteLogs(limit int) ([]models.DeleteLog, error) {
	var logs []models.DeleteLog
	err := s.db.Order("deleted_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
