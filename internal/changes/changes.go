// Package changes records field-level diffs for properties refreshed by an
// ingestion run, feeding the dashboard's recent-activity view.
package changes

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/models"
)

// Service handles change detection and persistence
type Service struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewService creates a new change tracking service
func NewService(db *gorm.DB, logger *logrus.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Detect compares the stored state of a property with its incoming state
// and returns one change row per differing mutable field. Sub-entity data
// is write-once and never diffed.
func Detect(old models.Property, incoming *models.Property) []models.PropertyChange {
	var detected []models.PropertyChange

	if old.Name != incoming.Name {
		detected = append(detected, models.PropertyChange{
			PropertyID: old.ID,
			ChangeType: models.ChangeTypeName,
			OldValue:   old.Name,
			NewValue:   incoming.Name,
		})
	}
	if old.Address != incoming.Address {
		detected = append(detected, models.PropertyChange{
			PropertyID: old.ID,
			ChangeType: models.ChangeTypeAddress,
			OldValue:   old.Address,
			NewValue:   incoming.Address,
		})
	}
	if old.BuildingType != incoming.BuildingType {
		detected = append(detected, models.PropertyChange{
			PropertyID: old.ID,
			ChangeType: models.ChangeTypeBuildingType,
			OldValue:   old.BuildingType,
			NewValue:   incoming.BuildingType,
		})
	}
	if !floatPtrEqual(old.Latitude, incoming.Latitude) || !floatPtrEqual(old.Longitude, incoming.Longitude) {
		detected = append(detected, models.PropertyChange{
			PropertyID: old.ID,
			ChangeType: models.ChangeTypeCoordinates,
			OldValue:   formatCoordinates(old.Latitude, old.Longitude),
			NewValue:   formatCoordinates(incoming.Latitude, incoming.Longitude),
		})
	}

	return detected
}

// Record bulk-inserts detected changes. Callers treat failures as
// best-effort: a lost change row never fails an ingestion run.
func (s *Service) Record(detected []models.PropertyChange) error {
	if len(detected) == 0 {
		return nil
	}
	if err := s.db.Create(&detected).Error; err != nil {
		return fmt.Errorf("failed to record property changes: %w", err)
	}
	return nil
}

// GetRecent retrieves recent property changes
func (s *Service) GetRecent(limit int) ([]models.PropertyChange, error) {
	var detected []models.PropertyChange
	query := s.db.Order("detected_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&detected).Error; err != nil {
		return nil, err
	}
	return detected, nil
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

func formatCoordinates(lat, lng *float64) string {
	if lat == nil || lng == nil {
		return ""
	}
	return fmt.Sprintf("%.7f,%.7f", *lat, *lng)
}
