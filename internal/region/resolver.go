// Package region resolves the three-level administrative hierarchy to
// surrogate IDs, lazily creating missing levels.
package region

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/models"
)

// Resolved carries the surrogate IDs of one resolved hierarchy path.
type Resolved struct {
	CityID         int64 `json:"city_id"`
	DistrictID     int64 `json:"district_id"`
	NeighborhoodID int64 `json:"neighborhood_id"`
}

// Resolver implements get-or-create for City, District and Neighborhood.
// Resolution is not transactional: a concurrent run creating the same node
// surfaces as a duplicate-key error on insert, which is retried once as a
// lookup. The unique name constraints make the operation idempotent.
type Resolver struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewResolver creates a hierarchy resolver.
func NewResolver(db *gorm.DB, logger *logrus.Logger) *Resolver {
	return &Resolver{db: db, logger: logger}
}

// ResolveCity gets or creates the top-level node. Failure here is fatal to
// an ingestion run: there is nowhere to attach properties.
func (r *Resolver) ResolveCity(name string) (*models.City, error) {
	var city models.City
	err := r.db.Where("name = ?", name).First(&city).Error
	if err == nil {
		return &city, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup city %q: %w", name, err)
	}

	city = models.City{Name: name}
	if err := r.db.Create(&city).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("create city %q: %w", name, err)
		}
		// Created by a concurrent run; fetch the now-existing row.
		r.logger.WithField("city", name).Debug("Duplicate key on city insert, retrying as lookup")
		if err := r.db.Where("name = ?", name).First(&city).Error; err != nil {
			return nil, fmt.Errorf("lookup city %q after duplicate key: %w", name, err)
		}
	}
	return &city, nil
}

// ResolveDistrict gets or creates the middle-level node under a city.
func (r *Resolver) ResolveDistrict(cityID int64, name string) (*models.District, error) {
	var district models.District
	err := r.db.Where("city_id = ? AND name = ?", cityID, name).First(&district).Error
	if err == nil {
		return &district, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup district %q: %w", name, err)
	}

	district = models.District{CityID: cityID, Name: name}
	if err := r.db.Create(&district).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("create district %q: %w", name, err)
		}
		r.logger.WithField("district", name).Debug("Duplicate key on district insert, retrying as lookup")
		if err := r.db.Where("city_id = ? AND name = ?", cityID, name).First(&district).Error; err != nil {
			return nil, fmt.Errorf("lookup district %q after duplicate key: %w", name, err)
		}
	}
	return &district, nil
}

// ResolveNeighborhood gets or creates the leaf node under a district, then
// unconditionally stamps last_synced_at and property_count with the size
// of the current batch, whether or not the node already existed.
func (r *Resolver) ResolveNeighborhood(districtID int64, name string, batchSize int) (*models.Neighborhood, error) {
	var neighborhood models.Neighborhood
	err := r.db.Where("district_id = ? AND name = ?", districtID, name).First(&neighborhood).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		neighborhood = models.Neighborhood{DistrictID: districtID, Name: name}
		if err := r.db.Create(&neighborhood).Error; err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, fmt.Errorf("create neighborhood %q: %w", name, err)
			}
			r.logger.WithField("neighborhood", name).Debug("Duplicate key on neighborhood insert, retrying as lookup")
			if err := r.db.Where("district_id = ? AND name = ?", districtID, name).First(&neighborhood).Error; err != nil {
				return nil, fmt.Errorf("lookup neighborhood %q after duplicate key: %w", name, err)
			}
		}
	} else if err != nil {
		return nil, fmt.Errorf("lookup neighborhood %q: %w", name, err)
	}

	now := time.Now()
	err = r.db.Model(&models.Neighborhood{}).
		Where("id = ?", neighborhood.ID).
		Updates(map[string]interface{}{
			"last_synced_at": &now,
			"property_count": batchSize,
		}).Error
	if err != nil {
		return nil, fmt.Errorf("stamp neighborhood %q: %w", name, err)
	}

	neighborhood.LastSyncedAt = &now
	neighborhood.PropertyCount = batchSize
	return &neighborhood, nil
}

// Resolve walks all three levels sequentially and returns their IDs.
func (r *Resolver) Resolve(province, district, neighborhood string, batchSize int) (*Resolved, error) {
	city, err := r.ResolveCity(province)
	if err != nil {
		return nil, err
	}

	d, err := r.ResolveDistrict(city.ID, district)
	if err != nil {
		return nil, err
	}

	n, err := r.ResolveNeighborhood(d.ID, neighborhood, batchSize)
	if err != nil {
		return nil, err
	}

	return &Resolved{CityID: city.ID, DistrictID: d.ID, NeighborhoodID: n.ID}, nil
}
