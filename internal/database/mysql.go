package database

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/models"
)

type GormDB struct {
	db *gorm.DB
}

func NewGormDB(host, port, user, password, dbname string) (*GormDB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, port, dbname)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
		// The hierarchy resolver relies on gorm.ErrDuplicatedKey to
		// distinguish a lost get-or-create race from other failures.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return &GormDB{db: db}, nil
}

// NewGormDBFromDB creates a GormDB wrapper from an existing gorm.DB instance
func NewGormDBFromDB(db *gorm.DB) *GormDB {
	return &GormDB{db: db}
}

// DB returns the underlying gorm.DB instance
func (gdb *GormDB) DB() *gorm.DB {
	return gdb.db
}

func (gdb *GormDB) Close() error {
	sqlDB, err := gdb.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InitSchema creates tables using GORM AutoMigrate
func (gdb *GormDB) InitSchema() error {
	return gdb.db.AutoMigrate(
		&models.City{},
		&models.District{},
		&models.Neighborhood{},
		&models.Property{},
		&models.PropertyDetails{},
		&models.PropertyPricing{},
		&models.PropertyOccupancy{},
		&models.PropertyImage{},
		&models.PropertyReview{},
		&models.PropertyReviewSummary{},
		&models.PropertyChange{},
		&models.DeleteLog{},
	)
}

// ExistingIDMap returns external_id -> surrogate ID for the identifiers
// that already exist in the neighborhood. Callers pass at most one chunk;
// the membership query list is bounded by the ingest chunk size.
func (gdb *GormDB) ExistingIDMap(neighborhoodID int64, externalIDs []string) (map[string]int64, error) {
	idMap := make(map[string]int64, len(externalIDs))
	if len(externalIDs) == 0 {
		return idMap, nil
	}

	var rows []struct {
		ID         int64
		ExternalID string
	}
	err := gdb.db.Model(&models.Property{}).
		Select("id, external_id").
		Where("neighborhood_id = ? AND external_id IN ?", neighborhoodID, externalIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		idMap[row.ExternalID] = row.ID
	}
	return idMap, nil
}

// InsertProperties bulk-inserts new property rows. GORM backfills the
// generated surrogate IDs into the passed structs.
func (gdb *GormDB) InsertProperties(properties []*models.Property) error {
	if len(properties) == 0 {
		return nil
	}
	return gdb.db.Create(&properties).Error
}

// UpdateProperty refreshes the mutable attributes of an existing row.
// CreatedAt, ExternalID, NeighborhoodID and all sub-entity rows are left
// untouched so previously curated data survives updates.
func (gdb *GormDB) UpdateProperty(property *models.Property) error {
	return gdb.db.Model(&models.Property{}).
		Where("id = ?", property.ID).
		Updates(map[string]interface{}{
			"name":          property.Name,
			"address":       property.Address,
			"building_type": property.BuildingType,
			"latitude":      property.Latitude,
			"longitude":     property.Longitude,
			"crawled_at":    property.CrawledAt,
		}).Error
}

// FetchProperties loads property rows by surrogate ID.
func (gdb *GormDB) FetchProperties(ids []int64) ([]models.Property, error) {
	var properties []models.Property
	if len(ids) == 0 {
		return properties, nil
	}
	err := gdb.db.Where("id IN ?", ids).Find(&properties).Error
	return properties, err
}

func (gdb *GormDB) InsertDetails(rows []models.PropertyDetails) error {
	if len(rows) == 0 {
		return nil
	}
	return gdb.db.Create(&rows).Error
}

func (gdb *GormDB) InsertPricing(rows []models.PropertyPricing) error {
	if len(rows) == 0 {
		return nil
	}
	return gdb.db.Create(&rows).Error
}

func (gdb *GormDB) InsertOccupancy(rows []models.PropertyOccupancy) error {
	if len(rows) == 0 {
		return nil
	}
	return gdb.db.Create(&rows).Error
}

func (gdb *GormDB) InsertImages(rows []models.PropertyImage) error {
	if len(rows) == 0 {
		return nil
	}
	return gdb.db.Create(&rows).Error
}

func (gdb *GormDB) InsertReviews(rows []models.PropertyReview) error {
	if len(rows) == 0 {
		return nil
	}
	return gdb.db.Create(&rows).Error
}

func (gdb *GormDB) InsertReviewSummaries(rows []models.PropertyReviewSummary) error {
	if len(rows) == 0 {
		return nil
	}
	return gdb.db.Create(&rows).Error
}

// ListCities returns all hierarchy roots ordered by name.
func (gdb *GormDB) ListCities() ([]models.City, error) {
	var cities []models.City
	err := gdb.db.Order("name ASC").Find(&cities).Error
	return cities, err
}

// ListDistricts returns the districts under one city.
func (gdb *GormDB) ListDistricts(cityID int64) ([]models.District, error) {
	var districts []models.District
	err := gdb.db.Where("city_id = ?", cityID).Order("name ASC").Find(&districts).Error
	return districts, err
}

// ListNeighborhoods returns the neighborhoods under one district.
func (gdb *GormDB) ListNeighborhoods(districtID int64) ([]models.Neighborhood, error) {
	var neighborhoods []models.Neighborhood
	err := gdb.db.Where("district_id = ?", districtID).Order("name ASC").Find(&neighborhoods).Error
	return neighborhoods, err
}

// GetPropertiesPage pages through all properties for reindexing. The
// weekly price is joined in so the search projection carries it.
func (gdb *GormDB) GetPropertiesPage(offset, limit int) ([]models.Property, error) {
	var properties []models.Property
	err := gdb.db.Model(&models.Property{}).
		Select("properties.*, property_pricing.weekly_price AS weekly_price").
		Joins("LEFT JOIN property_pricing ON property_pricing.property_id = properties.id").
		Order("properties.id ASC").
		Offset(offset).Limit(limit).
		Find(&properties).Error
	return properties, err
}
