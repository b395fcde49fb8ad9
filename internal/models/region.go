package models

import "time"

// City is the top level of the administrative hierarchy (시/도 단위).
// Names are stored in their canonical form, e.g. "강원특별자치도" rather
// than the pre-2023 "강원도".
type City struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`
}

func (City) TableName() string {
	return "cities"
}

// District is the middle level (시/군/구 단위), unique within its city.
type District struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CityID    int64     `gorm:"not null;uniqueIndex:idx_city_district,priority:1;index" json:"city_id"`
	Name      string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_city_district,priority:2" json:"name"`
	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`
}

func (District) TableName() string {
	return "districts"
}

// Neighborhood is the leaf level (동/읍/면/리 단위), unique within its district.
// LastSyncedAt and PropertyCount are refreshed on every ingestion run that
// targets the neighborhood, even when the run inserts nothing new.
type Neighborhood struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	DistrictID    int64      `gorm:"not null;uniqueIndex:idx_district_neighborhood,priority:1;index" json:"district_id"`
	Name          string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_district_neighborhood,priority:2" json:"name"`
	LastSyncedAt  *time.Time `gorm:"type:datetime" json:"last_synced_at,omitempty"`
	PropertyCount int        `gorm:"not null;default:0" json:"property_count"`
	CreatedAt     time.Time  `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`
}

func (Neighborhood) TableName() string {
	return "neighborhoods"
}
