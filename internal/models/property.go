package models

import "time"

// Property is the reconciliation unit of the ingestion pipeline.
//
// ExternalID is the identifier assigned by the source platform and is the
// sole key used to decide whether an incoming listing is new or already
// known. It is unique per neighborhood; the surrogate ID stays stable
// across crawls while the mutable attributes below are refreshed.
type Property struct {
	ID             int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	NeighborhoodID int64  `gorm:"not null;index;uniqueIndex:idx_neighborhood_external,priority:1" json:"neighborhood_id"`
	ExternalID     string `gorm:"type:varchar(64);not null;uniqueIndex:idx_neighborhood_external,priority:2" json:"external_id"`

	Name         string   `gorm:"type:varchar(255)" json:"name,omitempty"`
	Address      string   `gorm:"type:text" json:"address,omitempty"`
	BuildingType string   `gorm:"type:varchar(50);index" json:"building_type,omitempty"`
	Latitude     *float64 `gorm:"type:decimal(10,7)" json:"latitude,omitempty"`
	Longitude    *float64 `gorm:"type:decimal(10,7)" json:"longitude,omitempty"`

	// WeeklyPrice is denormalized from property_pricing for the search
	// projection. It is never stored on this table.
	WeeklyPrice int `gorm:"->;-:migration" json:"weekly_price,omitempty"`

	CrawledAt time.Time `gorm:"type:datetime" json:"crawled_at"`
	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;autoUpdateTime" json:"updated_at"`
}

func (Property) TableName() string {
	return "properties"
}
