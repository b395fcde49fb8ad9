package models

import "time"

// PropertyChange records a field-level difference detected while updating
// an existing property during an ingestion run. Rows are best-effort: a
// failed change write never fails the run.
type PropertyChange struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID int64     `gorm:"not null;index" json:"property_id"`
	ChangeType string    `gorm:"type:varchar(50);not null" json:"change_type"`
	OldValue   string    `gorm:"type:text" json:"old_value,omitempty"`
	NewValue   string    `gorm:"type:text" json:"new_value,omitempty"`
	DetectedAt time.Time `gorm:"type:datetime;not null;autoCreateTime;index" json:"detected_at"`
}

func (PropertyChange) TableName() string {
	return "property_changes"
}

// ChangeType constants
const (
	ChangeTypeName         = "name_changed"
	ChangeTypeAddress      = "address_changed"
	ChangeTypeBuildingType = "building_type_changed"
	ChangeTypeCoordinates  = "coordinates_changed"
)
