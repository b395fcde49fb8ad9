package models

import "time"

// DeleteLog records properties physically removed by the retention cleanup.
// Deletion is an administrative action; the ingestion pipeline never deletes.
type DeleteLog struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID int64     `gorm:"not null;index" json:"property_id"`
	ExternalID string    `gorm:"type:varchar(64);not null" json:"external_id"`
	Name       string    `gorm:"type:varchar(255)" json:"name,omitempty"`
	CrawledAt  time.Time `gorm:"type:datetime" json:"crawled_at"`
	DeletedAt  time.Time `gorm:"type:datetime;not null;autoCreateTime;index" json:"deleted_at"`
	Reason     string    `gorm:"type:varchar(50);not null" json:"reason"`
}

func (DeleteLog) TableName() string {
	return "delete_logs"
}

// DeleteReason constants
const (
	DeleteReasonStale  = "stale_listing"
	DeleteReasonManual = "manual_deletion"
)
