package models

import "time"

// Sub-entity rows are written once when their property is first inserted
// and never touched by the ingestion pipeline afterwards. Rows may be
// absent for properties that predate a schema change; absence is not an
// error state.

// PropertyDetails holds room layout and facility flags (1:1).
type PropertyDetails struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID int64 `gorm:"not null;uniqueIndex" json:"property_id"`

	RoomCount    int  `gorm:"not null;default:0" json:"room_count"`
	BathCount    int  `gorm:"not null;default:0" json:"bath_count"`
	KitchenCount int  `gorm:"not null;default:0" json:"kitchen_count"`
	HasElevator  bool `gorm:"not null;default:false" json:"has_elevator"`
	HasParking   bool `gorm:"not null;default:false" json:"has_parking"`
	IsSuperHost  bool `gorm:"not null;default:false" json:"is_super_host"`

	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`
}

func (PropertyDetails) TableName() string {
	return "property_details"
}

// PropertyPricing holds the weekly rate plus the discount tiers the source
// platform publishes for 2..12 week stays (1:1).
type PropertyPricing struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID int64 `gorm:"not null;uniqueIndex" json:"property_id"`

	WeeklyPrice       int `gorm:"not null;default:0" json:"weekly_price"`
	WeeklyMaintenance int `gorm:"not null;default:0" json:"weekly_maintenance"`
	CleaningFee       int `gorm:"not null;default:0" json:"cleaning_fee"`

	// 할인율(%) per stay length in weeks.
	Discount2Weeks  int `gorm:"not null;default:0" json:"discount_2_weeks"`
	Discount3Weeks  int `gorm:"not null;default:0" json:"discount_3_weeks"`
	Discount4Weeks  int `gorm:"not null;default:0" json:"discount_4_weeks"`
	Discount5Weeks  int `gorm:"not null;default:0" json:"discount_5_weeks"`
	Discount6Weeks  int `gorm:"not null;default:0" json:"discount_6_weeks"`
	Discount7Weeks  int `gorm:"not null;default:0" json:"discount_7_weeks"`
	Discount8Weeks  int `gorm:"not null;default:0" json:"discount_8_weeks"`
	Discount9Weeks  int `gorm:"not null;default:0" json:"discount_9_weeks"`
	Discount10Weeks int `gorm:"not null;default:0" json:"discount_10_weeks"`
	Discount11Weeks int `gorm:"not null;default:0" json:"discount_11_weeks"`
	Discount12Weeks int `gorm:"not null;default:0" json:"discount_12_weeks"`

	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`
}

func (PropertyPricing) TableName() string {
	return "property_pricing"
}

// PropertyOccupancy holds occupancy rates over trailing windows (1:1).
type PropertyOccupancy struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID int64 `gorm:"not null;uniqueIndex" json:"property_id"`

	OccupancyRate  int `gorm:"not null;default:0" json:"occupancy_rate"`
	Occupancy2Rate int `gorm:"not null;default:0" json:"occupancy_2rate"`
	Occupancy3Rate int `gorm:"not null;default:0" json:"occupancy_3rate"`

	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`
}

func (PropertyOccupancy) TableName() string {
	return "property_occupancy"
}

// PropertyImage stores the primary image of a property (0:1). Only the
// first image supplied by the source is persisted.
type PropertyImage struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID int64     `gorm:"not null;index" json:"property_id"`
	ImageURL   string    `gorm:"type:text;not null" json:"image_url"`
	IsPrimary  bool      `gorm:"not null;default:false" json:"is_primary"`
	CreatedAt  time.Time `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`
}

func (PropertyImage) TableName() string {
	return "property_images"
}

// PropertyReview is one source review (1:N).
type PropertyReview struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID int64      `gorm:"not null;index" json:"property_id"`
	UserName   string     `gorm:"type:varchar(100)" json:"user_name,omitempty"`
	Score      float64    `gorm:"type:decimal(3,1);not null;default:0" json:"score"`
	Content    string     `gorm:"type:text" json:"content,omitempty"`
	ReviewedAt *time.Time `gorm:"type:datetime" json:"reviewed_at,omitempty"`
	CreatedAt  time.Time  `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`
}

func (PropertyReview) TableName() string {
	return "property_reviews"
}

// PropertyReviewSummary is the aggregate the source publishes per listing (0:1).
type PropertyReviewSummary struct {
	ID             int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID     int64      `gorm:"not null;uniqueIndex" json:"property_id"`
	ReviewCount    int        `gorm:"not null;default:0" json:"review_count"`
	AverageScore   float64    `gorm:"type:decimal(3,1);not null;default:0" json:"average_score"`
	LatestReviewAt *time.Time `gorm:"type:datetime" json:"latest_review_at,omitempty"`
	CreatedAt      time.Time  `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`
}

func (PropertyReviewSummary) TableName() string {
	return "property_review_summaries"
}
