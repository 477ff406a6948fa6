package models

import "time"

// DailyQueueCounter hands out customer queue positions for one facility and
// one calendar day. The increment is a single UPDATE .. RETURNING so two
// simultaneous walk-ins can never draw the same position.
type DailyQueueCounter struct {
	ID uint `gorm:"primaryKey" json:"id"`

	FacilityID uint   `gorm:"uniqueIndex:idx_counter_facility_day" json:"facility_id"`
	Day        string `gorm:"size:10;uniqueIndex:idx_counter_facility_day" json:"day"` // YYYY-MM-DD

	CurrentPosition int `json:"current_position"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
