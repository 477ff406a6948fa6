package models

import "time"

// CustomerQueueEntry is a walk-in customer waiting for any available
// employee. The row is deleted once an appointment is created for the
// customer.
type CustomerQueueEntry struct {
	ID uint `gorm:"primaryKey" json:"id"`

	FacilityID uint `gorm:"index" json:"facility_id"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	CustomerName  string `gorm:"size:100;not null" json:"customer_name"`
	CustomerEmail string `gorm:"size:100" json:"customer_email"`
	CustomerPhone string `gorm:"size:20" json:"customer_phone"`

	Status string `gorm:"size:20;default:'waiting'" json:"status"`

	// QueuePosition comes from the facility's daily counter and only ever
	// increases within a day.
	QueuePosition int `gorm:"index" json:"queue_position"`

	ComboID string `gorm:"size:36;index" json:"combo_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
