package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	FacilityID uint     `json:"facility_id"`
	Facility   Facility `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"facility"`

	EmployeeID uint     `json:"employee_id"`
	Employee   Employee `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"employee"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	CustomerName  string `gorm:"size:100;not null" json:"customer_name"`
	CustomerEmail string `gorm:"size:100" json:"customer_email"`
	CustomerPhone string `gorm:"size:20" json:"customer_phone"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status string `gorm:"size:20;default:'scheduled'" json:"status"`

	Price  float64 `json:"price"`
	IsPaid bool    `gorm:"default:false" json:"is_paid"`

	// ComboID links two appointments booked as a pair, e.g. a
	// manicure+pedicure combo. Empty for single-service visits.
	ComboID string `gorm:"size:36;index" json:"combo_id"`

	ArrivalTime *time.Time `json:"arrival_time"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	Notes string `gorm:"size:255" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
