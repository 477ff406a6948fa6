package models

import "time"

type Employee struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	FacilityID uint     `json:"facility_id"`
	Facility   Facility `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"facility"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'employee'" json:"role"`

	TableNumber int  `json:"table_number"`
	Approved    bool `gorm:"default:false" json:"approved"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
