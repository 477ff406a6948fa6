package models

import "time"

// EmployeeQueueEntry is one employee's participation in a facility's daily
// round-robin queue. An employee has at most one active entry per facility;
// check-out deactivates the entry instead of deleting it.
type EmployeeQueueEntry struct {
	ID uint `gorm:"primaryKey" json:"id"`

	EmployeeID uint     `gorm:"index" json:"employee_id"`
	Employee   Employee `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"employee"`

	FacilityID uint `gorm:"index" json:"facility_id"`

	CheckInTime  time.Time  `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	IsActive     bool       `gorm:"index;default:true" json:"is_active"`

	QueueRound      int `json:"queue_round"`
	PositionInQueue int `json:"position_in_queue"`

	CurrentAppointmentID *uint      `json:"current_appointment_id"`
	LastAssignmentTime   *time.Time `json:"last_assignment_time"`

	BreakStart *time.Time `json:"break_start"`
	BreakEnd   *time.Time `json:"break_end"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OnBreak reports whether the entry has an open break at the given moment.
func (e *EmployeeQueueEntry) OnBreak(now time.Time) bool {
	if e.BreakStart == nil {
		return false
	}
	return e.BreakEnd == nil || e.BreakEnd.After(now)
}
