package schedule

import "github.com/salonflow/salon-queue/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled       Status = "scheduled"
	StatusPendingApproval Status = "pending_approval"
	StatusPendingCheckIn  Status = "pending_check_in"
	StatusInProgress      Status = "in_progress"
	StatusCompleted       Status = "completed"
	StatusCancelled       Status = "cancelled"
)

// BlocksEmployee reports whether an appointment in this status occupies the
// employee's time for availability purposes.
func (s Status) BlocksEmployee() bool {
	switch s {
	case StatusScheduled, StatusPendingApproval, StatusPendingCheckIn, StatusInProgress:
		return true
	}
	return false
}

// ===============================
// Validations
// ===============================

func CanStart(current Status) error {
	switch current {
	case StatusScheduled, StatusPendingApproval, StatusPendingCheckIn:
		return nil
	}
	return httperr.ErrBusiness("invalid_state")
}

func CanComplete(current Status) error {
	if current != StatusInProgress {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanCancel(current Status) error {
	switch current {
	case StatusScheduled, StatusPendingApproval, StatusPendingCheckIn:
		return nil
	}
	return httperr.ErrBusiness("invalid_state")
}
