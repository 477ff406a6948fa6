package schedule

import (
	"context"
	"time"

	"github.com/salonflow/salon-queue/internal/models"
)

type Repository interface {
	// Transaction runs fn against a repository bound to one database
	// transaction. Every multi-row mutation in the queue engine goes
	// through this; a returned error rolls the whole sequence back.
	Transaction(
		ctx context.Context,
		fn func(Repository) error,
	) error

	// -------- Facility --------
	GetFacilityByID(
		ctx context.Context,
		id uint,
	) (*models.Facility, error)

	GetFacilityBySlug(
		ctx context.Context,
		slug string,
	) (*models.Facility, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		facilityID uint,
		serviceID uint,
	) (*models.Service, error)

	// -------- Employee queue --------
	ActiveQueueEntries(
		ctx context.Context,
		facilityID uint,
	) ([]models.EmployeeQueueEntry, error)

	ActiveEntryForEmployee(
		ctx context.Context,
		facilityID uint,
		employeeID uint,
	) (*models.EmployeeQueueEntry, error)

	MaxActivePosition(
		ctx context.Context,
		facilityID uint,
	) (int, error)

	CreateQueueEntry(
		ctx context.Context,
		entry *models.EmployeeQueueEntry,
	) error

	// DeactivateQueueEntry marks the facility's active entry inactive and
	// stamps the check-out time. Returns false when no active entry with
	// that id exists in the facility, so a repeated check-out (or a
	// foreign id) is detectable without a prior read.
	DeactivateQueueEntry(
		ctx context.Context,
		facilityID uint,
		entryID uint,
		checkOut time.Time,
	) (bool, error)

	// CompactPositions renumbers the facility's active entries to
	// contiguous positions ordered by (queue_round, position_in_queue),
	// locking the rows for the duration of the enclosing transaction.
	CompactPositions(
		ctx context.Context,
		facilityID uint,
	) error

	SetCurrentAppointment(
		ctx context.Context,
		entryID uint,
		appointmentID *uint,
		at time.Time,
	) error

	SetBreak(
		ctx context.Context,
		entryID uint,
		breakStart *time.Time,
		breakEnd *time.Time,
	) error

	// -------- Appointment --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		facilityID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// CountOverlappingAppointments counts blocking-status appointments for
	// the employee intersecting the window, locking matched rows.
	CountOverlappingAppointments(
		ctx context.Context,
		employeeID uint,
		window Window,
	) (int64, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		facilityID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// -------- Customer queue --------

	// NextQueuePosition atomically increments and returns the facility's
	// counter for the given day (YYYY-MM-DD), creating it at 1 on the
	// first walk-in.
	NextQueuePosition(
		ctx context.Context,
		facilityID uint,
		day string,
	) (int, error)

	CreateCustomerQueueEntry(
		ctx context.Context,
		entry *models.CustomerQueueEntry,
	) error

	// OldestWaitingCustomer returns the waiting entry with the lowest
	// queue_position, or nil when nobody is waiting.
	OldestWaitingCustomer(
		ctx context.Context,
		facilityID uint,
	) (*models.CustomerQueueEntry, error)

	DeleteCustomerQueueEntry(
		ctx context.Context,
		entryID uint,
	) error

	ListWaitingCustomers(
		ctx context.Context,
		facilityID uint,
	) ([]models.CustomerQueueEntry, error)
}
