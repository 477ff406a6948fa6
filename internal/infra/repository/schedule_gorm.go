package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/salonflow/salon-queue/internal/domain/schedule"
	"github.com/salonflow/salon-queue/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// Transaction binds a repository to one gorm transaction; a returned error
// rolls everything back.
func (r *ScheduleGormRepository) Transaction(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ScheduleGormRepository{db: tx})
	})
}

// IsUniqueViolation reports whether err is a postgres duplicate-key error,
// e.g. a second active check-in racing past the existence check.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --------------------------------------------------
// Facility
// --------------------------------------------------

func (r *ScheduleGormRepository) GetFacilityByID(
	ctx context.Context,
	id uint,
) (*models.Facility, error) {

	var facility models.Facility
	if err := r.db.WithContext(ctx).First(&facility, id).Error; err != nil {
		return nil, err
	}
	return &facility, nil
}

func (r *ScheduleGormRepository) GetFacilityBySlug(
	ctx context.Context,
	slug string,
) (*models.Facility, error) {

	var facility models.Facility
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&facility).Error; err != nil {
		return nil, err
	}
	return &facility, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *ScheduleGormRepository) GetService(
	ctx context.Context,
	facilityID uint,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND facility_id = ?", serviceID, facilityID).
		First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// --------------------------------------------------
// Employee queue
// --------------------------------------------------

func (r *ScheduleGormRepository) ActiveQueueEntries(
	ctx context.Context,
	facilityID uint,
) ([]models.EmployeeQueueEntry, error) {

	var entries []models.EmployeeQueueEntry
	if err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("facility_id = ? AND is_active", facilityID).
		Order("queue_round ASC, position_in_queue ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *ScheduleGormRepository) ActiveEntryForEmployee(
	ctx context.Context,
	facilityID uint,
	employeeID uint,
) (*models.EmployeeQueueEntry, error) {

	var entry models.EmployeeQueueEntry
	err := r.db.WithContext(ctx).
		Where("facility_id = ? AND employee_id = ? AND is_active", facilityID, employeeID).
		First(&entry).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *ScheduleGormRepository) MaxActivePosition(
	ctx context.Context,
	facilityID uint,
) (int, error) {

	var max int
	err := r.db.WithContext(ctx).
		Model(&models.EmployeeQueueEntry{}).
		Where("facility_id = ? AND is_active", facilityID).
		Select("COALESCE(MAX(position_in_queue), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

func (r *ScheduleGormRepository) CreateQueueEntry(
	ctx context.Context,
	entry *models.EmployeeQueueEntry,
) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ScheduleGormRepository) DeactivateQueueEntry(
	ctx context.Context,
	facilityID uint,
	entryID uint,
	checkOut time.Time,
) (bool, error) {

	// Conditional on is_active so a second check-out changes nothing;
	// scoped by facility so staff can never touch another facility's queue.
	res := r.db.WithContext(ctx).
		Model(&models.EmployeeQueueEntry{}).
		Where("id = ? AND facility_id = ? AND is_active", entryID, facilityID).
		Updates(map[string]any{
			"is_active":              false,
			"check_out_time":         checkOut,
			"current_appointment_id": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ScheduleGormRepository) CompactPositions(
	ctx context.Context,
	facilityID uint,
) error {

	var entries []models.EmployeeQueueEntry
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("facility_id = ? AND is_active", facilityID).
		Order("queue_round ASC, position_in_queue ASC").
		Find(&entries).Error; err != nil {
		return err
	}

	for i, entry := range entries {
		want := i + 1
		if entry.PositionInQueue == want {
			continue
		}
		if err := r.db.WithContext(ctx).
			Model(&models.EmployeeQueueEntry{}).
			Where("id = ?", entry.ID).
			Update("position_in_queue", want).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *ScheduleGormRepository) SetCurrentAppointment(
	ctx context.Context,
	entryID uint,
	appointmentID *uint,
	at time.Time,
) error {

	updates := map[string]any{
		"current_appointment_id": appointmentID,
	}
	if appointmentID != nil {
		updates["last_assignment_time"] = at
	}

	return r.db.WithContext(ctx).
		Model(&models.EmployeeQueueEntry{}).
		Where("id = ?", entryID).
		Updates(updates).Error
}

func (r *ScheduleGormRepository) SetBreak(
	ctx context.Context,
	entryID uint,
	breakStart *time.Time,
	breakEnd *time.Time,
) error {

	return r.db.WithContext(ctx).
		Model(&models.EmployeeQueueEntry{}).
		Where("id = ?", entryID).
		Updates(map[string]any{
			"break_start": breakStart,
			"break_end":   breakEnd,
		}).Error
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *ScheduleGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *ScheduleGormRepository) GetAppointment(
	ctx context.Context,
	facilityID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND facility_id = ?", appointmentID, facilityID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *ScheduleGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *ScheduleGormRepository) CountOverlappingAppointments(
	ctx context.Context,
	employeeID uint,
	window domain.Window,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"employee_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			employeeID,
			[]string{
				string(domain.StatusScheduled),
				string(domain.StatusPendingApproval),
				string(domain.StatusPendingCheckIn),
				string(domain.StatusInProgress),
			},
			window.End,
			window.Start,
		).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *ScheduleGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	facilityID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Service").
		Where(
			"facility_id = ? AND start_time >= ? AND start_time < ?",
			facilityID,
			start,
			end,
		).
		Order("start_time ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// Customer queue
// --------------------------------------------------

func (r *ScheduleGormRepository) NextQueuePosition(
	ctx context.Context,
	facilityID uint,
	day string,
) (int, error) {

	// Single statement upsert-and-increment; concurrent walk-ins each get
	// their own position.
	var position int
	err := r.db.WithContext(ctx).Raw(`
        INSERT INTO daily_queue_counters (facility_id, day, current_position, created_at, updated_at)
        VALUES (?, ?, 1, NOW(), NOW())
        ON CONFLICT (facility_id, day)
        DO UPDATE SET current_position = daily_queue_counters.current_position + 1,
                      updated_at = NOW()
        RETURNING current_position
    `, facilityID, day).Scan(&position).Error
	if err != nil {
		return 0, err
	}
	return position, nil
}

func (r *ScheduleGormRepository) CreateCustomerQueueEntry(
	ctx context.Context,
	entry *models.CustomerQueueEntry,
) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ScheduleGormRepository) OldestWaitingCustomer(
	ctx context.Context,
	facilityID uint,
) (*models.CustomerQueueEntry, error) {

	var entry models.CustomerQueueEntry
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("facility_id = ? AND status = 'waiting'", facilityID).
		Order("queue_position ASC").
		First(&entry).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *ScheduleGormRepository) DeleteCustomerQueueEntry(
	ctx context.Context,
	entryID uint,
) error {
	return r.db.WithContext(ctx).
		Delete(&models.CustomerQueueEntry{}, entryID).Error
}

func (r *ScheduleGormRepository) ListWaitingCustomers(
	ctx context.Context,
	facilityID uint,
) ([]models.CustomerQueueEntry, error) {

	var entries []models.CustomerQueueEntry
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where("facility_id = ? AND status = 'waiting'", facilityID).
		Order("queue_position ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Compile-time check
var _ domain.Repository = (*ScheduleGormRepository)(nil)
