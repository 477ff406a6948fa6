package queue

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	domain "github.com/salonflow/salon-queue/internal/domain/schedule"
	"github.com/salonflow/salon-queue/internal/models"
)

// fakeRepo is an in-memory domain.Repository for exercising the queue engine
// without a database. Transactions run the callback directly; rollback
// behavior is not simulated.
type fakeRepo struct {
	facilities map[uint]*models.Facility
	services   map[uint]*models.Service
	entries    []*models.EmployeeQueueEntry
	apps       []*models.Appointment
	waiting    []*models.CustomerQueueEntry
	counters   map[string]int

	nextID uint

	// overlapErrFor makes the overlap check fail for an employee, driving
	// the availability outcome to Unknown.
	overlapErrFor map[uint]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		facilities:    make(map[uint]*models.Facility),
		services:      make(map[uint]*models.Service),
		counters:      make(map[string]int),
		overlapErrFor: make(map[uint]bool),
	}
}

func (f *fakeRepo) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeRepo) Transaction(ctx context.Context, fn func(domain.Repository) error) error {
	return fn(f)
}

func (f *fakeRepo) GetFacilityByID(_ context.Context, id uint) (*models.Facility, error) {
	facility, ok := f.facilities[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return facility, nil
}

func (f *fakeRepo) GetFacilityBySlug(_ context.Context, slug string) (*models.Facility, error) {
	for _, facility := range f.facilities {
		if facility.Slug == slug {
			return facility, nil
		}
	}
	return nil, errors.New("record not found")
}

func (f *fakeRepo) GetService(_ context.Context, facilityID, serviceID uint) (*models.Service, error) {
	service, ok := f.services[serviceID]
	if !ok || service.FacilityID != facilityID {
		return nil, errors.New("record not found")
	}
	return service, nil
}

func (f *fakeRepo) ActiveQueueEntries(_ context.Context, facilityID uint) ([]models.EmployeeQueueEntry, error) {
	var out []models.EmployeeQueueEntry
	for _, e := range f.entries {
		if e.FacilityID == facilityID && e.IsActive {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].QueueRound != out[j].QueueRound {
			return out[i].QueueRound < out[j].QueueRound
		}
		return out[i].PositionInQueue < out[j].PositionInQueue
	})
	return out, nil
}

func (f *fakeRepo) ActiveEntryForEmployee(_ context.Context, facilityID, employeeID uint) (*models.EmployeeQueueEntry, error) {
	for _, e := range f.entries {
		if e.FacilityID == facilityID && e.EmployeeID == employeeID && e.IsActive {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) MaxActivePosition(_ context.Context, facilityID uint) (int, error) {
	max := 0
	for _, e := range f.entries {
		if e.FacilityID == facilityID && e.IsActive && e.PositionInQueue > max {
			max = e.PositionInQueue
		}
	}
	return max, nil
}

func (f *fakeRepo) CreateQueueEntry(_ context.Context, entry *models.EmployeeQueueEntry) error {
	entry.ID = f.id()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeRepo) DeactivateQueueEntry(_ context.Context, facilityID, entryID uint, checkOut time.Time) (bool, error) {
	for _, e := range f.entries {
		if e.ID == entryID && e.FacilityID == facilityID && e.IsActive {
			e.IsActive = false
			e.CheckOutTime = &checkOut
			e.CurrentAppointmentID = nil
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) CompactPositions(ctx context.Context, facilityID uint) error {
	active, _ := f.ActiveQueueEntries(ctx, facilityID)
	for i, snapshot := range active {
		for _, e := range f.entries {
			if e.ID == snapshot.ID {
				e.PositionInQueue = i + 1
			}
		}
	}
	return nil
}

func (f *fakeRepo) SetCurrentAppointment(_ context.Context, entryID uint, appointmentID *uint, at time.Time) error {
	for _, e := range f.entries {
		if e.ID == entryID {
			e.CurrentAppointmentID = appointmentID
			if appointmentID != nil {
				e.LastAssignmentTime = &at
			}
			return nil
		}
	}
	return errors.New("record not found")
}

func (f *fakeRepo) SetBreak(_ context.Context, entryID uint, breakStart, breakEnd *time.Time) error {
	for _, e := range f.entries {
		if e.ID == entryID {
			e.BreakStart = breakStart
			e.BreakEnd = breakEnd
			return nil
		}
	}
	return errors.New("record not found")
}

func (f *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	ap.ID = f.id()
	f.apps = append(f.apps, ap)
	return nil
}

func (f *fakeRepo) GetAppointment(_ context.Context, facilityID, appointmentID uint) (*models.Appointment, error) {
	for _, ap := range f.apps {
		if ap.ID == appointmentID && ap.FacilityID == facilityID {
			return ap, nil
		}
	}
	return nil, errors.New("record not found")
}

func (f *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	for i, existing := range f.apps {
		if existing.ID == ap.ID {
			f.apps[i] = ap
			return nil
		}
	}
	return errors.New("record not found")
}

func (f *fakeRepo) CountOverlappingAppointments(_ context.Context, employeeID uint, window domain.Window) (int64, error) {
	if f.overlapErrFor[employeeID] {
		return 0, errors.New("connection refused")
	}
	var count int64
	for _, ap := range f.apps {
		if ap.EmployeeID != employeeID {
			continue
		}
		if !domain.Status(ap.Status).BlocksEmployee() {
			continue
		}
		if window.Overlaps(domain.Window{Start: ap.StartTime, End: ap.EndTime}) {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) ListAppointmentsForPeriod(_ context.Context, facilityID uint, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.apps {
		if ap.FacilityID == facilityID && !ap.StartTime.Before(start) && ap.StartTime.Before(end) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) NextQueuePosition(_ context.Context, facilityID uint, day string) (int, error) {
	key := fmt.Sprintf("%d/%s", facilityID, day)
	f.counters[key]++
	return f.counters[key], nil
}

func (f *fakeRepo) CreateCustomerQueueEntry(_ context.Context, entry *models.CustomerQueueEntry) error {
	entry.ID = f.id()
	entry.CreatedAt = time.Now()
	f.waiting = append(f.waiting, entry)
	return nil
}

func (f *fakeRepo) OldestWaitingCustomer(_ context.Context, facilityID uint) (*models.CustomerQueueEntry, error) {
	var oldest *models.CustomerQueueEntry
	for _, w := range f.waiting {
		if w.FacilityID != facilityID || w.Status != "waiting" {
			continue
		}
		if oldest == nil || w.QueuePosition < oldest.QueuePosition {
			oldest = w
		}
	}
	return oldest, nil
}

func (f *fakeRepo) DeleteCustomerQueueEntry(_ context.Context, entryID uint) error {
	for i, w := range f.waiting {
		if w.ID == entryID {
			f.waiting = append(f.waiting[:i], f.waiting[i+1:]...)
			return nil
		}
	}
	return errors.New("record not found")
}

func (f *fakeRepo) ListWaitingCustomers(_ context.Context, facilityID uint) ([]models.CustomerQueueEntry, error) {
	var out []models.CustomerQueueEntry
	for _, w := range f.waiting {
		if w.FacilityID == facilityID && w.Status == "waiting" {
			out = append(out, *w)
		}
	}
	return out, nil
}

var _ domain.Repository = (*fakeRepo)(nil)

// --------------------------------------------------
// fixtures
// --------------------------------------------------

var testNow = time.Date(2025, 3, 14, 13, 0, 0, 0, time.UTC)

func fixedNow(string) time.Time { return testNow }

func (f *fakeRepo) addFacility() *models.Facility {
	facility := &models.Facility{
		ID:          f.id(),
		Name:        "Downtown Salon",
		Slug:        "downtown",
		QueueCutoff: "10:00",
	}
	f.facilities[facility.ID] = facility
	return facility
}

func (f *fakeRepo) addService(facilityID uint, durationMin int, price float64) *models.Service {
	service := &models.Service{
		ID:          f.id(),
		FacilityID:  facilityID,
		Name:        fmt.Sprintf("service-%d", f.nextID),
		DurationMin: durationMin,
		Price:       price,
		Active:      true,
	}
	f.services[service.ID] = service
	return service
}

func (f *fakeRepo) addActiveEntry(facilityID uint, round, position int, checkIn time.Time) *models.EmployeeQueueEntry {
	entry := &models.EmployeeQueueEntry{
		ID:              f.id(),
		EmployeeID:      f.id(),
		FacilityID:      facilityID,
		CheckInTime:     checkIn,
		IsActive:        true,
		QueueRound:      round,
		PositionInQueue: position,
	}
	f.entries = append(f.entries, entry)
	return entry
}

func (f *fakeRepo) addWaiting(facilityID, serviceID uint, position int, name string) *models.CustomerQueueEntry {
	entry := &models.CustomerQueueEntry{
		ID:            f.id(),
		FacilityID:    facilityID,
		ServiceID:     serviceID,
		CustomerName:  name,
		Status:        "waiting",
		QueuePosition: position,
		CreatedAt:     testNow.Add(-10 * time.Minute),
	}
	f.waiting = append(f.waiting, entry)
	return entry
}

func (f *fakeRepo) addInProgress(facilityID, employeeID uint, start, end time.Time) *models.Appointment {
	ap := &models.Appointment{
		ID:         f.id(),
		FacilityID: facilityID,
		EmployeeID: employeeID,
		Status:     "in_progress",
		StartTime:  start,
		EndTime:    end,
	}
	f.apps = append(f.apps, ap)
	return ap
}
