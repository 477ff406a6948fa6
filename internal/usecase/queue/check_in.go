package queue

import (
	"context"
	"time"

	"github.com/salonflow/salon-queue/internal/audit"
	domain "github.com/salonflow/salon-queue/internal/domain/schedule"
	"github.com/salonflow/salon-queue/internal/httperr"
	"github.com/salonflow/salon-queue/internal/models"
	"github.com/salonflow/salon-queue/internal/realtime"
	"github.com/salonflow/salon-queue/internal/timezone"
)

type CheckInEmployee struct {
	repo     domain.Repository
	selector *Selector
	audit    *audit.Dispatcher
	events   realtime.Publisher

	nowIn func(tz string) time.Time
}

func NewCheckInEmployee(
	repo domain.Repository,
	selector *Selector,
	audit *audit.Dispatcher,
	events realtime.Publisher,
) *CheckInEmployee {
	return &CheckInEmployee{
		repo:     repo,
		selector: selector,
		audit:    audit,
		events:   events,
		nowIn:    timezone.NowIn,
	}
}

// Execute adds the employee to the day's queue: round from the facility
// cutoff, position after the current tail. If a customer is already waiting,
// the new check-in takes them straight away instead of idling at the back.
func (uc *CheckInEmployee) Execute(
	ctx context.Context,
	facilityID uint,
	employeeID uint,
) (*CheckInResult, error) {

	facility, err := uc.repo.GetFacilityByID(ctx, facilityID)
	if err != nil {
		return nil, httperr.ErrBusiness("facility_not_found")
	}

	now := uc.nowIn(facility.Timezone)
	result := &CheckInResult{}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		existing, err := tx.ActiveEntryForEmployee(ctx, facilityID, employeeID)
		if err != nil {
			return err
		}
		if existing != nil {
			return httperr.ErrBusiness("already_checked_in")
		}

		cutoff := uc.selector.cutoffFor(facility)

		maxPos, err := tx.MaxActivePosition(ctx, facilityID)
		if err != nil {
			return err
		}

		entry := &models.EmployeeQueueEntry{
			EmployeeID:      employeeID,
			FacilityID:      facilityID,
			CheckInTime:     now,
			IsActive:        true,
			QueueRound:      cutoff.RoundFor(now),
			PositionInQueue: maxPos + 1,
		}
		if err := tx.CreateQueueEntry(ctx, entry); err != nil {
			return err
		}
		result.Entry = entry

		// Opportunistic pickup: a waiting customer goes to the fresh
		// check-in without a round-robin pass.
		waiting, err := tx.OldestWaitingCustomer(ctx, facilityID)
		if err != nil {
			return err
		}
		if waiting == nil {
			return nil
		}

		service, err := tx.GetService(ctx, facilityID, waiting.ServiceID)
		if err != nil {
			return err
		}

		ap := &models.Appointment{
			FacilityID:    facilityID,
			EmployeeID:    employeeID,
			ServiceID:     service.ID,
			CustomerName:  waiting.CustomerName,
			CustomerEmail: waiting.CustomerEmail,
			CustomerPhone: waiting.CustomerPhone,
			StartTime:     now,
			EndTime:       now.Add(time.Duration(service.DurationMin) * time.Minute),
			Status:        string(domain.StatusInProgress),
			Price:         service.Price,
			ComboID:       waiting.ComboID,
			ArrivalTime:   &waiting.CreatedAt,
		}
		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}
		if err := tx.DeleteCustomerQueueEntry(ctx, waiting.ID); err != nil {
			return err
		}
		if err := tx.SetCurrentAppointment(ctx, entry.ID, &ap.ID, now); err != nil {
			return err
		}

		result.Assigned = ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.events.Publish(ctx, realtime.NewEvent(
		realtime.TableEmployeeQueue, realtime.ActionInsert, facilityID, result.Entry,
	))
	uc.audit.Dispatch(audit.Event{
		FacilityID: facilityID,
		EmployeeID: &employeeID,
		Action:     "employee_checked_in",
		Entity:     "employee_queue_entry",
		EntityID:   &result.Entry.ID,
	})

	if result.Assigned != nil {
		uc.events.Publish(ctx, realtime.NewEvent(
			realtime.TableAppointments, realtime.ActionInsert, facilityID, result.Assigned,
		))
	}

	return result, nil
}
