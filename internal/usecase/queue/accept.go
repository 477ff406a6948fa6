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

// AcceptCustomerCheckIn confirms a booked customer at the desk: the
// appointment moves to in_progress and, when the employee is in the active
// queue, their current-appointment pointer is set.
type AcceptCustomerCheckIn struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	events realtime.Publisher

	nowIn func(tz string) time.Time
}

func NewAcceptCustomerCheckIn(
	repo domain.Repository,
	audit *audit.Dispatcher,
	events realtime.Publisher,
) *AcceptCustomerCheckIn {
	return &AcceptCustomerCheckIn{
		repo:   repo,
		audit:  audit,
		events: events,
		nowIn:  timezone.NowIn,
	}
}

func (uc *AcceptCustomerCheckIn) Execute(
	ctx context.Context,
	facilityID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	facility, err := uc.repo.GetFacilityByID(ctx, facilityID)
	if err != nil {
		return nil, httperr.ErrBusiness("facility_not_found")
	}
	now := uc.nowIn(facility.Timezone)

	var ap *models.Appointment
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		ap, err = tx.GetAppointment(ctx, facilityID, appointmentID)
		if err != nil {
			return httperr.ErrBusiness("appointment_not_found")
		}

		if err := domain.Start(ap, now); err != nil {
			return err
		}
		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		entry, err := tx.ActiveEntryForEmployee(ctx, facilityID, ap.EmployeeID)
		if err != nil {
			return err
		}
		if entry != nil {
			return tx.SetCurrentAppointment(ctx, entry.ID, &ap.ID, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.events.Publish(ctx, realtime.NewEvent(
		realtime.TableAppointments, realtime.ActionUpdate, facilityID, ap,
	))
	uc.audit.Dispatch(audit.Event{
		FacilityID: facilityID,
		Action:     "customer_check_in_accepted",
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})

	return ap, nil
}
