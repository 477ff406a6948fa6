package booking

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

type CancelBooking struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	events realtime.Publisher

	nowIn func(tz string) time.Time
}

func NewCancelBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
	events realtime.Publisher,
) *CancelBooking {
	return &CancelBooking{
		repo:   repo,
		audit:  audit,
		events: events,
		nowIn:  timezone.NowIn,
	}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	facilityID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	facility, err := uc.repo.GetFacilityByID(ctx, facilityID)
	if err != nil {
		return nil, httperr.ErrBusiness("facility_not_found")
	}

	ap, err := uc.repo.GetAppointment(ctx, facilityID, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	now := uc.nowIn(facility.Timezone)
	if err := domain.Cancel(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.events.Publish(ctx, realtime.NewEvent(
		realtime.TableAppointments, realtime.ActionUpdate, facilityID, ap,
	))
	uc.audit.Dispatch(audit.Event{
		FacilityID: facilityID,
		Action:     "booking_cancelled",
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})

	return ap, nil
}
