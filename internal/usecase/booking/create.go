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
	"github.com/salonflow/salon-queue/internal/usecase/queue"
	"github.com/salonflow/salon-queue/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	FacilitySlug string

	CustomerName string
	Contact      string

	ServiceID uint

	Date  string // YYYY-MM-DD
	Time  string // HH:mm
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo     domain.Repository
	selector *queue.Selector
	audit    *audit.Dispatcher
	events   realtime.Publisher

	nowIn func(tz string) time.Time
}

func NewCreateBooking(
	repo domain.Repository,
	selector *queue.Selector,
	audit *audit.Dispatcher,
	events realtime.Publisher,
) *CreateBooking {
	return &CreateBooking{
		repo:     repo,
		selector: selector,
		audit:    audit,
		events:   events,
		nowIn:    timezone.NowIn,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Appointment, error) {

	facility, err := uc.repo.GetFacilityBySlug(ctx, in.FacilitySlug)
	if err != nil {
		return nil, httperr.ErrBusiness("facility_not_found")
	}

	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		timezone.Location(facility.Timezone),
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	minAdvance := facility.MinAdvanceMinutes
	if minAdvance <= 0 {
		minAdvance = 120
	}

	now := uc.nowIn(facility.Timezone)
	if start.Before(now.Add(time.Duration(minAdvance) * time.Minute)) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	service, err := uc.repo.GetService(ctx, facility.ID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	window := domain.NewWindow(start, time.Duration(service.DurationMin)*time.Minute)
	email, phone := validators.SplitContact(in.Contact)

	var ap *models.Appointment
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		selector := uc.selector.WithRepo(tx)

		entry, err := selector.NextAvailableEmployee(ctx, facility, window)
		if err != nil {
			return err
		}
		if entry == nil {
			return httperr.ErrBusiness("no_employee_available")
		}

		ap = &models.Appointment{
			FacilityID:    facility.ID,
			EmployeeID:    entry.EmployeeID,
			ServiceID:     service.ID,
			CustomerName:  in.CustomerName,
			CustomerEmail: email,
			CustomerPhone: phone,
			StartTime:     window.Start,
			EndTime:       window.End,
			Status:        string(domain.StatusScheduled),
			Price:         service.Price,
			Notes:         in.Notes,
		}
		return tx.CreateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	uc.events.Publish(ctx, realtime.NewEvent(
		realtime.TableAppointments, realtime.ActionInsert, facility.ID, ap,
	))
	uc.audit.Dispatch(audit.Event{
		FacilityID: facility.ID,
		Action:     "booking_created",
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})

	return ap, nil
}
