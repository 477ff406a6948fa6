package queue

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/salonflow/salon-queue/internal/audit"
	domain "github.com/salonflow/salon-queue/internal/domain/schedule"
	"github.com/salonflow/salon-queue/internal/httperr"
	"github.com/salonflow/salon-queue/internal/models"
	"github.com/salonflow/salon-queue/internal/realtime"
	"github.com/salonflow/salon-queue/internal/timezone"
	"github.com/salonflow/salon-queue/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type ProcessArrivalInput struct {
	FacilityID uint

	CustomerName string
	Contact      string // email or phone, told apart by "@"

	// One service, or two taken together as a combo (manicure+pedicure).
	ServiceIDs []uint

	// RequestedStart, when set far enough ahead, books the slot as
	// pending_approval instead of starting service now.
	RequestedStart *time.Time

	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type ProcessCustomerArrival struct {
	repo     domain.Repository
	selector *Selector
	audit    *audit.Dispatcher
	events   realtime.Publisher

	approvalLead time.Duration

	nowIn func(tz string) time.Time
}

func NewProcessCustomerArrival(
	repo domain.Repository,
	selector *Selector,
	audit *audit.Dispatcher,
	events realtime.Publisher,
	approvalLeadMin int,
) *ProcessCustomerArrival {
	return &ProcessCustomerArrival{
		repo:         repo,
		selector:     selector,
		audit:        audit,
		events:       events,
		approvalLead: time.Duration(approvalLeadMin) * time.Minute,
		nowIn:        timezone.NowIn,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *ProcessCustomerArrival) Execute(
	ctx context.Context,
	in ProcessArrivalInput,
) (*ArrivalResult, error) {

	if in.CustomerName == "" {
		return nil, httperr.ErrBusiness("missing_customer_name")
	}
	if len(in.ServiceIDs) == 0 || len(in.ServiceIDs) > 2 {
		return nil, httperr.ErrBusiness("invalid_service_count")
	}

	facility, err := uc.repo.GetFacilityByID(ctx, in.FacilityID)
	if err != nil {
		return nil, httperr.ErrBusiness("facility_not_found")
	}

	now := uc.nowIn(facility.Timezone)
	email, phone := validators.SplitContact(in.Contact)

	result := &ArrivalResult{}
	if len(in.ServiceIDs) == 2 {
		result.ComboID = uuid.NewString()
	}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		selector := uc.selector.WithRepo(tx)

		for _, serviceID := range in.ServiceIDs {
			leg, err := uc.processLeg(ctx, tx, selector, facility, in, serviceID, email, phone, result.ComboID, now)
			if err != nil {
				return err
			}
			result.Legs = append(result.Legs, leg)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.ArrivalLeg = result.Legs[0]

	for _, leg := range result.Legs {
		uc.notify(ctx, facility.ID, leg)
	}

	return result, nil
}

func (uc *ProcessCustomerArrival) processLeg(
	ctx context.Context,
	tx domain.Repository,
	selector *Selector,
	facility *models.Facility,
	in ProcessArrivalInput,
	serviceID uint,
	email string,
	phone string,
	comboID string,
	now time.Time,
) (ArrivalLeg, error) {

	service, err := tx.GetService(ctx, facility.ID, serviceID)
	if err != nil {
		return ArrivalLeg{}, httperr.ErrBusiness("service_not_found")
	}

	duration := time.Duration(service.DurationMin) * time.Minute

	// Early arrival for a future slot: reserve it pending staff approval.
	if in.RequestedStart != nil && in.RequestedStart.After(now.Add(uc.approvalLead)) {
		window := domain.NewWindow(*in.RequestedStart, duration)

		entry, err := selector.NextAvailableEmployee(ctx, facility, window)
		if err != nil {
			return ArrivalLeg{}, err
		}
		if entry != nil {
			ap := uc.buildAppointment(facility, service, entry.EmployeeID, in, email, phone, comboID, window)
			ap.Status = string(domain.StatusPendingApproval)

			if err := tx.CreateAppointment(ctx, ap); err != nil {
				return ArrivalLeg{}, err
			}
			return ArrivalLeg{Outcome: OutcomePendingApproval, Appointment: ap}, nil
		}
		// nobody free for the slot; fall through to the walk-in path
	}

	window := domain.NewWindow(now, duration)

	entry, err := selector.NextAvailableEmployee(ctx, facility, window)
	if err != nil {
		return ArrivalLeg{}, err
	}

	if entry != nil {
		ap := uc.buildAppointment(facility, service, entry.EmployeeID, in, email, phone, comboID, window)
		ap.Status = string(domain.StatusInProgress)
		ap.ArrivalTime = &now

		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return ArrivalLeg{}, err
		}
		if err := tx.SetCurrentAppointment(ctx, entry.ID, &ap.ID, now); err != nil {
			return ArrivalLeg{}, err
		}
		return ArrivalLeg{Outcome: OutcomeImmediateAssignment, Appointment: ap}, nil
	}

	// Nobody free: take a ticket from the day's counter and wait.
	position, err := tx.NextQueuePosition(ctx, facility.ID, timezone.Day(now))
	if err != nil {
		return ArrivalLeg{}, err
	}

	queueEntry := &models.CustomerQueueEntry{
		FacilityID:    facility.ID,
		ServiceID:     service.ID,
		CustomerName:  in.CustomerName,
		CustomerEmail: email,
		CustomerPhone: phone,
		Status:        "waiting",
		QueuePosition: position,
		ComboID:       comboID,
	}
	if err := tx.CreateCustomerQueueEntry(ctx, queueEntry); err != nil {
		return ArrivalLeg{}, err
	}

	return ArrivalLeg{Outcome: OutcomeAddedToQueue, QueueEntry: queueEntry}, nil
}

func (uc *ProcessCustomerArrival) buildAppointment(
	facility *models.Facility,
	service *models.Service,
	employeeID uint,
	in ProcessArrivalInput,
	email string,
	phone string,
	comboID string,
	window domain.Window,
) *models.Appointment {
	return &models.Appointment{
		FacilityID:    facility.ID,
		EmployeeID:    employeeID,
		ServiceID:     service.ID,
		CustomerName:  in.CustomerName,
		CustomerEmail: email,
		CustomerPhone: phone,
		StartTime:     window.Start,
		EndTime:       window.End,
		Price:         service.Price,
		ComboID:       comboID,
		Notes:         in.Notes,
	}
}

func (uc *ProcessCustomerArrival) notify(ctx context.Context, facilityID uint, leg ArrivalLeg) {
	switch leg.Outcome {
	case OutcomeAddedToQueue:
		uc.events.Publish(ctx, realtime.NewEvent(
			realtime.TableCustomerQueue, realtime.ActionInsert, facilityID, leg.QueueEntry,
		))
		uc.audit.Dispatch(audit.Event{
			FacilityID: facilityID,
			Action:     "customer_queued",
			Entity:     "customer_queue_entry",
			EntityID:   &leg.QueueEntry.ID,
		})
	default:
		uc.events.Publish(ctx, realtime.NewEvent(
			realtime.TableAppointments, realtime.ActionInsert, facilityID, leg.Appointment,
		))
		uc.audit.Dispatch(audit.Event{
			FacilityID: facilityID,
			Action:     "appointment_created",
			Entity:     "appointment",
			EntityID:   &leg.Appointment.ID,
		})
	}
}
