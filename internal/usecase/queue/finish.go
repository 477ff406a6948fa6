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

type FinishAppointmentInput struct {
	FacilityID    uint
	AppointmentID uint

	FinalPrice float64
	IsPaid     bool
}

type FinishAppointment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	events realtime.Publisher

	nowIn func(tz string) time.Time
}

func NewFinishAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	events realtime.Publisher,
) *FinishAppointment {
	return &FinishAppointment{
		repo:   repo,
		audit:  audit,
		events: events,
		nowIn:  timezone.NowIn,
	}
}

// Execute completes the appointment and, when the employee is still checked
// in, immediately pulls the oldest waiting customer onto them. An employee
// who checked out mid-service is never reassigned.
func (uc *FinishAppointment) Execute(
	ctx context.Context,
	in FinishAppointmentInput,
) (*FinishResult, error) {

	facility, err := uc.repo.GetFacilityByID(ctx, in.FacilityID)
	if err != nil {
		return nil, httperr.ErrBusiness("facility_not_found")
	}

	now := uc.nowIn(facility.Timezone)
	result := &FinishResult{Status: FinishCompleted}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		ap, err := tx.GetAppointment(ctx, facility.ID, in.AppointmentID)
		if err != nil {
			return httperr.ErrBusiness("appointment_not_found")
		}

		if err := domain.Complete(ap, now, in.FinalPrice); err != nil {
			return err
		}
		ap.IsPaid = in.IsPaid

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}
		result.Completed = ap

		entry, err := tx.ActiveEntryForEmployee(ctx, facility.ID, ap.EmployeeID)
		if err != nil {
			return err
		}
		if entry == nil {
			// checked out while serving; just close the appointment
			return nil
		}

		waiting, err := tx.OldestWaitingCustomer(ctx, facility.ID)
		if err != nil {
			return err
		}
		if waiting == nil {
			return tx.SetCurrentAppointment(ctx, entry.ID, nil, now)
		}

		service, err := tx.GetService(ctx, facility.ID, waiting.ServiceID)
		if err != nil {
			return err
		}

		next := &models.Appointment{
			FacilityID:    facility.ID,
			EmployeeID:    entry.EmployeeID,
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
		if err := tx.CreateAppointment(ctx, next); err != nil {
			return err
		}
		if err := tx.DeleteCustomerQueueEntry(ctx, waiting.ID); err != nil {
			return err
		}
		if err := tx.SetCurrentAppointment(ctx, entry.ID, &next.ID, now); err != nil {
			return err
		}

		result.Status = FinishNextCustomerAssigned
		result.Next = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.events.Publish(ctx, realtime.NewEvent(
		realtime.TableAppointments, realtime.ActionUpdate, facility.ID, result.Completed,
	))
	uc.audit.Dispatch(audit.Event{
		FacilityID: facility.ID,
		Action:     "appointment_completed",
		Entity:     "appointment",
		EntityID:   &result.Completed.ID,
	})

	if result.Next != nil {
		uc.events.Publish(ctx, realtime.NewEvent(
			realtime.TableAppointments, realtime.ActionInsert, facility.ID, result.Next,
		))
		uc.events.Publish(ctx, realtime.NewEvent(
			realtime.TableCustomerQueue, realtime.ActionDelete, facility.ID, nil,
		))
		uc.audit.Dispatch(audit.Event{
			FacilityID: facility.ID,
			Action:     "next_customer_assigned",
			Entity:     "appointment",
			EntityID:   &result.Next.ID,
		})
	}

	return result, nil
}
