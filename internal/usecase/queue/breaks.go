package queue

import (
	"context"
	"time"

	"github.com/salonflow/salon-queue/internal/audit"
	domain "github.com/salonflow/salon-queue/internal/domain/schedule"
	"github.com/salonflow/salon-queue/internal/httperr"
	"github.com/salonflow/salon-queue/internal/realtime"
	"github.com/salonflow/salon-queue/internal/timezone"
)

// ManageBreak starts and ends an employee's break on their active queue
// entry. An open break makes the availability check report OnBreak.
type ManageBreak struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	events realtime.Publisher

	nowIn func(tz string) time.Time
}

func NewManageBreak(
	repo domain.Repository,
	audit *audit.Dispatcher,
	events realtime.Publisher,
) *ManageBreak {
	return &ManageBreak{
		repo:   repo,
		audit:  audit,
		events: events,
		nowIn:  timezone.NowIn,
	}
}

func (uc *ManageBreak) Start(
	ctx context.Context,
	facilityID uint,
	employeeID uint,
) error {

	facility, err := uc.repo.GetFacilityByID(ctx, facilityID)
	if err != nil {
		return httperr.ErrBusiness("facility_not_found")
	}
	now := uc.nowIn(facility.Timezone)

	entry, err := uc.repo.ActiveEntryForEmployee(ctx, facilityID, employeeID)
	if err != nil {
		return err
	}
	if entry == nil {
		return httperr.ErrBusiness("not_checked_in")
	}
	if entry.OnBreak(now) {
		return httperr.ErrBusiness("already_on_break")
	}

	if err := uc.repo.SetBreak(ctx, entry.ID, &now, nil); err != nil {
		return err
	}

	uc.notify(ctx, facilityID, employeeID, entry.ID, "break_started")
	return nil
}

func (uc *ManageBreak) End(
	ctx context.Context,
	facilityID uint,
	employeeID uint,
) error {

	facility, err := uc.repo.GetFacilityByID(ctx, facilityID)
	if err != nil {
		return httperr.ErrBusiness("facility_not_found")
	}
	now := uc.nowIn(facility.Timezone)

	entry, err := uc.repo.ActiveEntryForEmployee(ctx, facilityID, employeeID)
	if err != nil {
		return err
	}
	if entry == nil {
		return httperr.ErrBusiness("not_checked_in")
	}
	if !entry.OnBreak(now) {
		return httperr.ErrBusiness("not_on_break")
	}

	if err := uc.repo.SetBreak(ctx, entry.ID, entry.BreakStart, &now); err != nil {
		return err
	}

	uc.notify(ctx, facilityID, employeeID, entry.ID, "break_ended")
	return nil
}

func (uc *ManageBreak) notify(ctx context.Context, facilityID, employeeID, entryID uint, action string) {
	uc.events.Publish(ctx, realtime.NewEvent(
		realtime.TableEmployeeQueue, realtime.ActionUpdate, facilityID, nil,
	))
	uc.audit.Dispatch(audit.Event{
		FacilityID: facilityID,
		EmployeeID: &employeeID,
		Action:     action,
		Entity:     "employee_queue_entry",
		EntityID:   &entryID,
	})
}
