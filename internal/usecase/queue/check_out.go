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

type CheckOutEmployee struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	events realtime.Publisher

	nowIn func(tz string) time.Time
}

func NewCheckOutEmployee(
	repo domain.Repository,
	audit *audit.Dispatcher,
	events realtime.Publisher,
) *CheckOutEmployee {
	return &CheckOutEmployee{
		repo:   repo,
		audit:  audit,
		events: events,
		nowIn:  timezone.NowIn,
	}
}

// Execute deactivates the entry and renumbers the remaining active entries
// to contiguous positions, all in one transaction. A repeated check-out is
// rejected without touching the numbering.
func (uc *CheckOutEmployee) Execute(
	ctx context.Context,
	facilityID uint,
	entryID uint,
) error {

	facility, err := uc.repo.GetFacilityByID(ctx, facilityID)
	if err != nil {
		return httperr.ErrBusiness("facility_not_found")
	}

	now := uc.nowIn(facility.Timezone)

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		ok, err := tx.DeactivateQueueEntry(ctx, facilityID, entryID, now)
		if err != nil {
			return err
		}
		if !ok {
			return httperr.ErrBusiness("already_checked_out")
		}

		return tx.CompactPositions(ctx, facilityID)
	})
	if err != nil {
		return err
	}

	uc.events.Publish(ctx, realtime.NewEvent(
		realtime.TableEmployeeQueue, realtime.ActionUpdate, facilityID, nil,
	))
	uc.audit.Dispatch(audit.Event{
		FacilityID: facilityID,
		Action:     "employee_checked_out",
		Entity:     "employee_queue_entry",
		EntityID:   &entryID,
	})

	return nil
}
