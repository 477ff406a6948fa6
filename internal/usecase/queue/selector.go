package queue

import (
	"context"
	"log"

	domain "github.com/salonflow/salon-queue/internal/domain/schedule"
	"github.com/salonflow/salon-queue/internal/models"
)

// Selector implements the round-robin pick over a facility's active queue
// entries. It sits on the hot path of every arrival, so it never returns an
// error for a single employee: a failed check degrades to Unknown and the
// employee is skipped.
type Selector struct {
	repo          domain.Repository
	defaultCutoff string
}

func NewSelector(repo domain.Repository, defaultCutoff string) *Selector {
	return &Selector{repo: repo, defaultCutoff: defaultCutoff}
}

// WithRepo rebinds the selector to another repository, typically the one
// scoped to an open transaction.
func (s *Selector) WithRepo(repo domain.Repository) *Selector {
	return &Selector{repo: repo, defaultCutoff: s.defaultCutoff}
}

func (s *Selector) cutoffFor(facility *models.Facility) domain.Cutoff {
	hm := facility.QueueCutoff
	if hm == "" {
		hm = s.defaultCutoff
	}
	cutoff, err := domain.ParseCutoff(hm)
	if err != nil {
		cutoff, _ = domain.ParseCutoff(domain.DefaultCutoff)
	}
	return cutoff
}

// CheckAvailability resolves one employee's state for the window. Unknown is
// reported instead of an error so callers can log it and still fail safe.
func (s *Selector) CheckAvailability(
	ctx context.Context,
	facility *models.Facility,
	employeeID uint,
	window domain.Window,
) domain.Availability {

	entry, err := s.repo.ActiveEntryForEmployee(ctx, facility.ID, employeeID)
	if err != nil {
		log.Printf("availability check failed for employee %d: %v", employeeID, err)
		return domain.Unknown
	}
	if entry == nil {
		return domain.NotInQueue
	}

	return s.checkEntry(ctx, entry, window)
}

func (s *Selector) checkEntry(
	ctx context.Context,
	entry *models.EmployeeQueueEntry,
	window domain.Window,
) domain.Availability {

	if entry.OnBreak(window.Start) {
		return domain.OnBreak
	}

	count, err := s.repo.CountOverlappingAppointments(ctx, entry.EmployeeID, window)
	if err != nil {
		log.Printf("overlap check failed for employee %d: %v", entry.EmployeeID, err)
		return domain.Unknown
	}
	if count > 0 {
		return domain.Busy
	}

	return domain.Available
}

// NextAvailableEmployee walks the facility's active entries round by round,
// within each round in position order, and returns the first available one.
// Rounds are re-derived from each entry's check-in time against the cutoff,
// so a round-1 employee is always considered before any round-2 employee no
// matter the stored position numbers. Returns nil when nobody qualifies.
func (s *Selector) NextAvailableEmployee(
	ctx context.Context,
	facility *models.Facility,
	window domain.Window,
) (*models.EmployeeQueueEntry, error) {

	entries, err := s.repo.ActiveQueueEntries(ctx, facility.ID)
	if err != nil {
		return nil, err
	}

	cutoff := s.cutoffFor(facility)

	var rounds [2][]models.EmployeeQueueEntry
	for _, entry := range entries {
		if cutoff.RoundFor(entry.CheckInTime) == 1 {
			rounds[0] = append(rounds[0], entry)
		} else {
			rounds[1] = append(rounds[1], entry)
		}
	}

	for _, round := range rounds {
		for i := range round {
			entry := &round[i]
			if s.checkEntry(ctx, entry, window) == domain.Available {
				return entry, nil
			}
		}
	}

	return nil, nil
}
