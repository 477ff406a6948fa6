package queue

import (
	"context"
	"testing"
	"time"

	"github.com/salonflow/salon-queue/internal/realtime"
)

func newBreakUC(repo *fakeRepo) *ManageBreak {
	uc := NewManageBreak(repo, nil, realtime.NopPublisher{})
	uc.nowIn = fixedNow
	return uc
}

func TestBreakStartAndEnd(t *testing.T) {
	repo := newFakeRepo()
	facility := repo.addFacility()
	entry := repo.addActiveEntry(facility.ID, 1, 1, testNow.Add(-time.Hour))

	uc := newBreakUC(repo)
	if err := uc.Start(context.Background(), facility.ID, entry.EmployeeID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !entry.OnBreak(testNow) {
		t.Fatal("entry should be on break")
	}

	if err := uc.End(context.Background(), facility.ID, entry.EmployeeID); err != nil {
		t.Fatalf("End: %v", err)
	}
	if entry.OnBreak(testNow.Add(time.Minute)) {
		t.Fatal("entry should be back from break")
	}
}

func TestBreakGuards(t *testing.T) {
	repo := newFakeRepo()
	facility := repo.addFacility()
	entry := repo.addActiveEntry(facility.ID, 1, 1, testNow.Add(-time.Hour))

	uc := newBreakUC(repo)

	assertBusinessCode(t, uc.Start(context.Background(), facility.ID, 999), "not_checked_in")
	assertBusinessCode(t, uc.End(context.Background(), facility.ID, entry.EmployeeID), "not_on_break")

	if err := uc.Start(context.Background(), facility.ID, entry.EmployeeID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	assertBusinessCode(t, uc.Start(context.Background(), facility.ID, entry.EmployeeID), "already_on_break")
}

func TestBreakMakesEmployeeUnavailable(t *testing.T) {
	repo := newFakeRepo()
	facility := repo.addFacility()
	service := repo.addService(facility.ID, 30, 25)
	onBreak := repo.addActiveEntry(facility.ID, 1, 1, testNow.Add(-4*time.Hour))
	second := repo.addActiveEntry(facility.ID, 1, 2, testNow.Add(-4*time.Hour))

	uc := newBreakUC(repo)
	if err := uc.Start(context.Background(), facility.ID, onBreak.EmployeeID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	arrival := newArrivalUC(repo)
	result, err := arrival.Execute(context.Background(), ProcessArrivalInput{
		FacilityID:   facility.ID,
		CustomerName: "Jana",
		ServiceIDs:   []uint{service.ID},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Appointment.EmployeeID != second.EmployeeID {
		t.Errorf("assigned to %d, want the employee not on break %d", result.Appointment.EmployeeID, second.EmployeeID)
	}
}
