package queue

import (
	"context"
	"testing"
	"time"

	domain "github.com/salonflow/salon-queue/internal/domain/schedule"
	"github.com/salonflow/salon-queue/internal/httperr"
	"github.com/salonflow/salon-queue/internal/realtime"
)

func newFinishUC(repo *fakeRepo) *FinishAppointment {
	uc := NewFinishAppointment(repo, nil, realtime.NopPublisher{})
	uc.nowIn = fixedNow
	return uc
}

func assertBusinessCode(t *testing.T, err error, code string) {
	t.Helper()
	if !httperr.IsBusiness(err, code) {
		t.Fatalf("error = %v, want business error %q", err, code)
	}
}

func TestFinishReassignsSameEmployee(t *testing.T) {
	repo := newFakeRepo()
	facility := repo.addFacility()
	service := repo.addService(facility.ID, 30, 25)

	entry := repo.addActiveEntry(facility.ID, 1, 1, testNow.Add(-4*time.Hour))
	current := repo.addInProgress(facility.ID, entry.EmployeeID, testNow.Add(-30*time.Minute), testNow)
	entry.CurrentAppointmentID = &current.ID

	waiting := repo.addWaiting(facility.ID, service.ID, 1, "Peter")

	uc := newFinishUC(repo)
	result, err := uc.Execute(context.Background(), FinishAppointmentInput{
		FacilityID:    facility.ID,
		AppointmentID: current.ID,
		FinalPrice:    28,
		IsPaid:        true,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Status != FinishNextCustomerAssigned {
		t.Fatalf("status = %s, want %s", result.Status, FinishNextCustomerAssigned)
	}
	if result.Completed.Status != string(domain.StatusCompleted) {
		t.Errorf("completed status = %s", result.Completed.Status)
	}
	if result.Completed.Price != 28 || !result.Completed.IsPaid {
		t.Errorf("final price/paid not recorded: price=%v paid=%v", result.Completed.Price, result.Completed.IsPaid)
	}
	if result.Next == nil {
		t.Fatal("next appointment missing")
	}
	if result.Next.EmployeeID != entry.EmployeeID {
		t.Errorf("next assigned to employee %d, want the freed employee %d", result.Next.EmployeeID, entry.EmployeeID)
	}
	if result.Next.CustomerName != "Peter" {
		t.Errorf("next customer = %q, want Peter", result.Next.CustomerName)
	}
	if entry.CurrentAppointmentID == nil || *entry.CurrentAppointmentID != result.Next.ID {
		t.Errorf("queue entry pointer not moved to the next appointment")
	}

	// the waiting entry is consumed
	if remaining, _ := repo.ListWaitingCustomers(context.Background(), facility.ID); len(remaining) != 0 {
		t.Errorf("waiting list has %d entries, want 0", len(remaining))
	}
	_ = waiting
}

func TestFinishClearsPointerWhenNobodyWaiting(t *testing.T) {
	repo := newFakeRepo()
	facility := repo.addFacility()

	entry := repo.addActiveEntry(facility.ID, 1, 1, testNow.Add(-4*time.Hour))
	current := repo.addInProgress(facility.ID, entry.EmployeeID, testNow.Add(-30*time.Minute), testNow)
	entry.CurrentAppointmentID = &current.ID

	uc := newFinishUC(repo)
	result, err := uc.Execute(context.Background(), FinishAppointmentInput{
		FacilityID:    facility.ID,
		AppointmentID: current.ID,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Status != FinishCompleted {
		t.Fatalf("status = %s, want %s", result.Status, FinishCompleted)
	}
	if result.Next != nil {
		t.Error("no next appointment expected")
	}
	if entry.CurrentAppointmentID != nil {
		t.Error("queue entry pointer should be cleared")
	}
}

func TestFinishNeverReassignsCheckedOutEmployee(t *testing.T) {
	repo := newFakeRepo()
	facility := repo.addFacility()
	service := repo.addService(facility.ID, 30, 25)

	// employee served a customer, then checked out mid-service
	employeeID := repo.id()
	current := repo.addInProgress(facility.ID, employeeID, testNow.Add(-30*time.Minute), testNow)
	repo.addWaiting(facility.ID, service.ID, 1, "Peter")

	uc := newFinishUC(repo)
	result, err := uc.Execute(context.Background(), FinishAppointmentInput{
		FacilityID:    facility.ID,
		AppointmentID: current.ID,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Status != FinishCompleted {
		t.Fatalf("status = %s, want %s", result.Status, FinishCompleted)
	}
	if result.Next != nil {
		t.Error("checked-out employee must not get the waiting customer")
	}
	if remaining, _ := repo.ListWaitingCustomers(context.Background(), facility.ID); len(remaining) != 1 {
		t.Errorf("waiting customer should stay queued, have %d", len(remaining))
	}
}

func TestFinishRejectsNonRunningAppointment(t *testing.T) {
	repo := newFakeRepo()
	facility := repo.addFacility()

	entry := repo.addActiveEntry(facility.ID, 1, 1, testNow.Add(-4*time.Hour))
	done := repo.addInProgress(facility.ID, entry.EmployeeID, testNow.Add(-2*time.Hour), testNow.Add(-time.Hour))
	done.Status = string(domain.StatusCompleted)

	uc := newFinishUC(repo)
	_, err := uc.Execute(context.Background(), FinishAppointmentInput{
		FacilityID:    facility.ID,
		AppointmentID: done.ID,
	})
	assertBusinessCode(t, err, "invalid_state")
}

func TestFinishUnknownAppointment(t *testing.T) {
	repo := newFakeRepo()
	facility := repo.addFacility()

	uc := newFinishUC(repo)
	_, err := uc.Execute(context.Background(), FinishAppointmentInput{
		FacilityID:    facility.ID,
		AppointmentID: 999,
	})
	assertBusinessCode(t, err, "appointment_not_found")
}
