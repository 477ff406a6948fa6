package queue

import (
	"context"
	"testing"
	"time"

	domain "github.com/salonflow/salon-queue/internal/domain/schedule"
	"github.com/salonflow/salon-queue/internal/realtime"
)

func newArrivalUC(repo *fakeRepo) *ProcessCustomerArrival {
	uc := NewProcessCustomerArrival(repo, NewSelector(repo, "10:00"), nil, realtime.NopPublisher{}, 30)
	uc.nowIn = fixedNow
	return uc
}

func TestArrivalImmediateAssignmentToFirstPosition(t *testing.T) {
	repo := newFakeRepo()
	facility := repo.addFacility()
	service := repo.addService(facility.ID, 30, 25)

	morning := testNow.Add(-4 * time.Hour)
	a := repo.addActiveEntry(facility.ID, 1, 1, morning)
	repo.addActiveEntry(facility.ID, 1, 2, morning)

	uc := newArrivalUC(repo)
	result, err := uc.Execute(context.Background(), ProcessArrivalInput{
		FacilityID:   facility.ID,
		CustomerName: "Jana",
		Contact:      "jana@example.com",
		ServiceIDs:   []uint{service.ID},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Outcome != OutcomeImmediateAssignment {
		t.Fatalf("outcome = %s, want %s", result.Outcome, OutcomeImmediateAssignment)
	}
	if result.Appointment.EmployeeID != a.EmployeeID {
		t.Errorf("assigned employee %d, want position-1 employee %d", result.Appointment.EmployeeID, a.EmployeeID)
	}
	if result.Appointment.Status != string(domain.StatusInProgress) {
		t.Errorf("status = %s, want in_progress", result.Appointment.Status)
	}
	if !result.Appointment.StartTime.Equal(testNow) {
		t.Errorf("start = %v, want %v", result.Appointment.StartTime, testNow)
	}
	if !result.Appointment.EndTime.Equal(testNow.Add(30 * time.Minute)) {
		t.Errorf("end = %v, want +30m", result.Appointment.EndTime)
	}
	if result.Appointment.CustomerEmail != "jana@example.com" || result.Appointment.CustomerPhone != "" {
		t.Errorf("contact split wrong: email=%q phone=%q", result.Appointment.CustomerEmail, result.Appointment.CustomerPhone)
	}
	if a.CurrentAppointmentID == nil || *a.CurrentAppointmentID != result.Appointment.ID {
		t.Errorf("queue entry should reference the new appointment")
	}
}

func TestArrivalQueuedWhenEveryoneBusy(t *testing.T) {
	repo := newFakeRepo()
	facility := repo.addFacility()
	service := repo.addService(facility.ID, 30, 25)

	morning := testNow.Add(-4 * time.Hour)
	a := repo.addActiveEntry(facility.ID, 1, 1, morning)
	b := repo.addActiveEntry(facility.ID, 1, 2, morning)
	repo.addInProgress(facility.ID, a.EmployeeID, testNow.Add(-10*time.Minute), testNow.Add(20*time.Minute))
	repo.addInProgress(facility.ID, b.EmployeeID, testNow.Add(-5*time.Minute), testNow.Add(25*time.Minute))

	uc := newArrivalUC(repo)
	result, err := uc.Execute(context.Background(), ProcessArrivalInput{
		FacilityID:   facility.ID,
		CustomerName: "Peter",
		Contact:      "0907123456",
		ServiceIDs:   []uint{service.ID},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Outcome != OutcomeAddedToQueue {
		t.Fatalf("outcome = %s, want %s", result.Outcome, OutcomeAddedToQueue)
	}
	if result.QueueEntry.QueuePosition != 1 {
		t.Errorf("queue_position = %d, want 1", result.QueueEntry.QueuePosition)
	}
	if result.QueueEntry.CustomerPhone != "0907123456" || result.QueueEntry.CustomerEmail != "" {
		t.Errorf("contact split wrong: email=%q phone=%q", result.QueueEntry.CustomerEmail, result.QueueEntry.CustomerPhone)
	}
}

func TestArrivalQueuePositionsStrictlyIncrease(t *testing.T) {
	repo := newFakeRepo()
	facility := repo.addFacility()
	service := repo.addService(facility.ID, 30, 25)
	// no employees checked in, every arrival queues

	uc := newArrivalUC(repo)

	seen := map[int]bool{}
	last := 0
	for i := 0; i < 5; i++ {
		result, err := uc.Execute(context.Background(), ProcessArrivalInput{
			FacilityID:   facility.ID,
			CustomerName: "Customer",
			ServiceIDs:   []uint{service.ID},
		})
		if err != nil {
			t.Fatalf("Execute #%d: %v", i, err)
		}
		if result.Outcome != OutcomeAddedToQueue {
			t.Fatalf("outcome #%d = %s, want ADDED_TO_QUEUE", i, result.Outcome)
		}
		pos := result.QueueEntry.QueuePosition
		if pos <= last {
			t.Errorf("position %d after %d is not strictly increasing", pos, last)
		}
		if seen[pos] {
			t.Errorf("duplicate queue position %d", pos)
		}
		seen[pos] = true
		last = pos
	}
}

func TestArrivalRoundOnePreferredOverRoundTwo(t *testing.T) {
	repo := newFakeRepo()
	facility := repo.addFacility()
	service := repo.addService(facility.ID, 30, 25)

	// Round-2 employee holds a lower position number than the round-1
	// employee; cohort order must still win.
	nineAM := time.Date(testNow.Year(), testNow.Month(), testNow.Day(), 9, 0, 0, 0, time.UTC)
	elevenAM := time.Date(testNow.Year(), testNow.Month(), testNow.Day(), 11, 0, 0, 0, time.UTC)
	late := repo.addActiveEntry(facility.ID, 2, 1, elevenAM)
	early := repo.addActiveEntry(facility.ID, 1, 2, nineAM)
	_ = late

	uc := newArrivalUC(repo)
	result, err := uc.Execute(context.Background(), ProcessArrivalInput{
		FacilityID:   facility.ID,
		CustomerName: "Jana",
		ServiceIDs:   []uint{service.ID},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Appointment.EmployeeID != early.EmployeeID {
		t.Errorf("assigned employee %d, want 09:00 check-in %d", result.Appointment.EmployeeID, early.EmployeeID)
	}
}

func TestArrivalFutureRequestBecomesPendingApproval(t *testing.T) {
	repo := newFakeRepo()
	facility := repo.addFacility()
	service := repo.addService(facility.ID, 30, 25)
	repo.addActiveEntry(facility.ID, 1, 1, testNow.Add(-4*time.Hour))

	future := testNow.Add(2 * time.Hour)

	uc := newArrivalUC(repo)
	result, err := uc.Execute(context.Background(), ProcessArrivalInput{
		FacilityID:     facility.ID,
		CustomerName:   "Eva",
		ServiceIDs:     []uint{service.ID},
		RequestedStart: &future,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Outcome != OutcomePendingApproval {
		t.Fatalf("outcome = %s, want %s", result.Outcome, OutcomePendingApproval)
	}
	if result.Appointment.Status != string(domain.StatusPendingApproval) {
		t.Errorf("status = %s, want pending_approval", result.Appointment.Status)
	}
	if !result.Appointment.StartTime.Equal(future) {
		t.Errorf("start = %v, want requested %v", result.Appointment.StartTime, future)
	}
}

func TestArrivalNearFutureRequestAssignsImmediately(t *testing.T) {
	repo := newFakeRepo()
	facility := repo.addFacility()
	service := repo.addService(facility.ID, 30, 25)
	repo.addActiveEntry(facility.ID, 1, 1, testNow.Add(-4*time.Hour))

	// 10 minutes ahead is inside the approval lead, so it is treated as a
	// plain walk-in.
	soon := testNow.Add(10 * time.Minute)

	uc := newArrivalUC(repo)
	result, err := uc.Execute(context.Background(), ProcessArrivalInput{
		FacilityID:     facility.ID,
		CustomerName:   "Eva",
		ServiceIDs:     []uint{service.ID},
		RequestedStart: &soon,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Outcome != OutcomeImmediateAssignment {
		t.Fatalf("outcome = %s, want %s", result.Outcome, OutcomeImmediateAssignment)
	}
}

func TestArrivalComboCreatesTwoLinkedLegs(t *testing.T) {
	repo := newFakeRepo()
	facility := repo.addFacility()
	manicure := repo.addService(facility.ID, 30, 20)
	pedicure := repo.addService(facility.ID, 45, 35)
	repo.addActiveEntry(facility.ID, 1, 1, testNow.Add(-4*time.Hour))

	uc := newArrivalUC(repo)
	result, err := uc.Execute(context.Background(), ProcessArrivalInput{
		FacilityID:   facility.ID,
		CustomerName: "Jana",
		ServiceIDs:   []uint{manicure.ID, pedicure.ID},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(result.Legs) != 2 {
		t.Fatalf("legs = %d, want 2", len(result.Legs))
	}
	if result.ComboID == "" {
		t.Fatal("combo id missing")
	}

	// First leg starts now with the only employee; the second leg finds
	// the employee busy and waits.
	if result.Legs[0].Outcome != OutcomeImmediateAssignment {
		t.Errorf("leg 0 outcome = %s", result.Legs[0].Outcome)
	}
	if result.Legs[1].Outcome != OutcomeAddedToQueue {
		t.Errorf("leg 1 outcome = %s", result.Legs[1].Outcome)
	}
	if result.Legs[0].Appointment.ComboID != result.ComboID {
		t.Errorf("leg 0 combo id not shared")
	}
	if result.Legs[1].QueueEntry.ComboID != result.ComboID {
		t.Errorf("leg 1 combo id not shared")
	}
}

func TestArrivalValidation(t *testing.T) {
	repo := newFakeRepo()
	facility := repo.addFacility()
	service := repo.addService(facility.ID, 30, 25)

	uc := newArrivalUC(repo)

	cases := []struct {
		name string
		in   ProcessArrivalInput
	}{
		{"missing name", ProcessArrivalInput{FacilityID: facility.ID, ServiceIDs: []uint{service.ID}}},
		{"no services", ProcessArrivalInput{FacilityID: facility.ID, CustomerName: "Jana"}},
		{"too many services", ProcessArrivalInput{FacilityID: facility.ID, CustomerName: "Jana", ServiceIDs: []uint{1, 2, 3}}},
		{"unknown service", ProcessArrivalInput{FacilityID: facility.ID, CustomerName: "Jana", ServiceIDs: []uint{999}}},
		{"unknown facility", ProcessArrivalInput{FacilityID: 999, CustomerName: "Jana", ServiceIDs: []uint{service.ID}}},
	}

	for _, tt := range cases {
		if _, err := uc.Execute(context.Background(), tt.in); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}
