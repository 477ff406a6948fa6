package queue

import "github.com/salonflow/salon-queue/internal/models"

// ======================================================
// OUTCOMES
// ======================================================

type ArrivalOutcome string

const (
	OutcomeImmediateAssignment ArrivalOutcome = "IMMEDIATE_ASSIGNMENT"
	OutcomePendingApproval     ArrivalOutcome = "PENDING_APPROVAL"
	OutcomeAddedToQueue        ArrivalOutcome = "ADDED_TO_QUEUE"
)

type FinishStatus string

const (
	FinishCompleted            FinishStatus = "COMPLETED"
	FinishNextCustomerAssigned FinishStatus = "NEXT_CUSTOMER_ASSIGNED"
)

// ======================================================
// RESULTS
// ======================================================

// ArrivalLeg is the outcome for one requested service. A combo arrival has
// two legs sharing a combo id; each leg is scheduled independently.
type ArrivalLeg struct {
	Outcome     ArrivalOutcome
	Appointment *models.Appointment
	QueueEntry  *models.CustomerQueueEntry
}

type ArrivalResult struct {
	ArrivalLeg // first (or only) leg

	ComboID string
	Legs    []ArrivalLeg
}

type FinishResult struct {
	Status    FinishStatus
	Completed *models.Appointment

	// Next is the appointment created for the freed employee when a
	// customer was waiting, nil otherwise.
	Next *models.Appointment
}

type CheckInResult struct {
	Entry *models.EmployeeQueueEntry

	// Assigned is set when a waiting customer was picked up immediately
	// at check-in.
	Assigned *models.Appointment
}
