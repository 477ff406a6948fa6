package realtime

import (
	"context"

	"github.com/google/uuid"
)

// Table names carried on change events. Dashboards refetch whatever a
// received event's table names; payloads are a hint, not the source of
// truth.
const (
	TableAppointments  = "appointments"
	TableEmployeeQueue = "employee_queue_entries"
	TableCustomerQueue = "customer_queue_entries"
)

const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

type Event struct {
	ID         string `json:"id"`
	Table      string `json:"table"`
	Action     string `json:"action"`
	FacilityID uint   `json:"facility_id"`
	Payload    any    `json:"payload,omitempty"`
}

func NewEvent(table, action string, facilityID uint, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Table:      table,
		Action:     action,
		FacilityID: facilityID,
		Payload:    payload,
	}
}

// Publisher pushes change events out after a mutation commits.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// NopPublisher drops everything; used in tests and when redis is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}
