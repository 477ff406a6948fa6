package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/salonflow/salon-queue/internal/httperr"
	"github.com/salonflow/salon-queue/internal/middleware"
	"github.com/salonflow/salon-queue/internal/realtime"
)

// EventsHandler streams the facility's change feed to dashboards over SSE.
// Clients refetch whatever table an event names; the stream only invalidates.
type EventsHandler struct {
	bus *realtime.RedisBus
}

func NewEventsHandler(bus *realtime.RedisBus) *EventsHandler {
	return &EventsHandler{bus: bus}
}

func (h *EventsHandler) Stream(c *gin.Context) {
	facilityID := c.GetUint(middleware.ContextFacilityID)
	table := c.Query("table") // optional filter, empty = all tables

	events := make(chan realtime.Event, 16)

	unsubscribe, err := h.bus.OnChange(c.Request.Context(), facilityID, table, func(ev realtime.Event) {
		select {
		case events <- ev:
		default:
			// slow client; it will catch up on its next refetch
		}
	})
	if err != nil {
		httperr.Internal(c, "subscribe_failed", "Could not subscribe to events.")
		return
	}
	defer unsubscribe()

	c.Writer.Header().Set("Cache-Control", "no-cache")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev := <-events:
			c.SSEvent("change", ev)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
