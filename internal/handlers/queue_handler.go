package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salonflow/salon-queue/internal/httperr"
	"github.com/salonflow/salon-queue/internal/httpresp"
	"github.com/salonflow/salon-queue/internal/middleware"
	"github.com/salonflow/salon-queue/internal/models"
	"github.com/salonflow/salon-queue/internal/usecase/queue"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// QueueHandler covers the walk-in surface: customer arrivals, the waiting
// list, and the employee queue board.
type QueueHandler struct {
	db      *gorm.DB
	arrival *queue.ProcessCustomerArrival
}

func NewQueueHandler(db *gorm.DB, arrival *queue.ProcessCustomerArrival) *QueueHandler {
	return &QueueHandler{db: db, arrival: arrival}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type ArrivalRequest struct {
	CustomerName string `json:"customer_name" binding:"required"`
	Contact      string `json:"contact"`
	ServiceID    uint   `json:"service_id"`

	// ComboServiceID, when set, books this service together with
	// service_id as one combo visit.
	ComboServiceID uint `json:"combo_service_id"`

	RequestedStart string `json:"requested_start"` // RFC3339, optional
}

////////////////////////////////////////////////////////
// WALK-IN ARRIVAL (public, kiosk)
////////////////////////////////////////////////////////

func (h *QueueHandler) CustomerArrival(c *gin.Context) {
	slug := c.Param("slug")

	var facility models.Facility
	if err := h.db.Where("slug = ?", slug).First(&facility).Error; err != nil {
		httperr.NotFound(c, "facility_not_found", "Facility not found.")
		return
	}

	var req ArrivalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	if req.ServiceID == 0 {
		httperr.BadRequest(c, "missing_service", "A service is required.")
		return
	}

	in := queue.ProcessArrivalInput{
		FacilityID:   facility.ID,
		CustomerName: req.CustomerName,
		Contact:      req.Contact,
		ServiceIDs:   []uint{req.ServiceID},
	}
	if req.ComboServiceID != 0 {
		in.ServiceIDs = append(in.ServiceIDs, req.ComboServiceID)
	}
	if req.RequestedStart != "" {
		start, err := time.Parse(time.RFC3339, req.RequestedStart)
		if err != nil {
			httperr.BadRequest(c, "invalid_requested_start", "requested_start must be RFC3339.")
			return
		}
		in.RequestedStart = &start
	}

	result, err := h.arrival.Execute(c.Request.Context(), in)
	if err != nil {
		writeBusinessError(c, err, "arrival_failed", "Could not process the arrival.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"type":        result.Outcome,
		"appointment": result.Appointment,
		"queue_entry": result.QueueEntry,
		"combo_id":    result.ComboID,
		"legs":        result.Legs,
	})
}

////////////////////////////////////////////////////////
// PUBLIC QUEUE STATUS
////////////////////////////////////////////////////////

func (h *QueueHandler) PublicQueueStatus(c *gin.Context) {
	slug := c.Param("slug")

	var facility models.Facility
	if err := h.db.Where("slug = ?", slug).First(&facility).Error; err != nil {
		httperr.NotFound(c, "facility_not_found", "Facility not found.")
		return
	}

	var waiting int64
	h.db.Model(&models.CustomerQueueEntry{}).
		Where("facility_id = ? AND status = 'waiting'", facility.ID).
		Count(&waiting)

	var active int64
	h.db.Model(&models.EmployeeQueueEntry{}).
		Where("facility_id = ? AND is_active", facility.ID).
		Count(&active)

	c.JSON(http.StatusOK, gin.H{
		"facility":          facility.Name,
		"customers_waiting": waiting,
		"employees_active":  active,
	})
}

////////////////////////////////////////////////////////
// STAFF VIEWS
////////////////////////////////////////////////////////

func (h *QueueHandler) WaitingCustomers(c *gin.Context) {
	facilityID := c.GetUint(middleware.ContextFacilityID)

	var entries []models.CustomerQueueEntry
	if err := h.db.
		Preload("Service").
		Where("facility_id = ? AND status = 'waiting'", facilityID).
		Order("queue_position ASC").
		Find(&entries).Error; err != nil {
		httperr.Internal(c, "failed_to_list_queue", "Could not load the waiting list.")
		return
	}

	httpresp.List(c, entries)
}

func (h *QueueHandler) EmployeeQueueBoard(c *gin.Context) {
	facilityID := c.GetUint(middleware.ContextFacilityID)

	var entries []models.EmployeeQueueEntry
	if err := h.db.
		Preload("Employee").
		Where("facility_id = ? AND is_active", facilityID).
		Order("queue_round ASC, position_in_queue ASC").
		Find(&entries).Error; err != nil {
		httperr.Internal(c, "failed_to_list_board", "Could not load the employee queue.")
		return
	}

	httpresp.List(c, entries)
}
