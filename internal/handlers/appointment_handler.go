package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/salonflow/salon-queue/internal/httperr"
	"github.com/salonflow/salon-queue/internal/httpresp"
	"github.com/salonflow/salon-queue/internal/middleware"
	"github.com/salonflow/salon-queue/internal/usecase/booking"
	"github.com/salonflow/salon-queue/internal/usecase/queue"
)

type AppointmentHandler struct {
	finish     *queue.FinishAppointment
	accept     *queue.AcceptCustomerCheckIn
	cancel     *booking.CancelBooking
	listByDate *booking.ListAppointmentsByDate
}

func NewAppointmentHandler(
	finish *queue.FinishAppointment,
	accept *queue.AcceptCustomerCheckIn,
	cancel *booking.CancelBooking,
	listByDate *booking.ListAppointmentsByDate,
) *AppointmentHandler {
	return &AppointmentHandler{
		finish:     finish,
		accept:     accept,
		cancel:     cancel,
		listByDate: listByDate,
	}
}

// --------- Requests ---------

type FinishRequest struct {
	FinalPrice float64 `json:"final_price"`
	IsPaid     bool    `json:"is_paid"`
}

// --------- Handlers ---------

func (h *AppointmentHandler) Finish(c *gin.Context) {
	facilityID := c.GetUint(middleware.ContextFacilityID)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Invalid appointment id.")
		return
	}

	var req FinishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	if req.FinalPrice < 0 {
		httperr.BadRequest(c, "invalid_price", "Price must not be negative.")
		return
	}

	result, err := h.finish.Execute(c.Request.Context(), queue.FinishAppointmentInput{
		FacilityID:    facilityID,
		AppointmentID: uint(id),
		FinalPrice:    req.FinalPrice,
		IsPaid:        req.IsPaid,
	})
	if err != nil {
		writeBusinessError(c, err, "finish_failed", "Could not finish the appointment.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":                result.Status,
		"completed_appointment": result.Completed,
		"next_appointment":      result.Next,
	})
}

func (h *AppointmentHandler) AcceptCheckIn(c *gin.Context) {
	facilityID := c.GetUint(middleware.ContextFacilityID)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Invalid appointment id.")
		return
	}

	ap, err := h.accept.Execute(c.Request.Context(), facilityID, uint(id))
	if err != nil {
		writeBusinessError(c, err, "accept_failed", "Could not accept the check-in.")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	facilityID := c.GetUint(middleware.ContextFacilityID)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Invalid appointment id.")
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), facilityID, uint(id))
	if err != nil {
		writeBusinessError(c, err, "cancel_failed", "Could not cancel the appointment.")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	facilityID := c.GetUint(middleware.ContextFacilityID)

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "A date is required.")
		return
	}

	apps, err := h.listByDate.Execute(c.Request.Context(), facilityID, date)
	if err != nil {
		writeBusinessError(c, err, "list_failed", "Could not list appointments.")
		return
	}

	httpresp.List(c, apps)
}
