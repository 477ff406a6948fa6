package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salonflow/salon-queue/internal/httperr"
	"github.com/salonflow/salon-queue/internal/usecase/booking"
)

// BookingHandler is the public online-booking surface.
type BookingHandler struct {
	create *booking.CreateBooking
}

func NewBookingHandler(create *booking.CreateBooking) *BookingHandler {
	return &BookingHandler{create: create}
}

type PublicCreateBookingRequest struct {
	CustomerName string `json:"customer_name" binding:"required"`
	Contact      string `json:"contact" binding:"required"`
	ServiceID    uint   `json:"service_id" binding:"required"`
	Date         string `json:"date" binding:"required"` // YYYY-MM-DD
	Time         string `json:"time" binding:"required"` // HH:mm
	Notes        string `json:"notes"`
}

func (h *BookingHandler) Create(c *gin.Context) {
	slug := c.Param("slug")

	var req PublicCreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), booking.CreateBookingInput{
		FacilitySlug: slug,
		CustomerName: req.CustomerName,
		Contact:      req.Contact,
		ServiceID:    req.ServiceID,
		Date:         req.Date,
		Time:         req.Time,
		Notes:        req.Notes,
	})
	if err != nil {
		writeBusinessError(c, err, "booking_failed", "Could not create the booking.")
		return
	}

	c.JSON(http.StatusCreated, ap)
}
