package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/salonflow/salon-queue/internal/httperr"
	"github.com/salonflow/salon-queue/internal/middleware"
	"github.com/salonflow/salon-queue/internal/usecase/queue"
)

// CheckInHandler drives the employee side of the day queue: check-in,
// check-out and breaks.
type CheckInHandler struct {
	checkIn  *queue.CheckInEmployee
	checkOut *queue.CheckOutEmployee
	breaks   *queue.ManageBreak
}

func NewCheckInHandler(
	checkIn *queue.CheckInEmployee,
	checkOut *queue.CheckOutEmployee,
	breaks *queue.ManageBreak,
) *CheckInHandler {
	return &CheckInHandler{
		checkIn:  checkIn,
		checkOut: checkOut,
		breaks:   breaks,
	}
}

func (h *CheckInHandler) CheckIn(c *gin.Context) {
	facilityID := c.GetUint(middleware.ContextFacilityID)
	employeeID := c.GetUint(middleware.ContextEmployeeID)

	result, err := h.checkIn.Execute(c.Request.Context(), facilityID, employeeID)
	if err != nil {
		writeBusinessError(c, err, "check_in_failed", "Could not check in.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"entry":    result.Entry,
		"assigned": result.Assigned,
	})
}

func (h *CheckInHandler) CheckOut(c *gin.Context) {
	facilityID := c.GetUint(middleware.ContextFacilityID)

	entryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_entry_id", "Invalid queue entry id.")
		return
	}

	if err := h.checkOut.Execute(c.Request.Context(), facilityID, uint(entryID)); err != nil {
		writeBusinessError(c, err, "check_out_failed", "Could not check out.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "checked_out"})
}

func (h *CheckInHandler) StartBreak(c *gin.Context) {
	facilityID := c.GetUint(middleware.ContextFacilityID)
	employeeID := c.GetUint(middleware.ContextEmployeeID)

	if err := h.breaks.Start(c.Request.Context(), facilityID, employeeID); err != nil {
		writeBusinessError(c, err, "break_failed", "Could not start the break.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "on_break"})
}

func (h *CheckInHandler) EndBreak(c *gin.Context) {
	facilityID := c.GetUint(middleware.ContextFacilityID)
	employeeID := c.GetUint(middleware.ContextEmployeeID)

	if err := h.breaks.End(c.Request.Context(), facilityID, employeeID); err != nil {
		writeBusinessError(c, err, "break_failed", "Could not end the break.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "available"})
}
