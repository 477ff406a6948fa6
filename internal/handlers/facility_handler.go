package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/salonflow/salon-queue/internal/domain/schedule"
	"github.com/salonflow/salon-queue/internal/httperr"
	"github.com/salonflow/salon-queue/internal/middleware"
	"github.com/salonflow/salon-queue/internal/models"
	"github.com/salonflow/salon-queue/internal/timezone"
)

type FacilityHandler struct {
	db *gorm.DB
}

func NewFacilityHandler(db *gorm.DB) *FacilityHandler {
	return &FacilityHandler{db: db}
}

func (h *FacilityHandler) GetMeFacility(c *gin.Context) {
	facilityID := c.GetUint(middleware.ContextFacilityID)

	var facility models.Facility
	if err := h.db.First(&facility, facilityID).Error; err != nil {
		httperr.NotFound(c, "facility_not_found", "Facility not found.")
		return
	}

	c.JSON(http.StatusOK, facility)
}

type UpdateFacilityRequest struct {
	Name              *string `json:"name"`
	Phone             *string `json:"phone"`
	Address           *string `json:"address"`
	Timezone          *string `json:"timezone"`
	QueueCutoff       *string `json:"queue_cutoff"`
	MinAdvanceMinutes *int    `json:"min_advance_minutes"`
}

func (h *FacilityHandler) UpdateMeFacility(c *gin.Context) {
	facilityID := c.GetUint(middleware.ContextFacilityID)

	var facility models.Facility
	if err := h.db.First(&facility, facilityID).Error; err != nil {
		httperr.NotFound(c, "facility_not_found", "Facility not found.")
		return
	}

	var req UpdateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		facility.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		facility.Phone = *req.Phone
	}
	if req.Address != nil {
		facility.Address = *req.Address
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown timezone.")
			return
		}
		facility.Timezone = *req.Timezone
	}
	if req.QueueCutoff != nil {
		if _, err := domain.ParseCutoff(*req.QueueCutoff); err != nil {
			httperr.BadRequest(c, "invalid_cutoff", "Cutoff must be HH:MM.")
			return
		}
		facility.QueueCutoff = *req.QueueCutoff
	}
	if req.MinAdvanceMinutes != nil {
		facility.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}

	if err := h.db.Save(&facility).Error; err != nil {
		httperr.Internal(c, "failed_to_update_facility", "Could not update the facility.")
		return
	}

	c.JSON(http.StatusOK, facility)
}
