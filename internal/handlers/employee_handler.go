package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/salonflow/salon-queue/internal/audit"
	"github.com/salonflow/salon-queue/internal/httperr"
	"github.com/salonflow/salon-queue/internal/httpresp"
	"github.com/salonflow/salon-queue/internal/middleware"
	"github.com/salonflow/salon-queue/internal/models"
)

type EmployeeHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewEmployeeHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *EmployeeHandler {
	return &EmployeeHandler{db: db, audit: dispatcher}
}

func (h *EmployeeHandler) GetMe(c *gin.Context) {
	employeeID := c.GetUint(middleware.ContextEmployeeID)

	var employee models.Employee
	if err := h.db.Preload("Facility").First(&employee, employeeID).Error; err != nil {
		httperr.NotFound(c, "employee_not_found", "Employee not found.")
		return
	}

	c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandler) List(c *gin.Context) {
	facilityID := c.GetUint(middleware.ContextFacilityID)

	var employees []models.Employee
	if err := h.db.
		Where("facility_id = ?", facilityID).
		Order("id ASC").
		Find(&employees).Error; err != nil {
		httperr.Internal(c, "failed_to_list_employees", "Could not list employees.")
		return
	}

	httpresp.List(c, employees)
}

// --------- Onboarding ---------

type CreateEmployeeRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Phone       string `json:"phone"`
	TableNumber int    `json:"table_number"`
}

// Create registers a new employee account in the manager's facility. The
// account stays unapproved (and unable to log in) until Approve.
func (h *EmployeeHandler) Create(c *gin.Context) {
	facilityID := c.GetUint(middleware.ContextFacilityID)

	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not create the employee.")
		return
	}

	employee := models.Employee{
		FacilityID:   facilityID,
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         "employee",
		TableNumber:  req.TableNumber,
	}

	if err := h.db.Create(&employee).Error; err != nil {
		httperr.BadRequest(c, "failed_to_create_employee", "E-mail may already be in use.")
		return
	}

	c.JSON(http.StatusCreated, employee)
}

func (h *EmployeeHandler) Approve(c *gin.Context) {
	facilityID := c.GetUint(middleware.ContextFacilityID)
	managerID := c.GetUint(middleware.ContextEmployeeID)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_employee_id", "Invalid employee id.")
		return
	}

	var employee models.Employee
	if err := h.db.
		Where("id = ? AND facility_id = ?", id, facilityID).
		First(&employee).Error; err != nil {
		httperr.NotFound(c, "employee_not_found", "Employee not found.")
		return
	}

	if employee.Approved {
		httperr.Conflict(c, "already_approved", "Employee is already approved.")
		return
	}

	employee.Approved = true
	if err := h.db.Save(&employee).Error; err != nil {
		httperr.Internal(c, "failed_to_approve", "Could not approve the employee.")
		return
	}

	h.audit.Dispatch(audit.Event{
		FacilityID: facilityID,
		EmployeeID: &managerID,
		Action:     "employee_approved",
		Entity:     "employee",
		EntityID:   &employee.ID,
	})

	c.JSON(http.StatusOK, employee)
}
