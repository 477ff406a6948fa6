package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/salonflow/salon-queue/internal/config"
	"github.com/salonflow/salon-queue/internal/models"
	"github.com/salonflow/salon-queue/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, config: cfg}
}

// --------- Requests ---------

type RegisterRequest struct {
	FacilityName    string `json:"facility_name" binding:"required"`
	FacilitySlug    string `json:"facility_slug" binding:"required"`
	FacilityPhone   string `json:"facility_phone"`
	FacilityAddress string `json:"facility_address"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

// Register creates a facility together with its manager account. Employees
// are added afterwards and wait for manager approval.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.FacilitySlug))

	var count int64
	h.db.Model(&models.Facility{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug_already_exists"})
		return
	}

	facility := models.Facility{
		Name:    req.FacilityName,
		Slug:    slug,
		Phone:   req.FacilityPhone,
		Address: req.FacilityAddress,
	}

	if err := h.db.Create(&facility).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_facility"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_hash_password"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !validators.IsEmailDomainValid(email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_email_domain",
			"message": "The e-mail domain does not look valid.",
		})
		return
	}

	manager := models.Employee{
		FacilityID:   facility.ID,
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         "manager",
		Approved:     true,
	}

	if err := h.db.Create(&manager).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_employee"})
		return
	}

	token, err := h.generateToken(&manager)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"employee": gin.H{
			"id":          manager.ID,
			"name":        manager.Name,
			"email":       manager.Email,
			"phone":       manager.Phone,
			"role":        manager.Role,
			"facility_id": manager.FacilityID,
		},
		"facility": gin.H{
			"id":      facility.ID,
			"name":    facility.Name,
			"slug":    facility.Slug,
			"phone":   facility.Phone,
			"address": facility.Address,
		},
		"token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var employee models.Employee
	if err := h.db.Preload("Facility").
		Where("email = ?", email).
		First(&employee).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	if !employee.Approved {
		c.JSON(http.StatusForbidden, gin.H{"error": "not_approved"})
		return
	}

	token, err := h.generateToken(&employee)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"employee": gin.H{
			"id":          employee.ID,
			"name":        employee.Name,
			"email":       employee.Email,
			"phone":       employee.Phone,
			"role":        employee.Role,
			"facility_id": employee.FacilityID,
		},
		"facility": gin.H{
			"id":      employee.Facility.ID,
			"name":    employee.Facility.Name,
			"slug":    employee.Facility.Slug,
			"phone":   employee.Facility.Phone,
			"address": employee.Facility.Address,
		},
		"token": token,
	})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(employee *models.Employee) (string, error) {
	claims := jwt.MapClaims{
		"sub":        employee.ID,
		"facilityId": employee.FacilityID,
		"role":       employee.Role,
		"exp":        time.Now().Add(24 * time.Hour).Unix(),
		"iat":        time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
