package controllers

import (
	"errors"
	"net/http"
	"salonbook-backend/models"
	"salonbook-backend/utils"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CustomerController struct {
	DB  *gorm.DB
	Log *zap.Logger
}

// CreateCustomerInput defines the expected JSON structure for creating a customer
type CreateCustomerInput struct {
	Name  string `json:"name" binding:"required,max=255"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
	Notes string `json:"notes"`
}

// UpdateCustomerInput defines the expected JSON structure for updating a customer
type UpdateCustomerInput struct {
	Name  *string `json:"name" binding:"omitempty,max=255"`
	Phone *string `json:"phone"`
	Email *string `json:"email" binding:"omitempty,email"`
	Notes *string `json:"notes"`
}

type customerStats struct {
	TotalVisits int64  `json:"total_visits"`
	TotalSpent  string `json:"total_spent"`
	LastVisit   string `json:"last_visit,omitempty"`
}

// CreateCustomer creates a new customer for the salon
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}

	var input CreateCustomerInput
	if !bindJSON(c, &input) {
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithFieldErrors(c, http.StatusBadRequest, "Invalid input", map[string]string{"phone": "must be a valid phone number"})
		return
	}

	// Check if phone already exists for this salon
	var existingCustomer models.Customer
	if err := cc.DB.Where("salon_id = ? AND phone = ?", actor.SalonID, input.Phone).
		First(&existingCustomer).Error; err == nil {
		utils.RespondWithConflict(c, http.StatusConflict, "customer_phone_taken", "Customer with this phone number already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		cc.Log.Error("customer lookup failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	customer := models.Customer{
		SalonID: actor.SalonID,
		Name:    strings.TrimSpace(input.Name),
		Phone:   input.Phone,
		Email:   input.Email,
		Notes:   input.Notes,
	}
	if err := cc.DB.Create(&customer).Error; err != nil {
		cc.Log.Error("create customer failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// GetCustomers retrieves all customers for the salon, optionally filtered by ?q=
func (cc *CustomerController) GetCustomers(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}

	query := cc.DB.Where("salon_id = ?", actor.SalonID)
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}

	var customers []models.Customer
	if err := query.Order("name").Find(&customers).Error; err != nil {
		cc.Log.Error("list customers failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	c.JSON(http.StatusOK, customers)
}

func (cc *CustomerController) findCustomer(c *gin.Context, salonID uuid.UUID) (*models.Customer, bool) {
	customerUUID, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}

	var customer models.Customer
	if err := cc.DB.Where("salon_id = ? AND id = ?", salonID, customerUUID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			cc.Log.Error("customer lookup failed", zap.Error(err))
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}
	return &customer, true
}

// GetCustomer retrieves a customer with their appointment history and totals
func (cc *CustomerController) GetCustomer(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}
	customer, ok := cc.findCustomer(c, actor.SalonID)
	if !ok {
		return
	}

	var appointments []models.Appointment
	if err := cc.DB.Preload("Staff").Preload("Services.Service").
		Where("salon_id = ? AND customer_id = ?", actor.SalonID, customer.ID).
		Order("start_time DESC").
		Find(&appointments).Error; err != nil {
		cc.Log.Error("customer history failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	var spent int64
	if err := cc.DB.Model(&models.Payment{}).
		Where("salon_id = ? AND customer_id = ? AND status = ?", actor.SalonID, customer.ID, models.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&spent).Error; err != nil {
		cc.Log.Error("customer spend failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve payments")
		return
	}

	stats := customerStats{TotalSpent: utils.ToMajor(spent).StringFixed(2)}
	for _, a := range appointments {
		if a.Status != models.StatusCompleted {
			continue
		}
		stats.TotalVisits++
		if stats.LastVisit == "" {
			stats.LastVisit = utils.FormatWallClock(a.StartTime)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"customer":     customer,
		"appointments": newAppointmentViews(appointments),
		"stats":        stats,
	})
}

// UpdateCustomer updates an existing customer
func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}

	var input UpdateCustomerInput
	if !bindJSON(c, &input) {
		return
	}

	customer, ok := cc.findCustomer(c, actor.SalonID)
	if !ok {
		return
	}

	if input.Name != nil {
		customer.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithFieldErrors(c, http.StatusBadRequest, "Invalid input", map[string]string{"phone": "must be a valid phone number"})
			return
		}

		// Check if phone is being changed to another existing customer
		if customer.Phone != *input.Phone {
			var existingCustomer models.Customer
			if err := cc.DB.Where("salon_id = ? AND phone = ?", actor.SalonID, *input.Phone).
				First(&existingCustomer).Error; err == nil {
				utils.RespondWithConflict(c, http.StatusConflict, "customer_phone_taken", "Another customer with this phone number already exists")
				return
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				cc.Log.Error("customer lookup failed", zap.Error(err))
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
				return
			}
		}
		customer.Phone = *input.Phone
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}
	if input.Notes != nil {
		customer.Notes = *input.Notes
	}

	if err := cc.DB.Save(customer).Error; err != nil {
		cc.Log.Error("update customer failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer removes a customer without appointment history
func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}
	customer, ok := cc.findCustomer(c, actor.SalonID)
	if !ok {
		return
	}

	var booked int64
	if err := cc.DB.Unscoped().Model(&models.Appointment{}).Where("customer_id = ?", customer.ID).Count(&booked).Error; err != nil {
		cc.Log.Error("customer history failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if booked > 0 {
		utils.RespondWithConflict(c, http.StatusConflict, "customer_has_appointments", "Customer has appointments and cannot be deleted")
		return
	}

	if err := cc.DB.Delete(customer).Error; err != nil {
		cc.Log.Error("delete customer failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}
