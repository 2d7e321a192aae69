package controllers

import (
	"errors"
	"net/http"
	"salonbook-backend/models"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceController struct {
	DB  *gorm.DB
	Log *zap.Logger
}

// CreateServiceInput takes the price in major units
type CreateServiceInput struct {
	Name            string           `json:"name" binding:"required,max=255"`
	Description     string           `json:"description"`
	Price           *decimal.Decimal `json:"price" binding:"required"`
	DurationMinutes int              `json:"duration_minutes" binding:"required,min=1,max=1440"`
	IsActive        *bool            `json:"is_active"`
}

type UpdateServiceInput struct {
	Name            *string          `json:"name" binding:"omitempty,max=255"`
	Description     *string          `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	DurationMinutes *int             `json:"duration_minutes" binding:"omitempty,min=1,max=1440"`
	IsActive        *bool            `json:"is_active"`
}

func invalidPrice(c *gin.Context, price *decimal.Decimal) bool {
	if price != nil && price.IsNegative() {
		utils.RespondWithFieldErrors(c, http.StatusBadRequest, "Invalid input", map[string]string{"price": "must not be negative"})
		return true
	}
	return false
}

// CreateService creates a new service for the salon
func (sc *ServiceController) CreateService(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}

	var input CreateServiceInput
	if !bindJSON(c, &input) || invalidPrice(c, input.Price) {
		return
	}

	service := models.Service{
		SalonID:         actor.SalonID,
		Name:            input.Name,
		Description:     input.Description,
		Price:           utils.ToMinor(*input.Price),
		DurationMinutes: input.DurationMinutes,
		IsActive:        true,
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}

	if err := sc.DB.Create(&service).Error; err != nil {
		sc.Log.Error("create service failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service")
		return
	}

	c.JSON(http.StatusCreated, newServiceView(&service))
}

// GetServices retrieves the salon's services; ?active=true hides deactivated ones
func (sc *ServiceController) GetServices(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}

	query := sc.DB.Where("salon_id = ?", actor.SalonID)
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var services []models.Service
	if err := query.Order("name").Find(&services).Error; err != nil {
		sc.Log.Error("list services failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}

	views := make([]serviceView, 0, len(services))
	for i := range services {
		views = append(views, newServiceView(&services[i]))
	}
	c.JSON(http.StatusOK, views)
}

func (sc *ServiceController) findService(c *gin.Context, salonID uuid.UUID) (*models.Service, bool) {
	serviceUUID, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}

	var service models.Service
	if err := sc.DB.Where("salon_id = ? AND id = ?", salonID, serviceUUID).
		First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			sc.Log.Error("service lookup failed", zap.Error(err))
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}
	return &service, true
}

// GetService retrieves a specific service by ID
func (sc *ServiceController) GetService(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}
	service, ok := sc.findService(c, actor.SalonID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newServiceView(service))
}

// UpdateService updates an existing service. Booked appointments keep their
// snapshot of the old price and duration.
func (sc *ServiceController) UpdateService(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}

	var input UpdateServiceInput
	if !bindJSON(c, &input) || invalidPrice(c, input.Price) {
		return
	}

	service, ok := sc.findService(c, actor.SalonID)
	if !ok {
		return
	}

	if input.Name != nil {
		service.Name = *input.Name
	}
	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.Price != nil {
		service.Price = utils.ToMinor(*input.Price)
	}
	if input.DurationMinutes != nil {
		service.DurationMinutes = *input.DurationMinutes
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}

	if err := sc.DB.Save(service).Error; err != nil {
		sc.Log.Error("update service failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update service")
		return
	}

	c.JSON(http.StatusOK, newServiceView(service))
}

// DeleteService removes an unused service; a service that was ever booked is
// deactivated instead so appointment history stays intact.
func (sc *ServiceController) DeleteService(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}
	service, ok := sc.findService(c, actor.SalonID)
	if !ok {
		return
	}

	var booked int64
	if err := sc.DB.Model(&models.AppointmentService{}).Where("service_id = ?", service.ID).Count(&booked).Error; err != nil {
		sc.Log.Error("service usage lookup failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if booked > 0 {
		if err := sc.DB.Model(service).Update("is_active", false).Error; err != nil {
			sc.Log.Error("deactivate service failed", zap.Error(err))
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete service")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Service has bookings and was deactivated"})
		return
	}

	if err := sc.DB.Delete(service).Error; err != nil {
		sc.Log.Error("delete service failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete service")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
