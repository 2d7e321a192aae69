package controllers

import (
	"net/http"
	"salonbook-backend/models"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProfileController exposes the caller's salon profile and settings.
type ProfileController struct {
	DB  *gorm.DB
	Log *zap.Logger
}

type UpdateProfileInput struct {
	Name     *string      `json:"name" binding:"omitempty,max=255"`
	Phone    *string      `json:"phone"`
	Address  *string      `json:"address" binding:"omitempty,max=500"`
	Settings models.JSONB `json:"settings"`
}

type OpeningHoursInput struct {
	OpeningHours models.JSONB `json:"opening_hours" binding:"required"`
}

func (pc *ProfileController) loadSalon(c *gin.Context) (*models.Salon, bool) {
	actor, ok := salonActor(c)
	if !ok {
		return nil, false
	}

	var salon models.Salon
	if err := pc.DB.Preload("Plan").First(&salon, "id = ?", actor.SalonID).Error; err != nil {
		pc.Log.Error("salon lookup failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusNotFound, "Salon not found")
		return nil, false
	}
	return &salon, true
}

func (pc *ProfileController) GetProfile(c *gin.Context) {
	salon, ok := pc.loadSalon(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newSalonView(salon))
}

// UpdateProfile changes salon contact data. Settings keys are merged, not replaced.
func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	var input UpdateProfileInput
	if !bindJSON(c, &input) {
		return
	}
	salon, ok := pc.loadSalon(c)
	if !ok {
		return
	}

	if input.Name != nil {
		salon.Name = *input.Name
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithFieldErrors(c, http.StatusBadRequest, "Invalid input", map[string]string{"phone": "must be a valid phone number"})
			return
		}
		salon.Phone = *input.Phone
	}
	if input.Address != nil {
		salon.Address = *input.Address
	}
	if input.Settings != nil {
		if salon.Settings == nil {
			salon.Settings = models.JSONB{}
		}
		for k, v := range input.Settings {
			salon.Settings[k] = v
		}
	}

	if err := pc.DB.Omit("Plan").Save(salon).Error; err != nil {
		pc.Log.Error("update salon failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, newSalonView(salon))
}

// UpdateOpeningHours stores the salon's public opening hours in its settings.
func (pc *ProfileController) UpdateOpeningHours(c *gin.Context) {
	var input OpeningHoursInput
	if !bindJSON(c, &input) {
		return
	}
	salon, ok := pc.loadSalon(c)
	if !ok {
		return
	}

	if salon.Settings == nil {
		salon.Settings = models.JSONB{}
	}
	salon.Settings["opening_hours"] = input.OpeningHours

	if err := pc.DB.Model(salon).Update("settings", salon.Settings).Error; err != nil {
		pc.Log.Error("update opening hours failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update opening hours")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Opening hours updated"})
}
