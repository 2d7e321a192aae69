package controllers

import (
	"net/http"
	"salonbook-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PublicController serves the unauthenticated booking page of a salon.
type PublicController struct {
	Booking *services.BookingService
	Log     *zap.Logger
}

type OnlineBookingInput struct {
	StaffID   string   `json:"staff_id" binding:"required,uuid"`
	StartTime string   `json:"start_time" binding:"required"`
	Services  []string `json:"services" binding:"required,min=1,dive,uuid"`
	Name      string   `json:"name" binding:"required,max=255"`
	Phone     string   `json:"phone" binding:"required"`
	Email     string   `json:"email" binding:"omitempty,email"`
	Notes     string   `json:"notes" binding:"max=1000"`
}

func (pc *PublicController) GetSalon(c *gin.Context) {
	salon, err := pc.Booking.PublicSalon(c.Request.Context(), c.Param("subdomain"))
	if err != nil {
		respondServiceError(c, pc.Log, err)
		return
	}

	staff := make([]gin.H, 0, len(salon.Staff))
	for _, member := range salon.Staff {
		staff = append(staff, gin.H{"id": member.ID.String(), "name": member.Name})
	}
	catalog := make([]serviceView, 0, len(salon.Services))
	for i := range salon.Services {
		catalog = append(catalog, newServiceView(&salon.Services[i]))
	}
	onlineBooking := salon.Salon.Plan != nil && salon.Salon.Plan.AllowOnlineBooking

	c.JSON(http.StatusOK, gin.H{
		"name":           salon.Salon.Name,
		"subdomain":      salon.Salon.Subdomain,
		"phone":          salon.Salon.Phone,
		"address":        salon.Salon.Address,
		"opening_hours":  salon.Salon.Settings["opening_hours"],
		"online_booking": onlineBooking,
		"staff":          staff,
		"services":       catalog,
	})
}

func (pc *PublicController) Book(c *gin.Context) {
	var input OnlineBookingInput
	if !bindJSON(c, &input) {
		return
	}

	fields := fieldErrors{}
	start := fields.parse("start_time", &input.StartTime)
	serviceIDs := parseIDs(fields, "services", input.Services)
	if fields.respond(c) {
		return
	}

	appointment, err := pc.Booking.BookOnline(c.Request.Context(), c.Param("subdomain"), services.OnlineBookingInput{
		StaffID:       uuidOf(input.StaffID),
		StartTime:     *start,
		ServiceIDs:    serviceIDs,
		CustomerName:  input.Name,
		CustomerPhone: input.Phone,
		CustomerEmail: input.Email,
		Notes:         input.Notes,
	})
	if err != nil {
		respondServiceError(c, pc.Log, err)
		return
	}

	view := newAppointmentView(appointment)
	c.JSON(http.StatusCreated, gin.H{
		"id":             view.ID,
		"start_time":     view.StartTime,
		"end_time":       view.EndTime,
		"total_price":    view.TotalPrice,
		"total_duration": view.TotalDuration,
		"status":         view.Status,
	})
}
