package controllers

import (
	"net/http"
	"salonbook-backend/models"
	"salonbook-backend/services"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScheduleController manages staff working hours and time off.
type ScheduleController struct {
	Availability *services.AvailabilityService
	Log          *zap.Logger
}

type WorkingHourInput struct {
	DayOfWeek *int   `json:"day_of_week" binding:"required,min=0,max=6"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsOff     bool   `json:"is_off"`
}

type CreateWorkingHourInput struct {
	StaffID string `json:"staff_id" binding:"required,uuid"`
	WorkingHourInput
}

type UpdateWorkingHourInput struct {
	DayOfWeek *int    `json:"day_of_week" binding:"omitempty,min=0,max=6"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	IsOff     *bool   `json:"is_off"`
}

type BulkWorkingHoursInput struct {
	StaffID  string             `json:"staff_id" binding:"required,uuid"`
	Schedule []WorkingHourInput `json:"schedule" binding:"max=7,dive"`
}

type CreateTimeOffInput struct {
	StaffID   string `json:"staff_id" binding:"required,uuid"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Reason    string `json:"reason" binding:"max=500"`
}

type UpdateTimeOffInput struct {
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Reason    *string `json:"reason" binding:"omitempty,max=500"`
}

func (in WorkingHourInput) toService() services.WorkingHourInput {
	return services.WorkingHourInput{
		DayOfWeek: *in.DayOfWeek,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		IsOff:     in.IsOff,
	}
}

// staffFilter reads the optional ?staff_id= filter.
func staffFilter(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("staff_id")
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondWithFieldErrors(c, http.StatusBadRequest, "Invalid input", map[string]string{"staff_id": "must be a valid id"})
		return nil, false
	}
	return &id, true
}

func (sc *ScheduleController) ListWorkingHours(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}
	staffID, ok := staffFilter(c)
	if !ok {
		return
	}

	hours, err := sc.Availability.ListWorkingHours(c.Request.Context(), actor, staffID)
	if err != nil {
		respondServiceError(c, sc.Log, err)
		return
	}
	if hours == nil {
		hours = []models.WorkingHour{}
	}
	c.JSON(http.StatusOK, hours)
}

func (sc *ScheduleController) CreateWorkingHour(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}

	var input CreateWorkingHourInput
	if !bindJSON(c, &input) {
		return
	}

	hour, err := sc.Availability.CreateWorkingHour(c.Request.Context(), actor, uuidOf(input.StaffID), input.WorkingHourInput.toService())
	if err != nil {
		respondServiceError(c, sc.Log, err)
		return
	}
	c.JSON(http.StatusCreated, hour)
}

func (sc *ScheduleController) UpdateWorkingHour(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input UpdateWorkingHourInput
	if !bindJSON(c, &input) {
		return
	}

	hour, err := sc.Availability.UpdateWorkingHour(c.Request.Context(), actor, id, services.WorkingHourUpdate{
		DayOfWeek: input.DayOfWeek,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		IsOff:     input.IsOff,
	})
	if err != nil {
		respondServiceError(c, sc.Log, err)
		return
	}
	c.JSON(http.StatusOK, hour)
}

func (sc *ScheduleController) DeleteWorkingHour(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := sc.Availability.DeleteWorkingHour(c.Request.Context(), actor, id); err != nil {
		respondServiceError(c, sc.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Working hour deleted successfully"})
}

// ReplaceWorkingHours swaps the staff member's weekly schedule for the one supplied.
func (sc *ScheduleController) ReplaceWorkingHours(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}

	var input BulkWorkingHoursInput
	if !bindJSON(c, &input) {
		return
	}

	schedule := make([]services.WorkingHourInput, 0, len(input.Schedule))
	for _, day := range input.Schedule {
		schedule = append(schedule, day.toService())
	}

	hours, err := sc.Availability.ReplaceWorkingHours(c.Request.Context(), actor, uuidOf(input.StaffID), schedule)
	if err != nil {
		respondServiceError(c, sc.Log, err)
		return
	}
	c.JSON(http.StatusOK, hours)
}

func (sc *ScheduleController) ListTimeOffs(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}
	staffID, ok := staffFilter(c)
	if !ok {
		return
	}

	offs, err := sc.Availability.ListTimeOffs(c.Request.Context(), actor, staffID)
	if err != nil {
		respondServiceError(c, sc.Log, err)
		return
	}
	views := make([]timeOffView, 0, len(offs))
	for i := range offs {
		views = append(views, newTimeOffView(&offs[i]))
	}
	c.JSON(http.StatusOK, views)
}

func (sc *ScheduleController) CreateTimeOff(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}

	var input CreateTimeOffInput
	if !bindJSON(c, &input) {
		return
	}

	fields := fieldErrors{}
	start := fields.parse("start_time", &input.StartTime)
	end := fields.parse("end_time", &input.EndTime)
	if fields.respond(c) {
		return
	}

	off, err := sc.Availability.CreateTimeOff(c.Request.Context(), actor, services.TimeOffInput{
		StaffID:   uuidOf(input.StaffID),
		StartTime: *start,
		EndTime:   *end,
		Reason:    input.Reason,
	})
	if err != nil {
		respondServiceError(c, sc.Log, err)
		return
	}
	c.JSON(http.StatusCreated, newTimeOffView(off))
}

func (sc *ScheduleController) UpdateTimeOff(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input UpdateTimeOffInput
	if !bindJSON(c, &input) {
		return
	}

	fields := fieldErrors{}
	update := services.TimeOffUpdate{
		StartTime: fields.parse("start_time", input.StartTime),
		EndTime:   fields.parse("end_time", input.EndTime),
		Reason:    input.Reason,
	}
	if fields.respond(c) {
		return
	}

	off, err := sc.Availability.UpdateTimeOff(c.Request.Context(), actor, id, update)
	if err != nil {
		respondServiceError(c, sc.Log, err)
		return
	}
	c.JSON(http.StatusOK, newTimeOffView(off))
}

func (sc *ScheduleController) DeleteTimeOff(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := sc.Availability.DeleteTimeOff(c.Request.Context(), actor, id); err != nil {
		respondServiceError(c, sc.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Time off deleted successfully"})
}
