package controllers

import (
	"net/http"
	"salonbook-backend/services"
	"salonbook-backend/utils"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AppointmentController serves the salon calendar.
type AppointmentController struct {
	Booking  *services.BookingService
	Payments *services.PaymentService
	Log      *zap.Logger
}

type CreateAppointmentInput struct {
	StaffID    string   `json:"staff_id" binding:"required,uuid"`
	CustomerID string   `json:"customer_id" binding:"required,uuid"`
	StartTime  string   `json:"start_time" binding:"required"`
	Services   []string `json:"services" binding:"required,min=1,dive,uuid"`
	Notes      string   `json:"notes" binding:"max=2000"`
}

type UpdateAppointmentInput struct {
	StaffID    *string   `json:"staff_id" binding:"omitempty,uuid"`
	CustomerID *string   `json:"customer_id" binding:"omitempty,uuid"`
	StartTime  *string   `json:"start_time"`
	EndTime    *string   `json:"end_time"`
	Services   *[]string `json:"services" binding:"omitempty,min=1,dive,uuid"`
	Status     *string   `json:"status" binding:"omitempty,oneof=confirmed completed cancelled no_show"`
	Notes      *string   `json:"notes" binding:"omitempty,max=2000"`
}

type CompleteAppointmentInput struct {
	Amount        *decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string           `json:"payment_method" binding:"required,oneof=cash credit_card debit_card online_payment"`
	TransactionID string           `json:"transaction_id" binding:"max=100"`
	Notes         *string          `json:"notes" binding:"omitempty,max=2000"`
}

// List returns the calendar grouped by staff. ?date= selects one day, otherwise
// ?start_date=&end_date= a range; the default is today.
func (ac *AppointmentController) List(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}

	fields := fieldErrors{}
	day := fields.parseDate("date", c.Query("date"))
	start := fields.parseDate("start_date", c.Query("start_date"))
	end := fields.parseDate("end_date", c.Query("end_date"))
	if fields.respond(c) {
		return
	}

	today := utils.StripZone(time.Now())
	from, to := utils.BeginningOfDay(today), utils.EndOfDay(today)
	switch {
	case day != nil:
		from, to = utils.BeginningOfDay(*day), utils.EndOfDay(*day)
	case start != nil || end != nil:
		if start != nil {
			from = utils.BeginningOfDay(*start)
		}
		to = utils.EndOfDay(from)
		if end != nil {
			to = utils.EndOfDay(*end)
		}
	}

	calendar, err := ac.Booking.Calendar(c.Request.Context(), actor, from, to)
	if err != nil {
		respondServiceError(c, ac.Log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"start":    from.Format(utils.DateLayout),
		"end":      to.Format(utils.DateLayout),
		"calendar": newCalendarView(calendar),
	})
}

func (ac *AppointmentController) Get(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	appointment, err := ac.Booking.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, ac.Log, err)
		return
	}
	c.JSON(http.StatusOK, newAppointmentView(appointment))
}

func (ac *AppointmentController) Create(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}

	var input CreateAppointmentInput
	if !bindJSON(c, &input) {
		return
	}

	fields := fieldErrors{}
	start := fields.parse("start_time", &input.StartTime)
	serviceIDs := parseIDs(fields, "services", input.Services)
	if fields.respond(c) {
		return
	}

	appointment, err := ac.Booking.Create(c.Request.Context(), actor, services.CreateAppointmentInput{
		StaffID:    uuidOf(input.StaffID),
		CustomerID: uuidOf(input.CustomerID),
		StartTime:  *start,
		ServiceIDs: serviceIDs,
		Notes:      input.Notes,
	})
	if err != nil {
		respondServiceError(c, ac.Log, err)
		return
	}

	appointment, err = ac.Booking.Get(c.Request.Context(), actor, appointment.ID)
	if err != nil {
		respondServiceError(c, ac.Log, err)
		return
	}
	c.JSON(http.StatusCreated, newAppointmentView(appointment))
}

func (ac *AppointmentController) Update(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input UpdateAppointmentInput
	if !bindJSON(c, &input) {
		return
	}

	fields := fieldErrors{}
	update := services.UpdateAppointmentInput{
		StartTime: fields.parse("start_time", input.StartTime),
		EndTime:   fields.parse("end_time", input.EndTime),
		Status:    input.Status,
		Notes:     input.Notes,
	}
	if input.StaffID != nil {
		staffID := uuidOf(*input.StaffID)
		update.StaffID = &staffID
	}
	if input.CustomerID != nil {
		customerID := uuidOf(*input.CustomerID)
		update.CustomerID = &customerID
	}
	if input.Services != nil {
		ids := parseIDs(fields, "services", *input.Services)
		update.ServiceIDs = &ids
	}
	if fields.respond(c) {
		return
	}

	appointment, err := ac.Booking.Update(c.Request.Context(), actor, id, update)
	if err != nil {
		respondServiceError(c, ac.Log, err)
		return
	}
	c.JSON(http.StatusOK, newAppointmentView(appointment))
}

func (ac *AppointmentController) Delete(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := ac.Booking.Delete(c.Request.Context(), actor, id); err != nil {
		respondServiceError(c, ac.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully"})
}

// Complete marks the appointment completed and records its payment.
func (ac *AppointmentController) Complete(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input CompleteAppointmentInput
	if !bindJSON(c, &input) {
		return
	}

	appointment, payment, err := ac.Payments.CompleteWithPayment(c.Request.Context(), actor, id, services.CompletePaymentInput{
		Amount:        *input.Amount,
		PaymentMethod: input.PaymentMethod,
		TransactionID: input.TransactionID,
		Notes:         input.Notes,
	})
	if err != nil {
		respondServiceError(c, ac.Log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointment": newAppointmentView(appointment),
		"payment":     newPaymentView(payment),
	})
}

// Upcoming lists confirmed appointments ?days= ahead (default 1, tomorrow).
func (ac *AppointmentController) Upcoming(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}

	days := 1
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 90 {
			utils.RespondWithFieldErrors(c, http.StatusBadRequest, "Invalid input",
				map[string]string{"days": "must be a number between 0 and 90"})
			return
		}
		days = n
	}

	appointments, err := ac.Booking.Upcoming(c.Request.Context(), actor, days)
	if err != nil {
		respondServiceError(c, ac.Log, err)
		return
	}
	c.JSON(http.StatusOK, newAppointmentViews(appointments))
}
