package controllers

import (
	"salonbook-backend/models"
	"salonbook-backend/services"
	"salonbook-backend/utils"

	"github.com/shopspring/decimal"
)

type customerView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Notes string `json:"notes,omitempty"`
}

func newCustomerView(c *models.Customer) *customerView {
	if c == nil {
		return nil
	}
	return &customerView{ID: c.ID.String(), Name: c.Name, Phone: c.Phone, Email: c.Email, Notes: c.Notes}
}

type staffView struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Role       string  `json:"role"`
	IsBookable bool    `json:"is_bookable"`
	LastLogin  *string `json:"last_login,omitempty"`
}

func newStaffView(u *models.User) *staffView {
	if u == nil {
		return nil
	}
	v := &staffView{
		ID:         u.ID.String(),
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Role:       u.Role,
		IsBookable: u.IsBookable,
	}
	if u.LastLogin != nil {
		last := utils.FormatWallClock(*u.LastLogin)
		v.LastLogin = &last
	}
	return v
}

type bookedServiceView struct {
	ServiceID       string          `json:"service_id"`
	Name            string          `json:"name,omitempty"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
}

type appointmentView struct {
	ID            string              `json:"id"`
	StaffID       string              `json:"staff_id"`
	CustomerID    string              `json:"customer_id"`
	StartTime     string              `json:"start_time"`
	EndTime       string              `json:"end_time"`
	TotalPrice    decimal.Decimal     `json:"total_price"`
	TotalDuration int                 `json:"total_duration"`
	Status        string              `json:"status"`
	Notes         string              `json:"notes"`
	BookedBy      string              `json:"booked_by"`
	Customer      *customerView       `json:"customer,omitempty"`
	Staff         *staffView          `json:"staff,omitempty"`
	Services      []bookedServiceView `json:"services"`
}

func newAppointmentView(a *models.Appointment) appointmentView {
	v := appointmentView{
		ID:            a.ID.String(),
		StaffID:       a.StaffID.String(),
		CustomerID:    a.CustomerID.String(),
		StartTime:     utils.FormatWallClock(a.StartTime),
		EndTime:       utils.FormatWallClock(a.EndTime),
		TotalPrice:    utils.ToMajor(a.TotalPrice),
		TotalDuration: a.TotalDuration,
		Status:        a.Status,
		Notes:         a.Notes,
		BookedBy:      a.BookedBy,
		Customer:      newCustomerView(a.Customer),
		Staff:         newStaffView(a.Staff),
		Services:      make([]bookedServiceView, 0, len(a.Services)),
	}
	for _, s := range a.Services {
		row := bookedServiceView{
			ServiceID:       s.ServiceID.String(),
			Price:           utils.ToMajor(s.Price),
			DurationMinutes: s.DurationMinutes,
		}
		if s.Service != nil {
			row.Name = s.Service.Name
		}
		v.Services = append(v.Services, row)
	}
	return v
}

func newAppointmentViews(list []models.Appointment) []appointmentView {
	views := make([]appointmentView, 0, len(list))
	for i := range list {
		views = append(views, newAppointmentView(&list[i]))
	}
	return views
}

type calendarColumnView struct {
	Staff        *staffView        `json:"staff"`
	Appointments []appointmentView `json:"appointments"`
}

func newCalendarView(calendar []services.StaffCalendar) []calendarColumnView {
	columns := make([]calendarColumnView, 0, len(calendar))
	for i := range calendar {
		columns = append(columns, calendarColumnView{
			Staff:        newStaffView(&calendar[i].Staff),
			Appointments: newAppointmentViews(calendar[i].Appointments),
		})
	}
	return columns
}

type paymentView struct {
	ID            string          `json:"id"`
	AppointmentID string          `json:"appointment_id,omitempty"`
	CustomerID    string          `json:"customer_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Status        string          `json:"status"`
	TransactionID string          `json:"transaction_id,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

func newPaymentView(p *models.Payment) paymentView {
	v := paymentView{
		ID:            p.ID.String(),
		CustomerID:    p.CustomerID.String(),
		Amount:        utils.ToMajor(p.Amount),
		PaymentMethod: p.PaymentMethod,
		Status:        p.Status,
		TransactionID: p.TransactionID,
		CreatedAt:     utils.FormatWallClock(p.CreatedAt),
	}
	if p.AppointmentID != nil {
		v.AppointmentID = p.AppointmentID.String()
	}
	return v
}

type timeOffView struct {
	ID        string     `json:"id"`
	StaffID   string     `json:"staff_id"`
	Staff     *staffView `json:"staff,omitempty"`
	StartTime string     `json:"start_time"`
	EndTime   string     `json:"end_time"`
	Reason    string     `json:"reason"`
}

func newTimeOffView(t *models.TimeOff) timeOffView {
	return timeOffView{
		ID:        t.ID.String(),
		StaffID:   t.UserID.String(),
		Staff:     newStaffView(t.User),
		StartTime: utils.FormatWallClock(t.StartTime),
		EndTime:   utils.FormatWallClock(t.EndTime),
		Reason:    t.Reason,
	}
}

type expenseView struct {
	ID          string          `json:"id"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	ExpenseDate string          `json:"expense_date"`
}

func newExpenseView(e *models.Expense) expenseView {
	return expenseView{
		ID:          e.ID.String(),
		Category:    e.Category,
		Amount:      utils.ToMajor(e.Amount),
		Description: e.Description,
		ExpenseDate: e.ExpenseDate.Format(utils.DateLayout),
	}
}

type serviceView struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
	IsActive        bool            `json:"is_active"`
}

func newServiceView(s *models.Service) serviceView {
	return serviceView{
		ID:              s.ID.String(),
		Name:            s.Name,
		Description:     s.Description,
		Price:           utils.ToMajor(s.Price),
		DurationMinutes: s.DurationMinutes,
		IsActive:        s.IsActive,
	}
}

type productView struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	StockLevel int             `json:"stock_level"`
	Price      decimal.Decimal `json:"price"`
	Cost       decimal.Decimal `json:"cost"`
}

func newProductView(p *models.Product) productView {
	return productView{
		ID:         p.ID.String(),
		Name:       p.Name,
		SKU:        p.SKU,
		StockLevel: p.StockLevel,
		Price:      utils.ToMajor(p.Price),
		Cost:       utils.ToMajor(p.Cost),
	}
}

type salonView struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	Subdomain          string       `json:"subdomain"`
	Phone              string       `json:"phone"`
	Address            string       `json:"address"`
	Settings           models.JSONB `json:"settings"`
	PlanID             *string      `json:"plan_id"`
	Plan               *models.Plan `json:"plan,omitempty"`
	SubscriptionEndsAt *string      `json:"subscription_ends_at"`
}

func newSalonView(s *models.Salon) *salonView {
	if s == nil {
		return nil
	}
	v := &salonView{
		ID:        s.ID.String(),
		Name:      s.Name,
		Subdomain: s.Subdomain,
		Phone:     s.Phone,
		Address:   s.Address,
		Settings:  s.Settings,
		Plan:      s.Plan,
	}
	if s.PlanID != nil {
		id := s.PlanID.String()
		v.PlanID = &id
	}
	if s.SubscriptionEndsAt != nil {
		ends := utils.FormatWallClock(*s.SubscriptionEndsAt)
		v.SubscriptionEndsAt = &ends
	}
	return v
}
