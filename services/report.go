package services

import (
	"context"
	"salonbook-backend/auth"
	"salonbook-backend/models"
	"salonbook-backend/utils"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const trailingMonths = 6

// ReportService rolls a salon's payments, expenses and completed appointments
// up over a date range.
type ReportService struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

func NewReportService(db *gorm.DB, log *zap.Logger) *ReportService {
	return &ReportService{
		db:  db,
		log: log,
		now: func() time.Time { return utils.StripZone(time.Now()) },
	}
}

type Report struct {
	Stats              ReportStats      `json:"stats"`
	DailyRevenue       []DailyRevenue   `json:"dailyRevenue"`
	MonthlyRevenue     []MonthlyRevenue `json:"monthlyRevenue"`
	PaymentMethods     []MethodTotal    `json:"paymentMethods"`
	ExpensesByCategory []CategoryTotal  `json:"expensesByCategory"`
	Expenses           []ExpenseLine    `json:"expenses"`
	DateRange          ReportDateRange  `json:"dateRange"`
}

type ReportStats struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalExpenses     decimal.Decimal `json:"total_expenses"`
	NetIncome         decimal.Decimal `json:"net_income"`
	TotalAppointments int64           `json:"total_appointments"`
	AvgTransaction    decimal.Decimal `json:"avg_transaction"`
}

type DailyRevenue struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type MonthlyRevenue struct {
	Month        string          `json:"month"`
	Revenue      decimal.Decimal `json:"revenue"`
	Appointments int             `json:"appointments"`
}

type MethodTotal struct {
	Method string          `json:"method"`
	Total  decimal.Decimal `json:"total"`
	Count  int             `json:"count"`
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

type ExpenseLine struct {
	ID          string          `json:"id"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	ExpenseDate string          `json:"expense_date"`
}

type ReportDateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ReportData is everything the aggregation needs, already filtered by salon.
// Amounts are minor units.
type ReportData struct {
	Start, End            time.Time
	Now                   time.Time
	Payments              []models.Payment
	Expenses              []models.Expense
	CompletedAppointments int64
	// Series inputs cover the trailing months ending with Now's month.
	SeriesPayments     []models.Payment
	SeriesAppointments []time.Time
}

// ResolveRange applies the report defaults: the current calendar month, with
// the start snapped to the beginning of its day and the end to the end of its day.
func ResolveRange(now time.Time, start, end *time.Time) (time.Time, time.Time) {
	from := utils.BeginningOfMonth(now)
	to := utils.EndOfMonth(now)
	if start != nil {
		from = utils.BeginningOfDay(*start)
	}
	if end != nil {
		to = utils.EndOfDay(*end)
	}
	return from, to
}

func (s *ReportService) Report(ctx context.Context, actor *auth.Actor, start, end *time.Time) (*Report, error) {
	now := s.now()
	from, to := ResolveRange(now, start, end)
	if to.Before(from) {
		return nil, ValidationError("end_date", "must not be before start_date")
	}

	db := s.db.WithContext(ctx)
	data := ReportData{Start: from, End: to, Now: now}

	err := db.Where("salon_id = ? AND status = ? AND created_at BETWEEN ? AND ?",
		actor.SalonID, models.PaymentCompleted, from, to).
		Find(&data.Payments).Error
	if err != nil {
		return nil, errors.Wrap(err, "load payments")
	}

	err = db.Where("salon_id = ? AND expense_date BETWEEN ? AND ?", actor.SalonID, from, to).
		Order("expense_date DESC").
		Find(&data.Expenses).Error
	if err != nil {
		return nil, errors.Wrap(err, "load expenses")
	}

	err = db.Model(&models.Appointment{}).
		Where("salon_id = ? AND status = ? AND created_at BETWEEN ? AND ?",
			actor.SalonID, models.StatusCompleted, from, to).
		Count(&data.CompletedAppointments).Error
	if err != nil {
		return nil, errors.Wrap(err, "count appointments")
	}

	seriesFrom := utils.BeginningOfMonth(now).AddDate(0, -(trailingMonths - 1), 0)
	seriesTo := utils.EndOfMonth(now)
	err = db.Where("salon_id = ? AND status = ? AND created_at BETWEEN ? AND ?",
		actor.SalonID, models.PaymentCompleted, seriesFrom, seriesTo).
		Find(&data.SeriesPayments).Error
	if err != nil {
		return nil, errors.Wrap(err, "load payment series")
	}
	err = db.Model(&models.Appointment{}).
		Where("salon_id = ? AND status = ? AND created_at BETWEEN ? AND ?",
			actor.SalonID, models.StatusCompleted, seriesFrom, seriesTo).
		Pluck("created_at", &data.SeriesAppointments).Error
	if err != nil {
		return nil, errors.Wrap(err, "load appointment series")
	}

	report := BuildReport(data)
	return &report, nil
}

// BuildReport aggregates in minor units and converts to major units only when
// filling the output.
func BuildReport(data ReportData) Report {
	var revenue, expenses int64

	daily := map[string]*DailyRevenue{}
	dailyMinor := map[string]int64{}
	methods := map[string]int{}
	methodMinor := map[string]int64{}
	for _, p := range data.Payments {
		revenue += p.Amount

		day := p.CreatedAt.Format(utils.DateLayout)
		if daily[day] == nil {
			daily[day] = &DailyRevenue{Date: day}
		}
		daily[day].Count++
		dailyMinor[day] += p.Amount

		methods[p.PaymentMethod]++
		methodMinor[p.PaymentMethod] += p.Amount
	}

	categories := map[string]int{}
	categoryMinor := map[string]int64{}
	lines := make([]ExpenseLine, 0, len(data.Expenses))
	for _, e := range data.Expenses {
		expenses += e.Amount
		categories[e.Category]++
		categoryMinor[e.Category] += e.Amount
		lines = append(lines, ExpenseLine{
			ID:          e.ID.String(),
			Category:    e.Category,
			Amount:      utils.ToMajor(e.Amount),
			Description: e.Description,
			ExpenseDate: e.ExpenseDate.Format(utils.DateLayout),
		})
	}

	avg := decimal.Zero
	if data.CompletedAppointments > 0 {
		avg = utils.ToMajor(revenue).Div(decimal.NewFromInt(data.CompletedAppointments)).Round(2)
	}

	report := Report{
		Stats: ReportStats{
			TotalRevenue:      utils.ToMajor(revenue),
			TotalExpenses:     utils.ToMajor(expenses),
			NetIncome:         utils.ToMajor(revenue - expenses),
			TotalAppointments: data.CompletedAppointments,
			AvgTransaction:    avg,
		},
		DailyRevenue:       make([]DailyRevenue, 0, len(daily)),
		MonthlyRevenue:     monthlySeries(data),
		PaymentMethods:     make([]MethodTotal, 0, len(methods)),
		ExpensesByCategory: make([]CategoryTotal, 0, len(categories)),
		Expenses:           lines,
		DateRange: ReportDateRange{
			Start: data.Start.Format(utils.DateLayout),
			End:   data.End.Format(utils.DateLayout),
		},
	}

	for day, row := range daily {
		row.Total = utils.ToMajor(dailyMinor[day])
		report.DailyRevenue = append(report.DailyRevenue, *row)
	}
	sort.Slice(report.DailyRevenue, func(i, j int) bool {
		return report.DailyRevenue[i].Date < report.DailyRevenue[j].Date
	})

	for method, count := range methods {
		report.PaymentMethods = append(report.PaymentMethods, MethodTotal{
			Method: method,
			Total:  utils.ToMajor(methodMinor[method]),
			Count:  count,
		})
	}
	sort.Slice(report.PaymentMethods, func(i, j int) bool {
		return report.PaymentMethods[i].Method < report.PaymentMethods[j].Method
	})

	for category, count := range categories {
		report.ExpensesByCategory = append(report.ExpensesByCategory, CategoryTotal{
			Category: category,
			Total:    utils.ToMajor(categoryMinor[category]),
			Count:    count,
		})
	}
	sort.Slice(report.ExpensesByCategory, func(i, j int) bool {
		return report.ExpensesByCategory[i].Category < report.ExpensesByCategory[j].Category
	})

	return report
}

// monthlySeries always has one entry per month, oldest first, ending with Now's month.
func monthlySeries(data ReportData) []MonthlyRevenue {
	first := utils.BeginningOfMonth(data.Now).AddDate(0, -(trailingMonths - 1), 0)

	revenue := make(map[string]int64, trailingMonths)
	appointments := make(map[string]int, trailingMonths)
	for _, p := range data.SeriesPayments {
		revenue[p.CreatedAt.Format("2006-01")] += p.Amount
	}
	for _, at := range data.SeriesAppointments {
		appointments[at.Format("2006-01")]++
	}

	series := make([]MonthlyRevenue, 0, trailingMonths)
	for i := 0; i < trailingMonths; i++ {
		month := first.AddDate(0, i, 0).Format("2006-01")
		series = append(series, MonthlyRevenue{
			Month:        month,
			Revenue:      utils.ToMajor(revenue[month]),
			Appointments: appointments[month],
		})
	}
	return series
}
