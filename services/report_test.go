package services

import (
	"salonbook-backend/models"
	"salonbook-backend/utils"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildReport(t *testing.T) {
	now := time.Date(2030, time.March, 15, 12, 0, 0, 0, time.UTC)
	data := ReportData{
		Start: time.Date(2030, time.March, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2030, time.March, 31, 23, 59, 59, 0, time.UTC),
		Now:   now,
		Payments: []models.Payment{
			{Amount: 3000, PaymentMethod: models.PaymentCreditCard, CreatedAt: time.Date(2030, time.March, 12, 15, 0, 0, 0, time.UTC)},
			{Amount: 5000, PaymentMethod: models.PaymentCash, CreatedAt: time.Date(2030, time.March, 10, 11, 0, 0, 0, time.UTC)},
		},
		Expenses: []models.Expense{
			{ID: uuid.New(), Category: models.ExpenseRent, Amount: 2000, ExpenseDate: time.Date(2030, time.March, 1, 0, 0, 0, 0, time.UTC)},
		},
		CompletedAppointments: 2,
		SeriesPayments: []models.Payment{
			{Amount: 5000, CreatedAt: time.Date(2030, time.March, 10, 11, 0, 0, 0, time.UTC)},
			{Amount: 3000, CreatedAt: time.Date(2030, time.March, 12, 15, 0, 0, 0, time.UTC)},
			{Amount: 1250, CreatedAt: time.Date(2029, time.November, 2, 9, 0, 0, 0, time.UTC)},
		},
		SeriesAppointments: []time.Time{
			time.Date(2030, time.March, 10, 11, 0, 0, 0, time.UTC),
			time.Date(2030, time.March, 12, 15, 0, 0, 0, time.UTC),
			time.Date(2029, time.November, 2, 9, 0, 0, 0, time.UTC),
		},
	}

	report := BuildReport(data)

	assert.Equal(t, "80", report.Stats.TotalRevenue.String())
	assert.Equal(t, "20", report.Stats.TotalExpenses.String())
	assert.Equal(t, "60", report.Stats.NetIncome.String())
	assert.Equal(t, "40", report.Stats.AvgTransaction.String())
	assert.Equal(t, int64(2), report.Stats.TotalAppointments)

	require.Len(t, report.DailyRevenue, 2)
	assert.Equal(t, "2030-03-10", report.DailyRevenue[0].Date)
	assert.Equal(t, "50", report.DailyRevenue[0].Total.String())
	assert.Equal(t, "2030-03-12", report.DailyRevenue[1].Date)

	require.Len(t, report.PaymentMethods, 2)
	assert.Equal(t, models.PaymentCash, report.PaymentMethods[0].Method)
	assert.Equal(t, "50", report.PaymentMethods[0].Total.String())
	assert.Equal(t, models.PaymentCreditCard, report.PaymentMethods[1].Method)

	require.Len(t, report.ExpensesByCategory, 1)
	assert.Equal(t, models.ExpenseRent, report.ExpensesByCategory[0].Category)
	assert.Equal(t, 1, report.ExpensesByCategory[0].Count)
	require.Len(t, report.Expenses, 1)
	assert.Equal(t, "2030-03-01", report.Expenses[0].ExpenseDate)

	require.Len(t, report.MonthlyRevenue, 6)
	assert.Equal(t, "2029-10", report.MonthlyRevenue[0].Month)
	assert.Equal(t, "2029-11", report.MonthlyRevenue[1].Month)
	assert.Equal(t, "12.5", report.MonthlyRevenue[1].Revenue.String())
	assert.Equal(t, 1, report.MonthlyRevenue[1].Appointments)
	assert.Equal(t, "2030-03", report.MonthlyRevenue[5].Month)
	assert.Equal(t, "80", report.MonthlyRevenue[5].Revenue.String())
	assert.Equal(t, 2, report.MonthlyRevenue[5].Appointments)
	assert.Equal(t, "0", report.MonthlyRevenue[2].Revenue.String())

	assert.Equal(t, "2030-03-01", report.DateRange.Start)
	assert.Equal(t, "2030-03-31", report.DateRange.End)
}

func TestBuildReportWithoutAppointments(t *testing.T) {
	now := time.Date(2030, time.March, 15, 12, 0, 0, 0, time.UTC)
	report := BuildReport(ReportData{
		Start: now, End: now, Now: now,
		Payments: []models.Payment{{Amount: 4500, PaymentMethod: models.PaymentCash, CreatedAt: now}},
	})

	assert.True(t, report.Stats.AvgTransaction.IsZero())
	assert.Equal(t, "45", report.Stats.TotalRevenue.String())
	assert.Equal(t, "45", report.Stats.NetIncome.String())
	assert.NotNil(t, report.ExpensesByCategory)
	assert.Len(t, report.MonthlyRevenue, 6)
}

func TestBuildReportRoundsAverage(t *testing.T) {
	now := time.Date(2030, time.March, 15, 12, 0, 0, 0, time.UTC)
	report := BuildReport(ReportData{
		Start: now, End: now, Now: now,
		Payments:              []models.Payment{{Amount: 10000, PaymentMethod: models.PaymentCash, CreatedAt: now}},
		CompletedAppointments: 3,
	})
	assert.Equal(t, "33.33", report.Stats.AvgTransaction.String())
}

func TestResolveRange(t *testing.T) {
	now := time.Date(2030, time.February, 10, 14, 0, 0, 0, time.UTC)

	from, to := ResolveRange(now, nil, nil)
	assert.Equal(t, "2030-02-01 00:00:00", utils.FormatWallClock(from))
	assert.Equal(t, "2030-02-28 23:59:59", utils.FormatWallClock(to))

	start := time.Date(2030, time.January, 5, 13, 0, 0, 0, time.UTC)
	end := time.Date(2030, time.January, 6, 8, 0, 0, 0, time.UTC)
	from, to = ResolveRange(now, &start, &end)
	assert.Equal(t, "2030-01-05 00:00:00", utils.FormatWallClock(from))
	assert.Equal(t, "2030-01-06 23:59:59", utils.FormatWallClock(to))
}

func TestReportFromDatabase(t *testing.T) {
	db := newTestDB(t)
	f := newSalonFixture(t, db, "alpha")
	other := newSalonFixture(t, db, "beta")
	booking := newTestBooking(db, false)
	payments := newTestPayments(db)

	today := utils.StripZone(time.Now())
	payments.now = fixedClock(today)

	first := f.book(t, booking, f.stylist, at(8, 10, 0), f.haircut)
	second := f.book(t, booking, f.stylist, at(8, 11, 0), f.color)
	_, _, err := payments.CompleteWithPayment(ctx, f.ownerActor(), first.ID, CompletePaymentInput{Amount: utils.ToMajor(5000), PaymentMethod: models.PaymentCash})
	require.NoError(t, err)
	_, _, err = payments.CompleteWithPayment(ctx, f.ownerActor(), second.ID, CompletePaymentInput{Amount: utils.ToMajor(3000), PaymentMethod: models.PaymentCreditCard})
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.Expense{
		SalonID:     f.salon.ID,
		Category:    models.ExpenseRent,
		Amount:      2000,
		ExpenseDate: utils.BeginningOfDay(today),
	}).Error)
	require.NoError(t, db.Create(&models.Expense{
		SalonID:     other.salon.ID,
		Category:    models.ExpenseRent,
		Amount:      99900,
		ExpenseDate: utils.BeginningOfDay(today),
	}).Error)

	s := NewReportService(db, zap.NewNop())
	s.now = fixedClock(today)
	report, err := s.Report(ctx, f.ownerActor(), &today, &today)
	require.NoError(t, err)

	assert.Equal(t, "80", report.Stats.TotalRevenue.String())
	assert.Equal(t, "20", report.Stats.TotalExpenses.String())
	assert.Equal(t, "60", report.Stats.NetIncome.String())
	assert.Equal(t, int64(2), report.Stats.TotalAppointments)
	assert.Equal(t, "40", report.Stats.AvgTransaction.String())
	require.Len(t, report.DailyRevenue, 1)
	assert.Equal(t, 2, report.DailyRevenue[0].Count)
	require.Len(t, report.MonthlyRevenue, 6)
	assert.Equal(t, "80", report.MonthlyRevenue[5].Revenue.String())

	empty, err := s.Report(ctx, other.ownerActor(), &today, &today)
	require.NoError(t, err)
	assert.True(t, empty.Stats.TotalRevenue.IsZero())
	assert.True(t, empty.Stats.AvgTransaction.IsZero())
	assert.Equal(t, "-999", empty.Stats.NetIncome.String())
}

func TestReportRejectsInvertedRange(t *testing.T) {
	db := newTestDB(t)
	f := newSalonFixture(t, db, "alpha")
	s := NewReportService(db, zap.NewNop())

	start := time.Date(2030, time.March, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2030, time.March, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.Report(ctx, f.ownerActor(), &start, &end)
	requireKind(t, err, KindValidation)
}
