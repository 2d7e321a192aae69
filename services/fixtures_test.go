package services

import (
	"context"
	"fmt"
	"salonbook-backend/auth"
	"salonbook-backend/config"
	"salonbook-backend/models"
	"salonbook-backend/utils"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ctx = context.Background()

// Monday 7 January 2030, 09:00.
var testNow = time.Date(2030, time.January, 7, 9, 0, 0, 0, time.UTC)

func at(day, hour, minute int) time.Time {
	return time.Date(2030, time.January, day, hour, minute, 0, 0, time.UTC)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.PasswordCost = bcrypt.MinCost

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        config.WallClockNow,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

// salonFixture is one salon with an owner, a stylist, a customer and two services.
type salonFixture struct {
	db       *gorm.DB
	plan     models.Plan
	salon    models.Salon
	owner    models.User
	stylist  models.User
	customer models.Customer
	haircut  models.Service
	color    models.Service
}

func (f *salonFixture) ownerActor() *auth.Actor   { return auth.ActorFor(&f.owner) }
func (f *salonFixture) stylistActor() *auth.Actor { return auth.ActorFor(&f.stylist) }

func newSalonFixture(t *testing.T, db *gorm.DB, subdomain string) *salonFixture {
	t.Helper()
	f := &salonFixture{db: db}

	f.plan = models.Plan{
		Name:                  "Pro " + subdomain,
		PriceMonthly:          decimal.NewFromInt(299),
		PriceYearly:           decimal.NewFromInt(2990),
		MaxStaffCount:         5,
		AllowOnlineBooking:    true,
		AllowSMSNotifications: true,
	}
	require.NoError(t, db.Create(&f.plan).Error)

	endsAt := testNow.AddDate(0, 1, 0)
	f.salon = models.Salon{
		Name:               "Salon " + subdomain,
		Subdomain:          subdomain,
		Phone:              "+905551112233",
		Settings:           models.JSONB{"currency": "TRY"},
		PlanID:             &f.plan.ID,
		SubscriptionEndsAt: &endsAt,
	}
	require.NoError(t, db.Omit("Plan").Create(&f.salon).Error)

	f.owner = models.User{
		Name:       "Ayse Owner",
		Email:      "owner@" + subdomain + ".test",
		Password:   "secret123",
		Role:       models.RoleSalonAdmin,
		SalonID:    &f.salon.ID,
		IsBookable: true,
	}
	require.NoError(t, db.Create(&f.owner).Error)

	f.stylist = models.User{
		Name:       "Mehmet Stylist",
		Email:      "stylist@" + subdomain + ".test",
		Password:   "secret123",
		Role:       models.RoleStaff,
		SalonID:    &f.salon.ID,
		IsBookable: true,
	}
	require.NoError(t, db.Create(&f.stylist).Error)

	f.customer = models.Customer{SalonID: f.salon.ID, Name: "Zeynep", Phone: "+905321234567"}
	require.NoError(t, db.Create(&f.customer).Error)

	f.haircut = models.Service{SalonID: f.salon.ID, Name: "Haircut", Price: 5000, DurationMinutes: 30, IsActive: true}
	require.NoError(t, db.Create(&f.haircut).Error)
	f.color = models.Service{SalonID: f.salon.ID, Name: "Color", Price: 3000, DurationMinutes: 45, IsActive: true}
	require.NoError(t, db.Create(&f.color).Error)

	return f
}

func newTestBooking(db *gorm.DB, rejectDoubleBooking bool) *BookingService {
	s := NewBookingService(db, zap.NewNop(), rejectDoubleBooking)
	s.now = fixedClock(testNow)
	return s
}

func newTestTokens() *auth.TokenIssuer {
	return auth.NewTokenIssuer("test-secret", time.Hour, 15*time.Minute)
}

// book creates a staff booking for the stylist or fails the test.
func (f *salonFixture) book(t *testing.T, s *BookingService, staff models.User, start time.Time, services ...models.Service) *models.Appointment {
	t.Helper()
	ids := make([]uuid.UUID, 0, len(services))
	for _, svc := range services {
		ids = append(ids, svc.ID)
	}
	appointment, err := s.Create(ctx, f.ownerActor(), CreateAppointmentInput{
		StaffID:    staff.ID,
		CustomerID: f.customer.ID,
		StartTime:  start,
		ServiceIDs: ids,
	})
	require.NoError(t, err)
	return appointment
}

func requireKind(t *testing.T, err error, kind ErrorKind) *Error {
	t.Helper()
	require.Error(t, err)
	e, ok := AsError(err)
	require.True(t, ok, "expected a business error, got %v", err)
	require.Equal(t, kind, e.Kind, "unexpected error: %v", err)
	return e
}

func requireConflict(t *testing.T, err error, code string) {
	t.Helper()
	e := requireKind(t, err, KindConflict)
	require.Equal(t, code, e.Code)
}
