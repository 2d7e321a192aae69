package services

import (
	"salonbook-backend/models"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAccounts(t *testing.T) (*AccountService, *salonFixture) {
	db := newTestDB(t)
	f := newSalonFixture(t, db, "alpha")
	s := NewAccountService(db, zap.NewNop(), newTestTokens())
	s.now = fixedClock(testNow)
	return s, f
}

func TestRegisterCreatesSalonOnCheapestPlan(t *testing.T) {
	s, f := newTestAccounts(t)
	basic := models.Plan{Name: "Basic", PriceMonthly: decimal.NewFromInt(99), PriceYearly: decimal.NewFromInt(990), MaxStaffCount: 2}
	require.NoError(t, f.db.Create(&basic).Error)

	session, err := s.Register(ctx, RegisterInput{
		Name:      "Fatma",
		Email:     "Fatma@Example.com",
		Phone:     "+905551234567",
		Password:  "secret123",
		SalonName: "Fatma Kuafor",
		Subdomain: "Fatma-Kuafor",
	})
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	assert.Equal(t, "fatma@example.com", session.User.Email)
	assert.Equal(t, models.RoleSalonAdmin, session.User.Role)
	require.NotNil(t, session.User.SalonID)

	var salon models.Salon
	require.NoError(t, f.db.First(&salon, "id = ?", *session.User.SalonID).Error)
	assert.Equal(t, "fatma-kuafor", salon.Subdomain)
	require.NotNil(t, salon.PlanID)
	assert.Equal(t, basic.ID, *salon.PlanID)
	require.NotNil(t, salon.SubscriptionEndsAt)
	assert.True(t, salon.SubscriptionEndsAt.Equal(testNow.AddDate(0, 0, 14)))
	assert.Equal(t, "TRY", salon.Settings["currency"])
	assert.Equal(t, "Europe/Istanbul", salon.Settings["timezone"])
}

func TestRegisterConflicts(t *testing.T) {
	s, f := newTestAccounts(t)
	in := RegisterInput{
		Name:      "Fatma",
		Email:     "fatma@example.com",
		Phone:     "+905551234567",
		Password:  "secret123",
		SalonName: "Fatma Kuafor",
		Subdomain: f.salon.Subdomain,
	}

	_, err := s.Register(ctx, in)
	requireConflict(t, err, CodeSubdomainTaken)

	in.Subdomain = "fresh"
	in.Email = f.owner.Email
	_, err = s.Register(ctx, in)
	requireConflict(t, err, CodeEmailTaken)

	in.Email = "fatma@example.com"
	in.Subdomain = "-bad-"
	_, err = s.Register(ctx, in)
	requireKind(t, err, KindValidation)

	in.Subdomain = "fresh"
	in.Phone = "not a phone"
	_, err = s.Register(ctx, in)
	requireKind(t, err, KindValidation)
}

func TestLogin(t *testing.T) {
	s, f := newTestAccounts(t)

	_, err := s.Login(ctx, f.owner.Email, "wrong")
	requireKind(t, err, KindValidation)
	_, err = s.Login(ctx, "nobody@example.com", "secret123")
	requireKind(t, err, KindValidation)

	session, err := s.Login(ctx, "  "+f.owner.Email, "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)

	var stored models.User
	require.NoError(t, f.db.First(&stored, "id = ?", f.owner.ID).Error)
	require.NotNil(t, stored.LastLogin)
	assert.True(t, stored.LastLogin.Equal(testNow))

	me, err := s.Me(ctx, f.ownerActor())
	require.NoError(t, err)
	require.NotNil(t, me.Salon)
	require.NotNil(t, me.Salon.Plan)
	assert.Equal(t, f.plan.ID, me.Salon.Plan.ID)
}
