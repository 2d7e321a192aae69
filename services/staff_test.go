package services

import (
	"salonbook-backend/models"
	"salonbook-backend/utils"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreateStaffRespectsPlanLimit(t *testing.T) {
	db := newTestDB(t)
	f := newSalonFixture(t, db, "alpha")
	s := NewStaffService(db, zap.NewNop())
	require.NoError(t, db.Model(&f.plan).Update("max_staff_count", 3).Error)

	user, err := s.Create(ctx, f.ownerActor(), StaffInput{Name: "Elif", Email: " Elif@Alpha.test ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "elif@alpha.test", user.Email)
	assert.Equal(t, models.RoleStaff, user.Role)
	assert.True(t, user.IsBookable)
	assert.True(t, utils.CheckPasswordHash("secret123", user.Password))

	_, err = s.Create(ctx, f.ownerActor(), StaffInput{Name: "Can", Email: "can@alpha.test", Password: "secret123"})
	requireConflict(t, err, CodeStaffLimitReached)
}

func TestCreateStaffWithoutPlanAllowsOnlyTheOwner(t *testing.T) {
	db := newTestDB(t)
	f := newSalonFixture(t, db, "alpha")
	s := NewStaffService(db, zap.NewNop())
	require.NoError(t, db.Model(&f.salon).Update("plan_id", nil).Error)

	_, err := s.Create(ctx, f.ownerActor(), StaffInput{Name: "Can", Email: "can@alpha.test", Password: "secret123"})
	requireConflict(t, err, CodeStaffLimitReached)
}

func TestCreateStaffValidation(t *testing.T) {
	db := newTestDB(t)
	f := newSalonFixture(t, db, "alpha")
	s := NewStaffService(db, zap.NewNop())

	_, err := s.Create(ctx, f.ownerActor(), StaffInput{Name: "Dup", Email: f.stylist.Email, Password: "secret123"})
	requireConflict(t, err, CodeEmailTaken)

	_, err = s.Create(ctx, f.ownerActor(), StaffInput{Name: "Root", Email: "root@alpha.test", Password: "secret123", Role: models.RoleAdmin})
	requireKind(t, err, KindValidation)

	notBookable := false
	user, err := s.Create(ctx, f.ownerActor(), StaffInput{Name: "Desk", Email: "desk@alpha.test", Password: "secret123", IsBookable: &notBookable})
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.False(t, stored.IsBookable)
}

func TestUpdateStaff(t *testing.T) {
	db := newTestDB(t)
	f := newSalonFixture(t, db, "alpha")
	s := NewStaffService(db, zap.NewNop())

	name := "Mehmet K."
	password := "newpassword"
	bookable := false
	updated, err := s.Update(ctx, f.ownerActor(), f.stylist.ID, StaffUpdate{Name: &name, Password: &password, IsBookable: &bookable})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.False(t, updated.IsBookable)
	assert.True(t, utils.CheckPasswordHash(password, updated.Password))

	role := models.RoleStaff
	_, err = s.Update(ctx, f.ownerActor(), f.owner.ID, StaffUpdate{Role: &role})
	requireKind(t, err, KindForbidden)

	other := newSalonFixture(t, db, "beta")
	_, err = s.Update(ctx, other.ownerActor(), f.stylist.ID, StaffUpdate{Name: &name})
	requireKind(t, err, KindForbidden)
}

func TestDeleteStaff(t *testing.T) {
	db := newTestDB(t)
	f := newSalonFixture(t, db, "alpha")
	s := NewStaffService(db, zap.NewNop())
	availability := NewAvailabilityService(db, zap.NewNop())
	booking := newTestBooking(db, false)

	err := s.Delete(ctx, f.ownerActor(), f.owner.ID)
	requireKind(t, err, KindForbidden)

	_, err = availability.CreateWorkingHour(ctx, f.ownerActor(), f.stylist.ID, WorkingHourInput{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"})
	require.NoError(t, err)
	_, err = availability.CreateTimeOff(ctx, f.ownerActor(), TimeOffInput{StaffID: f.stylist.ID, StartTime: at(9, 9, 0), EndTime: at(9, 18, 0)})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, f.ownerActor(), f.stylist.ID))

	var users, hours, offs int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", f.stylist.ID).Count(&users).Error)
	require.NoError(t, db.Model(&models.WorkingHour{}).Where("user_id = ?", f.stylist.ID).Count(&hours).Error)
	require.NoError(t, db.Model(&models.TimeOff{}).Where("user_id = ?", f.stylist.ID).Count(&offs).Error)
	assert.Zero(t, users)
	assert.Zero(t, hours)
	assert.Zero(t, offs)

	staff, err := NewStaffService(db, zap.NewNop()).Create(ctx, f.ownerActor(), StaffInput{Name: "Elif", Email: "elif@alpha.test", Password: "secret123"})
	require.NoError(t, err)
	f.book(t, booking, *staff, at(8, 10, 0), f.haircut)
	err = s.Delete(ctx, f.ownerActor(), staff.ID)
	requireConflict(t, err, CodeStaffHasAppointments)
}

func TestListStaffIsSalonScoped(t *testing.T) {
	db := newTestDB(t)
	f := newSalonFixture(t, db, "alpha")
	newSalonFixture(t, db, "beta")
	s := NewStaffService(db, zap.NewNop())

	staff, err := s.List(ctx, f.ownerActor())
	require.NoError(t, err)
	require.Len(t, staff, 2)
	assert.Equal(t, f.owner.ID, staff[0].ID)
	assert.Equal(t, f.stylist.ID, staff[1].ID)
}
