package services

import (
	"salonbook-backend/models"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dec25(hour, minute int) time.Time {
	return time.Date(2025, time.December, 25, hour, minute, 0, 0, time.UTC)
}

func TestTimeOffOverlap(t *testing.T) {
	db := newTestDB(t)
	f := newSalonFixture(t, db, "alpha")
	s := NewAvailabilityService(db, zap.NewNop())

	_, err := s.CreateTimeOff(ctx, f.ownerActor(), TimeOffInput{
		StaffID:   f.stylist.ID,
		StartTime: dec25(10, 0),
		EndTime:   dec25(12, 0),
		Reason:    "Doctor",
	})
	require.NoError(t, err)

	tests := []struct {
		name       string
		start, end time.Time
		conflict   bool
	}{
		{"inside", dec25(10, 30), dec25(11, 30), true},
		{"covering", dec25(9, 0), dec25(13, 0), true},
		{"overlapping start", dec25(9, 0), dec25(10, 30), true},
		{"touching end", dec25(12, 0), dec25(14, 0), true},
		{"touching start", dec25(8, 0), dec25(10, 0), true},
		{"before", dec25(8, 0), dec25(9, 59), false},
		{"after", dec25(12, 1), dec25(13, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateTimeOff(ctx, f.ownerActor(), TimeOffInput{
				StaffID:   f.stylist.ID,
				StartTime: tt.start,
				EndTime:   tt.end,
			})
			if tt.conflict {
				requireConflict(t, err, CodeTimeOffOverlap)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestTimeOffOverlapIsPerStaffMember(t *testing.T) {
	db := newTestDB(t)
	f := newSalonFixture(t, db, "alpha")
	s := NewAvailabilityService(db, zap.NewNop())

	_, err := s.CreateTimeOff(ctx, f.ownerActor(), TimeOffInput{StaffID: f.stylist.ID, StartTime: dec25(9, 0), EndTime: dec25(18, 0)})
	require.NoError(t, err)
	_, err = s.CreateTimeOff(ctx, f.ownerActor(), TimeOffInput{StaffID: f.owner.ID, StartTime: dec25(9, 0), EndTime: dec25(18, 0)})
	require.NoError(t, err)
}

func TestUpdateTimeOffExcludesItself(t *testing.T) {
	db := newTestDB(t)
	f := newSalonFixture(t, db, "alpha")
	s := NewAvailabilityService(db, zap.NewNop())

	off, err := s.CreateTimeOff(ctx, f.ownerActor(), TimeOffInput{StaffID: f.stylist.ID, StartTime: dec25(10, 0), EndTime: dec25(12, 0)})
	require.NoError(t, err)
	_, err = s.CreateTimeOff(ctx, f.ownerActor(), TimeOffInput{StaffID: f.stylist.ID, StartTime: dec25(15, 0), EndTime: dec25(16, 0)})
	require.NoError(t, err)

	end := dec25(13, 0)
	reason := "Extended"
	updated, err := s.UpdateTimeOff(ctx, f.ownerActor(), off.ID, TimeOffUpdate{EndTime: &end, Reason: &reason})
	require.NoError(t, err)
	assert.True(t, updated.EndTime.Equal(end))
	assert.Equal(t, reason, updated.Reason)

	end = dec25(15, 0)
	_, err = s.UpdateTimeOff(ctx, f.ownerActor(), off.ID, TimeOffUpdate{EndTime: &end})
	requireConflict(t, err, CodeTimeOffOverlap)
}

func TestTimeOffValidation(t *testing.T) {
	db := newTestDB(t)
	f := newSalonFixture(t, db, "alpha")
	s := NewAvailabilityService(db, zap.NewNop())

	_, err := s.CreateTimeOff(ctx, f.ownerActor(), TimeOffInput{StaffID: f.stylist.ID, StartTime: dec25(12, 0), EndTime: dec25(10, 0)})
	e := requireKind(t, err, KindValidation)
	assert.Contains(t, e.Fields, "end_time")

	_, err = s.CreateTimeOff(ctx, f.ownerActor(), TimeOffInput{
		StaffID:   f.stylist.ID,
		StartTime: dec25(10, 0),
		EndTime:   dec25(12, 0),
		Reason:    strings.Repeat("ş", 501),
	})
	e = requireKind(t, err, KindValidation)
	assert.Contains(t, e.Fields, "reason")

	_, err = s.CreateTimeOff(ctx, f.ownerActor(), TimeOffInput{
		StaffID:   f.stylist.ID,
		StartTime: dec25(10, 0),
		EndTime:   dec25(12, 0),
		Reason:    strings.Repeat("ş", 500),
	})
	require.NoError(t, err)
}

func TestStaffManagesOnlyOwnSchedule(t *testing.T) {
	db := newTestDB(t)
	f := newSalonFixture(t, db, "alpha")
	other := newSalonFixture(t, db, "beta")
	s := NewAvailabilityService(db, zap.NewNop())

	_, err := s.CreateTimeOff(ctx, f.stylistActor(), TimeOffInput{StaffID: f.stylist.ID, StartTime: dec25(10, 0), EndTime: dec25(12, 0)})
	require.NoError(t, err)

	_, err = s.CreateTimeOff(ctx, f.stylistActor(), TimeOffInput{StaffID: f.owner.ID, StartTime: dec25(10, 0), EndTime: dec25(12, 0)})
	requireKind(t, err, KindForbidden)

	_, err = s.CreateTimeOff(ctx, f.ownerActor(), TimeOffInput{StaffID: other.stylist.ID, StartTime: dec25(10, 0), EndTime: dec25(12, 0)})
	requireKind(t, err, KindForbidden)

	_, err = s.CreateWorkingHour(ctx, f.stylistActor(), f.owner.ID, WorkingHourInput{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"})
	requireKind(t, err, KindForbidden)

	offs, err := s.ListTimeOffs(ctx, f.stylistActor(), nil)
	require.NoError(t, err)
	require.Len(t, offs, 1)
	assert.Equal(t, f.stylist.ID, offs[0].UserID)
	require.NotNil(t, offs[0].User)

	ownerID := f.owner.ID
	_, err = s.ListTimeOffs(ctx, f.stylistActor(), &ownerID)
	requireKind(t, err, KindForbidden)

	otherOffs, err := s.ListTimeOffs(ctx, other.ownerActor(), nil)
	require.NoError(t, err)
	assert.Empty(t, otherOffs)
}

func TestWorkingHours(t *testing.T) {
	db := newTestDB(t)
	f := newSalonFixture(t, db, "alpha")
	s := NewAvailabilityService(db, zap.NewNop())

	monday, err := s.CreateWorkingHour(ctx, f.ownerActor(), f.stylist.ID, WorkingHourInput{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"})
	require.NoError(t, err)

	_, err = s.CreateWorkingHour(ctx, f.ownerActor(), f.stylist.ID, WorkingHourInput{DayOfWeek: 1, StartTime: "10:00", EndTime: "18:00"})
	requireConflict(t, err, CodeWorkingHourExists)

	sunday, err := s.CreateWorkingHour(ctx, f.ownerActor(), f.stylist.ID, WorkingHourInput{DayOfWeek: 0, StartTime: "09:00", EndTime: "12:00", IsOff: true})
	require.NoError(t, err)
	assert.Empty(t, sunday.StartTime)
	assert.True(t, sunday.IsOff)

	_, err = s.CreateWorkingHour(ctx, f.ownerActor(), f.owner.ID, WorkingHourInput{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"})
	require.NoError(t, err)

	tuesday := 2
	updated, err := s.UpdateWorkingHour(ctx, f.ownerActor(), monday.ID, WorkingHourUpdate{DayOfWeek: &tuesday})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.DayOfWeek)

	sundayDay := 0
	_, err = s.UpdateWorkingHour(ctx, f.ownerActor(), monday.ID, WorkingHourUpdate{DayOfWeek: &sundayDay})
	requireConflict(t, err, CodeWorkingHourExists)

	staffID := f.stylist.ID
	hours, err := s.ListWorkingHours(ctx, f.ownerActor(), &staffID)
	require.NoError(t, err)
	assert.Len(t, hours, 2)

	hours, err = s.ListWorkingHours(ctx, f.ownerActor(), nil)
	require.NoError(t, err)
	assert.Len(t, hours, 3)

	require.NoError(t, s.DeleteWorkingHour(ctx, f.ownerActor(), sunday.ID))
	hours, err = s.ListWorkingHours(ctx, f.stylistActor(), nil)
	require.NoError(t, err)
	assert.Len(t, hours, 1)
}

func TestWorkingHourValidation(t *testing.T) {
	db := newTestDB(t)
	f := newSalonFixture(t, db, "alpha")
	s := NewAvailabilityService(db, zap.NewNop())

	tests := []struct {
		name  string
		in    WorkingHourInput
		field string
	}{
		{"day out of range", WorkingHourInput{DayOfWeek: 7, StartTime: "09:00", EndTime: "17:00"}, "day_of_week"},
		{"missing start", WorkingHourInput{DayOfWeek: 1, EndTime: "17:00"}, "start_time"},
		{"bad clock", WorkingHourInput{DayOfWeek: 1, StartTime: "9am", EndTime: "17:00"}, "start_time"},
		{"end before start", WorkingHourInput{DayOfWeek: 1, StartTime: "17:00", EndTime: "09:00"}, "end_time"},
		{"zero length", WorkingHourInput{DayOfWeek: 1, StartTime: "09:00", EndTime: "09:00"}, "end_time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateWorkingHour(ctx, f.ownerActor(), f.stylist.ID, tt.in)
			e := requireKind(t, err, KindValidation)
			assert.Contains(t, e.Fields, tt.field)
		})
	}
}

func TestReplaceWorkingHours(t *testing.T) {
	db := newTestDB(t)
	f := newSalonFixture(t, db, "alpha")
	s := NewAvailabilityService(db, zap.NewNop())

	_, err := s.CreateWorkingHour(ctx, f.ownerActor(), f.stylist.ID, WorkingHourInput{DayOfWeek: 6, StartTime: "10:00", EndTime: "14:00"})
	require.NoError(t, err)

	hours, err := s.ReplaceWorkingHours(ctx, f.stylistActor(), f.stylist.ID, []WorkingHourInput{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"},
		{DayOfWeek: 2, StartTime: "09:00", EndTime: "17:00"},
		{DayOfWeek: 0, IsOff: true},
	})
	require.NoError(t, err)
	assert.Len(t, hours, 3)

	var stored []models.WorkingHour
	require.NoError(t, db.Where("user_id = ?", f.stylist.ID).Order("day_of_week").Find(&stored).Error)
	require.Len(t, stored, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{stored[0].DayOfWeek, stored[1].DayOfWeek, stored[2].DayOfWeek})

	_, err = s.ReplaceWorkingHours(ctx, f.ownerActor(), f.stylist.ID, []WorkingHourInput{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"},
		{DayOfWeek: 1, StartTime: "10:00", EndTime: "18:00"},
	})
	e := requireKind(t, err, KindValidation)
	assert.Contains(t, e.Fields, "schedule.1.day_of_week")

	_, err = s.ReplaceWorkingHours(ctx, f.ownerActor(), f.stylist.ID, []WorkingHourInput{
		{DayOfWeek: 3, StartTime: "18:00", EndTime: "09:00"},
	})
	e = requireKind(t, err, KindValidation)
	assert.Contains(t, e.Fields, "schedule.0.end_time")

	var count int64
	require.NoError(t, db.Model(&models.WorkingHour{}).Where("user_id = ?", f.stylist.ID).Count(&count).Error)
	assert.Equal(t, int64(3), count, "failed replacement must leave the schedule untouched")
}
