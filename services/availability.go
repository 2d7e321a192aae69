package services

import (
	"context"
	"fmt"
	"salonbook-backend/auth"
	"salonbook-backend/models"
	"salonbook-backend/utils"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxTimeOffReason = 500

// AvailabilityService owns weekly working-hour rules and time-off intervals.
type AvailabilityService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAvailabilityService(db *gorm.DB, log *zap.Logger) *AvailabilityService {
	return &AvailabilityService{db: db, log: log}
}

type WorkingHourInput struct {
	DayOfWeek int
	StartTime string
	EndTime   string
	IsOff     bool
}

type WorkingHourUpdate struct {
	DayOfWeek *int
	StartTime *string
	EndTime   *string
	IsOff     *bool
}

type TimeOffInput struct {
	StaffID   uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Reason    string
}

type TimeOffUpdate struct {
	StartTime *time.Time
	EndTime   *time.Time
	Reason    *string
}

func validateWorkingHour(in *WorkingHourInput) error {
	if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
		return ValidationError("day_of_week", "must be between 0 and 6")
	}
	if in.IsOff {
		in.StartTime, in.EndTime = "", ""
		return nil
	}
	if in.StartTime == "" {
		return ValidationError("start_time", "is required unless the day is off")
	}
	if in.EndTime == "" {
		return ValidationError("end_time", "is required unless the day is off")
	}
	start, err := utils.ParseClock(in.StartTime)
	if err != nil {
		return ValidationError("start_time", "must be HH:MM")
	}
	end, err := utils.ParseClock(in.EndTime)
	if err != nil {
		return ValidationError("end_time", "must be HH:MM")
	}
	if start >= end {
		return ValidationError("end_time", "must be after start_time")
	}
	return nil
}

// scheduleOwner loads the staff member whose schedule the actor wants to change.
func scheduleOwner(tx *gorm.DB, actor *auth.Actor, staffID uuid.UUID) (*models.User, error) {
	staff, err := findStaff(tx, actor.SalonID, staffID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageScheduleOf(staffID) {
		return nil, ForbiddenError("You can only manage your own schedule")
	}
	return staff, nil
}

func (s *AvailabilityService) ListWorkingHours(ctx context.Context, actor *auth.Actor, staffID *uuid.UUID) ([]models.WorkingHour, error) {
	db := s.db.WithContext(ctx)
	query := db.Model(&models.WorkingHour{}).
		Where("user_id IN (?)", salonStaffIDs(db, actor.SalonID))

	switch {
	case staffID != nil:
		if !actor.CanViewCalendarOf(*staffID) {
			return nil, ForbiddenError("You can only view your own schedule")
		}
		query = query.Where("user_id = ?", *staffID)
	case !actor.Can.ViewAllCalendars:
		query = query.Where("user_id = ?", actor.UserID)
	}

	var hours []models.WorkingHour
	if err := query.Order("user_id, day_of_week").Find(&hours).Error; err != nil {
		return nil, errors.Wrap(err, "list working hours")
	}
	return hours, nil
}

func (s *AvailabilityService) CreateWorkingHour(ctx context.Context, actor *auth.Actor, staffID uuid.UUID, in WorkingHourInput) (*models.WorkingHour, error) {
	if err := validateWorkingHour(&in); err != nil {
		return nil, err
	}

	hour := models.WorkingHour{
		UserID:    staffID,
		DayOfWeek: in.DayOfWeek,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		IsOff:     in.IsOff,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := scheduleOwner(tx, actor, staffID); err != nil {
			return err
		}
		if err := lockStaff(tx, staffID); err != nil {
			return err
		}
		if err := ensureDayFree(tx, staffID, in.DayOfWeek, uuid.Nil); err != nil {
			return err
		}
		return insertWorkingHour(tx, &hour)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("working hour created",
		zap.String("staff_id", staffID.String()),
		zap.Int("day_of_week", hour.DayOfWeek),
	)
	return &hour, nil
}

func (s *AvailabilityService) UpdateWorkingHour(ctx context.Context, actor *auth.Actor, id uuid.UUID, in WorkingHourUpdate) (*models.WorkingHour, error) {
	var hour models.WorkingHour
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&hour, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("Working hour not found")
			}
			return errors.Wrap(err, "load working hour")
		}
		if _, err := scheduleOwner(tx, actor, hour.UserID); err != nil {
			return err
		}

		next := WorkingHourInput{
			DayOfWeek: hour.DayOfWeek,
			StartTime: hour.StartTime,
			EndTime:   hour.EndTime,
			IsOff:     hour.IsOff,
		}
		if in.DayOfWeek != nil {
			next.DayOfWeek = *in.DayOfWeek
		}
		if in.StartTime != nil {
			next.StartTime = *in.StartTime
		}
		if in.EndTime != nil {
			next.EndTime = *in.EndTime
		}
		if in.IsOff != nil {
			next.IsOff = *in.IsOff
		}
		if err := validateWorkingHour(&next); err != nil {
			return err
		}

		if err := lockStaff(tx, hour.UserID); err != nil {
			return err
		}
		if next.DayOfWeek != hour.DayOfWeek {
			if err := ensureDayFree(tx, hour.UserID, next.DayOfWeek, hour.ID); err != nil {
				return err
			}
		}

		hour.DayOfWeek = next.DayOfWeek
		hour.StartTime = next.StartTime
		hour.EndTime = next.EndTime
		hour.IsOff = next.IsOff
		if err := tx.Save(&hour).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return workingHourExists(hour.DayOfWeek)
			}
			return errors.Wrap(err, "save working hour")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &hour, nil
}

func (s *AvailabilityService) DeleteWorkingHour(ctx context.Context, actor *auth.Actor, id uuid.UUID) error {
	db := s.db.WithContext(ctx)
	var hour models.WorkingHour
	if err := db.First(&hour, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError("Working hour not found")
		}
		return errors.Wrap(err, "load working hour")
	}
	if _, err := scheduleOwner(db, actor, hour.UserID); err != nil {
		return err
	}
	return errors.Wrap(db.Delete(&hour).Error, "delete working hour")
}

// ReplaceWorkingHours swaps a staff member's whole weekly schedule in one transaction.
func (s *AvailabilityService) ReplaceWorkingHours(ctx context.Context, actor *auth.Actor, staffID uuid.UUID, schedule []WorkingHourInput) ([]models.WorkingHour, error) {
	seen := make(map[int]bool, len(schedule))
	hours := make([]models.WorkingHour, 0, len(schedule))
	for i := range schedule {
		in := schedule[i]
		if err := validateWorkingHour(&in); err != nil {
			if e, ok := AsError(err); ok {
				e.Fields = prefixFields(fmt.Sprintf("schedule.%d.", i), e.Fields)
			}
			return nil, err
		}
		if seen[in.DayOfWeek] {
			return nil, ValidationError(fmt.Sprintf("schedule.%d.day_of_week", i), "is listed more than once")
		}
		seen[in.DayOfWeek] = true
		hours = append(hours, models.WorkingHour{
			UserID:    staffID,
			DayOfWeek: in.DayOfWeek,
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
			IsOff:     in.IsOff,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := scheduleOwner(tx, actor, staffID); err != nil {
			return err
		}
		if err := lockStaff(tx, staffID); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", staffID).Delete(&models.WorkingHour{}).Error; err != nil {
			return errors.Wrap(err, "clear working hours")
		}
		if len(hours) == 0 {
			return nil
		}
		return errors.Wrap(tx.Create(&hours).Error, "create working hours")
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("working hours replaced",
		zap.String("staff_id", staffID.String()),
		zap.Int("days", len(hours)),
	)
	return hours, nil
}

func ensureDayFree(tx *gorm.DB, staffID uuid.UUID, day int, excludeID uuid.UUID) error {
	query := tx.Model(&models.WorkingHour{}).Where("user_id = ? AND day_of_week = ?", staffID, day)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return errors.Wrap(err, "check working hour")
	}
	if count > 0 {
		return workingHourExists(day)
	}
	return nil
}

func insertWorkingHour(tx *gorm.DB, hour *models.WorkingHour) error {
	if err := tx.Create(hour).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return workingHourExists(hour.DayOfWeek)
		}
		return errors.Wrap(err, "create working hour")
	}
	return nil
}

func workingHourExists(day int) *Error {
	return ConflictError(CodeWorkingHourExists,
		fmt.Sprintf("A working hour rule already exists for %s", time.Weekday(day)))
}

func prefixFields(prefix string, fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[prefix+k] = v
	}
	return out
}

func (s *AvailabilityService) ListTimeOffs(ctx context.Context, actor *auth.Actor, staffID *uuid.UUID) ([]models.TimeOff, error) {
	db := s.db.WithContext(ctx)
	query := db.Preload("User").
		Where("user_id IN (?)", salonStaffIDs(db, actor.SalonID))

	switch {
	case staffID != nil:
		if !actor.CanViewCalendarOf(*staffID) {
			return nil, ForbiddenError("You can only view your own schedule")
		}
		query = query.Where("user_id = ?", *staffID)
	case !actor.Can.ViewAllCalendars:
		query = query.Where("user_id = ?", actor.UserID)
	}

	var offs []models.TimeOff
	if err := query.Order("start_time").Find(&offs).Error; err != nil {
		return nil, errors.Wrap(err, "list time offs")
	}
	return offs, nil
}

func salonStaffIDs(db *gorm.DB, salonID uuid.UUID) *gorm.DB {
	return db.Model(&models.User{}).Select("id").Where("salon_id = ?", salonID)
}

func validateTimeOff(start, end time.Time, reason string) error {
	if start.IsZero() {
		return ValidationError("start_time", "is required")
	}
	if end.IsZero() {
		return ValidationError("end_time", "is required")
	}
	if !end.After(start) {
		return ValidationError("end_time", "must be after start_time")
	}
	if utf8.RuneCountInString(reason) > maxTimeOffReason {
		return ValidationError("reason", fmt.Sprintf("must be at most %d characters", maxTimeOffReason))
	}
	return nil
}

func (s *AvailabilityService) CreateTimeOff(ctx context.Context, actor *auth.Actor, in TimeOffInput) (*models.TimeOff, error) {
	start, end := utils.StripZone(in.StartTime), utils.StripZone(in.EndTime)
	if err := validateTimeOff(in.StartTime, in.EndTime, in.Reason); err != nil {
		return nil, err
	}

	off := models.TimeOff{
		UserID:    in.StaffID,
		StartTime: start,
		EndTime:   end,
		Reason:    in.Reason,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := scheduleOwner(tx, actor, in.StaffID); err != nil {
			return err
		}
		if err := lockStaff(tx, in.StaffID); err != nil {
			return err
		}
		if err := ensureNoTimeOffOverlap(tx, in.StaffID, start, end, uuid.Nil); err != nil {
			return err
		}
		return errors.Wrap(tx.Omit("User").Create(&off).Error, "create time off")
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("time off created",
		zap.String("time_off_id", off.ID.String()),
		zap.String("staff_id", off.UserID.String()),
	)
	return &off, nil
}

func (s *AvailabilityService) UpdateTimeOff(ctx context.Context, actor *auth.Actor, id uuid.UUID, in TimeOffUpdate) (*models.TimeOff, error) {
	var off models.TimeOff
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&off, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("Time off not found")
			}
			return errors.Wrap(err, "load time off")
		}
		if _, err := scheduleOwner(tx, actor, off.UserID); err != nil {
			return err
		}

		if in.StartTime != nil {
			off.StartTime = utils.StripZone(*in.StartTime)
		}
		if in.EndTime != nil {
			off.EndTime = utils.StripZone(*in.EndTime)
		}
		if in.Reason != nil {
			off.Reason = *in.Reason
		}
		if err := validateTimeOff(off.StartTime, off.EndTime, off.Reason); err != nil {
			return err
		}

		if err := lockStaff(tx, off.UserID); err != nil {
			return err
		}
		if err := ensureNoTimeOffOverlap(tx, off.UserID, off.StartTime, off.EndTime, off.ID); err != nil {
			return err
		}
		return errors.Wrap(tx.Omit("User").Save(&off).Error, "save time off")
	})
	if err != nil {
		return nil, err
	}
	return &off, nil
}

func (s *AvailabilityService) DeleteTimeOff(ctx context.Context, actor *auth.Actor, id uuid.UUID) error {
	db := s.db.WithContext(ctx)
	var off models.TimeOff
	if err := db.First(&off, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError("Time off not found")
		}
		return errors.Wrap(err, "load time off")
	}
	if _, err := scheduleOwner(db, actor, off.UserID); err != nil {
		return err
	}
	return errors.Wrap(db.Delete(&off).Error, "delete time off")
}

// ensureNoTimeOffOverlap rejects any closed-interval intersection with another
// time off of the same staff member, so back-to-back intervals also conflict.
func ensureNoTimeOffOverlap(tx *gorm.DB, staffID uuid.UUID, start, end time.Time, excludeID uuid.UUID) error {
	query := tx.Model(&models.TimeOff{}).
		Where("user_id = ? AND start_time <= ? AND end_time >= ?", staffID, end, start)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return errors.Wrap(err, "check time off overlap")
	}
	if count > 0 {
		return ConflictError(CodeTimeOffOverlap, "This time off overlaps another time off of the same staff member")
	}
	return nil
}

// ensureStaffAvailable checks a booking against the staff member's weekly rule for
// that weekday and any time off. A weekday without a rule is treated as open.
func ensureStaffAvailable(tx *gorm.DB, staffID uuid.UUID, start, end time.Time) error {
	var hour models.WorkingHour
	err := tx.Where("user_id = ? AND day_of_week = ?", staffID, int(start.Weekday())).First(&hour).Error
	switch {
	case err == nil:
		if hour.IsOff {
			return ConflictError(CodeOutsideWorkingHours, "Staff member does not work on this day")
		}
		open, _ := utils.ParseClock(hour.StartTime)
		closing, _ := utils.ParseClock(hour.EndTime)
		from := start.Hour()*60 + start.Minute()
		to := from + minutesBetween(start, end)
		if from < open || to > closing {
			return ConflictError(CodeOutsideWorkingHours, "Requested time is outside the staff member's working hours")
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return errors.Wrap(err, "load working hour")
	}

	var count int64
	err = tx.Model(&models.TimeOff{}).
		Where("user_id = ? AND start_time < ? AND end_time > ?", staffID, end, start).
		Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "check time off")
	}
	if count > 0 {
		return ConflictError(CodeTimeOffOverlap, "Staff member is off during the requested time")
	}
	return nil
}
