package services

import (
	"context"
	"salonbook-backend/auth"
	"salonbook-backend/models"
	"salonbook-backend/utils"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingService creates, reschedules and removes appointments.
type BookingService struct {
	db                  *gorm.DB
	log                 *zap.Logger
	rejectDoubleBooking bool
	now                 func() time.Time
}

func NewBookingService(db *gorm.DB, log *zap.Logger, rejectDoubleBooking bool) *BookingService {
	return &BookingService{
		db:                  db,
		log:                 log,
		rejectDoubleBooking: rejectDoubleBooking,
		now:                 func() time.Time { return utils.StripZone(time.Now()) },
	}
}

type CreateAppointmentInput struct {
	StaffID    uuid.UUID
	CustomerID uuid.UUID
	StartTime  time.Time
	ServiceIDs []uuid.UUID
	Notes      string
}

// UpdateAppointmentInput carries only the fields the caller supplied.
type UpdateAppointmentInput struct {
	StaffID    *uuid.UUID
	CustomerID *uuid.UUID
	StartTime  *time.Time
	EndTime    *time.Time
	ServiceIDs *[]uuid.UUID
	Status     *string
	Notes      *string
}

func (s *BookingService) Create(ctx context.Context, actor *auth.Actor, in CreateAppointmentInput) (*models.Appointment, error) {
	if in.StartTime.IsZero() {
		return nil, ValidationError("start_time", "is required")
	}

	var appointment models.Appointment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		services, err := loadServices(tx, actor.SalonID, in.ServiceIDs)
		if err != nil {
			return err
		}
		if _, err := findStaff(tx, actor.SalonID, in.StaffID); err != nil {
			return err
		}
		if _, err := findCustomer(tx, actor.SalonID, in.CustomerID); err != nil {
			return err
		}

		price, minutes := serviceTotals(services)
		start := utils.StripZone(in.StartTime)
		end := start.Add(time.Duration(minutes) * time.Minute)

		if s.rejectDoubleBooking {
			if err := lockStaff(tx, in.StaffID); err != nil {
				return err
			}
			if err := ensureNoOverlap(tx, in.StaffID, start, end, uuid.Nil); err != nil {
				return err
			}
		}

		appointment = models.Appointment{
			SalonID:       actor.SalonID,
			CustomerID:    in.CustomerID,
			StaffID:       in.StaffID,
			StartTime:     start,
			EndTime:       end,
			TotalPrice:    price,
			TotalDuration: minutes,
			Status:        models.StatusConfirmed,
			Notes:         in.Notes,
			BookedBy:      models.BookedByStaff,
		}
		if err := tx.Omit(clause.Associations).Create(&appointment).Error; err != nil {
			return errors.Wrap(err, "create appointment")
		}

		rows := snapshotRows(appointment.ID, services)
		if err := tx.Create(&rows).Error; err != nil {
			return errors.Wrap(err, "create appointment services")
		}
		appointment.Services = rows
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("appointment created",
		zap.String("appointment_id", appointment.ID.String()),
		zap.String("salon_id", appointment.SalonID.String()),
		zap.String("staff_id", appointment.StaffID.String()),
		zap.Time("start_time", appointment.StartTime),
	)
	return &appointment, nil
}

func (s *BookingService) Update(ctx context.Context, actor *auth.Actor, id uuid.UUID, in UpdateAppointmentInput) (*models.Appointment, error) {
	if in.Status != nil && !slices.Contains(models.AppointmentStatuses, *in.Status) {
		return nil, ValidationError("status", "must be one of: confirmed completed cancelled no_show")
	}

	var appointment *models.Appointment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		appointment, err = findAppointment(tx, actor.SalonID, id)
		if err != nil {
			return err
		}
		if !actor.CanViewCalendarOf(appointment.StaffID) {
			return errForeignSalon
		}

		if in.StaffID != nil {
			if !actor.CanViewCalendarOf(*in.StaffID) {
				return ForbiddenError("You can only manage your own appointments")
			}
			if _, err := findStaff(tx, actor.SalonID, *in.StaffID); err != nil {
				return err
			}
			appointment.StaffID = *in.StaffID
		}
		if in.CustomerID != nil {
			if _, err := findCustomer(tx, actor.SalonID, *in.CustomerID); err != nil {
				return err
			}
			appointment.CustomerID = *in.CustomerID
		}

		rescheduled := in.StaffID != nil || in.StartTime != nil || in.EndTime != nil || in.ServiceIDs != nil
		if in.StartTime != nil {
			appointment.StartTime = utils.StripZone(*in.StartTime)
		}

		switch {
		case in.ServiceIDs != nil:
			services, err := loadServices(tx, actor.SalonID, *in.ServiceIDs)
			if err != nil {
				return err
			}
			appointment.TotalPrice, appointment.TotalDuration = serviceTotals(services)
			if in.EndTime != nil {
				appointment.EndTime = utils.StripZone(*in.EndTime)
			} else {
				appointment.EndTime = appointment.StartTime.Add(time.Duration(appointment.TotalDuration) * time.Minute)
			}

			if err := tx.Where("appointment_id = ?", appointment.ID).Delete(&models.AppointmentService{}).Error; err != nil {
				return errors.Wrap(err, "clear appointment services")
			}
			rows := snapshotRows(appointment.ID, services)
			if err := tx.Create(&rows).Error; err != nil {
				return errors.Wrap(err, "create appointment services")
			}
		case in.EndTime != nil:
			appointment.EndTime = utils.StripZone(*in.EndTime)
			appointment.TotalDuration = minutesBetween(appointment.StartTime, appointment.EndTime)
		case in.StartTime != nil:
			appointment.EndTime = appointment.StartTime.Add(time.Duration(appointment.TotalDuration) * time.Minute)
		}
		if !appointment.EndTime.After(appointment.StartTime) {
			return ValidationError("end_time", "must be after start_time")
		}

		if in.Status != nil {
			if appointment.Status == models.StatusCompleted && *in.Status != models.StatusCompleted {
				if err := tx.Where("appointment_id = ?", appointment.ID).Delete(&models.Payment{}).Error; err != nil {
					return errors.Wrap(err, "delete payments")
				}
			}
			appointment.Status = *in.Status
		}
		if in.Notes != nil {
			appointment.Notes = *in.Notes
		}

		if s.rejectDoubleBooking && rescheduled && appointment.Status != models.StatusCancelled {
			if err := lockStaff(tx, appointment.StaffID); err != nil {
				return err
			}
			if err := ensureNoOverlap(tx, appointment.StaffID, appointment.StartTime, appointment.EndTime, appointment.ID); err != nil {
				return err
			}
		}

		return errors.Wrap(tx.Omit(clause.Associations).Save(appointment).Error, "save appointment")
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("appointment updated",
		zap.String("appointment_id", appointment.ID.String()),
		zap.String("status", appointment.Status),
	)
	return s.Get(ctx, actor, appointment.ID)
}

func (s *BookingService) Delete(ctx context.Context, actor *auth.Actor, id uuid.UUID) error {
	db := s.db.WithContext(ctx)
	appointment, err := findAppointment(db, actor.SalonID, id)
	if err != nil {
		return err
	}
	if !actor.CanViewCalendarOf(appointment.StaffID) {
		return errForeignSalon
	}
	if err := db.Delete(appointment).Error; err != nil {
		return errors.Wrap(err, "delete appointment")
	}

	s.log.Info("appointment deleted", zap.String("appointment_id", id.String()))
	return nil
}

// Get loads an appointment with its customer, staff and booked services.
func (s *BookingService) Get(ctx context.Context, actor *auth.Actor, id uuid.UUID) (*models.Appointment, error) {
	var appointment models.Appointment
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Staff").
		Preload("Services.Service").
		First(&appointment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errAppointmentNotFound
		}
		return nil, errors.Wrap(err, "load appointment")
	}
	if appointment.SalonID != actor.SalonID || !actor.CanViewCalendarOf(appointment.StaffID) {
		return nil, errForeignSalon
	}
	return &appointment, nil
}

// StaffCalendar is one column of the salon calendar.
type StaffCalendar struct {
	Staff        models.User
	Appointments []models.Appointment
}

// Calendar lists appointments between from and to grouped by bookable staff member.
// Actors without the all-calendars capability only get their own column.
func (s *BookingService) Calendar(ctx context.Context, actor *auth.Actor, from, to time.Time) ([]StaffCalendar, error) {
	db := s.db.WithContext(ctx)

	staffQuery := db.Where("salon_id = ? AND is_bookable = ? AND role IN ?",
		actor.SalonID, true, []string{models.RoleSalonAdmin, models.RoleStaff})
	if !actor.Can.ViewAllCalendars {
		staffQuery = staffQuery.Where("id = ?", actor.UserID)
	}
	var staff []models.User
	if err := staffQuery.Order("name").Find(&staff).Error; err != nil {
		return nil, errors.Wrap(err, "load staff")
	}
	if len(staff) == 0 {
		return []StaffCalendar{}, nil
	}

	ids := make([]uuid.UUID, 0, len(staff))
	for _, member := range staff {
		ids = append(ids, member.ID)
	}

	var appointments []models.Appointment
	err := db.Preload("Customer").
		Preload("Services.Service").
		Where("salon_id = ? AND staff_id IN ? AND start_time >= ? AND start_time <= ?",
			actor.SalonID, ids, utils.StripZone(from), utils.StripZone(to)).
		Order("start_time").
		Find(&appointments).Error
	if err != nil {
		return nil, errors.Wrap(err, "load appointments")
	}

	byStaff := make(map[uuid.UUID][]models.Appointment, len(staff))
	for _, a := range appointments {
		byStaff[a.StaffID] = append(byStaff[a.StaffID], a)
	}
	calendar := make([]StaffCalendar, 0, len(staff))
	for _, member := range staff {
		column := byStaff[member.ID]
		if column == nil {
			column = []models.Appointment{}
		}
		calendar = append(calendar, StaffCalendar{Staff: member, Appointments: column})
	}
	return calendar, nil
}

// UpcomingWindow returns the range covered by "days" ahead of now: 0 is the rest of
// today, 1 is tomorrow, and N > 1 runs from tomorrow through today+N.
func UpcomingWindow(now time.Time, days int) (time.Time, time.Time) {
	switch {
	case days <= 0:
		return now, utils.EndOfDay(now)
	case days == 1:
		tomorrow := utils.BeginningOfDay(now).AddDate(0, 0, 1)
		return tomorrow, utils.EndOfDay(tomorrow)
	default:
		tomorrow := utils.BeginningOfDay(now).AddDate(0, 0, 1)
		return tomorrow, utils.EndOfDay(now.AddDate(0, 0, days))
	}
}

// Upcoming lists confirmed appointments in the window described by UpcomingWindow.
func (s *BookingService) Upcoming(ctx context.Context, actor *auth.Actor, days int) ([]models.Appointment, error) {
	from, to := UpcomingWindow(s.now(), days)

	query := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Staff").
		Preload("Services.Service").
		Where("salon_id = ? AND status = ? AND start_time >= ? AND start_time <= ?",
			actor.SalonID, models.StatusConfirmed, from, to)
	if !actor.Can.ViewAllCalendars {
		query = query.Where("staff_id = ?", actor.UserID)
	}

	var appointments []models.Appointment
	if err := query.Order("start_time").Find(&appointments).Error; err != nil {
		return nil, errors.Wrap(err, "load upcoming appointments")
	}
	return appointments, nil
}

func ensureNoOverlap(tx *gorm.DB, staffID uuid.UUID, start, end time.Time, excludeID uuid.UUID) error {
	query := tx.Model(&models.Appointment{}).
		Where("staff_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
			staffID, models.StatusCancelled, end, start)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return errors.Wrap(err, "check appointment overlap")
	}
	if count > 0 {
		return ConflictError(CodeAppointmentOverlap, "Staff member already has an appointment in this time range")
	}
	return nil
}
