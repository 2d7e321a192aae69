package services

import (
	"context"
	"salonbook-backend/models"
	"salonbook-backend/utils"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PublicSalon is what an anonymous visitor sees before booking.
type PublicSalon struct {
	Salon    models.Salon
	Staff    []models.User
	Services []models.Service
}

type OnlineBookingInput struct {
	StaffID       uuid.UUID
	StartTime     time.Time
	ServiceIDs    []uuid.UUID
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Notes         string
}

func (s *BookingService) findPublicSalon(db *gorm.DB, subdomain string) (*models.Salon, error) {
	var salon models.Salon
	err := db.Preload("Plan").
		First(&salon, "subdomain = ?", strings.ToLower(strings.TrimSpace(subdomain))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("Salon not found")
		}
		return nil, errors.Wrap(err, "load salon")
	}
	return &salon, nil
}

func (s *BookingService) PublicSalon(ctx context.Context, subdomain string) (*PublicSalon, error) {
	db := s.db.WithContext(ctx)
	salon, err := s.findPublicSalon(db, subdomain)
	if err != nil {
		return nil, err
	}

	out := &PublicSalon{Salon: *salon}
	err = db.Where("salon_id = ? AND is_bookable = ? AND role IN ?",
		salon.ID, true, []string{models.RoleSalonAdmin, models.RoleStaff}).
		Order("name").Find(&out.Staff).Error
	if err != nil {
		return nil, errors.Wrap(err, "load staff")
	}
	err = db.Where("salon_id = ? AND is_active = ?", salon.ID, true).
		Order("name").Find(&out.Services).Error
	if err != nil {
		return nil, errors.Wrap(err, "load services")
	}
	return out, nil
}

// BookOnline creates a customer-booked appointment. Unlike staff bookings these are
// always checked against the staff member's schedule and existing appointments.
func (s *BookingService) BookOnline(ctx context.Context, subdomain string, in OnlineBookingInput) (*models.Appointment, error) {
	if strings.TrimSpace(in.CustomerName) == "" {
		return nil, ValidationError("name", "is required")
	}
	if !utils.ValidatePhone(in.CustomerPhone) {
		return nil, ValidationError("phone", "must be a valid phone number")
	}
	if in.StartTime.IsZero() {
		return nil, ValidationError("start_time", "is required")
	}
	start := utils.StripZone(in.StartTime)
	if !start.After(s.now()) {
		return nil, ValidationError("start_time", "must be in the future")
	}

	db := s.db.WithContext(ctx)
	salon, err := s.findPublicSalon(db, subdomain)
	if err != nil {
		return nil, err
	}
	if salon.Plan == nil || !salon.Plan.AllowOnlineBooking || !salon.IsActive(s.now()) {
		return nil, ConflictError(CodeOnlineBookingClosed, "This salon does not accept online bookings")
	}

	var appointment models.Appointment
	err = db.Transaction(func(tx *gorm.DB) error {
		services, err := loadServices(tx, salon.ID, in.ServiceIDs)
		if err != nil {
			return err
		}
		for _, svc := range services {
			if !svc.IsActive {
				return errServiceNotFound
			}
		}
		staff, err := findStaff(tx, salon.ID, in.StaffID)
		if err != nil {
			return err
		}
		if !staff.IsBookable {
			return errStaffNotFound
		}

		price, minutes := serviceTotals(services)
		end := start.Add(time.Duration(minutes) * time.Minute)

		if err := lockStaff(tx, staff.ID); err != nil {
			return err
		}
		if err := ensureStaffAvailable(tx, staff.ID, start, end); err != nil {
			return err
		}
		if err := ensureNoOverlap(tx, staff.ID, start, end, uuid.Nil); err != nil {
			return err
		}

		customer, err := findOrCreateCustomer(tx, salon.ID, in)
		if err != nil {
			return err
		}

		appointment = models.Appointment{
			SalonID:       salon.ID,
			CustomerID:    customer.ID,
			StaffID:       staff.ID,
			StartTime:     start,
			EndTime:       end,
			TotalPrice:    price,
			TotalDuration: minutes,
			Status:        models.StatusConfirmed,
			Notes:         in.Notes,
			BookedBy:      models.BookedByCustomer,
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

	s.log.Info("online appointment booked",
		zap.String("appointment_id", appointment.ID.String()),
		zap.String("salon_id", salon.ID.String()),
		zap.Time("start_time", appointment.StartTime),
	)
	return &appointment, nil
}

func findOrCreateCustomer(tx *gorm.DB, salonID uuid.UUID, in OnlineBookingInput) (*models.Customer, error) {
	var customer models.Customer
	err := tx.Where("salon_id = ? AND phone = ?", salonID, in.CustomerPhone).First(&customer).Error
	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "load customer")
	}

	customer = models.Customer{
		SalonID: salonID,
		Name:    strings.TrimSpace(in.CustomerName),
		Phone:   in.CustomerPhone,
		Email:   in.CustomerEmail,
	}
	if err := tx.Create(&customer).Error; err != nil {
		return nil, errors.Wrap(err, "create customer")
	}
	return &customer, nil
}
