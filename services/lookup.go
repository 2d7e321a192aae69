package services

import (
	"salonbook-backend/models"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func findStaff(tx *gorm.DB, salonID, staffID uuid.UUID) (*models.User, error) {
	var staff models.User
	if err := tx.First(&staff, "id = ?", staffID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errStaffNotFound
		}
		return nil, errors.Wrap(err, "load staff")
	}
	if !staff.IsStaffMember() {
		return nil, errStaffNotFound
	}
	if !staff.BelongsTo(salonID) {
		return nil, errForeignSalon
	}
	return &staff, nil
}

func findCustomer(tx *gorm.DB, salonID, customerID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := tx.First(&customer, "id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errCustomerNotFound
		}
		return nil, errors.Wrap(err, "load customer")
	}
	if customer.SalonID != salonID {
		return nil, errForeignSalon
	}
	return &customer, nil
}

func findAppointment(tx *gorm.DB, salonID, id uuid.UUID) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := tx.First(&appointment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errAppointmentNotFound
		}
		return nil, errors.Wrap(err, "load appointment")
	}
	if appointment.SalonID != salonID {
		return nil, errForeignSalon
	}
	return &appointment, nil
}

// loadServices resolves ids in the order given. Repeated ids are booked repeatedly.
func loadServices(tx *gorm.DB, salonID uuid.UUID, ids []uuid.UUID) ([]models.Service, error) {
	if len(ids) == 0 {
		return nil, ValidationError("services", "at least one service is required")
	}

	var found []models.Service
	if err := tx.Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, errors.Wrap(err, "load services")
	}
	byID := make(map[uuid.UUID]models.Service, len(found))
	for _, svc := range found {
		byID[svc.ID] = svc
	}

	services := make([]models.Service, 0, len(ids))
	for _, id := range ids {
		svc, ok := byID[id]
		if !ok {
			return nil, errServiceNotFound
		}
		if svc.SalonID != salonID {
			return nil, errForeignSalon
		}
		services = append(services, svc)
	}
	return services, nil
}

func serviceTotals(services []models.Service) (price int64, minutes int) {
	for _, svc := range services {
		price += svc.Price
		minutes += svc.DurationMinutes
	}
	return price, minutes
}

func snapshotRows(appointmentID uuid.UUID, services []models.Service) []models.AppointmentService {
	rows := make([]models.AppointmentService, 0, len(services))
	for _, svc := range services {
		rows = append(rows, models.AppointmentService{
			AppointmentID:   appointmentID,
			ServiceID:       svc.ID,
			Price:           svc.Price,
			DurationMinutes: svc.DurationMinutes,
		})
	}
	return rows
}

// lockStaff serialises schedule writes for one staff member. SQLite has no row
// locks and already serialises writers, so the lock is only taken on PostgreSQL.
func lockStaff(tx *gorm.DB, staffID uuid.UUID) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	var locked models.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&locked, "id = ?", staffID).Error
	return errors.Wrap(err, "lock staff")
}

func minutesBetween(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}
