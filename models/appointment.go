package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"

	BookedByStaff    = "staff"
	BookedByCustomer = "customer"
)

var AppointmentStatuses = []string{StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow}

// Appointment times are salon wall-clock values stored without zone conversion.
type Appointment struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	SalonID       uuid.UUID `gorm:"type:uuid;index;not null"`
	CustomerID    uuid.UUID `gorm:"type:uuid;index;not null"`
	StaffID       uuid.UUID `gorm:"type:uuid;index;not null"`
	StartTime     time.Time `gorm:"not null;index"`
	EndTime       time.Time `gorm:"not null"`
	TotalPrice    int64     `gorm:"not null;default:0"`
	TotalDuration int       `gorm:"not null;default:0"`
	Status        string    `gorm:"type:varchar(20);not null;default:confirmed"`
	Notes         string    `gorm:"type:text"`
	BookedBy      string    `gorm:"type:varchar(20);not null;default:staff"`

	Customer *Customer            `gorm:"foreignKey:CustomerID"`
	Staff    *User                `gorm:"foreignKey:StaffID"`
	Services []AppointmentService `gorm:"foreignKey:AppointmentID"`
	Payments []Payment            `gorm:"foreignKey:AppointmentID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

// AppointmentService snapshots a service's price and duration at booking time.
type AppointmentService struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	AppointmentID   uuid.UUID `gorm:"type:uuid;index;not null"`
	ServiceID       uuid.UUID `gorm:"type:uuid;index;not null"`
	Price           int64     `gorm:"not null"`
	DurationMinutes int       `gorm:"not null"`

	Service *Service `gorm:"foreignKey:ServiceID"`

	CreatedAt time.Time
}

func (s *AppointmentService) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
