package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReminderSent   = "sent"
	ReminderFailed = "failed"
)

type ReminderLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	SalonID       uuid.UUID `gorm:"type:uuid;index;not null"`
	AppointmentID uuid.UUID `gorm:"type:uuid;index;not null"`
	CustomerID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Channel       string    `gorm:"type:varchar(20)"` // sms
	Message       string    `gorm:"type:text"`
	Status        string    `gorm:"type:varchar(20)"` // sent, failed
	ErrorMessage  string    `gorm:"type:text"`
	SentAt        time.Time

	CreatedAt time.Time
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
