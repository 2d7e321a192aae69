package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SalonID uuid.UUID `gorm:"type:uuid;index;not null" json:"salon_id"`

	Name  string `gorm:"not null" json:"name"`
	Phone string `gorm:"not null;index" json:"phone"`
	Email string `json:"email"`
	Notes string `gorm:"type:text" json:"notes"`

	Appointments []Appointment `gorm:"foreignKey:CustomerID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
