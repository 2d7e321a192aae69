package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is a bookable treatment. Price is kept in minor units.
type Service struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SalonID         uuid.UUID `gorm:"type:uuid;index;not null" json:"salon_id"`
	Name            string    `gorm:"not null" json:"name"`
	Description     string    `json:"description"`
	Price           int64     `gorm:"not null" json:"price"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	IsActive        bool      `gorm:"not null" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
