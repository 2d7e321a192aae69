package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkingHour is the weekly rule for one staff member on one weekday (0 = Sunday).
// Start and End are "HH:MM" and empty when IsOff is set.
type WorkingHour struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_working_hours_user_day" json:"user_id"`
	DayOfWeek int       `gorm:"not null;uniqueIndex:idx_working_hours_user_day" json:"day_of_week"`
	StartTime string    `gorm:"type:varchar(5)" json:"start_time"`
	EndTime   string    `gorm:"type:varchar(5)" json:"end_time"`
	IsOff     bool      `gorm:"default:false" json:"is_off"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w *WorkingHour) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return
}
