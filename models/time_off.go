package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TimeOff struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	StartTime time.Time `gorm:"not null;index"`
	EndTime   time.Time `gorm:"not null"`
	Reason    string    `gorm:"type:varchar(500)"`

	User *User `gorm:"foreignKey:UserID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *TimeOff) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

// Overlaps uses closed-interval intersection, so touching endpoints count.
func (t *TimeOff) Overlaps(start, end time.Time) bool {
	return !t.StartTime.After(end) && !t.EndTime.Before(start)
}
