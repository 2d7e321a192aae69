package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImpersonationAudit records a platform admin acting as a salon user.
// EndedAt stays nil while the session is open.
type ImpersonationAudit struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	AdminID      uuid.UUID `gorm:"type:uuid;index;not null"`
	TargetUserID uuid.UUID `gorm:"type:uuid;index;not null"`
	SalonID      uuid.UUID `gorm:"type:uuid;index;not null"`
	StartedAt    time.Time `gorm:"not null"`
	EndedAt      *time.Time
}

func (a *ImpersonationAudit) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
