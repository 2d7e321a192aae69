package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Salon struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name               string     `gorm:"not null" json:"name"`
	Subdomain          string     `gorm:"uniqueIndex;not null" json:"subdomain"`
	Phone              string     `gorm:"not null" json:"phone"`
	Address            string     `json:"address"`
	Settings           JSONB      `gorm:"type:jsonb" json:"settings"`
	PlanID             *uuid.UUID `gorm:"type:uuid;index" json:"plan_id"`
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at"`

	Plan *Plan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`

	Users     []User     `gorm:"foreignKey:SalonID;constraint:OnDelete:CASCADE" json:"-"`
	Customers []Customer `gorm:"foreignKey:SalonID;constraint:OnDelete:CASCADE" json:"-"`
	Services  []Service  `gorm:"foreignKey:SalonID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Salon) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// IsActive reports whether the subscription runs past now.
func (s *Salon) IsActive(now time.Time) bool {
	return s.SubscriptionEndsAt != nil && s.SubscriptionEndsAt.After(now)
}

// JSONB holds free-form salon settings (opening hours, currency, ...).
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return "{}", nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (j *JSONB) Scan(value interface{}) error {
	var b []byte
	switch v := value.(type) {
	case nil:
		*j = JSONB{}
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, j)
}
