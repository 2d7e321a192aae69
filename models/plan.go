package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Plan is a subscription tier. List prices are catalogue values in major units.
type Plan struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name                  string          `gorm:"not null" json:"name"`
	PriceMonthly          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_monthly"`
	PriceYearly           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_yearly"`
	MaxStaffCount         int             `gorm:"default:5;not null" json:"max_staff_count"`
	AllowOnlineBooking    bool            `gorm:"not null" json:"allow_online_booking"`
	AllowSMSNotifications bool            `gorm:"not null" json:"allow_sms_notifications"`

	Salons []Salon `gorm:"foreignKey:PlanID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Plan) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
