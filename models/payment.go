package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentCash          = "cash"
	PaymentCreditCard    = "credit_card"
	PaymentDebitCard     = "debit_card"
	PaymentOnlinePayment = "online_payment"

	PaymentCompleted = "completed"
	PaymentPending   = "pending"
	PaymentRefunded  = "refunded"
)

var PaymentMethods = []string{PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentOnlinePayment}

// Payment amounts are minor units.
type Payment struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key"`
	SalonID       uuid.UUID  `gorm:"type:uuid;index;not null"`
	AppointmentID *uuid.UUID `gorm:"type:uuid;index"`
	CustomerID    uuid.UUID  `gorm:"type:uuid;index;not null"`
	Amount        int64      `gorm:"not null"`
	PaymentMethod string     `gorm:"type:varchar(20);not null"`
	Status        string     `gorm:"type:varchar(20);not null;default:completed"`
	TransactionID string     `gorm:"type:varchar(100)"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
