package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ExpensePersonnel = "personnel"
	ExpenseRent      = "rent"
	ExpenseUtility   = "utility"
	ExpenseOther     = "other"
)

var ExpenseCategories = []string{ExpensePersonnel, ExpenseRent, ExpenseUtility, ExpenseOther}

type Expense struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	SalonID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Category    string    `gorm:"type:varchar(20);not null"`
	Amount      int64     `gorm:"not null"`
	Description string    `gorm:"type:text"`
	ExpenseDate time.Time `gorm:"type:date;not null;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
