package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SalonID    uuid.UUID `gorm:"type:uuid;index;not null" json:"salon_id"`
	Name       string    `gorm:"not null" json:"name"`
	SKU        string    `gorm:"type:varchar(100)" json:"sku"`
	StockLevel int       `gorm:"default:0" json:"stock_level"`
	Price      int64     `gorm:"not null" json:"price"`
	Cost       int64     `gorm:"not null" json:"cost"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
