package models

import (
	"salonbook-backend/utils"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin      = "admin"
	RoleSalonAdmin = "salon_admin"
	RoleStaff      = "staff"
)

// User is anyone who can log in. Salon admins and staff belong to one salon and are
// the staff members appointments are booked against; platform admins have no salon.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Name     string    `gorm:"not null" json:"name"`
	Phone    string    `json:"phone"`

	Role       string     `gorm:"type:varchar(20);not null" json:"role"`
	SalonID    *uuid.UUID `gorm:"type:uuid;index" json:"salon_id"`
	IsBookable bool       `gorm:"not null" json:"is_bookable"`

	Salon *Salon `gorm:"foreignKey:SalonID" json:"-"`

	LastLogin *time.Time `json:"last_login"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns the id and hashes the plain password set by the caller.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}

func (u *User) IsStaffMember() bool {
	return u.Role == RoleSalonAdmin || u.Role == RoleStaff
}

// BelongsTo reports whether the user is attached to the given salon.
func (u *User) BelongsTo(salonID uuid.UUID) bool {
	return u.SalonID != nil && *u.SalonID == salonID
}
