package auth

import (
	"salonbook-backend/models"

	"github.com/google/uuid"
)

// Capabilities are derived from the role once, when the token is verified.
type Capabilities struct {
	ManagePlatform   bool
	ManageSalon      bool
	ViewAllCalendars bool
	Book             bool
}

func capabilitiesFor(role string) Capabilities {
	switch role {
	case models.RoleAdmin:
		return Capabilities{ManagePlatform: true}
	case models.RoleSalonAdmin:
		return Capabilities{ManageSalon: true, ViewAllCalendars: true, Book: true}
	case models.RoleStaff:
		return Capabilities{Book: true}
	}
	return Capabilities{}
}

// Actor is the authenticated caller of a request.
type Actor struct {
	UserID         uuid.UUID
	SalonID        uuid.UUID
	Role           string
	ImpersonatedBy *uuid.UUID
	Can            Capabilities
}

func NewActor(userID, salonID uuid.UUID, role string, impersonatedBy *uuid.UUID) *Actor {
	return &Actor{
		UserID:         userID,
		SalonID:        salonID,
		Role:           role,
		ImpersonatedBy: impersonatedBy,
		Can:            capabilitiesFor(role),
	}
}

// ActorFor builds the actor a freshly issued token for user would carry.
func ActorFor(user *models.User) *Actor {
	salonID := uuid.Nil
	if user.SalonID != nil {
		salonID = *user.SalonID
	}
	return NewActor(user.ID, salonID, user.Role, nil)
}

func (a *Actor) HasSalon() bool {
	return a.SalonID != uuid.Nil
}

func (a *Actor) IsImpersonating() bool {
	return a.ImpersonatedBy != nil
}

// CanManageScheduleOf reports whether the actor may edit the given staff member's
// working hours and time off. Staff may only touch their own.
func (a *Actor) CanManageScheduleOf(staffID uuid.UUID) bool {
	return a.Can.ManageSalon || (a.Can.Book && a.UserID == staffID)
}

// CanViewCalendarOf reports whether the staff member's appointments are visible.
func (a *Actor) CanViewCalendarOf(staffID uuid.UUID) bool {
	return a.Can.ViewAllCalendars || a.UserID == staffID
}
