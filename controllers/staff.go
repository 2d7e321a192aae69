package controllers

import (
	"net/http"
	"salonbook-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StaffController struct {
	Staff *services.StaffService
	Log   *zap.Logger
}

type CreateStaffInput struct {
	Name       string `json:"name" binding:"required,max=255"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone"`
	Password   string `json:"password" binding:"required,min=8"`
	Role       string `json:"role" binding:"omitempty,oneof=salon_admin staff"`
	IsBookable *bool  `json:"is_bookable"`
}

type UpdateStaffInput struct {
	Name       *string `json:"name" binding:"omitempty,max=255"`
	Phone      *string `json:"phone"`
	Role       *string `json:"role" binding:"omitempty,oneof=salon_admin staff"`
	IsBookable *bool   `json:"is_bookable"`
	Password   *string `json:"password" binding:"omitempty,min=8"`
}

func (sc *StaffController) GetStaff(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}

	staff, err := sc.Staff.List(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, sc.Log, err)
		return
	}
	views := make([]*staffView, 0, len(staff))
	for i := range staff {
		views = append(views, newStaffView(&staff[i]))
	}
	c.JSON(http.StatusOK, views)
}

func (sc *StaffController) AddStaff(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}

	var input CreateStaffInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := sc.Staff.Create(c.Request.Context(), actor, services.StaffInput{
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		Password:   input.Password,
		Role:       input.Role,
		IsBookable: input.IsBookable,
	})
	if err != nil {
		respondServiceError(c, sc.Log, err)
		return
	}
	c.JSON(http.StatusCreated, newStaffView(user))
}

func (sc *StaffController) UpdateStaff(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input UpdateStaffInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := sc.Staff.Update(c.Request.Context(), actor, id, services.StaffUpdate{
		Name:       input.Name,
		Phone:      input.Phone,
		Role:       input.Role,
		IsBookable: input.IsBookable,
		Password:   input.Password,
	})
	if err != nil {
		respondServiceError(c, sc.Log, err)
		return
	}
	c.JSON(http.StatusOK, newStaffView(user))
}

func (sc *StaffController) DeleteStaff(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := sc.Staff.Delete(c.Request.Context(), actor, id); err != nil {
		respondServiceError(c, sc.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Staff member deleted successfully"})
}
