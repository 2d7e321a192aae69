package controllers

import (
	"net/http"
	"salonbook-backend/auth"
	"salonbook-backend/models"
	"salonbook-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthController struct {
	Accounts *services.AccountService
	Admin    *services.AdminService
	Log      *zap.Logger
}

type RegisterInput struct {
	Email        string       `json:"email" binding:"required,email"`
	Phone        string       `json:"phone" binding:"required"`
	Name         string       `json:"name" binding:"required,max=255"`
	Password     string       `json:"password" binding:"required,min=8"`
	SalonName    string       `json:"salonName" binding:"required,max=255"`
	Subdomain    string       `json:"subdomain" binding:"required,min=3,max=63"`
	SalonAddress string       `json:"salonAddress"`
	Settings     models.JSONB `json:"settings"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func sessionResponse(session *services.Session) gin.H {
	return gin.H{
		"token": session.Token,
		"user":  newStaffView(session.User),
	}
}

// Register creates a salon together with its first salon admin
func (ac *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	session, err := ac.Accounts.Register(c.Request.Context(), services.RegisterInput{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		Password:     input.Password,
		SalonName:    input.SalonName,
		Subdomain:    input.Subdomain,
		SalonAddress: input.SalonAddress,
		Settings:     input.Settings,
	})
	if err != nil {
		respondServiceError(c, ac.Log, err)
		return
	}

	c.JSON(http.StatusCreated, sessionResponse(session))
}

func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if !bindJSON(c, &input) {
		return
	}

	session, err := ac.Accounts.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if services.IsKind(err, services.KindValidation) {
			ac.Log.Info("failed login", zap.String("email", input.Email))
		}
		respondServiceError(c, ac.Log, err)
		return
	}

	c.JSON(http.StatusOK, sessionResponse(session))
}

func (ac *AuthController) Me(c *gin.Context) {
	actor := auth.ActorFrom(c)
	user, err := ac.Accounts.Me(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, ac.Log, err)
		return
	}

	response := gin.H{
		"user":  newStaffView(user),
		"salon": newSalonView(user.Salon),
	}
	if actor.IsImpersonating() {
		response["impersonated_by"] = actor.ImpersonatedBy.String()
	}
	c.JSON(http.StatusOK, response)
}

// LeaveImpersonation trades an impersonation token for the admin's own token.
func (ac *AuthController) LeaveImpersonation(c *gin.Context) {
	session, err := ac.Admin.LeaveImpersonation(c.Request.Context(), auth.ActorFrom(c))
	if err != nil {
		respondServiceError(c, ac.Log, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}
