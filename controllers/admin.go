package controllers

import (
	"net/http"
	"salonbook-backend/auth"
	"salonbook-backend/services"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AdminController is the platform operator's panel.
type AdminController struct {
	Admin *services.AdminService
	Log   *zap.Logger
}

type PlanInput struct {
	Name                  *string          `json:"name" binding:"omitempty,max=100"`
	PriceMonthly          *decimal.Decimal `json:"price_monthly"`
	PriceYearly           *decimal.Decimal `json:"price_yearly"`
	MaxStaffCount         *int             `json:"max_staff_count" binding:"omitempty,min=1"`
	AllowOnlineBooking    *bool            `json:"allow_online_booking"`
	AllowSMSNotifications *bool            `json:"allow_sms_notifications"`
}

func (in PlanInput) toService() services.PlanInput {
	return services.PlanInput{
		Name:                  in.Name,
		PriceMonthly:          in.PriceMonthly,
		PriceYearly:           in.PriceYearly,
		MaxStaffCount:         in.MaxStaffCount,
		AllowOnlineBooking:    in.AllowOnlineBooking,
		AllowSMSNotifications: in.AllowSMSNotifications,
	}
}

type UpdateSalonInput struct {
	Name               *string `json:"name" binding:"omitempty,max=255"`
	PlanID             *string `json:"plan_id" binding:"omitempty,uuid"`
	SubscriptionEndsAt *string `json:"subscription_ends_at"`
}

type salonSummaryView struct {
	*salonView
	PlanName  string `json:"plan_name"`
	UserCount int64  `json:"user_count"`
	Active    bool   `json:"active"`
}

func (ac *AdminController) Dashboard(c *gin.Context) {
	dashboard, err := ac.Admin.Dashboard(c.Request.Context())
	if err != nil {
		respondServiceError(c, ac.Log, err)
		return
	}

	recent := make([]*salonView, 0, len(dashboard.RecentSalons))
	for i := range dashboard.RecentSalons {
		recent = append(recent, newSalonView(&dashboard.RecentSalons[i]))
	}
	perPlan := dashboard.SalonsPerPlan
	if perPlan == nil {
		perPlan = []services.PlanCount{}
	}

	c.JSON(http.StatusOK, gin.H{
		"total_salons":    dashboard.TotalSalons,
		"active_salons":   dashboard.ActiveSalons,
		"total_users":     dashboard.TotalUsers,
		"monthly_revenue": dashboard.MonthlyRevenue,
		"recent_salons":   recent,
		"salons_per_plan": perPlan,
	})
}

func (ac *AdminController) ListPlans(c *gin.Context) {
	plans, err := ac.Admin.ListPlans(c.Request.Context())
	if err != nil {
		respondServiceError(c, ac.Log, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (ac *AdminController) CreatePlan(c *gin.Context) {
	var input PlanInput
	if !bindJSON(c, &input) {
		return
	}
	plan, err := ac.Admin.CreatePlan(c.Request.Context(), input.toService())
	if err != nil {
		respondServiceError(c, ac.Log, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (ac *AdminController) UpdatePlan(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input PlanInput
	if !bindJSON(c, &input) {
		return
	}
	plan, err := ac.Admin.UpdatePlan(c.Request.Context(), id, input.toService())
	if err != nil {
		respondServiceError(c, ac.Log, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (ac *AdminController) DeletePlan(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ac.Admin.DeletePlan(c.Request.Context(), id); err != nil {
		respondServiceError(c, ac.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plan deleted successfully"})
}

func (ac *AdminController) ListSalons(c *gin.Context) {
	summaries, err := ac.Admin.ListSalons(c.Request.Context())
	if err != nil {
		respondServiceError(c, ac.Log, err)
		return
	}
	views := make([]salonSummaryView, 0, len(summaries))
	for i := range summaries {
		views = append(views, salonSummaryView{
			salonView: newSalonView(&summaries[i].Salon),
			PlanName:  summaries[i].PlanName,
			UserCount: summaries[i].UserCount,
			Active:    summaries[i].Active,
		})
	}
	c.JSON(http.StatusOK, views)
}

func (ac *AdminController) UpdateSalon(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input UpdateSalonInput
	if !bindJSON(c, &input) {
		return
	}

	fields := fieldErrors{}
	update := services.SalonUpdate{
		Name:               input.Name,
		SubscriptionEndsAt: fields.parse("subscription_ends_at", input.SubscriptionEndsAt),
	}
	if input.PlanID != nil {
		planID := uuid.MustParse(*input.PlanID)
		update.PlanID = &planID
	}
	if fields.respond(c) {
		return
	}

	salon, err := ac.Admin.UpdateSalon(c.Request.Context(), id, update)
	if err != nil {
		respondServiceError(c, ac.Log, err)
		return
	}
	c.JSON(http.StatusOK, newSalonView(salon))
}

func (ac *AdminController) DeleteSalon(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ac.Admin.DeleteSalon(c.Request.Context(), id); err != nil {
		respondServiceError(c, ac.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Salon deleted successfully"})
}

// Impersonate returns a short-lived token acting as the salon's admin.
func (ac *AdminController) Impersonate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	actor := auth.ActorFrom(c)
	if actor == nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Authorization header required")
		return
	}

	session, err := ac.Admin.Impersonate(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, ac.Log, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}
