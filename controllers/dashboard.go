package controllers

import (
	"fmt"
	"net/http"
	"salonbook-backend/models"
	"salonbook-backend/utils"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DashboardController serves the salon home screen.
type DashboardController struct {
	DB  *gorm.DB
	Log *zap.Logger
}

type DashboardOverview struct {
	TotalCustomers    int64             `json:"totalCustomers"`
	MonthlyRevenue    decimal.Decimal   `json:"monthlyRevenue"`
	TodayAppointments int64             `json:"todayAppointments"`
	NextAppointments  []appointmentView `json:"nextAppointments"`
	RecentCustomers   []RecentCustomer  `json:"recentCustomers"`
}

type RecentCustomer struct {
	Name      string `json:"name"`
	Service   string `json:"service"`
	VisitDate string `json:"visitDate"` // e.g. "Today", "Yesterday"
}

func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}

	now := utils.StripZone(time.Now())
	overview := DashboardOverview{
		NextAppointments: []appointmentView{},
		RecentCustomers:  []RecentCustomer{},
	}

	if err := dc.DB.Model(&models.Customer{}).Where("salon_id = ?", actor.SalonID).
		Count(&overview.TotalCustomers).Error; err != nil {
		dc.fail(c, "count customers", err)
		return
	}

	var revenue int64
	if err := dc.DB.Model(&models.Payment{}).
		Where("salon_id = ? AND status = ? AND created_at >= ?", actor.SalonID, models.PaymentCompleted, utils.BeginningOfMonth(now)).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&revenue).Error; err != nil {
		dc.fail(c, "sum revenue", err)
		return
	}
	overview.MonthlyRevenue = utils.ToMajor(revenue)

	scoped := func() *gorm.DB {
		q := dc.DB.Where("salon_id = ?", actor.SalonID)
		if !actor.Can.ViewAllCalendars {
			q = q.Where("staff_id = ?", actor.UserID)
		}
		return q
	}

	if err := scoped().Model(&models.Appointment{}).
		Where("start_time BETWEEN ? AND ? AND status <> ?", utils.BeginningOfDay(now), utils.EndOfDay(now), models.StatusCancelled).
		Count(&overview.TodayAppointments).Error; err != nil {
		dc.fail(c, "count appointments", err)
		return
	}

	var next []models.Appointment
	if err := scoped().Preload("Customer").Preload("Staff").Preload("Services.Service").
		Where("start_time >= ? AND status = ?", now, models.StatusConfirmed).
		Order("start_time").
		Limit(5).
		Find(&next).Error; err != nil {
		dc.fail(c, "load next appointments", err)
		return
	}
	overview.NextAppointments = newAppointmentViews(next)

	// Recent customers (last 3 distinct completed visits)
	var visits []models.Appointment
	if err := scoped().Preload("Customer").Preload("Services.Service").
		Where("status = ? AND start_time <= ?", models.StatusCompleted, now).
		Order("start_time DESC").
		Limit(20).
		Find(&visits).Error; err != nil {
		dc.fail(c, "load recent visits", err)
		return
	}
	seen := make(map[string]bool)
	for _, visit := range visits {
		if visit.Customer == nil || seen[visit.Customer.ID.String()] {
			continue
		}
		seen[visit.Customer.ID.String()] = true

		names := make([]string, 0, len(visit.Services))
		for _, s := range visit.Services {
			if s.Service != nil {
				names = append(names, s.Service.Name)
			}
		}
		overview.RecentCustomers = append(overview.RecentCustomers, RecentCustomer{
			Name:      visit.Customer.Name,
			Service:   strings.Join(names, ", "),
			VisitDate: visitLabel(now, visit.StartTime),
		})
		if len(overview.RecentCustomers) >= 3 {
			break
		}
	}

	c.JSON(http.StatusOK, overview)
}

func visitLabel(now, visit time.Time) string {
	switch daysAgo := utils.DaysBetween(visit, now); daysAgo {
	case 0:
		return "Today"
	case 1:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", daysAgo)
	}
}

func (dc *DashboardController) fail(c *gin.Context, step string, err error) {
	dc.Log.Error("dashboard query failed", zap.String("step", step), zap.Error(err))
	utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
}
