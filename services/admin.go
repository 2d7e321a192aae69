package services

import (
	"context"
	"salonbook-backend/auth"
	"salonbook-backend/models"
	"salonbook-backend/utils"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminService is the platform operator's cross-tenant view.
type AdminService struct {
	db     *gorm.DB
	log    *zap.Logger
	tokens *auth.TokenIssuer
	now    func() time.Time
}

func NewAdminService(db *gorm.DB, log *zap.Logger, tokens *auth.TokenIssuer) *AdminService {
	return &AdminService{
		db:     db,
		log:    log,
		tokens: tokens,
		now:    func() time.Time { return utils.StripZone(time.Now()) },
	}
}

type PlanInput struct {
	Name                  *string
	PriceMonthly          *decimal.Decimal
	PriceYearly           *decimal.Decimal
	MaxStaffCount         *int
	AllowOnlineBooking    *bool
	AllowSMSNotifications *bool
}

func applyPlan(p *models.Plan, in PlanInput) error {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.PriceMonthly != nil {
		p.PriceMonthly = *in.PriceMonthly
	}
	if in.PriceYearly != nil {
		p.PriceYearly = *in.PriceYearly
	}
	if in.MaxStaffCount != nil {
		p.MaxStaffCount = *in.MaxStaffCount
	}
	if in.AllowOnlineBooking != nil {
		p.AllowOnlineBooking = *in.AllowOnlineBooking
	}
	if in.AllowSMSNotifications != nil {
		p.AllowSMSNotifications = *in.AllowSMSNotifications
	}

	switch {
	case p.Name == "":
		return ValidationError("name", "is required")
	case p.PriceMonthly.IsNegative():
		return ValidationError("price_monthly", "must not be negative")
	case p.PriceYearly.IsNegative():
		return ValidationError("price_yearly", "must not be negative")
	case p.MaxStaffCount < 1:
		return ValidationError("max_staff_count", "must be at least 1")
	}
	return nil
}

func (s *AdminService) ListPlans(ctx context.Context) ([]models.Plan, error) {
	var plans []models.Plan
	err := s.db.WithContext(ctx).Order("price_monthly").Find(&plans).Error
	return plans, errors.Wrap(err, "list plans")
}

func (s *AdminService) CreatePlan(ctx context.Context, in PlanInput) (*models.Plan, error) {
	plan := models.Plan{MaxStaffCount: 5, AllowOnlineBooking: true}
	if err := applyPlan(&plan, in); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&plan).Error; err != nil {
		return nil, errors.Wrap(err, "create plan")
	}
	return &plan, nil
}

func (s *AdminService) findPlan(db *gorm.DB, id uuid.UUID) (*models.Plan, error) {
	var plan models.Plan
	if err := db.First(&plan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("Plan not found")
		}
		return nil, errors.Wrap(err, "load plan")
	}
	return &plan, nil
}

func (s *AdminService) UpdatePlan(ctx context.Context, id uuid.UUID, in PlanInput) (*models.Plan, error) {
	db := s.db.WithContext(ctx)
	plan, err := s.findPlan(db, id)
	if err != nil {
		return nil, err
	}
	if err := applyPlan(plan, in); err != nil {
		return nil, err
	}
	if err := db.Save(plan).Error; err != nil {
		return nil, errors.Wrap(err, "save plan")
	}
	return plan, nil
}

// DeletePlan refuses while any salon still subscribes to the plan.
func (s *AdminService) DeletePlan(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan, err := s.findPlan(tx, id)
		if err != nil {
			return err
		}
		var salons int64
		if err := tx.Model(&models.Salon{}).Where("plan_id = ?", id).Count(&salons).Error; err != nil {
			return errors.Wrap(err, "count salons")
		}
		if salons > 0 {
			return ConflictError(CodePlanInUse, "Plan is assigned to salons and cannot be deleted")
		}
		return errors.Wrap(tx.Delete(plan).Error, "delete plan")
	})
}

type SalonSummary struct {
	Salon     models.Salon
	PlanName  string
	UserCount int64
	Active    bool
}

func (s *AdminService) ListSalons(ctx context.Context) ([]SalonSummary, error) {
	db := s.db.WithContext(ctx)

	var salons []models.Salon
	if err := db.Preload("Plan").Order("created_at DESC").Find(&salons).Error; err != nil {
		return nil, errors.Wrap(err, "list salons")
	}

	type userCount struct {
		SalonID uuid.UUID
		Total   int64
	}
	var counts []userCount
	err := db.Model(&models.User{}).
		Select("salon_id, COUNT(*) AS total").
		Where("salon_id IS NOT NULL").
		Group("salon_id").
		Scan(&counts).Error
	if err != nil {
		return nil, errors.Wrap(err, "count users")
	}
	bySalon := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		bySalon[c.SalonID] = c.Total
	}

	now := s.now()
	summaries := make([]SalonSummary, 0, len(salons))
	for _, salon := range salons {
		summary := SalonSummary{
			Salon:     salon,
			UserCount: bySalon[salon.ID],
			Active:    salon.IsActive(now),
		}
		if salon.Plan != nil {
			summary.PlanName = salon.Plan.Name
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

type SalonUpdate struct {
	Name               *string
	PlanID             *uuid.UUID
	SubscriptionEndsAt *time.Time
}

func (s *AdminService) UpdateSalon(ctx context.Context, id uuid.UUID, in SalonUpdate) (*models.Salon, error) {
	db := s.db.WithContext(ctx)
	salon, err := findSalon(db, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		salon.Name = *in.Name
	}
	if in.PlanID != nil {
		if _, err := s.findPlan(db, *in.PlanID); err != nil {
			return nil, err
		}
		salon.PlanID = in.PlanID
	}
	if in.SubscriptionEndsAt != nil {
		endsAt := utils.StripZone(*in.SubscriptionEndsAt)
		salon.SubscriptionEndsAt = &endsAt
	}
	if err := db.Omit("Plan").Save(salon).Error; err != nil {
		return nil, errors.Wrap(err, "save salon")
	}

	s.log.Info("salon updated by admin", zap.String("salon_id", id.String()))
	return findSalon(db, id)
}

func findSalon(db *gorm.DB, id uuid.UUID) (*models.Salon, error) {
	var salon models.Salon
	if err := db.Preload("Plan").First(&salon, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("Salon not found")
		}
		return nil, errors.Wrap(err, "load salon")
	}
	return &salon, nil
}

// DeleteSalon removes the tenant and everything it owns in one transaction.
func (s *AdminService) DeleteSalon(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findSalon(tx, id); err != nil {
			return err
		}

		users := tx.Model(&models.User{}).Select("id").Where("salon_id = ?", id)
		appointments := tx.Unscoped().Model(&models.Appointment{}).Select("id").Where("salon_id = ?", id)

		steps := []struct {
			name  string
			query *gorm.DB
			model interface{}
		}{
			{"appointment services", tx.Where("appointment_id IN (?)", appointments), &models.AppointmentService{}},
			{"payments", tx.Where("salon_id = ?", id), &models.Payment{}},
			{"reminder logs", tx.Where("salon_id = ?", id), &models.ReminderLog{}},
			{"appointments", tx.Unscoped().Where("salon_id = ?", id), &models.Appointment{}},
			{"expenses", tx.Unscoped().Where("salon_id = ?", id), &models.Expense{}},
			{"working hours", tx.Where("user_id IN (?)", users), &models.WorkingHour{}},
			{"time offs", tx.Where("user_id IN (?)", users), &models.TimeOff{}},
			{"impersonation audits", tx.Where("salon_id = ?", id), &models.ImpersonationAudit{}},
			{"customers", tx.Where("salon_id = ?", id), &models.Customer{}},
			{"services", tx.Where("salon_id = ?", id), &models.Service{}},
			{"products", tx.Where("salon_id = ?", id), &models.Product{}},
			{"users", tx.Where("salon_id = ?", id), &models.User{}},
			{"salon", tx.Where("id = ?", id), &models.Salon{}},
		}
		for _, step := range steps {
			if err := step.query.Delete(step.model).Error; err != nil {
				return errors.Wrapf(err, "delete %s", step.name)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("salon deleted", zap.String("salon_id", id.String()))
	return nil
}

type PlanCount struct {
	PlanName string `json:"plan_name"`
	Salons   int64  `json:"salons"`
}

type Dashboard struct {
	TotalSalons    int64
	ActiveSalons   int64
	TotalUsers     int64
	MonthlyRevenue decimal.Decimal
	RecentSalons   []models.Salon
	SalonsPerPlan  []PlanCount
}

// Dashboard summarises tenants. MonthlyRevenue is the sum of list prices of the
// plans active salons subscribe to.
func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	db := s.db.WithContext(ctx)
	now := s.now()
	out := &Dashboard{MonthlyRevenue: decimal.Zero}

	if err := db.Model(&models.Salon{}).Count(&out.TotalSalons).Error; err != nil {
		return nil, errors.Wrap(err, "count salons")
	}
	if err := db.Model(&models.User{}).Count(&out.TotalUsers).Error; err != nil {
		return nil, errors.Wrap(err, "count users")
	}

	var salons []models.Salon
	if err := db.Preload("Plan").Order("created_at DESC").Find(&salons).Error; err != nil {
		return nil, errors.Wrap(err, "load salons")
	}

	perPlan := map[string]int64{}
	for i, salon := range salons {
		if i < 5 {
			out.RecentSalons = append(out.RecentSalons, salon)
		}
		name := "No plan"
		if salon.Plan != nil {
			name = salon.Plan.Name
		}
		perPlan[name]++

		if !salon.IsActive(now) {
			continue
		}
		out.ActiveSalons++
		if salon.Plan != nil {
			out.MonthlyRevenue = out.MonthlyRevenue.Add(salon.Plan.PriceMonthly)
		}
	}

	var plans []models.Plan
	if err := db.Order("price_monthly").Find(&plans).Error; err != nil {
		return nil, errors.Wrap(err, "load plans")
	}
	for _, plan := range plans {
		out.SalonsPerPlan = append(out.SalonsPerPlan, PlanCount{PlanName: plan.Name, Salons: perPlan[plan.Name]})
	}
	if n := perPlan["No plan"]; n > 0 {
		out.SalonsPerPlan = append(out.SalonsPerPlan, PlanCount{PlanName: "No plan", Salons: n})
	}
	return out, nil
}

// Impersonate opens an audited session as the salon's owner.
func (s *AdminService) Impersonate(ctx context.Context, actor *auth.Actor, salonID uuid.UUID) (*Session, error) {
	if !actor.Can.ManagePlatform || actor.IsImpersonating() {
		return nil, ForbiddenError("Only platform admins can impersonate")
	}

	var target models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findSalon(tx, salonID); err != nil {
			return err
		}
		err := tx.Where("salon_id = ? AND role = ?", salonID, models.RoleSalonAdmin).
			Order("created_at").
			First(&target).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("Salon has no admin user to impersonate")
			}
			return errors.Wrap(err, "load salon admin")
		}

		audit := models.ImpersonationAudit{
			AdminID:      actor.UserID,
			TargetUserID: target.ID,
			SalonID:      salonID,
			StartedAt:    s.now(),
		}
		return errors.Wrap(tx.Create(&audit).Error, "record impersonation")
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.IssueImpersonation(&target, actor.UserID)
	if err != nil {
		return nil, err
	}

	s.log.Warn("impersonation started",
		zap.String("admin_id", actor.UserID.String()),
		zap.String("target_user_id", target.ID.String()),
		zap.String("salon_id", salonID.String()),
	)
	return &Session{Token: token, User: &target}, nil
}

// LeaveImpersonation closes the open audit rows and hands back an admin token.
func (s *AdminService) LeaveImpersonation(ctx context.Context, actor *auth.Actor) (*Session, error) {
	if !actor.IsImpersonating() {
		return nil, ConflictError(CodeNotImpersonating, "You are not impersonating anyone")
	}
	adminID := *actor.ImpersonatedBy

	var admin models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&admin, "id = ? AND role = ?", adminID, models.RoleAdmin).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("Admin user not found")
			}
			return errors.Wrap(err, "load admin")
		}
		return errors.Wrap(tx.Model(&models.ImpersonationAudit{}).
			Where("admin_id = ? AND target_user_id = ? AND ended_at IS NULL", adminID, actor.UserID).
			Update("ended_at", s.now()).Error, "close impersonation")
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(&admin)
	if err != nil {
		return nil, err
	}

	s.log.Info("impersonation ended",
		zap.String("admin_id", adminID.String()),
		zap.String("target_user_id", actor.UserID.String()),
	)
	return &Session{Token: token, User: &admin}, nil
}
