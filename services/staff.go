package services

import (
	"context"
	"salonbook-backend/auth"
	"salonbook-backend/models"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Salons without a plan can only hold their owner.
const defaultMaxStaff = 1

var staffRoles = []string{models.RoleSalonAdmin, models.RoleStaff}

type StaffService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewStaffService(db *gorm.DB, log *zap.Logger) *StaffService {
	return &StaffService{db: db, log: log}
}

type StaffInput struct {
	Name       string
	Email      string
	Phone      string
	Password   string
	Role       string
	IsBookable *bool
}

type StaffUpdate struct {
	Name       *string
	Phone      *string
	Role       *string
	IsBookable *bool
	Password   *string
}

func (s *StaffService) List(ctx context.Context, actor *auth.Actor) ([]models.User, error) {
	var staff []models.User
	err := s.db.WithContext(ctx).
		Where("salon_id = ? AND role IN ?", actor.SalonID, staffRoles).
		Order("name").
		Find(&staff).Error
	return staff, errors.Wrap(err, "list staff")
}

// Create adds a staff member, refusing once the salon plan's staff cap is reached.
func (s *StaffService) Create(ctx context.Context, actor *auth.Actor, in StaffInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Role == "" {
		in.Role = models.RoleStaff
	}
	if in.Role != models.RoleStaff && in.Role != models.RoleSalonAdmin {
		return nil, ValidationError("role", "must be one of: salon_admin staff")
	}

	user := models.User{
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Password:   in.Password,
		Role:       in.Role,
		SalonID:    &actor.SalonID,
		IsBookable: true,
	}
	if in.IsBookable != nil {
		user.IsBookable = *in.IsBookable
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var salon models.Salon
		if err := tx.Preload("Plan").First(&salon, "id = ?", actor.SalonID).Error; err != nil {
			return errors.Wrap(err, "load salon")
		}
		limit := defaultMaxStaff
		if salon.Plan != nil {
			limit = salon.Plan.MaxStaffCount
		}

		var count int64
		err := tx.Model(&models.User{}).
			Where("salon_id = ? AND role IN ?", actor.SalonID, staffRoles).
			Count(&count).Error
		if err != nil {
			return errors.Wrap(err, "count staff")
		}
		if count >= int64(limit) {
			return ConflictError(CodeStaffLimitReached, "Your plan does not allow more staff members")
		}

		if err := ensureEmailFree(tx, in.Email); err != nil {
			return err
		}
		return createUser(tx, &user)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("staff member created",
		zap.String("user_id", user.ID.String()),
		zap.String("salon_id", actor.SalonID.String()),
		zap.String("role", user.Role),
	)
	return &user, nil
}

func (s *StaffService) Update(ctx context.Context, actor *auth.Actor, id uuid.UUID, in StaffUpdate) (*models.User, error) {
	db := s.db.WithContext(ctx)
	staff, err := findStaff(db, actor.SalonID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.Role != nil {
		if *in.Role != models.RoleStaff && *in.Role != models.RoleSalonAdmin {
			return nil, ValidationError("role", "must be one of: salon_admin staff")
		}
		if staff.ID == actor.UserID && *in.Role != staff.Role {
			return nil, ForbiddenError("You cannot change your own role")
		}
		updates["role"] = *in.Role
	}
	if in.IsBookable != nil {
		updates["is_bookable"] = *in.IsBookable
	}
	if in.Password != nil {
		hashed, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hashed
	}
	if len(updates) == 0 {
		return staff, nil
	}

	if err := db.Model(staff).Updates(updates).Error; err != nil {
		return nil, errors.Wrap(err, "update staff")
	}
	return findStaff(db, actor.SalonID, id)
}

// Delete removes a staff member with their schedule. Staff with appointment history
// must be made unbookable instead.
func (s *StaffService) Delete(ctx context.Context, actor *auth.Actor, id uuid.UUID) error {
	if id == actor.UserID {
		return ForbiddenError("You cannot delete your own account")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findStaff(tx, actor.SalonID, id); err != nil {
			return err
		}

		var booked int64
		if err := tx.Unscoped().Model(&models.Appointment{}).Where("staff_id = ?", id).Count(&booked).Error; err != nil {
			return errors.Wrap(err, "count appointments")
		}
		if booked > 0 {
			return ConflictError(CodeStaffHasAppointments, "Staff member has appointments; mark them as not bookable instead")
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.WorkingHour{}).Error; err != nil {
			return errors.Wrap(err, "delete working hours")
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.TimeOff{}).Error; err != nil {
			return errors.Wrap(err, "delete time offs")
		}
		return errors.Wrap(tx.Delete(&models.User{}, "id = ?", id).Error, "delete staff")
	})
	if err != nil {
		return err
	}

	s.log.Info("staff member deleted", zap.String("user_id", id.String()))
	return nil
}

func ensureEmailFree(tx *gorm.DB, email string) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return errors.Wrap(err, "check email")
	}
	if count > 0 {
		return ConflictError(CodeEmailTaken, "Email already registered")
	}
	return nil
}

func createUser(tx *gorm.DB, user *models.User) error {
	if err := tx.Omit("Salon").Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ConflictError(CodeEmailTaken, "Email already registered")
		}
		return errors.Wrap(err, "create user")
	}
	return nil
}
