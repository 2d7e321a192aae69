package services

import (
	"context"
	"regexp"
	"salonbook-backend/auth"
	"salonbook-backend/models"
	"salonbook-backend/utils"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const trialPeriod = 14 * 24 * time.Hour

var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{1,61}[a-z0-9])?$`)

// AccountService registers salons, logs users in and describes the current user.
type AccountService struct {
	db     *gorm.DB
	log    *zap.Logger
	tokens *auth.TokenIssuer
	now    func() time.Time
}

func NewAccountService(db *gorm.DB, log *zap.Logger, tokens *auth.TokenIssuer) *AccountService {
	return &AccountService{
		db:     db,
		log:    log,
		tokens: tokens,
		now:    func() time.Time { return utils.StripZone(time.Now()) },
	}
}

type RegisterInput struct {
	Name         string
	Email        string
	Phone        string
	Password     string
	SalonName    string
	Subdomain    string
	SalonAddress string
	Settings     models.JSONB
}

// Session is a user together with a freshly signed token.
type Session struct {
	Token string
	User  *models.User
}

// Register creates a salon on the cheapest plan with a trial subscription and
// its first salon_admin.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Subdomain = strings.ToLower(strings.TrimSpace(in.Subdomain))
	if !subdomainPattern.MatchString(in.Subdomain) {
		return nil, ValidationError("subdomain", "must be lowercase letters, digits and dashes")
	}
	if !utils.ValidatePhone(in.Phone) {
		return nil, ValidationError("phone", "must be a valid phone number")
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureEmailFree(tx, in.Email); err != nil {
			return err
		}
		var taken int64
		if err := tx.Model(&models.Salon{}).Where("subdomain = ?", in.Subdomain).Count(&taken).Error; err != nil {
			return errors.Wrap(err, "check subdomain")
		}
		if taken > 0 {
			return ConflictError(CodeSubdomainTaken, "Subdomain already taken")
		}

		endsAt := s.now().Add(trialPeriod)
		salon := models.Salon{
			Name:               in.SalonName,
			Subdomain:          in.Subdomain,
			Phone:              in.Phone,
			Address:            in.SalonAddress,
			Settings:           in.Settings,
			SubscriptionEndsAt: &endsAt,
		}
		if salon.Settings == nil {
			salon.Settings = defaultSalonSettings()
		}

		var plan models.Plan
		err := tx.Order("price_monthly").First(&plan).Error
		switch {
		case err == nil:
			salon.PlanID = &plan.ID
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return errors.Wrap(err, "load default plan")
		}

		if err := tx.Omit("Plan").Create(&salon).Error; err != nil {
			return errors.Wrap(err, "create salon")
		}

		user = models.User{
			Name:       in.Name,
			Email:      in.Email,
			Phone:      in.Phone,
			Password:   in.Password,
			Role:       models.RoleSalonAdmin,
			SalonID:    &salon.ID,
			IsBookable: true,
		}
		return createUser(tx, &user)
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(&user)
	if err != nil {
		return nil, err
	}

	s.log.Info("salon registered",
		zap.String("salon_id", user.SalonID.String()),
		zap.String("user_id", user.ID.String()),
	)
	return &Session{Token: token, User: &user}, nil
}

func defaultSalonSettings() models.JSONB {
	return models.JSONB{
		"currency": "TRY",
		"timezone": "Europe/Istanbul",
	}
}

var errInvalidCredentials = &Error{Kind: KindValidation, Message: "Invalid credentials", Fields: map[string]string{"email": "invalid email or password"}}

func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, errors.Wrap(err, "load user")
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, errInvalidCredentials
	}

	now := s.now()
	if err := db.Model(&user).Update("last_login", now).Error; err != nil {
		return nil, errors.Wrap(err, "record login")
	}
	user.LastLogin = &now

	token, err := s.tokens.Issue(&user)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: &user}, nil
}

// Me loads the actor's user with salon and plan.
func (s *AccountService) Me(ctx context.Context, actor *auth.Actor) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Salon.Plan").First(&user, "id = ?", actor.UserID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("User not found")
		}
		return nil, errors.Wrap(err, "load user")
	}
	return &user, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := utils.HashPassword(password)
	return hashed, errors.Wrap(err, "hash password")
}
