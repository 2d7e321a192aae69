package services

import (
	"context"
	"salonbook-backend/auth"
	"salonbook-backend/models"
	"salonbook-backend/utils"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ExpenseService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewExpenseService(db *gorm.DB, log *zap.Logger) *ExpenseService {
	return &ExpenseService{db: db, log: log}
}

// ExpenseInput amounts are major units; nil fields are left unchanged on update.
type ExpenseInput struct {
	Category    *string
	Amount      *decimal.Decimal
	Description *string
	ExpenseDate *time.Time
}

func validateExpense(e *models.Expense) error {
	if !slices.Contains(models.ExpenseCategories, e.Category) {
		return ValidationError("category", "must be one of: personnel rent utility other")
	}
	if e.Amount <= 0 {
		return ValidationError("amount", "must be greater than 0")
	}
	if e.ExpenseDate.IsZero() {
		return ValidationError("expense_date", "is required")
	}
	return nil
}

func applyExpense(e *models.Expense, in ExpenseInput) {
	if in.Category != nil {
		e.Category = *in.Category
	}
	if in.Amount != nil {
		e.Amount = utils.ToMinor(*in.Amount)
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	if in.ExpenseDate != nil {
		e.ExpenseDate = utils.BeginningOfDay(utils.StripZone(*in.ExpenseDate))
	}
}

func (s *ExpenseService) List(ctx context.Context, actor *auth.Actor, from, to time.Time) ([]models.Expense, error) {
	var expenses []models.Expense
	err := s.db.WithContext(ctx).
		Where("salon_id = ? AND expense_date BETWEEN ? AND ?", actor.SalonID, from, to).
		Order("expense_date DESC").
		Find(&expenses).Error
	return expenses, errors.Wrap(err, "list expenses")
}

func (s *ExpenseService) Create(ctx context.Context, actor *auth.Actor, in ExpenseInput) (*models.Expense, error) {
	expense := models.Expense{SalonID: actor.SalonID}
	applyExpense(&expense, in)
	if err := validateExpense(&expense); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&expense).Error; err != nil {
		return nil, errors.Wrap(err, "create expense")
	}

	s.log.Info("expense recorded",
		zap.String("expense_id", expense.ID.String()),
		zap.String("category", expense.Category),
		zap.Int64("amount", expense.Amount),
	)
	return &expense, nil
}

func (s *ExpenseService) find(db *gorm.DB, actor *auth.Actor, id uuid.UUID) (*models.Expense, error) {
	var expense models.Expense
	if err := db.First(&expense, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("Expense not found")
		}
		return nil, errors.Wrap(err, "load expense")
	}
	if expense.SalonID != actor.SalonID {
		return nil, errForeignSalon
	}
	return &expense, nil
}

func (s *ExpenseService) Update(ctx context.Context, actor *auth.Actor, id uuid.UUID, in ExpenseInput) (*models.Expense, error) {
	db := s.db.WithContext(ctx)
	expense, err := s.find(db, actor, id)
	if err != nil {
		return nil, err
	}
	applyExpense(expense, in)
	if err := validateExpense(expense); err != nil {
		return nil, err
	}
	if err := db.Save(expense).Error; err != nil {
		return nil, errors.Wrap(err, "save expense")
	}
	return expense, nil
}

func (s *ExpenseService) Delete(ctx context.Context, actor *auth.Actor, id uuid.UUID) error {
	db := s.db.WithContext(ctx)
	expense, err := s.find(db, actor, id)
	if err != nil {
		return err
	}
	return errors.Wrap(db.Delete(expense).Error, "delete expense")
}
