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
	"gorm.io/gorm/clause"
)

type PaymentService struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

func NewPaymentService(db *gorm.DB, log *zap.Logger) *PaymentService {
	return &PaymentService{db: db, log: log, now: time.Now}
}

type CompletePaymentInput struct {
	Amount        decimal.Decimal
	PaymentMethod string
	TransactionID string
	Notes         *string
}

// CompleteWithPayment marks the appointment completed and records its payment in
// one transaction. The amount arrives in major units and is stored in minor units.
func (s *PaymentService) CompleteWithPayment(ctx context.Context, actor *auth.Actor, appointmentID uuid.UUID, in CompletePaymentInput) (*models.Appointment, *models.Payment, error) {
	if in.Amount.IsNegative() {
		return nil, nil, ValidationError("amount", "must not be negative")
	}
	if !slices.Contains(models.PaymentMethods, in.PaymentMethod) {
		return nil, nil, ValidationError("payment_method", "must be one of: cash credit_card debit_card online_payment")
	}

	var (
		appointment *models.Appointment
		payment     models.Payment
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		appointment, err = findAppointment(tx, actor.SalonID, appointmentID)
		if err != nil {
			return err
		}
		if !actor.CanViewCalendarOf(appointment.StaffID) {
			return errForeignSalon
		}

		var paid int64
		err = tx.Model(&models.Payment{}).
			Where("appointment_id = ? AND status = ?", appointment.ID, models.PaymentCompleted).
			Count(&paid).Error
		if err != nil {
			return errors.Wrap(err, "check payments")
		}
		if paid > 0 {
			return ConflictError(CodeAlreadyPaid, "This appointment already has a completed payment")
		}

		appointment.Status = models.StatusCompleted
		if in.Notes != nil {
			appointment.Notes = *in.Notes
		}
		if err := tx.Omit(clause.Associations).Save(appointment).Error; err != nil {
			return errors.Wrap(err, "complete appointment")
		}

		payment = models.Payment{
			SalonID:       appointment.SalonID,
			AppointmentID: &appointment.ID,
			CustomerID:    appointment.CustomerID,
			Amount:        utils.ToMinor(in.Amount),
			PaymentMethod: in.PaymentMethod,
			Status:        models.PaymentCompleted,
			TransactionID: in.TransactionID,
			CreatedAt:     utils.StripZone(s.now()),
		}
		return errors.Wrap(tx.Create(&payment).Error, "create payment")
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("appointment completed",
		zap.String("appointment_id", appointment.ID.String()),
		zap.String("payment_id", payment.ID.String()),
		zap.Int64("amount", payment.Amount),
		zap.String("method", payment.PaymentMethod),
	)
	return appointment, &payment, nil
}
