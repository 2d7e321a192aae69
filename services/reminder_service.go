package services

import (
	"context"
	"fmt"
	"salonbook-backend/models"
	"salonbook-backend/utils"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MessageSender delivers one text message and returns the provider's message id.
type MessageSender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

func (t *TwilioSender) Send(ctx context.Context, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", errors.Wrap(err, "twilio create message")
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// ReminderService texts customers the day before their appointment.
type ReminderService struct {
	db     *gorm.DB
	log    *zap.Logger
	sender MessageSender
	now    func() time.Time
}

func NewReminderService(db *gorm.DB, log *zap.Logger, sender MessageSender) *ReminderService {
	return &ReminderService{
		db:     db,
		log:    log,
		sender: sender,
		now:    func() time.Time { return utils.StripZone(time.Now()) },
	}
}

// StartScheduler runs SendDailyReminders on the given cron spec. The caller stops
// the returned cron on shutdown.
func (s *ReminderService) StartScheduler(spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if _, err := s.SendDailyReminders(context.Background()); err != nil {
			s.log.Error("daily reminders failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, errors.Wrapf(err, "invalid reminder schedule %q", spec)
	}

	c.Start()
	s.log.Info("reminder scheduler started", zap.String("schedule", spec))
	return c, nil
}

type ReminderSummary struct {
	Sent   int
	Failed int
}

// SendDailyReminders texts every customer with a confirmed appointment tomorrow at a
// salon whose plan includes SMS. Appointments that already have a sent reminder are
// skipped, and a failed message does not stop the rest.
func (s *ReminderService) SendDailyReminders(ctx context.Context) (ReminderSummary, error) {
	var summary ReminderSummary
	db := s.db.WithContext(ctx)
	s.log.Info("starting daily reminder processing")

	var salons []models.Salon
	err := db.Joins("JOIN plans ON plans.id = salons.plan_id").
		Where("plans.allow_sms_notifications = ?", true).
		Find(&salons).Error
	if err != nil {
		return summary, errors.Wrap(err, "load salons")
	}
	if len(salons) == 0 {
		return summary, nil
	}

	salonNames := make(map[uuid.UUID]string, len(salons))
	ids := make([]uuid.UUID, 0, len(salons))
	for _, salon := range salons {
		salonNames[salon.ID] = salon.Name
		ids = append(ids, salon.ID)
	}

	from, to := UpcomingWindow(s.now(), 1)
	alreadySent := db.Model(&models.ReminderLog{}).
		Select("appointment_id").
		Where("status = ?", models.ReminderSent)

	var appointments []models.Appointment
	err = db.Preload("Customer").
		Preload("Staff").
		Where("salon_id IN ? AND status = ? AND start_time BETWEEN ? AND ?",
			ids, models.StatusConfirmed, from, to).
		Where("id NOT IN (?)", alreadySent).
		Order("start_time").
		Find(&appointments).Error
	if err != nil {
		return summary, errors.Wrap(err, "load appointments")
	}

	for _, appointment := range appointments {
		if appointment.Customer == nil {
			continue
		}
		if s.remind(ctx, appointment, salonNames[appointment.SalonID]) {
			summary.Sent++
		} else {
			summary.Failed++
		}
	}

	s.log.Info("daily reminder processing completed",
		zap.Int("sent", summary.Sent),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (s *ReminderService) remind(ctx context.Context, appointment models.Appointment, salonName string) bool {
	customer := appointment.Customer
	message := ReminderMessage(appointment, salonName)

	status := models.ReminderSent
	errorMsg := ""
	sid, err := s.sender.Send(ctx, customer.Phone, message)
	if err != nil {
		s.log.Warn("failed to send reminder",
			zap.String("appointment_id", appointment.ID.String()),
			zap.String("phone", customer.Phone),
			zap.Error(err),
		)
		status = models.ReminderFailed
		errorMsg = err.Error()
	} else {
		s.log.Info("reminder sent",
			zap.String("appointment_id", appointment.ID.String()),
			zap.String("sid", sid),
		)
	}

	reminderLog := models.ReminderLog{
		SalonID:       appointment.SalonID,
		AppointmentID: appointment.ID,
		CustomerID:    customer.ID,
		Channel:       "sms",
		Message:       message,
		Status:        status,
		ErrorMessage:  errorMsg,
		SentAt:        s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&reminderLog).Error; err != nil {
		s.log.Error("failed to log reminder",
			zap.String("appointment_id", appointment.ID.String()),
			zap.Error(err),
		)
	}
	return status == models.ReminderSent
}

func ReminderMessage(appointment models.Appointment, salonName string) string {
	message := fmt.Sprintf("Hi %s, this is a reminder of your appointment at %s on %s at %s",
		appointment.Customer.Name,
		salonName,
		appointment.StartTime.Format("Mon 02 Jan"),
		appointment.StartTime.Format("15:04"),
	)
	if appointment.Staff != nil {
		message += " with " + appointment.Staff.Name
	}
	return message + "."
}
