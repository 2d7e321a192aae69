package services

import (
	"context"
	"errors"
	"salonbook-backend/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type sentMessage struct {
	to, body string
}

type fakeSender struct {
	sent []sentMessage
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, body string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, sentMessage{to: to, body: body})
	return "SM123", nil
}

func newTestReminders(db *gorm.DB, sender MessageSender) *ReminderService {
	s := NewReminderService(db, zap.NewNop(), sender)
	s.now = fixedClock(testNow)
	return s
}

func TestSendDailyReminders(t *testing.T) {
	db := newTestDB(t)
	f := newSalonFixture(t, db, "alpha")
	noSMS := newSalonFixture(t, db, "beta")
	require.NoError(t, db.Model(&noSMS.plan).Update("allow_sms_notifications", false).Error)
	booking := newTestBooking(db, false)

	tomorrow := f.book(t, booking, f.stylist, at(8, 10, 0), f.haircut)
	f.book(t, booking, f.stylist, at(9, 10, 0), f.haircut)
	cancelled := f.book(t, booking, f.stylist, at(8, 15, 0), f.haircut)
	status := models.StatusCancelled
	_, err := booking.Update(ctx, f.ownerActor(), cancelled.ID, UpdateAppointmentInput{Status: &status})
	require.NoError(t, err)
	noSMS.book(t, booking, noSMS.stylist, at(8, 10, 0), noSMS.haircut)

	sender := &fakeSender{}
	s := newTestReminders(db, sender)

	summary, err := s.SendDailyReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReminderSummary{Sent: 1}, summary)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, f.customer.Phone, sender.sent[0].to)
	assert.Contains(t, sender.sent[0].body, "Salon alpha")
	assert.Contains(t, sender.sent[0].body, "10:00")
	assert.Contains(t, sender.sent[0].body, f.stylist.Name)

	var logs []models.ReminderLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, tomorrow.ID, logs[0].AppointmentID)
	assert.Equal(t, models.ReminderSent, logs[0].Status)

	summary, err = s.SendDailyReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReminderSummary{}, summary, "appointments already reminded are skipped")
	assert.Len(t, sender.sent, 1)
}

func TestSendDailyRemindersRecordsFailures(t *testing.T) {
	db := newTestDB(t)
	f := newSalonFixture(t, db, "alpha")
	booking := newTestBooking(db, false)
	f.book(t, booking, f.stylist, at(8, 10, 0), f.haircut)
	f.book(t, booking, f.owner, at(8, 11, 0), f.haircut)

	failing := &fakeSender{err: errors.New("invalid number")}
	summary, err := newTestReminders(db, failing).SendDailyReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReminderSummary{Failed: 2}, summary)

	var failed int64
	require.NoError(t, db.Model(&models.ReminderLog{}).Where("status = ? AND error_message = ?", models.ReminderFailed, "invalid number").Count(&failed).Error)
	assert.Equal(t, int64(2), failed)

	sender := &fakeSender{}
	summary, err = newTestReminders(db, sender).SendDailyReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReminderSummary{Sent: 2}, summary, "failed reminders are retried")
}

func TestReminderMessage(t *testing.T) {
	appointment := models.Appointment{
		StartTime: at(8, 14, 30),
		Customer:  &models.Customer{Name: "Zeynep"},
	}
	assert.Equal(t, "Hi Zeynep, this is a reminder of your appointment at Salon Alpha on Tue 08 Jan at 14:30.",
		ReminderMessage(appointment, "Salon Alpha"))

	appointment.Staff = &models.User{Name: "Mehmet"}
	assert.Equal(t, "Hi Zeynep, this is a reminder of your appointment at Salon Alpha on Tue 08 Jan at 14:30 with Mehmet.",
		ReminderMessage(appointment, "Salon Alpha"))
}

func TestStartSchedulerRejectsBadSpec(t *testing.T) {
	db := newTestDB(t)
	s := newTestReminders(db, &fakeSender{})

	_, err := s.StartScheduler("not a cron spec")
	require.Error(t, err)

	c, err := s.StartScheduler("0 9 * * *")
	require.NoError(t, err)
	c.Stop()
}
