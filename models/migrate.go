package models

import "gorm.io/gorm"

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Plan{},
		&Salon{},
		&User{},
		&WorkingHour{},
		&TimeOff{},
		&Customer{},
		&Service{},
		&Product{},
		&Appointment{},
		&AppointmentService{},
		&Payment{},
		&Expense{},
		&ReminderLog{},
		&ImpersonationAudit{},
	)
}
