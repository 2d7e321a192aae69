package config

import (
	"salonbook-backend/utils"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// WallClockNow is the salon-local time pinned to UTC, matching how appointment
// times are stored.
func WallClockNow() time.Time {
	return utils.StripZone(time.Now())
}

func ConnectDB(cfg *Config, log *zap.Logger) (*gorm.DB, error) {
	gormLogLevel := logger.Warn
	if !cfg.IsProduction() {
		gormLogLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DBURL), &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel),
		NowFunc:        WallClockNow,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Minute)

	log.Info("database connected")
	return db, nil
}
