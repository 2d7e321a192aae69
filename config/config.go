package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBURL       string
	Environment string
	LogFile     string

	JWTSecret           string
	TokenTTL            time.Duration
	ImpersonationTTL    time.Duration
	RejectDoubleBooking bool
	CORSOrigins         []string
	ReminderCron        string
	TwilioAccountSID    string
	TwilioAuthToken     string
	TwilioFromNumber    string
}

// Load reads configuration from the environment, after an optional .env file.
func Load() (*Config, error) {
	// .env is optional; plain environment variables win in containers
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		DBURL:               os.Getenv("DB_URL"),
		Environment:         getEnv("ENV", "development"),
		LogFile:             os.Getenv("LOG_FILE"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		TokenTTL:            time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
		ImpersonationTTL:    time.Duration(getEnvInt("IMPERSONATION_EXPIRY_MINUTES", 60)) * time.Minute,
		RejectDoubleBooking: getEnvBool("REJECT_DOUBLE_BOOKING", false),
		CORSOrigins:         []string{getEnv("CORS_ORIGIN", "http://localhost:3000")},
		ReminderCron:        getEnv("REMINDER_CRON", "0 9 * * *"),
		TwilioAccountSID:    os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:     os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber:    os.Getenv("TWILIO_PHONE_NUMBER"),
	}

	if cfg.DBURL == "" {
		return nil, fmt.Errorf("DB_URL is required but not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// SMSEnabled reports whether Twilio credentials were supplied.
func (c *Config) SMSEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioFromNumber != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
