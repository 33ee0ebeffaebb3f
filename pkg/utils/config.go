package utils

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	Booking  BookingConfig
	Email    EmailConfig
	SMS      SMSConfig
	Notify   NotifyConfig
	Metrics  MetricsConfig
}

type AppConfig struct {
	Name     string
	Port     string
	Debug    bool
	LogPath  string
	Timezone string
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	AutoMigrate bool
}

type SessionConfig struct {
	ExpiryHours int
	CleanupCron string
}

type BookingConfig struct {
	MinDurationHours int
	MaxDurationHours int
	WorkingStart     string
	WorkingEnd       string
	AdvanceDays      int
}

type EmailConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	From       string
	FromName   string
	AdminEmail string
}

type SMSConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// Enabled reports whether Twilio credentials are present.
func (c SMSConfig) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.FromNumber != ""
}

type NotifyConfig struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	RetryDelay  time.Duration
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Location resolves the venue timezone, falling back to UTC.
func (c AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "venue-booking")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("TIMEZONE", "UTC")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("SESSION_CLEANUP_CRON", "@hourly")
	viper.SetDefault("BOOKING_MIN_DURATION_HOURS", 2)
	viper.SetDefault("BOOKING_MAX_DURATION_HOURS", 12)
	viper.SetDefault("BOOKING_WORKING_START", "08:00")
	viper.SetDefault("BOOKING_WORKING_END", "22:00")
	viper.SetDefault("BOOKING_ADVANCE_DAYS", 0)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("EMAIL_FROM_NAME", "Venue Bookings")
	viper.SetDefault("NOTIFY_WORKERS", 2)
	viper.SetDefault("NOTIFY_QUEUE_SIZE", 100)
	viper.SetDefault("NOTIFY_MAX_ATTEMPTS", 3)
	viper.SetDefault("NOTIFY_RETRY_DELAY", "2s")
	viper.SetDefault("METRICS_ENABLED", true)
	viper.SetDefault("METRICS_PATH", "/metrics")

	// .env is optional, plain environment variables are enough in containers
	if _, err := os.Stat(".env"); err == nil {
		if err := viper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:     viper.GetString("APP_NAME"),
			Port:     viper.GetString("PORT"),
			Debug:    viper.GetBool("DEBUG"),
			LogPath:  viper.GetString("LOG_PATH"),
			Timezone: viper.GetString("TIMEZONE"),
		},
		Database: DatabaseConfig{
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			Name:        viper.GetString("DB_NAME"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASS"),
			MaxConns:    viper.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
			CleanupCron: viper.GetString("SESSION_CLEANUP_CRON"),
		},
		Booking: BookingConfig{
			MinDurationHours: viper.GetInt("BOOKING_MIN_DURATION_HOURS"),
			MaxDurationHours: viper.GetInt("BOOKING_MAX_DURATION_HOURS"),
			WorkingStart:     viper.GetString("BOOKING_WORKING_START"),
			WorkingEnd:       viper.GetString("BOOKING_WORKING_END"),
			AdvanceDays:      viper.GetInt("BOOKING_ADVANCE_DAYS"),
		},
		Email: EmailConfig{
			Host:       viper.GetString("SMTP_HOST"),
			Port:       viper.GetInt("SMTP_PORT"),
			User:       viper.GetString("SMTP_USER"),
			Password:   viper.GetString("SMTP_PASS"),
			From:       viper.GetString("EMAIL_FROM"),
			FromName:   viper.GetString("EMAIL_FROM_NAME"),
			AdminEmail: viper.GetString("ADMIN_EMAIL"),
		},
		SMS: SMSConfig{
			AccountSID: viper.GetString("TWILIO_ACCOUNT_SID"),
			AuthToken:  viper.GetString("TWILIO_AUTH_TOKEN"),
			FromNumber: viper.GetString("TWILIO_PHONE_NUMBER"),
		},
		Notify: NotifyConfig{
			Workers:     viper.GetInt("NOTIFY_WORKERS"),
			QueueSize:   viper.GetInt("NOTIFY_QUEUE_SIZE"),
			MaxAttempts: viper.GetInt("NOTIFY_MAX_ATTEMPTS"),
			RetryDelay:  viper.GetDuration("NOTIFY_RETRY_DELAY"),
		},
		Metrics: MetricsConfig{
			Enabled: viper.GetBool("METRICS_ENABLED"),
			Path:    viper.GetString("METRICS_PATH"),
		},
	}

	return config, nil
}
