package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Accounting AccountingConfig `mapstructure:"accounting"`
}

type ServerConfig struct {
	Port string `mapstructure:"SERVER_PORT"`
	Host string `mapstructure:"SERVER_HOST"`
	Env  string `mapstructure:"ENV"`
}

type DatabaseConfig struct {
	URL             string `mapstructure:"DATABASE_URL"`
	MaxOpenConns    int    `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int    `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime string `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SchedulerConfig struct {
	AccrualSpec string `mapstructure:"SCHEDULER_ACCRUAL_SPEC"`
	SweepSpec   string `mapstructure:"SCHEDULER_SWEEP_SPEC"`
	Timezone    string `mapstructure:"SCHEDULER_TIMEZONE"`
}

type AccountingConfig struct {
	// Interest below this many currency units advances dates only,
	// without posting.
	MinPostableInterest string `mapstructure:"MIN_POSTABLE_INTEREST"`
	// Days ahead the sweep looks for upcoming-installment reminders.
	ReminderWindowDays int `mapstructure:"REMINDER_WINDOW_DAYS"`
	// How long notification dedup keys are held.
	NotificationDedupTTL string `mapstructure:"NOTIFICATION_DEDUP_TTL"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SCHEDULER_ACCRUAL_SPEC", "0 0 1 * * *")
	viper.SetDefault("SCHEDULER_SWEEP_SPEC", "0 0 6 * * *")
	viper.SetDefault("SCHEDULER_TIMEZONE", "UTC")
	viper.SetDefault("MIN_POSTABLE_INTEREST", "0.01")
	viper.SetDefault("REMINDER_WINDOW_DAYS", 3)
	viper.SetDefault("NOTIFICATION_DEDUP_TTL", "48h")

	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Accounting.ReminderWindowDays < 0 {
		return fmt.Errorf("REMINDER_WINDOW_DAYS must not be negative")
	}

	if _, err := decimal.NewFromString(c.Accounting.MinPostableInterest); err != nil {
		return fmt.Errorf("MIN_POSTABLE_INTEREST must be a valid decimal: %w", err)
	}

	if _, err := time.ParseDuration(c.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("DATABASE_CONN_MAX_LIFETIME must be a valid duration: %w", err)
	}

	if _, err := time.ParseDuration(c.Accounting.NotificationDedupTTL); err != nil {
		return fmt.Errorf("NOTIFICATION_DEDUP_TTL must be a valid duration: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// GetMinPostableInterest returns the posting threshold as decimal
func (c *Config) GetMinPostableInterest() decimal.Decimal {
	v, _ := decimal.NewFromString(c.Accounting.MinPostableInterest)
	return v
}

// GetConnMaxLifetime returns the pool lifetime as duration
func (c *Config) GetConnMaxLifetime() time.Duration {
	d, _ := time.ParseDuration(c.Database.ConnMaxLifetime)
	return d
}

// GetNotificationDedupTTL returns the dedup key TTL as duration
func (c *Config) GetNotificationDedupTTL() time.Duration {
	d, _ := time.ParseDuration(c.Accounting.NotificationDedupTTL)
	return d
}
