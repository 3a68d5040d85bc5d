package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"booking-mirror/core/database"
	"booking-mirror/core/lock"
	"booking-mirror/core/logger"
	"booking-mirror/core/server"
	"booking-mirror/core/storage"
	"booking-mirror/feature/extract"
	"booking-mirror/feature/mailbox"
	"booking-mirror/feature/reminder"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the operational HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the calendar event database.
	Database database.Config `mapstructure:"database"`
	// Mailbox holds configuration for the mailbox dump and labeling.
	Mailbox mailbox.Config `mapstructure:"mailbox"`
	// Platforms holds the per-platform senders, markers and tables.
	Platforms extract.Config `mapstructure:"platforms"`
	// Reminder holds configuration for the guest reminder mailer.
	Reminder reminder.Config `mapstructure:"reminder"`

	// RegistryPrefix is the object key prefix of the ledger tables.
	RegistryPrefix string `mapstructure:"registry_prefix" default:"registry"`
	// Timezone is the display zone for ledger timestamps.
	Timezone string `mapstructure:"timezone" default:"Asia/Tokyo"`
	// TickInterval is the scheduler interval between passes.
	TickInterval string `mapstructure:"tick_interval" default:"1h"`
	// LockWaitSeconds bounds the wait for the execution lock.
	LockWaitSeconds int `mapstructure:"lock_wait_seconds" default:"30"`
}

// Location resolves the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Tick parses the scheduler interval.
func (c *Config) Tick() (time.Duration, error) {
	d, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid tick_interval %q: %w", c.TickInterval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("tick_interval must be positive, got %q", c.TickInterval)
	}
	return d, nil
}

// LockWait returns the bounded lock wait.
func (c *Config) LockWait() time.Duration {
	if c.LockWaitSeconds <= 0 {
		return lock.DefaultWait
	}
	return time.Duration(c.LockWaitSeconds) * time.Second
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Platform defaults carry display strings the tag binder cannot
	// express per instance; unset fields fall back here.
	config.Platforms = config.Platforms.WithDefaults()

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
