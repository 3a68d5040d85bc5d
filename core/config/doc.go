// Package config provides configuration management for Booking Mirror.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file, with defaults declared as struct tags on
// the partial configs.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: operational HTTP server settings (port, API key)
//   - Database: MySQL connection details for the calendar event store
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: logging level and format
//   - Mailbox: mailbox dump prefix, processed label, search window
//   - Platforms: per-platform senders, subject markers, and tables
//   - Reminder: guest reminder toggles and templates
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
