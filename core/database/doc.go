// Package database provides the MySQL connection used by the calendar event
// store.
//
// It wraps GORM connection setup with sane pool limits and DSN-level
// timeouts so a slow or unreachable database cannot hang a pass.
package database
