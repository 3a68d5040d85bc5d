// Package server holds configuration for the operational HTTP surface
// (health, pass trigger, last-run status). It intentionally contains no
// handler logic; features register their own routes through core/loader.
package server
