// Package ops is the operational surface: it runs full passes under the
// execution lock and exposes trigger and status endpoints for the
// server mode.
package ops
