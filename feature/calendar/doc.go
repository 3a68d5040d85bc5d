// Package calendar mirrors the reservation ledger onto a calendar:
// pending future bookings become events, canceled bookings have their
// events retracted. The event store is pluggable; the default keeps
// events in a relational table.
package calendar
