// Package reminder mails guests about their upcoming stay: the gate
// code once the booking is a day old, and a pre-arrival note the day
// before check-in.
package reminder
