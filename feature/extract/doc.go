// Package extract turns loosely structured booking platform emails into
// typed reservation signals and aggregates them for reconciliation.
//
// The flow is Parse → Aggregate: Parse maps one email to at most one
// RawSignal (platform detection, reservation ID extraction, subject
// classification, confirmation field extraction); Aggregate collapses a
// batch of signals into the canceled key set and the latest surviving
// confirmation per key.
//
// Everything here is side-effect-free. Unrecognized input is not an error:
// free-text mailboxes are noisy, and a message that fails any extraction
// step is silently ignored.
package extract
